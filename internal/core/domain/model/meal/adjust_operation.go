package meal

import (
	"fmt"
	"strings"

	"mealorder/internal/pkg/errs"
)

type AdjustOperation int

const (
	UnknownOperation AdjustOperation = iota
	Set
	Add
	Subtract
)

var operationNames = map[AdjustOperation]string{
	Set:      "SET",
	Add:      "ADD",
	Subtract: "SUBTRACT",
}

func ParseAdjustOperation(s string) (AdjustOperation, error) {
	for op, name := range operationNames {
		if strings.EqualFold(s, name) {
			return op, nil
		}
	}
	return UnknownOperation, errs.NewValueIsInvalidErrorWithCause(
		"operation",
		fmt.Errorf("%q is not one of SET, ADD, SUBTRACT", s),
	)
}

func (o AdjustOperation) Validate() error {
	if _, ok := operationNames[o]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("operation", fmt.Errorf("%d is not a valid operation", o))
	}
	return nil
}

func (o AdjustOperation) String() string {
	if name, ok := operationNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}
