package commands

import (
	"errors"
	"fmt"

	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/model/zone"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"
)

var (
	// ErrSchedulingConflict means concurrent writers kept colliding. The
	// request did not take effect and may be sent again.
	ErrSchedulingConflict = errors.New("scheduling conflict, retry the request")

	// ErrDatabase marks storage failures that are not conflicts.
	ErrDatabase = errors.New("database error")
)

type Step string

const (
	StepValidating Step = "validating"
	StepReserving  Step = "reserving"
	StepPersisting Step = "persisting"
	StepNumbering  Step = "numbering"
	StepCompleting Step = "completing"
	StepCancelling Step = "cancelling"
	StepPayment    Step = "payment"
	StepAdjusting  Step = "adjusting"
	StepRelaying   Step = "relaying"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindBusinessRule
	KindRetryableConflict
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindBusinessRule:
		return "business_rule"
	case KindRetryableConflict:
		return "retryable_conflict"
	default:
		return "internal"
	}
}

// WorkflowError is what every command returns on failure. Err keeps the typed
// cause reachable through errors.Is and errors.As.
type WorkflowError struct {
	Step    Step
	Kind    ErrorKind
	MealIDs []kernel.UUID
	Err     error
}

func (e *WorkflowError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Retryable reports whether sending the same request again can succeed.
func (e *WorkflowError) Retryable() bool {
	return e.Kind == KindRetryableConflict
}

// stepError records where inside a transaction an error happened.
type stepError struct {
	step Step
	err  error
}

func (e *stepError) Error() string { return e.err.Error() }
func (e *stepError) Unwrap() error { return e.err }

func atStep(step Step, err error) error {
	if err == nil {
		return nil
	}
	return &stepError{step: step, err: err}
}

// newWorkflowError classifies err. The innermost recorded step wins over
// fallback.
func newWorkflowError(fallback Step, err error) error {
	if err == nil {
		return nil
	}

	var we *WorkflowError
	if errors.As(err, &we) {
		return we
	}

	step := fallback
	var se *stepError
	if errors.As(err, &se) {
		step = se.step
	}

	return &WorkflowError{
		Step:    step,
		Kind:    classify(err),
		MealIDs: mealIDsOf(err),
		Err:     err,
	}
}

var businessRuleErrors = []error{
	zone.ErrNotServiceable,
	services.ErrPastDeadline,
	services.ErrNotDeliveryDay,
	meal.ErrMealUnavailable,
	meal.ErrInsufficientInventory,
	order.ErrOrderCannotBeCancelled,
	order.ErrPaymentNotAllowed,
	order.ErrNumberAlreadyAssigned,
	errs.ErrObjectNotFound,
}

// classify reports a workflow that ran past its deadline as internal. Only
// exhausted conflict retries are retryable.
func classify(err error) ErrorKind {
	for _, target := range businessRuleErrors {
		if errs.Is(err, target) {
			return KindBusinessRule
		}
	}

	switch {
	case errs.IsValidation(err):
		return KindValidation
	case errs.Is(err, ErrSchedulingConflict):
		return KindRetryableConflict
	default:
		return KindInternal
	}
}

func mealIDsOf(err error) []kernel.UUID {
	var shortage *services.ShortageError
	if errors.As(err, &shortage) {
		return shortage.MealIDs()
	}

	var insufficient *meal.InsufficientInventoryError
	if errors.As(err, &insufficient) {
		return []kernel.UUID{insufficient.MealID}
	}

	var unavailable *meal.MealUnavailableError
	if errors.As(err, &unavailable) {
		return []kernel.UUID{unavailable.MealID}
	}

	return nil
}
