package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	GetHealth(ctx echo.Context) error
	CreateOrder(ctx echo.Context) error
	GetOrder(ctx echo.Context, orderID openapi_types.UUID) error
	CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error
	RecordPaymentStatus(ctx echo.Context, orderID openapi_types.UUID) error
	CheckServiceability(ctx echo.Context, postalCode string) error
	AdjustInventory(ctx echo.Context, mealID openapi_types.UUID) error
}

// ServerInterfaceWrapper binds path and query parameters before calling
// the operation.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	return w.Handler.GetHealth(ctx)
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderID, err := bindUUIDParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderID, err := bindUUIDParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, orderID)
}

func (w *ServerInterfaceWrapper) RecordPaymentStatus(ctx echo.Context) error {
	orderID, err := bindUUIDParam(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.RecordPaymentStatus(ctx, orderID)
}

func (w *ServerInterfaceWrapper) CheckServiceability(ctx echo.Context) error {
	var postalCode string
	if err := runtime.BindQueryParameter("form", true, true, "postalCode", ctx.QueryParams(), &postalCode); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter postalCode: %s", err))
	}
	return w.Handler.CheckServiceability(ctx, postalCode)
}

func (w *ServerInterfaceWrapper) AdjustInventory(ctx echo.Context) error {
	mealID, err := bindUUIDParam(ctx, "mealId")
	if err != nil {
		return err
	}
	return w.Handler.AdjustInventory(ctx, mealID)
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used here.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &ServerInterfaceWrapper{Handler: si}

	router.GET("/health", w.GetHealth)
	router.POST("/api/v1/orders", w.CreateOrder)
	router.GET("/api/v1/orders/:orderId", w.GetOrder)
	router.POST("/api/v1/orders/:orderId/cancel", w.CancelOrder)
	router.PUT("/api/v1/orders/:orderId/payment-status", w.RecordPaymentStatus)
	router.GET("/api/v1/serviceability", w.CheckServiceability)
	router.POST("/api/v1/meals/:mealId/inventory", w.AdjustInventory)
}

func bindUUIDParam(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}
