package http

import (
	"context"
	"log/slog"
	"net/http"

	"mealorder/internal/core/application/usecases/commands"
	"mealorder/internal/core/application/usecases/queries"
	"mealorder/internal/core/domain/model/kernel"
	"mealorder/internal/core/domain/model/meal"
	"mealorder/internal/core/domain/model/order"
	"mealorder/internal/core/domain/services"
	"mealorder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (*order.Order, error)
	}
	RecordPaymentStatusHandler interface {
		Handle(ctx context.Context, cmd commands.RecordPaymentStatusCommand) (*order.Order, error)
	}
	AdjustInventoryHandler interface {
		Handle(ctx context.Context, cmd commands.AdjustInventoryCommand) (services.LedgerEntry, error)
	}
	CheckServiceabilityHandler interface {
		Handle(ctx context.Context, query queries.CheckServiceabilityQuery) (queries.CheckServiceabilityQueryResponse, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
)

// Handlers are the use cases behind the API.
type Handlers struct {
	CreateOrder         CreateOrderHandler
	CancelOrder         CancelOrderHandler
	RecordPaymentStatus RecordPaymentStatusHandler
	AdjustInventory     AdjustInventoryHandler
	CheckServiceability CheckServiceabilityHandler
	GetOrder            GetOrderHandler
}

// Server implements ServerInterface on top of the application handlers.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

var _ ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{handlers: handlers, logger: logger.With("component", "HTTPServer")}
}

func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, Health{Status: "ok"})
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var req NewOrder
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Kind:    commands.KindValidation.String(),
		})
	}

	lines := make([]services.Line, 0, len(req.Items))
	for _, item := range req.Items {
		mealID, err := toKernelUUID("mealId", item.MealID)
		if err != nil {
			return s.fail(ctx, err)
		}
		lines = append(lines, services.Line{MealID: mealID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), req.CustomerID, req.DeliveryDate.Time, req.PostalCode, lines, req.Notes,
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+created.ID().String())
	return ctx.JSON(http.StatusCreated, orderFromDomain(created))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	id, err := toKernelUUID("orderId", orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	found, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromQuery(found))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	var req CancelOrder
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Kind:    commands.KindValidation.String(),
		})
	}

	id, err := toKernelUUID("orderId", orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewCancelOrderCommand(id, req.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	cancelled, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(cancelled))
}

// RecordPaymentStatus handles PUT /api/v1/orders/{orderId}/payment-status.
func (s *Server) RecordPaymentStatus(ctx echo.Context, orderID openapi_types.UUID) error {
	var req PaymentStatusUpdate
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Kind:    commands.KindValidation.String(),
		})
	}

	id, err := toKernelUUID("orderId", orderID)
	if err != nil {
		return s.fail(ctx, err)
	}
	status, err := order.ParsePaymentStatus(req.Status)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRecordPaymentStatusCommand(id, status)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.handlers.RecordPaymentStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, orderFromDomain(updated))
}

// CheckServiceability handles GET /api/v1/serviceability.
func (s *Server) CheckServiceability(ctx echo.Context, postalCode string) error {
	query, err := queries.NewCheckServiceabilityQuery(postalCode)
	if err != nil {
		return s.fail(ctx, err)
	}

	resp, err := s.handlers.CheckServiceability.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, serviceabilityFromQuery(resp))
}

// AdjustInventory handles POST /api/v1/meals/{mealId}/inventory.
func (s *Server) AdjustInventory(ctx echo.Context, mealID openapi_types.UUID) error {
	var req InventoryAdjustment
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
			Kind:    commands.KindValidation.String(),
		})
	}

	id, err := toKernelUUID("mealId", mealID)
	if err != nil {
		return s.fail(ctx, err)
	}
	op, err := meal.ParseAdjustOperation(req.Operation)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewAdjustInventoryCommand(id, op, req.Amount)
	if err != nil {
		return s.fail(ctx, err)
	}

	entry, err := s.handlers.AdjustInventory.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, InventoryLevel{
		MealID:    entry.MealID.String(),
		Operation: entry.Adjustment.Operation.String(),
		Previous:  entry.Adjustment.Previous,
		Current:   entry.Adjustment.Current,
		LowStock:  entry.LowStock != nil,
	})
}

func toKernelUUID(name string, id openapi_types.UUID) (kernel.UUID, error) {
	out, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return out, nil
}
