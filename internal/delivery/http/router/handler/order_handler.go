package handler

import (
	"log/slog"
	"net/http"
	"time"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/delivery/http/response"
	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// orderItemRequest is one requested line of POST /orders.
type orderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// placeOrderRequest is the JSON body of POST /orders.
type placeOrderRequest struct {
	Items []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// orderItemResponse is one line of a placed order.
type orderItemResponse struct {
	ProductID    string  `json:"product_id"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"price_at_order"`
}

// orderResponse is the public view of an order.
type orderResponse struct {
	ID          string              `json:"id"`
	UserID      string              `json:"user_id"`
	Description string              `json:"description"`
	TotalPrice  float64             `json:"total_price"`
	Status      string              `json:"status"`
	Items       []orderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

func toOrderResponse(o *entity.Order) *orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemResponse{
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
		})
	}

	return &orderResponse{
		ID:          o.ID.String(),
		UserID:      o.UserID.String(),
		Description: o.Description,
		TotalPrice:  o.TotalPrice,
		Status:      string(o.Status),
		Items:       items,
		CreatedAt:   o.CreatedAt,
	}
}

// orderListResponse is one page of a user's order history.
type orderListResponse struct {
	Orders   []*orderResponse `json:"orders"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, logger: logger}
}

// PlaceOrder handles the authenticated request to place a new order.
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated user")
	}

	items := make([]usecase.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid product ID in order items")
		}
		items = append(items, usecase.OrderItemInput{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	order, err := h.uc.PlaceOrder(c.Request().Context(), &usecase.PlaceOrderInput{
		UserID: user.ID,
		Items:  items,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toOrderResponse(order), "Order placed successfully")
}

// GetOrder handles the authenticated request for a single order. Owners and
// admins may read it; anyone else sees not-found.
func (h *OrderHandler) GetOrder(c echo.Context) error {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid order ID")
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated user")
	}

	order, err := h.uc.GetOrder(c.Request().Context(), user, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, toOrderResponse(order), "")
}

// ListOrders handles the authenticated request for the caller's order history.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	var q listQuery
	if err := c.Bind(&q); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid pagination parameters")
	}

	user, ok := middleware.CurrentUser(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Missing authenticated user")
	}

	output, err := h.uc.ListOrders(c.Request().Context(), &usecase.ListOrdersInput{
		UserID:   user.ID,
		Page:     q.Page,
		PageSize: q.Limit,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	orders := make([]*orderResponse, 0, len(output.Orders))
	for _, order := range output.Orders {
		orders = append(orders, toOrderResponse(order))
	}

	return response.Success(c, http.StatusOK, &orderListResponse{
		Orders:   orders,
		Total:    output.Total,
		Page:     output.Page,
		PageSize: output.PageSize,
	}, "")
}
