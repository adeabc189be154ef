package handler

import (
	"log/slog"
	"net/http"
	"testing"

	"storefront/internal/delivery/http/middleware"
	"storefront/internal/domain/entity"
	mockUsecase "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestOrderHandler_PlaceOrder(t *testing.T) {
	uc := mockUsecase.NewMockOrderUsecase(t)
	handler := NewOrderHandler(uc, slog.Default())

	user := &entity.User{ID: uuid.New(), Username: "alice", Role: entity.RoleUser}
	productID := uuid.New()

	placed := &entity.Order{
		ID:          uuid.New(),
		UserID:      user.ID,
		Description: "Order of 1 item(s)",
		TotalPrice:  20.00,
		Status:      entity.OrderStatusPending,
		Items: []*entity.OrderItem{
			{ProductID: productID, Quantity: 2, PriceAtOrder: 10.00},
		},
	}
	uc.EXPECT().
		PlaceOrder(mock.Anything, &usecase.PlaceOrderInput{
			UserID: user.ID,
			Items:  []usecase.OrderItemInput{{ProductID: productID, Quantity: 2}},
		}).
		Return(placed, nil)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodPost, "/orders",
		`{"items":[{"product_id":"`+productID.String()+`","quantity":2}]}`)
	middleware.SetCurrentUser(c, user)

	err := handler.PlaceOrder(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, placed.ID.String())
	assert.Contains(t, body, `"total_price":20`)
	assert.Contains(t, body, `"status":"pending"`)
}

func TestOrderHandler_PlaceOrder_EmptyItems(t *testing.T) {
	uc := mockUsecase.NewMockOrderUsecase(t)
	handler := NewOrderHandler(uc, slog.Default())

	e := newTestEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/orders", `{"items":[]}`)
	middleware.SetCurrentUser(c, &entity.User{ID: uuid.New(), Role: entity.RoleUser})

	err := handler.PlaceOrder(c)
	require.Error(t, err)

	uc.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
}

func TestOrderHandler_PlaceOrder_PropagatesUsecaseError(t *testing.T) {
	uc := mockUsecase.NewMockOrderUsecase(t)
	handler := NewOrderHandler(uc, slog.Default())

	user := &entity.User{ID: uuid.New(), Role: entity.RoleUser}
	productID := uuid.New()

	uc.EXPECT().
		PlaceOrder(mock.Anything, mock.AnythingOfType("*usecase.PlaceOrderInput")).
		Return(nil, assert.AnError)

	e := newTestEcho()
	c, _ := newJSONContext(e, http.MethodPost, "/orders",
		`{"items":[{"product_id":"`+productID.String()+`","quantity":1}]}`)
	middleware.SetCurrentUser(c, user)

	err := handler.PlaceOrder(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
}

func TestOrderHandler_ListOrders(t *testing.T) {
	uc := mockUsecase.NewMockOrderUsecase(t)
	handler := NewOrderHandler(uc, slog.Default())

	user := &entity.User{ID: uuid.New(), Role: entity.RoleUser}
	uc.EXPECT().
		ListOrders(mock.Anything, &usecase.ListOrdersInput{
			UserID:   user.ID,
			Page:     2,
			PageSize: 5,
		}).
		Return(&usecase.ListOrdersOutput{
			Orders:   []*entity.Order{},
			Total:    0,
			Page:     2,
			PageSize: 5,
		}, nil)

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/orders?page=2&limit=5", "")
	middleware.SetCurrentUser(c, user)

	err := handler.ListOrders(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"page":2`)
}

func TestOrderHandler_GetOrder_InvalidID(t *testing.T) {
	uc := mockUsecase.NewMockOrderUsecase(t)
	handler := NewOrderHandler(uc, slog.Default())

	e := newTestEcho()
	c, rec := newJSONContext(e, http.MethodGet, "/orders/not-a-uuid", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")
	middleware.SetCurrentUser(c, &entity.User{ID: uuid.New(), Role: entity.RoleUser})

	err := handler.GetOrder(c)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	uc.AssertNotCalled(t, "GetOrder", mock.Anything, mock.Anything, mock.Anything)
}
