package impl

import (
	"context"
	"log/slog"
	"testing"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	mockRepo "storefront/internal/mocks/repository"
	mockSvc "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type orderServiceMocks struct {
	txManager      *mockRepo.MockTransactionManager
	orderRepo      *mockRepo.MockOrderRepository
	txProductRepo  *mockRepo.MockProductRepository
	txOrderRepo    *mockRepo.MockOrderRepository
	eventPublisher *mockSvc.MockEventPublisher
}

func newOrderService(t *testing.T) (usecase.OrderUsecase, *orderServiceMocks) {
	t.Helper()

	m := &orderServiceMocks{
		txManager:      mockRepo.NewMockTransactionManager(t),
		orderRepo:      mockRepo.NewMockOrderRepository(t),
		txProductRepo:  mockRepo.NewMockProductRepository(t),
		txOrderRepo:    mockRepo.NewMockOrderRepository(t),
		eventPublisher: mockSvc.NewMockEventPublisher(t),
	}

	service := NewOrderService(OrderServiceParams{
		TxManager:      m.txManager,
		OrderRepo:      m.orderRepo,
		EventPublisher: m.eventPublisher,
		Config:         &config.Config{},
		Logger:         slog.Default(),
	})

	return service, m
}

// expectTransaction wires the transaction manager mock so the callback runs
// against a factory returning the tx-bound repository mocks.
func expectTransaction(m *orderServiceMocks, t *testing.T) {
	t.Helper()

	factory := mockRepo.NewMockRepositoryFactory(t)
	factory.EXPECT().ProductRepo().Return(m.txProductRepo).Maybe()
	factory.EXPECT().OrderRepo().Return(m.txOrderRepo).Maybe()

	m.txManager.EXPECT().
		Execute(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, fn func(repository.RepositoryFactory) error) error {
			return fn(factory)
		})
}

func TestOrderService_PlaceOrder_Success(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	userID := uuid.New()
	productA := &entity.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, Stock: 5}
	productB := &entity.Product{ID: uuid.New(), Name: "Product B", Price: 50.00, Stock: 1}

	expectTransaction(m, t)

	m.txProductRepo.EXPECT().
		FindByIDsForUpdate(ctx, []uuid.UUID{productA.ID, productB.ID}).
		Return([]*entity.Product{productA, productB}, nil)
	m.txProductRepo.EXPECT().DecrementStock(ctx, productA.ID, 2).Return(nil)
	m.txProductRepo.EXPECT().DecrementStock(ctx, productB.ID, 1).Return(nil)
	m.txOrderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		RunAndReturn(func(_ context.Context, order *entity.Order) error {
			order.ID = uuid.New()

			return nil
		})
	m.eventPublisher.EXPECT().
		PublishOrderPlaced(ctx, mock.AnythingOfType("*service.OrderPlacedEvent")).
		Return(nil)

	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: userID,
		Items: []usecase.OrderItemInput{
			{ProductID: productA.ID, Quantity: 2},
			{ProductID: productB.ID, Quantity: 1},
		},
	})

	require.NoError(t, err)
	require.NotNil(t, order)
	assert.Equal(t, 70.00, order.TotalPrice)
	assert.Equal(t, entity.OrderStatusPending, order.Status)
	assert.Equal(t, "Order of 2 item(s)", order.Description)
	assert.Equal(t, userID, order.UserID)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 10.00, order.Items[0].PriceAtOrder)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 50.00, order.Items[1].PriceAtOrder)
	assert.Equal(t, 1, order.Items[1].Quantity)
}

func TestOrderService_PlaceOrder_InsufficientStock(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, Stock: 1}

	expectTransaction(m, t)

	m.txProductRepo.EXPECT().
		FindByIDsForUpdate(ctx, []uuid.UUID{product.ID}).
		Return([]*entity.Product{product}, nil)

	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items:  []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 5}},
	})

	require.Error(t, err)
	assert.Nil(t, order)

	var stockErr *domainerrors.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, product.ID, stockErr.ProductID)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)

	// No order writes and no stock mutation may happen on a failed placement.
	m.txOrderRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	m.txProductRepo.AssertNotCalled(t, "DecrementStock", mock.Anything, mock.Anything, mock.Anything)
	m.eventPublisher.AssertNotCalled(t, "PublishOrderPlaced", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_ProductNotFound(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	missingID := uuid.New()

	expectTransaction(m, t)

	m.txProductRepo.EXPECT().
		FindByIDsForUpdate(ctx, []uuid.UUID{missingID}).
		Return([]*entity.Product{}, nil)

	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items:  []usecase.OrderItemInput{{ProductID: missingID, Quantity: 1}},
	})

	require.Error(t, err)
	assert.Nil(t, order)

	var notFoundErr *domainerrors.ProductNotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, missingID, notFoundErr.ProductID)
}

func TestOrderService_PlaceOrder_ReportsFirstMissingProduct(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	existing := &entity.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, Stock: 5}
	missingFirst := uuid.New()
	missingSecond := uuid.New()

	expectTransaction(m, t)

	m.txProductRepo.EXPECT().
		FindByIDsForUpdate(ctx, []uuid.UUID{existing.ID, missingFirst, missingSecond}).
		Return([]*entity.Product{existing}, nil)

	_, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items: []usecase.OrderItemInput{
			{ProductID: existing.ID, Quantity: 1},
			{ProductID: missingFirst, Quantity: 1},
			{ProductID: missingSecond, Quantity: 1},
		},
	})

	var notFoundErr *domainerrors.ProductNotFoundError
	require.True(t, errors.As(err, &notFoundErr))
	assert.Equal(t, missingFirst, notFoundErr.ProductID)
}

func TestOrderService_PlaceOrder_DuplicateLinesShareStock(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, Stock: 3}

	expectTransaction(m, t)

	m.txProductRepo.EXPECT().
		FindByIDsForUpdate(ctx, []uuid.UUID{product.ID}).
		Return([]*entity.Product{product}, nil)

	// Two lines of 2 against a stock of 3: the second line must fail even
	// though each line alone would fit.
	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items: []usecase.OrderItemInput{
			{ProductID: product.ID, Quantity: 2},
			{ProductID: product.ID, Quantity: 2},
		},
	})

	require.Error(t, err)
	assert.Nil(t, order)

	var stockErr *domainerrors.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)
}

func TestOrderService_PlaceOrder_EmptyOrder(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items:  []usecase.OrderItemInput{},
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrEmptyOrder))

	// Validation failures must not open a transaction.
	m.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_InvalidQuantity(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items:  []usecase.OrderItemInput{{ProductID: uuid.New(), Quantity: 0}},
	})

	require.Error(t, err)
	assert.Nil(t, order)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidQuantity))
	m.txManager.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestOrderService_PlaceOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	product := &entity.Product{ID: uuid.New(), Name: "Product A", Price: 10.00, Stock: 5}

	expectTransaction(m, t)

	m.txProductRepo.EXPECT().
		FindByIDsForUpdate(ctx, []uuid.UUID{product.ID}).
		Return([]*entity.Product{product}, nil)
	m.txProductRepo.EXPECT().DecrementStock(ctx, product.ID, 1).Return(nil)
	m.txOrderRepo.EXPECT().
		Create(ctx, mock.AnythingOfType("*entity.Order")).
		Return(nil)
	m.eventPublisher.EXPECT().
		PublishOrderPlaced(ctx, mock.AnythingOfType("*service.OrderPlacedEvent")).
		Return(errors.New("broker unavailable"))

	order, err := service.PlaceOrder(ctx, &usecase.PlaceOrderInput{
		UserID: uuid.New(),
		Items:  []usecase.OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})

	// The order is already committed; a publish failure is only logged.
	require.NoError(t, err)
	require.NotNil(t, order)
}

func TestOrderService_GetOrder(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	owner := &entity.User{ID: uuid.New(), Role: entity.RoleUser}
	admin := &entity.User{ID: uuid.New(), Role: entity.RoleAdmin}
	stranger := &entity.User{ID: uuid.New(), Role: entity.RoleUser}
	order := &entity.Order{ID: uuid.New(), UserID: owner.ID, TotalPrice: 70.00}

	m.orderRepo.EXPECT().FindByID(ctx, order.ID).Return(order, nil).Times(3)

	found, err := service.GetOrder(ctx, owner, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Admins can read any order.
	found, err = service.GetOrder(ctx, admin, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// A foreign order reads as not found.
	_, err = service.GetOrder(ctx, stranger, order.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestOrderService_GetOrder_NotFound(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	orderID := uuid.New()
	m.orderRepo.EXPECT().FindByID(ctx, orderID).Return(nil, repository.ErrOrderNotFound)

	_, err := service.GetOrder(ctx, &entity.User{ID: uuid.New()}, orderID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrOrderNotFound))
}

func TestOrderService_ListOrders(t *testing.T) {
	service, m := newOrderService(t)
	ctx := context.Background()

	userID := uuid.New()
	orders := []*entity.Order{
		{ID: uuid.New(), UserID: userID},
		{ID: uuid.New(), UserID: userID},
	}

	// Page defaults apply when the input is out of range.
	m.orderRepo.EXPECT().FindByUserID(ctx, userID, 10, 0).Return(orders, int64(2), nil)

	output, err := service.ListOrders(ctx, &usecase.ListOrdersInput{UserID: userID, Page: 0, PageSize: 0})
	require.NoError(t, err)
	assert.Len(t, output.Orders, 2)
	assert.Equal(t, int64(2), output.Total)
	assert.Equal(t, 1, output.Page)
	assert.Equal(t, 10, output.PageSize)
}
