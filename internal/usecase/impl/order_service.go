package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// orderService implements the OrderUsecase interface. PlaceOrder is the
// transactional core of the application: every stock check and every write
// happens inside a single database transaction while the affected product
// rows are locked, so an order either commits completely or not at all.
type orderService struct {
	txManager      repository.TransactionManager
	orderRepo      repository.OrderRepository
	eventPublisher service.EventPublisher
	pagination     *config.PaginationConfig
	logger         *slog.Logger
}

// OrderServiceParams holds dependencies for OrderService, injected by Fx.
type OrderServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	OrderRepo      repository.OrderRepository
	EventPublisher service.EventPublisher
	Config         *config.Config
	Logger         *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(params OrderServiceParams) usecase.OrderUsecase {
	var pagination *config.PaginationConfig
	if params.Config != nil {
		pagination = params.Config.Pagination
	}

	return &orderService{
		txManager:      params.TxManager,
		orderRepo:      params.OrderRepo,
		eventPublisher: params.EventPublisher,
		pagination:     pagination,
		logger:         params.Logger,
	}
}

func (srv *orderService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// PlaceOrder validates and persists a new order in one transaction.
//
// The requested product rows are loaded with SELECT ... FOR UPDATE, so a
// concurrent placement touching any of the same products blocks until this
// transaction finishes. Stock checks therefore always see committed state,
// and the sum of sold quantities can never exceed the initial stock.
func (srv *orderService) PlaceOrder(ctx context.Context, input *usecase.PlaceOrderInput) (*entity.Order, error) {
	if len(input.Items) == 0 {
		return nil, domainerrors.ErrEmptyOrder
	}
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, domainerrors.ErrInvalidQuantity
		}
	}

	srv.log(ctx).Info("Placing order",
		slog.Any("userID", input.UserID),
		slog.Int("item_count", len(input.Items)),
	)

	var placedOrder *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		productRepo := repoFactory.ProductRepo()
		orderRepo := repoFactory.OrderRepo()

		// Deduplicate ids for the locking query; the same product may appear
		// on multiple requested lines.
		uniqueIDs := make([]uuid.UUID, 0, len(input.Items))
		seen := make(map[uuid.UUID]struct{}, len(input.Items))
		for _, item := range input.Items {
			if _, ok := seen[item.ProductID]; ok {
				continue
			}
			seen[item.ProductID] = struct{}{}
			uniqueIDs = append(uniqueIDs, item.ProductID)
		}

		lockedProducts, err := productRepo.FindByIDsForUpdate(ctx, uniqueIDs)
		if err != nil {
			return errors.Wrap(err, "failed to lock products for order placement")
		}

		productsByID := make(map[uuid.UUID]*entity.Product, len(lockedProducts))
		for _, product := range lockedProducts {
			productsByID[product.ID] = product
		}

		// Report the first requested id that does not exist, in request order.
		if len(lockedProducts) != len(uniqueIDs) {
			for _, id := range uniqueIDs {
				if _, ok := productsByID[id]; !ok {
					return domainerrors.NewProductNotFoundError(id)
				}
			}
		}

		var total float64
		orderItems := make([]*entity.OrderItem, 0, len(input.Items))
		decrements := make(map[uuid.UUID]int, len(uniqueIDs))

		for _, item := range input.Items {
			product := productsByID[item.ProductID]

			// Stock is checked against the in-memory copy, which already
			// reflects earlier lines for the same product.
			if product.Stock < item.Quantity {
				return domainerrors.NewInsufficientStockError(product.ID, product.Name, product.Stock, item.Quantity)
			}

			product.Stock -= item.Quantity
			decrements[item.ProductID] += item.Quantity
			total += product.Price * float64(item.Quantity)

			orderItems = append(orderItems, &entity.OrderItem{
				ProductID:    product.ID,
				Quantity:     item.Quantity,
				PriceAtOrder: product.Price,
			})
		}

		for _, id := range uniqueIDs {
			quantity, ok := decrements[id]
			if !ok {
				continue
			}
			if err := productRepo.DecrementStock(ctx, id, quantity); err != nil {
				return errors.Wrap(err, "failed to decrement stock")
			}
		}

		order := &entity.Order{
			UserID:      input.UserID,
			Description: fmt.Sprintf("Order of %d item(s)", len(input.Items)),
			TotalPrice:  math.Round(total*100) / 100,
			Status:      entity.OrderStatusPending,
			Items:       orderItems,
		}

		if err := orderRepo.Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		placedOrder = order

		return nil
	})
	if err != nil {
		srv.log(ctx).Warn("Order placement failed",
			slog.Any("userID", input.UserID),
			slog.Any("error", err),
		)

		return nil, err
	}

	srv.log(ctx).Info("Order placed",
		slog.Any("orderID", placedOrder.ID),
		slog.Float64("totalPrice", placedOrder.TotalPrice),
	)

	srv.publishOrderPlaced(ctx, placedOrder)

	return placedOrder, nil
}

// publishOrderPlaced emits the post-commit event. Publishing is best-effort:
// the order is already committed, so a publish failure is only logged.
func (srv *orderService) publishOrderPlaced(ctx context.Context, order *entity.Order) {
	if srv.eventPublisher == nil {
		return
	}

	eventItems := make([]service.OrderEventItem, 0, len(order.Items))
	for _, item := range order.Items {
		eventItems = append(eventItems, service.OrderEventItem{
			ProductID:    item.ProductID.String(),
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
		})
	}

	event := &service.OrderPlacedEvent{
		RequestID:  deliverycontext.GetRequestIDFromContext(ctx),
		OrderID:    order.ID.String(),
		UserID:     order.UserID.String(),
		TotalPrice: order.TotalPrice,
		Items:      eventItems,
	}

	if err := srv.eventPublisher.PublishOrderPlaced(ctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish order placed event",
			slog.Any("orderID", order.ID),
			slog.Any("error", err),
		)
	}
}

// GetOrder retrieves a single order. Customers can only read their own
// orders; admins can read any. A foreign order reads as not found so the
// response does not reveal whether the id exists.
func (srv *orderService) GetOrder(ctx context.Context, requester *entity.User, orderID uuid.UUID) (*entity.Order, error) {
	order, err := srv.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to get order")
	}

	if order.UserID != requester.ID && !requester.IsAdmin() {
		return nil, domainerrors.ErrOrderNotFound
	}

	return order, nil
}

// ListOrders retrieves one page of a user's order history, newest first.
func (srv *orderService) ListOrders(ctx context.Context, input *usecase.ListOrdersInput) (*usecase.ListOrdersOutput, error) {
	page, pageSize, limit, offset := normalizePage(srv.pagination, input.Page, input.PageSize)

	orders, total, err := srv.orderRepo.FindByUserID(ctx, input.UserID, limit, offset)
	if err != nil {
		srv.log(ctx).Error("Failed to list orders", slog.Any("userID", input.UserID), slog.Any("error", err))

		return nil, errors.Wrap(err, "failed to list orders")
	}

	return &usecase.ListOrdersOutput{
		Orders:   orders,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}
