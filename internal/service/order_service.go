package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cookie-shop/internal/domain"
	"cookie-shop/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrCartEmpty          = errors.New("cart is empty")
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// InsufficientStockError reports a cart line whose quantity exceeds the
// product's available stock. It names the offending product so the message
// is safe to surface verbatim.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product '%s' has only %d units in stock, cannot order %d units",
		e.ProductName, e.Available, e.Requested)
}

// OrderNotCancellableError reports a cancel attempt on an order whose
// status is outside NEW/PROCESSING.
type OrderNotCancellableError struct {
	Status domain.OrderStatus
}

func (e *OrderNotCancellableError) Error() string {
	return fmt.Sprintf("cannot cancel order with status %s", e.Status)
}

// OrderItemInput is one replacement line for the admin full-update path.
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderUpdate carries a full replacement of an order's fields and items.
type OrderUpdate struct {
	UserID     uuid.UUID
	Status     string
	TotalPrice decimal.Decimal
	Address    string
	Phone      string
	Items      []OrderItemInput
}

// OrderService defines the interface for order lifecycle business logic
type OrderService interface {
	PlaceOrder(ctx context.Context, userID uuid.UUID, address, phone string, totalPrice decimal.Decimal) (*domain.Order, error)
	GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetAllOrders(ctx context.Context) ([]*domain.Order, error)
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, update OrderUpdate) (*domain.Order, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderService struct {
	db               *sql.DB
	orderRepo        repository.OrderRepository
	productRepo      repository.ProductRepository
	cartRepo         repository.CartRepository
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
}

// NewOrderService creates a new instance of OrderService. The db handle is
// used to open the transaction that spans order placement.
func NewOrderService(
	db *sql.DB,
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
	notificationRepo repository.NotificationRepository,
) OrderService {
	return &orderService{
		db:               db,
		orderRepo:        orderRepo,
		productRepo:      productRepo,
		cartRepo:         cartRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
	}
}

// PlaceOrder converts the user's cart into an order. The whole sequence
// (stock check, stock decrement, order creation, admin notifications, cart
// clear) runs in a single transaction; any failure rolls everything back.
// The total price is taken from the caller as-is, it may carry a
// client-applied discount, and is not recomputed here.
func (s *orderService) PlaceOrder(ctx context.Context, userID uuid.UUID, address, phone string, totalPrice decimal.Decimal) (*domain.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	cartRepo := s.cartRepo.WithTx(tx)
	productRepo := s.productRepo.WithTx(tx)
	orderRepo := s.orderRepo.WithTx(tx)
	userRepo := s.userRepo.WithTx(tx)
	notificationRepo := s.notificationRepo.WithTx(tx)

	cart, err := cartRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, ErrCartEmpty
	}

	// All-or-nothing stock check before any mutation
	for _, item := range cart.Items {
		product, err := productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if item.Quantity > product.Stock {
			return nil, &InsufficientStockError{
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			}
		}
	}

	for _, item := range cart.Items {
		if err := productRepo.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		ID:         uuid.New(),
		UserID:     userID,
		Status:     domain.OrderStatusNew,
		TotalPrice: totalPrice,
		Address:    address,
		Phone:      phone,
		CreatedAt:  time.Now(),
	}

	for _, item := range cart.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	admins, err := userRepo.ListByRole(ctx, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}
	for _, admin := range admins {
		notification := &domain.Notification{
			ID:        uuid.New(),
			UserID:    admin.ID,
			Text:      fmt.Sprintf("New order with ID %s has been placed.", order.ID),
			Read:      false,
			CreatedAt: time.Now(),
		}
		if err := notificationRepo.Create(ctx, notification); err != nil {
			return nil, err
		}
	}

	if err := cartRepo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	if err := cartRepo.UpdateTotal(ctx, cart.ID, decimal.Zero); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order placement: %w", err)
	}

	return order, nil
}

// GetOrderByID retrieves an order with its items
func (s *orderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return s.orderRepo.FindByID(ctx, id)
}

// GetAllOrders retrieves all orders
func (s *orderService) GetAllOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.orderRepo.List(ctx)
}

// GetOrdersByUserID retrieves the orders owned by a user
func (s *orderService) GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return s.orderRepo.ListByUserID(ctx, userID)
}

// UpdateOrderStatus sets an order's status to any recognized value and
// notifies the order's owner. This path intentionally does not walk the
// transition graph; only CancelOrder guards terminal states.
func (s *orderService) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	newStatus, err := domain.ParseOrderStatus(status)
	if err != nil {
		return nil, ErrInvalidOrderStatus
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, newStatus); err != nil {
		return nil, err
	}
	order.Status = newStatus

	notification := &domain.Notification{
		ID:        uuid.New(),
		UserID:    order.UserID,
		Text:      fmt.Sprintf("Status of your order with ID %s has changed to: %s", order.ID, newStatus),
		Read:      false,
		CreatedAt: time.Now(),
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder sets the status to CANCELLED when the order is still in
// NEW or PROCESSING. It does not restock the order's products.
func (s *orderService) CancelOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.Cancellable() {
		return nil, &OrderNotCancellableError{Status: order.Status}
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, domain.OrderStatusCancelled); err != nil {
		return nil, err
	}
	order.Status = domain.OrderStatusCancelled

	return order, nil
}

// UpdateOrder replaces an order's fields and items (admin path)
func (s *orderService) UpdateOrder(ctx context.Context, id uuid.UUID, update OrderUpdate) (*domain.Order, error) {
	status, err := domain.ParseOrderStatus(update.Status)
	if err != nil {
		return nil, ErrInvalidOrderStatus
	}

	existing, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByID(ctx, update.UserID); err != nil {
		return nil, err
	}

	order := &domain.Order{
		ID:         existing.ID,
		UserID:     update.UserID,
		Status:     status,
		TotalPrice: update.TotalPrice,
		Address:    update.Address,
		Phone:      update.Phone,
		CreatedAt:  existing.CreatedAt,
	}

	for _, item := range update.Items {
		if _, err := s.productRepo.FindByID(ctx, item.ProductID); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// DeleteOrder removes an order and its items
func (s *orderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.orderRepo.Delete(ctx, id)
}
