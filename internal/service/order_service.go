package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/billboardhub/billboard-market/internal/domain"
	"github.com/billboardhub/billboard-market/internal/events"
	"github.com/billboardhub/billboard-market/internal/repository"
	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

// DateLayout is the dd/mm/yyyy format clients use for requested and quoted dates.
const DateLayout = "02/01/2006"

const (
	orderMissing = "Order doesn't exist"
	quoteMissing = "Quote doesn't exist"
)

// QuoteInput carries the fields of a new quote.
type QuoteInput struct {
	Title         string
	Price         *float64
	AvailableFrom string
	AvailableTo   string
	Description   string
}

// QuoteChanges carries the quote fields a partial update may change. Dates use DateLayout.
type QuoteChanges struct {
	Title         *string
	Price         *float64
	AvailableFrom *string
	AvailableTo   *string
	Description   *string
}

// OrderService places orders for users and lets administrators answer them with quotes.
type OrderService struct {
	orders     repository.OrderRepository
	quotes     repository.QuoteRepository
	products   repository.ProductRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewOrderService constructs the service. dispatcher may be nil.
func NewOrderService(
	orders repository.OrderRepository,
	quotes repository.QuoteRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:     orders,
		quotes:     quotes,
		products:   products,
		users:      users,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create places an order of productID for userID. User and product details
// are copied onto the order as they are at this moment.
func (s *OrderService) Create(ctx context.Context, userID, productID, dateRequested string) (*domain.Order, error) {
	if strings.TrimSpace(dateRequested) == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Field (dateRequested) cannot be empty")
	}
	requested, err := parseDate(dateRequested)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, notFoundOr(err, userMissing)
	}
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFoundOr(err, productMissing)
	}
	if !product.Availability {
		return nil, apperrors.NewBadRequest("Product is not available")
	}

	invoice, err := newInvoice()
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	order := &domain.Order{
		UserID:        user.ID,
		User:          user.FullName,
		UserDetails:   strings.TrimSpace(user.Email + " " + user.PhoneNo),
		ProductID:     product.ID,
		Product:       product.Title,
		Invoice:       invoice,
		DateRequested: requested,
		Status:        domain.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("create order failed", zap.String("user_id", userID), zap.Error(err))
		return nil, notFoundOr(err, productMissing)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventOrderPlaced,
		OrderID: order.ID,
		Actor:   events.Actor{Kind: domain.PrincipalUser, ID: user.ID},
		Payload: events.OrderPlacedPayload{
			Invoice:       order.Invoice,
			ProductID:     order.ProductID,
			Product:       order.Product,
			User:          order.User,
			UserDetails:   order.UserDetails,
			DateRequested: order.DateRequested,
		},
	})
	s.logger.Info("order placed", zap.String("order_id", order.ID), zap.String("user_id", userID))
	return order, nil
}

// GetForUser returns one of the user's own orders. Orders of other users are
// reported as missing.
func (s *OrderService) GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, orderMissing)
	}
	if order.UserID != userID {
		return nil, apperrors.NewNotFound(orderMissing)
	}
	return order, nil
}

// ListForUser pages through the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string, page, limit int) (domain.Page[domain.Order], error) {
	return s.list(ctx, repository.OrderFilter{UserID: userID}, page, limit)
}

// ListAll pages through every order, newest first.
func (s *OrderService) ListAll(ctx context.Context, page, limit int) (domain.Page[domain.Order], error) {
	return s.list(ctx, repository.OrderFilter{}, page, limit)
}

func (s *OrderService) list(ctx context.Context, filter repository.OrderFilter, page, limit int) (domain.Page[domain.Order], error) {
	page, limit = domain.NormalizePaging(page, limit)
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return domain.Page[domain.Order]{}, apperrors.NewInternalError(err)
	}
	if domain.PastEnd(total, page, limit) {
		return domain.NewPage[domain.Order](nil, total, page, limit), nil
	}
	items, err := s.orders.List(ctx, filter, domain.Offset(page, limit), limit)
	if err != nil {
		return domain.Page[domain.Order]{}, apperrors.NewInternalError(err)
	}
	return domain.NewPage(items, total, page, limit), nil
}

// UpdateStatus moves an order to status on behalf of an administrator.
func (s *OrderService) UpdateStatus(ctx context.Context, adminID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, apperrors.NewBadRequest("Bad Request. Field (status) must be Pending or Fulfilled")
	}
	current, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, orderMissing)
	}
	if current.Status == status {
		return current, nil
	}
	updated, err := s.orders.UpdateStatus(ctx, orderID, status)
	if err != nil {
		return nil, notFoundOr(err, orderMissing)
	}

	s.publish(ctx, events.Event{
		Type:    events.EventOrderStatusChanged,
		OrderID: orderID,
		Actor:   events.Actor{Kind: domain.PrincipalAdmin, ID: adminID},
		Payload: events.OrderStatusChangedPayload{OldStatus: current.Status, NewStatus: status},
	})
	s.logger.Info("order status changed",
		zap.String("order_id", orderID),
		zap.String("from", string(current.Status)),
		zap.String("to", string(status)))
	return updated, nil
}

// CreateQuote answers an order with a price and an availability window.
func (s *OrderService) CreateQuote(ctx context.Context, adminID, orderID string, in QuoteInput) (*domain.Quote, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" || in.Price == nil || strings.TrimSpace(in.AvailableFrom) == "" || strings.TrimSpace(in.AvailableTo) == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Fields (title, price, availableFrom, availableTo) cannot be empty")
	}
	from, err := parseDate(in.AvailableFrom)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(in.AvailableTo)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, notFoundOr(err, orderMissing)
	}

	quote := &domain.Quote{
		OrderID:       order.ID,
		Title:         title,
		Price:         *in.Price,
		AvailableFrom: from,
		AvailableTo:   to,
		Description:   strings.TrimSpace(in.Description),
		Invoice:       order.Invoice,
	}
	if err := validateQuote(quote); err != nil {
		return nil, err
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		s.logger.Error("create quote failed", zap.String("order_id", orderID), zap.Error(err))
		return nil, notFoundOr(err, orderMissing)
	}

	s.publishQuote(ctx, events.EventQuoteCreated, adminID, quote)
	s.logger.Info("quote created", zap.String("quote_id", quote.ID), zap.String("order_id", orderID))
	return quote, nil
}

// GetQuote returns a quote by id.
func (s *OrderService) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	quote, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, quoteMissing)
	}
	return quote, nil
}

// UpdateQuote applies a partial update. The resulting window must still be ordered.
func (s *OrderService) UpdateQuote(ctx context.Context, adminID, id string, changes QuoteChanges) (*domain.Quote, error) {
	update := domain.QuoteUpdate{Title: trimmed(changes.Title), Price: changes.Price, Description: trimmed(changes.Description)}
	if update.Title != nil && *update.Title == "" {
		return nil, apperrors.NewBadRequest("Bad Request. Field (title) cannot be empty")
	}
	for _, pair := range []struct {
		raw *string
		dst **time.Time
	}{
		{changes.AvailableFrom, &update.AvailableFrom},
		{changes.AvailableTo, &update.AvailableTo},
	} {
		if pair.raw == nil {
			continue
		}
		parsed, err := parseDate(*pair.raw)
		if err != nil {
			return nil, err
		}
		*pair.dst = &parsed
	}
	if update.Empty() {
		return nil, apperrors.NewBadRequest("Bad Request. Nothing to update")
	}

	quote, err := s.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}
	update.Apply(quote)
	if err := validateQuote(quote); err != nil {
		return nil, err
	}
	if err := s.quotes.Update(ctx, quote); err != nil {
		return nil, notFoundOr(err, quoteMissing)
	}

	s.publishQuote(ctx, events.EventQuoteUpdated, adminID, quote)
	s.logger.Info("quote updated", zap.String("quote_id", id))
	return quote, nil
}

func (s *OrderService) publishQuote(ctx context.Context, eventType events.EventType, adminID string, quote *domain.Quote) {
	s.publish(ctx, events.Event{
		Type:    eventType,
		OrderID: quote.OrderID,
		Actor:   events.Actor{Kind: domain.PrincipalAdmin, ID: adminID},
		Payload: events.QuotePayload{
			QuoteID:       quote.ID,
			Invoice:       quote.Invoice,
			Title:         quote.Title,
			Price:         quote.Price,
			AvailableFrom: quote.AvailableFrom,
			AvailableTo:   quote.AvailableTo,
		},
	})
}

func (s *OrderService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	event.Timestamp = s.now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func validateQuote(quote *domain.Quote) error {
	if quote.Price < 0 {
		return apperrors.NewBadRequest("Bad Request. Field (price) cannot be negative")
	}
	if quote.AvailableTo.Before(quote.AvailableFrom) {
		return apperrors.NewBadRequest("Bad Request. Field (availableTo) cannot be before (availableFrom)")
	}
	return nil
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, apperrors.NewBadRequest("Bad Request. Dates must use the dd/mm/yyyy format")
	}
	return parsed, nil
}

// newInvoice returns 16 random hex characters.
func newInvoice() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
