package events

import (
	"time"

	"github.com/billboardhub/billboard-market/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventOrderPlaced        EventType = "order_placed"
	EventOrderStatusChanged EventType = "order_status_changed"
	EventQuoteCreated       EventType = "quote_created"
	EventQuoteUpdated       EventType = "quote_updated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Kind domain.PrincipalKind `json:"kind"`
	ID   string               `json:"id"`
}

// Event represents a domain event emitted by services. OrderID ties every
// event to the order it concerns.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	OrderID   string      `json:"order_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	Invoice       string    `json:"invoice"`
	ProductID     string    `json:"product_id"`
	Product       string    `json:"product"`
	User          string    `json:"user"`
	UserDetails   string    `json:"user_details"`
	DateRequested time.Time `json:"date_requested"`
}

// OrderStatusChangedPayload payload.
type OrderStatusChangedPayload struct {
	OldStatus domain.OrderStatus `json:"old_status"`
	NewStatus domain.OrderStatus `json:"new_status"`
}

// QuotePayload is shared by quote creation and update events.
type QuotePayload struct {
	QuoteID       string    `json:"quote_id"`
	Invoice       string    `json:"invoice"`
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	AvailableFrom time.Time `json:"available_from"`
	AvailableTo   time.Time `json:"available_to"`
}
