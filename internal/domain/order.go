package domain

import "time"

// OrderStatus tracks whether an order has been served.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusFulfilled OrderStatus = "Fulfilled"
)

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	return s == OrderStatusPending || s == OrderStatusFulfilled
}

// Order is a user's request to book a product. User and product fields are
// snapshots taken when the order was placed.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	User          string      `json:"user"`
	UserDetails   string      `json:"userDetails"`
	ProductID     string      `json:"productId"`
	Product       string      `json:"product"`
	Invoice       string      `json:"invoice"`
	DateRequested time.Time   `json:"dateRequested"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

// Quote is an administrator's priced answer to an order.
type Quote struct {
	ID            string    `json:"id"`
	OrderID       string    `json:"orderId"`
	Title         string    `json:"title"`
	Price         float64   `json:"price"`
	AvailableFrom time.Time `json:"availableFrom"`
	AvailableTo   time.Time `json:"availableTo"`
	Description   string    `json:"description,omitempty"`
	Invoice       string    `json:"invoice"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// QuoteUpdate carries the quote fields a partial update may change.
type QuoteUpdate struct {
	Title         *string
	Price         *float64
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	Description   *string
}

// Empty reports whether the update carries no field.
func (u QuoteUpdate) Empty() bool {
	return u.Title == nil && u.Price == nil && u.AvailableFrom == nil && u.AvailableTo == nil && u.Description == nil
}

// Apply copies the set fields onto quote.
func (u QuoteUpdate) Apply(quote *Quote) {
	if u.Title != nil {
		quote.Title = *u.Title
	}
	if u.Price != nil {
		quote.Price = *u.Price
	}
	if u.AvailableFrom != nil {
		quote.AvailableFrom = *u.AvailableFrom
	}
	if u.AvailableTo != nil {
		quote.AvailableTo = *u.AvailableTo
	}
	if u.Description != nil {
		quote.Description = *u.Description
	}
}
