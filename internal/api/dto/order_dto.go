package dto

// OrderCreateRequest places an order. Dates use dd/mm/yyyy.
type OrderCreateRequest struct {
	DateRequested string `json:"dateRequested" validate:"required"`
}

// OrderStatusRequest moves an order to a new status.
type OrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Pending Fulfilled"`
}

// QuoteCreateRequest answers an order.
type QuoteCreateRequest struct {
	Title         string   `json:"title" validate:"required"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	AvailableFrom string   `json:"availableFrom" validate:"required"`
	AvailableTo   string   `json:"availableTo" validate:"required"`
	Description   string   `json:"description"`
}

// QuoteUpdateRequest lists the quote fields an update may change.
type QuoteUpdateRequest struct {
	Title         *string  `json:"title"`
	Price         *float64 `json:"price" validate:"omitempty,gte=0"`
	AvailableFrom *string  `json:"availableFrom"`
	AvailableTo   *string  `json:"availableTo"`
	Description   *string  `json:"description"`
}
