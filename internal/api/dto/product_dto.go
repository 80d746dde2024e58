package dto

// ProductCreateRequest payload for new products. State and Area are names.
type ProductCreateRequest struct {
	Title        string `json:"title" validate:"required"`
	Category     string `json:"category" validate:"required"`
	Availability *bool  `json:"availability"`
	Description  string `json:"description" validate:"required"`
	Size         string `json:"size" validate:"required"`
	Address      string `json:"address" validate:"required"`
	Quantity     string `json:"quantity"`
	Featured     bool   `json:"featured"`
	State        string `json:"state" validate:"required"`
	Area         string `json:"area" validate:"required"`
}

// ProductUpdateRequest lists the product fields an update may change.
type ProductUpdateRequest struct {
	Title        *string `json:"title"`
	Category     *string `json:"category"`
	Availability *bool   `json:"availability"`
	Description  *string `json:"description"`
	Size         *string `json:"size"`
	Address      *string `json:"address"`
	Quantity     *string `json:"quantity"`
	Featured     *bool   `json:"featured"`
	State        *string `json:"state"`
	Area         *string `json:"area"`
}
