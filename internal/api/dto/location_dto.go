package dto

// StateRequest creates a state.
type StateRequest struct {
	State string `json:"state" validate:"required"`
}

// AreaRequest creates an area inside a state.
type AreaRequest struct {
	State string `json:"state" validate:"required"`
	Area  string `json:"area" validate:"required"`
}

// LocationQuery addresses a state, or an area inside it.
type LocationQuery struct {
	State string `query:"state"`
	Area  string `query:"area"`
}
