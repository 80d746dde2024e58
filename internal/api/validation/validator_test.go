package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/billboardhub/billboard-market/pkg/util/errorutil"
)

type sample struct {
	Email  string  `json:"email" validate:"required,email"`
	Status string  `json:"status" validate:"omitempty,oneof=Pending Fulfilled"`
	Page   int     `query:"page" validate:"gte=0"`
	Title  *string `json:"title,omitempty" validate:"omitempty,min=1"`
}

func TestValidator_Struct(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(&sample{Email: "a@example.com"}))

	cases := []struct {
		in   sample
		want string
	}{
		{sample{}, "Bad Request. Field (email) cannot be empty"},
		{sample{Email: "nope"}, "Bad Request. Field (email) must be a valid email"},
		{sample{Email: "a@example.com", Status: "Lost"}, "Bad Request. Field (status) must be one of [Pending Fulfilled]"},
		{sample{Email: "a@example.com", Page: -1}, "Bad Request. Field (page) must be at least 0"},
	}
	for _, tc := range cases {
		err := v.Struct(&tc.in)
		assert.True(t, apperrors.Is(err, apperrors.CodeBadRequest))
		assert.Equal(t, tc.want, apperrors.ToDomainError(err).Message)
	}
}
