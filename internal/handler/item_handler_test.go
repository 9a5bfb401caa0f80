package handler

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

// Quantity is free-form: zero and negative values pass request validation
// and are stored as sent.
func TestItemRequestsAcceptAnyQuantity(t *testing.T) {
	v := validator.New()

	for _, qty := range []int{-3, 0, 1, 250} {
		assert.NoError(t, v.Struct(CreateItemRequest{Title: "Milk", Quantity: &qty, Unit: "l"}),
			"create with quantity %d", qty)
		assert.NoError(t, v.Struct(UpdateItemRequest{Quantity: &qty}),
			"update with quantity %d", qty)
	}
}
