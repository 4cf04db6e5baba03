package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUser_DefaultState(t *testing.T) {
	u := NewUser(1, 10)
	require.Equal(t, StateMainMenu, u.State)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, int64(10), u.ChatID)
	require.Equal(t, UnknownProduct, u.Product.Type)
}

func TestUser_SetProduct(t *testing.T) {
	u := NewUser(1, 10)
	u.SetProduct(ProductInfo{Type: "apple", Category: "fruit"})
	require.Equal(t, ProductInfo{Type: "apple", Category: "fruit"}, u.Product)

	u.SetProduct(ProductInfo{})
	require.Equal(t, UnknownProduct, u.Product.Category)
}
