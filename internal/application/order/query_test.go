package order

import (
	"context"
	"testing"

	"github.com/felipeshurrab/Harmonia/internal/domain/access"
	"github.com/felipeshurrab/Harmonia/internal/domain/fault"
	"github.com/felipeshurrab/Harmonia/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeAs(t *testing.T, uc *PlaceOrderUseCase, sellerID string) string {
	t.Helper()
	in := cpfOrder(PlaceOrderLine{ProductID: "p1", Quantity: 1})
	in.SellerID = sellerID
	o, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)
	return o.ID
}

func TestListOrders_FiltersBySellerUnlessAdministrator(t *testing.T) {
	s := memory.NewStore()
	addProduct(t, s, "p1", "Mouse", "50.00", 10)
	place := newPlaceOrder(s, nil)
	placeAs(t, place, "s1")
	placeAs(t, place, "s2")
	placeAs(t, place, "s1")

	list := NewListOrdersUseCase(s.Orders(), nil)
	ctx := context.Background()

	all, err := list.Execute(ctx, access.Actor{ID: "admin", Role: access.RoleAdministrator})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	mine, err := list.Execute(ctx, access.Actor{ID: "s1", Role: access.RoleSeller})
	require.NoError(t, err)
	require.Len(t, mine, 2)
	for _, o := range mine {
		assert.Equal(t, "s1", o.SellerID)
	}

	none, err := list.Execute(ctx, access.Actor{ID: "s3", Role: access.RoleSeller})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetOrder_Visibility(t *testing.T) {
	s := memory.NewStore()
	addProduct(t, s, "p1", "Mouse", "50.00", 10)
	id := placeAs(t, newPlaceOrder(s, nil), "s1")
	get := NewGetOrderUseCase(s.Orders(), nil)
	ctx := context.Background()

	o, err := get.Execute(ctx, GetOrderInput{Actor: access.Actor{ID: "s1", Role: access.RoleSeller}, OrderID: id})
	require.NoError(t, err)
	assert.Equal(t, id, o.ID)

	_, err = get.Execute(ctx, GetOrderInput{Actor: access.Actor{ID: "admin", Role: access.RoleAdministrator}, OrderID: id})
	assert.NoError(t, err)

	_, err = get.Execute(ctx, GetOrderInput{Actor: access.Actor{ID: "s2", Role: access.RoleSeller}, OrderID: id})
	assert.ErrorIs(t, err, fault.ErrForbidden)

	_, err = get.Execute(ctx, GetOrderInput{Actor: access.Actor{ID: "s1", Role: access.RoleSeller}, OrderID: "nope"})
	assert.ErrorIs(t, err, fault.ErrNotFound)
}
