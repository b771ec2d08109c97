package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableStatusNext(t *testing.T) {
	tests := []struct {
		from TableStatus
		ev   TableEvent
		to   TableStatus
		ok   bool
	}{
		{TableFree, TableReserve, TableReserved, true},
		{TableReserved, TableReserve, TableReserved, false},
		{TableOccupied, TableReserve, TableOccupied, false},
		{TableFree, TableOccupy, TableOccupied, true},
		{TableReserved, TableOccupy, TableOccupied, true},
		{TableOccupied, TableOccupy, TableOccupied, false},
		{TableFree, TableRelease, TableFree, true},
		{TableReserved, TableRelease, TableFree, true},
		{TableOccupied, TableRelease, TableFree, true},
	}
	for _, tt := range tests {
		got, ok := tt.from.Next(tt.ev)
		assert.Equal(t, tt.ok, ok, "%s --%s-->", tt.from, tt.ev)
		assert.Equal(t, tt.to, got, "%s --%s-->", tt.from, tt.ev)
	}
}

func TestOrderStatusNextIsMonotonic(t *testing.T) {
	next, ok := OrderOpen.Next(OrderSubmit)
	assert.True(t, ok)
	assert.Equal(t, OrderSubmitted, next)

	next, ok = OrderSubmitted.Next(OrderClose)
	assert.True(t, ok)
	assert.Equal(t, OrderClosed, next)

	for _, s := range []OrderStatus{OrderSubmitted, OrderClosed} {
		_, ok := s.Next(OrderSubmit)
		assert.False(t, ok, string(s))
	}
	for _, s := range []OrderStatus{OrderOpen, OrderClosed} {
		_, ok := s.Next(OrderClose)
		assert.False(t, ok, string(s))
	}

	assert.True(t, OrderOpen.Active())
	assert.True(t, OrderSubmitted.Active())
	assert.False(t, OrderClosed.Active())
}

func TestItemStatusCanAdvanceTo(t *testing.T) {
	assert.True(t, ItemPending.CanAdvanceTo(ItemSent))
	assert.True(t, ItemSent.CanAdvanceTo(ItemReady))
	assert.True(t, ItemReady.CanAdvanceTo(ItemServed))

	assert.False(t, ItemPending.CanAdvanceTo(ItemReady))
	assert.False(t, ItemSent.CanAdvanceTo(ItemPending))
	assert.False(t, ItemServed.CanAdvanceTo(ItemServed))
	assert.False(t, ItemStatus("cooking").CanAdvanceTo(ItemSent))
}

func TestOrderTotals(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 2, UnitPrice: 12500},
			{Quantity: 1, UnitPrice: 5000},
		},
		Payments: []Payment{{Amount: 10000}},
	}
	assert.Equal(t, 30000.0, order.Total())
	assert.Equal(t, 10000.0, order.Paid())
}

func TestUnitPrice(t *testing.T) {
	item := &MenuItem{BasePrice: 20000}
	assert.Equal(t, 20000.0, UnitPrice(item, nil))
	assert.Equal(t, 23500.0, UnitPrice(item, &MenuItemVariant{PriceDelta: 3500}))
}

func TestUserLifecycle(t *testing.T) {
	u := User{Lifecycle: LifecycleActive}
	assert.True(t, u.CanAuthenticate())
	assert.False(t, u.IsDeleted())

	u.Lifecycle = LifecycleInactive
	assert.False(t, u.CanAuthenticate())
	assert.False(t, u.IsActive())

	u.Lifecycle = LifecycleDeleted
	assert.False(t, u.CanAuthenticate())
	assert.True(t, u.IsDeleted())

	assert.False(t, Lifecycle("archived").Valid())
	assert.True(t, ValidRole(RoleCashier))
	assert.False(t, ValidRole("chef"))
	assert.True(t, ValidPaymentMethod(PaymentTransfer))
	assert.False(t, ValidPaymentMethod("qris"))
}
