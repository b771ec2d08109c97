package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-frontdesk/models"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
	"gorm.io/gorm"
)

type orderFixture struct {
	db     *gorm.DB
	clock  *fakeClock
	tables *TableService
	orders *OrderService
	waiter *models.User
	table  *models.Table
}

func newOrderFixture(t *testing.T, releaseOnClose bool) *orderFixture {
	db := setupTestDB(t)
	clock := newFakeClock()
	tables := NewTableService(db, nil)
	tables.now = clock.Now
	orders := NewOrderService(db, tables, nil, releaseOnClose)
	orders.now = clock.Now
	return &orderFixture{
		db:     db,
		clock:  clock,
		tables: tables,
		orders: orders,
		waiter: createUser(t, db, "waiter1", "secret-pass", false),
		table:  createTable(t, db, "T1"),
	}
}

func (f *orderFixture) open(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.orders.Open(context.Background(), OpenOrderInput{TableID: f.table.ID, WaiterID: f.waiter.ID})
	require.NoError(t, err)
	return order
}

func TestOrderService_Scenario(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()

	order := f.open(t)
	assert.Equal(t, models.OrderOpen, order.Status)
	assert.Nil(t, order.SubmittedAt)
	assert.Nil(t, order.ClosedAt)

	table, err := f.tables.Get(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)

	// close sebelum submit ditolak
	_, err = f.orders.Close(ctx, order.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	f.clock.Advance(5 * time.Minute)
	submitted, err := f.orders.Submit(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderSubmitted, submitted.Status)
	require.NotNil(t, submitted.SubmittedAt)
	submittedAt := *submitted.SubmittedAt

	f.clock.Advance(5 * time.Minute)
	_, err = f.orders.Submit(ctx, order.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	stored, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.SubmittedAt)
	assert.True(t, submittedAt.Equal(*stored.SubmittedAt))

	closed, err := f.orders.Close(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderClosed, closed.Status)
	require.NotNil(t, closed.ClosedAt)

	_, err = f.orders.Close(ctx, order.ID)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	table, err = f.tables.Get(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableFree, table.Status)
}

func TestOrderService_CloseKeepsTableWhenReleaseDisabled(t *testing.T) {
	f := newOrderFixture(t, false)
	ctx := context.Background()

	order := f.open(t)
	_, err := f.orders.Submit(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.orders.Close(ctx, order.ID)
	require.NoError(t, err)

	table, err := f.tables.Get(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)
}

func TestOrderService_OneActiveOrderPerTable(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()

	first := f.open(t)

	_, err := f.orders.Open(ctx, OpenOrderInput{TableID: f.table.ID, WaiterID: f.waiter.ID})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = f.orders.Submit(ctx, first.ID)
	require.NoError(t, err)
	_, err = f.orders.Open(ctx, OpenOrderInput{TableID: f.table.ID, WaiterID: f.waiter.ID})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = f.orders.Close(ctx, first.ID)
	require.NoError(t, err)
	second := f.open(t)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestOrderService_OpenOnReservedTableOccupiesIt(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()

	_, err := f.tables.Reserve(ctx, f.table.ID)
	require.NoError(t, err)
	f.open(t)

	table, err := f.tables.Get(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableOccupied, table.Status)
}

func TestOrderService_OpenValidation(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()

	_, err := f.orders.Open(ctx, OpenOrderInput{TableID: 999, WaiterID: f.waiter.ID})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	_, err = f.orders.Open(ctx, OpenOrderInput{TableID: f.table.ID, WaiterID: 999})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	require.NoError(t, f.db.Model(f.waiter).Update("lifecycle", models.LifecycleDeleted).Error)
	_, err = f.orders.Open(ctx, OpenOrderInput{TableID: f.table.ID, WaiterID: f.waiter.ID})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// a failed open leaves the table untouched
	table, err := f.tables.Get(ctx, f.table.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TableFree, table.Status)
	assert.Equal(t, uint(1), table.Version)
}

func TestOrderService_StaleVersionConflicts(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()

	order := f.open(t)
	stale := *order
	_, err := f.orders.Submit(ctx, order.ID)
	require.NoError(t, err)

	stale.Status = models.OrderOpen
	err = f.db.Transaction(func(tx *gorm.DB) error {
		_, err := f.orders.transitionTx(tx, &stale, models.OrderSubmit, nil)
		return err
	})
	assert.ErrorIs(t, err, utils.ErrConflict)
}

func TestOrderService_ItemsAndSummary(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()
	menu := NewMenuService(f.db)

	soup := createMenuItem(t, f.db, "Soto", 25000)
	large, err := menu.CreateVariant(ctx, soup.ID, VariantCreate{Name: "Large", PriceDelta: 5000})
	require.NoError(t, err)
	tea := createMenuItem(t, f.db, "Es Teh", 5000)

	order := f.open(t)
	item, err := f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: soup.ID, VariantID: &large.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, 30000.0, item.UnitPrice)
	assert.Equal(t, models.ItemPending, item.Status)

	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: tea.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: tea.ID, Quantity: 0})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: 999, Quantity: 1})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	otherVariant := uint(999)
	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: tea.ID, VariantID: &otherVariant, Quantity: 1})
	assert.ErrorIs(t, err, utils.ErrNotFound)

	// price snapshot survives a menu price change
	require.NoError(t, f.db.Model(soup).Update("base_price", 99000).Error)

	stored, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	summary := Summarize(stored)
	assert.Equal(t, 65000.0, summary.Total)
	assert.Equal(t, 0.0, summary.Paid)
	assert.Equal(t, 65000.0, summary.Balance)

	require.NoError(t, NewMenuService(f.db).DeactivateItem(ctx, tea.ID))
	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: tea.ID, Quantity: 1})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestOrderService_AddItemToClosedOrderFails(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()
	tea := createMenuItem(t, f.db, "Es Jeruk", 7000)

	order := f.open(t)
	_, err := f.orders.Submit(ctx, order.ID)
	require.NoError(t, err)

	// submitted orders still accept extra items
	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: tea.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.orders.Close(ctx, order.ID)
	require.NoError(t, err)
	_, err = f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: tea.ID, Quantity: 1})
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)
}

func TestOrderService_AdvanceItem(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()
	dish := createMenuItem(t, f.db, "Nasi Goreng", 20000)

	order := f.open(t)
	item, err := f.orders.AddItem(ctx, order.ID, AddItemInput{MenuItemID: dish.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.orders.AdvanceItem(ctx, order.ID, item.ID, models.ItemReady)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	for _, target := range []models.ItemStatus{models.ItemSent, models.ItemReady, models.ItemServed} {
		got, err := f.orders.AdvanceItem(ctx, order.ID, item.ID, target)
		require.NoError(t, err)
		assert.Equal(t, target, got.Status)
	}

	_, err = f.orders.AdvanceItem(ctx, order.ID, item.ID, models.ItemServed)
	assert.ErrorIs(t, err, utils.ErrInvalidTransition)

	_, err = f.orders.AdvanceItem(ctx, order.ID+1, item.ID, models.ItemSent)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	var stored models.OrderItem
	require.NoError(t, f.db.First(&stored, item.ID).Error)
	assert.NotNil(t, stored.SentAt)
	assert.NotNil(t, stored.ReadyAt)
	assert.NotNil(t, stored.ServedAt)

	// item progress never moves the order itself
	o, err := f.orders.Get(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderOpen, o.Status)
}

func TestOrderService_ListFilters(t *testing.T) {
	f := newOrderFixture(t, true)
	ctx := context.Background()
	other := createTable(t, f.db, "T2")

	first := f.open(t)
	_, err := f.orders.Open(ctx, OpenOrderInput{TableID: other.ID, WaiterID: f.waiter.ID})
	require.NoError(t, err)
	_, err = f.orders.Submit(ctx, first.ID)
	require.NoError(t, err)

	all, err := f.orders.List(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	submitted, err := f.orders.List(ctx, OrderFilter{Status: models.OrderSubmitted})
	require.NoError(t, err)
	require.Len(t, submitted, 1)
	assert.Equal(t, first.ID, submitted[0].ID)

	byTable, err := f.orders.List(ctx, OrderFilter{TableID: other.ID})
	require.NoError(t, err)
	require.Len(t, byTable, 1)
	assert.Equal(t, other.ID, byTable[0].TableID)
}
