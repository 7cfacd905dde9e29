package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ycfang/orderbot/internal/domain/entity"
	"github.com/ycfang/orderbot/pkg/database"
)

type repoEnv struct {
	db     *database.DB
	users  *UserRepository
	menus  *MenuRepository
	orders *OrderRepository
}

func newRepoEnv(t *testing.T) *repoEnv {
	t.Helper()
	logger := zap.NewNop()

	db, err := database.New(database.Config{
		Path:         filepath.Join(t.TempDir(), "orders.db"),
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrations("../../migrations"))

	return &repoEnv{
		db:     db,
		users:  NewUserRepository(db.DB, logger),
		menus:  NewMenuRepository(db.DB, logger),
		orders: NewOrderRepository(db.DB, logger),
	}
}

func (e *repoEnv) seedUser(t *testing.T, code, name string) *entity.User {
	t.Helper()
	u := &entity.User{UserCode: code, Name: name}
	require.NoError(t, e.users.Create(context.Background(), u))
	return u
}

func (e *repoEnv) seedOrder(t *testing.T, date time.Time, meal string, userID int64, payerID *int64, amount float64) *entity.Order {
	t.Helper()
	ctx := context.Background()
	menu, err := e.menus.GetOrCreate(ctx, date, meal, "seed")
	require.NoError(t, err)
	o := &entity.Order{UserID: userID, MenuID: menu.ID, Items: "便當", Amount: amount, PayerID: payerID}
	require.NoError(t, e.orders.Create(ctx, o))
	return o
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEnsureAdmin_Idempotent(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()

	first, err := e.users.EnsureAdmin(ctx, "管理員")
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, entity.AdminUserCode, first.UserCode)
	assert.True(t, first.IsAdmin)

	second, err := e.users.EnsureAdmin(ctx, "管理員")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	n, err := e.users.CountMembers(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "the admin row is not a member")
}

func TestUserCreate_RejectsDuplicateCode(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()

	e.seedUser(t, "2", "小明")
	err := e.users.Create(ctx, &entity.User{UserCode: "2", Name: "別人"})
	assert.Error(t, err)
}

func TestListMembers_NumericCodeOrder(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()

	_, err := e.users.EnsureAdmin(ctx, "管理員")
	require.NoError(t, err)
	e.seedUser(t, "10", "甲")
	e.seedUser(t, "2", "乙")

	members, err := e.users.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	// "2" sorts before "10" numerically, after it lexically.
	assert.Equal(t, "2", members[0].UserCode)
	assert.Equal(t, "10", members[1].UserCode)
}

func TestMenuGetOrCreate_SameSlotSameRow(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()
	day := date(2026, 3, 2)

	first, err := e.menus.GetOrCreate(ctx, day, entity.MealLunch, "2026/03/02 午餐")
	require.NoError(t, err)
	second, err := e.menus.GetOrCreate(ctx, day, entity.MealLunch, "ignored on refetch")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := e.menus.GetOrCreate(ctx, day, entity.MealDinner, "2026/03/02 晚餐")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestOrderDetail_JoinsPayerAndSlot(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()
	user := e.seedUser(t, "2", "小明")
	payer := e.seedUser(t, "15", "總務")
	day := date(2026, 3, 2)

	e.seedOrder(t, day, entity.MealLunch, user.ID, &payer.ID, 100)

	rows, err := e.orders.ListByDate(ctx, day)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	o := rows[0]
	assert.Equal(t, "2", o.UserCode)
	assert.Equal(t, "小明", o.UserName)
	assert.Equal(t, "15", o.PayerCode)
	assert.Equal(t, "總務", o.PayerName)
	assert.Equal(t, entity.MealLunch, o.MealType)
	assert.True(t, o.HasPayer())

	// Without a payer the detail row carries empty payer fields.
	solo := e.seedOrder(t, day, entity.MealDinner, user.ID, nil, 50)
	got, err := e.orders.GetByID(ctx, solo.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.PayerCode)
	assert.False(t, got.HasPayer())
}

func TestMarkPaidScope(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()
	user := e.seedUser(t, "2", "小明")
	payer := e.seedUser(t, "15", "總務")
	d1 := date(2026, 10, 24)
	d2 := date(2026, 10, 25)

	e.seedOrder(t, d1, entity.MealLunch, user.ID, &payer.ID, 100)
	e.seedOrder(t, d1, entity.MealDinner, user.ID, &payer.ID, 80)
	e.seedOrder(t, d2, entity.MealLunch, user.ID, &payer.ID, 60)

	// Single slot.
	count, total, err := e.orders.MarkPaidScope(ctx, user.ID, &d1, entity.MealLunch)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 100.0, total)

	// Whole day only settles what is still unpaid on it.
	count, total, err = e.orders.MarkPaidScope(ctx, user.ID, &d1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 80.0, total)

	// All-time sweeps the rest.
	count, total, err = e.orders.MarkPaidScope(ctx, user.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 60.0, total)

	// Nothing left to settle.
	count, total, err = e.orders.MarkPaidScope(ctx, user.ID, nil, "")
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Zero(t, total)

	sum, err := e.orders.SumUnpaidByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Zero(t, sum)
}

func TestMarkPaidScope_OtherUsersUntouched(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()
	a := e.seedUser(t, "2", "小明")
	b := e.seedUser(t, "5", "小華")
	day := date(2026, 10, 24)

	e.seedOrder(t, day, entity.MealLunch, a.ID, nil, 100)
	e.seedOrder(t, day, entity.MealLunch, b.ID, nil, 85)

	count, _, err := e.orders.MarkPaidScope(ctx, a.ID, nil, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	sum, err := e.orders.SumUnpaidByUser(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 85.0, sum)
}

func TestListWithUnpaid_ExcludesAdminAndPaid(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()

	admin, err := e.users.EnsureAdmin(ctx, "管理員")
	require.NoError(t, err)
	a := e.seedUser(t, "2", "小明")
	b := e.seedUser(t, "5", "小華")
	day := date(2026, 10, 24)

	e.seedOrder(t, day, entity.MealLunch, a.ID, nil, 100)
	e.seedOrder(t, day, entity.MealLunch, admin.ID, nil, 999)
	paid := e.seedOrder(t, day, entity.MealLunch, b.ID, nil, 85)
	require.NoError(t, e.orders.SetPaid(ctx, paid.ID, true))

	users, err := e.users.ListWithUnpaid(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "2", users[0].UserCode)
}

func TestUpdateAmountAndTogglePaid(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()
	user := e.seedUser(t, "2", "小明")
	o := e.seedOrder(t, date(2026, 3, 2), entity.MealLunch, user.ID, nil, 0)

	require.NoError(t, e.orders.UpdateAmount(ctx, o.ID, 120))
	require.NoError(t, e.orders.SetPaid(ctx, o.ID, true))

	got, err := e.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 120.0, got.Amount)
	assert.True(t, got.Paid)
}

func TestDeleteUser_CascadeKeepsPayerlessOrders(t *testing.T) {
	e := newRepoEnv(t)
	ctx := context.Background()
	user := e.seedUser(t, "2", "小明")
	payer := e.seedUser(t, "15", "總務")
	o := e.seedOrder(t, date(2026, 3, 2), entity.MealLunch, user.ID, &payer.ID, 100)

	// Deleting the payer nulls the reference but keeps the order.
	require.NoError(t, e.users.Delete(ctx, payer.ID))
	got, err := e.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, got.HasPayer())

	// Deleting the orderer removes the order itself.
	require.NoError(t, e.users.Delete(ctx, user.ID))
	got, err = e.orders.GetByID(ctx, o.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
