package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theheadmen/figurine/internal/auth"
	"github.com/theheadmen/figurine/internal/dbconnector"
	serverrors "github.com/theheadmen/figurine/internal/errors"
	"github.com/theheadmen/figurine/internal/models"
)

var testDBCounter int

func newTestStorage(t *testing.T) *dbconnector.DBConnector {
	t.Helper()
	testDBCounter++
	dsn := fmt.Sprintf("file:service_test_%d?mode=memory&cache=shared", testDBCounter)
	db, err := dbconnector.OpenDBConnect("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.DBInitialize())
	return db
}

func TestRegisterUserLogic(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	user, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.Confirmed)
	assert.False(t, user.IsAdmin)
	// в хранилище лежит хеш, не пароль
	assert.NotEqual(t, "qwerty123", user.Password)
	assert.True(t, auth.CheckPassword(user.Password, "qwerty123"))
}

func TestRegisterUserLogicDuplicateEmail(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	first, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	_, err = RegisterUserLogic(ctx, storage, "user@example.com", "another")
	assert.ErrorIs(t, err, serverrors.ErrDuplicateEmail)

	// первая запись не пострадала
	var stored dbconnector.User
	require.NoError(t, storage.GetUserByEmail(ctx, "user@example.com", &stored))
	assert.Equal(t, first.ID, stored.ID)
	assert.True(t, auth.CheckPassword(stored.Password, "qwerty123"))
}

func TestLoginUserLogic(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	registered, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	user, err := LoginUserLogic(ctx, storage, "user@example.com", "qwerty123", false)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	// неизвестная почта и неверный пароль дают одну и ту же ошибку
	_, err = LoginUserLogic(ctx, storage, "user@example.com", "wrong", false)
	assert.ErrorIs(t, err, serverrors.ErrInvalidCredentials)
	_, err = LoginUserLogic(ctx, storage, "nobody@example.com", "qwerty123", false)
	assert.ErrorIs(t, err, serverrors.ErrInvalidCredentials)
}

func TestLoginUserLogicRequireConfirmed(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	_, err = LoginUserLogic(ctx, storage, "user@example.com", "qwerty123", true)
	assert.ErrorIs(t, err, serverrors.ErrEmailNotConfirmed)

	already, err := ConfirmEmailLogic(ctx, storage, "user@example.com")
	require.NoError(t, err)
	assert.False(t, already)

	_, err = LoginUserLogic(ctx, storage, "user@example.com", "qwerty123", true)
	assert.NoError(t, err)
}

func TestConfirmEmailLogicIdempotent(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	_, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	already, err := ConfirmEmailLogic(ctx, storage, "user@example.com")
	require.NoError(t, err)
	assert.False(t, already)

	// повторное подтверждение это no-op, не ошибка
	already, err = ConfirmEmailLogic(ctx, storage, "user@example.com")
	require.NoError(t, err)
	assert.True(t, already)
}

func TestOrderTransitions(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	user, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	order, err := CreateOrderLogic(ctx, storage, user.ID, "cat.png", "single", models.SizeSmall, "")
	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingPayment, order.Status)

	// ожидает оплаты -> в процессе
	advanced, err := AdvanceOrderLogic(ctx, storage, user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, advanced.Status)

	// из "в процессе" пользователь двигать заказ не может
	_, err = AdvanceOrderLogic(ctx, storage, user.ID, order.ID)
	assert.ErrorIs(t, err, serverrors.ErrInvalidTransition)

	// админ завершает из любого статуса и идемпотентно
	done, err := CompleteOrderLogic(ctx, storage, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, done.Status)
	done, err = CompleteOrderLogic(ctx, storage, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDone, done.Status)

	// из "готово" тоже нельзя
	_, err = AdvanceOrderLogic(ctx, storage, user.ID, order.ID)
	assert.ErrorIs(t, err, serverrors.ErrInvalidTransition)
}

func TestOrderOwnership(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	owner, err := RegisterUserLogic(ctx, storage, "owner@example.com", "qwerty123")
	require.NoError(t, err)
	stranger, err := RegisterUserLogic(ctx, storage, "stranger@example.com", "qwerty123")
	require.NoError(t, err)

	order, err := CreateOrderLogic(ctx, storage, owner.ID, "cat.png", "single", models.SizeSmall, "")
	require.NoError(t, err)

	// чужой заказ выглядит как несуществующий
	_, err = AdvanceOrderLogic(ctx, storage, stranger.ID, order.ID)
	assert.ErrorIs(t, err, serverrors.ErrOrderNotFound)

	_, err = AdvanceOrderLogic(ctx, storage, owner.ID, 99999)
	assert.ErrorIs(t, err, serverrors.ErrOrderNotFound)
}

func TestCabinetLogic(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	user, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	first, err := CreateOrderLogic(ctx, storage, user.ID, "cat.png", "single", models.SizeSmall, "кот")
	require.NoError(t, err)
	second, err := CreateOrderLogic(ctx, storage, user.ID, "dog.png", "family", models.SizeLarge, "")
	require.NoError(t, err)

	_, err = AdvanceOrderLogic(ctx, storage, user.ID, first.ID)
	require.NoError(t, err)
	_, err = CompleteOrderLogic(ctx, storage, second.ID)
	require.NoError(t, err)

	cabinet, err := CabinetLogic(ctx, storage, user)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", cabinet.Email)
	assert.Equal(t, 2, cabinet.Total)
	assert.Equal(t, 1, cabinet.InProgress)
	assert.Equal(t, 1, cabinet.Completed)
	require.Len(t, cabinet.Orders, 2)

	// цена вычисляется при выдаче и не хранится
	prices := map[uint]int{}
	for _, order := range cabinet.Orders {
		prices[order.ID] = order.Price
	}
	assert.Equal(t, 3990, prices[first.ID])
	assert.Equal(t, 7990, prices[second.ID])
}

func seedOrder(t *testing.T, storage Storage, userID uint, status string, createdAt time.Time) *dbconnector.Order {
	t.Helper()
	order := dbconnector.Order{
		UserID:    userID,
		PhotoPath: "seed.png",
		Size:      models.SizeSmall,
		Status:    status,
	}
	order.CreatedAt = createdAt
	require.NoError(t, storage.AddOrder(context.Background(), &order))
	return &order
}

func TestAdminOrdersLogicFilters(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	user, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	waiting := seedOrder(t, storage, user.ID, models.StatusAwaitingPayment, base)
	inProgressOld := seedOrder(t, storage, user.ID, models.StatusInProgress, base.Add(time.Hour))
	inProgressNew := seedOrder(t, storage, user.ID, models.StatusInProgress, base.Add(2*time.Hour))
	done := seedOrder(t, storage, user.ID, models.StatusDone, base.Add(3*time.Hour))

	// без фильтров, по умолчанию от новых к старым
	all, err := AdminOrdersLogic(ctx, storage, dbconnector.OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, done.ID, all[0].ID)
	assert.Equal(t, waiting.ID, all[3].ID)

	// hide_done исключает готовые
	hidden, err := AdminOrdersLogic(ctx, storage, dbconnector.OrderFilter{HideDone: true})
	require.NoError(t, err)
	require.Len(t, hidden, 3)
	for _, order := range hidden {
		assert.NotEqual(t, models.StatusDone, order.Status)
	}

	// paid_only сужает до "в процессе", фильтры живут вместе, сортировка asc
	paid, err := AdminOrdersLogic(ctx, storage, dbconnector.OrderFilter{HideDone: true, PaidOnly: true, Asc: true})
	require.NoError(t, err)
	require.Len(t, paid, 2)
	assert.Equal(t, inProgressOld.ID, paid[0].ID)
	assert.Equal(t, inProgressNew.ID, paid[1].ID)
}

func TestAdminSummaryLogic(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	user, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	seedOrder(t, storage, user.ID, models.StatusAwaitingPayment, base)
	seedOrder(t, storage, user.ID, models.StatusInProgress, base)
	seedOrder(t, storage, user.ID, models.StatusDone, base)
	seedOrder(t, storage, user.ID, models.StatusDone, base)

	summary, err := AdminSummaryLogic(ctx, storage)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.AwaitingPayment)
	assert.Equal(t, int64(1), summary.InProgress)
	assert.Equal(t, int64(2), summary.Done)
	assert.Equal(t, int64(4), summary.Total)
}

func TestUpdateProfileLogic(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	user, err := RegisterUserLogic(ctx, storage, "user@example.com", "qwerty123")
	require.NoError(t, err)

	err = UpdateProfileLogic(ctx, storage, user, models.ProfileRequest{
		Name:    "Иван",
		Phone:   "+7 900 000-00-00",
		Address: "Москва",
	})
	require.NoError(t, err)

	var stored dbconnector.User
	require.NoError(t, storage.GetUserByUserID(ctx, user.ID, &stored))
	assert.Equal(t, "Иван", stored.Name)
	assert.Equal(t, "+7 900 000-00-00", stored.Phone)
	assert.Equal(t, "Москва", stored.Address)
}
