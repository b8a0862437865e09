package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/theheadmen/figurine/internal/auth"
	"github.com/theheadmen/figurine/internal/dbconnector"
	serverrors "github.com/theheadmen/figurine/internal/errors"
	"github.com/theheadmen/figurine/internal/logger"
	"github.com/theheadmen/figurine/internal/models"
)

// RegisterUserLogic создает пользователя с захешированным паролем.
// Дубликат почты ловится на уникальном ограничении хранилища.
func RegisterUserLogic(ctx context.Context, storage Storage, email, password string) (*dbconnector.User, error) {
	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := dbconnector.User{
		Email:    email,
		Password: hashedPassword,
	}
	if err := storage.AddUser(ctx, &user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, serverrors.ErrDuplicateEmail
		}
		return nil, err
	}

	logger.Info("registered new user", zap.Uint("user_id", user.ID))
	return &user, nil
}

// LoginUserLogic сверяет пароль и, если включено требование подтвержденной
// почты, проверяет флаг подтверждения. Неизвестная почта и неверный пароль
// снаружи неразличимы.
func LoginUserLogic(ctx context.Context, storage Storage, email, password string, requireConfirmed bool) (*dbconnector.User, error) {
	var user dbconnector.User
	if err := storage.GetUserByEmail(ctx, email, &user); err != nil {
		return nil, serverrors.ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, serverrors.ErrInvalidCredentials
	}
	if requireConfirmed && !user.Confirmed {
		return nil, serverrors.ErrEmailNotConfirmed
	}
	return &user, nil
}

// ConfirmEmailLogic выставляет флаг подтверждения почты. Повторное
// подтверждение не ошибка, возвращается признак что делать было нечего.
func ConfirmEmailLogic(ctx context.Context, storage Storage, email string) (alreadyConfirmed bool, err error) {
	var user dbconnector.User
	if err := storage.GetUserByEmail(ctx, email, &user); err != nil {
		return false, err
	}
	if user.Confirmed {
		return true, nil
	}

	user.Confirmed = true
	if err := storage.UpdateUser(ctx, &user); err != nil {
		return false, err
	}
	logger.Info("email confirmed", zap.Uint("user_id", user.ID))
	return false, nil
}

// UpdateProfileLogic обновляет профиль пользователя.
func UpdateProfileLogic(ctx context.Context, storage Storage, user *dbconnector.User, profile models.ProfileRequest) error {
	user.Name = profile.Name
	user.Phone = profile.Phone
	user.Address = profile.Address
	return storage.UpdateUser(ctx, user)
}

// CreateOrderLogic создает заказ в статусе "ожидает оплаты".
func CreateOrderLogic(ctx context.Context, storage Storage, userID uint, photoPath, figurineType, size, comments string) (*dbconnector.Order, error) {
	order := dbconnector.Order{
		UserID:       userID,
		PhotoPath:    photoPath,
		FigurineType: figurineType,
		Size:         size,
		Comments:     comments,
		Status:       models.StatusAwaitingPayment,
	}
	if err := storage.AddOrder(ctx, &order); err != nil {
		return nil, err
	}
	logger.Info("created new order", zap.Uint("user_id", userID), zap.Uint("order_id", order.ID))
	return &order, nil
}

// AdvanceOrderLogic переводит заказ пользователя из "ожидает оплаты" в
// "в процессе". Любой другой исходный статус отклоняется, тихих no-op нет.
// Чужой заказ выглядит как несуществующий.
func AdvanceOrderLogic(ctx context.Context, storage Storage, userID, orderID uint) (*dbconnector.Order, error) {
	var order dbconnector.Order
	if err := storage.GetOrderByID(ctx, orderID, &order); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serverrors.ErrOrderNotFound
		}
		return nil, err
	}
	if order.UserID != userID {
		return nil, serverrors.ErrOrderNotFound
	}
	if order.Status != models.StatusAwaitingPayment {
		return nil, serverrors.ErrInvalidTransition
	}

	order.Status = models.StatusInProgress
	if err := storage.UpdateOrder(ctx, &order); err != nil {
		return nil, err
	}
	logger.Info("order advanced", zap.Uint("order_id", order.ID), zap.String("status", order.Status))
	return &order, nil
}

// CompleteOrderLogic выставляет заказу статус "готово" из любого исходного
// состояния, операция идемпотентна.
func CompleteOrderLogic(ctx context.Context, storage Storage, orderID uint) (*dbconnector.Order, error) {
	var order dbconnector.Order
	if err := storage.GetOrderByID(ctx, orderID, &order); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, serverrors.ErrOrderNotFound
		}
		return nil, err
	}

	order.Status = models.StatusDone
	if err := storage.UpdateOrder(ctx, &order); err != nil {
		return nil, err
	}
	logger.Info("order completed", zap.Uint("order_id", order.ID))
	return &order, nil
}

// CabinetLogic собирает личный кабинет: заказы пользователя с вычисленной
// ценой и счетчики по статусам.
func CabinetLogic(ctx context.Context, storage Storage, user *dbconnector.User) (models.CabinetResponse, error) {
	var orders []dbconnector.Order
	if err := storage.GetOrdersByUserID(ctx, user.ID, &orders); err != nil {
		return models.CabinetResponse{}, err
	}

	resp := models.CabinetResponse{
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		Address:   user.Address,
		Confirmed: user.Confirmed,
		Orders:    OrderResponses(orders),
		Total:     len(orders),
	}
	for _, order := range orders {
		switch order.Status {
		case models.StatusInProgress:
			resp.InProgress++
		case models.StatusDone:
			resp.Completed++
		}
	}
	return resp, nil
}

// AdminOrdersLogic возвращает заказы по фильтрам админа.
func AdminOrdersLogic(ctx context.Context, storage Storage, filter dbconnector.OrderFilter) ([]models.OrderResponse, error) {
	var orders []dbconnector.Order
	if err := storage.ListOrders(ctx, filter, &orders); err != nil {
		return nil, err
	}
	return OrderResponses(orders), nil
}

// AdminSummaryLogic собирает счетчики заказов для админской страницы.
func AdminSummaryLogic(ctx context.Context, storage Storage) (models.AdminSummaryResponse, error) {
	var resp models.AdminSummaryResponse
	var err error
	if resp.AwaitingPayment, err = storage.CountOrdersByStatus(ctx, models.StatusAwaitingPayment); err != nil {
		return resp, err
	}
	if resp.InProgress, err = storage.CountOrdersByStatus(ctx, models.StatusInProgress); err != nil {
		return resp, err
	}
	if resp.Done, err = storage.CountOrdersByStatus(ctx, models.StatusDone); err != nil {
		return resp, err
	}
	resp.Total, err = storage.CountOrders(ctx)
	return resp, err
}

// OrderResponses конвертирует заказы в ответы с вычисленной ценой.
func OrderResponses(orders []dbconnector.Order) []models.OrderResponse {
	responses := make([]models.OrderResponse, len(orders))
	for i, order := range orders {
		responses[i] = models.OrderResponse{
			ID:           order.ID,
			FigurineType: order.FigurineType,
			Size:         order.Size,
			Comments:     order.Comments,
			Photo:        order.PhotoPath,
			Status:       order.Status,
			Price:        models.Price(order.Size),
			CreatedAt:    order.CreatedAt,
		}
	}
	return responses
}
