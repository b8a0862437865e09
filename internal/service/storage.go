package service

import (
	"context"

	"github.com/theheadmen/figurine/internal/dbconnector"
)

type Storage interface {
	GetUserByEmail(ctx context.Context, email string, user *dbconnector.User) error
	GetUserByUserID(ctx context.Context, userID uint, user *dbconnector.User) error
	AddUser(ctx context.Context, newUser *dbconnector.User) error
	UpdateUser(ctx context.Context, updUser *dbconnector.User) error
	GetOrderByID(ctx context.Context, orderID uint, order *dbconnector.Order) error
	AddOrder(ctx context.Context, newOrder *dbconnector.Order) error
	UpdateOrder(ctx context.Context, updOrder *dbconnector.Order) error
	GetOrdersByUserID(ctx context.Context, userID uint, orders *[]dbconnector.Order) error
	ListOrders(ctx context.Context, filter dbconnector.OrderFilter, orders *[]dbconnector.Order) error
	CountOrders(ctx context.Context) (int64, error)
	CountOrdersByStatus(ctx context.Context, status string) (int64, error)
}
