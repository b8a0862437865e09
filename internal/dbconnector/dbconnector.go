package dbconnector

import (
	"context"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/theheadmen/figurine/internal/models"
)

type DBConnector struct {
	DB *gorm.DB
}

// OrderFilter описывает параметры выборки заказов для админа.
// Фильтры комбинируются по И.
type OrderFilter struct {
	HideDone bool
	PaidOnly bool
	Asc      bool
}

func OpenDBConnect(driver, dsn string) (*DBConnector, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	return &DBConnector{DB: db}, err
}

func (dbConnector *DBConnector) DBInitialize() error {
	return dbConnector.DB.AutoMigrate(&User{}, &Order{})
}

func (dbConnector *DBConnector) GetUserByEmail(ctx context.Context, email string, user *User) error {
	result := dbConnector.DB.WithContext(ctx).Where("email = ?", email).First(user)
	return result.Error
}

func (dbConnector *DBConnector) GetUserByUserID(ctx context.Context, userID uint, user *User) error {
	result := dbConnector.DB.WithContext(ctx).First(user, userID)
	return result.Error
}

func (dbConnector *DBConnector) AddUser(ctx context.Context, newUser *User) error {
	result := dbConnector.DB.WithContext(ctx).Create(newUser)
	return result.Error
}

func (dbConnector *DBConnector) UpdateUser(ctx context.Context, updUser *User) error {
	result := dbConnector.DB.WithContext(ctx).Save(updUser)
	return result.Error
}

func (dbConnector *DBConnector) GetOrderByID(ctx context.Context, orderID uint, order *Order) error {
	result := dbConnector.DB.WithContext(ctx).First(order, orderID)
	return result.Error
}

func (dbConnector *DBConnector) AddOrder(ctx context.Context, newOrder *Order) error {
	result := dbConnector.DB.WithContext(ctx).Create(newOrder)
	return result.Error
}

func (dbConnector *DBConnector) UpdateOrder(ctx context.Context, updOrder *Order) error {
	result := dbConnector.DB.WithContext(ctx).Save(updOrder)
	return result.Error
}

func (dbConnector *DBConnector) GetOrdersByUserID(ctx context.Context, userID uint, orders *[]Order) error {
	result := dbConnector.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at desc").Find(orders)
	return result.Error
}

func (dbConnector *DBConnector) ListOrders(ctx context.Context, filter OrderFilter, orders *[]Order) error {
	tx := dbConnector.DB.WithContext(ctx).Model(&Order{})
	if filter.HideDone {
		tx = tx.Where("status <> ?", models.StatusDone)
	}
	if filter.PaidOnly {
		tx = tx.Where("status = ?", models.StatusInProgress)
	}
	direction := "created_at desc"
	if filter.Asc {
		direction = "created_at asc"
	}
	result := tx.Order(direction).Find(orders)
	return result.Error
}

func (dbConnector *DBConnector) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	result := dbConnector.DB.WithContext(ctx).Model(&Order{}).Count(&count)
	return count, result.Error
}

func (dbConnector *DBConnector) CountOrdersByStatus(ctx context.Context, status string) (int64, error) {
	var count int64
	result := dbConnector.DB.WithContext(ctx).Model(&Order{}).Where("status = ?", status).Count(&count)
	return count, result.Error
}
