package models

import (
	"time"
)

// Статусы заказа, в том виде в котором их видит пользователь
const (
	StatusAwaitingPayment = "ожидает оплаты"
	StatusInProgress      = "в процессе"
	StatusDone            = "готово"
)

const (
	SizeSmall  = "small"
	SizeMedium = "medium"
	SizeLarge  = "large"
)

// Price возвращает цену фигурки в копейках по размеру.
// Неизвестный размер стоит 0. Цена нигде не хранится, она всегда
// вычисляется заново при выдаче заказа.
func Price(size string) int {
	switch size {
	case SizeSmall:
		return 3990
	case SizeMedium:
		return 5990
	case SizeLarge:
		return 7990
	}
	return 0
}

type OrderResponse struct {
	ID           uint      `json:"id"`
	FigurineType string    `json:"figurine_type"`
	Size         string    `json:"size"`
	Comments     string    `json:"comments,omitempty"`
	Photo        string    `json:"photo"`
	Status       string    `json:"status"`
	Price        int       `json:"price"`
	CreatedAt    time.Time `json:"created_at"`
}

type CabinetResponse struct {
	Email      string          `json:"email"`
	Name       string          `json:"name,omitempty"`
	Phone      string          `json:"phone,omitempty"`
	Address    string          `json:"address,omitempty"`
	Confirmed  bool            `json:"confirmed"`
	Orders     []OrderResponse `json:"orders"`
	InProgress int             `json:"in_progress"`
	Completed  int             `json:"completed"`
	Total      int             `json:"total"`
}

type ProfileRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type AdminSummaryResponse struct {
	AwaitingPayment int64 `json:"awaiting_payment"`
	InProgress      int64 `json:"in_progress"`
	Done            int64 `json:"done"`
	Total           int64 `json:"total"`
}
