package dbconnector

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Email     string `json:"email" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Confirmed bool   `json:"confirmed" gorm:"default:false"`
	IsAdmin   bool   `json:"-" gorm:"default:false"`
}

type Order struct {
	gorm.Model
	UserID       uint   `gorm:"not null;index"`
	PhotoPath    string `gorm:"not null"`
	FigurineType string
	Size         string
	Comments     string
	Status       string `gorm:"default:'ожидает оплаты'"`
}
