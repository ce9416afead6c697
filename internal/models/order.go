package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// OrderItem is a frozen copy of a cart line taken at submission time. Later
// product edits never reach existing orders.
type OrderItem struct {
	ProductName string  `bson:"productName" json:"productName"`
	Quantity    int     `bson:"quantity" json:"quantity"`
	Color       string  `bson:"color" json:"color"`
	Price       float64 `bson:"price" json:"price"`
}

type Order struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Phone1      string             `bson:"phone1" json:"phone1"`
	Phone2      string             `bson:"phone2,omitempty" json:"phone2,omitempty"`
	Address     string             `bson:"address" json:"address"`
	CartItems   []OrderItem        `bson:"cartItems" json:"cartItems"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
