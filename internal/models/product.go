package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductStatusAvailable = "available"
	ProductStatusLowStock  = "low-stock"
	ProductStatusSoldOut   = "sold-out"
)

var productCategories = []string{"mens", "womens", "caps", "bags", "shoes", "unisex"}

func ValidProductCategory(category string) bool {
	for _, c := range productCategories {
		if category == c {
			return true
		}
	}
	return false
}

// ValidProductStatus checks the enum only. Status is caller-supplied and is
// never derived from quantity, so quantity=0 with status=available is storable.
func ValidProductStatus(status string) bool {
	switch status {
	case ProductStatusAvailable, ProductStatusLowStock, ProductStatusSoldOut:
		return true
	}
	return false
}

// Product is keyed by the caller-assigned ProductID for all API lookups; the
// Mongo _id is never exposed as the product identifier.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID   string             `bson:"id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Price       float64            `bson:"price" json:"price"`
	Description string             `bson:"description" json:"description"`
	Category    string             `bson:"category" json:"category"`
	Images      []string           `bson:"images" json:"images"`
	Sizes       []string           `bson:"sizes" json:"sizes"`
	Colors      []string           `bson:"colors" json:"colors"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
