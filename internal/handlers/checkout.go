package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

type checkoutRequest struct {
	Name    string            `json:"name" binding:"required"`
	Phone1  string            `json:"phone1" binding:"required"`
	Phone2  string            `json:"phone2"`
	Address string            `json:"address" binding:"required"`
	Items   []models.CartLine `json:"items" binding:"required,min=1"`
}

type unknownProductError struct {
	ProductID string
}

func (e unknownProductError) Error() string {
	return "unknown product: " + e.ProductID
}

// snapshotCartLines freezes the cart against the catalog view passed in:
// product name and price are copied as of this moment, the color comes from
// the cart line, and the total is the sum over resolved lines. Resolution
// happens exactly once; nothing guards against a price change racing the
// checkout, and product quantities are left untouched.
func snapshotCartLines(lines []models.CartLine, products map[string]models.Product) ([]models.OrderItem, float64, error) {
	items := make([]models.OrderItem, 0, len(lines))
	total := 0.0

	for _, line := range lines {
		product, ok := products[line.ProductID]
		if !ok {
			return nil, 0, unknownProductError{ProductID: line.ProductID}
		}
		items = append(items, models.OrderItem{
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Color:       line.Color,
			Price:       product.Price,
		})
		total += product.Price * float64(line.Quantity)
	}

	return items, total, nil
}

// Checkout converts a raw client cart into an order in one submission: cart
// lines are normalized, resolved against the catalog by caller-assigned
// product id, and the resulting snapshot is persisted with a server-computed
// total.
func Checkout(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders/checkout"
		defer handlePanic(c, route)

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		lines, err := models.NormalizeCartLines(req.Items)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}
		if len(lines) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		ids := make([]string, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ProductID)
		}

		cursor, err := db.Collection("products").Find(ctx, bson.M{"id": bson.M{"$in": ids}})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "error fetching products")
			return
		}

		var resolved []models.Product
		if err := cursor.All(ctx, &resolved); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "error fetching products")
			return
		}

		byID := make(map[string]models.Product, len(resolved))
		for _, product := range resolved {
			byID[product.ProductID] = product
		}

		items, total, err := snapshotCartLines(lines, byID)
		if err != nil {
			var unknown unknownProductError
			if errors.As(err, &unknown) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": unknown.ProductID,
				})
				return
			}
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		now := time.Now()
		order := models.Order{
			Name:        strings.TrimSpace(req.Name),
			Phone1:      strings.TrimSpace(req.Phone1),
			Phone2:      strings.TrimSpace(req.Phone2),
			Address:     strings.TrimSpace(req.Address),
			CartItems:   items,
			TotalAmount: total,
			Status:      models.OrderStatusPending,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "error adding order")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		c.JSON(http.StatusCreated, order)
	}
}
