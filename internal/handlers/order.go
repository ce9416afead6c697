package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/featureflags"
	"backend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type orderItemRequest struct {
	ProductName string   `json:"productName" binding:"required"`
	Quantity    int      `json:"quantity" binding:"required,gt=0"`
	Color       string   `json:"color" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
}

type createOrderRequest struct {
	Name        string             `json:"name" binding:"required"`
	Phone1      string             `json:"phone1" binding:"required"`
	Phone2      string             `json:"phone2"`
	Address     string             `json:"address" binding:"required"`
	CartItems   []orderItemRequest `json:"cartItems" binding:"required,min=1,dive"`
	TotalAmount *float64           `json:"totalAmount" binding:"required"`
	Status      string             `json:"status"`
}

type updateOrderRequest struct {
	Name        *string             `json:"name"`
	Phone1      *string             `json:"phone1"`
	Phone2      *string             `json:"phone2"`
	Address     *string             `json:"address"`
	CartItems   *[]orderItemRequest `json:"cartItems"`
	TotalAmount *float64            `json:"totalAmount"`
	Status      *string             `json:"status"`
}

// totalTolerance absorbs float representation noise when verifyTotals is on.
const totalTolerance = 0.01

/* =========================
   BUILD HELPERS
========================= */

func orderItemsFromRequest(items []orderItemRequest) []models.OrderItem {
	out := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, models.OrderItem{
			ProductName: strings.TrimSpace(item.ProductName),
			Quantity:    item.Quantity,
			Color:       strings.TrimSpace(item.Color),
			Price:       *item.Price,
		})
	}
	return out
}

func buildOrderFromRequest(req createOrderRequest) (models.Order, error) {
	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = models.OrderStatusPending
	}
	if !models.ValidOrderStatus(status) {
		return models.Order{}, fmt.Errorf("invalid status: %s", status)
	}

	now := time.Now()
	return models.Order{
		Name:        strings.TrimSpace(req.Name),
		Phone1:      strings.TrimSpace(req.Phone1),
		Phone2:      strings.TrimSpace(req.Phone2),
		Address:     strings.TrimSpace(req.Address),
		CartItems:   orderItemsFromRequest(req.CartItems),
		TotalAmount: *req.TotalAmount,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// verifyOrderTotal recomputes the client-submitted sum. Only called when the
// verifyTotals flag is on; by default the caller's arithmetic is trusted and
// stored as-is.
func verifyOrderTotal(items []models.OrderItem, total float64) error {
	sum := 0.0
	for _, item := range items {
		sum += item.Price * float64(item.Quantity)
	}
	if math.Abs(sum-total) > totalTolerance {
		return fmt.Errorf("totalAmount %.2f does not match item sum %.2f", total, sum)
	}
	return nil
}

// buildOrderUpdate maps the supplied fields into a $set document. Unset
// fields never enter the document, so untouched fields stay byte-identical.
func buildOrderUpdate(req updateOrderRequest) (bson.M, error) {
	update := bson.M{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, errors.New("name cannot be empty")
		}
		update["name"] = name
	}
	if req.Phone1 != nil {
		phone := strings.TrimSpace(*req.Phone1)
		if phone == "" {
			return nil, errors.New("phone1 cannot be empty")
		}
		update["phone1"] = phone
	}
	if req.Phone2 != nil {
		update["phone2"] = strings.TrimSpace(*req.Phone2)
	}
	if req.Address != nil {
		address := strings.TrimSpace(*req.Address)
		if address == "" {
			return nil, errors.New("address cannot be empty")
		}
		update["address"] = address
	}
	if req.CartItems != nil {
		if len(*req.CartItems) == 0 {
			return nil, errors.New("cartItems cannot be empty")
		}
		for _, item := range *req.CartItems {
			if strings.TrimSpace(item.ProductName) == "" || item.Quantity <= 0 ||
				strings.TrimSpace(item.Color) == "" || item.Price == nil {
				return nil, errors.New("each cart item requires productName, quantity, color and price")
			}
		}
		update["cartItems"] = orderItemsFromRequest(*req.CartItems)
	}
	if req.TotalAmount != nil {
		update["totalAmount"] = *req.TotalAmount
	}
	if req.Status != nil {
		status := strings.TrimSpace(*req.Status)
		if !models.ValidOrderStatus(status) {
			return nil, fmt.Errorf("invalid status: %s", status)
		}
		update["status"] = status
	}

	if len(update) == 0 {
		return nil, errors.New("no fields to update")
	}

	return update, nil
}

/* =========================
   HANDLERS
========================= */

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("orders").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching orders"})
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching orders"})
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

func CreateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		order, err := buildOrderFromRequest(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		if featureflags.Values().VerifyTotals.IsEnabled(nil) {
			if err := verifyOrderTotal(order.CartItems, order.TotalAmount); err != nil {
				respondWithError(c, http.StatusBadRequest, route, err.Error())
				return
			}
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("orders").InsertOne(ctx, order)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "error adding order")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			order.ID = id
		}

		log.Println("[ORDER] [INFO] order created:", order.ID.Hex())
		c.JSON(http.StatusCreated, order)
	}
}

func UpdateOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id"

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update, err := buildOrderUpdate(req)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if req.Status != nil && featureflags.Values().StrictStatusFlow.IsEnabled(nil) {
			var existing models.Order
			err := db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&existing)
			if err == mongo.ErrNoDocuments {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching order"})
				return
			}
			if !canTransitionStatus(existing.Status, update["status"].(string)) {
				respondWithError(c, http.StatusBadRequest, route,
					fmt.Sprintf("invalid status transition: %s -> %s", existing.Status, update["status"]))
				return
			}
		}

		update["updatedAt"] = time.Now()

		var updated models.Order
		err = db.Collection("orders").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": orderID},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "error updating order"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("orders").DeleteOne(ctx, bson.M{"_id": orderID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting order"})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted successfully"})
	}
}
