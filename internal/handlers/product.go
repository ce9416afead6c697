package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type createProductRequest struct {
	ID          string   `json:"id" binding:"required"`
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required"`
	Description string   `json:"description" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Images      []string `json:"images" binding:"required,min=1"`
	Sizes       []string `json:"sizes" binding:"required"`
	Colors      []string `json:"colors" binding:"required"`
	Quantity    *int     `json:"quantity" binding:"required"`
	Status      string   `json:"status" binding:"required"`
}

type updateProductRequest struct {
	Name        *string   `json:"name"`
	Price       *float64  `json:"price"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Images      *[]string `json:"images"`
	Sizes       *[]string `json:"sizes"`
	Colors      *[]string `json:"colors"`
	Quantity    *int      `json:"quantity"`
	Status      *string   `json:"status"`
}

func validateProductFields(price float64, quantity int, category, status string) error {
	if price < 0 {
		return errors.New("price must be zero or greater")
	}
	if quantity < 0 {
		return errors.New("quantity must be zero or greater")
	}
	if !models.ValidProductCategory(category) {
		return fmt.Errorf("invalid category: %s", category)
	}
	if !models.ValidProductStatus(status) {
		return fmt.Errorf("invalid status: %s", status)
	}
	return nil
}

func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("products").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching products"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching products"})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

// GetLatestProducts serves the storefront landing strip: three newest items.
func GetLatestProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		opts := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetLimit(3)

		cursor, err := db.Collection("products").Find(ctx, bson.M{}, opts)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
			return
		}

		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err := db.Collection("products").FindOne(ctx, bson.M{"id": id}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching product"})
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/products"

		var req createProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if err := validateProductFields(*req.Price, *req.Quantity, req.Category, req.Status); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		now := time.Now()
		product := models.Product{
			ProductID:   strings.TrimSpace(req.ID),
			Name:        strings.TrimSpace(req.Name),
			Price:       *req.Price,
			Description: strings.TrimSpace(req.Description),
			Category:    req.Category,
			Images:      req.Images,
			Sizes:       req.Sizes,
			Colors:      req.Colors,
			Quantity:    *req.Quantity,
			Status:      req.Status,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if _, err := db.Collection("products").InsertOne(ctx, product); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "product id already exists"})
				return
			}
			respondWithError(c, http.StatusBadRequest, route, "error adding product")
			return
		}

		c.JSON(http.StatusCreated, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/products/:id"
		id := strings.TrimSpace(c.Param("id"))

		var req updateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}

		if req.Name != nil {
			name := strings.TrimSpace(*req.Name)
			if name == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			update["name"] = name
		}
		if req.Price != nil {
			if *req.Price < 0 {
				respondWithError(c, http.StatusBadRequest, route, "price must be zero or greater")
				return
			}
			update["price"] = *req.Price
		}
		if req.Description != nil {
			update["description"] = strings.TrimSpace(*req.Description)
		}
		if req.Category != nil {
			if !models.ValidProductCategory(*req.Category) {
				respondWithError(c, http.StatusBadRequest, route, "invalid category: "+*req.Category)
				return
			}
			update["category"] = *req.Category
		}
		if req.Images != nil {
			if len(*req.Images) == 0 {
				respondWithError(c, http.StatusBadRequest, route, "images cannot be empty")
				return
			}
			update["images"] = *req.Images
		}
		if req.Sizes != nil {
			update["sizes"] = *req.Sizes
		}
		if req.Colors != nil {
			update["colors"] = *req.Colors
		}
		if req.Quantity != nil {
			if *req.Quantity < 0 {
				respondWithError(c, http.StatusBadRequest, route, "quantity must be zero or greater")
				return
			}
			update["quantity"] = *req.Quantity
		}
		if req.Status != nil {
			if !models.ValidProductStatus(*req.Status) {
				respondWithError(c, http.StatusBadRequest, route, "invalid status: "+*req.Status)
				return
			}
			update["status"] = *req.Status
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Product
		err := db.Collection("products").
			FindOneAndUpdate(
				ctx,
				bson.M{"id": id},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating product"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.Param("id"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("products").DeleteOne(ctx, bson.M{"id": id})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting product"})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted successfully"})
	}
}
