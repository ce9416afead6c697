package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/models"
)

type createPhotoRequest struct {
	PhotoLink string `json:"photolink" binding:"required"`
}

type updatePhotoRequest struct {
	PhotoLink *string `json:"photolink"`
}

func GetPhotos(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("photos").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching photos"})
			return
		}
		defer cursor.Close(ctx)

		photos := make([]models.Photo, 0)
		if err := cursor.All(ctx, &photos); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching photos"})
			return
		}

		c.JSON(http.StatusOK, photos)
	}
}

func GetPhoto(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		photoID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var photo models.Photo
		err = db.Collection("photos").FindOne(ctx, bson.M{"_id": photoID}).Decode(&photo)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching photo"})
			return
		}

		c.JSON(http.StatusOK, photo)
	}
}

func CreatePhoto(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPhotoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photolink is required"})
			return
		}

		now := time.Now()
		photo := models.Photo{
			PhotoID:   uuid.NewString(),
			PhotoLink: strings.TrimSpace(req.PhotoLink),
			CreatedAt: now,
			UpdatedAt: now,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("photos").InsertOne(ctx, photo)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				c.JSON(http.StatusConflict, gin.H{"error": "photo already exists"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": "error adding photo"})
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			photo.ID = id
		}

		c.JSON(http.StatusCreated, photo)
	}
}

func UpdatePhoto(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		photoID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updatePhotoRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		if req.PhotoLink == nil || strings.TrimSpace(*req.PhotoLink) == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "photolink is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Photo
		err = db.Collection("photos").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": photoID},
				bson.M{"$set": bson.M{"photolink": strings.TrimSpace(*req.PhotoLink), "updatedAt": time.Now()}},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "error updating photo"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeletePhoto(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		photoID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("photos").DeleteOne(ctx, bson.M{"_id": photoID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting photo"})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "photo not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "photo deleted successfully"})
	}
}
