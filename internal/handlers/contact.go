package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/mailer"
	"backend/internal/models"
)

type createContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Title   string `json:"title" binding:"required"`
	Message string `json:"message" binding:"required"`
}

type updateContactRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Title   *string `json:"title"`
	Message *string `json:"message"`
	Reply   *string `json:"reply"`
}

type replyContactRequest struct {
	Reply string `json:"reply" binding:"required"`
}

func GetContacts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("contacts").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching contact messages"})
			return
		}
		defer cursor.Close(ctx)

		contacts := make([]models.Contact, 0)
		if err := cursor.All(ctx, &contacts); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching contact messages"})
			return
		}

		c.JSON(http.StatusOK, contacts)
	}
}

func GetContact(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var contact models.Contact
		err = db.Collection("contacts").FindOne(ctx, bson.M{"_id": contactID}).Decode(&contact)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact message not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching contact message"})
			return
		}

		c.JSON(http.StatusOK, contact)
	}
}

func CreateContact(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/contacts"

		var req createContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		now := time.Now()
		contact := models.Contact{
			Name:      strings.TrimSpace(req.Name),
			Email:     strings.TrimSpace(req.Email),
			Phone:     strings.TrimSpace(req.Phone),
			Title:     strings.TrimSpace(req.Title),
			Message:   strings.TrimSpace(req.Message),
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := models.ValidateContact(contact); err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		res, err := db.Collection("contacts").InsertOne(ctx, contact)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "error adding contact message")
			return
		}
		if id, ok := res.InsertedID.(primitive.ObjectID); ok {
			contact.ID = id
		}

		c.JSON(http.StatusCreated, contact)
	}
}

// ReplyContact stores the admin reply and dispatches it by email when SMTP is
// configured. Delivery failures are logged, not surfaced.
func ReplyContact(db *mongo.Database, mail mailer.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req replyContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "reply is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Contact
		err = db.Collection("contacts").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": contactID},
				bson.M{"$set": bson.M{"reply": req.Reply, "updatedAt": time.Now()}},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send reply"})
			return
		}

		if mail.Enabled() {
			go func(to, title, reply string) {
				if err := mailer.SendReply(mail, to, "Reply to your message: "+title, reply); err != nil {
					log.Println("[CONTACT] [ERROR] reply email failed:", err)
				}
			}(updated.Email, updated.Title, req.Reply)
		} else {
			log.Println("[CONTACT] [INFO] reply stored, email delivery not configured")
		}

		c.JSON(http.StatusOK, gin.H{"message": "reply sent successfully"})
	}
}

func UpdateContact(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/contacts/:id"

		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req updateContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}

		if req.Name != nil {
			if strings.TrimSpace(*req.Name) == "" {
				respondWithError(c, http.StatusBadRequest, route, "name cannot be empty")
				return
			}
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil {
			if !models.ValidEmail(*req.Email) {
				respondWithError(c, http.StatusBadRequest, route, "please enter a valid email address")
				return
			}
			update["email"] = strings.TrimSpace(*req.Email)
		}
		if req.Phone != nil {
			phone := strings.TrimSpace(*req.Phone)
			if phone != "" && !models.ValidContactPhone(phone) {
				respondWithError(c, http.StatusBadRequest, route, "please enter a valid phone number")
				return
			}
			update["phone"] = phone
		}
		if req.Title != nil {
			if strings.TrimSpace(*req.Title) == "" {
				respondWithError(c, http.StatusBadRequest, route, "title cannot be empty")
				return
			}
			update["title"] = strings.TrimSpace(*req.Title)
		}
		if req.Message != nil {
			if len(strings.TrimSpace(*req.Message)) < 10 {
				respondWithError(c, http.StatusBadRequest, route, "message must be at least 10 characters long")
				return
			}
			update["message"] = strings.TrimSpace(*req.Message)
		}
		if req.Reply != nil {
			update["reply"] = *req.Reply
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.Contact
		err = db.Collection("contacts").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": contactID},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact message not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "error updating contact message"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteContact(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		contactID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		result, err := db.Collection("contacts").DeleteOne(ctx, bson.M{"_id": contactID})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting contact message"})
			return
		}

		if result.DeletedCount == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "contact message not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "contact message deleted successfully"})
	}
}
