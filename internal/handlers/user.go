package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"backend/internal/models"
)

type addUserRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required"`
	Role         string `json:"role" binding:"required"`
	Username     string `json:"username" binding:"required"`
	Password     string `json:"password" binding:"required"`
	ProfileImage string `json:"profileImage" binding:"required"`
}

type editUserRequest struct {
	Name         *string `json:"name"`
	Email        *string `json:"email"`
	Role         *string `json:"role"`
	Username     *string `json:"username"`
	Password     *string `json:"password"`
	ProfileImage *string `json:"profileImage"`
}

type loginRequest struct {
	// The login form submits the email in the username field.
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Name            *string `json:"name"`
	Email           *string `json:"email"`
	Username        *string `json:"username"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"currentPassword"`
	ProfileImage    *string `json:"profileImage"`
}

func issueToken(user models.User, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"id":       user.ID.Hex(),
		"username": user.Username,
		"role":     user.Role,
		"exp":      time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func Login(db *mongo.Database, jwtSecret string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Username))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err := db.Collection("users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			log.Println("[AUTH] [ERROR] invalid credentials for:", email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := issueToken(user, jwtSecret, accessTTL)
		if err != nil {
			log.Println("[AUTH] [ERROR] token generation failed:", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
			return
		}

		log.Println("[AUTH] [INFO] login succeeded:", email)
		c.JSON(http.StatusOK, gin.H{
			"message": "login successful",
			"token":   token,
		})
	}
}

func AddUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/users/add"

		var req addUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if !models.ValidProfileImageURL(req.ProfileImage) {
			respondWithError(c, http.StatusBadRequest, route, "invalid profile image URL format")
			return
		}
		if !models.ValidUserRole(req.Role) {
			respondWithError(c, http.StatusBadRequest, route, "invalid role: "+req.Role)
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "email already in use")
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		now := time.Now()
		user := models.User{
			Name:         strings.TrimSpace(req.Name),
			Email:        email,
			Role:         req.Role,
			Username:     strings.TrimSpace(req.Username),
			PasswordHash: string(hash),
			ProfileImage: req.ProfileImage,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		if _, err := db.Collection("users").InsertOne(ctx, user); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "email already in use")
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "user added successfully"})
	}
}

func ViewUsers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("users").Find(ctx, bson.M{})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}
		defer cursor.Close(ctx)

		users := make([]models.User, 0)
		if err := cursor.All(ctx, &users); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// ViewProfile returns the profile of the token holder.
func ViewProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := requestUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is not valid"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func EditUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/edit/:userId"

		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		var req editUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		update := bson.M{}

		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
			update["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Role != nil && *req.Role != "" {
			if !models.ValidUserRole(*req.Role) {
				respondWithError(c, http.StatusBadRequest, route, "invalid role: "+*req.Role)
				return
			}
			update["role"] = *req.Role
		}
		if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
			update["username"] = strings.TrimSpace(*req.Username)
		}
		if req.ProfileImage != nil && *req.ProfileImage != "" {
			if !models.ValidProfileImageURL(*req.ProfileImage) {
				respondWithError(c, http.StatusBadRequest, route, "invalid profile image URL format")
				return
			}
			update["profileImage"] = *req.ProfileImage
		}
		if req.Password != nil && *req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
				return
			}
			update["password"] = string(hash)
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		update["updatedAt"] = time.Now()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var updated models.User
		err = db.Collection("users").
			FindOneAndUpdate(
				ctx,
				bson.M{"_id": userID},
				bson.M{"$set": update},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).
			Decode(&updated)

		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if mongo.IsDuplicateKeyError(err) {
			respondWithError(c, http.StatusConflict, route, "email already in use")
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteUser(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := primitive.ObjectIDFromHex(c.Param("userId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		// role=Admin accounts cannot be removed through the API.
		if user.Role == models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot delete an admin"})
			return
		}

		if _, err := db.Collection("users").DeleteOne(ctx, bson.M{"_id": userID}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "user deleted successfully"})
	}
}

// UpdateProfile lets the token holder edit their own record; changing the
// password requires the current one.
func UpdateProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/users/update"

		userID, err := requestUserID(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token is not valid"})
			return
		}

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		err = db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		update := bson.M{}

		if req.Password != nil && *req.Password != "" {
			if req.CurrentPassword == nil {
				respondWithError(c, http.StatusBadRequest, route, "current password is required")
				return
			}
			if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(*req.CurrentPassword)); err != nil {
				respondWithError(c, http.StatusBadRequest, route, "current password is incorrect")
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
				return
			}
			update["password"] = string(hash)
		}

		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			update["name"] = strings.TrimSpace(*req.Name)
		}
		if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
			update["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
		}
		if req.Username != nil && strings.TrimSpace(*req.Username) != "" {
			update["username"] = strings.TrimSpace(*req.Username)
		}
		if req.ProfileImage != nil && *req.ProfileImage != "" {
			if !models.ValidProfileImageURL(*req.ProfileImage) {
				respondWithError(c, http.StatusBadRequest, route, "invalid profile image URL format")
				return
			}
			update["profileImage"] = *req.ProfileImage
		}

		if len(update) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "no fields to update")
			return
		}

		update["updatedAt"] = time.Now()

		if _, err := db.Collection("users").UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": update}); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondWithError(c, http.StatusConflict, route, "email already in use")
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "profile updated successfully"})
	}
}

func requestUserID(c *gin.Context) (primitive.ObjectID, error) {
	raw, _ := c.Get("userId")
	hex, _ := raw.(string)
	return primitive.ObjectIDFromHex(strings.TrimSpace(hex))
}
