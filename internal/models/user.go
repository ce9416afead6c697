package models

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
)

var profileImagePattern = regexp.MustCompile(`(?i)^https?://.+\.(jpg|jpeg|png|gif|bmp)$`)

func ValidUserRole(role string) bool {
	return role == RoleAdmin || role == RoleManager
}

func ValidProfileImageURL(url string) bool {
	return profileImagePattern.MatchString(url)
}

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	Role         string             `bson:"role" json:"role"`
	Username     string             `bson:"username" json:"username"`
	PasswordHash string             `bson:"password" json:"-"`
	ProfileImage string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
