package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^\d{10,15}$`)
)

const contactMessageMinLength = 10

type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Title     string             `bson:"title" json:"title"`
	Message   string             `bson:"message" json:"message"`
	Reply     string             `bson:"reply,omitempty" json:"reply,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func ValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// ValidContactPhone accepts 10 to 15 digits; the field itself is optional.
func ValidContactPhone(phone string) bool {
	return phonePattern.MatchString(strings.TrimSpace(phone))
}

func ValidateContact(c Contact) error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("name is required")
	}
	if !ValidEmail(c.Email) {
		return errors.New("please enter a valid email address")
	}
	if strings.TrimSpace(c.Phone) != "" && !ValidContactPhone(c.Phone) {
		return errors.New("please enter a valid phone number")
	}
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("title is required")
	}
	if len(strings.TrimSpace(c.Message)) < contactMessageMinLength {
		return errors.New("message must be at least 10 characters long")
	}
	return nil
}
