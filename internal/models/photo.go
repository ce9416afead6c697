package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Photo struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PhotoID   string             `bson:"id,omitempty" json:"photoId,omitempty"`
	PhotoLink string             `bson:"photolink" json:"photolink"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
