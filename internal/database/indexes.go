package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureProductIndexes enforces uniqueness of the caller-assigned product id.
func EnsureProductIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("products").Indexes()

	idIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "id", Value: 1}},
		Options: options.Index().
			SetName("product_id_unique").
			SetUnique(true),
	}

	log.Println("EnsureProductIndexes: creating product_id_unique index")
	_, err := indexes.CreateOne(ctx, idIndex)
	if err != nil {
		log.Println("EnsureProductIndexes: product id index error:", err)
		return err
	}
	return nil
}

func EnsureUserIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("users").Indexes()

	emailIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}},
		Options: options.Index().
			SetName("email_unique").
			SetUnique(true),
	}

	log.Println("EnsureUserIndexes: creating email_unique index")
	_, err := indexes.CreateOne(ctx, emailIndex)
	if err != nil {
		log.Println("EnsureUserIndexes: email index error:", err)
		return err
	}
	return nil
}

func EnsurePhotoIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	indexes := db.Collection("photos").Indexes()

	linkIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "photolink", Value: 1}},
		Options: options.Index().
			SetName("photolink_unique").
			SetUnique(true),
	}

	log.Println("EnsurePhotoIndexes: creating photolink_unique index")
	_, err := indexes.CreateOne(ctx, linkIndex)
	if err != nil {
		log.Println("EnsurePhotoIndexes: photolink index error:", err)
		return err
	}
	return nil
}
