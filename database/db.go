package database

import (
	"context"
	"log"
	"time"

	"fleetbooking/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoClient is the global MongoDB client instance. It stays nil when
// DATABASE_URL is not configured.
var MongoClient *mongo.Client

// InitDB initializes the MongoDB connection when a URL is configured.
func InitDB() {
	if config.AppConfig.DatabaseURL == "" {
		log.Println("DATABASE_URL not set, submission audit trail kept in memory")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Fatalf("failed to ping MongoDB: %v", err)
	}
	MongoClient = client
	log.Println("Connected to MongoDB successfully!")
}

// Database returns the application database, or nil when MongoDB is disabled.
func Database() *mongo.Database {
	if MongoClient == nil {
		return nil
	}
	return MongoClient.Database(config.AppConfig.DatabaseName)
}
