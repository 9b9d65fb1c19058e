package db

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client              *mongo.Client
	UserCollection      *mongo.Collection
	PostsCollection     *mongo.Collection
	CommentsCollection  *mongo.Collection
	FollowersCollection *mongo.Collection
)

// Initialize MongoDB connection
func init() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "pictora"
	}

	clientOptions := options.Client().ApplyURI(uri)
	var err error
	Client, err = mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	UserCollection = Client.Database(dbName).Collection("users")
	PostsCollection = Client.Database(dbName).Collection("posts")
	CommentsCollection = Client.Database(dbName).Collection("comments")
	FollowersCollection = Client.Database(dbName).Collection("followers")
}

// EnsureIndexes creates the uniqueness indexes the data model relies on:
// one email per user, and one follow edge per (follower, following) pair.
func EnsureIndexes(ctx context.Context) error {
	_, err := UserCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	_, err = FollowersCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "follower", Value: 1}, {Key: "following", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
