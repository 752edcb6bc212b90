package db

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	CartCollection          *mongo.Collection
	OrderCollection         *mongo.Collection
	CouponCollection        *mongo.Collection
	ReviewsCollection       *mongo.Collection
	WishlistCollection      *mongo.Collection
	NotificationsCollection *mongo.Collection
	Client                  *mongo.Client
)

// Init connects to MongoDB and binds the collections. Must be called
// before the router starts serving.
func Init(uri string) {
	var err error
	ClientOptions := options.Client().ApplyURI(uri)
	Client, err = mongo.Connect(context.TODO(), ClientOptions)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}

	database := Client.Database("storedb")
	CartCollection = database.Collection("carts")
	OrderCollection = database.Collection("orders")
	CouponCollection = database.Collection("coupons")
	ReviewsCollection = database.Collection("reviews")
	WishlistCollection = database.Collection("wishlists")
	NotificationsCollection = database.Collection("notifications")

	ensureIndexes()
}

// ensureIndexes creates the uniqueness constraints the order and coupon
// flows rely on. Order numbers are generated with a random suffix, so a
// collision surfaces here as a duplicate-key error at insert time.
func ensureIndexes() {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := OrderCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderNumber", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		log.Printf("ensureIndexes orders: %v", err)
	}

	_, err = CouponCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("ensureIndexes coupons: %v", err)
	}

	_, err = CartCollection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.Printf("ensureIndexes carts: %v", err)
	}
}
