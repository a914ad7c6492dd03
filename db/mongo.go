package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"spectroscan/models"
	"spectroscan/utils"
)

const mongoTimeout = 10 * time.Second

// MongoClient stores analysis history in a MongoDB collection.
type MongoClient struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoClient connects to MongoDB and pings it to fail fast on a bad URI.
func NewMongoClient(uri string) (*MongoClient, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %v", err)
	}

	dbName := utils.GetEnv("MONGO_DB_NAME", "spectroscan")
	coll := client.Database(dbName).Collection("analyses")

	return &MongoClient{client: client, coll: coll}, nil
}

func (c *MongoClient) StoreAnalysis(record models.AnalysisRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if _, err := c.coll.InsertOne(ctx, record); err != nil {
		return fmt.Errorf("failed to store analysis: %v", err)
	}
	return nil
}

func (c *MongoClient) RecentAnalyses(limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "analyzed_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := c.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %v", err)
	}
	defer cursor.Close(ctx)

	var records []models.AnalysisRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode analyses: %v", err)
	}
	return records, nil
}

func (c *MongoClient) TotalAnalyses() (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	n, err := c.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count analyses: %v", err)
	}
	return int(n), nil
}

func (c *MongoClient) DeleteAll() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()

	if _, err := c.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("failed to clear analyses: %v", err)
	}
	return nil
}

func (c *MongoClient) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), mongoTimeout)
	defer cancel()
	return c.client.Disconnect(ctx)
}
