// Package repository stores inquiries in MongoDB.
package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"codemasters_backend/internal/inquiries/domain"
	"codemasters_backend/platform/metrics"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// searchFields are matched by the admin free-text search.
var searchFields = []string{"name", "phone", "email", "projectType", "message"}

type Repository struct {
	coll *mongo.Collection
}

func New(client *mongo.Client, database, collection string) *Repository {
	return NewWithCollection(client.Database(database).Collection(collection))
}

// NewWithCollection wraps an existing collection handle.
func NewWithCollection(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

// Insert writes one inquiry as a new document.
func (r *Repository) Insert(ctx context.Context, inquiry domain.Inquiry) error {
	start := time.Now()
	_, err := r.coll.InsertOne(ctx, inquiry)
	metrics.RecordDBQuery("inquiries.insert", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("insert inquiry: %w", err)
	}
	return nil
}

// Find returns inquiries matching q, newest first, capped at q.Limit.
func (r *Repository) Find(ctx context.Context, q domain.Query) ([]domain.Inquiry, error) {
	start := time.Now()
	items, err := r.find(ctx, q)
	metrics.RecordDBQuery("inquiries.find", time.Since(start), err)
	return items, err
}

func (r *Repository) find(ctx context.Context, q domain.Query) ([]domain.Inquiry, error) {
	cursor, err := r.coll.Find(ctx, buildFilter(q), findOptions(q))
	if err != nil {
		return nil, fmt.Errorf("find inquiries: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]domain.Inquiry, 0)
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decode inquiries: %w", err)
	}
	return items, nil
}

func buildFilter(q domain.Query) bson.M {
	filter := bson.M{}

	gte, lt := q.CreatedAtBounds()
	if gte != "" || lt != "" {
		createdAt := bson.M{}
		if gte != "" {
			createdAt["$gte"] = gte
		}
		if lt != "" {
			createdAt["$lt"] = lt
		}
		filter["createdAt"] = createdAt
	}

	if q.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q.Search), Options: "i"}
		or := make(bson.A, 0, len(searchFields))
		for _, field := range searchFields {
			or = append(or, bson.M{field: pattern})
		}
		filter["$or"] = or
	}

	return filter
}

func findOptions(q domain.Query) *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(int64(q.Limit)).
		SetProjection(bson.M{"_id": 0, "ip": 0, "userAgent": 0})
}
