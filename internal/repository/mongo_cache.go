package repository

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// cacheDocument is a cached value stored in MongoDB.
type cacheDocument struct {
	Key       string    `bson:"_id"`
	Value     string    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// MongoBackend is a remote cache backend on a MongoDB collection.
// Expired documents are removed by the TTL index and filtered on read,
// since the TTL monitor only runs periodically.
type MongoBackend struct {
	db  *MongoDB
	now func() time.Time
}

// NewMongoBackend creates a cache backend over db.Cache.
func NewMongoBackend(db *MongoDB) *MongoBackend {
	return &MongoBackend{db: db, now: time.Now}
}

// Get returns the live value stored under key.
func (m *MongoBackend) Get(ctx context.Context, key string) (string, bool, error) {
	filter := bson.M{"_id": key, "expires_at": bson.M{"$gt": m.now()}}

	var doc cacheDocument
	err := m.db.Cache.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return doc.Value, true, nil
}

// SetEx upserts value with an expiry ttl from now.
func (m *MongoBackend) SetEx(ctx context.Context, key, value string, ttl time.Duration) error {
	doc := cacheDocument{
		Key:       key,
		Value:     value,
		ExpiresAt: m.now().Add(ttlSeconds(ttl)),
	}
	_, err := m.db.Cache.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	return err
}

// Delete removes key.
func (m *MongoBackend) Delete(ctx context.Context, key string) (bool, error) {
	res, err := m.db.Cache.DeleteOne(ctx, bson.M{"_id": key})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// DeleteMatching removes every document whose key matches the glob pattern.
func (m *MongoBackend) DeleteMatching(ctx context.Context, pattern string) (int64, error) {
	filter := bson.M{"_id": primitive.Regex{Pattern: globToRegex(pattern)}}
	res, err := m.db.Cache.DeleteMany(ctx, filter)
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// Ping checks the connection.
func (m *MongoBackend) Ping(ctx context.Context) error {
	return m.db.Client.Ping(ctx, nil)
}

// Close disconnects the client.
func (m *MongoBackend) Close(ctx context.Context) error {
	return m.db.Close(ctx)
}

// Name returns "mongo".
func (m *MongoBackend) Name() string {
	return "mongo"
}

// globToRegex converts a glob where '*' matches any run of characters and a
// backslash quotes the next character into an anchored regular expression.
// Every other character, '?' and '[' included, matches itself.
func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			b.WriteString(regexp.QuoteMeta(string(r)))
			escaped = false
		case r == '\\':
			escaped = true
		case r == '*':
			b.WriteString(".*")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	if escaped {
		b.WriteString(regexp.QuoteMeta("\\"))
	}
	b.WriteString("$")
	return b.String()
}
