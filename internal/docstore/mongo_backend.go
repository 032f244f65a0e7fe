package docstore

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Body      string    `bson:"body"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend maps each collection onto a MongoDB collection of the same name.
// Bodies are kept as JSON text so a record reads back byte-for-byte as written,
// independent of BSON's numeric and nested-document typing.
type MongoBackend struct {
	db *mongo.Database
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{db: db}
}

func (b *MongoBackend) coll(c Collection) *mongo.Collection {
	return b.db.Collection(string(c))
}

func (b *MongoBackend) Put(ctx context.Context, coll Collection, id string, body []byte) error {
	doc := mongoDocument{ID: id, Body: string(body), UpdatedAt: time.Now().UTC()}
	_, err := b.coll(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (b *MongoBackend) Get(ctx context.Context, coll Collection, id string) ([]byte, error) {
	var doc mongoDocument
	if err := b.coll(coll).FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Body), nil
}

func (b *MongoBackend) List(ctx context.Context, coll Collection) ([]Record, error) {
	cursor, err := b.coll(coll).Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []mongoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]Record, 0, len(docs))
	for _, d := range docs {
		out = append(out, Record{ID: d.ID, Body: []byte(d.Body)})
	}
	return out, nil
}

func (b *MongoBackend) Delete(ctx context.Context, coll Collection, id string) (bool, error) {
	res, err := b.coll(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (b *MongoBackend) Clear(ctx context.Context, coll Collection) error {
	_, err := b.coll(coll).DeleteMany(ctx, bson.M{})
	return err
}
