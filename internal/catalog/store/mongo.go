// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is the production [Store] backed by a MongoDB database.
type Mongo struct {
	db *mongo.Database
}

// NewMongo wraps a connected database handle.
func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) collection(kind Kind) *mongo.Collection {
	return m.db.Collection(Describe(kind).Collection)
}

// EnsureIndexes creates the unique indexes declared in the schema registry.
// It is idempotent and runs once at startup.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	for _, kind := range Kinds() {
		desc := Describe(kind)
		for _, field := range desc.UniqueFields {
			model := mongo.IndexModel{
				Keys:    bson.D{{Key: field, Value: 1}},
				Options: options.Index().SetUnique(true),
			}
			if _, err := m.collection(kind).Indexes().CreateOne(ctx, model); err != nil {
				return fmt.Errorf("store: ensure unique index %s.%s: %w", desc.Collection, field, err)
			}
		}
	}
	return nil
}

func (m *Mongo) Exists(ctx context.Context, kind Kind, filter Filter) (bool, error) {
	count, err := m.collection(kind).CountDocuments(ctx, bson.M(filter), options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (m *Mongo) FindByID(ctx context.Context, kind Kind, id primitive.ObjectID, out interface{}) error {
	return m.collection(kind).FindOne(ctx, bson.M{FieldID: id}).Decode(out)
}

func (m *Mongo) FindPage(ctx context.Context, kind Kind, skip, limit int, out interface{}) error {
	findOptions := options.Find().
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := m.collection(kind).Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *Mongo) Count(ctx context.Context, kind Kind) (int, error) {
	count, err := m.collection(kind).CountDocuments(ctx, bson.M{})
	return int(count), err
}

func (m *Mongo) Insert(ctx context.Context, kind Kind, doc interface{}) error {
	_, err := m.collection(kind).InsertOne(ctx, doc)
	return err
}

func (m *Mongo) Replace(ctx context.Context, kind Kind, id primitive.ObjectID, doc interface{}) error {
	result, err := m.collection(kind).ReplaceOne(ctx, bson.M{FieldID: id}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, kind Kind, id primitive.ObjectID) error {
	result, err := m.collection(kind).DeleteOne(ctx, bson.M{FieldID: id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (m *Mongo) AddReference(ctx context.Context, kind Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	_, err := m.collection(kind).UpdateByID(ctx, id, bson.M{"$addToSet": bson.M{field: ref}})
	return err
}

func (m *Mongo) RemoveReference(ctx context.Context, kind Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	_, err := m.collection(kind).UpdateByID(ctx, id, bson.M{"$pull": bson.M{field: ref}})
	return err
}

func (m *Mongo) SetField(ctx context.Context, kind Kind, id primitive.ObjectID, field string, value interface{}) error {
	_, err := m.collection(kind).UpdateByID(ctx, id, bson.M{"$set": bson.M{field: value}})
	return err
}

func (m *Mongo) FindNameRefs(ctx context.Context, kind Kind, ids []primitive.ObjectID) ([]NameRef, error) {
	if len(ids) == 0 {
		return []NameRef{}, nil
	}

	nameField := Describe(kind).NameField
	if nameField == "" {
		return []NameRef{}, nil
	}

	projection := options.Find().SetProjection(bson.M{nameField: 1})
	cursor, err := m.collection(kind).Find(ctx, bson.M{FieldID: bson.M{"$in": ids}}, projection)
	if err != nil {
		return nil, err
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	// $in does not preserve input order; restore it.
	byID := make(map[primitive.ObjectID]NameRef, len(docs))
	for _, doc := range docs {
		id, ok := doc[FieldID].(primitive.ObjectID)
		if !ok {
			continue
		}
		name, _ := doc[nameField].(string)
		byID[id] = NameRef{ID: id, Name: name}
	}

	refs := make([]NameRef, 0, len(ids))
	for _, id := range ids {
		if ref, ok := byID[id]; ok {
			refs = append(refs, ref)
		}
	}
	return refs, nil
}
