// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package store

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Memory is an in-memory [Store] used by tests. Documents round-trip through
// BSON so tagged structs behave exactly as they do against the real backend,
// and insertion order stands in for the driver's natural order.
type Memory struct {
	mu    sync.RWMutex
	docs  map[Kind]map[primitive.ObjectID]bson.M
	order map[Kind][]primitive.ObjectID
}

// NewMemory returns an empty in-memory store with every registered kind.
func NewMemory() *Memory {
	m := &Memory{
		docs:  make(map[Kind]map[primitive.ObjectID]bson.M),
		order: make(map[Kind][]primitive.ObjectID),
	}
	for _, kind := range Kinds() {
		m.docs[kind] = make(map[primitive.ObjectID]bson.M)
	}
	return m
}

func toDoc(v interface{}) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func fromDoc(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

func matches(doc bson.M, filter Filter) bool {
	for field, want := range filter {
		got := doc[field]

		// NotEqual criterion
		if criteria, ok := want.(bson.M); ok {
			if ne, ok := criteria["$ne"]; ok {
				if reflect.DeepEqual(got, ne) {
					return false
				}
				continue
			}
		}

		if !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}

func (m *Memory) Exists(ctx context.Context, kind Kind, filter Filter) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, doc := range m.docs[kind] {
		if matches(doc, filter) {
			return true, nil
		}
	}
	return false, nil
}

func (m *Memory) FindByID(ctx context.Context, kind Kind, id primitive.ObjectID, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[kind][id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	return fromDoc(doc, out)
}

func (m *Memory) FindPage(ctx context.Context, kind Kind, skip, limit int, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.order[kind]
	if skip > len(ids) {
		skip = len(ids)
	}
	end := skip + limit
	if limit < 0 || end > len(ids) {
		end = len(ids)
	}

	sliceVal := reflect.ValueOf(out).Elem()
	elemType := sliceVal.Type().Elem()
	sliceVal.Set(reflect.MakeSlice(sliceVal.Type(), 0, end-skip))

	for _, id := range ids[skip:end] {
		elem := reflect.New(elemType)
		if err := fromDoc(m.docs[kind][id], elem.Interface()); err != nil {
			return err
		}
		sliceVal.Set(reflect.Append(sliceVal, elem.Elem()))
	}
	return nil
}

func (m *Memory) Count(ctx context.Context, kind Kind) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs[kind]), nil
}

func (m *Memory) Insert(ctx context.Context, kind Kind, docIn interface{}) error {
	doc, err := toDoc(docIn)
	if err != nil {
		return err
	}
	id, ok := doc[FieldID].(primitive.ObjectID)
	if !ok {
		return errors.New("store: inserted document is missing an _id")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[kind][id] = doc
	m.order[kind] = append(m.order[kind], id)
	return nil
}

func (m *Memory) Replace(ctx context.Context, kind Kind, id primitive.ObjectID, docIn interface{}) error {
	doc, err := toDoc(docIn)
	if err != nil {
		return err
	}
	doc[FieldID] = id

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[kind][id]; !ok {
		return mongo.ErrNoDocuments
	}
	m.docs[kind][id] = doc
	return nil
}

func (m *Memory) Delete(ctx context.Context, kind Kind, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[kind][id]; !ok {
		return mongo.ErrNoDocuments
	}
	delete(m.docs[kind], id)

	ids := m.order[kind]
	for i, existing := range ids {
		if existing == id {
			m.order[kind] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Memory) AddReference(ctx context.Context, kind Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[kind][id]
	if !ok {
		return nil
	}

	arr, _ := doc[field].(bson.A)
	for _, existing := range arr {
		if existing == interface{}(ref) {
			return nil
		}
	}
	doc[field] = append(arr, ref)
	return nil
}

func (m *Memory) RemoveReference(ctx context.Context, kind Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[kind][id]
	if !ok {
		return nil
	}

	arr, _ := doc[field].(bson.A)
	kept := make(bson.A, 0, len(arr))
	for _, existing := range arr {
		if existing != interface{}(ref) {
			kept = append(kept, existing)
		}
	}
	doc[field] = kept
	return nil
}

func (m *Memory) SetField(ctx context.Context, kind Kind, id primitive.ObjectID, field string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[kind][id]
	if !ok {
		return nil
	}
	doc[field] = value
	return nil
}

func (m *Memory) FindNameRefs(ctx context.Context, kind Kind, ids []primitive.ObjectID) ([]NameRef, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	nameField := Describe(kind).NameField
	refs := make([]NameRef, 0, len(ids))
	if nameField == "" {
		return refs, nil
	}

	for _, id := range ids {
		doc, ok := m.docs[kind][id]
		if !ok {
			continue
		}
		name, _ := doc[nameField].(string)
		refs = append(refs, NameRef{ID: id, Name: name})
	}
	return refs, nil
}
