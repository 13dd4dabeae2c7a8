// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

/*
Package store is the collection-store boundary of the catalogue.

It exposes one logical collection per entity kind, addressed by [Kind], with
CRUD, existence checks, paging, and two reference primitives — AddReference
and RemoveReference — that the reconciliation engine uses to maintain
inverse reference sets across collections. The reference primitives have
idempotent set semantics: adding an identifier that is already present, or
removing one that is absent, is a no-op.

Two implementations exist: [Mongo] for production and [Memory] for tests.
*/
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Filter is a field-based filtering criterion, matched by equality unless a
// value built with [NotEqual] is used.
type Filter map[string]interface{}

// NotEqual wraps a value into a "not equal" criterion, used by uniqueness
// re-checks to exclude the entity being updated.
func NotEqual(value interface{}) interface{} {
	return bson.M{"$ne": value}
}

// NameRef is the projection of a referenced sibling: its identifier plus the
// kind's display-name field.
type NameRef struct {
	ID   primitive.ObjectID `bson:"_id" json:"id"`
	Name string             `bson:"-" json:"name"`
}

// Store is the persistence contract for all four catalogued collections.
//
// Document arguments and results are encoded/decoded through the driver's
// BSON machinery, so any struct with bson tags works with either backend.
type Store interface {
	// Exists reports whether any document in the kind's collection matches
	// the filter.
	Exists(ctx context.Context, kind Kind, filter Filter) (bool, error)

	// FindByID decodes the document with the given identifier into out.
	// Returns the driver's no-documents error when absent.
	FindByID(ctx context.Context, kind Kind, id primitive.ObjectID, out interface{}) error

	// FindPage decodes a window of documents (natural order) into out, which
	// must be a pointer to a slice.
	FindPage(ctx context.Context, kind Kind, skip, limit int, out interface{}) error

	// Count returns the number of documents in the kind's collection.
	Count(ctx context.Context, kind Kind) (int, error)

	// Insert stores a new document. The caller assigns the identifier.
	Insert(ctx context.Context, kind Kind, doc interface{}) error

	// Replace stores doc under the given identifier, replacing the previous
	// document wholesale. Returns the no-documents error when absent.
	Replace(ctx context.Context, kind Kind, id primitive.ObjectID, doc interface{}) error

	// Delete removes the document. Returns the no-documents error when absent.
	Delete(ctx context.Context, kind Kind, id primitive.ObjectID) error

	// AddReference appends ref to the identifier-set field of the addressed
	// document, without introducing duplicates.
	AddReference(ctx context.Context, kind Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error

	// RemoveReference removes ref from the identifier-set field of the
	// addressed document.
	RemoveReference(ctx context.Context, kind Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error

	// SetField overwrites a single field of the addressed document. Used for
	// the single-valued side of the one-to-many relationship.
	SetField(ctx context.Context, kind Kind, id primitive.ObjectID, field string, value interface{}) error

	// FindNameRefs projects the display names of the given documents, in the
	// order the identifiers were supplied. Identifiers that no longer resolve
	// are silently skipped.
	FindNameRefs(ctx context.Context, kind Kind, ids []primitive.ObjectID) ([]NameRef, error)
}
