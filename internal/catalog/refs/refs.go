// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

/*
Package refs keeps inverse references consistent across collections.

The catalogue's collections have no native foreign keys: when a case lists
evidence, each evidence document must list the case back. This package holds
the two components that maintain that consistency:

  - [Resolver] validates referenced identifiers before any mutation is
    attempted — shape first (no store round trip), then existence. A failed
    resolution aborts the enclosing operation before any write.
  - [Reconciler] applies inverse-reference updates after the primary write,
    one sibling at a time, in deterministic order.

Reconciliation is not transactional across documents. A reconciliation step
that fails after the primary entity was persisted leaves a transient
asymmetry; the error is surfaced rather than rolled back.
*/
package refs

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/cache"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/internal/platform/validate"
)

// # Identifier Resolution

// Resolver validates candidate identifiers against a target collection.
type Resolver struct {
	store store.Store
}

// NewResolver builds a resolver over the given store.
func NewResolver(s store.Store) *Resolver {
	return &Resolver{store: s}
}

// ResolveOne validates a single identifier: well-formedness first, then
// existence in the target collection.
func (r *Resolver) ResolveOne(ctx context.Context, kind store.Kind, raw string) (primitive.ObjectID, error) {
	desc := store.Describe(kind)

	if !validate.IsHexObjectID(raw) {
		return primitive.NilObjectID, apperr.
			MalformedInput(fmt.Sprintf("Given %s id is invalid", desc.Singular)).
			With("invalidId", raw)
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, apperr.
			MalformedInput(fmt.Sprintf("Given %s id is invalid", desc.Singular)).
			With("invalidId", raw)
	}

	exists, err := r.store.Exists(ctx, kind, store.Filter{store.FieldID: id})
	if err != nil {
		return primitive.NilObjectID, apperr.Internal(err)
	}
	if !exists {
		return primitive.NilObjectID, apperr.
			MissingReference(fmt.Sprintf("%s could not be found", desc.Title)).
			With("requested"+desc.Title, raw)
	}

	return id, nil
}

// ResolveSet validates a list of identifiers and returns them as an ordered,
// de-duplicated set. The first failure aborts; no partial result is returned.
func (r *Resolver) ResolveSet(ctx context.Context, kind store.Kind, raw []string) (*IDSet, error) {
	// De-duplicate before hitting the store, preserving request order.
	unique := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, candidate := range raw {
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		unique = append(unique, candidate)
	}

	ids := NewIDSet()
	for _, candidate := range unique {
		id, err := r.ResolveOne(ctx, kind, candidate)
		if err != nil {
			return nil, err
		}
		ids.Add(id)
	}
	return ids, nil
}

// # Inverse-Reference Reconciliation

// Reconciler applies inverse-reference updates to sibling documents.
//
// All updates run sequentially in the order the identifiers are supplied.
// Cached sibling representations are invalidated as they are touched.
type Reconciler struct {
	store store.Store
	cache *cache.Entities
}

// NewReconciler builds a reconciler over the given store and cache.
// The cache may be nil.
func NewReconciler(s store.Store, c *cache.Entities) *Reconciler {
	return &Reconciler{store: s, cache: c}
}

// Attach adds ref to the identifier-set field of every addressed sibling.
// The add has set semantics: attaching an identifier that is already present
// changes nothing, so retries cannot produce duplicates.
func (r *Reconciler) Attach(ctx context.Context, kind store.Kind, ids []primitive.ObjectID, field string, ref primitive.ObjectID) error {
	for _, id := range ids {
		if err := r.store.AddReference(ctx, kind, id, field, ref); err != nil {
			return apperr.Internal(err)
		}
		r.cache.Invalidate(ctx, kind, id.Hex())
	}
	return nil
}

// Detach removes ref from the identifier-set field of every addressed sibling.
func (r *Reconciler) Detach(ctx context.Context, kind store.Kind, ids []primitive.ObjectID, field string, ref primitive.ObjectID) error {
	for _, id := range ids {
		if err := r.store.RemoveReference(ctx, kind, id, field, ref); err != nil {
			return apperr.Internal(err)
		}
		r.cache.Invalidate(ctx, kind, id.Hex())
	}
	return nil
}

// Assign overwrites a single-valued reference field on the addressed sibling.
// Used for the "many" side pointing back at its one owner.
func (r *Reconciler) Assign(ctx context.Context, kind store.Kind, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	if err := r.store.SetField(ctx, kind, id, field, ref); err != nil {
		return apperr.Internal(err)
	}
	r.cache.Invalidate(ctx, kind, id.Hex())
	return nil
}
