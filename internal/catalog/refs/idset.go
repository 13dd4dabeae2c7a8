// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package refs

import "go.mongodb.org/mongo-driver/bson/primitive"

// IDSet is an ordered set of document identifiers.
//
// Reference lists throughout the catalogue are sets in meaning but arrays in
// storage; IDSet centralizes the de-duplication so that no call site has to
// re-implement it. Iteration order is insertion order, which also fixes the
// order in which siblings are reconciled.
type IDSet struct {
	order []primitive.ObjectID
	seen  map[primitive.ObjectID]struct{}
}

// NewIDSet builds a set from the given identifiers, dropping duplicates.
func NewIDSet(ids ...primitive.ObjectID) *IDSet {
	s := &IDSet{seen: make(map[primitive.ObjectID]struct{}, len(ids))}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts an identifier and reports whether it was newly added.
func (s *IDSet) Add(id primitive.ObjectID) bool {
	if _, ok := s.seen[id]; ok {
		return false
	}
	s.seen[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove deletes an identifier and reports whether it was present.
func (s *IDSet) Remove(id primitive.ObjectID) bool {
	if _, ok := s.seen[id]; !ok {
		return false
	}
	delete(s.seen, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// Contains reports whether the identifier is in the set.
func (s *IDSet) Contains(id primitive.ObjectID) bool {
	_, ok := s.seen[id]
	return ok
}

// Values returns the identifiers in insertion order. The returned slice is
// owned by the caller.
func (s *IDSet) Values() []primitive.ObjectID {
	out := make([]primitive.ObjectID, len(s.order))
	copy(out, s.order)
	return out
}

// Len returns the number of identifiers in the set.
func (s *IDSet) Len() int {
	return len(s.order)
}

// Diff computes the set difference between two reference lists.
//
// added holds identifiers present in next but not in prev; removed holds
// identifiers present in prev but not in next. Order follows the input lists.
func Diff(prev, next []primitive.ObjectID) (added, removed []primitive.ObjectID) {
	prevSet := NewIDSet(prev...)
	nextSet := NewIDSet(next...)

	for _, id := range nextSet.Values() {
		if !prevSet.Contains(id) {
			added = append(added, id)
		}
	}
	for _, id := range prevSet.Values() {
		if !nextSet.Contains(id) {
			removed = append(removed, id)
		}
	}
	return added, removed
}
