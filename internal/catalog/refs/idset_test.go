// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package refs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/refs"
)

/*
TestIDSet_AddRemove checks ordered-set semantics: no duplicates, insertion
order preserved, removal of absent members is a no-op.
*/
func TestIDSet_AddRemove(t *testing.T) {
	a := primitive.NewObjectID()
	b := primitive.NewObjectID()
	c := primitive.NewObjectID()

	set := refs.NewIDSet(a, b, a) // duplicate a dropped

	assert.Equal(t, 2, set.Len())
	assert.Equal(t, []primitive.ObjectID{a, b}, set.Values())

	assert.False(t, set.Add(b), "re-adding must report no change")
	assert.Equal(t, 2, set.Len())

	assert.True(t, set.Add(c))
	assert.Equal(t, []primitive.ObjectID{a, b, c}, set.Values())

	assert.True(t, set.Remove(b))
	assert.False(t, set.Remove(b), "removing an absent member must report no change")
	assert.Equal(t, []primitive.ObjectID{a, c}, set.Values())

	assert.True(t, set.Contains(a))
	assert.False(t, set.Contains(b))
}

/*
TestDiff checks the set-difference computation that drives PUT reconciliation:
old {A,B,C} vs new {B,C,D} must add only D and remove only A.
*/
func TestDiff(t *testing.T) {
	idA := primitive.NewObjectID()
	idB := primitive.NewObjectID()
	idC := primitive.NewObjectID()
	idD := primitive.NewObjectID()

	tests := []struct {
		name        string
		prev        []primitive.ObjectID
		next        []primitive.ObjectID
		wantAdded   []primitive.ObjectID
		wantRemoved []primitive.ObjectID
	}{
		{
			name:        "overlap",
			prev:        []primitive.ObjectID{idA, idB, idC},
			next:        []primitive.ObjectID{idB, idC, idD},
			wantAdded:   []primitive.ObjectID{idD},
			wantRemoved: []primitive.ObjectID{idA},
		},
		{
			name:        "identical",
			prev:        []primitive.ObjectID{idA, idB},
			next:        []primitive.ObjectID{idA, idB},
			wantAdded:   nil,
			wantRemoved: nil,
		},
		{
			name:        "from_empty",
			prev:        nil,
			next:        []primitive.ObjectID{idA},
			wantAdded:   []primitive.ObjectID{idA},
			wantRemoved: nil,
		},
		{
			name:        "to_empty",
			prev:        []primitive.ObjectID{idA, idB},
			next:        nil,
			wantAdded:   nil,
			wantRemoved: []primitive.ObjectID{idA, idB},
		},
		{
			name:        "duplicates_collapsed",
			prev:        []primitive.ObjectID{idA, idA, idB},
			next:        []primitive.ObjectID{idB, idB},
			wantAdded:   nil,
			wantRemoved: []primitive.ObjectID{idA},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			added, removed := refs.Diff(tt.prev, tt.next)
			assert.Equal(t, tt.wantAdded, added)
			assert.Equal(t, tt.wantRemoved, removed)
		})
	}
}
