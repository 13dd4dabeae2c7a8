package profile

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/refs"
	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/pkg/hal"
)

// Description is a biography entry, optionally tagged with the case it
// applies to.
type Description struct {
	Description string              `bson:"description" json:"description"`
	CaseID      *primitive.ObjectID `bson:"case,omitempty" json:"case,omitempty"`
}

// Profile is a character profile as persisted.
type Profile struct {
	ID           primitive.ObjectID   `bson:"_id" json:"id"`
	Names        []string             `bson:"names" json:"names"`
	Ages         []int                `bson:"ages" json:"ages"`
	Descriptions []Description        `bson:"descriptions" json:"descriptions"`
	ImagePaths   []string             `bson:"image_paths" json:"image_paths"`
	CaseIDs      []primitive.ObjectID `bson:"cases" json:"cases"`
}

// ReferenceSet returns every case the profile points at: the cases list
// plus any case tagged on a description entry, de-duplicated in order.
func (p Profile) ReferenceSet() []primitive.ObjectID {
	set := refs.NewIDSet(p.CaseIDs...)
	for _, entry := range p.Descriptions {
		if entry.CaseID != nil {
			set.Add(*entry.CaseID)
		}
	}
	return set.Values()
}

// DescriptionInput is a description entry as submitted, with the case
// reference still in its wire form.
type DescriptionInput struct {
	Description string `json:"description"`
	Case        string `json:"case,omitempty"`
}

// Input is the request body accepted by create and update.
type Input struct {
	Names        []string           `json:"names"`
	Ages         []int              `json:"ages"`
	Descriptions []DescriptionInput `json:"descriptions"`
	ImagePaths   []string           `json:"image_paths"`
	Cases        []string           `json:"cases"`
}

// View is the read representation, with case references expanded to
// id/name pairs. The embedded CaseIDs field is shadowed by Cases.
type View struct {
	Profile `bson:",inline"`
	Cases   []store.NameRef `json:"cases"`
	Links   *hal.Links      `json:"_links,omitempty"`
}
