// Package gamecase implements the cases collection. The package is not
// called "case" because that is a Go keyword.
package gamecase

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/pkg/hal"
)

// Case is a game case as persisted. It is the hub of the catalogue: it
// points at one game and at any number of evidence items and profiles,
// each of which points back.
type Case struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	Name        string               `bson:"name" json:"name"`
	EvidenceIDs []primitive.ObjectID `bson:"evidence" json:"evidence"`
	ProfileIDs  []primitive.ObjectID `bson:"profiles" json:"profiles"`
	GameID      primitive.ObjectID   `bson:"game" json:"game"`
}

// Input is the request body accepted by create and update.
type Input struct {
	Name     string   `json:"name"`
	Evidence []string `json:"evidence"`
	Profiles []string `json:"profiles"`
	Game     string   `json:"game"`
}

// View is the read representation. Case references are not expanded to
// name pairs; sibling identifiers are returned as-is.
type View struct {
	Case  `bson:",inline"`
	Links *hal.Links `json:"_links,omitempty"`
}
