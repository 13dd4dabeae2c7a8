package game

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/pkg/hal"
)

// Game is a game entry as persisted.
type Game struct {
	ID          primitive.ObjectID   `bson:"_id" json:"id"`
	FullName    string               `bson:"full_name" json:"full_name"`
	ShortName   string               `bson:"short_name" json:"short_name"`
	ReleaseYear int                  `bson:"release_year" json:"release_year"`
	CaseIDs     []primitive.ObjectID `bson:"cases" json:"cases"`
}

// Input is the request body accepted by create and update. Update ignores
// Cases: the cases list is owned by case-side reconciliation.
type Input struct {
	FullName    string   `json:"full_name"`
	ShortName   string   `json:"short_name"`
	ReleaseYear int      `json:"release_year"`
	Cases       []string `json:"cases"`
}

// View is the read representation, with case references expanded to
// id/name pairs. The embedded CaseIDs field is shadowed by Cases.
type View struct {
	Game  `bson:",inline"`
	Cases []store.NameRef `json:"cases"`
	Links *hal.Links      `json:"_links,omitempty"`
}
