package evidence

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mkoers/courtrecord/internal/catalog/store"
	"github.com/mkoers/courtrecord/pkg/hal"
)

// Types enumerates the accepted evidence categories.
var Types = []string{"Other", "Documents", "Photographs", "Maps", "Reports", "Weapons"}

// Name is a localized display name variant.
type Name struct {
	Name string `bson:"name" json:"name"`
}

// Description is a localized description variant.
type Description struct {
	Description string `bson:"description" json:"description"`
}

// Image is an inline image, base64 data plus its mime type.
type Image struct {
	Mime string `bson:"mime" json:"mime"`
	Data string `bson:"data" json:"data"`
}

// Evidence is an item of evidence as persisted.
type Evidence struct {
	ID                primitive.ObjectID   `bson:"_id" json:"id"`
	Names             []Name               `bson:"names" json:"names"`
	Type              string               `bson:"type" json:"type"`
	ShortDescriptions []Description        `bson:"short_descriptions" json:"short_descriptions"`
	LongDescriptions  []Description        `bson:"long_descriptions" json:"long_descriptions"`
	SmallImages       []Image              `bson:"small_images" json:"small_images"`
	LargeImages       []Image              `bson:"large_images" json:"large_images"`
	CaseIDs           []primitive.ObjectID `bson:"cases" json:"cases"`
}

// Input is the request body accepted by create and update.
type Input struct {
	Names             []Name        `json:"names"`
	Type              string        `json:"type"`
	ShortDescriptions []Description `json:"short_descriptions"`
	LongDescriptions  []Description `json:"long_descriptions"`
	SmallImages       []Image       `json:"small_images"`
	LargeImages       []Image       `json:"large_images"`
	Cases             []string      `json:"cases"`
}

// View is the read representation, with case references expanded to
// id/name pairs. The embedded CaseIDs field is shadowed by Cases.
type View struct {
	Evidence `bson:",inline"`
	Cases    []store.NameRef `json:"cases"`
	Links    *hal.Links      `json:"_links,omitempty"`
}
