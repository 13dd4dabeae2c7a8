// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package store

// Kind identifies one of the four catalogued entity kinds. Its value doubles
// as the collection path segment in the HTTP API.
type Kind string

const (
	KindGames    Kind = "games"
	KindCases    Kind = "cases"
	KindEvidence Kind = "evidence"
	KindProfiles Kind = "profiles"
)

// Well-known document field names shared between the store and the
// reconciliation engine.
const (
	FieldID       = "_id"
	FieldGame     = "game"
	FieldCases    = "cases"
	FieldEvidence = "evidence"
	FieldProfiles = "profiles"
)

// Descriptor describes how an entity kind is stored and referenced.
type Descriptor struct {
	// Collection is the document store collection name.
	Collection string

	// Singular is the lowercase singular noun used in error messages and
	// success envelopes ("case", "game").
	Singular string

	// Title is the capitalized singular noun ("Case", "Game").
	Title string

	// NameField is the field projected into sibling representations, or empty
	// when the kind has no scalar display name.
	NameField string

	// UniqueFields lists fields guarded by pre-write existence checks and
	// backed by unique indexes.
	UniqueFields []string
}

// registry is the single schema registry, built once at process start.
// There is no runtime conditional registration: every kind the API serves
// is declared here and nowhere else.
var registry = map[Kind]Descriptor{
	KindGames: {
		Collection:   "games",
		Singular:     "game",
		Title:        "Game",
		NameField:    "full_name",
		UniqueFields: []string{"full_name", "short_name"},
	},
	KindCases: {
		Collection:   "cases",
		Singular:     "case",
		Title:        "Case",
		NameField:    "name",
		UniqueFields: []string{"name"},
	},
	KindEvidence: {
		Collection: "evidence",
		Singular:   "evidence",
		Title:      "Evidence",
	},
	KindProfiles: {
		Collection: "profiles",
		Singular:   "profile",
		Title:      "Profile",
	},
}

// Describe returns the schema descriptor for a kind. Unknown kinds are a
// programming error and panic immediately.
func Describe(kind Kind) Descriptor {
	desc, ok := registry[kind]
	if !ok {
		panic("store: unknown entity kind " + string(kind))
	}
	return desc
}

// Kinds returns every registered kind in a stable order.
func Kinds() []Kind {
	return []Kind{KindGames, KindCases, KindEvidence, KindProfiles}
}
