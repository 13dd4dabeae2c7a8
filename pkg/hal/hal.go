// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

// Package hal builds the hyperlink blocks embedded in API representations.
//
// Every resource carries a "_links" object with a "self" and a "collection"
// reference, synthesized from the externally advertised host address and the
// resource path. The package is a pure formatting step; it knows nothing
// about entities or storage.
package hal

import "fmt"

// Ref is a single hyperlink reference.
type Ref struct {
	Href string `json:"href"`
}

// Links is the "_links" block attached to resource representations.
type Links struct {
	Self       Ref `json:"self"`
	Collection Ref `json:"collection"`
}

// ForResource builds the links block for a single resource within a collection.
func ForResource(baseURL, collection, id string) Links {
	return Links{
		Self:       Ref{Href: fmt.Sprintf("%s/%s/%s", baseURL, collection, id)},
		Collection: Ref{Href: fmt.Sprintf("%s/%s/", baseURL, collection)},
	}
}

// ForCollection builds the links block for a collection resource, where self
// and collection coincide.
func ForCollection(baseURL, collection string) Links {
	ref := Ref{Href: fmt.Sprintf("%s/%s/", baseURL, collection)}
	return Links{Self: ref, Collection: ref}
}

// CollectionURL returns the absolute URL of a collection without a trailing
// slash, suitable for query-string page links.
func CollectionURL(baseURL, collection string) string {
	return fmt.Sprintf("%s/%s", baseURL, collection)
}
