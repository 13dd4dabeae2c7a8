// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

// Package pagination provides shared types and helpers for API list endpoints.
//
// # Overview
//
// It standardizes how page-based navigation is requested via query parameters,
// how the requested window is clamped against the collection size, and how the
// resulting metadata block (including first/last/previous/next hyperlinks) is
// delivered in the response body.
package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

// Params holds the parsed page and limit from a request's query string.
//
// A Limit of -1 means the client did not supply one; the window then spans
// the whole collection (unpaginated by default).
type Params struct {
	Page  int
	Limit int
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// Negative values are folded to their absolute value, so a supplied limit of
// -1 asks for one item per page. Only a missing or unparseable limit leaves
// it unset; page falls back to 1.
func FromRequest(r *http.Request) Params {
	page := 1
	if n, ok := lookupIntParam(r, "page"); ok {
		if n < 0 {
			n = -n
		}
		page = n
	}

	limit := -1
	if n, ok := lookupIntParam(r, "limit"); ok {
		if n < 0 {
			n = -n
		}
		limit = n
	}

	return Params{Page: page, Limit: limit}
}

// Window is a fully resolved page window over a collection of TotalItems.
type Window struct {
	Page         int
	Limit        int
	Skip         int
	TotalItems   int
	TotalPages   int
	CurrentItems int
}

// Clamp resolves the requested [Params] against the collection size.
//
// # Clamping rules
//
//   - An unset limit spans the whole collection.
//   - A limit of zero is forced to one.
//   - A page beyond the last page is clamped down to the last page.
//   - The page never drops below one, even for an empty collection.
func Clamp(p Params, totalItems int) Window {
	limit := p.Limit
	if limit < 0 {
		limit = totalItems
	}
	if limit == 0 {
		limit = 1
	}

	totalPages := (totalItems + limit - 1) / limit

	page := p.Page
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	currentItems := limit
	if currentItems > totalItems {
		currentItems = totalItems
	}

	return Window{
		Page:         page,
		Limit:        limit,
		Skip:         (page - 1) * limit,
		TotalItems:   totalItems,
		TotalPages:   totalPages,
		CurrentItems: currentItems,
	}
}

// Link is a single hyperlinked page reference.
type Link struct {
	Page int    `json:"page"`
	Href string `json:"href"`
}

// Links holds the navigation links of a [Block]. Previous and Next are null
// at the respective boundary.
type Links struct {
	First    Link  `json:"first"`
	Last     Link  `json:"last"`
	Previous *Link `json:"previous"`
	Next     *Link `json:"next"`
}

// Block is the pagination metadata included in collection responses.
type Block struct {
	CurrentPage  int   `json:"currentPage"`
	CurrentItems int   `json:"currentItems"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int   `json:"totalItems"`
	Links        Links `json:"_links"`
}

// NewBlock builds the pagination block for a resolved window.
//
// collectionURL is the absolute URL of the collection resource; page links are
// synthesized as "<collectionURL>?page=N&limit=M".
func NewBlock(w Window, collectionURL string) Block {
	href := func(page int) string {
		return fmt.Sprintf("%s?page=%d&limit=%d", collectionURL, page, w.Limit)
	}

	lastPage := w.TotalPages
	if lastPage < 1 {
		lastPage = 1
	}

	links := Links{
		First: Link{Page: 1, Href: href(1)},
		Last:  Link{Page: lastPage, Href: href(lastPage)},
	}

	if w.Page > 1 {
		links.Previous = &Link{Page: w.Page - 1, Href: href(w.Page - 1)}
	}
	if w.Page < w.TotalPages {
		links.Next = &Link{Page: w.Page + 1, Href: href(w.Page + 1)}
	}

	return Block{
		CurrentPage:  w.Page,
		CurrentItems: w.CurrentItems,
		TotalPages:   w.TotalPages,
		TotalItems:   w.TotalItems,
		Links:        links,
	}
}

// lookupIntParam parses a single integer query parameter, reporting whether a
// parseable value was supplied at all.
func lookupIntParam(r *http.Request, key string) (int, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, false
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}

	return n, true
}
