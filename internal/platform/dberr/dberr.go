// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

// Package dberr provides a bridge between low-level document store errors and
// higher-level application errors.
package dberr

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mkoers/courtrecord/internal/platform/apperr"
)

var (
	// ErrNotFound is a standard error returned when a queried document doesn't exist.
	ErrNotFound = apperr.NotFound("Resource")
)

// Wrap inspects a store error and wraps it into a meaningful [apperr.AppError].
// It hides internal driver details from the client while classifying the error type.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}

	// 1. Not Found mapping
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}

	// 2. Unique index violations surface as conflicts. The pre-write existence
	// checks normally catch these first with a more descriptive message; this
	// covers the race where two writers slip past the check.
	if mongo.IsDuplicateKeyError(err) {
		return apperr.Conflict("A document with that unique value already exists")
	}

	// 3. Unknown store errors become Internal Server Errors
	return apperr.Internal(err)
}
