// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mkoers/courtrecord/internal/platform/ctxutil"
)

/*
TestRequestID checks the round trip of a request ID through the context.
*/
func TestRequestID(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", ctxutil.GetRequestID(ctx))
}

/*
TestLogger checks retrieval of the per-request logger and the default fallback.
*/
func TestLogger(t *testing.T) {
	ctx := context.Background()

	// Without a stored logger, the default logger is returned.
	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	custom := slog.New(slog.NewTextHandler(os.Stdout, nil))
	ctx = ctxutil.WithLogger(ctx, custom)

	assert.Equal(t, custom, ctxutil.GetLogger(ctx))
}
