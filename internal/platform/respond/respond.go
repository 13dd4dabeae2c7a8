// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

// Package respond provides HTTP response helpers used by all API handlers.
//
// # Architecture
//
// This package centralizes the presentation logic for HTTP responses.
// It ensures that every response (Success or Error) across the entire application
// follows a strict, predictable JSON structure. Error bodies are flat objects
// carrying at least an "error" message, plus any context attached to the
// [apperr.AppError] (such as the offending identifier).
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/internal/platform/constants"
	"github.com/mkoers/courtrecord/internal/platform/ctxutil"
	"github.com/mkoers/courtrecord/pkg/hal"
	"github.com/mkoers/courtrecord/pkg/pagination"
)

// CollectionEnvelope is the JSON envelope for hyperlinked, paginated lists.
type CollectionEnvelope struct {
	Items      interface{}      `json:"items"`
	Links      hal.Links        `json:"_links"`
	Pagination pagination.Block `json:"pagination"`
}

// JSON writes a JSON response with the given status code.
func JSON(writer http.ResponseWriter, statusCode int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json; charset=utf-8")
	writer.WriteHeader(statusCode)
	_ = json.NewEncoder(writer).Encode(payload)
}

// OK writes a 200 OK response with the raw representation of a resource.
func OK(writer http.ResponseWriter, data interface{}) {
	JSON(writer, http.StatusOK, data)
}

// Created writes a 201 Created response with the entity keyed under its
// singular name: {"success": true, "<entity>": {...}}.
func Created(writer http.ResponseWriter, entityKey string, entity interface{}) {
	JSON(writer, http.StatusCreated, map[string]interface{}{
		constants.FieldSuccess: true,
		entityKey:              entity,
	})
}

// Updated writes a 200 OK response in the same success envelope as [Created].
func Updated(writer http.ResponseWriter, entityKey string, entity interface{}) {
	JSON(writer, http.StatusOK, map[string]interface{}{
		constants.FieldSuccess: true,
		entityKey:              entity,
	})
}

// Collection writes a 200 OK response with items, collection links, and the
// pagination block.
func Collection(writer http.ResponseWriter, items interface{}, links hal.Links, block pagination.Block) {
	JSON(writer, http.StatusOK, CollectionEnvelope{
		Items:      items,
		Links:      links,
		Pagination: block,
	})
}

// NoContent writes a 204 No Content response.
func NoContent(writer http.ResponseWriter) {
	writer.WriteHeader(http.StatusNoContent)
}

// Options writes a 204 response advertising the allowed methods.
func Options(writer http.ResponseWriter, allowed string) {
	writer.Header().Set(constants.HeaderAllow, allowed)
	writer.Header().Set("Access-Control-Allow-Methods", allowed)
	writer.WriteHeader(http.StatusNoContent)
}

// Error converts any Go error into a standardized JSON API error response.
//
// The body is flat: {"error": ..., "code": ..., <context pairs>}. Validation
// failures additionally carry a "details" array.
func Error(writer http.ResponseWriter, request *http.Request, err error) {
	var appError *apperr.AppError
	if !errors.As(err, &appError) {
		// Unexpected internal error: log full details but hide them from the client for security.
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "unhandled_error_swallowed",
			slog.String("error", err.Error()),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
		)
		appError = apperr.Internal(err)
	}

	// Always log 5xx errors as they indicate server-side issues.
	if appError.HTTPStatus >= 500 {
		logger := ctxutil.GetLogger(request.Context())
		logger.ErrorContext(request.Context(), "api_server_error",
			slog.String("code", appError.Code),
			slog.String("request_id", ctxutil.GetRequestID(request.Context())),
			slog.Any("cause", appError.Cause),
		)
	}

	body := map[string]interface{}{
		constants.FieldError: appError.Message,
		constants.FieldCode:  appError.Code,
	}
	if len(appError.Details) > 0 {
		body[constants.FieldDetails] = appError.Details
	}
	for key, value := range appError.Context {
		body[key] = value
	}

	JSON(writer, appError.HTTPStatus, body)
}
