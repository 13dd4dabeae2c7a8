// Copyright (c) 2026 Courtrecord. All rights reserved.
// Author: m.koers.dev@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkoers/courtrecord/internal/platform/apperr"
	"github.com/mkoers/courtrecord/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "The First Turnabout", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, "VALIDATION_ERROR", ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestIsHexObjectID checks the identifier shape rule used by every reference
validation and by the detail route guard.
*/
func TestIsHexObjectID(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		isValid bool
	}{
		{"valid_lowercase", "64f1b2c3d4e5f60718293a4b", true},
		{"valid_uppercase", "64F1B2C3D4E5F60718293A4B", true},
		{"too_short", "64f1b2c3d4e5f60718293a", false},
		{"too_long", "64f1b2c3d4e5f60718293a4b00", false},
		{"bad_charset", "64f1b2c3d4e5f60718293agg", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isValid, validate.IsHexObjectID(tt.value))

			v := &validate.Validator{}
			v.ObjectID("case", tt.value)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_OneOf checks the enum membership rule.
*/
func TestValidator_OneOf(t *testing.T) {
	allowed := []string{"Other", "Documents", "Photographs", "Maps", "Reports", "Weapons"}

	v := &validate.Validator{}
	v.OneOf("type", "Maps", allowed...)
	assert.False(t, v.HasErrors())

	v2 := &validate.Validator{}
	v2.OneOf("type", "Testimony", allowed...)
	assert.True(t, v2.HasErrors())
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("full_name", "Phoenix Wright: Ace Attorney").
		MinLen("short_name", "AA1", 2).
		Range("release_year", 2001, 1980, 2100).
		Err()

	assert.Nil(t, err)

	failing := &validate.Validator{}
	err = failing.
		Required("full_name", "").
		Range("release_year", 1800, 1980, 2100).
		Err()

	require.NotNil(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)
}
