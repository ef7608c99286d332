package validation

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
)

func asAppErr(t *testing.T, err error) *apperr.Error {
	t.Helper()
	var ae *apperr.Error
	require.True(t, errors.As(err, &ae), "err=%v (type=%T)", err, err)
	return ae
}

func TestSchema_CheckRequired_AggregatesInDeclarationOrder(t *testing.T) {
	t.Parallel()

	s := Schema{Required: []string{"name", "email", "password"}}
	err := s.CheckRequired(Fields{
		"email": Some("a@example.com"),
	})
	ae := asAppErr(t, err)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "Missing required parameters: name, password", ae.Message)
}

func TestSchema_CheckRequired_NullCountsAsSupplied(t *testing.T) {
	t.Parallel()

	s := Schema{Required: []string{"title"}}
	assert.NoError(t, s.CheckRequired(Fields{"title": Null[string]()}))
	assert.Error(t, s.CheckRequired(Fields{"title": Unspecified[string]()}))
}

func TestSchema_CheckAnyPresent(t *testing.T) {
	t.Parallel()

	s := Schema{Optional: []string{"title", "description"}}
	err := s.CheckAnyPresent(Fields{
		"title":       Unspecified[string](),
		"description": Unspecified[string](),
	})
	ae := asAppErr(t, err)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
	assert.Equal(t, "At least one parameter must be provided for update", ae.Message)

	assert.NoError(t, s.CheckAnyPresent(Fields{"description": Null[string]()}))
}

func TestViolations_Aggregates(t *testing.T) {
	t.Parallel()

	var v Violations
	assert.NoError(t, v.Err())

	v.Presence("Name", "   ")
	v.Email("not-an-email")
	v.MinLength("Password", "12345", 6)
	err := v.Err()
	ae := asAppErr(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, ae.Status)
	assert.Equal(t, []string{
		"Name can't be blank",
		"Email is invalid",
		"Password is too short (minimum is 6 characters)",
	}, ae.Errors)
}

func TestViolations_Email(t *testing.T) {
	t.Parallel()

	for _, ok := range []string{"john@example.com", "a.b+c@sub.example.org"} {
		var v Violations
		v.Email(ok)
		assert.Empty(t, v, ok)
	}
	for _, bad := range []string{"john", "john@", "@example.com", "John <john@example.com>"} {
		var v Violations
		v.Email(bad)
		assert.Equal(t, Violations{"Email is invalid"}, v, bad)
	}
}

func TestViolations_DateOrder(t *testing.T) {
	t.Parallel()

	d1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)

	var v Violations
	v.DateOrder(&d1, &d2)
	v.DateOrder(&d1, &d1)
	v.DateOrder(nil, &d1)
	v.DateOrder(&d2, nil)
	assert.Empty(t, v)

	v.DateOrder(&d2, &d1)
	assert.Equal(t, Violations{"End date must be after start date"}, v)
}

func TestOptional_Ptr(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Unspecified[string]().Ptr())
	assert.Nil(t, Null[string]().Ptr())
	p := Some("x").Ptr()
	require.NotNil(t, p)
	assert.Equal(t, "x", *p)
}
