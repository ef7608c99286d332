package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/validation"
)

const maxBodyBytes = 1 << 20

var errInvalidBody = errors.New("invalid request body")

// Request bodies keep absent, null and present apart with nullable.Nullable so PATCH can
// tell "leave alone" from "clear". Unknown keys are ignored.

type registerRequest struct {
	Name     nullable.Nullable[string] `json:"name,omitempty"`
	Email    nullable.Nullable[string] `json:"email,omitempty"`
	Password nullable.Nullable[string] `json:"password,omitempty"`
}

type loginRequest struct {
	Email    nullable.Nullable[string] `json:"email,omitempty"`
	Password nullable.Nullable[string] `json:"password,omitempty"`
}

type userRequest struct {
	Name  nullable.Nullable[string] `json:"name,omitempty"`
	Email nullable.Nullable[string] `json:"email,omitempty"`
}

type tripRequest struct {
	Title       nullable.Nullable[string]             `json:"title,omitempty"`
	Description nullable.Nullable[string]             `json:"description,omitempty"`
	StartDate   nullable.Nullable[openapi_types.Date] `json:"start_date,omitempty"`
	EndDate     nullable.Nullable[openapi_types.Date] `json:"end_date,omitempty"`
}

// readBody returns the raw request body, capped at maxBodyBytes.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, errInvalidBody
	}
	return raw, nil
}

// decodeBody unmarshals raw into dst. An empty body decodes as {}; anything that is not a
// JSON object, or whose fields have the wrong type, is rejected.
func decodeBody(raw []byte, dst any) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil
	}
	if trimmed[0] != '{' {
		return errInvalidBody
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return errInvalidBody
	}
	return nil
}

func optionalString(n nullable.Nullable[string]) validation.Optional[string] {
	return optionalOf(n, func(v string) string { return v })
}

func optionalDate(n nullable.Nullable[openapi_types.Date]) validation.Optional[time.Time] {
	return optionalOf(n, func(d openapi_types.Date) time.Time { return d.Time })
}

func optionalOf[T, U any](n nullable.Nullable[T], conv func(T) U) validation.Optional[U] {
	switch {
	case !n.IsSpecified():
		return validation.Unspecified[U]()
	case n.IsNull():
		return validation.Null[U]()
	}
	v, err := n.Get()
	if err != nil {
		return validation.Null[U]()
	}
	return validation.Some(conv(v))
}
