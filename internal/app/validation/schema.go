package validation

import (
	"strings"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
)

// Field is anything that knows whether the caller supplied it.
type Field interface {
	IsSpecified() bool
}

// Fields maps declared parameter names to the values a request supplied.
type Fields map[string]Field

// Schema declares the parameters an operation accepts.
type Schema struct {
	Required []string
	Optional []string
}

// CheckRequired reports every missing required field in one error, in declaration order.
func (s Schema) CheckRequired(in Fields) error {
	var missing []string
	for _, name := range s.Required {
		if f, ok := in[name]; !ok || f == nil || !f.IsSpecified() {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.BadRequest("MISSING_PARAMETERS", "Missing required parameters: "+strings.Join(missing, ", "))
}

// CheckAnyPresent rejects a partial update that names none of the declared fields.
func (s Schema) CheckAnyPresent(in Fields) error {
	for _, name := range s.names() {
		if f, ok := in[name]; ok && f != nil && f.IsSpecified() {
			return nil
		}
	}
	return apperr.BadRequest("EMPTY_UPDATE", "At least one parameter must be provided for update")
}

func (s Schema) names() []string {
	out := make([]string, 0, len(s.Required)+len(s.Optional))
	out = append(out, s.Required...)
	return append(out, s.Optional...)
}
