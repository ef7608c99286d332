package validation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Overland-East-Bay/trip-journal-api/internal/app/apperr"
)

// Violations accumulates human-readable invariant messages for one candidate entity.
type Violations []string

func (v *Violations) Add(msg string) { *v = append(*v, msg) }

// Err returns a 422 carrying every message, or nil when nothing was violated.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperr.Unprocessable(v...)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Blank reports whether s is empty after trimming whitespace.
func Blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Presence adds "<Label> can't be blank" when value is blank.
func (v *Violations) Presence(label, value string) bool {
	if Blank(value) {
		v.Add(label + " can't be blank")
		return false
	}
	return true
}

// Email adds "Email is invalid" when value is not a bare address.
func (v *Violations) Email(value string) {
	if err := engine().Var(value, "email"); err != nil {
		v.Add("Email is invalid")
	}
}

// MinLength adds "<Label> is too short (minimum is N characters)".
func (v *Violations) MinLength(label, value string, n int) {
	if len([]rune(value)) < n {
		v.Add(fmt.Sprintf("%s is too short (minimum is %d characters)", label, n))
	}
}

// DateOrder adds "End date must be after start date" when both dates are set and end precedes
// start. Equal dates are accepted.
func (v *Violations) DateOrder(start, end *time.Time) {
	if start == nil || end == nil {
		return
	}
	if end.Before(*start) {
		v.Add("End date must be after start date")
	}
}
