package tokencodec

import "fmt"

// Kind classifies why a token failed to decode.
type Kind int

const (
	KindMalformed Kind = iota + 1
	KindSignature
	KindAlgorithm
	KindExpired
)

func (k Kind) String() string {
	switch k {
	case KindMalformed:
		return "malformed"
	case KindSignature:
		return "signature mismatch"
	case KindAlgorithm:
		return "unsupported algorithm"
	case KindExpired:
		return "expired"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var (
	ErrMalformed = &DecodeError{Kind: KindMalformed}
	ErrSignature = &DecodeError{Kind: KindSignature}
	ErrAlgorithm = &DecodeError{Kind: KindAlgorithm}
	ErrExpired   = &DecodeError{Kind: KindExpired}
)

// DecodeError reports a rejected token.
type DecodeError struct {
	Kind Kind
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return "token " + e.Kind.String() + ": " + e.Err.Error()
	}
	return "token " + e.Kind.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is matches any *DecodeError of the same Kind, so the package sentinels work with errors.Is.
func (e *DecodeError) Is(target error) bool {
	t, ok := target.(*DecodeError)
	return ok && t.Kind == e.Kind
}
