package powerkit

import "github.com/pkg/errors"

// ============================================================================
// Errors
// ============================================================================

var (
	// ErrInvalidArgument is returned when a value of an unsupported shape
	// is passed to Map.Merge, Map.Set or SourceOf, or when an unknown
	// normalization form is requested.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDecode is returned by Map.Deserialize on malformed input.
	ErrDecode = errors.New("malformed serialized map")

	// ErrEncode is returned by Map.Serialize when a value cannot be encoded.
	ErrEncode = errors.New("unsupported value")

	// ErrPatternSyntax is returned for malformed delimiter-bounded patterns.
	ErrPatternSyntax = errors.New("pattern syntax error")
)
