package codec

import "fmt"

// CodecError is the single error category the element codec surfaces.
// Callers should use errors.Is against the Err* sentinel values to
// branch on kind, and errors.As against *CodecError to read the
// offending group/property/location.
type CodecError struct {
	Kind     ErrorKind
	Group    string
	Property string
	Where    string
	Cause    error
}

// ErrorKind enumerates the CodecError kinds.
type ErrorKind int

const (
	ErrUnknownGroup ErrorKind = iota
	ErrSerializationFailed
	ErrCorruptRecord
	ErrEncodingUnsupported
)

func (e *CodecError) Error() string {
	switch e.Kind {
	case ErrUnknownGroup:
		return fmt.Sprintf("codec: unknown group %q: is this group in your schema, or does the backing store's schema need a reload?", e.Group)
	case ErrSerializationFailed:
		return fmt.Sprintf("codec: failed to serialise property %q of group %q: %v", e.Property, e.Group, e.Cause)
	case ErrCorruptRecord:
		return fmt.Sprintf("codec: corrupt record at %s: %v", e.Where, e.Cause)
	case ErrEncodingUnsupported:
		return fmt.Sprintf("codec: encoding unsupported: %s", e.Where)
	default:
		return fmt.Sprintf("codec: error: %v", e.Cause)
	}
}

func (e *CodecError) Unwrap() error {
	return e.Cause
}

// Is supports errors.Is(err, codec.ErrUnknownGroupKind) style checks
// against the Kind-only sentinels below.
func (e *CodecError) Is(target error) bool {
	k, ok := target.(kindSentinel)
	return ok && e.Kind == ErrorKind(k)
}

type kindSentinel ErrorKind

// Sentinels usable with errors.Is(err, codec.ErrUnknownGroupKind), etc.
// without needing to errors.As and compare Kind by hand.
var (
	ErrUnknownGroupKind        error = kindSentinel(ErrUnknownGroup)
	ErrSerializationFailedKind error = kindSentinel(ErrSerializationFailed)
	ErrCorruptRecordKind       error = kindSentinel(ErrCorruptRecord)
	ErrEncodingUnsupportedKind error = kindSentinel(ErrEncodingUnsupported)
)

func (k kindSentinel) Error() string { return fmt.Sprintf("codec error kind %d", k) }

func unknownGroup(group string) error {
	return &CodecError{Kind: ErrUnknownGroup, Group: group}
}

func serializationFailed(group, property string, cause error) error {
	return &CodecError{Kind: ErrSerializationFailed, Group: group, Property: property, Cause: cause}
}

func corruptRecord(where string, cause error) error {
	return &CodecError{Kind: ErrCorruptRecord, Where: where, Cause: cause}
}

func encodingUnsupported(where string) error {
	return &CodecError{Kind: ErrEncodingUnsupported, Where: where}
}
