package readability

import "errors"

// Severity classifies how bad an error is, the way
// rohmanhakim-docs-crawler's internal.Severity does: it tells a caller
// whether retrying or falling back makes sense, without the caller
// needing to switch on the concrete sentinel.
type Severity int

const (
	// SeverityFatal means the call cannot be retried as-is: the input
	// itself is unusable.
	SeverityFatal Severity = iota
	// SeverityRecoverable means extraction ran to completion but found
	// nothing worth returning; a caller may retry with a relaxed
	// Config or fall back to displaying raw text.
	SeverityRecoverable
)

// Sentinel errors of the engine.
var (
	// ErrEmpty means the document has no root (<html>) element.
	ErrEmpty = errors.New("readability: document has no root element")

	// ErrNoContent means extraction completed but no article was
	// selectable, even after the fallback promoted body's children
	// into a synthetic container.
	ErrNoContent = errors.New("readability: no content could be extracted")

	// ErrMalformed means a structural precondition was violated, such
	// as a document with no <body> where one is required.
	ErrMalformed = errors.New("readability: document is malformed")

	// ErrBadRegex names a heuristic regex that failed to compile. This
	// can only happen if the package's own regex literals are broken,
	// so it is fatal to the process. The package compiles its regexes
	// with regexp.MustCompile, which panics on such a failure, so no
	// function here returns this error.
	ErrBadRegex = errors.New("readability: failed to compile heuristic regex")
)

// SeverityOf classifies one of the sentinels above. Unknown errors are
// treated as fatal.
func SeverityOf(err error) Severity {
	if errors.Is(err, ErrNoContent) {
		return SeverityRecoverable
	}
	return SeverityFatal
}
