package skema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeParseError       = "parse_error"
	CodeDuplicateKey     = "duplicate_key"
	CodeTruncated        = "truncated"
	CodeInvalidType      = "invalid_type"
	CodeUnsupportedShape = "unsupported_shape"
)

// Issue represents a single decode failure or warning.
type Issue struct {
	Path    string // JSON Pointer (for example: /properties/name/minLength).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints.
	Cause   error  // Optional: underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
}

// Issues is a collection of issues that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. unsupported_shape at /properties/a: unsupported schema shape
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the underlying causes to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Attempt records why one trial candidate rejected the input.
type Attempt struct {
	Variant Variant
	Err     error
}

// ShapeError reports input that matched none of the schema shapes. Attempts
// lists every candidate in trial order.
type ShapeError struct {
	Path     string
	Attempts []Attempt
}

func (e *ShapeError) Error() string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "skema: unsupported schema shape at %s", pathOrRoot(e.Path))
	for i, a := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		fmt.Fprintf(b, "%s: %v", a.Variant, a.Err)
	}
	return b.String()
}

// Unwrap returns the per-candidate errors.
func (e *ShapeError) Unwrap() []error {
	out := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		out = append(out, a.Err)
	}
	return out
}

// KeywordError reports a keyword whose value does not fit the candidate.
type KeywordError struct {
	Path    string
	Keyword string
	Reason  string
}

func (e *KeywordError) Error() string {
	return fmt.Sprintf("%s at %s: %s", e.Keyword, pathOrRoot(e.Path), e.Reason)
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
