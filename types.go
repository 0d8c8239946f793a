package skema

// Strictness configures enforcement for duplicate keys.
type Strictness struct {
	OnDuplicateKey Severity // Ignore (last wins), Warn or Error.
}

// Severity expresses the severity level for issues.
type Severity int

const (
	Ignore Severity = iota
	Warn
	Error
)

// DefaultMaxDepth bounds container nesting when DecodeOpt.MaxDepth is zero.
const DefaultMaxDepth = 512

// DecodeOpt bundles decoding options. The zero value applies DefaultMaxDepth,
// ignores duplicate keys and does not limit input size.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int   // <0 disables the depth limit.
	MaxBytes   int64 // <=0 disables the size limit.
	// Warnings receives non-fatal issues such as duplicate keys under Warn.
	Warnings func(Issue)
}

// DefaultDecodeOpt returns the options used by Decode.
func DefaultDecodeOpt() DecodeOpt {
	return DecodeOpt{MaxDepth: DefaultMaxDepth}
}

func (o DecodeOpt) maxDepth() int {
	switch {
	case o.MaxDepth == 0:
		return DefaultMaxDepth
	case o.MaxDepth < 0:
		return 0
	}
	return o.MaxDepth
}

// EncodeMode selects the key order of encoded objects.
type EncodeMode int

const (
	// EncodePreserve keeps builder and decoded order.
	EncodePreserve EncodeMode = iota
	// EncodeCanonical sorts object keys at every level.
	EncodeCanonical
)

func (m EncodeMode) String() string {
	if m == EncodeCanonical {
		return "canonical"
	}
	return "preserve"
}

// EncodeOpt bundles encoding options.
type EncodeOpt struct {
	Mode   EncodeMode
	Prefix string
	Indent string
}
