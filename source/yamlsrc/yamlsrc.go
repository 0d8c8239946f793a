// Package yamlsrc converts YAML documents to and from value.Value using
// gopkg.in/yaml.v3 nodes, so that duplicate keys and scalar tags stay visible.
package yamlsrc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	eng "github.com/reoring/skema/internal/engine"
	"github.com/reoring/skema/value"
)

// DuplicateKeyError reports a duplicate key found in a YAML mapping with both
// the first occurrence position and the duplicate occurrence position.
type DuplicateKeyError struct {
	Path      string
	Key       string
	FirstLine int
	FirstCol  int
	Line      int
	Col       int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate YAML key %q at %d:%d (first at %d:%d)", e.Key, e.Line, e.Col, e.FirstLine, e.FirstCol)
}

// DepthError reports nesting deeper than Options.MaxDepth.
type DepthError struct {
	Path string
	Max  int
	Line int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("max depth %d exceeded at %s (line %d)", e.Max, eng.NormalizePointer(e.Path), e.Line)
}

// ScalarError reports a scalar that has no JSON counterpart, such as .inf.
type ScalarError struct {
	Path  string
	Tag   string
	Value string
	Line  int
}

func (e *ScalarError) Error() string {
	return fmt.Sprintf("unsupported YAML scalar %s %q at %s (line %d)", e.Tag, e.Value, eng.NormalizePointer(e.Path), e.Line)
}

// ExpansionError reports a document whose aliases expand into more nodes than
// the conversion budget allows.
type ExpansionError struct {
	Path string
	Max  int
	Line int
}

func (e *ExpansionError) Error() string {
	return fmt.Sprintf("alias expansion exceeds %d nodes at %s (line %d)", e.Max, eng.NormalizePointer(e.Path), e.Line)
}

// Node budget defaults: a document may expand to aliasRatio times its own
// node count, and never below minNodeBudget.
const (
	aliasRatio    = 10
	minNodeBudget = 10000
)

// Options controls conversion from YAML.
type Options struct {
	// MaxDepth bounds container nesting; <= 0 disables the check.
	MaxDepth int
	// MaxNodes bounds the number of values produced, counting every alias
	// expansion. Zero derives the budget from the document size; < 0
	// disables the check.
	MaxNodes int
	// OnDuplicate decides what happens to a repeated mapping key. A nil
	// callback rejects duplicates. When the callback returns nil the later
	// value wins.
	OnDuplicate func(*DuplicateKeyError) error
}

// Reader decodes a multi-document YAML stream into values.
type Reader struct {
	dec *yaml.Decoder
	opt Options
}

// NewReader constructs a Reader.
func NewReader(r io.Reader, opt Options) *Reader {
	return &Reader{dec: yaml.NewDecoder(r), opt: opt}
}

// Next returns the next YAML document converted into a value.Value.
// It returns (nil, io.EOF) when the stream is exhausted. An empty document
// yields value.Null.
func (r *Reader) Next() (value.Value, error) {
	var root yaml.Node
	if err := r.dec.Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return FromNode(&root, r.opt)
}

// ReadAll reads all documents from the YAML stream.
func (r *Reader) ReadAll() ([]value.Value, error) {
	var out []value.Value
	for {
		v, err := r.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return nil, err
		}
		out = append(out, v)
	}
}

// ErrMultipleDocuments is returned by Unmarshal when data holds more than one
// YAML document.
var ErrMultipleDocuments = errors.New("yamlsrc: more than one YAML document")

// Unmarshal decodes exactly one YAML document.
func Unmarshal(data []byte, opt Options) (value.Value, error) {
	r := NewReader(bytes.NewReader(data), opt)
	v, err := r.Next()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("yamlsrc: empty input: %w", io.ErrUnexpectedEOF)
		}
		return nil, err
	}
	if _, err := r.Next(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, ErrMultipleDocuments
		}
		return nil, err
	}
	return v, nil
}

// FromNode converts a decoded YAML node tree.
func FromNode(n *yaml.Node, opt Options) (value.Value, error) {
	c := converter{opt: opt, budget: opt.MaxNodes}
	if c.budget == 0 {
		c.budget = max(minNodeBudget, aliasRatio*countNodes(n))
	}
	return c.node(n, "", 0)
}

// countNodes counts the nodes of the tree as written, without following
// aliases.
func countNodes(n *yaml.Node) int {
	total := 1
	if n.Kind != yaml.AliasNode {
		for _, c := range n.Content {
			total += countNodes(c)
		}
	}
	return total
}

type converter struct {
	opt      Options
	budget   int
	produced int
}

func (c *converter) node(n *yaml.Node, path string, depth int) (value.Value, error) {
	if n.Kind != yaml.DocumentNode && n.Kind != yaml.AliasNode {
		c.produced++
		if c.budget > 0 && c.produced > c.budget {
			return nil, &ExpansionError{Path: path, Max: c.budget, Line: n.Line}
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Null{}, nil
		}
		return c.node(n.Content[0], path, depth)
	case yaml.AliasNode:
		if n.Alias == nil {
			return value.Null{}, nil
		}
		return c.node(n.Alias, path, depth)
	case yaml.MappingNode, yaml.SequenceNode:
		if c.opt.MaxDepth > 0 && depth >= c.opt.MaxDepth {
			return nil, &DepthError{Path: path, Max: c.opt.MaxDepth, Line: n.Line}
		}
		if n.Kind == yaml.SequenceNode {
			return c.sequence(n, path, depth+1)
		}
		return c.mapping(n, path, depth+1)
	case yaml.ScalarNode:
		return scalar(n, path)
	}
	return value.Null{}, nil
}

func (c *converter) mapping(n *yaml.Node, path string, depth int) (value.Value, error) {
	members := make([]value.Member, 0, len(n.Content)/2)
	first := make(map[string][2]int, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		key := k.Value
		kpath := eng.JoinPointer(path, key)
		if pos, dup := first[key]; dup {
			derr := &DuplicateKeyError{Path: kpath, Key: key, FirstLine: pos[0], FirstCol: pos[1], Line: k.Line, Col: k.Column}
			if c.opt.OnDuplicate == nil {
				return nil, derr
			}
			if err := c.opt.OnDuplicate(derr); err != nil {
				return nil, err
			}
		} else {
			first[key] = [2]int{k.Line, k.Column}
		}
		v, err := c.node(n.Content[i+1], kpath, depth)
		if err != nil {
			return nil, err
		}
		members = append(members, value.Member{Key: key, Value: v})
	}
	return value.NewObject(members...), nil
}

func (c *converter) sequence(n *yaml.Node, path string, depth int) (value.Value, error) {
	arr := make(value.Array, 0, len(n.Content))
	for i, e := range n.Content {
		v, err := c.node(e, eng.JoinIndex(path, i), depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	return arr, nil
}

func scalar(n *yaml.Node, path string) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.String(n.Value), nil
		}
		return value.Boolean(b), nil
	case "!!int":
		// Use int64 to avoid overflow surprises; out-of-range integers fall
		// back to float like JSON numbers do.
		if i, err := strconv.ParseInt(n.Value, 0, 64); err == nil {
			return value.Integer(i), nil
		}
		if f, err := strconv.ParseFloat(n.Value, 64); err == nil && !math.IsInf(f, 0) {
			return value.Float(f), nil
		}
		return nil, &ScalarError{Path: path, Tag: "!!int", Value: n.Value, Line: n.Line}
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, &ScalarError{Path: path, Tag: "!!float", Value: n.Value, Line: n.Line}
		}
		return value.Float(f), nil
	default:
		return value.String(n.Value), nil
	}
}

// Node converts v into a YAML node tree. Floats keep a fraction or exponent
// so that they read back as floats.
func Node(v value.Value) (*yaml.Node, error) {
	switch x := v.(type) {
	case nil, value.Null:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case value.String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(x)}, nil
	case value.Boolean:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(bool(x))}, nil
	case value.Integer:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(int64(x), 10)}, nil
	case value.Float:
		s, err := value.FormatFloat(float64(x))
		if err != nil {
			return nil, err
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}, nil
	case value.Array:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		if len(x) == 0 {
			n.Style = yaml.FlowStyle
		}
		for _, e := range x {
			c, err := Node(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, c)
		}
		return n, nil
	case value.Object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		if x.Len() == 0 {
			n.Style = yaml.FlowStyle
		}
		var err error
		x.Range(func(k string, e value.Value) bool {
			var c *yaml.Node
			if c, err = Node(e); err != nil {
				return false
			}
			n.Content = append(n.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, c)
			return true
		})
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("yamlsrc: cannot encode %T", v)
}

// Marshal renders v as a YAML document. indent <= 0 uses two spaces.
func Marshal(v value.Value, indent int) ([]byte, error) {
	n, err := Node(v)
	if err != nil {
		return nil, err
	}
	if indent <= 0 {
		indent = 2
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
