package skema

import (
	"bytes"

	"gopkg.in/yaml.v3"

	"github.com/reoring/skema/source/yamlsrc"
)

// JSON wraps a Schema so that it can be embedded in structs handled by JSON
// and YAML marshalers. A nil Schema is written as null.
//
//	type Tool struct {
//		Name   string      `json:"name"`
//		Params skema.JSON `json:"params"`
//	}
type JSON struct {
	Schema Schema
}

var jsonNull = []byte("null")

// MarshalJSON implements json.Marshaler.
func (j JSON) MarshalJSON() ([]byte, error) {
	if j.Schema == nil {
		return jsonNull, nil
	}
	return Encode(j.Schema)
}

// UnmarshalJSON implements json.Unmarshaler using Decode.
func (j *JSON) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		j.Schema = nil
		return nil
	}
	s, err := Decode(data)
	if err != nil {
		return err
	}
	j.Schema = s
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (j JSON) MarshalYAML() (any, error) {
	if j.Schema == nil {
		return nil, nil
	}
	v, err := ToValue(j.Schema)
	if err != nil {
		return nil, err
	}
	return yamlsrc.Node(v)
}

// UnmarshalYAML implements yaml.Unmarshaler. Duplicate keys are rejected.
func (j *JSON) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null" {
		j.Schema = nil
		return nil
	}
	v, err := yamlsrc.FromNode(n, yamlsrc.Options{MaxDepth: DefaultMaxDepth})
	if err != nil {
		return toIssues(err, -1)
	}
	s, err := DecodeValue(v)
	if err != nil {
		return err
	}
	j.Schema = s
	return nil
}
