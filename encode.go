package objschema

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// EncodeJSON renders a schema tree as compact JSON. Object members keep their
// order; plain maps are written with sorted keys.
func EncodeJSON(v any) ([]byte, error) {
	return json.Marshal(v)
}

// EncodeJSONIndent is EncodeJSON with indentation.
func EncodeJSONIndent(v any, prefix, indent string) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, b, prefix, indent); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML renders a schema tree as a YAML document. Object members keep
// their order.
func EncodeYAML(v any) ([]byte, error) {
	n, err := toYAMLNode(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toYAMLNode(v any) (*yaml.Node, error) {
	switch t := v.(type) {
	case *Object:
		if t == nil {
			return nullNode(), nil
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range t.keys {
			vn, err := toYAMLNode(t.vals[k])
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, stringNode(k), vn)
		}
		return n, nil
	case map[string]any:
		return toYAMLNode(objectFromMap(t))
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range t {
			en, err := toYAMLNode(e)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, en)
		}
		return n, nil
	case string:
		return stringNode(t), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(t), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(t)}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}, nil
	case nil:
		return nullNode(), nil
	}
	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

// stringNode quotes strings that YAML 1.1 readers would take for booleans.
func stringNode(s string) *yaml.Node {
	n := &yaml.Node{}
	n.SetString(s)
	if n.Style == 0 {
		switch s {
		case "y", "Y", "yes", "Yes", "YES", "on", "On", "ON",
			"n", "N", "no", "No", "NO", "off", "Off", "OFF":
			n.Style = yaml.DoubleQuotedStyle
		}
	}
	return n
}

func nullNode() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}
