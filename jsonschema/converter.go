// Package jsonschema implements a purely textual JSON-Schema-to-DVL
// converter. It never builds a schema.Expr; it emits DVL source text that
// the caller feeds back through schema.Compile like any hand-written
// schema.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// node mirrors the subset of JSON Schema this converter understands.
// Keywords outside this set have no field here and are silently ignored
// by the decoder.
type node struct {
	Type                 json.RawMessage  `json:"type"`
	Properties           map[string]*node `json:"properties"`
	Required             []string         `json:"required"`
	Items                *node            `json:"items"`
	MinItems             *int             `json:"minItems"`
	MaxItems             *int             `json:"maxItems"`
	AdditionalProperties json.RawMessage  `json:"additionalProperties"`
	Description          string           `json:"description"`
}

// Convert reads JSON Schema text and emits the equivalent DVL source.
func Convert(jsonSchemaText []byte) (string, error) {
	var n node
	if err := json.Unmarshal(jsonSchemaText, &n); err != nil {
		return "", fmt.Errorf("invalid JSON Schema: %w", err)
	}
	return convertNode(&n), nil
}

func convertNode(n *node) string {
	types := typeList(n)

	if len(types) == 0 {
		if len(n.Properties) > 0 {
			return convertObject(n)
		}
		return "any"
	}

	if len(types) > 1 {
		parts := make([]string, len(types))
		for i, t := range types {
			parts[i] = convertPrimitiveType(t, n)
		}
		return strings.Join(parts, " | ")
	}

	return convertPrimitiveType(types[0], n)
}

func typeList(n *node) []string {
	if len(n.Type) == 0 {
		return nil
	}
	var single string
	if err := json.Unmarshal(n.Type, &single); err == nil {
		return []string{single}
	}
	var multi []string
	if err := json.Unmarshal(n.Type, &multi); err == nil {
		return multi
	}
	return nil
}

func convertPrimitiveType(t string, n *node) string {
	switch t {
	case "string", "number", "integer", "null":
		return t
	case "boolean":
		return "bool"
	case "array":
		return convertArray(n)
	case "object":
		return convertObject(n)
	default:
		return "any"
	}
}

func convertArray(n *node) string {
	elem := "any"
	if n.Items != nil {
		elem = convertNode(n.Items)
	}
	bound := lengthBound(n)
	return elem + "[" + bound + "]"
}

func lengthBound(n *node) string {
	if n.MinItems == nil && n.MaxItems == nil {
		return ""
	}
	lo, hi := "", ""
	if n.MinItems != nil {
		lo = fmt.Sprintf("%d", *n.MinItems)
	}
	if n.MaxItems != nil {
		hi = fmt.Sprintf("%d", *n.MaxItems)
	}
	return lo + "..=" + hi
}

func convertObject(n *node) string {
	if len(n.Properties) == 0 {
		return "{ .. }"
	}

	required := make(map[string]bool, len(n.Required))
	for _, r := range n.Required {
		required[r] = true
	}

	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("{\n")
	for _, name := range names {
		prop := n.Properties[name]
		if prop.Description != "" {
			b.WriteString("    /// ")
			b.WriteString(prop.Description)
			b.WriteString("\n")
		}
		b.WriteString("    ")
		b.WriteString(name)
		if !required[name] {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(convertNode(prop))
		b.WriteString(",\n")
	}
	if includesTrailingAnyKey(n) {
		b.WriteString("    ..\n")
	}
	b.WriteString("}")
	return b.String()
}

// includesTrailingAnyKey reports whether the object should emit the open
// `..` marker: additionalProperties=false suppresses it, anything else
// (true, a schema, or the keyword being absent) adds it.
func includesTrailingAnyKey(n *node) bool {
	if len(n.AdditionalProperties) == 0 {
		return true
	}
	var b bool
	if err := json.Unmarshal(n.AdditionalProperties, &b); err == nil {
		return b
	}
	return true
}
