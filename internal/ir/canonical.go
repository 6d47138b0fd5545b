package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 style canonical JSON for hashing.
// This is the ONLY serialization used for declaration fingerprints.
//
// Key differences from standard json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats: number literals are encoded by EncodeNode as strings
//
// Accepted values are string, bool, int, int64, []any and map[string]any.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		return marshalCanonicalString(buf, val)
	case bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case int:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case int64:
		fmt.Fprintf(buf, "%d", val)
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, compareKeysUTF16)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalCanonicalString(buf, k); err != nil {
				return err
			}
			buf.WriteByte(':')
			if err := marshalCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case float64, float32:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// marshalCanonicalString writes a JSON string with NFC normalization and
// without HTML escaping. U+2028 and U+2029 keep their \u escapes, which
// is stable across runs and sufficient for fingerprinting.
func marshalCanonicalString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(norm.NFC.String(s)); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte{'\n'}))
	return nil
}

// compareKeysUTF16 orders keys by UTF-16 code units as RFC 8785 requires.
// Go's native string comparison uses UTF-8 bytes, which differs for
// characters outside the BMP.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// EncodeNode converts n into plain maps and slices accepted by
// MarshalCanonical. Property and member order is preserved.
func EncodeNode(n Node) map[string]any {
	m := map[string]any{"kind": KindName(n)}
	switch n := n.(type) {
	case Primitive:
		m["name"] = n.Kind.String()
	case Identifier:
		m["name"] = n.Name
	case Literal:
		switch n.Kind {
		case LiteralString:
			m["string"] = n.StringValue
		case LiteralNumber:
			m["number"] = FormatNumber(n.NumberValue)
		case LiteralBoolean:
			m["boolean"] = n.BoolValue
		}
		putName(m, n.Name)
	case Struct:
		m["properties"] = encodeProperties(n.Properties)
		putName(m, n.Name)
	case Partial:
		m["properties"] = encodeProperties(n.Properties)
		putName(m, n.Name)
	case Strict:
		m["properties"] = encodeProperties(n.Properties)
		putName(m, n.Name)
	case Union:
		m["types"] = encodeNodes(n.Types)
		putName(m, n.Name)
	case Intersection:
		m["types"] = encodeNodes(n.Types)
		putName(m, n.Name)
	case TaggedUnion:
		m["tag"] = n.Tag
		m["types"] = encodeNodes(n.Types)
		putName(m, n.Name)
	case Array:
		m["type"] = EncodeNode(n.Type)
		putName(m, n.Name)
	case ReadonlyArray:
		m["type"] = EncodeNode(n.Type)
		putName(m, n.Name)
	case Tuple:
		m["types"] = encodeNodes(n.Types)
		putName(m, n.Name)
	case Dictionary:
		m["domain"] = EncodeNode(n.Domain)
		m["codomain"] = EncodeNode(n.Codomain)
		putName(m, n.Name)
	case Keyof:
		m["values"] = encodeStrings(n.Values)
		putName(m, n.Name)
	case Exact:
		m["type"] = EncodeNode(n.Type)
		putName(m, n.Name)
	case Readonly:
		m["type"] = EncodeNode(n.Type)
		putName(m, n.Name)
	case Brand:
		m["type"] = EncodeNode(n.Type)
		m["param"] = n.Param
		m["predicate"] = n.Predicate
		m["name"] = n.Name
	case Recursive:
		m["name"] = n.Name
		m["type"] = EncodeNode(n.Type)
		m["group"] = encodeStrings(n.Group)
	case Custom:
		m["static"] = n.Static
		m["runtime"] = n.Runtime
		m["dependencies"] = encodeStrings(n.Dependencies)
	}
	return m
}

// EncodeDeclaration converts d into plain maps accepted by MarshalCanonical.
func EncodeDeclaration(d Declaration) map[string]any {
	switch d := d.(type) {
	case TypeDeclaration:
		m := map[string]any{
			"kind":     "type",
			"name":     d.Name,
			"type":     EncodeNode(d.Type),
			"exported": d.Exported,
			"readonly": d.Readonly,
		}
		if d.Description != "" {
			m["description"] = d.Description
		}
		return m
	case CustomDeclaration:
		return map[string]any{
			"kind":         "custom",
			"name":         d.Name,
			"static":       d.Static,
			"runtime":      d.Runtime,
			"dependencies": encodeStrings(d.Dependencies),
		}
	default:
		panic(fmt.Sprintf("ir: unknown declaration type %T", d))
	}
}

func putName(m map[string]any, name string) {
	if name != "" {
		m["name"] = name
	}
}

func encodeNodes(nodes []Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = EncodeNode(n)
	}
	return out
}

func encodeProperties(props []Property) []any {
	out := make([]any, len(props))
	for i, p := range props {
		pm := map[string]any{
			"key":      p.Key,
			"type":     EncodeNode(p.Type),
			"optional": p.Optional,
		}
		if p.Description != "" {
			pm["description"] = p.Description
		}
		out[i] = pm
	}
	return out
}

func encodeStrings(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
