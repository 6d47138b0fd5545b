package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// schemaUnsupported marks a JSON Schema construct with no IR equivalent.
type schemaUnsupported struct {
	path    string
	keyword string
}

func (e *schemaUnsupported) Error() string {
	return fmt.Sprintf("%s: %q is not supported", e.path, e.keyword)
}

// unsupportedKeywords have no IR equivalent and fail the definition.
var unsupportedKeywords = []string{
	"patternProperties", "not", "if", "then", "else",
	"dependencies", "dependentSchemas", "dependentRequired",
	"propertyNames", "unevaluatedProperties", "unevaluatedItems",
	"contains", "prefixItems",
}

// parseSchema maps every entry of "definitions" (or "$defs") onto an
// exported declaration, in document order.
func parseSchema(doc *object, filename string, r *jsonReader) ([]ir.Declaration, []error) {
	key := "definitions"
	if !doc.has(key) {
		key = "$defs"
	}
	defs, ok := doc.values[key].(*object)
	if !ok {
		return nil, []error{&LoadError{
			Code:    ErrCodeInvalidDecl,
			Message: fmt.Sprintf("%s must be an object", key),
			Pos:     r.objectPosition(doc, filename),
		}}
	}

	var decls []ir.Declaration
	var errs []error
	for _, name := range defs.keys {
		raw := defs.values[name]
		pos := r.objectPosition(raw, filename)
		path := "#/" + key + "/" + name

		t, err := schemaType(raw, path)
		if err != nil {
			code := ErrCodeInvalidType
			var unsupported *schemaUnsupported
			if errors.As(err, &unsupported) {
				code = ErrCodeUnsupportedSchema
			}
			errs = append(errs, &LoadError{
				Code:    code,
				Message: fmt.Sprintf("definition %q: %v", name, err),
				Pos:     pos,
			})
			continue
		}

		d := ir.TypeDeclaration{Name: name, Type: t, Exported: true}
		if s, ok := raw.(*object); ok {
			d.Description, _ = optionalString(s, "description")
		}
		decls = append(decls, d)
	}
	return decls, errs
}

// schemaType maps one schema onto a node.
func schemaType(v any, path string) (ir.Node, error) {
	switch v := v.(type) {
	case bool:
		if !v {
			return nil, &schemaUnsupported{path: path, keyword: "false"}
		}
		return ir.UnknownType, nil
	case *object:
		return schemaObject(v, path)
	}
	return nil, typeErrorf(path, "schema must be an object or boolean, got %T", v)
}

func schemaObject(s *object, path string) (ir.Node, error) {
	for _, kw := range unsupportedKeywords {
		if s.has(kw) {
			return nil, &schemaUnsupported{path: path, keyword: kw}
		}
	}

	if v, ok := s.get("$ref"); ok {
		ref, ok := v.(string)
		if !ok {
			return nil, typeErrorf(path, "$ref must be a string")
		}
		for _, prefix := range []string{"#/definitions/", "#/$defs/"} {
			if name, found := strings.CutPrefix(ref, prefix); found && name != "" {
				return ir.Ident(name), nil
			}
		}
		return nil, &schemaUnsupported{path: path, keyword: "$ref " + ref}
	}

	if v, ok := s.get("const"); ok {
		l, err := decodeLiteral(v, path+"/const")
		if err != nil {
			return nil, err
		}
		return l, nil
	}

	if v, ok := s.get("enum"); ok {
		return schemaEnum(v, path+"/enum")
	}

	if v, ok := s.get("oneOf"); ok {
		return schemaMembers(v, path+"/oneOf", func(types []ir.Node) ir.Node { return ir.Union{Types: types} })
	}
	if v, ok := s.get("anyOf"); ok {
		return schemaMembers(v, path+"/anyOf", func(types []ir.Node) ir.Node { return ir.Union{Types: types} })
	}
	if v, ok := s.get("allOf"); ok {
		return schemaMembers(v, path+"/allOf", func(types []ir.Node) ir.Node { return ir.Intersection{Types: types} })
	}

	switch t := s.values["type"].(type) {
	case nil:
		if s.has("properties") || s.has("additionalProperties") {
			return schemaStruct(s, path)
		}
		if s.has("items") {
			return schemaArray(s, path)
		}
		return ir.UnknownType, nil
	case string:
		return schemaTyped(s, t, path)
	case []any:
		types := make([]ir.Node, 0, len(t))
		for i, item := range t {
			name, ok := item.(string)
			if !ok {
				return nil, typeErrorf(fmt.Sprintf("%s/type/%d", path, i), "type must be a string")
			}
			n, err := schemaTyped(s, name, path)
			if err != nil {
				return nil, err
			}
			types = append(types, n)
		}
		if len(types) == 1 {
			return types[0], nil
		}
		return ir.Union{Types: types}, nil
	default:
		return nil, typeErrorf(path+"/type", "type must be a string or list, got %T", t)
	}
}

func schemaTyped(s *object, name, path string) (ir.Node, error) {
	switch name {
	case "string":
		return ir.StringType, nil
	case "number":
		return ir.NumberType, nil
	case "integer":
		return ir.IntType, nil
	case "boolean":
		return ir.BooleanType, nil
	case "null":
		return ir.NullType, nil
	case "object":
		return schemaStruct(s, path)
	case "array":
		return schemaArray(s, path)
	}
	return nil, typeErrorf(path+"/type", "unknown type %q", name)
}

// schemaEnum maps an all-string enum onto keyof (or a single literal) and
// any other enum onto a union of literals.
func schemaEnum(v any, path string) (ir.Node, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, typeErrorf(path, "enum must be a non-empty list")
	}

	allStrings := true
	values := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			allStrings = false
			break
		}
		values = append(values, s)
	}
	if allStrings && len(values) == 1 {
		return ir.StringLiteral(values[0]), nil
	}
	if allStrings {
		return ir.Keyof{Values: values}, nil
	}

	types := make([]ir.Node, len(list))
	for i, item := range list {
		if item == "null" {
			types[i] = ir.NullType
			continue
		}
		l, err := decodeLiteral(item, fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		types[i] = l
	}
	if len(types) == 1 {
		return types[0], nil
	}
	return ir.Union{Types: types}, nil
}

func schemaMembers(v any, path string, combine func([]ir.Node) ir.Node) (ir.Node, error) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, typeErrorf(path, "expected a non-empty list of schemas")
	}
	types := make([]ir.Node, len(list))
	for i, item := range list {
		t, err := schemaType(item, fmt.Sprintf("%s/%d", path, i))
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	if len(types) == 1 {
		return types[0], nil
	}
	return combine(types), nil
}

// schemaStruct maps an object schema. Properties keep document order and
// are optional unless listed in "required". additionalProperties false
// gives a strict struct; a schema value gives a string-keyed dictionary.
func schemaStruct(s *object, path string) (ir.Node, error) {
	required := map[string]bool{}
	if v, ok := s.get("required"); ok {
		names, err := stringList(v, path+"/required")
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			required[n] = true
		}
	}

	var props []ir.Property
	if v, ok := s.get("properties"); ok {
		po, ok := v.(*object)
		if !ok {
			return nil, typeErrorf(path+"/properties", "properties must be an object")
		}
		for _, key := range po.keys {
			at := path + "/properties/" + key
			t, err := schemaType(po.values[key], at)
			if err != nil {
				return nil, err
			}
			prop := ir.Property{Key: key, Type: t, Optional: !required[key]}
			if ps, ok := po.values[key].(*object); ok {
				prop.Description, _ = optionalString(ps, "description")
			}
			props = append(props, prop)
		}
	}

	var additional ir.Node
	strict := false
	if v, ok := s.get("additionalProperties"); ok {
		switch v := v.(type) {
		case bool:
			strict = !v
		default:
			t, err := schemaType(v, path+"/additionalProperties")
			if err != nil {
				return nil, err
			}
			additional = t
		}
	}

	if props == nil {
		if additional != nil {
			return ir.Dictionary{Domain: ir.StringType, Codomain: additional}, nil
		}
		if strict {
			return ir.Strict{}, nil
		}
		return ir.UnknownRecordType, nil
	}

	if strict {
		return ir.Strict{Properties: props}, nil
	}
	st := ir.Struct{Properties: props}
	if additional != nil {
		return ir.Intersection{Types: []ir.Node{
			st,
			ir.Dictionary{Domain: ir.StringType, Codomain: additional},
		}}, nil
	}
	return st, nil
}

func schemaArray(s *object, path string) (ir.Node, error) {
	v, ok := s.get("items")
	if !ok {
		return ir.UnknownArrayType, nil
	}
	if list, ok := v.([]any); ok {
		types := make([]ir.Node, len(list))
		for i, item := range list {
			t, err := schemaType(item, fmt.Sprintf("%s/items/%d", path, i))
			if err != nil {
				return nil, err
			}
			types[i] = t
		}
		return ir.Tuple{Types: types}, nil
	}
	t, err := schemaType(v, path+"/items")
	if err != nil {
		return nil, err
	}
	return ir.Array{Type: t}, nil
}
