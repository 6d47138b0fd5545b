package loader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// object is an ordered mapping. Format adapters decode into a tree of
// *object, []any, string, bool, numbers and nil, keeping key order so that
// property order survives.
type object struct {
	keys   []string
	values map[string]any
}

func newObject() *object {
	return &object{values: make(map[string]any)}
}

func (o *object) set(key string, v any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *object) get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *object) has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// rawDeclaration is one declaration body found by a format adapter.
type rawDeclaration struct {
	name string
	body *object
	pos  Position
}

// typeError is a mapping failure at a path inside one declaration.
type typeError struct {
	path    string
	message string
}

func (e *typeError) Error() string {
	return e.path + ": " + e.message
}

func typeErrorf(path, format string, args ...any) error {
	return &typeError{path: path, message: fmt.Sprintf(format, args...)}
}

// decodeDeclarations maps raw declarations, collecting every error.
func decodeDeclarations(raws []rawDeclaration) ([]ir.Declaration, []error) {
	var decls []ir.Declaration
	var errs []error
	for i, raw := range raws {
		d, err := decodeDeclaration(raw)
		if err != nil {
			code := ErrCodeInvalidDecl
			var te *typeError
			if errors.As(err, &te) {
				code = ErrCodeInvalidType
			}
			label := fmt.Sprintf("declaration %q", raw.name)
			if raw.name == "" {
				label = fmt.Sprintf("declaration %d", i)
			}
			errs = append(errs, &LoadError{
				Code:    code,
				Message: fmt.Sprintf("%s: %v", label, err),
				Pos:     raw.pos,
			})
			continue
		}
		decls = append(decls, d)
	}
	return decls, errs
}

// decodeDeclaration maps one body:
//
//	type: <type>            # or custom: {static, runtime, dependencies}
//	export: true
//	readonly: false
//	description: text
func decodeDeclaration(raw rawDeclaration) (ir.Declaration, error) {
	if raw.name == "" {
		return nil, fmt.Errorf("missing name")
	}
	if raw.body == nil {
		return nil, fmt.Errorf("declaration body must be an object")
	}

	for _, key := range raw.body.keys {
		switch key {
		case "name", "type", "custom", "export", "readonly", "description":
		default:
			return nil, fmt.Errorf("unknown field %q", key)
		}
	}

	if v, ok := raw.body.get("custom"); ok {
		if raw.body.has("type") {
			return nil, fmt.Errorf("custom and type are mutually exclusive")
		}
		c, err := decodeCustom(v, "custom")
		if err != nil {
			return nil, err
		}
		return ir.CustomDeclaration{
			Name:         raw.name,
			Static:       c.Static,
			Runtime:      c.Runtime,
			Dependencies: c.Dependencies,
		}, nil
	}

	v, ok := raw.body.get("type")
	if !ok {
		return nil, fmt.Errorf("missing type")
	}
	t, err := decodeType(v, "type")
	if err != nil {
		return nil, err
	}

	d := ir.TypeDeclaration{Name: raw.name, Type: t}
	if d.Exported, err = optionalBool(raw.body, "export"); err != nil {
		return nil, err
	}
	if d.Readonly, err = optionalBool(raw.body, "readonly"); err != nil {
		return nil, err
	}
	if d.Description, err = optionalString(raw.body, "description"); err != nil {
		return nil, err
	}
	return d, nil
}

// combinators are the keys that select a node variant in object form.
var combinators = []string{
	"literal", "struct", "partial", "strict",
	"union", "intersection", "taggedUnion",
	"array", "readonlyArray", "tuple", "record", "keyof",
	"exact", "readonly", "brand", "custom",
}

func isCombinator(key string) bool {
	for _, c := range combinators {
		if c == key {
			return true
		}
	}
	return false
}

// decodeType maps a type expression. A string names a primitive or a
// declaration; an object has exactly one combinator key plus an optional
// "name" (and "tag" for taggedUnion).
func decodeType(v any, path string) (ir.Node, error) {
	switch v := v.(type) {
	case string:
		if v == "" {
			return nil, typeErrorf(path, "empty type name")
		}
		if kind, ok := ir.PrimitiveKindByName(v); ok {
			return ir.Primitive{Kind: kind}, nil
		}
		return ir.Ident(v), nil
	case *object:
		return decodeCombinator(v, path)
	case nil:
		return nil, typeErrorf(path, "missing type")
	default:
		return nil, typeErrorf(path, "expected a type name or object, got %T", v)
	}
}

func decodeCombinator(o *object, path string) (ir.Node, error) {
	var kind string
	for _, key := range o.keys {
		switch {
		case isCombinator(key):
			if kind != "" {
				return nil, typeErrorf(path, "both %q and %q given", kind, key)
			}
			kind = key
		case key == "name":
		case key == "tag" && o.has("taggedUnion"):
		default:
			return nil, typeErrorf(path, "unknown field %q", key)
		}
	}
	if kind == "" {
		return nil, typeErrorf(path, "expected one of %s", strings.Join(combinators, ", "))
	}

	name, err := optionalString(o, "name")
	if err != nil {
		return nil, typeErrorf(path, "%v", err)
	}
	v, _ := o.get(kind)
	at := path + "." + kind

	switch kind {
	case "literal":
		l, err := decodeLiteral(v, at)
		if err != nil {
			return nil, err
		}
		return l.Named(name), nil
	case "struct":
		props, err := decodeProperties(v, at)
		return ir.Struct{Properties: props, Name: name}, err
	case "partial":
		props, err := decodeProperties(v, at)
		return ir.Partial{Properties: props, Name: name}, err
	case "strict":
		props, err := decodeProperties(v, at)
		return ir.Strict{Properties: props, Name: name}, err
	case "union":
		types, err := decodeTypes(v, at)
		return ir.Union{Types: types, Name: name}, err
	case "intersection":
		types, err := decodeTypes(v, at)
		return ir.Intersection{Types: types, Name: name}, err
	case "taggedUnion":
		tag, err := optionalString(o, "tag")
		if err != nil {
			return nil, typeErrorf(path, "%v", err)
		}
		types, err := decodeTypes(v, at)
		return ir.TaggedUnion{Tag: tag, Types: types, Name: name}, err
	case "tuple":
		types, err := decodeTypes(v, at)
		return ir.Tuple{Types: types, Name: name}, err
	case "array":
		t, err := decodeType(v, at)
		return ir.Array{Type: t, Name: name}, err
	case "readonlyArray":
		t, err := decodeType(v, at)
		return ir.ReadonlyArray{Type: t, Name: name}, err
	case "exact":
		t, err := decodeType(v, at)
		return ir.Exact{Type: t, Name: name}, err
	case "readonly":
		t, err := decodeType(v, at)
		return ir.Readonly{Type: t, Name: name}, err
	case "record":
		return decodeRecord(v, at, name)
	case "keyof":
		values, err := stringList(v, at)
		return ir.Keyof{Values: values, Name: name}, err
	case "brand":
		return decodeBrand(v, at)
	default: // custom
		return decodeCustom(v, at)
	}
}

func decodeLiteral(v any, path string) (ir.Literal, error) {
	switch v := v.(type) {
	case string:
		return ir.StringLiteral(v), nil
	case bool:
		return ir.BooleanLiteral(v), nil
	case int:
		return ir.NumberLiteral(float64(v)), nil
	case int64:
		return ir.NumberLiteral(float64(v)), nil
	case uint64:
		return ir.NumberLiteral(float64(v)), nil
	case float64:
		return ir.NumberLiteral(v), nil
	}
	return ir.Literal{}, typeErrorf(path, "literal must be a string, number or boolean, got %T", v)
}

// decodeProperties maps an ordered object of key: <type|property>. A key
// ending in "?" is optional. A property object carries "type" with
// optional "optional" and "description" fields.
func decodeProperties(v any, path string) ([]ir.Property, error) {
	if v == nil {
		return nil, nil
	}
	o, ok := v.(*object)
	if !ok {
		return nil, typeErrorf(path, "properties must be an object, got %T", v)
	}

	props := make([]ir.Property, 0, len(o.keys))
	for _, key := range o.keys {
		at := path + "." + key
		prop := ir.Property{Key: key}
		if strings.HasSuffix(key, "?") {
			prop.Key = strings.TrimSuffix(key, "?")
			prop.Optional = true
		}

		raw := o.values[key]
		if spec, ok := raw.(*object); ok && spec.has("type") && !hasCombinator(spec) {
			if err := decodePropertySpec(spec, at, &prop); err != nil {
				return nil, err
			}
		} else {
			t, err := decodeType(raw, at)
			if err != nil {
				return nil, err
			}
			prop.Type = t
		}
		props = append(props, prop)
	}
	return props, nil
}

func hasCombinator(o *object) bool {
	for _, key := range o.keys {
		if isCombinator(key) {
			return true
		}
	}
	return false
}

func decodePropertySpec(spec *object, path string, prop *ir.Property) error {
	for _, key := range spec.keys {
		switch key {
		case "type", "optional", "description":
		default:
			return typeErrorf(path, "unknown property field %q", key)
		}
	}

	t, err := decodeType(spec.values["type"], path+".type")
	if err != nil {
		return err
	}
	prop.Type = t

	optional, err := optionalBool(spec, "optional")
	if err != nil {
		return typeErrorf(path, "%v", err)
	}
	prop.Optional = prop.Optional || optional

	if prop.Description, err = optionalString(spec, "description"); err != nil {
		return typeErrorf(path, "%v", err)
	}
	return nil
}

func decodeTypes(v any, path string) ([]ir.Node, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, typeErrorf(path, "expected a list of types, got %T", v)
	}
	types := make([]ir.Node, len(list))
	for i, item := range list {
		t, err := decodeType(item, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func decodeRecord(v any, path, name string) (ir.Node, error) {
	o, ok := v.(*object)
	if !ok {
		return nil, typeErrorf(path, "record must be an object with domain and codomain")
	}
	domain, err := decodeType(o.values["domain"], path+".domain")
	if err != nil {
		return nil, err
	}
	codomain, err := decodeType(o.values["codomain"], path+".codomain")
	if err != nil {
		return nil, err
	}
	return ir.Dictionary{Domain: domain, Codomain: codomain, Name: name}, nil
}

func decodeBrand(v any, path string) (ir.Node, error) {
	o, ok := v.(*object)
	if !ok {
		return nil, typeErrorf(path, "brand must be an object with type, predicate and name")
	}
	t, err := decodeType(o.values["type"], path+".type")
	if err != nil {
		return nil, err
	}
	b := ir.Brand{Type: t, Param: ir.DefaultBrandParam}
	if b.Predicate, err = requiredString(o, "predicate"); err != nil {
		return nil, typeErrorf(path, "%v", err)
	}
	if b.Name, err = requiredString(o, "name"); err != nil {
		return nil, typeErrorf(path, "%v", err)
	}
	if param, err := optionalString(o, "param"); err != nil {
		return nil, typeErrorf(path, "%v", err)
	} else if param != "" {
		b.Param = param
	}
	return b, nil
}

func decodeCustom(v any, path string) (ir.Custom, error) {
	o, ok := v.(*object)
	if !ok {
		return ir.Custom{}, typeErrorf(path, "custom must be an object with static and runtime text")
	}
	var c ir.Custom
	var err error
	if c.Static, err = requiredString(o, "static"); err != nil {
		return c, typeErrorf(path, "%v", err)
	}
	if c.Runtime, err = requiredString(o, "runtime"); err != nil {
		return c, typeErrorf(path, "%v", err)
	}
	if deps, ok := o.get("dependencies"); ok {
		if c.Dependencies, err = stringList(deps, path+".dependencies"); err != nil {
			return c, err
		}
	}
	return c, nil
}

func stringList(v any, path string) ([]string, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, typeErrorf(path, "expected a list of strings, got %T", v)
	}
	out := make([]string, len(list))
	for i, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, typeErrorf(fmt.Sprintf("%s[%d]", path, i), "expected a string, got %T", item)
		}
		out[i] = s
	}
	return out, nil
}

func optionalBool(o *object, key string) (bool, error) {
	v, ok := o.get(key)
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %T", key, v)
	}
	return b, nil
}

func optionalString(o *object, key string) (string, error) {
	v, ok := o.get(key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %T", key, v)
	}
	return s, nil
}

func requiredString(o *object, key string) (string, error) {
	s, err := optionalString(o, key)
	if err != nil {
		return "", err
	}
	if s == "" {
		return "", fmt.Errorf("%s is required", key)
	}
	return s, nil
}

// documentDeclarations extracts declarations from the list layout shared
// by YAML and JSON documents:
//
//	declarations:
//	  - name: Person
//	    type: ...
func documentDeclarations(root any, positions []Position, filename string) ([]rawDeclaration, error) {
	doc, ok := root.(*object)
	if !ok {
		return nil, fmt.Errorf("document must be an object with a declarations list")
	}
	v, ok := doc.get("declarations")
	if !ok {
		return nil, fmt.Errorf("missing declarations list")
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("declarations must be a list, got %T", v)
	}

	raws := make([]rawDeclaration, len(list))
	for i, item := range list {
		raw := rawDeclaration{pos: Position{Filename: filename}}
		if i < len(positions) {
			raw.pos = positions[i]
		}
		if body, ok := item.(*object); ok {
			raw.body = body
			raw.name, _ = optionalString(body, "name")
		}
		raws[i] = raw
	}
	return raws, nil
}
