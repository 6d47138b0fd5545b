package loader

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/iogen/internal/ir"
)

// ParseCUE maps a CUE file. Declarations are the fields of the top-level
// "declaration" struct, in source order:
//
//	declaration: Person: {
//		export: true
//		type: struct: {
//			name: string
//			age?: "number"
//		}
//	}
//
// Bare CUE types (string, number, int, bool) stand for the matching
// primitives. Optional CUE fields become optional properties.
func ParseCUE(filename string, src []byte) ([]ir.Declaration, []error) {
	ctx := cuecontext.New()
	value := ctx.CompileBytes(src, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, cueLoadErrors(ErrCodeParseFailed, err, filename)
	}

	declsVal := value.LookupPath(cue.ParsePath("declaration"))
	if !declsVal.Exists() {
		return nil, []error{&LoadError{
			Code:    ErrCodeInvalidDecl,
			Message: "no declaration struct found",
			Pos:     Position{Filename: filename},
		}}
	}

	iter, err := declsVal.Fields()
	if err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeInvalidDecl,
			Message: fmt.Sprintf("iterating declarations: %v", err),
			Pos:     cuePosition(declsVal.Pos(), filename),
		}}
	}

	var raws []rawDeclaration
	var errs []error
	for iter.Next() {
		v := iter.Value()
		raw := rawDeclaration{name: iter.Label(), pos: cuePosition(v.Pos(), filename)}

		tree, err := cueTree(v)
		if err != nil {
			errs = append(errs, cueLoadErrors(ErrCodeInvalidDecl, err, filename)...)
			continue
		}
		body, ok := tree.(*object)
		if !ok {
			errs = append(errs, &LoadError{
				Code:    ErrCodeInvalidDecl,
				Message: fmt.Sprintf("declaration %q must be a struct", raw.name),
				Pos:     raw.pos,
			})
			continue
		}
		raw.body = body
		raws = append(raws, raw)
	}

	decls, decodeErrs := decodeDeclarations(raws)
	return decls, append(errs, decodeErrs...)
}

// cueTree converts a CUE value into the ordered tree.
func cueTree(v cue.Value) (any, error) {
	if err := v.Err(); err != nil {
		return nil, err
	}

	if !v.IsConcrete() {
		switch v.IncompleteKind() {
		case cue.StringKind:
			return "string", nil
		case cue.NumberKind, cue.FloatKind:
			return "number", nil
		case cue.IntKind:
			return "int", nil
		case cue.BoolKind:
			return "boolean", nil
		case cue.StructKind, cue.ListKind:
			// Open structs and lists still iterate their regular members.
		default:
			return nil, fmt.Errorf("%s: value must be concrete", v.Pos())
		}
	}

	switch v.IncompleteKind() {
	case cue.StructKind:
		iter, err := v.Fields(cue.Optional(true))
		if err != nil {
			return nil, err
		}
		o := newObject()
		for iter.Next() {
			child, err := cueTree(iter.Value())
			if err != nil {
				return nil, err
			}
			label := iter.Label()
			if iter.IsOptional() {
				label += "?"
			}
			o.set(label, child)
		}
		return o, nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, err
		}
		var list []any
		for iter.Next() {
			child, err := cueTree(iter.Value())
			if err != nil {
				return nil, err
			}
			list = append(list, child)
		}
		if list == nil {
			list = []any{}
		}
		return list, nil
	case cue.StringKind:
		return v.String()
	case cue.BoolKind:
		return v.Bool()
	case cue.IntKind:
		return v.Int64()
	case cue.NumberKind, cue.FloatKind:
		return v.Float64()
	case cue.NullKind:
		return "null", nil
	}
	return nil, fmt.Errorf("%s: unsupported CUE value of kind %s", v.Pos(), v.IncompleteKind())
}

// cueLoadErrors splits a CUE error into positioned load errors.
func cueLoadErrors(code string, err error, filename string) []error {
	var errs []error
	for _, e := range cueerrors.Errors(err) {
		pos := Position{Filename: filename}
		if p := e.Position(); p.IsValid() {
			pos = cuePosition(p, filename)
		}
		format, args := e.Msg()
		errs = append(errs, &LoadError{Code: code, Message: fmt.Sprintf(format, args...), Pos: pos})
	}
	if len(errs) == 0 {
		errs = append(errs, &LoadError{Code: code, Message: err.Error(), Pos: Position{Filename: filename}})
	}
	return errs
}

func cuePosition(p token.Pos, filename string) Position {
	if !p.IsValid() {
		return Position{Filename: filename}
	}
	name := p.Filename()
	if name == "" {
		name = filename
	}
	return Position{Filename: name, Line: p.Line(), Column: p.Column()}
}
