package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/roach88/iogen/internal/ir"
)

// ParseJSON maps a JSON file. A document with a "definitions" or "$defs"
// object is read as a JSON Schema; anything else uses the declarations
// list layout shared with YAML.
func ParseJSON(filename string, src []byte) ([]ir.Declaration, []error) {
	r := newJSONReader(src)
	tree, err := r.read()
	if err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeParseFailed,
			Message: fmt.Sprintf("parsing JSON: %v", err),
			Pos:     r.position(filename, r.dec.InputOffset()),
		}}
	}

	if doc, ok := tree.(*object); ok && (doc.has("definitions") || doc.has("$defs")) {
		return parseSchema(doc, filename, r)
	}

	var positions []Position
	if doc, ok := tree.(*object); ok {
		if list, ok := doc.values["declarations"].([]any); ok {
			for _, item := range list {
				positions = append(positions, r.objectPosition(item, filename))
			}
		}
	}

	raws, err := documentDeclarations(tree, positions, filename)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeInvalidDecl, Message: err.Error(), Pos: Position{Filename: filename, Line: 1, Column: 1}}}
	}
	return decodeDeclarations(raws)
}

// jsonReader builds the ordered tree from the token stream and remembers
// where each object starts.
type jsonReader struct {
	src     []byte
	dec     *json.Decoder
	offsets map[*object]int64
}

func newJSONReader(src []byte) *jsonReader {
	dec := json.NewDecoder(bytes.NewReader(src))
	dec.UseNumber()
	return &jsonReader{src: src, dec: dec, offsets: make(map[*object]int64)}
}

func (r *jsonReader) read() (any, error) {
	v, err := r.value()
	if err != nil {
		return nil, err
	}
	if _, err := r.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unexpected data after top-level value")
	}
	return v, nil
}

func (r *jsonReader) value() (any, error) {
	tok, err := r.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			o := newObject()
			r.offsets[o] = r.dec.InputOffset() - 1
			for r.dec.More() {
				keyTok, err := r.dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("expected object key, got %v", keyTok)
				}
				child, err := r.value()
				if err != nil {
					return nil, err
				}
				o.set(key, child)
			}
			if _, err := r.dec.Token(); err != nil {
				return nil, err
			}
			return o, nil
		case '[':
			list := []any{}
			for r.dec.More() {
				child, err := r.value()
				if err != nil {
					return nil, err
				}
				list = append(list, child)
			}
			if _, err := r.dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, nil
		}
		return v.Float64()
	case string, bool:
		return v, nil
	case nil:
		// JSON null used as a type names the null primitive.
		return "null", nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// objectPosition returns where v starts when it is an object read by r.
func (r *jsonReader) objectPosition(v any, filename string) Position {
	o, ok := v.(*object)
	if !ok {
		return Position{Filename: filename}
	}
	offset, ok := r.offsets[o]
	if !ok {
		return Position{Filename: filename}
	}
	return r.position(filename, offset)
}

// position converts a byte offset into a line and column.
func (r *jsonReader) position(filename string, offset int64) Position {
	if offset < 0 || offset > int64(len(r.src)) {
		return Position{Filename: filename}
	}
	before := r.src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	column := int(offset) - bytes.LastIndexByte(before, '\n')
	return Position{Filename: filename, Line: line, Column: column}
}
