package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/roach88/iogen/internal/ir"
)

// ParseYAML maps a YAML declaration document:
//
//	declarations:
//	  - name: Person
//	    export: true
//	    type:
//	      struct:
//	        name: string
//	        age?: number
func ParseYAML(filename string, src []byte) ([]ir.Declaration, []error) {
	var root yaml.Node
	if err := yaml.Unmarshal(src, &root); err != nil {
		return nil, []error{&LoadError{
			Code:    ErrCodeParseFailed,
			Message: fmt.Sprintf("parsing YAML: %v", err),
			Pos:     Position{Filename: filename},
		}}
	}

	tree, err := yamlTree(&root)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Pos: Position{Filename: filename}}}
	}

	raws, err := documentDeclarations(tree, yamlDeclarationPositions(&root, filename), filename)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeInvalidDecl, Message: err.Error(), Pos: yamlPosition(&root, filename)}}
	}
	return decodeDeclarations(raws)
}

// yamlTree converts a node graph into the ordered tree.
func yamlTree(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlTree(n.Content[0])
	case yaml.MappingNode:
		o := newObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := yamlTree(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			o.set(n.Content[i].Value, v)
		}
		return o, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := yamlTree(item)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return yamlTree(n.Alias)
	case yaml.ScalarNode:
		// A bare null names the null primitive when used as a type.
		if n.Tag == "!!null" && n.Value == "null" {
			return "null", nil
		}
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node", n.Line)
}

// yamlDeclarationPositions returns the position of each declarations item.
func yamlDeclarationPositions(root *yaml.Node, filename string) []Position {
	doc := root
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}
	if doc.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(doc.Content); i += 2 {
		if doc.Content[i].Value != "declarations" {
			continue
		}
		var positions []Position
		for _, item := range doc.Content[i+1].Content {
			positions = append(positions, yamlPosition(item, filename))
		}
		return positions
	}
	return nil
}

func yamlPosition(n *yaml.Node, filename string) Position {
	return Position{Filename: filename, Line: n.Line, Column: n.Column}
}
