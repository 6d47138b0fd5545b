package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/roach88/iogen/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// General validation errors (E100)
	ErrMissingType = "E100" // declaration or node has no type

	// Declaration errors (E101-E109)
	ErrInvalidDeclarationName = "E101" // name is not a valid identifier
	ErrDuplicateName          = "E102" // duplicate declaration name
	ErrCustomMissingText      = "E103" // custom declaration without static or runtime text
	ErrRecursiveNotAllowed    = "E104" // recursive node supplied by the caller

	// Node errors (E110-E129)
	ErrEmptyPropertyKey     = "E110" // property key is empty
	ErrDuplicatePropertyKey = "E111" // property key repeated in one struct
	ErrTooFewMembers        = "E112" // union/intersection/tagged union needs two members
	ErrEmptyTag             = "E113" // tagged union without discriminant
	ErrEmptyKeyof           = "E114" // keyof without values
	ErrDuplicateKeyofValue  = "E115" // keyof value repeated
	ErrInvalidBrand         = "E116" // brand without valid name or predicate
	ErrEmptyTuple           = "E117" // tuple without members
	ErrInvalidDomain        = "E118" // dictionary domain is not string-like
)

// ValidationError represents a declaration lint error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// identifierPattern matches names that can be declared as-is.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate lints a declaration batch.
// Returns all errors found (does not fail-fast).
func Validate(decls []ir.Declaration) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int)

	for i, d := range decls {
		name := d.DeclarationName()
		field := fmt.Sprintf("declarations[%d]", i)

		// E101: declaration name must be an identifier
		if !identifierPattern.MatchString(name) {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("invalid declaration name %q", name),
				Code:    ErrInvalidDeclarationName,
			})
		}

		// E102: duplicate declaration name
		if first, ok := seen[name]; ok {
			errs = append(errs, ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("duplicate declaration name %q (first at declarations[%d])", name, first),
				Code:    ErrDuplicateName,
			})
		} else {
			seen[name] = i
		}

		switch d := d.(type) {
		case ir.TypeDeclaration:
			if d.Type == nil {
				errs = append(errs, ValidationError{
					Field:   field + ".type",
					Message: fmt.Sprintf("declaration %q has no type", name),
					Code:    ErrMissingType,
				})
				continue
			}
			errs = append(errs, validateNode(d.Type, field+".type")...)
		case ir.CustomDeclaration:
			// E103: custom text is printed verbatim and must be present
			if strings.TrimSpace(d.Static) == "" || strings.TrimSpace(d.Runtime) == "" {
				errs = append(errs, ValidationError{
					Field:   field,
					Message: fmt.Sprintf("custom declaration %q requires both static and runtime text", name),
					Code:    ErrCustomMissingText,
				})
			}
		}
	}

	return errs
}

// validateNode checks one node and its children.
func validateNode(n ir.Node, path string) []ValidationError {
	var errs []ValidationError

	switch n := n.(type) {
	case nil:
		errs = append(errs, ValidationError{Field: path, Message: "missing type", Code: ErrMissingType})
	case ir.Struct:
		errs = append(errs, validateProperties(n.Properties, path)...)
	case ir.Partial:
		errs = append(errs, validateProperties(n.Properties, path)...)
	case ir.Strict:
		errs = append(errs, validateProperties(n.Properties, path)...)
	case ir.Union:
		errs = append(errs, validateMembers("union", n.Types, path)...)
	case ir.Intersection:
		errs = append(errs, validateMembers("intersection", n.Types, path)...)
	case ir.TaggedUnion:
		// E113: discriminant is required
		if n.Tag == "" {
			errs = append(errs, ValidationError{
				Field:   path + ".tag",
				Message: "tagged union requires a tag",
				Code:    ErrEmptyTag,
			})
		}
		errs = append(errs, validateMembers("tagged union", n.Types, path)...)
	case ir.Tuple:
		// E117: tuple needs at least one member
		if len(n.Types) == 0 {
			errs = append(errs, ValidationError{
				Field:   path + ".types",
				Message: "tuple requires at least one member",
				Code:    ErrEmptyTuple,
			})
		}
		for i, t := range n.Types {
			errs = append(errs, validateNode(t, fmt.Sprintf("%s.types[%d]", path, i))...)
		}
	case ir.Dictionary:
		// E118: record keys must be string-like
		if !isStringLike(n.Domain) {
			errs = append(errs, ValidationError{
				Field:   path + ".domain",
				Message: fmt.Sprintf("dictionary domain must be string-like, got %s", kindOf(n.Domain)),
				Code:    ErrInvalidDomain,
			})
		}
		errs = append(errs, validateNode(n.Domain, path+".domain")...)
		errs = append(errs, validateNode(n.Codomain, path+".codomain")...)
	case ir.Keyof:
		errs = append(errs, validateKeyof(n, path)...)
	case ir.Array:
		errs = append(errs, validateNode(n.Type, path+".type")...)
	case ir.ReadonlyArray:
		errs = append(errs, validateNode(n.Type, path+".type")...)
	case ir.Exact:
		errs = append(errs, validateNode(n.Type, path+".type")...)
	case ir.Readonly:
		errs = append(errs, validateNode(n.Type, path+".type")...)
	case ir.Brand:
		// E116: brand needs an identifier name and a predicate
		if !identifierPattern.MatchString(n.Name) || strings.TrimSpace(n.Predicate) == "" {
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("brand %q requires an identifier name and a predicate", n.Name),
				Code:    ErrInvalidBrand,
			})
		}
		errs = append(errs, validateNode(n.Type, path+".type")...)
	case ir.Recursive:
		// E104: only Sort produces recursive nodes
		errs = append(errs, ValidationError{
			Field:   path,
			Message: fmt.Sprintf("recursive node %q must not be supplied directly, Sort detects recursion", n.Name),
			Code:    ErrRecursiveNotAllowed,
		})
	}

	return errs
}

func validateProperties(props []ir.Property, path string) []ValidationError {
	var errs []ValidationError
	keys := make(map[string]bool)

	for i, p := range props {
		field := fmt.Sprintf("%s.properties[%d]", path, i)

		// E110: property key is required
		if p.Key == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: "property key is required",
				Code:    ErrEmptyPropertyKey,
			})
		}

		// E111: duplicate property key
		if keys[p.Key] {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: fmt.Sprintf("duplicate property key %q", p.Key),
				Code:    ErrDuplicatePropertyKey,
			})
		}
		keys[p.Key] = true

		errs = append(errs, validateNode(p.Type, field+".type")...)
	}

	return errs
}

func validateMembers(kind string, types []ir.Node, path string) []ValidationError {
	var errs []ValidationError

	// E112: the runtime combinators take at least two members
	if len(types) < 2 {
		errs = append(errs, ValidationError{
			Field:   path + ".types",
			Message: fmt.Sprintf("%s requires at least two members, got %d", kind, len(types)),
			Code:    ErrTooFewMembers,
		})
	}
	for i, t := range types {
		errs = append(errs, validateNode(t, fmt.Sprintf("%s.types[%d]", path, i))...)
	}

	return errs
}

func validateKeyof(k ir.Keyof, path string) []ValidationError {
	var errs []ValidationError

	// E114: keyof needs values
	if len(k.Values) == 0 {
		errs = append(errs, ValidationError{
			Field:   path + ".values",
			Message: "keyof requires at least one value",
			Code:    ErrEmptyKeyof,
		})
	}

	// E115: values are object keys and must be unique
	seen := make(map[string]bool)
	for i, v := range k.Values {
		if seen[v] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s.values[%d]", path, i),
				Message: fmt.Sprintf("duplicate keyof value %q", v),
				Code:    ErrDuplicateKeyofValue,
			})
		}
		seen[v] = true
	}

	return errs
}

// isStringLike reports whether n can serve as a record domain.
// Identifiers are accepted because their definition may be external.
func isStringLike(n ir.Node) bool {
	switch n := n.(type) {
	case ir.Primitive:
		return n.Kind == ir.KindString
	case ir.Literal:
		return n.Kind == ir.LiteralString
	case ir.Keyof, ir.Identifier, ir.Custom:
		return true
	case ir.Union:
		for _, t := range n.Types {
			if !isStringLike(t) {
				return false
			}
		}
		return true
	}
	return false
}

func kindOf(n ir.Node) string {
	if n == nil {
		return "nothing"
	}
	return ir.KindName(n)
}

// ContainsUndefined reports whether n already admits undefined, which
// makes marking a property of that type optional redundant.
func ContainsUndefined(n ir.Node) bool {
	switch n := n.(type) {
	case ir.Primitive:
		return n.Kind == ir.KindUndefined || n.Kind == ir.KindUnknown || n.Kind == ir.KindAny
	case ir.Union:
		for _, t := range n.Types {
			if ContainsUndefined(t) {
				return true
			}
		}
	case ir.Readonly:
		return ContainsUndefined(n.Type)
	}
	return false
}

// Warnings reports non-fatal diagnostics: cycles, references to names
// outside the batch, and redundant optional markers.
//
// A batch with duplicate names yields no cycle or reference warnings,
// since its graph is undefined; Validate reports the duplicates.
func Warnings(decls []ir.Declaration) []Warning {
	warnings := []Warning{}

	if g, err := BuildGraph(decls); err == nil {
		warnings = append(warnings, AnalyzeCycles(g)...)

		unresolved := g.Unresolved()
		for _, v := range g.Vertices() {
			for _, name := range unresolved[v.ID] {
				warnings = append(warnings, Warning{
					Code:    WarnUnresolved,
					Field:   v.ID,
					Message: fmt.Sprintf("%q is not declared in this batch and is assumed to be defined elsewhere", name),
					Level:   "info",
				})
			}
		}
	}

	for _, d := range decls {
		td, ok := d.(ir.TypeDeclaration)
		if !ok || td.Type == nil {
			continue
		}
		warnings = append(warnings, redundantOptionals(td.Name, td.Type)...)
	}

	return warnings
}

func redundantOptionals(field string, n ir.Node) []Warning {
	var warnings []Warning

	check := func(props []ir.Property, optionalByDefault bool) {
		for _, p := range props {
			path := field + "." + p.Key
			if (p.Optional || optionalByDefault) && ContainsUndefined(p.Type) {
				warnings = append(warnings, Warning{
					Code:    WarnRedundantOptional,
					Field:   path,
					Message: "optional property type already admits undefined",
					Level:   "warning",
				})
			}
			warnings = append(warnings, redundantOptionals(path, p.Type)...)
		}
	}

	switch n := n.(type) {
	case ir.Struct:
		check(n.Properties, false)
	case ir.Strict:
		check(n.Properties, false)
	case ir.Partial:
		check(n.Properties, true)
	default:
		if n == nil {
			return nil
		}
		for _, child := range children(n) {
			warnings = append(warnings, redundantOptionals(field, child)...)
		}
	}

	return warnings
}

// children returns the direct child nodes of composites other than structs.
func children(n ir.Node) []ir.Node {
	switch n := n.(type) {
	case ir.Union:
		return n.Types
	case ir.Intersection:
		return n.Types
	case ir.TaggedUnion:
		return n.Types
	case ir.Tuple:
		return n.Types
	case ir.Dictionary:
		return []ir.Node{n.Domain, n.Codomain}
	case ir.Array:
		return []ir.Node{n.Type}
	case ir.ReadonlyArray:
		return []ir.Node{n.Type}
	case ir.Exact:
		return []ir.Node{n.Type}
	case ir.Readonly:
		return []ir.Node{n.Type}
	case ir.Brand:
		return []ir.Node{n.Type}
	case ir.Recursive:
		return []ir.Node{n.Type}
	}
	return nil
}
