package ir

// Declaration is a named, top-level entry of a batch.
// Only TypeDeclaration and CustomDeclaration implement it.
type Declaration interface {
	DeclarationName() string
	irDeclaration() // Sealed
}

// TypeDeclaration names an IR node.
type TypeDeclaration struct {
	Name        string
	Type        Node
	Exported    bool
	Readonly    bool // Deprecated: wrap Type in a Readonly node instead.
	Description string
}

func (TypeDeclaration) irDeclaration() {}

// DeclarationName returns the declaration's unique key.
func (d TypeDeclaration) DeclarationName() string { return d.Name }

// Declare creates a non-exported TypeDeclaration.
func Declare(name string, t Node) TypeDeclaration {
	return TypeDeclaration{Name: name, Type: t}
}

// Export creates an exported TypeDeclaration.
func Export(name string, t Node) TypeDeclaration {
	return TypeDeclaration{Name: name, Type: t, Exported: true}
}

// IsRecursive reports whether the declaration body is a Recursive node.
func (d TypeDeclaration) IsRecursive() bool {
	_, ok := d.Type.(Recursive)
	return ok
}

// CustomDeclaration is a hand-authored declaration whose text for both
// targets is pre-rendered. Dependencies lists the declaration names the
// text refers to; they are used for ordering only.
type CustomDeclaration struct {
	Name         string
	Static       string
	Runtime      string
	Dependencies []string
}

func (CustomDeclaration) irDeclaration() {}

// DeclarationName returns the declaration's unique key.
func (d CustomDeclaration) DeclarationName() string { return d.Name }

// DeclareCustom creates a CustomDeclaration.
func DeclareCustom(name, static, runtime string, deps ...string) CustomDeclaration {
	return CustomDeclaration{Name: name, Static: static, Runtime: runtime, Dependencies: deps}
}

// Names returns the declaration names in input order.
func Names(decls []Declaration) []string {
	names := make([]string, len(decls))
	for i, d := range decls {
		names[i] = d.DeclarationName()
	}
	return names
}
