// Package testutil provides shared fixtures for package tests.
//
// Fixtures are deterministic: the same batch always sorts, prints and
// fingerprints identically, which keeps golden files and history tests
// stable.
package testutil

import "github.com/roach88/iogen/internal/ir"

// PersonYAML declares Person before the Address it references.
const PersonYAML = `declarations:
  - name: Person
    export: true
    type:
      struct:
        name: string
        address: Address
  - name: Address
    type:
      struct:
        street: string
`

// RecursiveYAML declares the mutually recursive pair A and B.
const RecursiveYAML = `declarations:
  - name: A
    type:
      struct:
        b: B
  - name: B
    type:
      struct:
        a: A
`

// InvalidYAML loads cleanly but fails lint with E101.
const InvalidYAML = `declarations:
  - name: bad name
    type: string
`

// PersonBatch is the declaration form of PersonYAML.
func PersonBatch() []ir.Declaration {
	return []ir.Declaration{
		ir.Export("Person", ir.NewStruct(
			ir.Prop("name", ir.StringType),
			ir.Prop("address", ir.Ident("Address")),
		)),
		ir.Declare("Address", ir.NewStruct(ir.Prop("street", ir.StringType))),
	}
}

// RecursiveBatch holds the recursive pair A and B plus the independent
// declaration Name.
func RecursiveBatch() []ir.Declaration {
	return []ir.Declaration{
		ir.Declare("A", ir.NewStruct(ir.Prop("b", ir.Ident("B")))),
		ir.Declare("B", ir.NewStruct(ir.Prop("a", ir.Ident("A")))),
		ir.Export("Name", ir.StringType),
	}
}
