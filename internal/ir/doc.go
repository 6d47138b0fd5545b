// Package ir provides the intermediate representation of data-type descriptions
// that iogen compiles into static type declarations and runtime codecs.
//
// This package contains type definitions, small constructors and the dependency
// extractor. All other internal packages import ir; ir imports nothing internal.
// This keeps the IR the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Node is a sealed interface; only the variants in this package implement it
//   - Every variant is an immutable value; stages derive new values, never mutate
//   - Recursive nodes are produced by the compiler's recursion rewriter only
//   - Identifiers that match no declaration are external references, not errors
package ir
