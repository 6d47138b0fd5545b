// Package printer renders IR declarations as TypeScript source for io-ts.
//
// Two printers walk the same IR: the static printer emits type aliases,
// the runtime printer emits io-ts codec constants. They never call each
// other. Both share the optional-field policy, key escaping, and the
// recursion context used to print the two sides of recursive
// declarations.
//
// Every function here is pure. Callers assemble documents with
// PrintDocument or by concatenating per-declaration output.
package printer
