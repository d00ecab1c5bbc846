// Package shape inspects Go types at runtime: which fields a struct exposes for
// mapping, whether a type is a scalar or a nestable object, and whether a
// function is usable as a constructor or a factory.
package shape
