// Package step reads ISO 10303-21 exchange files ("STEP files").
//
// Parse turns the text of an exchange file into an ExchangeFile: the header
// entities and the data section instances, each as a tree of Parameter
// values that carry no type information beyond what the file spells out.
//
// The rest of the package is the runtime that readers generated from an
// EXPRESS schema are built on. A generated reader registers one constructor
// per entity type; Reader feeds it the parameters of every instance and
// keeps the results in a Store, from which they are retrieved by id with Get
// or by type with All. Conversion functions such as AsReal, Aggregate and
// Optional turn parameters into the Go types of entity fields.
//
// Attributes whose type is an entity are never stored by value. They hold
// an EntityRef, the id of the referenced instance, which is looked up in the
// store when needed. This keeps entity graphs with cycles representable.
package step
