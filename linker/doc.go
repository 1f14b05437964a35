// Package linker analyzes a parsed EXPRESS schema. Linking resolves every
// name a schema refers to and computes what code generation needs to know
// about its entities and types.
//
// # Entities
//
// Each entity gets its ancestors, listed once each with the root first,
// and its flattened attributes: those of every supertype followed by its
// own, in the order exchange files list them. An attribute reached through
// two supertypes is kept once at its first position. A SELF\ redeclaration
// keeps the position of the attribute it redeclares but replaces its type,
// which must be a specialization of the inherited one. When supertypes
// disagree on a redeclaration, the most derived one wins.
//
// An entity is marked cyclic when it can reach itself through the types
// of its attributes. Attributes typed with entities always hold references
// by instance id, so cyclic graphs stay representable.
//
// # Types
//
// Type definitions may refer to each other in any order. They are admitted
// once every name they refer to is known, repeating until nothing more
// can be admitted; what is left refers to an unknown name or is part of a
// cycle. Selects are classified by how many of their members are entities
// or entity-like types, and types used as SET elements are marked hashable.
package linker
