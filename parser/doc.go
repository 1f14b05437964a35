// Package parser contains the logic for parsing EXPRESS (ISO 10303-11)
// schema source into an AST.
//
// Only the declarative part of the language is modelled in full: schemas,
// interface specifications, constants, type declarations and entity
// declarations, including derived and inverse attributes, uniqueness rules
// and domain rules. Function, procedure, rule and subtype constraint
// declarations are recognised and their signatures recorded, but their
// bodies are kept as source text.
//
// EXPRESS is case-insensitive, so all identifiers in the resulting AST are
// lower case.
package parser
