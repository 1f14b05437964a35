package codegen

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/J-F-Liu/iso-10303/internal/cases"
)

// reservedTypes are package level names every generated file declares.
var reservedTypes = map[string]bool{
	"Instance":  true,
	"Reader":    true,
	"NewReader": true,
	"GetEntity": true,
	"Entities":  true,
	"Schema":    true,
}

// reservedMethods are method names of generated entity structs that
// attribute accessors must not take.
var reservedMethods = map[string]bool{
	"EntityKind": true,
}

// exported returns the exported Go name for an EXPRESS identifier.
func exported(name string) string {
	s := cases.Pascal.Convert(name)
	if s == "" || !unicode.IsLetter([]rune(s)[0]) {
		s = "X" + s
	}
	return s
}

// typeName returns the Go name of a type or entity given its display name.
func typeName(display string) string {
	s := exported(display)
	if reservedTypes[s] {
		s += "_"
	}
	return s
}

// methodName returns the Go name of an attribute accessor.
func methodName(attr string) string {
	s := exported(attr)
	if reservedMethods[s] {
		s += "_"
	}
	return s
}

// fieldName returns the unexported Go name of a struct field.
func fieldName(attr string) string {
	s := cases.Camel.Convert(attr)
	if s == "" || !unicode.IsLetter([]rune(s)[0]) {
		s = "x" + s
	}
	if token.IsKeyword(s) {
		s += "_"
	}
	return s
}

// packageName returns a valid package name for a schema.
func packageName(schema string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(schema) {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	s := strings.ReplaceAll(b.String(), "_", "")
	if s == "" || !unicode.IsLetter([]rune(s)[0]) {
		s = "schema" + s
	}
	if token.IsKeyword(s) {
		s += "schema"
	}
	return s
}

// upper is the name of an entity or type as exchange files write it.
func upper(name string) string {
	return strings.ToUpper(name)
}
