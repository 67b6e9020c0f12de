package model

import "regexp"

// maxNameLength bounds class, member, and type names.
const maxNameLength = 50

var namePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)

// validateName checks that a class or member name is a usable identifier:
// non-empty, starts with a letter, contains only letters, digits, and
// underscores, and is at most maxNameLength characters.
func validateName(name string) error {
	if name == "" {
		return &InvalidArgumentError{Value: name, Reason: "name must not be empty"}
	}
	if len(name) > maxNameLength {
		return &InvalidArgumentError{Value: name, Reason: "name exceeds 50 characters"}
	}
	if !namePattern.MatchString(name) {
		return &InvalidArgumentError{Value: name, Reason: "name must start with a letter and contain only letters, digits, and underscores"}
	}
	return nil
}

// validateTypeName checks a field, parameter, or return type name. Types
// allow a wider charset than identifiers (e.g. "list[int]", "*Shape").
func validateTypeName(typ string) error {
	if typ == "" {
		return &InvalidArgumentError{Value: typ, Reason: "type must not be empty"}
	}
	if len(typ) > maxNameLength {
		return &InvalidArgumentError{Value: typ, Reason: "type exceeds 50 characters"}
	}
	return nil
}
