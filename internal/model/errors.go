package model

import "fmt"

// NotFoundError reports a reference to a class, member, or relationship that
// does not exist.
type NotFoundError struct {
	Kind string // "class", "field", "method", "parameter", "relationship"
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Name)
}

// DuplicateNameError reports a class name collision.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("class %q already exists", e.Name)
}

// DuplicateMemberError reports a field name or method signature collision
// within a class.
type DuplicateMemberError struct {
	Class  string
	Kind   string // "field", "method", "parameter"
	Member string
}

func (e *DuplicateMemberError) Error() string {
	return fmt.Sprintf("%s %q already exists on class %q", e.Kind, e.Member, e.Class)
}

// DuplicateRelationshipError reports an attempt to link an ordered class pair
// that is already linked, regardless of the requested kind.
type DuplicateRelationshipError struct {
	Source      string
	Destination string
}

func (e *DuplicateRelationshipError) Error() string {
	return fmt.Sprintf("relationship %s -> %s already exists", e.Source, e.Destination)
}

// InvalidArgumentError reports an empty or malformed name, type, or kind.
type InvalidArgumentError struct {
	Value  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Value, e.Reason)
}
