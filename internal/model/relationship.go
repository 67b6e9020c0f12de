package model

import "fmt"

// Kind classifies a relationship between two classes.
type Kind string

// Relationship kinds. The ordered (source, destination) pair is the identity
// of a relationship; the kind is an editable attribute of it, so two classes
// can never be linked twice even with different kinds.
const (
	KindAssociation Kind = "association"
	KindAggregation Kind = "aggregation"
	KindComposition Kind = "composition"
	KindInheritance Kind = "inheritance"
	KindRealization Kind = "realization"
)

// Kinds returns all valid relationship kinds in display order.
func Kinds() []Kind {
	return []Kind{KindAssociation, KindAggregation, KindComposition, KindInheritance, KindRealization}
}

// ParseKind converts a string to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindAssociation, KindAggregation, KindComposition, KindInheritance, KindRealization:
		return Kind(s), nil
	}
	return "", &InvalidArgumentError{Value: s, Reason: "unknown relationship kind"}
}

// String returns the kind's wire representation.
func (k Kind) String() string {
	return string(k)
}

// Relationship is a directed, kinded edge between two classes, identified by
// the ordered (Source, Destination) pair.
type Relationship struct {
	Source      string `json:"source" yaml:"source"`
	Destination string `json:"destination" yaml:"destination"`
	Kind        Kind   `json:"type" yaml:"type"`
}

func (r Relationship) String() string {
	return fmt.Sprintf("%s -> %s [%s]", r.Source, r.Destination, r.Kind)
}
