package model

// Event identifies which operation committed a change.
type Event string

// Events emitted by Diagram, one per mutation operation.
const (
	EventClassAdded          Event = "class_added"
	EventClassDeleted        Event = "class_deleted"
	EventClassRenamed        Event = "class_renamed"
	EventFieldAdded          Event = "field_added"
	EventFieldDeleted        Event = "field_deleted"
	EventFieldRenamed        Event = "field_renamed"
	EventFieldTypeChanged    Event = "field_type_changed"
	EventMethodAdded         Event = "method_added"
	EventMethodDeleted       Event = "method_deleted"
	EventMethodRenamed       Event = "method_renamed"
	EventParamsReplaced      Event = "params_replaced"
	EventRelationshipAdded   Event = "relationship_added"
	EventRelationshipDeleted Event = "relationship_deleted"
	EventRelationshipRekind  Event = "relationship_kind_changed"
	EventPositionChanged     Event = "position_changed"
)

// Change describes one committed mutation. Only the fields relevant to the
// event are populated.
type Change struct {
	Event Event

	// Class-scoped payload.
	Class   string
	Member  string
	OldName string
	NewName string

	// Relationship-scoped payload.
	Source      string
	Destination string
	Kind        Kind
}

// Structural reports whether the change alters diagram topology (classes or
// relationships appearing, disappearing, or being renamed), as opposed to a
// member-level edit. Views use this to decide between re-layout and a plain
// label refresh.
func (c Change) Structural() bool {
	switch c.Event {
	case EventClassAdded, EventClassDeleted, EventClassRenamed,
		EventRelationshipAdded, EventRelationshipDeleted:
		return true
	}
	return false
}

// Observer receives committed model changes. Implementations must be
// comparable (use a pointer receiver) so attach/detach can deduplicate, and
// must not mutate the model from inside ModelChanged. A panicking observer is
// isolated and never suppresses notification of the next one.
type Observer interface {
	ModelChanged(Change)
}
