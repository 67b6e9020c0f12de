// Package model holds the UML class-diagram data model: classes, members,
// relationships, the invariants tying them together, and the observer
// notification machinery. It knows nothing about rendering, persistence
// formats, or input syntax; those layers consume the operations and
// subscribe to changes.
package model

import (
	"fmt"
	"log/slog"
)

// Diagram owns the set of classes and relationships and enforces every
// structural invariant. All operations validate first and mutate second:
// a failed call leaves the diagram untouched and notifies nobody.
//
// Diagram is not safe for concurrent use. One editing session owns it and
// drives all mutation, undo, and notification on a single goroutine.
type Diagram struct {
	classes map[string]*ClassNode
	order   []string // class names in insertion order
	rels    []Relationship

	observers []Observer
	logger    *slog.Logger
}

// New creates an empty diagram. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Diagram {
	if logger == nil {
		logger = slog.Default()
	}
	return &Diagram{
		classes: make(map[string]*ClassNode),
		logger:  logger,
	}
}

// AttachObserver subscribes an observer to committed changes. Attaching an
// already-attached observer is a no-op; notification order is attachment
// order.
func (d *Diagram) AttachObserver(obs Observer) {
	if obs == nil {
		return
	}
	for _, o := range d.observers {
		if o == obs {
			return
		}
	}
	d.observers = append(d.observers, obs)
}

// DetachObserver removes an observer. Detaching an unattached observer is a
// no-op.
func (d *Diagram) DetachObserver(obs Observer) {
	for i, o := range d.observers {
		if o == obs {
			d.observers = append(d.observers[:i], d.observers[i+1:]...)
			return
		}
	}
}

// notify delivers a committed change to every observer in attachment order.
// A panicking observer is recovered and logged so the rest still hear about
// the change.
func (d *Diagram) notify(c Change) {
	for _, obs := range d.observers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Error("observer panicked during notification",
						"event", string(c.Event), "panic", fmt.Sprint(r))
				}
			}()
			obs.ModelChanged(c)
		}()
	}
}

// --- class operations ---

// AddClass creates an empty class with the given name and returns a copy of
// it. Fails with InvalidArgumentError for a malformed name and
// DuplicateNameError if the name is taken.
func (d *Diagram) AddClass(name string) (*ClassNode, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if _, ok := d.classes[name]; ok {
		return nil, &DuplicateNameError{Name: name}
	}
	cls := &ClassNode{Name: name}
	d.classes[name] = cls
	d.order = append(d.order, name)
	d.notify(Change{Event: EventClassAdded, Class: name})
	return cls.Clone(), nil
}

// InsertClass inserts a fully-populated class at the given insertion-order
// index, validating it as a unit first. An index of -1 (or past the end)
// appends. Used when undoing a deletion or replaying a load.
func (d *Diagram) InsertClass(cls *ClassNode, at int) error {
	if cls == nil {
		return &InvalidArgumentError{Reason: "class must not be nil"}
	}
	if err := validateName(cls.Name); err != nil {
		return err
	}
	if _, ok := d.classes[cls.Name]; ok {
		return &DuplicateNameError{Name: cls.Name}
	}
	seen := make(map[string]struct{}, len(cls.Fields))
	for _, f := range cls.Fields {
		if _, dup := seen[f.Name]; dup {
			return &DuplicateMemberError{Class: cls.Name, Kind: "field", Member: f.Name}
		}
		seen[f.Name] = struct{}{}
	}
	sigs := make(map[string]struct{}, len(cls.Methods))
	for _, m := range cls.Methods {
		sig := m.Signature()
		if _, dup := sigs[sig]; dup {
			return &DuplicateMemberError{Class: cls.Name, Kind: "method", Member: sig}
		}
		sigs[sig] = struct{}{}
	}
	if at < 0 || at > len(d.order) {
		at = len(d.order)
	}
	d.classes[cls.Name] = cls.Clone()
	d.order = append(d.order, "")
	copy(d.order[at+1:], d.order[at:])
	d.order[at] = cls.Name
	d.notify(Change{Event: EventClassAdded, Class: cls.Name})
	return nil
}

// CascadedRelationship pairs a relationship removed by a class deletion with
// the index it occupied in the relationship order.
type CascadedRelationship struct {
	Relationship Relationship
	Index        int
}

// DeletedClass records everything DeleteClass took out of the diagram: the
// class, its slot in the class insertion order, and every cascaded
// relationship with its former index. RestoreClass consumes it to rebuild
// the pre-delete state exactly.
type DeletedClass struct {
	Class *ClassNode
	Order int
	Rels  []CascadedRelationship
}

// RestoreClass re-inserts a deleted class and its cascaded relationships at
// the positions they held before the deletion. Used by undo.
func (d *Diagram) RestoreClass(del DeletedClass) error {
	if err := d.InsertClass(del.Class, del.Order); err != nil {
		return err
	}
	// Rels carry pre-delete indices in ascending order, so splicing each one
	// back at its recorded index reproduces the original interleaving.
	for _, cr := range del.Rels {
		if err := d.insertRelationship(cr.Relationship, cr.Index); err != nil {
			return err
		}
	}
	return nil
}

// DeleteClass removes a class and every relationship touching it, returning
// a record of what was removed and where so the caller can undo exactly.
func (d *Diagram) DeleteClass(name string) (DeletedClass, error) {
	cls, ok := d.classes[name]
	if !ok {
		return DeletedClass{}, &NotFoundError{Kind: "class", Name: name}
	}

	del := DeletedClass{Class: cls}
	kept := d.rels[:0]
	for i, r := range d.rels {
		if r.Source == name || r.Destination == name {
			del.Rels = append(del.Rels, CascadedRelationship{Relationship: r, Index: i})
		} else {
			kept = append(kept, r)
		}
	}
	d.rels = kept

	delete(d.classes, name)
	for i, n := range d.order {
		if n == name {
			del.Order = i
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}

	d.notify(Change{Event: EventClassDeleted, Class: name})
	return del, nil
}

// RenameClass changes a class name and rewrites every relationship endpoint
// referencing it.
func (d *Diagram) RenameClass(oldName, newName string) error {
	cls, ok := d.classes[oldName]
	if !ok {
		return &NotFoundError{Kind: "class", Name: oldName}
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if _, taken := d.classes[newName]; taken {
		return &DuplicateNameError{Name: newName}
	}

	delete(d.classes, oldName)
	cls.Name = newName
	d.classes[newName] = cls
	for i, n := range d.order {
		if n == oldName {
			d.order[i] = newName
			break
		}
	}
	for i := range d.rels {
		if d.rels[i].Source == oldName {
			d.rels[i].Source = newName
		}
		if d.rels[i].Destination == oldName {
			d.rels[i].Destination = newName
		}
	}

	d.notify(Change{Event: EventClassRenamed, OldName: oldName, NewName: newName, Class: newName})
	return nil
}

// SetPosition updates a class's view position. The model carries the value
// for views but never interprets it.
func (d *Diagram) SetPosition(name string, pos Position) error {
	cls, ok := d.classes[name]
	if !ok {
		return &NotFoundError{Kind: "class", Name: name}
	}
	cls.Position = pos
	d.notify(Change{Event: EventPositionChanged, Class: name})
	return nil
}

// --- field operations ---

// AddField appends a field to a class. Field names are unique per class.
func (d *Diagram) AddField(class string, field Field) error {
	cls, ok := d.classes[class]
	if !ok {
		return &NotFoundError{Kind: "class", Name: class}
	}
	if err := validateName(field.Name); err != nil {
		return err
	}
	if err := validateTypeName(field.Type); err != nil {
		return err
	}
	if cls.fieldIndex(field.Name) >= 0 {
		return &DuplicateMemberError{Class: class, Kind: "field", Member: field.Name}
	}
	cls.Fields = append(cls.Fields, field)
	d.notify(Change{Event: EventFieldAdded, Class: class, Member: field.Name})
	return nil
}

// DeleteField removes a field by name, returning the removed value.
func (d *Diagram) DeleteField(class, fieldName string) (Field, error) {
	cls, ok := d.classes[class]
	if !ok {
		return Field{}, &NotFoundError{Kind: "class", Name: class}
	}
	i := cls.fieldIndex(fieldName)
	if i < 0 {
		return Field{}, &NotFoundError{Kind: "field", Name: fieldName}
	}
	removed := cls.Fields[i]
	cls.Fields = append(cls.Fields[:i], cls.Fields[i+1:]...)
	d.notify(Change{Event: EventFieldDeleted, Class: class, Member: fieldName})
	return removed, nil
}

// RenameField changes a field's name, keeping its type and position in the
// field order.
func (d *Diagram) RenameField(class, oldName, newName string) error {
	cls, ok := d.classes[class]
	if !ok {
		return &NotFoundError{Kind: "class", Name: class}
	}
	i := cls.fieldIndex(oldName)
	if i < 0 {
		return &NotFoundError{Kind: "field", Name: oldName}
	}
	if err := validateName(newName); err != nil {
		return err
	}
	if oldName == newName {
		return nil
	}
	if cls.fieldIndex(newName) >= 0 {
		return &DuplicateMemberError{Class: class, Kind: "field", Member: newName}
	}
	cls.Fields[i].Name = newName
	d.notify(Change{Event: EventFieldRenamed, Class: class, OldName: oldName, NewName: newName, Member: newName})
	return nil
}

// EditFieldType changes a field's declared type, returning the old type.
func (d *Diagram) EditFieldType(class, fieldName, newType string) (string, error) {
	cls, ok := d.classes[class]
	if !ok {
		return "", &NotFoundError{Kind: "class", Name: class}
	}
	i := cls.fieldIndex(fieldName)
	if i < 0 {
		return "", &NotFoundError{Kind: "field", Name: fieldName}
	}
	if err := validateTypeName(newType); err != nil {
		return "", err
	}
	old := cls.Fields[i].Type
	cls.Fields[i].Type = newType
	d.notify(Change{Event: EventFieldTypeChanged, Class: class, Member: fieldName})
	return old, nil
}

// --- method operations ---

// AddMethod appends a method to a class. The name plus ordered parameter
// type list must be unique within the class; parameter names must be unique
// within the method.
func (d *Diagram) AddMethod(class string, method Method) error {
	cls, ok := d.classes[class]
	if !ok {
		return &NotFoundError{Kind: "class", Name: class}
	}
	if err := validateName(method.Name); err != nil {
		return err
	}
	if err := validateTypeName(method.ReturnType); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(method.Params))
	for _, p := range method.Params {
		if err := validateName(p.Name); err != nil {
			return err
		}
		if err := validateTypeName(p.Type); err != nil {
			return err
		}
		if _, dup := seen[p.Name]; dup {
			return &DuplicateMemberError{Class: class, Kind: "parameter", Member: p.Name}
		}
		seen[p.Name] = struct{}{}
	}
	if cls.methodIndex(method.Signature()) >= 0 {
		return &DuplicateMemberError{Class: class, Kind: "method", Member: method.Signature()}
	}
	cls.Methods = append(cls.Methods, method.clone())
	d.notify(Change{Event: EventMethodAdded, Class: class, Member: method.Signature()})
	return nil
}

// DeleteMethod removes the method with the given signature, returning the
// removed value for undo.
func (d *Diagram) DeleteMethod(class, signature string) (Method, error) {
	cls, ok := d.classes[class]
	if !ok {
		return Method{}, &NotFoundError{Kind: "class", Name: class}
	}
	i := cls.methodIndex(signature)
	if i < 0 {
		return Method{}, &NotFoundError{Kind: "method", Name: signature}
	}
	removed := cls.Methods[i].clone()
	cls.Methods = append(cls.Methods[:i], cls.Methods[i+1:]...)
	d.notify(Change{Event: EventMethodDeleted, Class: class, Member: signature})
	return removed, nil
}

// RenameMethod changes a method's name. The renamed signature must remain
// unique within the class.
func (d *Diagram) RenameMethod(class, signature, newName string) error {
	cls, ok := d.classes[class]
	if !ok {
		return &NotFoundError{Kind: "class", Name: class}
	}
	i := cls.methodIndex(signature)
	if i < 0 {
		return &NotFoundError{Kind: "method", Name: signature}
	}
	if err := validateName(newName); err != nil {
		return err
	}
	renamed := cls.Methods[i].clone()
	renamed.Name = newName
	if renamed.Signature() == signature {
		return nil
	}
	if cls.methodIndex(renamed.Signature()) >= 0 {
		return &DuplicateMemberError{Class: class, Kind: "method", Member: renamed.Signature()}
	}
	cls.Methods[i].Name = newName
	d.notify(Change{Event: EventMethodRenamed, Class: class, OldName: signature, NewName: renamed.Signature(), Member: renamed.Signature()})
	return nil
}

// EditParameters replaces a method's parameter list, returning the previous
// list for undo. The new signature must remain unique within the class.
func (d *Diagram) EditParameters(class, signature string, params []Parameter) ([]Parameter, error) {
	cls, ok := d.classes[class]
	if !ok {
		return nil, &NotFoundError{Kind: "class", Name: class}
	}
	i := cls.methodIndex(signature)
	if i < 0 {
		return nil, &NotFoundError{Kind: "method", Name: signature}
	}
	seen := make(map[string]struct{}, len(params))
	for _, p := range params {
		if err := validateName(p.Name); err != nil {
			return nil, err
		}
		if err := validateTypeName(p.Type); err != nil {
			return nil, err
		}
		if _, dup := seen[p.Name]; dup {
			return nil, &DuplicateMemberError{Class: class, Kind: "parameter", Member: p.Name}
		}
		seen[p.Name] = struct{}{}
	}
	replaced := cls.Methods[i].clone()
	replaced.Params = append([]Parameter(nil), params...)
	if j := cls.methodIndex(replaced.Signature()); j >= 0 && j != i {
		return nil, &DuplicateMemberError{Class: class, Kind: "method", Member: replaced.Signature()}
	}
	old := cls.Methods[i].Params
	cls.Methods[i].Params = append([]Parameter(nil), params...)
	d.notify(Change{Event: EventParamsReplaced, Class: class, Member: replaced.Signature()})
	return old, nil
}

// --- relationship operations ---

// AddRelationship links two existing classes with a directed, kinded edge.
// At most one relationship may exist per ordered (source, destination) pair,
// whatever its kind. Self relationships are allowed.
func (d *Diagram) AddRelationship(source, destination string, kind Kind) error {
	return d.insertRelationship(Relationship{Source: source, Destination: destination, Kind: kind}, -1)
}

// insertRelationship validates and splices an edge in at the given index.
// An index of -1 (or past the end) appends.
func (d *Diagram) insertRelationship(r Relationship, at int) error {
	if _, ok := d.classes[r.Source]; !ok {
		return &NotFoundError{Kind: "class", Name: r.Source}
	}
	if _, ok := d.classes[r.Destination]; !ok {
		return &NotFoundError{Kind: "class", Name: r.Destination}
	}
	if _, err := ParseKind(string(r.Kind)); err != nil {
		return err
	}
	if d.relationshipIndex(r.Source, r.Destination) >= 0 {
		return &DuplicateRelationshipError{Source: r.Source, Destination: r.Destination}
	}
	if at < 0 || at > len(d.rels) {
		at = len(d.rels)
	}
	d.rels = append(d.rels, Relationship{})
	copy(d.rels[at+1:], d.rels[at:])
	d.rels[at] = r
	d.notify(Change{Event: EventRelationshipAdded, Source: r.Source, Destination: r.Destination, Kind: r.Kind})
	return nil
}

// DeleteRelationship removes the edge for the ordered pair, returning it.
func (d *Diagram) DeleteRelationship(source, destination string) (Relationship, error) {
	i := d.relationshipIndex(source, destination)
	if i < 0 {
		return Relationship{}, &NotFoundError{Kind: "relationship", Name: source + " -> " + destination}
	}
	removed := d.rels[i]
	d.rels = append(d.rels[:i], d.rels[i+1:]...)
	d.notify(Change{Event: EventRelationshipDeleted, Source: source, Destination: destination, Kind: removed.Kind})
	return removed, nil
}

// EditRelationshipKind changes the kind of an existing edge in place,
// returning the previous kind.
func (d *Diagram) EditRelationshipKind(source, destination string, newKind Kind) (Kind, error) {
	if _, err := ParseKind(string(newKind)); err != nil {
		return "", err
	}
	i := d.relationshipIndex(source, destination)
	if i < 0 {
		return "", &NotFoundError{Kind: "relationship", Name: source + " -> " + destination}
	}
	old := d.rels[i].Kind
	d.rels[i].Kind = newKind
	d.notify(Change{Event: EventRelationshipRekind, Source: source, Destination: destination, Kind: newKind})
	return old, nil
}

// --- queries ---

// HasClass reports whether the named class exists.
func (d *Diagram) HasClass(name string) bool {
	_, ok := d.classes[name]
	return ok
}

// Class returns a deep copy of the named class.
func (d *Diagram) Class(name string) (*ClassNode, error) {
	cls, ok := d.classes[name]
	if !ok {
		return nil, &NotFoundError{Kind: "class", Name: name}
	}
	return cls.Clone(), nil
}

// ClassNames returns class names in insertion order.
func (d *Diagram) ClassNames() []string {
	return append([]string(nil), d.order...)
}

// Relationship returns the edge for the ordered pair.
func (d *Diagram) Relationship(source, destination string) (Relationship, error) {
	i := d.relationshipIndex(source, destination)
	if i < 0 {
		return Relationship{}, &NotFoundError{Kind: "relationship", Name: source + " -> " + destination}
	}
	return d.rels[i], nil
}

// Relationships returns all edges in insertion order.
func (d *Diagram) Relationships() []Relationship {
	return append([]Relationship(nil), d.rels...)
}

// ClassCount returns the number of classes.
func (d *Diagram) ClassCount() int {
	return len(d.classes)
}

// RelationshipCount returns the number of relationships.
func (d *Diagram) RelationshipCount() int {
	return len(d.rels)
}

func (d *Diagram) relationshipIndex(source, destination string) int {
	for i, r := range d.rels {
		if r.Source == source && r.Destination == destination {
			return i
		}
	}
	return -1
}

// Snapshot is a read-only full copy of the diagram, structurally sufficient
// to reconstruct the model by replaying AddClass/AddField/AddMethod/
// AddRelationship calls.
type Snapshot struct {
	Classes       []*ClassNode   `json:"classes" yaml:"classes"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// Snapshot returns a deep copy of all classes (in insertion order) and
// relationships.
func (d *Diagram) Snapshot() Snapshot {
	snap := Snapshot{
		Classes:       make([]*ClassNode, 0, len(d.order)),
		Relationships: append([]Relationship(nil), d.rels...),
	}
	for _, name := range d.order {
		snap.Classes = append(snap.Classes, d.classes[name].Clone())
	}
	return snap
}

// Equal reports whether two snapshots describe structurally identical
// diagrams: same classes with the same members in the same order, and the
// same relationships.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Classes) != len(other.Classes) || len(s.Relationships) != len(other.Relationships) {
		return false
	}
	for i, c := range s.Classes {
		o := other.Classes[i]
		if c.Name != o.Name || c.Position != o.Position ||
			len(c.Fields) != len(o.Fields) || len(c.Methods) != len(o.Methods) {
			return false
		}
		for j := range c.Fields {
			if c.Fields[j] != o.Fields[j] {
				return false
			}
		}
		for j := range c.Methods {
			if c.Methods[j].Name != o.Methods[j].Name ||
				c.Methods[j].ReturnType != o.Methods[j].ReturnType ||
				len(c.Methods[j].Params) != len(o.Methods[j].Params) {
				return false
			}
			for k := range c.Methods[j].Params {
				if c.Methods[j].Params[k] != o.Methods[j].Params[k] {
					return false
				}
			}
		}
	}
	for i := range s.Relationships {
		if s.Relationships[i] != other.Relationships[i] {
			return false
		}
	}
	return true
}

// Clear removes every class and relationship. Observers stay attached;
// views survive a load into the same session.
func (d *Diagram) Clear() {
	d.classes = make(map[string]*ClassNode)
	d.order = nil
	d.rels = nil
}
