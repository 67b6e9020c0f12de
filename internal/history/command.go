// Package history implements the command layer of the editor: every user
// action is wrapped in a reversible Command, and History keeps the undo/redo
// stacks for one editing session.
package history

import (
	"strings"

	"github.com/leapstack-labs/leapuml/internal/model"
)

// Command is one reversible unit of work against a diagram. Execute applies
// the forward effect; Undo restores the model to the state it had immediately
// before Execute. Commands capture whatever "before" state they need at
// Execute time so Undo never has to guess.
type Command interface {
	// Execute applies the command. A failed Execute must leave the diagram
	// untouched.
	Execute() error
	// Undo reverses a previously successful Execute exactly.
	Undo() error
	// Name identifies the command for logging and history display.
	Name() string
}

// --- class commands ---

// AddClassCommand creates an empty class.
type AddClassCommand struct {
	Diagram *model.Diagram
	Class   string
}

func (c *AddClassCommand) Name() string { return "add class" }

func (c *AddClassCommand) Execute() error {
	_, err := c.Diagram.AddClass(c.Class)
	return err
}

func (c *AddClassCommand) Undo() error {
	_, err := c.Diagram.DeleteClass(c.Class)
	return err
}

// DeleteClassCommand removes a class together with every relationship
// touching it, as one undoable unit. The removal record captured at Execute
// time carries the class, its insertion-order slot, and the cascaded
// relationships with their indices, so Undo rebuilds the exact prior state.
type DeleteClassCommand struct {
	Diagram *model.Diagram
	Class   string

	removed model.DeletedClass
}

func (c *DeleteClassCommand) Name() string { return "delete class" }

func (c *DeleteClassCommand) Execute() error {
	del, err := c.Diagram.DeleteClass(c.Class)
	if err != nil {
		return err
	}
	c.removed = del
	return nil
}

func (c *DeleteClassCommand) Undo() error {
	return c.Diagram.RestoreClass(c.removed)
}

// RenameClassCommand renames a class; relationship endpoints follow.
type RenameClassCommand struct {
	Diagram *model.Diagram
	OldName string
	NewName string
}

func (c *RenameClassCommand) Name() string { return "rename class" }

func (c *RenameClassCommand) Execute() error {
	return c.Diagram.RenameClass(c.OldName, c.NewName)
}

func (c *RenameClassCommand) Undo() error {
	return c.Diagram.RenameClass(c.NewName, c.OldName)
}

// MoveClassCommand records a class being dragged to a new canvas position.
type MoveClassCommand struct {
	Diagram  *model.Diagram
	Class    string
	Position model.Position

	oldPosition model.Position
}

func (c *MoveClassCommand) Name() string { return "move class" }

func (c *MoveClassCommand) Execute() error {
	cls, err := c.Diagram.Class(c.Class)
	if err != nil {
		return err
	}
	c.oldPosition = cls.Position
	return c.Diagram.SetPosition(c.Class, c.Position)
}

func (c *MoveClassCommand) Undo() error {
	return c.Diagram.SetPosition(c.Class, c.oldPosition)
}

// --- field commands ---

// AddFieldCommand adds a field to a class.
type AddFieldCommand struct {
	Diagram *model.Diagram
	Class   string
	Field   model.Field
}

func (c *AddFieldCommand) Name() string { return "add field" }

func (c *AddFieldCommand) Execute() error {
	return c.Diagram.AddField(c.Class, c.Field)
}

func (c *AddFieldCommand) Undo() error {
	_, err := c.Diagram.DeleteField(c.Class, c.Field.Name)
	return err
}

// DeleteFieldCommand removes a field, remembering it for undo.
type DeleteFieldCommand struct {
	Diagram *model.Diagram
	Class   string
	Field   string

	removed model.Field
}

func (c *DeleteFieldCommand) Name() string { return "delete field" }

func (c *DeleteFieldCommand) Execute() error {
	f, err := c.Diagram.DeleteField(c.Class, c.Field)
	if err != nil {
		return err
	}
	c.removed = f
	return nil
}

func (c *DeleteFieldCommand) Undo() error {
	return c.Diagram.AddField(c.Class, c.removed)
}

// RenameFieldCommand renames a field.
type RenameFieldCommand struct {
	Diagram *model.Diagram
	Class   string
	OldName string
	NewName string
}

func (c *RenameFieldCommand) Name() string { return "rename field" }

func (c *RenameFieldCommand) Execute() error {
	return c.Diagram.RenameField(c.Class, c.OldName, c.NewName)
}

func (c *RenameFieldCommand) Undo() error {
	return c.Diagram.RenameField(c.Class, c.NewName, c.OldName)
}

// EditFieldTypeCommand changes a field's declared type.
type EditFieldTypeCommand struct {
	Diagram *model.Diagram
	Class   string
	Field   string
	NewType string

	oldType string
}

func (c *EditFieldTypeCommand) Name() string { return "edit field type" }

func (c *EditFieldTypeCommand) Execute() error {
	old, err := c.Diagram.EditFieldType(c.Class, c.Field, c.NewType)
	if err != nil {
		return err
	}
	c.oldType = old
	return nil
}

func (c *EditFieldTypeCommand) Undo() error {
	_, err := c.Diagram.EditFieldType(c.Class, c.Field, c.oldType)
	return err
}

// --- method commands ---

// AddMethodCommand adds a method to a class.
type AddMethodCommand struct {
	Diagram *model.Diagram
	Class   string
	Method  model.Method
}

func (c *AddMethodCommand) Name() string { return "add method" }

func (c *AddMethodCommand) Execute() error {
	return c.Diagram.AddMethod(c.Class, c.Method)
}

func (c *AddMethodCommand) Undo() error {
	_, err := c.Diagram.DeleteMethod(c.Class, c.Method.Signature())
	return err
}

// DeleteMethodCommand removes a method identified by its signature.
type DeleteMethodCommand struct {
	Diagram   *model.Diagram
	Class     string
	Signature string

	removed model.Method
}

func (c *DeleteMethodCommand) Name() string { return "delete method" }

func (c *DeleteMethodCommand) Execute() error {
	m, err := c.Diagram.DeleteMethod(c.Class, c.Signature)
	if err != nil {
		return err
	}
	c.removed = m
	return nil
}

func (c *DeleteMethodCommand) Undo() error {
	return c.Diagram.AddMethod(c.Class, c.removed)
}

// RenameMethodCommand renames a method, keeping its parameter list.
type RenameMethodCommand struct {
	Diagram   *model.Diagram
	Class     string
	Signature string
	NewName   string

	oldName      string
	newSignature string
}

func (c *RenameMethodCommand) Name() string { return "rename method" }

func (c *RenameMethodCommand) Execute() error {
	m, err := c.Diagram.Class(c.Class)
	if err != nil {
		return err
	}
	// Capture the current name and the post-rename signature before mutating.
	for _, method := range m.Methods {
		if method.Signature() == c.Signature {
			c.oldName = method.Name
			renamed := method
			renamed.Name = c.NewName
			c.newSignature = renamed.Signature()
			break
		}
	}
	return c.Diagram.RenameMethod(c.Class, c.Signature, c.NewName)
}

func (c *RenameMethodCommand) Undo() error {
	return c.Diagram.RenameMethod(c.Class, c.newSignature, c.oldName)
}

// EditParametersCommand replaces a method's parameter list.
type EditParametersCommand struct {
	Diagram   *model.Diagram
	Class     string
	Signature string
	Params    []model.Parameter

	oldParams    []model.Parameter
	newSignature string
}

func (c *EditParametersCommand) Name() string { return "edit parameters" }

func (c *EditParametersCommand) Execute() error {
	old, err := c.Diagram.EditParameters(c.Class, c.Signature, c.Params)
	if err != nil {
		return err
	}
	c.oldParams = old

	name := c.Signature
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	replaced := model.Method{Name: name, Params: c.Params}
	c.newSignature = replaced.Signature()
	return nil
}

func (c *EditParametersCommand) Undo() error {
	_, err := c.Diagram.EditParameters(c.Class, c.newSignature, c.oldParams)
	return err
}

// --- relationship commands ---

// AddRelationshipCommand links two classes.
type AddRelationshipCommand struct {
	Diagram     *model.Diagram
	Source      string
	Destination string
	Kind        model.Kind
}

func (c *AddRelationshipCommand) Name() string { return "add relationship" }

func (c *AddRelationshipCommand) Execute() error {
	return c.Diagram.AddRelationship(c.Source, c.Destination, c.Kind)
}

func (c *AddRelationshipCommand) Undo() error {
	_, err := c.Diagram.DeleteRelationship(c.Source, c.Destination)
	return err
}

// DeleteRelationshipCommand removes an edge, remembering its kind for undo.
type DeleteRelationshipCommand struct {
	Diagram     *model.Diagram
	Source      string
	Destination string

	removed model.Relationship
}

func (c *DeleteRelationshipCommand) Name() string { return "delete relationship" }

func (c *DeleteRelationshipCommand) Execute() error {
	r, err := c.Diagram.DeleteRelationship(c.Source, c.Destination)
	if err != nil {
		return err
	}
	c.removed = r
	return nil
}

func (c *DeleteRelationshipCommand) Undo() error {
	return c.Diagram.AddRelationship(c.removed.Source, c.removed.Destination, c.removed.Kind)
}

// EditRelationshipKindCommand changes an edge's kind in place.
type EditRelationshipKindCommand struct {
	Diagram     *model.Diagram
	Source      string
	Destination string
	NewKind     model.Kind

	oldKind model.Kind
}

func (c *EditRelationshipKindCommand) Name() string { return "edit relationship kind" }

func (c *EditRelationshipKindCommand) Execute() error {
	old, err := c.Diagram.EditRelationshipKind(c.Source, c.Destination, c.NewKind)
	if err != nil {
		return err
	}
	c.oldKind = old
	return nil
}

func (c *EditRelationshipKindCommand) Undo() error {
	_, err := c.Diagram.EditRelationshipKind(c.Source, c.Destination, c.oldKind)
	return err
}

// --- composite ---

// CompositeCommand groups an ordered command sequence into one history
// entry: executed front to back, undone back to front. If a step fails
// mid-execute, the already-applied steps are rolled back so the whole
// composite either applies or doesn't.
type CompositeCommand struct {
	Label    string
	Commands []Command
}

func (c *CompositeCommand) Name() string {
	if c.Label != "" {
		return c.Label
	}
	return "composite"
}

func (c *CompositeCommand) Execute() error {
	for i, cmd := range c.Commands {
		if err := cmd.Execute(); err != nil {
			for j := i - 1; j >= 0; j-- {
				// Rollback of already-applied steps; their undo cannot fail
				// because they just executed against the same state.
				_ = c.Commands[j].Undo()
			}
			return err
		}
	}
	return nil
}

func (c *CompositeCommand) Undo() error {
	for i := len(c.Commands) - 1; i >= 0; i-- {
		if err := c.Commands[i].Undo(); err != nil {
			return err
		}
	}
	return nil
}
