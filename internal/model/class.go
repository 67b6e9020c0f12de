package model

import (
	"fmt"
	"strings"
)

// Field is a named, typed attribute of a class.
type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Parameter is a named, typed method parameter.
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Method is a class operation: a name, a return type, and an ordered
// parameter list. Two methods on the same class may share a name as long as
// their parameter type sequences differ (overloading).
type Method struct {
	Name       string      `json:"name" yaml:"name"`
	ReturnType string      `json:"return_type" yaml:"return_type"`
	Params     []Parameter `json:"params" yaml:"params"`
}

// Signature returns the identity of a method within its class: the method
// name plus the ordered parameter type list. Parameter names and the return
// type do not participate.
func (m Method) Signature() string {
	types := make([]string, len(m.Params))
	for i, p := range m.Params {
		types[i] = p.Type
	}
	return m.Name + "(" + strings.Join(types, ",") + ")"
}

// clone returns a deep copy of the method.
func (m Method) clone() Method {
	out := Method{Name: m.Name, ReturnType: m.ReturnType}
	if m.Params != nil {
		out.Params = make([]Parameter, len(m.Params))
		copy(out.Params, m.Params)
	}
	return out
}

// Position is presentation metadata carried for views. The model stores it
// but never interprets it.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// ClassNode is one UML class: a unique name, ordered fields, ordered methods,
// and a view position. Instances handed out by Diagram are deep copies;
// mutating them does not affect the diagram.
type ClassNode struct {
	Name     string   `json:"name" yaml:"name"`
	Fields   []Field  `json:"fields" yaml:"fields"`
	Methods  []Method `json:"methods" yaml:"methods"`
	Position Position `json:"position" yaml:"position"`
}

// Clone returns a deep copy of the class.
func (c *ClassNode) Clone() *ClassNode {
	out := &ClassNode{Name: c.Name, Position: c.Position}
	if c.Fields != nil {
		out.Fields = make([]Field, len(c.Fields))
		copy(out.Fields, c.Fields)
	}
	if c.Methods != nil {
		out.Methods = make([]Method, 0, len(c.Methods))
		for _, m := range c.Methods {
			out.Methods = append(out.Methods, m.clone())
		}
	}
	return out
}

// fieldIndex returns the position of the named field, or -1.
func (c *ClassNode) fieldIndex(name string) int {
	for i, f := range c.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// methodIndex returns the position of the method with the given signature,
// or -1.
func (c *ClassNode) methodIndex(signature string) int {
	for i, m := range c.Methods {
		if m.Signature() == signature {
			return i
		}
	}
	return -1
}

func (c *ClassNode) String() string {
	return fmt.Sprintf("%s (%d fields, %d methods)", c.Name, len(c.Fields), len(c.Methods))
}
