// Package engine is the completion engine behind the marshalling layer.
//
// It answers two semantic questions about a source buffer with a cursor:
// which type is expected at the cursor (and which members of that type can
// be inserted implicitly), and which methods of an expression's type satisfy
// a requested protocol set. Results are produced through a two-phase
// parse/complete protocol and delivered via synchronous callbacks.
package engine

import "strings"

// Type identifies a declared type by module and name.
type Type struct {
	Module string
	Name   string
}

// DeclKind classifies an indexed member declaration.
type DeclKind int

const (
	KindProperty DeclKind = iota
	KindMethod
	KindInitializer
)

// Param is one parameter of a method or initializer signature.
type Param struct {
	Label string
	Type  string
}

// Decl is a member declaration attached to an indexed type. ResultType and
// parameter types may reference Self, which is substituted with the
// contextual type when the declaration is rendered.
type Decl struct {
	Name       string
	Kind       DeclKind
	Static     bool
	Params     []Param
	ResultType string
	Protocols  []string
	Origin     Origin
}

// Origin is the tagged source of a declaration's documentation. A
// declaration either carries its own brief doc attached during analysis
// (native) or points at a foreign declaration node whose nearest enclosing
// comment supplies it.
type Origin interface {
	BriefDoc() string
}

// NativeOrigin is a declaration analyzed from native source.
type NativeOrigin struct {
	Doc string
}

func (o NativeOrigin) BriefDoc() string { return o.Doc }

// ForeignNode is a node in a foreign (non-native) declaration tree.
// Comments may live on an enclosing node rather than the declaration
// itself.
type ForeignNode struct {
	Comment string
	Parent  *ForeignNode
}

// ForeignOrigin is a declaration imported from a foreign declaration node.
type ForeignOrigin struct {
	Node *ForeignNode
}

// BriefDoc returns the brief text of the nearest enclosing comment, or the
// empty string when no enclosing node carries one.
func (o ForeignOrigin) BriefDoc() string {
	for node := o.Node; node != nil; node = node.Parent {
		if node.Comment != "" {
			return briefText(node.Comment)
		}
	}
	return ""
}

// briefText reduces a raw documentation comment to its brief: the first
// sentence, or the first line if no sentence terminator is found.
func briefText(comment string) string {
	comment = strings.TrimSpace(comment)
	if idx := strings.Index(comment, ". "); idx >= 0 {
		return comment[:idx+1]
	}
	if idx := strings.IndexByte(comment, '\n'); idx >= 0 {
		return strings.TrimSpace(comment[:idx])
	}
	return comment
}

// BriefDoc resolves a declaration's brief documentation. A declaration
// with no origin and no attached doc yields the empty string; this is an
// expected outcome, not a lookup failure.
func BriefDoc(d *Decl) string {
	if d.Origin == nil {
		return ""
	}
	return d.Origin.BriefDoc()
}

// TypeInfo is one indexed type together with its member declarations.
type TypeInfo struct {
	Type    Type
	Members []*Decl
}
