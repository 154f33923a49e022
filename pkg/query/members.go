package query

import (
	"github.com/bastiangx/typeserve/pkg/arena"
	"github.com/bastiangx/typeserve/pkg/engine"
)

// Field encoding order is fixed: name, substituted result type (conforming
// members only), description, source text, doc brief. Later fields share
// rendering machinery with earlier ones and the order is part of the
// marshalled layout.

func appendImplicitMember(a *arena.Arena, expected engine.Type, d *engine.Decl) ImplicitMember {
	var m ImplicitMember
	m.Name = a.Append(engine.PrintDeclName(d))
	m.Description = a.Append(engine.PrintDeclDescription(d, expected, false))
	m.SourceText = a.Append(engine.PrintDeclDescription(d, expected, true))
	m.BriefDoc = engine.BriefDoc(d)
	return m
}

func appendConformingMember(a *arena.Arena, ix *engine.Index, subject engine.Type, d *engine.Decl) ConformingMember {
	// The engine substitutes the subject type into the method's declared
	// signature; the marshalled result type is the concrete one, never the
	// raw generic declaration.
	resultType := ix.MethodResultType(subject, d)

	var m ConformingMember
	m.Name = a.Append(engine.PrintDeclName(d))
	m.TypeName = a.Append(engine.PrintTypeName(resultType))
	m.TypeID = a.Append(engine.PrintTypeID(resultType))
	m.Description = a.Append(engine.PrintDeclDescription(d, subject, false))
	m.SourceText = a.Append(engine.PrintDeclDescription(d, subject, true))
	m.BriefDoc = engine.BriefDoc(d)
	return m
}
