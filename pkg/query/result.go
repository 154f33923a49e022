/*
Package query is the result-marshalling layer over the completion engine.

It owns the per-request lifecycle — buffer patching, engine-state
acquisition and reuse, the two-phase parse/complete protocol — and flattens
the engine's graph-backed answers into self-contained records whose string
fields live in a single arena, addressed by spans. Results are safe to hand
across a process boundary: they reference nothing but their own storage.
*/
package query

import "github.com/bastiangx/typeserve/pkg/arena"

// ImplicitMember is one insertable member of an expected type.
type ImplicitMember struct {
	Name        arena.Span
	Description arena.Span
	SourceText  arena.Span
	BriefDoc    string
}

// TypeContextResult is one expected type at the cursor with its implicit
// members, in engine emission order. All spans resolve against the
// result's own storage via Text.
type TypeContextResult struct {
	TypeName arena.Span
	TypeID   arena.Span
	Members  []ImplicitMember

	storage string
}

// Text resolves a span of this result against its owned storage.
func (r *TypeContextResult) Text(s arena.Span) string {
	return s.In(r.storage)
}

// ConformingMember is one method satisfying the requested protocol set.
// TypeName and TypeID describe the method's result type after the subject
// type has been substituted into its signature.
type ConformingMember struct {
	Name        arena.Span
	TypeName    arena.Span
	TypeID      arena.Span
	Description arena.Span
	SourceText  arena.Span
	BriefDoc    string
}

// ConformingMethodResult is the subject expression type with its
// conforming methods, in engine emission order.
type ConformingMethodResult struct {
	TypeName arena.Span
	TypeID   arena.Span
	Members  []ConformingMember

	storage string
}

// Text resolves a span of this result against its owned storage.
func (r *ConformingMethodResult) Text(s arena.Span) string {
	return s.In(r.storage)
}

// TypeContextConsumer receives zero or more results for a type-context
// query, or exactly one failure with a message. Zero results with no
// failure is a valid outcome and is distinct from failure.
type TypeContextConsumer interface {
	HandleResult(*TypeContextResult)
	Failed(message string)
}

// ConformingMethodConsumer receives zero or more results for a
// conforming-methods query, or exactly one failure with a message.
type ConformingMethodConsumer interface {
	HandleResult(*ConformingMethodResult)
	Failed(message string)
}

// TypeContextFuncs adapts plain functions to TypeContextConsumer.
type TypeContextFuncs struct {
	OnResult  func(*TypeContextResult)
	OnFailure func(string)
}

func (f TypeContextFuncs) HandleResult(r *TypeContextResult) {
	if f.OnResult != nil {
		f.OnResult(r)
	}
}

func (f TypeContextFuncs) Failed(message string) {
	if f.OnFailure != nil {
		f.OnFailure(message)
	}
}

// ConformingMethodFuncs adapts plain functions to ConformingMethodConsumer.
type ConformingMethodFuncs struct {
	OnResult  func(*ConformingMethodResult)
	OnFailure func(string)
}

func (f ConformingMethodFuncs) HandleResult(r *ConformingMethodResult) {
	if f.OnResult != nil {
		f.OnResult(r)
	}
}

func (f ConformingMethodFuncs) Failed(message string) {
	if f.OnFailure != nil {
		f.OnFailure(message)
	}
}
