package query

import (
	"github.com/bastiangx/typeserve/pkg/arena"
	"github.com/bastiangx/typeserve/pkg/engine"
)

// Emitters implement the engine's callback side. Every engine result gets
// a fresh arena, is encoded, finished, and forwarded before the next
// callback runs; results never share storage.

type typeContextEmitter struct {
	consumer TypeContextConsumer
}

func (e *typeContextEmitter) handleItem(item engine.TypeContextItem) {
	var a arena.Arena
	res := &TypeContextResult{
		TypeName: a.Append(engine.PrintTypeName(item.ExpectedType)),
		TypeID:   a.Append(engine.PrintTypeID(item.ExpectedType)),
	}
	for _, d := range item.Members {
		res.Members = append(res.Members, appendImplicitMember(&a, item.ExpectedType, d))
	}
	res.storage = a.Finish()
	e.consumer.HandleResult(res)
}

type conformingMethodsEmitter struct {
	index    *engine.Index
	consumer ConformingMethodConsumer
}

func (e *conformingMethodsEmitter) handleItem(item engine.ConformingMethodsItem) {
	var a arena.Arena
	res := &ConformingMethodResult{
		TypeName: a.Append(engine.PrintTypeName(item.ExprType)),
		TypeID:   a.Append(engine.PrintTypeID(item.ExprType)),
	}
	for _, d := range item.Members {
		res.Members = append(res.Members, appendConformingMember(&a, e.index, item.ExprType, d))
	}
	res.storage = a.Finish()
	e.consumer.HandleResult(res)
}
