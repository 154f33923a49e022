package engine

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Index is the declaration table the engine completes against. Types are
// keyed by bare name in a patricia trie; the same name declared in several
// modules shares one trie node, which is what produces the multi-result
// case for type-context queries.
type Index struct {
	trie         *patricia.Trie
	totalTypes   int
	totalMembers int
	modules      map[string]bool
}

// NewIndex creates an empty declaration index.
func NewIndex() *Index {
	return &Index{
		trie:    patricia.NewTrie(),
		modules: make(map[string]bool),
	}
}

// AddType registers a type and its members. Registration order within one
// name is preserved across lookups.
func (ix *Index) AddType(ti *TypeInfo) {
	key := patricia.Prefix(ti.Type.Name)
	if item := ix.trie.Get(key); item != nil {
		existing := item.([]*TypeInfo)
		ix.trie.Set(key, append(existing, ti))
	} else {
		ix.trie.Insert(key, []*TypeInfo{ti})
	}
	ix.totalTypes++
	ix.totalMembers += len(ti.Members)
	if ti.Type.Module != "" {
		ix.modules[ti.Type.Module] = true
	}
}

// LookupName returns every indexed type with the given bare name, in
// registration order.
func (ix *Index) LookupName(name string) []*TypeInfo {
	item := ix.trie.Get(patricia.Prefix(name))
	if item == nil {
		return nil
	}
	return item.([]*TypeInfo)
}

// TypesWithPrefix returns every indexed type whose name starts with prefix,
// sorted by name then module. Used by the debug CLI to inspect the index.
func (ix *Index) TypesWithPrefix(prefix string) []*TypeInfo {
	var out []*TypeInfo
	err := ix.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, item patricia.Item) error {
		out = append(out, item.([]*TypeInfo)...)
		return nil
	})
	if err != nil {
		log.Errorf("Error visiting index subtree: %v", err)
		return nil
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type.Name != out[j].Type.Name {
			return out[i].Type.Name < out[j].Type.Name
		}
		return out[i].Type.Module < out[j].Type.Module
	})
	return out
}

// MethodResultType computes a method's result type with the subject type
// substituted as the member's owner, yielding a concrete signature for a
// possibly generic declaration. When the substituted name resolves to
// exactly one indexed type, that type's module wins; otherwise the result
// stays in the subject's module.
func (ix *Index) MethodResultType(subject Type, d *Decl) Type {
	name := SubstSelf(d.ResultType, subject)
	if candidates := ix.LookupName(name); len(candidates) == 1 {
		return candidates[0].Type
	}
	return Type{Module: subject.Module, Name: name}
}

// Stats returns counters about the loaded index.
func (ix *Index) Stats() map[string]int {
	return map[string]int{
		"types":   ix.totalTypes,
		"members": ix.totalMembers,
		"modules": len(ix.modules),
	}
}
