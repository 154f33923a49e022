package engine

import "testing"

// testIndex builds the small declaration table shared by the engine tests:
// Int in both std and bignum (a name collision), plus a user type with
// protocol methods.
func testIndex() *Index {
	ix := NewIndex()
	ix.AddType(&TypeInfo{
		Type: Type{Module: "std", Name: "Int"},
		Members: []*Decl{
			{Name: "max", Kind: KindProperty, Static: true, ResultType: "Self",
				Origin: NativeOrigin{Doc: "The maximum representable value."}},
			{Name: "min", Kind: KindProperty, Static: true, ResultType: "Self"},
			{Name: "init", Kind: KindInitializer,
				Params: []Param{{Label: "from", Type: "String"}}},
			{Name: "description", Kind: KindProperty, ResultType: "String"},
		},
	})
	ix.AddType(&TypeInfo{
		Type: Type{Module: "bignum", Name: "Int"},
		Members: []*Decl{
			{Name: "zero", Kind: KindProperty, Static: true, ResultType: "Self"},
		},
	})
	ix.AddType(&TypeInfo{
		Type: Type{Module: "std", Name: "String"},
		Members: []*Decl{
			{Name: "uppercased", Kind: KindMethod, ResultType: "Self", Protocols: []string{"Printable"}},
		},
	})
	ix.AddType(&TypeInfo{
		Type: Type{Module: "app", Name: "Counter"},
		Members: []*Decl{
			{Name: "advanced", Kind: KindMethod, ResultType: "Self",
				Params:    []Param{{Label: "by", Type: "Int"}},
				Protocols: []string{"Strideable"},
				Origin:    NativeOrigin{Doc: "Returns a counter advanced by the given amount."}},
			{Name: "reset", Kind: KindMethod, ResultType: "Self", Protocols: []string{"Resettable"},
				Origin: ForeignOrigin{Node: &ForeignNode{
					Parent: &ForeignNode{Comment: "Resets the counter. Further detail follows."},
				}}},
			{Name: "describe", Kind: KindMethod, ResultType: "String"},
		},
	})
	return ix
}

func TestLookupNamePreservesRegistrationOrder(t *testing.T) {
	ix := testIndex()

	infos := ix.LookupName("Int")
	if len(infos) != 2 {
		t.Fatalf("expected 2 Int entries, got %d", len(infos))
	}
	if infos[0].Type.Module != "std" || infos[1].Type.Module != "bignum" {
		t.Errorf("registration order not preserved: %s then %s",
			infos[0].Type.Module, infos[1].Type.Module)
	}

	if got := ix.LookupName("Nonexistent"); got != nil {
		t.Errorf("expected nil for unknown name, got %v", got)
	}
}

func TestTypesWithPrefix(t *testing.T) {
	ix := testIndex()

	all := ix.TypesWithPrefix("")
	if len(all) != 4 {
		t.Fatalf("expected 4 types, got %d", len(all))
	}
	ints := ix.TypesWithPrefix("In")
	if len(ints) != 2 {
		t.Fatalf("expected 2 types with prefix In, got %d", len(ints))
	}
	for _, ti := range ints {
		if ti.Type.Name != "Int" {
			t.Errorf("unexpected type %s under prefix In", ti.Type.Name)
		}
	}
}

func TestMethodResultTypeSubstitutesSelf(t *testing.T) {
	ix := testIndex()
	counter := Type{Module: "app", Name: "Counter"}
	advanced := ix.LookupName("Counter")[0].Members[0]

	got := ix.MethodResultType(counter, advanced)
	if got.Name != "Counter" || got.Module != "app" {
		t.Errorf("got %+v, want app.Counter", got)
	}
}

func TestMethodResultTypeResolvesConcreteResult(t *testing.T) {
	ix := testIndex()
	counter := Type{Module: "app", Name: "Counter"}
	describe := ix.LookupName("Counter")[0].Members[2]

	// String resolves uniquely in the index, so the result carries its
	// defining module rather than the subject's.
	got := ix.MethodResultType(counter, describe)
	if got.Name != "String" || got.Module != "std" {
		t.Errorf("got %+v, want std.String", got)
	}
}

func TestIndexStats(t *testing.T) {
	ix := testIndex()
	stats := ix.Stats()
	if stats["types"] != 4 {
		t.Errorf("types = %d, want 4", stats["types"])
	}
	if stats["members"] != 9 {
		t.Errorf("members = %d, want 9", stats["members"])
	}
	if stats["modules"] != 3 {
		t.Errorf("modules = %d, want 3", stats["modules"])
	}
}
