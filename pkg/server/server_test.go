package server

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/typeserve/pkg/config"
	"github.com/bastiangx/typeserve/pkg/engine"
	"github.com/bastiangx/typeserve/pkg/query"
)

func testService() *query.Service {
	ix := engine.NewIndex()
	ix.AddType(&engine.TypeInfo{
		Type: engine.Type{Module: "std", Name: "Int"},
		Members: []*engine.Decl{
			{Name: "max", Kind: engine.KindProperty, Static: true, ResultType: "Self"},
			{Name: "init", Kind: engine.KindInitializer,
				Params: []engine.Param{{Label: "from", Type: "String"}}},
		},
	})
	ix.AddType(&engine.TypeInfo{
		Type: engine.Type{Module: "app", Name: "Counter"},
		Members: []*engine.Decl{
			{Name: "advanced", Kind: engine.KindMethod, ResultType: "Self",
				Params:    []engine.Param{{Label: "by", Type: "Int"}},
				Protocols: []string{"Strideable"}},
		},
	})
	return query.NewService(ix)
}

// runServer feeds the encoded requests through a server and returns a
// decoder over everything it wrote, positioned after the ready status.
func runServer(t *testing.T, cfg *config.Config, requests ...QueryRequest) *msgpack.Decoder {
	t.Helper()

	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, req := range requests {
		if err := enc.Encode(req); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	srv := NewServerWithIO(testService(), cfg, &in, &out)
	if err := srv.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	dec := msgpack.NewDecoder(&out)
	var ready map[string]string
	if err := dec.Decode(&ready); err != nil {
		t.Fatalf("decoding ready status: %v", err)
	}
	if ready["status"] != "ready" {
		t.Fatalf("ready status = %v", ready)
	}
	return dec
}

func TestTypeContextRequest(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), QueryRequest{
		ID:      "req_001",
		Command: "ctx",
		File:    "main.code",
		Buffer:  "let x: Int = ",
		Offset:  13,
		Args:    []string{"main.code"},
	})

	var resp QueryResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.ID != "req_001" {
		t.Errorf("id = %q", resp.ID)
	}
	if resp.Count != 1 || len(resp.Items) != 1 {
		t.Fatalf("count = %d, items = %d", resp.Count, len(resp.Items))
	}
	item := resp.Items[0]
	if item.TypeName != "Int" || item.TypeID != "t:std.Int" {
		t.Errorf("item = %+v", item)
	}
	if len(item.Members) != 2 {
		t.Fatalf("members = %d", len(item.Members))
	}
	if item.Members[1].Name != "init(from:)" {
		t.Errorf("member name = %q", item.Members[1].Name)
	}
	if !strings.Contains(item.Members[1].SourceText, "<#String#>") {
		t.Errorf("source text = %q", item.Members[1].SourceText)
	}
}

func TestConformingMethodsRequest(t *testing.T) {
	buffer := "let c: Counter = makeCounter()\nc."
	dec := runServer(t, config.DefaultConfig(), QueryRequest{
		ID:        "req_002",
		Command:   "methods",
		File:      "main.code",
		Buffer:    buffer,
		Offset:    len(buffer),
		Args:      []string{"main.code"},
		TypeNames: []string{"Strideable"},
	})

	var resp QueryResponse
	if err := dec.Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Count != 1 {
		t.Fatalf("count = %d", resp.Count)
	}
	item := resp.Items[0]
	if item.TypeName != "Counter" {
		t.Errorf("subject type = %q", item.TypeName)
	}
	if len(item.Members) != 1 {
		t.Fatalf("members = %d", len(item.Members))
	}
	m := item.Members[0]
	if m.TypeName != "Counter" || m.TypeID != "t:app.Counter" {
		t.Errorf("result type = %q / %q, want the substituted subject", m.TypeName, m.TypeID)
	}
}

func TestQueryFailureBecomesErrorResponse(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), QueryRequest{
		ID:      "req_003",
		Command: "ctx",
		File:    "main.code",
		Buffer:  "let x: Int = ",
		Offset:  13,
		// No args: the engine rejects the request.
	})

	var errResp QueryError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatalf("decoding error: %v", err)
	}
	if errResp.ID != "req_003" || errResp.Code != 422 {
		t.Errorf("error = %+v", errResp)
	}
	if errResp.Error != "no input filenames specified" {
		t.Errorf("message = %q", errResp.Error)
	}
}

func TestValidationRejectsOversizedBuffer(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxBufferBytes = 8

	dec := runServer(t, cfg, QueryRequest{
		ID:      "req_004",
		Command: "ctx",
		File:    "main.code",
		Buffer:  "let x: Int = ",
		Offset:  13,
		Args:    []string{"main.code"},
	})

	var errResp QueryError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Code != 413 {
		t.Errorf("code = %d, want 413", errResp.Code)
	}
}

func TestValidationRejectsMissingTypeNames(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), QueryRequest{
		ID:      "req_005",
		Command: "methods",
		File:    "main.code",
		Buffer:  "c.",
		Offset:  2,
		Args:    []string{"main.code"},
	})

	var errResp QueryError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Code != 400 || !strings.Contains(errResp.Error, "types") {
		t.Errorf("error = %+v", errResp)
	}
}

func TestUnknownCommand(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(), QueryRequest{
		ID:      "req_006",
		Command: "bogus",
	})

	var errResp QueryError
	if err := dec.Decode(&errResp); err != nil {
		t.Fatal(err)
	}
	if errResp.Code != 400 || !strings.Contains(errResp.Error, "bogus") {
		t.Errorf("error = %+v", errResp)
	}
}

func TestHealthAndStats(t *testing.T) {
	dec := runServer(t, config.DefaultConfig(),
		QueryRequest{ID: "h1", Command: "health"},
		QueryRequest{ID: "s1", Command: "stats"},
	)

	var health map[string]string
	if err := dec.Decode(&health); err != nil {
		t.Fatal(err)
	}
	if health["status"] != "ok" {
		t.Errorf("health = %v", health)
	}

	var stats StatsResponse
	if err := dec.Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.ID != "s1" || stats.Status != "ok" {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSequentialRequestsReuseEngineState(t *testing.T) {
	req := QueryRequest{
		ID:      "req_007",
		Command: "ctx",
		File:    "main.code",
		Buffer:  "let x: Int = ",
		Offset:  13,
		Args:    []string{"main.code"},
	}
	second := req
	second.ID = "req_008"
	dec := runServer(t, config.DefaultConfig(), req, second, QueryRequest{ID: "s2", Command: "stats"})

	var a, b QueryResponse
	if err := dec.Decode(&a); err != nil {
		t.Fatal(err)
	}
	if err := dec.Decode(&b); err != nil {
		t.Fatal(err)
	}
	if a.Count != b.Count || len(a.Items) != len(b.Items) {
		t.Error("reused engine state changed the results")
	}

	var stats StatsResponse
	if err := dec.Decode(&stats); err != nil {
		t.Fatal(err)
	}
	if stats.Misses != 1 || stats.Hits != 1 {
		t.Errorf("cache stats = %+v, want one miss then one hit", stats)
	}
}
