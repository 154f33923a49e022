/*
Package server implements msgpack IPC for completion-info queries.

The server package provides a minimal interface for type-context and
conforming-method queries using msgpack serialization over stdin/stdout.

The protocol uses binary msgpack encoding and supports the two query
variants plus health and cache-stat ops. Messages are processed
synchronously with timing info included in responses.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message contains an ID field and other fields based on the operation
type.

Type-context requests use mainly this structure:

	{"id": "req_001", "cmd": "ctx", "f": "main.code", "b": "let x: Int = ", "off": 13, "args": ["main.code"]}

The server responds with one item per expected type at the cursor:

	{"id": "req_001", "items": [{"tn": "Int", "tid": "t:std.Int", "m": [...]}], "c": 1, "t": 145}

Conforming-method requests add the protocol names to match:

	{"id": "req_002", "cmd": "methods", "types": ["Strideable"], ...}

Response structures include status information and error details when an
op fails. Member payloads carry resolved strings; span bookkeeping stays
on the server side.

msgpack encoding has ~30 to 50% smaller message sizes compared to JSON.
binary format enables faster parsing and generation, less errors and
reducing latency by ~40 to 70% in most cases.
*/
package server

// QueryRequest - minimal completion-info request
type QueryRequest struct {
	ID        string            `msgpack:"id"`
	Command   string            `msgpack:"cmd"` // "ctx", "methods", "health", "stats"
	File      string            `msgpack:"f,omitempty"`
	Buffer    string            `msgpack:"b,omitempty"`
	Offset    int               `msgpack:"off,omitempty"`
	Args      []string          `msgpack:"args,omitempty"`
	TypeNames []string          `msgpack:"types,omitempty"` // for "methods"
	Overlay   map[string]string `msgpack:"overlay,omitempty"`
}

// MemberPayload - one member with its strings resolved
type MemberPayload struct {
	Name        string `msgpack:"n"`
	TypeName    string `msgpack:"tn,omitempty"` // methods only: substituted result type
	TypeID      string `msgpack:"tid,omitempty"`
	Description string `msgpack:"d"`
	SourceText  string `msgpack:"s"`
	BriefDoc    string `msgpack:"doc,omitempty"`
}

// ItemPayload - one result item (expected type or subject type)
type ItemPayload struct {
	TypeName string          `msgpack:"tn"`
	TypeID   string          `msgpack:"tid"`
	Members  []MemberPayload `msgpack:"m"`
}

// QueryResponse - query response
type QueryResponse struct {
	ID        string        `msgpack:"id"`
	Items     []ItemPayload `msgpack:"items"`
	Count     int           `msgpack:"c"`
	TimeTaken int64         `msgpack:"t"` // microseconds
}

// StatsResponse - engine-cache counters
type StatsResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Hits   int    `msgpack:"hits"`
	Misses int    `msgpack:"misses"`
}

// QueryError holds basic error information for query requests
type QueryError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
