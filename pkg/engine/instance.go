package engine

import (
	"fmt"
	"strings"
)

// TypeContextItem is one expected type at the cursor together with the
// member declarations that can be inserted implicitly in that position.
type TypeContextItem struct {
	ExpectedType Type
	Members      []*Decl
}

// ConformingMethodsItem is the type of the expression before the cursor
// together with its methods that satisfy the requested protocol set.
type ConformingMethodsItem struct {
	ExprType Type
	Members  []*Decl
}

// Instance holds the compilation state for one patched buffer. Instances
// are built once per (config, buffer, offset) shape and may be reused
// across identical requests; reuse keeps the parser state so the parse
// pass is skipped. An instance is not safe for concurrent use — the cache
// pins it to a single request at a time.
type Instance struct {
	cfg    *Config
	index  *Index
	buf    Buffer
	offset int

	parsed     bool
	parseCount int
	imports    []string
	bindings   map[string]string

	diag func(string)
}

func newInstance(cfg *Config, ix *Index, buf Buffer, offset int) *Instance {
	return &Instance{
		cfg:      cfg,
		index:    ix,
		buf:      buf,
		offset:   offset,
		bindings: make(map[string]string),
	}
}

// Index exposes the declaration index this instance completes against.
func (in *Instance) Index() *Index { return in.index }

// HasParserState reports whether a prior request already ran the parse
// pass on this instance.
func (in *Instance) HasParserState() bool { return in.parsed }

// ParseCount returns how many times the parse pass has run. Reused
// instances keep their count at one.
func (in *Instance) ParseCount() int { return in.parseCount }

// SetDiagConsumer attaches a diagnostic consumer for the current request.
// The coordinator must clear it before returning so consumers never
// outlive a single request.
func (in *Instance) SetDiagConsumer(fn func(string)) { in.diag = fn }

// ClearDiagConsumer detaches the current diagnostic consumer.
func (in *Instance) ClearDiagConsumer() { in.diag = nil }

func (in *Instance) diagnose(format string, args ...any) {
	if in.diag != nil {
		in.diag(fmt.Sprintf(format, args...))
	}
}

// ParseOnly runs the parse-and-resolve-imports pass: it records import
// declarations and let/var bindings without any semantic analysis. Full
// type resolution is deferred to the completion pass.
func (in *Instance) ParseOnly() {
	in.parseCount++
	in.parsed = true
	in.imports = in.imports[:0]
	clear(in.bindings)

	for _, raw := range strings.Split(in.buf.Text, "\n") {
		line := strings.TrimSpace(strings.ReplaceAll(raw, marker, ""))
		switch {
		case strings.HasPrefix(line, "import "):
			name := strings.TrimSpace(strings.TrimPrefix(line, "import "))
			if name != "" {
				in.imports = append(in.imports, name)
			}
		case strings.HasPrefix(line, "let ") || strings.HasPrefix(line, "var "):
			rest := line[4:]
			if !strings.Contains(rest, ":") {
				// Untyped binding; inference belongs to the completion pass.
				continue
			}
			name, typeName, ok := parseBinding(rest)
			if !ok {
				in.diagnose("cannot parse binding: %q", line)
				continue
			}
			in.bindings[name] = typeName
		}
	}
}

// parseBinding extracts the name and declared type from the remainder of a
// let/var line, e.g. "x: Int = 0" yields ("x", "Int").
func parseBinding(rest string) (name, typeName string, ok bool) {
	colon := strings.IndexByte(rest, ':')
	if colon < 0 {
		return "", "", false
	}
	name = strings.TrimSpace(rest[:colon])
	typePart := rest[colon+1:]
	if eq := strings.IndexByte(typePart, '='); eq >= 0 {
		typePart = typePart[:eq]
	}
	typeName = strings.TrimSpace(typePart)
	if name == "" || typeName == "" || !isIdentifier(name) || !isIdentifier(typeName) {
		return "", "", false
	}
	return name, typeName, true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// CompleteTypeContext runs the second pass for a type-context query. The
// callback is invoked once per plausible expected type at the cursor, in
// index order; an unrecognized cursor position produces zero invocations
// and no error.
func (in *Instance) CompleteTypeContext(onItem func(TypeContextItem)) error {
	before, ok := in.textBeforeMarker()
	if !ok {
		return nil
	}

	typeName, ok := in.expectedTypeName(before)
	if !ok {
		return nil
	}
	for _, ti := range in.visibleTypes(typeName) {
		item := TypeContextItem{ExpectedType: ti.Type}
		for _, d := range ti.Members {
			if isImplicitMember(d, ti.Type) {
				item.Members = append(item.Members, d)
			}
		}
		onItem(item)
	}
	return nil
}

// CompleteConformingMethods runs the second pass for a conforming-methods
// query, filtering the subject type's methods through the requested
// protocol names.
func (in *Instance) CompleteConformingMethods(typeNames []string, onItem func(ConformingMethodsItem)) error {
	before, ok := in.textBeforeMarker()
	if !ok {
		return nil
	}

	trimmed := strings.TrimRight(before, " \t")
	if !strings.HasSuffix(trimmed, ".") {
		return nil
	}
	subjectName, ok := in.subjectTypeName(strings.TrimSuffix(trimmed, "."))
	if !ok {
		return nil
	}
	candidates := in.visibleTypes(subjectName)
	if len(candidates) == 0 {
		return nil
	}
	subject := candidates[0]

	item := ConformingMethodsItem{ExprType: subject.Type}
	for _, d := range subject.Members {
		if d.Kind == KindMethod && satisfiesAny(d, typeNames) {
			item.Members = append(item.Members, d)
		}
	}
	onItem(item)
	return nil
}

func (in *Instance) textBeforeMarker() (string, bool) {
	idx := strings.Index(in.buf.Text, marker)
	if idx < 0 {
		in.diagnose("no completion marker in buffer %s", in.buf.Name)
		return "", false
	}
	return in.buf.Text[:idx], true
}

// expectedTypeName detects the expected type at an assignment position:
// either an annotated let/var binding being initialized, or an assignment
// to a binding recorded by the parse pass.
func (in *Instance) expectedTypeName(before string) (string, bool) {
	trimmed := strings.TrimRight(before, " \t")
	if !strings.HasSuffix(trimmed, "=") {
		return "", false
	}
	lhs := strings.TrimRight(strings.TrimSuffix(trimmed, "="), " \t")
	if start := strings.LastIndexByte(lhs, '\n'); start >= 0 {
		lhs = lhs[start+1:]
	}
	lhs = strings.TrimSpace(lhs)

	if strings.HasPrefix(lhs, "let ") || strings.HasPrefix(lhs, "var ") {
		if colon := strings.IndexByte(lhs, ':'); colon >= 0 {
			typeName := strings.TrimSpace(lhs[colon+1:])
			if isIdentifier(typeName) {
				return typeName, true
			}
		}
		return "", false
	}
	if typeName, bound := in.bindings[lhs]; bound {
		return typeName, true
	}
	return "", false
}

// subjectTypeName resolves the expression left of a member access: a
// binding recorded by the parse pass, a literal, or a bare type name for
// static access.
func (in *Instance) subjectTypeName(expr string) (string, bool) {
	if start := strings.LastIndexByte(expr, '\n'); start >= 0 {
		expr = expr[start+1:]
	}
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", false
	}

	if strings.HasSuffix(expr, "\"") {
		return "String", true
	}

	ident := trailingIdentifier(expr)
	if ident == "" {
		return "", false
	}
	switch {
	case ident == "true" || ident == "false":
		return "Bool", true
	case isInteger(ident):
		return "Int", true
	}
	if typeName, bound := in.bindings[ident]; bound {
		return typeName, true
	}
	if len(in.index.LookupName(ident)) > 0 {
		return ident, true
	}
	return "", false
}

func trailingIdentifier(s string) string {
	end := len(s)
	start := end
	for start > 0 {
		c := s[start-1]
		if c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			start--
			continue
		}
		break
	}
	return s[start:end]
}

func isInteger(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// visibleTypes filters name collisions through the buffer's imports. The
// base module set is the imports plus std and the invocation's own module;
// when nothing survives the filter the unfiltered candidates are kept, so
// an incomplete import list degrades to broader results rather than none.
func (in *Instance) visibleTypes(name string) []*TypeInfo {
	candidates := in.index.LookupName(name)
	if len(candidates) == 0 {
		return nil
	}

	visible := map[string]bool{"std": true}
	if in.cfg.ModuleName != "" {
		visible[in.cfg.ModuleName] = true
	}
	for _, imp := range in.imports {
		visible[imp] = true
	}

	var filtered []*TypeInfo
	for _, ti := range candidates {
		if visible[ti.Type.Module] {
			filtered = append(filtered, ti)
		}
	}
	if len(filtered) == 0 {
		return candidates
	}
	return filtered
}

// isImplicitMember reports whether a member can be inserted implicitly at
// a position expecting its owning type: initializers, and static members
// whose substituted result is the expected type itself.
func isImplicitMember(d *Decl, expected Type) bool {
	if d.Kind == KindInitializer {
		return true
	}
	return d.Static && SubstSelf(d.ResultType, expected) == expected.Name
}

func satisfiesAny(d *Decl, typeNames []string) bool {
	for _, want := range typeNames {
		for _, have := range d.Protocols {
			if want == have {
				return true
			}
		}
	}
	return false
}
