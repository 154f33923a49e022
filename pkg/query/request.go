package query

import (
	"github.com/charmbracelet/log"

	"github.com/bastiangx/typeserve/internal/utils"
	"github.com/bastiangx/typeserve/pkg/engine"
)

// Service answers completion-info queries against a shared engine
// instance cache. One Service is created per index and shared by every
// frontend (IPC server, CLI).
type Service struct {
	cache *engine.Cache
}

// NewService creates a query service over a declaration index. The index
// may be nil when requests name their own via -index.
func NewService(ix *engine.Index) *Service {
	return &Service{cache: engine.NewCache(ix)}
}

// CacheStats exposes engine-instance cache counters.
func (s *Service) CacheStats() map[string]int {
	return s.cache.Stats()
}

// GetExpressionContextInfo runs a type-context query: which type is
// expected at offset, and which of its members can be inserted implicitly.
// The consumer receives zero or more results, or exactly one failure.
func (s *Service) GetExpressionContextInfo(buf engine.Buffer, offset int, args []string, overlay engine.Overlay, consumer TypeContextConsumer) {
	err := s.run(buf, offset, args, overlay, func(inst *engine.Instance) error {
		emitter := &typeContextEmitter{consumer: consumer}
		return inst.CompleteTypeContext(emitter.handleItem)
	})
	if err != nil {
		consumer.Failed(err.Error())
	}
}

// GetConformingMethodList runs a conforming-methods query: which methods
// of the expression's type at offset satisfy the requested protocol names.
// The consumer receives zero or more results, or exactly one failure.
func (s *Service) GetConformingMethodList(buf engine.Buffer, offset int, args []string, typeNames []string, overlay engine.Overlay, consumer ConformingMethodConsumer) {
	err := s.run(buf, offset, args, overlay, func(inst *engine.Instance) error {
		emitter := &conformingMethodsEmitter{index: inst.Index(), consumer: consumer}
		return inst.CompleteConformingMethods(typeNames, emitter.handleItem)
	})
	if err != nil {
		consumer.Failed(err.Error())
	}
}

// run drives the request lifecycle shared by both query variants. The
// secondPass argument selects the query-specific callback factory.
// Failures short-circuit: the first error terminates the request and is
// reported once; retry policy belongs to the caller.
func (s *Service) run(buf engine.Buffer, offset int, args []string, overlay engine.Overlay, secondPass func(*engine.Instance) error) error {
	buf.Name = canonicalName(buf.Name, overlay)
	patched := engine.PatchBuffer(buf, offset)

	cfg, err := engine.ParseArgs(args)
	if err != nil {
		return err
	}
	if len(cfg.Inputs) == 0 {
		return &engine.ConfigError{Message: "no input filenames specified"}
	}

	inst, release, err := s.cache.Acquire(cfg, patched, offset)
	if err != nil {
		return err
	}
	defer release()

	inst.SetDiagConsumer(func(msg string) {
		log.Debugf("engine diagnostic: %s", msg)
	})
	// Diagnostic consumers never outlive a single request.
	defer inst.ClearDiagConsumer()

	if !inst.HasParserState() {
		inst.ParseOnly()
	}
	return secondPass(inst)
}

// canonicalName resolves the buffer's declared identity to a real path.
// Overlay entries are virtual and already canonical. Resolution failures
// are swallowed and the original identifier retained.
func canonicalName(name string, overlay engine.Overlay) string {
	if _, virtual := overlay[name]; virtual {
		return name
	}
	resolved, err := utils.RealPath(name)
	if err != nil {
		log.Debugf("real-path resolution failed for %s: %v", name, err)
		return name
	}
	return resolved
}
