package server

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/bastiangx/typeserve/internal/logger"
	"github.com/bastiangx/typeserve/pkg/config"
	"github.com/bastiangx/typeserve/pkg/engine"
	"github.com/bastiangx/typeserve/pkg/query"
)

// Server handles the IPC for completion-info queries
type Server struct {
	service *query.Service
	cfg     *config.Config
	decoder *msgpack.Decoder
	encoder *msgpack.Encoder
	log     *log.Logger
}

// NewServer creates a new query server using stdin/stdout for IPC
func NewServer(service *query.Service, cfg *config.Config) *Server {
	return NewServerWithIO(service, cfg, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server over explicit streams, mainly for tests
func NewServerWithIO(service *query.Service, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	return &Server{
		service: service,
		cfg:     cfg,
		decoder: msgpack.NewDecoder(r),
		encoder: msgpack.NewEncoder(w),
		log:     logger.New("ipc"),
	}
}

// Start begins listening for IPC requests
func (s *Server) Start() error {
	s.log.Debug("Starting Server.")

	// Signal that the server is ready
	s.send(map[string]string{"status": "ready"})

	for {
		var request QueryRequest
		if err := s.decoder.Decode(&request); err != nil {
			if err == io.EOF {
				return nil
			}
			s.log.Errorf("Decoding request: %v", err)
			return err
		}
		s.handleRequest(request)
	}
}

// handleRequest processes one decoded request
func (s *Server) handleRequest(request QueryRequest) {
	switch request.Command {
	case "ctx":
		s.handleTypeContext(request)
	case "methods":
		s.handleConformingMethods(request)
	case "health":
		s.send(map[string]string{"id": request.ID, "status": "ok"})
	case "stats":
		stats := s.service.CacheStats()
		s.send(StatsResponse{
			ID:     request.ID,
			Status: "ok",
			Hits:   stats["hits"],
			Misses: stats["misses"],
		})
	default:
		s.sendError(request.ID, fmt.Sprintf("Unknown command: %s", request.Command), 400)
	}
}

func (s *Server) send(response interface{}) {
	if err := s.encoder.Encode(response); err != nil {
		s.log.Errorf("Encoding response: %v", err)
	}
}

// sendError sends an error response
func (s *Server) sendError(id, message string, code int) {
	s.send(QueryError{
		ID:    id,
		Error: message,
		Code:  code,
	})
}

// validate applies the config limits shared by both query variants.
func (s *Server) validate(request QueryRequest) (engine.Buffer, bool) {
	if request.File == "" {
		s.sendError(request.ID, "Missing 'f' parameter", 400)
		s.log.Debug("File is empty in request")
		return engine.Buffer{}, false
	}
	if max := s.cfg.Server.MaxBufferBytes; max > 0 && len(request.Buffer) > max {
		s.sendError(request.ID, fmt.Sprintf("Buffer exceeds maximum size of %d bytes", max), 413)
		s.log.Debug("Buffer is too large in request")
		return engine.Buffer{}, false
	}
	if max := s.cfg.Server.MaxArgs; max > 0 && len(request.Args) > max {
		s.sendError(request.ID, fmt.Sprintf("Argument count exceeds maximum of %d", max), 400)
		return engine.Buffer{}, false
	}
	if request.Offset < 0 || request.Offset > len(request.Buffer) {
		s.sendError(request.ID, "Offset out of buffer range", 400)
		return engine.Buffer{}, false
	}
	return engine.Buffer{Name: request.File, Text: request.Buffer}, true
}

// handleTypeContext runs a type-context query and flattens the results
// into payloads with every span resolved to its string.
func (s *Server) handleTypeContext(request QueryRequest) {
	buf, ok := s.validate(request)
	if !ok {
		return
	}

	var items []ItemPayload
	failed := false
	start := time.Now()
	s.service.GetExpressionContextInfo(buf, request.Offset, request.Args, request.Overlay, query.TypeContextFuncs{
		OnResult: func(res *query.TypeContextResult) {
			item := ItemPayload{
				TypeName: res.Text(res.TypeName),
				TypeID:   res.Text(res.TypeID),
			}
			for _, m := range res.Members {
				item.Members = append(item.Members, MemberPayload{
					Name:        res.Text(m.Name),
					Description: res.Text(m.Description),
					SourceText:  res.Text(m.SourceText),
					BriefDoc:    m.BriefDoc,
				})
			}
			items = append(items, item)
		},
		OnFailure: func(msg string) {
			failed = true
			s.sendError(request.ID, msg, 422)
		},
	})
	if failed {
		return
	}
	elapsed := time.Since(start)

	s.send(QueryResponse{
		ID:        request.ID,
		Items:     items,
		Count:     len(items),
		TimeTaken: elapsed.Microseconds(),
	})
}

// handleConformingMethods runs a conforming-method query. Requests without
// protocol names are rejected before reaching the engine.
func (s *Server) handleConformingMethods(request QueryRequest) {
	buf, ok := s.validate(request)
	if !ok {
		return
	}
	if len(request.TypeNames) == 0 {
		s.sendError(request.ID, "Missing 'types' parameter", 400)
		s.log.Debug("Type names are empty in request")
		return
	}
	if max := s.cfg.Server.MaxTypeNames; max > 0 && len(request.TypeNames) > max {
		s.sendError(request.ID, fmt.Sprintf("Type name count exceeds maximum of %d", max), 400)
		return
	}

	var items []ItemPayload
	failed := false
	start := time.Now()
	s.service.GetConformingMethodList(buf, request.Offset, request.Args, request.TypeNames, request.Overlay, query.ConformingMethodFuncs{
		OnResult: func(res *query.ConformingMethodResult) {
			item := ItemPayload{
				TypeName: res.Text(res.TypeName),
				TypeID:   res.Text(res.TypeID),
			}
			for _, m := range res.Members {
				item.Members = append(item.Members, MemberPayload{
					Name:        res.Text(m.Name),
					TypeName:    res.Text(m.TypeName),
					TypeID:      res.Text(m.TypeID),
					Description: res.Text(m.Description),
					SourceText:  res.Text(m.SourceText),
					BriefDoc:    m.BriefDoc,
				})
			}
			items = append(items, item)
		},
		OnFailure: func(msg string) {
			failed = true
			s.sendError(request.ID, msg, 422)
		},
	})
	if failed {
		return
	}
	elapsed := time.Since(start)

	s.send(QueryResponse{
		ID:        request.ID,
		Items:     items,
		Count:     len(items),
		TimeTaken: elapsed.Microseconds(),
	})
}
