// Package cli handles cmd line input and query display for DBG and testing various features
package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/typeserve/internal/logger"
	"github.com/bastiangx/typeserve/pkg/config"
	"github.com/bastiangx/typeserve/pkg/engine"
	"github.com/bastiangx/typeserve/pkg/query"
)

// InputHandler processes user input from stdin and runs completion-info
// queries against the service. Each line is treated as a one-line buffer
// with '#' marking the cursor; ":methods Proto1,Proto2" before a line
// switches the next query to the conforming-methods variant, and
// ":types prefix" browses the declaration index directly.
type InputHandler struct {
	service       *query.Service
	index         *engine.Index
	bufferName    string
	showDocBriefs bool
	log           *log.Logger
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(service *query.Service, ix *engine.Index, cfg *config.CliConfig) *InputHandler {
	return &InputHandler{
		service:       service,
		index:         ix,
		bufferName:    cfg.DefaultBufferName,
		showDocBriefs: cfg.ShowDocBriefs,
		log:           logger.NewWithConfig("", log.GetLevel(), false, false, log.TextFormatter),
	}
}

// Start begins the interface loop.
// It continuously prompts for input, reads a line from stdin,
// and passes the trimmed input to the handleInput() for processing.
// Loop terminates if an error occurs while reading from stdin
func (h *InputHandler) Start() error {
	h.log.Print("TypeServe CLI [BETA]")
	reader := bufio.NewReader(os.Stdin)
	h.log.Print("type a line with '#' as the cursor and press Enter (Ctrl+C to exit):")
	h.log.Print("commands: :methods Proto1,Proto2 <line>   :types <prefix>")

	for {
		h.log.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		h.handleInput(line)
	}
}

// handleInput processes a single input line: a command, or a buffer with a
// cursor to query. Results are formatted and printed to the log.
func (h *InputHandler) handleInput(line string) {
	switch {
	case strings.HasPrefix(line, ":types "):
		h.handleTypeBrowse(strings.TrimSpace(strings.TrimPrefix(line, ":types ")))
		return
	case strings.HasPrefix(line, ":methods "):
		rest := strings.TrimSpace(strings.TrimPrefix(line, ":methods "))
		names, buffer, ok := strings.Cut(rest, " ")
		if !ok {
			h.log.Errorf("Usage: :methods Proto1,Proto2 <line with #>")
			return
		}
		h.handleConformingMethods(strings.Split(names, ","), buffer)
		return
	}
	h.handleTypeContext(line)
}

// cursorBuffer splits a '#'-marked line into buffer text and offset.
func (h *InputHandler) cursorBuffer(line string) (engine.Buffer, int, bool) {
	cursor := strings.IndexByte(line, '#')
	if cursor < 0 {
		h.log.Errorf("No cursor in input, add '#' where completion should run")
		return engine.Buffer{}, 0, false
	}
	buf := engine.Buffer{
		Name: h.bufferName,
		Text: strings.Replace(line, "#", "", 1),
	}
	return buf, cursor, true
}

func (h *InputHandler) handleTypeContext(line string) {
	buf, cursor, ok := h.cursorBuffer(line)
	if !ok {
		return
	}

	start := time.Now()
	count := 0
	h.service.GetExpressionContextInfo(buf, cursor, []string{h.bufferName}, nil, query.TypeContextFuncs{
		OnResult: func(res *query.TypeContextResult) {
			count++
			h.log.Printf("expected type: %s  (%s)", colored(res.Text(res.TypeName)), res.Text(res.TypeID))
			for i, m := range res.Members {
				h.log.Printf("%2d. %-40s %s", i+1, colored(res.Text(m.Name)), res.Text(m.Description))
				if h.showDocBriefs && m.BriefDoc != "" {
					h.log.Printf("    %s", m.BriefDoc)
				}
			}
		},
		OnFailure: func(msg string) {
			h.log.Errorf("Query failed: %s", msg)
		},
	})
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for buffer '%s'", elapsed, line)

	if count == 0 {
		h.log.Warnf("No expected types at cursor for: '%s'", line)
	}
}

func (h *InputHandler) handleConformingMethods(typeNames []string, line string) {
	buf, cursor, ok := h.cursorBuffer(line)
	if !ok {
		return
	}

	start := time.Now()
	count := 0
	h.service.GetConformingMethodList(buf, cursor, []string{h.bufferName}, typeNames, nil, query.ConformingMethodFuncs{
		OnResult: func(res *query.ConformingMethodResult) {
			count++
			h.log.Printf("subject type: %s  (%s)", colored(res.Text(res.TypeName)), res.Text(res.TypeID))
			for i, m := range res.Members {
				h.log.Printf("%2d. %-40s -> %s", i+1, colored(res.Text(m.Name)), res.Text(m.TypeName))
				h.log.Printf("    %s", res.Text(m.SourceText))
				if h.showDocBriefs && m.BriefDoc != "" {
					h.log.Printf("    %s", m.BriefDoc)
				}
			}
		},
		OnFailure: func(msg string) {
			h.log.Errorf("Query failed: %s", msg)
		},
	})
	elapsed := time.Since(start)
	h.log.Debugf("Took [ %v ] for protocols %v", elapsed, typeNames)

	if count == 0 {
		h.log.Warnf("No conforming methods at cursor for: '%s'", line)
	}
}

// handleTypeBrowse lists index entries by name prefix, bypassing the
// query pipeline entirely.
func (h *InputHandler) handleTypeBrowse(prefix string) {
	if h.index == nil {
		h.log.Errorf("No declaration index loaded")
		return
	}
	types := h.index.TypesWithPrefix(prefix)
	if len(types) == 0 {
		h.log.Warnf("No types match prefix '%s'", prefix)
		return
	}
	h.log.Printf("Found %d types for prefix '%s':", len(types), prefix)
	for i, ti := range types {
		h.log.Printf("%2d. %-40s (%d members)", i+1, colored(engine.PrintTypeID(ti.Type)), len(ti.Members))
	}
}

func colored(s string) string {
	return fmt.Sprintf("\033[38;5;75m%s\033[0m", s)
}
