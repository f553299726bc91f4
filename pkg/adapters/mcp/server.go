// Package mcp exposes a notebook as an MCP server, so agent tooling can
// list, run and reset cells over stdio or SSE.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/scriptcell/scriptcell/pkg/cell"
	"github.com/scriptcell/scriptcell/pkg/domain"
)

// Notebook is the facade view this server needs.
type Notebook interface {
	Cells() []*cell.Cell
	Cell(id string) (*cell.Cell, error)
	RunBlock(ctx context.Context, id string, block int) (domain.Outcome, error)
	ResetCell(ctx context.Context, id string, block int) error
	SetSource(id string, block int, text string) error
	AppendBlock(id string) (int, error)
	RequestFeedback(ctx context.Context, id string, block int) error
}

// RunResponse is the structured result of run_cell.
type RunResponse struct {
	RunID   string `json:"run_id" jsonschema_description:"Identifier of the accepted run"`
	Dropped bool   `json:"dropped" jsonschema_description:"True when the trigger was ignored because another run was in flight"`
	Block   string `json:"block" jsonschema_description:"Captured stdout/stderr of the run"`
	Error   string `json:"error,omitempty" jsonschema_description:"Script error trace, empty on success"`
	Figures int    `json:"figures" jsonschema_description:"Number of drawable elements the run produced"`
}

// StatusResponse is the structured result of side-effect tools.
type StatusResponse struct {
	Status string `json:"status"`
	// Block is set by append_block to the index of the created block.
	Block int `json:"block,omitempty"`
}

// CellInfo is the structured result of get_cell.
type CellInfo struct {
	ID        string   `json:"id"`
	Kind      string   `json:"kind"`
	Label     string   `json:"label,omitempty"`
	ReadOnly  bool     `json:"read_only"`
	CanAppend bool     `json:"can_append"`
	Sources   []string `json:"sources" jsonschema_description:"Current source text per block"`
}

// Server wraps a notebook and exposes it as an MCP server.
type Server struct {
	notebook  Notebook
	mcpServer *server.MCPServer
}

// NewServer creates an MCP server over the notebook.
func NewServer(nb Notebook, version string) *Server {
	s := &Server{
		notebook:  nb,
		mcpServer: server.NewMCPServer("scriptcell-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	// TOOL: list_cells
	s.mcpServer.AddTool(mcp.NewTool("list_cells",
		mcp.WithDescription("List every cell of the notebook with its kind and state."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		infos := make([]CellInfo, 0)
		for _, c := range s.notebook.Cells() {
			infos = append(infos, describe(c))
		}
		jsonBytes, _ := json.Marshal(infos)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: get_cell
	getTool := mcp.NewTool("get_cell",
		mcp.WithDescription("Get one cell with its current source text per block."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell ID")),
		mcp.WithOutputSchema[CellInfo](),
	)
	s.mcpServer.AddTool(getTool, mcp.NewStructuredToolHandler(s.handleGetCell))

	// TOOL: run_cell
	runTool := mcp.NewTool("run_cell",
		mcp.WithDescription("Execute one cell block against the shared interpreter. A trigger arriving while another run is in flight is dropped, not queued."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell ID")),
		mcp.WithNumber("block", mcp.Description("Block index, 0 by default")),
		mcp.WithOutputSchema[RunResponse](),
	)
	s.mcpServer.AddTool(runTool, mcp.NewStructuredToolHandler(s.handleRunCell))

	// TOOL: set_source
	setTool := mcp.NewTool("set_source",
		mcp.WithDescription("Replace the source text of one cell block."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell ID")),
		mcp.WithString("code", mcp.Required(), mcp.Description("New source text")),
		mcp.WithNumber("block", mcp.Description("Block index, 0 by default")),
		mcp.WithOutputSchema[CellInfo](),
	)
	s.mcpServer.AddTool(setTool, mcp.NewStructuredToolHandler(s.handleSetSource))

	// TOOL: reset_cell
	resetTool := mcp.NewTool("reset_cell",
		mcp.WithDescription("Restore a cell block to its initial source and clear its regions."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell ID")),
		mcp.WithNumber("block", mcp.Description("Block index, 0 by default")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(resetTool, mcp.NewStructuredToolHandler(s.handleResetCell))

	// TOOL: append_block
	appendTool := mcp.NewTool("append_block",
		mcp.WithDescription("Create a cell's one-time second run block. Fails after first use."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell ID")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(appendTool, mcp.NewStructuredToolHandler(s.handleAppendBlock))

	// TOOL: request_feedback
	feedbackTool := mcp.NewTool("request_feedback",
		mcp.WithDescription("Re-run a cell block and submit its fresh output to the feedback backend."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Cell ID")),
		mcp.WithNumber("block", mcp.Description("Block index, 0 by default")),
		mcp.WithOutputSchema[StatusResponse](),
	)
	s.mcpServer.AddTool(feedbackTool, mcp.NewStructuredToolHandler(s.handleRequestFeedback))
}

func (s *Server) handleResetCell(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	id, _ := args["id"].(string)
	if err := s.notebook.ResetCell(ctx, id, blockArg(args)); err != nil {
		return StatusResponse{}, fmt.Errorf("reset failed: %w", err)
	}
	return StatusResponse{Status: "reset"}, nil
}

func (s *Server) handleAppendBlock(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	id, _ := args["id"].(string)
	block, err := s.notebook.AppendBlock(id)
	if err != nil {
		return StatusResponse{}, fmt.Errorf("append failed: %w", err)
	}
	return StatusResponse{Status: "appended", Block: block}, nil
}

func (s *Server) handleRequestFeedback(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StatusResponse, error) {
	id, _ := args["id"].(string)
	if err := s.notebook.RequestFeedback(ctx, id, blockArg(args)); err != nil {
		return StatusResponse{}, fmt.Errorf("feedback failed: %w", err)
	}
	return StatusResponse{Status: "feedback requested"}, nil
}

func (s *Server) handleGetCell(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CellInfo, error) {
	id, _ := args["id"].(string)
	c, err := s.notebook.Cell(id)
	if err != nil {
		return CellInfo{}, fmt.Errorf("get failed: %w", err)
	}
	return describe(c), nil
}

func (s *Server) handleRunCell(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RunResponse, error) {
	id, _ := args["id"].(string)
	block := blockArg(args)

	out, err := s.notebook.RunBlock(ctx, id, block)
	if err != nil {
		return RunResponse{}, fmt.Errorf("run failed: %w", err)
	}

	resp := RunResponse{
		RunID:   out.RunID,
		Dropped: out.Dropped,
		Block:   out.Block,
	}
	if out.ScriptErr != nil {
		resp.Error = out.ScriptErr.Error()
	}
	if out.Artifact != nil {
		resp.Figures = len(out.Artifact.Elements)
	}
	return resp, nil
}

func (s *Server) handleSetSource(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (CellInfo, error) {
	id, _ := args["id"].(string)
	code, _ := args["code"].(string)
	block := blockArg(args)

	if err := s.notebook.SetSource(id, block, code); err != nil {
		return CellInfo{}, fmt.Errorf("set source failed: %w", err)
	}

	c, err := s.notebook.Cell(id)
	if err != nil {
		return CellInfo{}, err
	}
	return describe(c), nil
}

func (s *Server) registerResources() {
	// EXPOSE: scriptcell://notebook
	s.mcpServer.AddResource(mcp.NewResource("scriptcell://notebook", "Notebook Cells",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		infos := make([]CellInfo, 0)
		for _, c := range s.notebook.Cells() {
			infos = append(infos, describe(c))
		}
		jsonBytes, err := json.Marshal(infos)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cells: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "scriptcell://notebook",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func describe(c *cell.Cell) CellInfo {
	opts := c.Options()
	sources := make([]string, 0, len(c.Targets()))
	for _, t := range c.Targets() {
		sources = append(sources, t.Buffer().Text())
	}
	return CellInfo{
		ID:        c.ID(),
		Kind:      string(c.Kind()),
		Label:     opts.Label,
		ReadOnly:  opts.ReadOnly,
		CanAppend: c.CanAppend(),
		Sources:   sources,
	}
}

func blockArg(args map[string]interface{}) int {
	if v, ok := args["block"].(float64); ok {
		return int(v)
	}
	return 0
}
