// Package mcp exposes the functions of a hodr application as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/hodr/pkg/domain"
	"github.com/aretw0/hodr/pkg/inspector"
	"github.com/aretw0/hodr/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// OriginsURI is the resource listing the declared origins.
const OriginsURI = "hodr://origins"

// Executor is a function input that can be run directly.
type Executor interface {
	ports.Input
	Execute(ctx context.Context, arg any) (*domain.ExecutionContext, error)
}

// ToolResult is the JSON text returned by function tools.
type ToolResult struct {
	ExecutionID string               `json:"executionId"`
	State       domain.ContextStatus `json:"state"`
	Payload     any                  `json:"payload,omitempty"`
	Error       *domain.HodrError    `json:"error,omitempty"`
}

// Server wraps an MCP server bound to a catalog.
type Server struct {
	catalog   inspector.Catalog
	tracker   ports.Tracker
	logger    *slog.Logger
	mcpServer *server.MCPServer
	tools     []string
}

// Option configures a Server.
type Option func(*Server)

// WithTracker adds the recent_executions tool backed by t.
func WithTracker(t ports.Tracker) Option {
	return func(s *Server) { s.tracker = t }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer registers one tool per module function, named
// "<module>__<function>", plus the introspection tools.
func NewServer(catalog inspector.Catalog, version string, opts ...Option) *Server {
	s := &Server{
		catalog:   catalog,
		logger:    slog.Default(),
		mcpServer: server.NewMCPServer("hodr-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Tools returns the registered tool names, sorted.
func (s *Server) Tools() []string {
	out := append([]string(nil), s.tools...)
	sort.Strings(out)
	return out
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())
	httpServer := &http.Server{Addr: addr, Handler: mux}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
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

// ToolName is the tool name of a module function.
func ToolName(module, function string) string {
	return module + "__" + function
}

func (s *Server) addTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcpServer.AddTool(tool, handler)
	s.tools = append(s.tools, tool.Name)
}

func (s *Server) registerTools() {
	for _, o := range s.catalog.Origins() {
		for _, in := range o.Inputs() {
			fn, ok := in.(Executor)
			if !ok {
				continue
			}
			tool := mcp.NewTool(ToolName(o.Name(), in.Name()),
				mcp.WithDescription(fmt.Sprintf("Run function %q of module %q.", in.Name(), o.Name())),
				mcp.WithString("input", mcp.Description("JSON value passed as the function argument (optional)")),
			)
			s.addTool(tool, FunctionHandler(fn))
		}
	}

	s.addTool(mcp.NewTool("list_origins",
		mcp.WithDescription("List the declared modules and routers with their inputs."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(inspector.Origins(s.catalog))
	})

	if s.tracker == nil {
		return
	}
	s.addTool(mcp.NewTool("recent_executions",
		mcp.WithDescription("List the tracked executions, oldest first."),
		mcp.WithString("origin", mcp.Description("Only executions of this origin (optional)")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		origin := request.GetString("origin", "")
		execs, err := inspector.Executions(ctx, s.tracker, func(e *domain.Execution) bool {
			return origin == "" || e.Origin.Name == origin
		})
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("tracker failed: %v", err)), nil
		}
		return jsonResult(execs)
	})
}

// FunctionHandler runs fn with the JSON "input" argument. Lane failures are
// tool errors carrying the execution state and the error.
func FunctionHandler(fn Executor) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var arg any
		if raw := request.GetString("input", ""); raw != "" {
			if err := json.Unmarshal([]byte(raw), &arg); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("input is not valid JSON: %v", err)), nil
			}
		}

		exec, err := fn.Execute(ctx, arg)
		if exec == nil {
			return mcp.NewToolResultError(fmt.Sprintf("execution failed: %v", err)), nil
		}
		res := ToolResult{ExecutionID: exec.ID(), State: exec.State()}
		if err != nil {
			res.Error = domain.FromThrown(err)
			out, _ := json.Marshal(res)
			return mcp.NewToolResultError(string(out)), nil
		}
		res.Payload = exec.Payload()
		return jsonResult(res)
	}
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(OriginsURI, "Declared origins",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		out, err := json.Marshal(inspector.Origins(s.catalog))
		if err != nil {
			return nil, fmt.Errorf("failed to encode origins: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{URI: OriginsURI, MIMEType: "application/json", Text: string(out)},
		}, nil
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}
