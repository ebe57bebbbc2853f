// Package mcp exposes a model to MCP clients as a small set of tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/archiscript"
	"github.com/aretw0/archiscript/pkg/proxy"
)

// FindResponse is the structured result of the find_nodes tool.
type FindResponse struct {
	Scope string          `json:"scope" jsonschema_description:"Id of the node the search started from"`
	Count int             `json:"count" jsonschema_description:"Number of matches"`
	Nodes []proxy.Summary `json:"nodes" jsonschema_description:"Matching nodes in document order"`
}

// Engine is the part of the archiscript engine the tools need.
type Engine interface {
	Root() proxy.Proxy
	Get(id string) proxy.Proxy
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger

	// Proxies are single-actor; tool calls may arrive concurrently.
	mu sync.Mutex
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger used for tool failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		logger:    slog.New(slog.NewJSONHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("archiscript-mcp", strings.TrimSpace(archiscript.Version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it
// when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

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

		s.logger.Info("MCP Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: find_nodes
	findTool := mcp.NewTool("find_nodes",
		mcp.WithDescription("Find model nodes below a scope with a selector: *, concepts, elements, relations, views, #id, .name, Type or Type.Name."),
		mcp.WithString("selector", mcp.Description("Selector; defaults to *")),
		mcp.WithString("scope", mcp.Description("Id of the node to search below (default: model root)")),
		mcp.WithOutputSchema[FindResponse](),
	)
	s.mcpServer.AddTool(findTool, mcp.NewStructuredToolHandler(s.handleFind))

	// TOOL: get_attr
	s.mcpServer.AddTool(mcp.NewTool("get_attr",
		mcp.WithDescription("Read a visual attribute (BOUNDS, FONT, FONT_COLOR, LINE_COLOR, FILL_COLOR, LINE_WIDTH, ALPHA, TEXT_ALIGNMENT) of a node."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Attribute key")),
	), s.handleGetAttr)

	// TOOL: set_attr
	s.mcpServer.AddTool(mcp.NewTool("set_attr",
		mcp.WithDescription("Set a visual attribute of a node. The value is JSON; null clears the override."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
		mcp.WithString("key", mcp.Required(), mcp.Description("Attribute key")),
		mcp.WithString("value", mcp.Required(), mcp.Description(`JSON value, e.g. "#ff0000", 2 or {"x":0,"y":0,"width":120,"height":55}`)),
	), s.handleSetAttr)

	// TOOL: delete_node
	s.mcpServer.AddTool(mcp.NewTool("delete_node",
		mcp.WithDescription("Delete a node and cascade to the diagram components that depend on it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Node id")),
	), s.handleDelete)
}

func (s *Server) handleFind(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FindResponse, error) {
	selector, _ := args["selector"].(string)
	scopeID, _ := args["scope"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	scope := s.engine.Root()
	if scopeID != "" {
		scope = s.engine.Get(scopeID)
		if scope.IsEmpty() {
			return FindResponse{}, fmt.Errorf("scope not found: %s", scopeID)
		}
	}

	var found *proxy.Collection
	if selector == "" {
		found = scope.Find()
	} else {
		found = scope.Find(selector)
	}
	return FindResponse{Scope: scope.ID(), Count: found.Len(), Nodes: found.Summaries()}, nil
}

func (s *Server) handleGetAttr(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	key := request.GetString("key", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.engine.Get(id)
	if p.IsEmpty() {
		return mcp.NewToolResultError("node not found: " + id), nil
	}
	return jsonResult(p.Attr(key))
}

func (s *Server) handleSetAttr(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	key := request.GetString("key", "")

	var value any
	if err := json.Unmarshal([]byte(request.GetString("value", "null")), &value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("value is not JSON: %v", err)), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.engine.Get(id)
	if p.IsEmpty() {
		return mcp.NewToolResultError("node not found: " + id), nil
	}
	if err := p.SetAttr(key, value); err != nil {
		s.logger.Debug("set_attr rejected", "node_id", id, "key", key, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(p.Attr(key))
}

func (s *Server) handleDelete(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.engine.Get(id).Delete(); err != nil {
		s.logger.Debug("delete_node rejected", "node_id", id, "err", err)
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("deleted " + id), nil
}

func (s *Server) registerResources() {
	// EXPOSE: archiscript://model
	s.mcpServer.AddResource(mcp.NewResource("archiscript://model", "Current Model",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		text, err := s.modelJSON()
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "archiscript://model",
				MIMEType: "application/json",
				Text:     text,
			},
		}, nil
	})
}

// modelJSON lists every node of the model as summaries.
func (s *Server) modelJSON() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(s.engine.Root().Find().Summaries())
	if err != nil {
		return "", fmt.Errorf("failed to encode model: %w", err)
	}
	return string(data), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
