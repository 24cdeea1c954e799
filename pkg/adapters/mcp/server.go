package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/lexctrace"
	"github.com/aretw0/lexctrace/pkg/domain"
)

// GraphURI is the resource exposing the trimmed class graph.
const GraphURI = "lexctrace://graph"

// TraceArgs are the arguments of the trace_form tool.
type TraceArgs struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Format string `json:"format,omitempty"`
}

// TraceResponse provides a unified structure across adapters.
type TraceResponse struct {
	Found   bool                `json:"found" jsonschema_description:"Whether at least one derivation was accepted"`
	Result  *domain.TraceResult `json:"result" jsonschema_description:"Every accepted derivation with search statistics"`
	Diagram string              `json:"diagram,omitempty" jsonschema_description:"Diagram source with the derivations highlighted"`
}

// ValidateResponse is the output of the validate_lexicon tool.
type ValidateResponse struct {
	Valid          bool              `json:"valid" jsonschema_description:"False when an error-severity finding exists"`
	NonTerminating bool              `json:"non_terminating" jsonschema_description:"True when a zero-growth cycle is reachable"`
	Report         *lexctrace.Report `json:"report"`
}

// Engine is the part of lexctrace.Engine exposed to MCP clients.
type Engine interface {
	Trace(ctx context.Context, input, output string) (*domain.TraceResult, error)
	Diagram(format lexctrace.Format, result *domain.TraceResult) (string, error)
	Validate() (*lexctrace.Report, error)
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		engine:    engine,
		logger:    logger,
		mcpServer: server.NewMCPServer("lexctrace-mcp", lexctrace.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

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
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
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
	// TOOL: trace_form
	traceTool := mcp.NewTool("trace_form",
		mcp.WithDescription("Find every derivation through the lexicon that maps an underlying form to a surface form."),
		mcp.WithString("input", mcp.Required(), mcp.Description("Underlying (lexical) form, e.g. cat<N><Pl>")),
		mcp.WithString("output", mcp.Required(), mcp.Description("Surface form, e.g. cats")),
		mcp.WithString("format", mcp.Description("Also return a diagram: mermaid or dot (optional)")),
		mcp.WithOutputSchema[TraceResponse](),
	)
	s.mcpServer.AddTool(traceTool, mcp.NewStructuredToolHandler(s.handleTraceForm))

	// TOOL: validate_lexicon
	validateTool := mcp.NewTool("validate_lexicon",
		mcp.WithDescription("Report undefined classes, unreachable classes and zero-growth cycles."),
		mcp.WithOutputSchema[ValidateResponse](),
	)
	s.mcpServer.AddTool(validateTool, mcp.NewStructuredToolHandler(s.handleValidate))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the class graph reachable from the root as diagram source."),
		mcp.WithString("format", mcp.Description("mermaid (default) or dot")),
	), s.handleGetGraph)
}

func (s *Server) handleTraceForm(ctx context.Context, request mcp.CallToolRequest, args TraceArgs) (TraceResponse, error) {
	result, err := s.engine.Trace(ctx, args.Input, args.Output)
	if err != nil {
		s.logger.Warn("MCP trace_form failed", "err", err, "input", args.Input)
		return TraceResponse{}, fmt.Errorf("trace failed: %w", err)
	}

	resp := TraceResponse{Found: result.Found(), Result: result}
	if args.Format != "" {
		f, ok := lexctrace.ParseFormat(args.Format)
		if !ok {
			return TraceResponse{}, fmt.Errorf("unsupported diagram format %q", args.Format)
		}
		resp.Diagram, err = s.engine.Diagram(f, result)
		if err != nil {
			return TraceResponse{}, fmt.Errorf("diagram failed: %w", err)
		}
	}
	return resp, nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ValidateResponse, error) {
	report, err := s.engine.Validate()
	if err != nil {
		return ValidateResponse{}, fmt.Errorf("validate failed: %w", err)
	}
	return ValidateResponse{
		Valid:          report.Err() == nil,
		NonTerminating: report.NonTerminating(),
		Report:         report,
	}, nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := request.GetString("format", string(lexctrace.FormatMermaid))
	f, ok := lexctrace.ParseFormat(format)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported diagram format %q", format)), nil
	}
	diagram, err := s.engine.Diagram(f, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("diagram failed: %v", err)), nil
	}
	return mcp.NewToolResultText(diagram), nil
}

func (s *Server) registerResources() {
	// EXPOSE: lexctrace://graph
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Trimmed class graph",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		diagram, err := s.engine.Diagram(lexctrace.FormatMermaid, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to draw graph: %w", err)
		}
		report, err := s.engine.Validate()
		if err != nil {
			return nil, fmt.Errorf("failed to analyze graph: %w", err)
		}
		jsonBytes, _ := json.Marshal(map[string]any{
			"root":    report.Root,
			"classes": report.Reachable,
			"mermaid": diagram,
		})

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
