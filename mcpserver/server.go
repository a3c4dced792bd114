// Package mcpserver exposes the runner and the learner API catalog as MCP
// tools.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/tooldiscovery/tooldoc"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/gridrun/bridge"
	"github.com/jonwraymond/gridrun/code"
	"github.com/jonwraymond/gridrun/level"
	"github.com/jonwraymond/gridrun/trace"
)

// Tool names.
const (
	ToolRunCode        = "run_code"
	ToolSearchBridge   = "search_bridge"
	ToolDescribeBridge = "describe_bridge"
)

const defaultSearchLimit = 10

// Config configures a Server.
type Config struct {
	// Executor runs scripts.
	// Required.
	Executor code.Executor

	// Catalog documents the learner API.
	// Required.
	Catalog *bridge.Catalog

	// Name and Version identify the server. Defaults: "gridrun", "dev".
	Name    string
	Version string

	// Logger is an optional logger.
	Logger code.Logger
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	var missing []string
	if c.Executor == nil {
		missing = append(missing, "Executor")
	}
	if c.Catalog == nil {
		missing = append(missing, "Catalog")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s",
			code.ErrConfiguration, strings.Join(missing, ", "))
	}
	return nil
}

// Server is an MCP server with the gridrun tools registered.
type Server struct {
	cfg    Config
	server *mcp.Server
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = "gridrun"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}
	if cfg.Logger == nil {
		cfg.Logger = nopLogger{}
	}

	s := &Server{
		cfg:    cfg,
		server: mcp.NewServer(&mcp.Implementation{Name: cfg.Name, Version: cfg.Version}, nil),
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolRunCode,
		Title:       "Run a grid script",
		Description: "Runs a JavaScript program against a grid level and returns the recorded trace.",
	}, s.runCode)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolSearchBridge,
		Title:       "Search the learner API",
		Description: "Searches the functions a grid script can call.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.searchBridge)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        ToolDescribeBridge,
		Title:       "Describe a learner API function",
		Description: "Returns the documentation and examples of one grid script function.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, s.describeBridge)

	return s, nil
}

// MCP returns the underlying SDK server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// Run serves over transport until the client disconnects or ctx ends.
func (s *Server) Run(ctx context.Context, transport mcp.Transport) error {
	return s.server.Run(ctx, transport)
}

// RunCodeInput is the input of run_code.
type RunCodeInput struct {
	Code           string             `json:"code" jsonschema:"the learner's JavaScript program"`
	Level          level.Config       `json:"level" jsonschema:"the level to play"`
	InitialObjects []level.GameObject `json:"initialObjects,omitempty" jsonschema:"overrides the objects derived from the level"`
	StepLimit      int                `json:"stepLimit,omitempty" jsonschema:"overrides the level's step limit"`
	TimeoutMs      int                `json:"timeoutMs,omitempty" jsonschema:"overrides the run timeout in milliseconds"`
}

// RunCodeOutput is the output of run_code.
type RunCodeOutput struct {
	RunID      string      `json:"runId"`
	Steps      int         `json:"steps"`
	Frames     int         `json:"frames"`
	Failed     bool        `json:"failed"`
	Error      string      `json:"error,omitempty"`
	DurationMs int64       `json:"durationMs"`
	Trace      trace.Trace `json:"trace"`
}

func (s *Server) runCode(ctx context.Context, _ *mcp.CallToolRequest, in RunCodeInput) (*mcp.CallToolResult, RunCodeOutput, error) {
	result, err := s.cfg.Executor.RunCode(ctx, code.ExecuteParams{
		Code:           in.Code,
		Level:          in.Level,
		InitialObjects: in.InitialObjects,
		StepLimit:      in.StepLimit,
		Timeout:        time.Duration(in.TimeoutMs) * time.Millisecond,
	})
	if err != nil && !code.IsScriptFailure(err) {
		s.cfg.Logger.Error("run_code rejected", "err", err)
		return nil, RunCodeOutput{}, mapError(err)
	}
	return nil, RunCodeOutput{
		RunID:      result.RunID,
		Steps:      result.Steps,
		Frames:     result.Trace.Len(),
		Failed:     result.Failed(),
		Error:      result.Error,
		DurationMs: result.DurationMs,
		Trace:      result.Trace,
	}, nil
}

// SearchBridgeInput is the input of search_bridge.
type SearchBridgeInput struct {
	Query string `json:"query" jsonschema:"words to match against names, descriptions and tags"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results"`
}

// FunctionSummary is one search result.
type FunctionSummary struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
}

// SearchBridgeOutput is the output of search_bridge.
type SearchBridgeOutput struct {
	Results []FunctionSummary `json:"results"`
}

func (s *Server) searchBridge(_ context.Context, _ *mcp.CallToolRequest, in SearchBridgeInput) (*mcp.CallToolResult, SearchBridgeOutput, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	summaries, err := s.cfg.Catalog.Search(in.Query, limit)
	if err != nil {
		return nil, SearchBridgeOutput{}, mapError(err)
	}
	out := SearchBridgeOutput{Results: make([]FunctionSummary, 0, len(summaries))}
	for _, sum := range summaries {
		out.Results = append(out.Results, FunctionSummary{
			ID:          sum.ID,
			Name:        sum.Name,
			Description: sum.ShortDescription,
			Tags:        sum.Tags,
		})
	}
	return nil, out, nil
}

// DescribeBridgeInput is the input of describe_bridge.
type DescribeBridgeInput struct {
	Name   string `json:"name" jsonschema:"function name, e.g. move_up"`
	Detail string `json:"detail,omitempty" jsonschema:"summary or full"`
}

// Example is one usage example.
type Example struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

// DescribeBridgeOutput is the output of describe_bridge.
type DescribeBridgeOutput struct {
	Name     string    `json:"name"`
	Summary  string    `json:"summary"`
	Notes    string    `json:"notes,omitempty"`
	Examples []Example `json:"examples,omitempty"`
}

func (s *Server) describeBridge(_ context.Context, _ *mcp.CallToolRequest, in DescribeBridgeInput) (*mcp.CallToolResult, DescribeBridgeOutput, error) {
	detail := tooldoc.DetailSummary
	if strings.EqualFold(in.Detail, "full") {
		detail = tooldoc.DetailFull
	}
	doc, err := s.cfg.Catalog.Describe(in.Name, detail)
	if err != nil {
		return nil, DescribeBridgeOutput{}, mapError(err)
	}
	out := DescribeBridgeOutput{Name: in.Name, Summary: doc.Summary, Notes: doc.Notes}
	if detail == tooldoc.DetailFull {
		examples, err := s.cfg.Catalog.Examples(in.Name, 5)
		if err != nil {
			return nil, DescribeBridgeOutput{}, mapError(err)
		}
		for _, ex := range examples {
			out.Examples = append(out.Examples, Example{Title: ex.Title, Script: ex.Description})
		}
	}
	return nil, out, nil
}

// mapError converts internal errors into tool errors with a stable prefix.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case isConfiguration(err):
		return fmt.Errorf("invalid request: %w", err)
	default:
		return fmt.Errorf("run failed: %w", err)
	}
}

func isConfiguration(err error) bool {
	return errors.Is(err, code.ErrConfiguration) || errors.Is(err, code.ErrUnsupportedLanguage)
}

type nopLogger struct{}

func (nopLogger) Info(any, ...any)  {}
func (nopLogger) Warn(any, ...any)  {}
func (nopLogger) Error(any, ...any) {}
