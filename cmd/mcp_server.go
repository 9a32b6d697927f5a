package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/textwarden/anchor/internal/platform"
	"github.com/textwarden/anchor/internal/profile"
	"github.com/textwarden/anchor/internal/resolve"
	"github.com/textwarden/anchor/internal/version"
)

// mcpServer wraps the MCP server with the resolution engine. The engineMu
// serializes tool calls: resolution moves the target's caret and must not
// interleave with a concurrent probe against the same element.
type mcpServer struct {
	engine   *engine
	engineMu sync.Mutex
	mcp      *mcpserver.MCPServer
}

// MCPConfig holds MCP server configuration.
type MCPConfig struct {
	Transport string
	Port      int
}

// newMCPServer creates and configures an MCP server with all anchor tools.
func newMCPServer() (*mcpServer, error) {
	eng, err := newEngine()
	if err != nil {
		return nil, err
	}

	s := &mcpServer{engine: eng}
	s.mcp = mcpserver.NewMCPServer(
		"anchor",
		version.Version,
	)

	s.registerTools()
	return s, nil
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// resolve
	s.mcp.AddTool(
		mcp.NewTool("resolve",
			mcp.WithDescription("Resolve a character range inside an application's focused text field to screen geometry. Returns per-line bounds, a primary anchor rectangle, a hit-test region, and the confidence of the measurement."),
			mcp.WithString("app", mcp.Description("Application identifier (e.g. 'com.apple.TextEdit')")),
			mcp.WithNumber("pid", mcp.Description("Target process by PID")),
			mcp.WithNumber("start", mcp.Description("Range start in characters"), mcp.Required()),
			mcp.WithNumber("end", mcp.Description("Range end, exclusive"), mcp.Required()),
		),
		s.handleResolve,
	)

	// probe
	s.mcp.AddTool(
		mcp.NewTool("probe",
			mcp.WithDescription("Probe an application's measurement capabilities and persist the derived profile. Use when resolution falls back to low-confidence estimates for an app."),
			mcp.WithString("app", mcp.Description("Application identifier")),
			mcp.WithNumber("pid", mcp.Description("Target process by PID")),
		),
		s.handleProbe,
	)

	// profiles
	s.mcp.AddTool(
		mcp.NewTool("profiles",
			mcp.WithDescription("Inspect or manage behavior profiles: list builtin and cached profiles, show the effective profile for an app, or clear cached entries"),
			mcp.WithString("action", mcp.Description("One of: list, show, clear"), mcp.Required()),
			mcp.WithString("app", mcp.Description("Application identifier (required for show, optional for clear)")),
		),
		s.handleProfiles,
	)
}

// toolTarget builds TargetOptions from a tool request's app/pid arguments.
func toolTarget(req mcp.CallToolRequest) (platform.TargetOptions, error) {
	opts := platform.TargetOptions{
		App: req.GetString("app", ""),
		PID: req.GetInt("pid", 0),
	}
	if err := opts.Validate(); err != nil {
		return platform.TargetOptions{}, err
	}
	return opts, nil
}

// jsonResult marshals v as a JSON text result.
func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *mcpServer) handleResolve(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start := req.GetInt("start", 0)
	end := req.GetInt("end", 0)
	if start < 0 || end < start {
		return mcp.NewToolResultError("start and end must satisfy 0 <= start <= end"), nil
	}
	opts, err := toolTarget(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	el, text, appID, err := s.engine.provider.Bridge.FocusedTextElement(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("locate focused text element: %v", err)), nil
	}

	cancel := s.engine.watchActivity(appID)
	defer cancel()

	res := s.engine.resolver.Resolve(resolve.TextRange{Start: uint(start), End: uint(end)}, el, text, appID)
	return jsonResult(res)
}

func (s *mcpServer) handleProbe(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts, err := toolTarget(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	el, text, appID, err := s.engine.provider.Bridge.FocusedTextElement(opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("locate focused text element: %v", err)), nil
	}

	prof, err := s.engine.profiler.Probe(el, text, appID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("probe %s: %v", appID, err)), nil
	}
	if err := s.engine.store.Save(prof); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("persist profile: %v", err)), nil
	}
	return jsonResult(prof)
}

func (s *mcpServer) handleProfiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	action, err := req.RequireString("action")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	appID := req.GetString("app", "")

	s.engineMu.Lock()
	defer s.engineMu.Unlock()

	switch action {
	case "list":
		cached, err := s.engine.store.List()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("list cached profiles: %v", err)), nil
		}
		return jsonResult(map[string]interface{}{
			"builtin": profile.BuiltinIDs(),
			"cached":  cached,
		})
	case "show":
		if appID == "" {
			return mcp.NewToolResultError("show requires an app identifier"), nil
		}
		b := s.engine.source.ProfileFor(appID, nil, "")
		return jsonResult(map[string]interface{}{
			"appId":              b.AppID,
			"quirks":             b.Quirks,
			"strategyOrder":      b.StrategyOrder,
			"typingDebounceMs":   b.TypingDebounce.Milliseconds(),
			"stabilizationMs":    b.StabilizationDelay.Milliseconds(),
			"requireTypingPause": b.RequireTypingPause,
			"underlinesEnabled":  b.UnderlinesEnabled,
		})
	case "clear":
		if appID != "" {
			if err := s.engine.store.Delete(appID); err != nil {
				return mcp.NewToolResultError(fmt.Sprintf("clear %s: %v", appID, err)), nil
			}
			return jsonResult(map[string]string{"cleared": appID})
		}
		if err := s.engine.store.Clear(); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("clear cache: %v", err)), nil
		}
		return jsonResult(map[string]string{"cleared": "all"})
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown action %q (use list, show, or clear)", action)), nil
	}
}
