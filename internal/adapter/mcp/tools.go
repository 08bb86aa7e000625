package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/Strob0t/brainnode/internal/domain/agent"
	"github.com/Strob0t/brainnode/internal/domain/bundle"
)

var errRendererMissing = errors.New("renderer not configured")

// AgentInfo is the list_agents view of a definition.
type AgentInfo struct {
	ID          string          `json:"id"`
	Archetype   agent.Archetype `json:"archetype"`
	Description string          `json:"description,omitempty"`
	Includes    []string        `json:"includes,omitempty"`
}

// IncludeInfo is the list_includes view of a bundle.
type IncludeInfo struct {
	Name        string       `json:"name"`
	Group       bundle.Group `json:"group"`
	Description string       `json:"description,omitempty"`
	Includes    []string     `json:"includes,omitempty"`
}

// registerTools registers all MCP tools on the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTools(
		s.listAgentsTool(),
		s.getAgentTool(),
		s.renderAgentTool(),
		s.listIncludesTool(),
	)
}

func (s *Server) listAgentsTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_agents",
		mcplib.WithDescription("List the brain and every registered agent"),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleListAgents}
}

func (s *Server) getAgentTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("get_agent",
		mcplib.WithDescription("Compile an agent and return the document as JSON"),
		mcplib.WithString("id",
			mcplib.Required(),
			mcplib.Description("The agent ID, e.g. database-master"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleGetAgent}
}

func (s *Server) renderAgentTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("render_agent",
		mcplib.WithDescription("Compile an agent and render it in the given format"),
		mcplib.WithString("id",
			mcplib.Required(),
			mcplib.Description("The agent ID"),
		),
		mcplib.WithString("format",
			mcplib.Description("markdown, json, yaml, toml or a2a (default markdown)"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleRenderAgent}
}

func (s *Server) listIncludesTool() mcpserver.ServerTool {
	tool := mcplib.NewTool("list_includes",
		mcplib.WithDescription("List all bundles, or the resolved include order of one agent"),
		mcplib.WithString("id",
			mcplib.Description("Optional agent ID"),
		),
	)
	return mcpserver.ServerTool{Tool: tool, Handler: s.handleListIncludes}
}

func (s *Server) handleListAgents(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Agents == nil {
		return mcplib.NewToolResultError("agent catalog not configured"), nil
	}
	defs := s.deps.Agents.List()
	out := make([]AgentInfo, len(defs))
	for i, d := range defs {
		desc, _ := d.MetaValue("description")
		out[i] = AgentInfo{ID: d.ID, Archetype: d.Archetype, Description: desc, Includes: d.Includes}
	}
	return toolResultJSON(out, "agents")
}

func (s *Server) handleGetAgent(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Compiler == nil {
		return mcplib.NewToolResultError("compiler not configured"), nil
	}
	id, ok := stringArg(req, "id")
	if !ok {
		return mcplib.NewToolResultError("id is required"), nil
	}
	doc, err := s.deps.Compiler.Compile(ctx, id)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("failed to compile %s", id), err), nil
	}
	return toolResultJSON(doc, "document")
}

func (s *Server) handleRenderAgent(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	id, ok := stringArg(req, "id")
	if !ok {
		return mcplib.NewToolResultError("id is required"), nil
	}
	format, ok := stringArg(req, "format")
	if !ok {
		format = s.cfg.DefaultFormat
	}
	data, err := s.render(ctx, id, format)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("failed to render %s", id), err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}

func (s *Server) handleListIncludes(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if id, ok := stringArg(req, "id"); ok {
		if s.deps.Compiler == nil {
			return mcplib.NewToolResultError("compiler not configured"), nil
		}
		doc, err := s.deps.Compiler.Compile(ctx, id)
		if err != nil {
			return mcplib.NewToolResultErrorFromErr(fmt.Sprintf("failed to compile %s", id), err), nil
		}
		includes := doc.Includes
		if includes == nil {
			includes = []string{}
		}
		return toolResultJSON(includes, "includes")
	}

	if s.deps.Bundles == nil {
		return mcplib.NewToolResultError("bundle catalog not configured"), nil
	}
	return toolResultJSON(includeInfos(s.deps.Bundles.List()), "bundles")
}

func (s *Server) render(ctx context.Context, id, format string) ([]byte, error) {
	if s.deps.Compiler == nil || s.deps.Render == nil {
		return nil, errRendererMissing
	}
	doc, err := s.deps.Compiler.Compile(ctx, id)
	if err != nil {
		return nil, err
	}
	data, _, err := s.deps.Render.Render(ctx, doc, format)
	return data, err
}

func includeInfos(bundles []*bundle.Bundle) []IncludeInfo {
	out := make([]IncludeInfo, len(bundles))
	for i, b := range bundles {
		out[i] = IncludeInfo{Name: b.Name, Group: b.Group, Description: b.Description, Includes: b.Includes}
	}
	return out
}

func stringArg(req mcplib.CallToolRequest, name string) (string, bool) { //nolint:gocritic // hugeParam: mcp-go request type
	v, ok := req.GetArguments()[name].(string)
	return v, ok && v != ""
}

func toolResultJSON(v any, what string) (*mcplib.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcplib.NewToolResultErrorFromErr("failed to marshal "+what, err), nil
	}
	return mcplib.NewToolResultText(string(data)), nil
}
