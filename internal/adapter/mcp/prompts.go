package mcp

import (
	"context"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// registerPrompts adds one prompt per agent known at startup. The prompt
// text is rendered on every request, so bundle reloads show up without
// re-registering.
func (s *Server) registerPrompts() {
	if s.deps.Agents == nil {
		return
	}
	for _, d := range s.deps.Agents.List() {
		desc, ok := d.MetaValue("description")
		if !ok {
			desc = "System prompt for " + d.ID
		}
		prompt := mcplib.NewPrompt(d.ID,
			mcplib.WithPromptDescription(desc),
			mcplib.WithArgument("format",
				mcplib.ArgumentDescription("Render format (default markdown)"),
			),
		)
		s.mcpServer.AddPrompt(prompt, s.promptHandler(d.ID, desc))
	}
}

func (s *Server) promptHandler(id, desc string) mcpserver.PromptHandlerFunc {
	return func(ctx context.Context, req mcplib.GetPromptRequest) (*mcplib.GetPromptResult, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
		format := req.Params.Arguments["format"]
		if format == "" {
			format = s.cfg.DefaultFormat
		}
		data, err := s.render(ctx, id, format)
		if err != nil {
			return nil, err
		}
		return mcplib.NewGetPromptResult(desc, []mcplib.PromptMessage{
			mcplib.NewPromptMessage(mcplib.RoleUser, mcplib.NewTextContent(string(data))),
		}), nil
	}
}
