package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
)

const (
	agentURIPrefix = "brain://agents/"
	bundlesURI     = "brain://bundles"
)

// registerResources registers the bundle list and the agent document template.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcplib.NewResource(
			bundlesURI,
			"Bundles",
			mcplib.WithResourceDescription("All include bundles: presets and custom YAML bundles"),
			mcplib.WithMIMEType("application/json"),
		),
		s.handleBundlesResource,
	)

	s.mcpServer.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			agentURIPrefix+"{id}",
			"Agent document",
			mcplib.WithTemplateDescription("Compiled agent rendered as markdown"),
			mcplib.WithTemplateMIMEType("text/markdown"),
		),
		s.handleAgentResource,
	)
}

func (s *Server) handleBundlesResource(_ context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	if s.deps.Bundles == nil {
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     `{"error":"bundle catalog not configured"}`,
			},
		}, nil
	}
	data, err := json.Marshal(includeInfos(s.deps.Bundles.List()))
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handleAgentResource(ctx context.Context, req mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) { //nolint:gocritic // hugeParam: mcp-go handler signature
	id := strings.TrimPrefix(req.Params.URI, agentURIPrefix)
	if id == "" || id == req.Params.URI {
		return nil, fmt.Errorf("invalid agent uri %q", req.Params.URI)
	}
	data, err := s.render(ctx, id, "markdown")
	if err != nil {
		return nil, err
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "text/markdown",
			Text:     string(data),
		},
	}, nil
}
