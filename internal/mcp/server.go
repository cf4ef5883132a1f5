package mcp

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crabman-cli/crabman/internal/config"
	"github.com/crabman-cli/crabman/internal/db"
	"github.com/crabman-cli/crabman/internal/render"
	"github.com/crabman-cli/crabman/internal/rustdoc"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

//go:embed instructions.md
var instructions string

type Server struct {
	mcpServer *server.MCPServer
	section   int
}

func NewServer(section int) *Server {
	s := &Server{section: section}

	mcpServer := server.NewMCPServer(
		"crabman",
		"0.1.0",
		server.WithInstructions(instructions),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerTools(mcpServer)
	s.registerResources(mcpServer)

	s.mcpServer = mcpServer
	return s
}

func (s *Server) registerTools(mcpServer *server.MCPServer) {
	mcpServer.AddTool(
		mcp.NewTool("man_page",
			mcp.WithDescription("Read the man page for a Rust item by its fully qualified path. The crate is fetched from docs.rs on first use. Version defaults to \"latest\"."),
			mcp.WithString("crate",
				mcp.Description("Crate name (e.g., \"serde\")"),
				mcp.Required(),
			),
			mcp.WithString("version",
				mcp.Description("Crate version (default: \"latest\")"),
			),
			mcp.WithString("path",
				mcp.Description("Fully qualified item path, e.g. \"de::Deserialize\""),
				mcp.Required(),
			),
		),
		s.handleManPage,
	)

	mcpServer.AddTool(
		mcp.NewTool("apropos",
			mcp.WithDescription("Search generated man pages by keyword, matching qualified names and one-line summaries. Run `crabman gen` first to populate the index."),
			mcp.WithString("term",
				mcp.Description("Search term"),
				mcp.Required(),
			),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of results (default 20)"),
			),
		),
		s.handleApropos,
	)
}

func (s *Server) registerResources(mcpServer *server.MCPServer) {
	mcpServer.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"rustman://{crate}/{version}/{path}",
			"Rust reference page",
			mcp.WithTemplateDescription("Read a specific item's man page. Apropos results name the paths."),
			mcp.WithTemplateMIMEType("text/troff"),
		),
		s.handleReadResource,
	)
}

func (s *Server) handleManPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	crateName, _ := args["crate"].(string)
	path, _ := args["path"].(string)
	if crateName == "" || path == "" {
		return mcp.NewToolResultError("missing required parameters: crate, path"), nil
	}
	version, _ := args["version"].(string)

	page, err := s.renderPage(crateName, version, path)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(page.Content), nil
}

func (s *Server) handleApropos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	term, _ := args["term"].(string)
	if term == "" {
		return mcp.NewToolResultError("missing required parameter: term"), nil
	}
	limit := 0
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	database, err := db.New(config.DBPath())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("opening whatis index: %v", err)), nil
	}
	defer database.Close()

	entries, err := database.Apropos(term, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}

	resultJSON, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(resultJSON)), nil
}

func (s *Server) handleReadResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	trimmed := strings.TrimPrefix(uri, "rustman://")
	parts := strings.SplitN(trimmed, "/", 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("invalid resource URI: %s", uri)
	}

	page, err := s.renderPage(parts[0], parts[1], parts[2])
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/troff",
			Text:     page.Content,
		},
	}, nil
}

// renderPage assembles a single item's page on demand. The path is the
// qualified name relative to the crate root, e.g. "de::Deserialize"; the
// crate-prefixed form is accepted too.
func (s *Server) renderPage(crateName, version, path string) (*render.Page, error) {
	crate, err := rustdoc.Acquire(crateName, version)
	if err != nil {
		return nil, fmt.Errorf("acquiring %s: %w", crateName, err)
	}

	paths, err := render.Resolve(crate)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", crateName, err)
	}

	if page, ok, err := s.findPage(crate, paths, path); err != nil || ok {
		return page, err
	}
	if rest, found := strings.CutPrefix(path, crate.Name()+render.Separator); found {
		if page, ok, err := s.findPage(crate, paths, rest); err != nil || ok {
			return page, err
		}
	}
	return nil, fmt.Errorf("no item %q in %s@%s", path, crateName, crate.Version())
}

func (s *Server) findPage(crate *rustdoc.Crate, paths render.PathTable, path string) (*render.Page, bool, error) {
	for id := range paths {
		item, ok := crate.Index[id]
		if !ok || item.Name == nil {
			continue
		}
		if paths.QualifiedName(id, *item.Name) != path {
			continue
		}
		asm := render.NewAssembler(crate, paths, s.section)
		page, err := asm.Page(id, &item)
		return page, true, err
	}
	return nil, false, nil
}

func (s *Server) Run() error {
	return server.ServeStdio(s.mcpServer)
}
