package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/macrolens/internal/expand"
	"github.com/mvp-joe/macrolens/internal/format"
	"github.com/mvp-joe/macrolens/internal/lexer"
	"github.com/mvp-joe/macrolens/internal/locate"
	"github.com/mvp-joe/macrolens/internal/lookup"
	mcputils "github.com/mvp-joe/macrolens/internal/mcp-utils"
)

// LocateToolName is the name the tool is registered under.
const LocateToolName = "locate_declaration"

// Looker runs lookups against the configured crate, or against text the caller provides.
type Looker interface {
	Look(ctx context.Context, req locate.Request) (*lookup.Result, error)
	LookSource(ctx context.Context, expanded string, req locate.Request) (*lookup.Result, error)
}

// LocateRequest is the argument set of locate_declaration.
type LocateRequest struct {
	Kind       string `json:"kind"`
	Name       string `json:"name"`
	ForType    string `json:"for_type,omitempty"`
	Source     string `json:"source,omitempty"`
	IncludeRaw bool   `json:"include_raw,omitempty"`
}

// LocateResponse is the JSON body of a successful call.
type LocateResponse struct {
	Found   bool   `json:"found"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Raw     string `json:"raw,omitempty"`
	// Warning is set when the declaration was found but could not be formatted.
	Warning string `json:"warning,omitempty"`
	TookMs  int64  `json:"took_ms"`
}

// AddLocateTool registers locate_declaration with an MCP server.
func AddLocateTool(s *server.MCPServer, looker Looker) {
	tool := mcp.NewTool(
		LocateToolName,
		mcp.WithDescription("Show the macro-expanded source of one Rust declaration: a struct/enum/union definition, a function, or a trait implementation block. Expands the crate with the compiler unless expanded source is supplied."),
		mcp.WithString("kind",
			mcp.Required(),
			mcp.Description("Declaration kind: type, function or impl")),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Type, function or trait name (e.g. 'Point', 'area', 'Debug')")),
		mcp.WithString("for_type",
			mcp.Description("For impl: only match the block implemented for this type")),
		mcp.WithString("source",
			mcp.Description("Already-expanded Rust source to search instead of expanding the crate")),
		mcp.WithBoolean("include_raw",
			mcp.Description("Also return the unformatted token text")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createLocateHandler(looker))
}

// createLocateHandler creates the handler function for locate_declaration.
func createLocateHandler(looker Looker) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if _, ok := request.GetRawArguments().(map[string]any); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var args LocateRequest
		if err := mcputils.CoerceBindArguments(request, &args); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid arguments: %v", err)), nil
		}

		req, err := args.toRequest()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		var res *lookup.Result
		if args.Source != "" {
			res, err = looker.LookSource(ctx, args.Source, req)
		} else {
			res, err = looker.Look(ctx, req)
		}

		resp := LocateResponse{Message: req.Describe()}
		switch {
		case err == nil:
		case errors.Is(err, lookup.ErrNotFound):
			resp.Message = err.Error()
			return marshalToolResponse(resp)
		case errors.Is(err, format.ErrFormattingFailed) && res != nil:
			resp.Warning = err.Error()
		case errors.Is(err, expand.ErrExpansionFailed), errors.Is(err, lexer.ErrUnbalanced):
			return mcp.NewToolResultError(err.Error()), nil
		default:
			return nil, err
		}

		resp.Found = true
		resp.Message = res.Message
		resp.Code = res.Code
		resp.TookMs = res.Took.Milliseconds()
		if args.IncludeRaw {
			resp.Raw = res.Raw
		}
		return marshalToolResponse(resp)
	}
}

func (r LocateRequest) toRequest() (locate.Request, error) {
	if strings.TrimSpace(r.Kind) == "" {
		return locate.Request{}, fmt.Errorf("kind parameter is required")
	}
	if strings.TrimSpace(r.Name) == "" {
		return locate.Request{}, fmt.Errorf("name parameter is required")
	}
	kind, err := locate.ParseKind(strings.ToLower(strings.TrimSpace(r.Kind)))
	if err != nil {
		return locate.Request{}, err
	}

	req := locate.Request{Kind: kind, Name: strings.TrimSpace(r.Name), ImplementingType: strings.TrimSpace(r.ForType)}
	if err := req.Validate(); err != nil {
		return locate.Request{}, err
	}
	return req, nil
}
