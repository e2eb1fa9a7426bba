// Package mcp exposes the analyzer operations as MCP tools over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/controller"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/util"
)

// Input types for tools
type AnalyzeCodeInput struct {
	Source       string         `json:"source" jsonschema:"Source code to analyze"`
	Filename     string         `json:"filename" jsonschema:"File name used for path-conditioned rules and reporting"`
	AnalysisType string         `json:"analysisType,omitempty" jsonschema:"One of all, validation, patterns, errors (default: all)"`
	Rules        map[string]any `json:"rules,omitempty" jsonschema:"Per-rule settings: off, a severity, or {level, severity}"`
}

type ConsistencyInput struct {
	Files []model.SourceFile `json:"files" jsonschema:"Files to compare, each with filename and source"`
}

type ListRulesInput struct {
	Rules map[string]any `json:"rules,omitempty" jsonschema:"Per-rule settings applied before listing"`
}

type GenerateFixInput struct {
	RuleID   string `json:"ruleId" jsonschema:"Rule whose fix should be previewed"`
	Filename string `json:"filename" jsonschema:"File name of the source"`
	Source   string `json:"source" jsonschema:"Source code to rewrite"`
}

type RefactoringsInput struct {
	FixIDs []string           `json:"fixIds" jsonschema:"Fix ids to apply in order"`
	Files  []model.SourceFile `json:"files" jsonschema:"Files to rewrite"`
}

// Server wraps an MCP server bound to an analysis controller
type Server struct {
	server   *mcp.Server
	analysis *controller.AnalysisController
}

// NewServer registers every analyzer tool on a new MCP server
func NewServer(cfg *config.Config, analysis *controller.AnalysisController) *Server {
	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{
			Name:    cfg.Agent.Name,
			Version: cfg.Agent.Version,
		}, nil),
		analysis: analysis,
	}

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_code",
		Description: "Analyze one TypeScript/Effect-TS source for anti-patterns. Returns findings with 1-based ranges and suggestions.",
	}, s.handleAnalyzeCode)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analyze_consistency",
		Description: "Compare several files and report conventions that are used inconsistently across them.",
	}, s.handleAnalyzeConsistency)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_rules",
		Description: "List the active rules after applying optional per-rule settings.",
	}, s.handleListRules)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_fixes",
		Description: "List every available automated fix.",
	}, s.handleListFixes)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "generate_fix",
		Description: "Preview the fix for a rule on one source. Nothing is written; applied is always false.",
	}, s.handleGenerateFix)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "apply_refactorings",
		Description: "Preview a batch of fixes applied in order over several files. Only changed files are returned.",
	}, s.handleApplyRefactorings)

	return s
}

// Run serves on stdio until the client disconnects or ctx is done
func (s *Server) Run(ctx context.Context) error {
	if err := s.server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		util.Error("MCP server error: %v", err)
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}

func (s *Server) handleAnalyzeCode(ctx context.Context, req *mcp.CallToolRequest, input AnalyzeCodeInput) (*mcp.CallToolResult, any, error) {
	if input.Filename == "" {
		return errorResult("filename is required"), nil, nil
	}
	report := s.analysis.Analyze(controller.AnalyzeRequest{
		Source:       input.Source,
		Filename:     input.Filename,
		AnalysisType: input.AnalysisType,
		Rules:        ruleConfig(input.Rules),
	})
	return jsonResult(report)
}

func (s *Server) handleAnalyzeConsistency(ctx context.Context, req *mcp.CallToolRequest, input ConsistencyInput) (*mcp.CallToolResult, any, error) {
	issues, err := s.analysis.AnalyzeConsistency(ctx, input.Files)
	if err != nil {
		return errorResult("Consistency check failed: " + err.Error()), nil, nil
	}
	return jsonResult(struct {
		Issues []model.ConsistencyIssue `json:"issues"`
	}{Issues: issues})
}

func (s *Server) handleListRules(ctx context.Context, req *mcp.CallToolRequest, input ListRulesInput) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.analysis.ListRules(ruleConfig(input.Rules)))
}

func (s *Server) handleListFixes(ctx context.Context, req *mcp.CallToolRequest, input struct{}) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.analysis.ListFixes())
}

func (s *Server) handleGenerateFix(ctx context.Context, req *mcp.CallToolRequest, input GenerateFixInput) (*mcp.CallToolResult, any, error) {
	if input.RuleID == "" {
		return errorResult("ruleId is required"), nil, nil
	}
	return jsonResult(s.analysis.GenerateFix(input.RuleID, input.Filename, input.Source))
}

func (s *Server) handleApplyRefactorings(ctx context.Context, req *mcp.CallToolRequest, input RefactoringsInput) (*mcp.CallToolResult, any, error) {
	return jsonResult(s.analysis.ApplyRefactorings(input.FixIDs, input.Files))
}

// ruleConfig converts loosely typed tool arguments; nil keeps the configured rules
func ruleConfig(raw map[string]any) config.RuleConfig {
	if raw == nil {
		return nil
	}
	return config.RuleConfigFromAny(raw)
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		IsError: true,
	}
}
