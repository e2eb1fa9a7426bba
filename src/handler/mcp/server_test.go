package mcp

import (
	"context"
	"encoding/json"
	"os"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pattern-analyzer/src/config"
	"pattern-analyzer/src/controller"
	"pattern-analyzer/src/model"
	"pattern-analyzer/src/util"
)

func TestMain(m *testing.M) {
	util.Nop()
	os.Exit(m.Run())
}

func newTestServer() *Server {
	cfg := config.DefaultConfig()
	return NewServer(cfg, controller.NewAnalysisController(cfg))
}

func decode[T any](t *testing.T, res *mcp.CallToolResult) T {
	t.Helper()
	require.NotNil(t, res)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)

	var v T
	require.NoError(t, json.Unmarshal([]byte(text.Text), &v))
	return v
}

func findingIDs(report model.Report) []string {
	var ids []string
	for _, f := range report.Findings {
		ids = append(ids, f.RuleID)
	}
	return ids
}

func TestHandleAnalyzeCode(t *testing.T) {
	s := newTestServer()

	res, _, err := s.handleAnalyzeCode(context.Background(), nil, AnalyzeCodeInput{
		Source:   `Effect.gen(function* () { console.log("x"); yield* f(); })`,
		Filename: "a.ts",
	})
	require.NoError(t, err)

	report := decode[model.Report](t, res)
	assert.Equal(t, "a.ts", report.Filename)
	assert.Contains(t, findingIDs(report), "console-log-in-effect")
}

func TestHandleAnalyzeCodeRuleSettings(t *testing.T) {
	s := newTestServer()
	input := AnalyzeCodeInput{Source: "const x: any = 1", Filename: "a.ts"}

	input.Rules = map[string]any{"any-type": "off"}
	res, _, err := s.handleAnalyzeCode(context.Background(), nil, input)
	require.NoError(t, err)
	assert.NotContains(t, findingIDs(decode[model.Report](t, res)), "any-type")

	input.Rules = map[string]any{"any-type": []any{"warn", map[string]any{"severity": "high"}}}
	res, _, err = s.handleAnalyzeCode(context.Background(), nil, input)
	require.NoError(t, err)
	report := decode[model.Report](t, res)
	require.Len(t, report.Findings, 1)
	assert.Equal(t, model.SeverityHigh, report.Findings[0].Severity)
}

func TestHandleAnalyzeCodeRequiresFilename(t *testing.T) {
	res, _, err := newTestServer().handleAnalyzeCode(context.Background(), nil, AnalyzeCodeInput{Source: "const a = 1"})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandleListRulesAndFixes(t *testing.T) {
	s := newTestServer()

	res, _, err := s.handleListRules(context.Background(), nil, ListRulesInput{})
	require.NoError(t, err)
	all := decode[[]model.RuleInfo](t, res)
	assert.GreaterOrEqual(t, len(all), 40)

	res, _, err = s.handleListRules(context.Background(), nil, ListRulesInput{Rules: map[string]any{"any-type": "off"}})
	require.NoError(t, err)
	assert.Len(t, decode[[]model.RuleInfo](t, res), len(all)-1)

	res, _, err = s.handleListFixes(context.Background(), nil, struct{}{})
	require.NoError(t, err)
	var ids []string
	for _, f := range decode[[]model.FixInfo](t, res) {
		ids = append(ids, f.ID)
	}
	assert.Contains(t, ids, "replace-node-fs")
}

func TestHandleGenerateFix(t *testing.T) {
	src := "import { readFile } from \"node:fs/promises\"\n\nexport const load = () => readFile(\"a.txt\")\n"
	res, _, err := newTestServer().handleGenerateFix(context.Background(), nil, GenerateFixInput{
		RuleID: "node-fs", Filename: "src/load.ts", Source: src,
	})
	require.NoError(t, err)

	preview := decode[model.FixPreview](t, res)
	assert.False(t, preview.Applied)
	require.Len(t, preview.Changes, 1)
	assert.NotContains(t, preview.Changes[0].After, "node:fs/promises")
}

func TestHandleApplyRefactorings(t *testing.T) {
	files := []model.SourceFile{
		{Filename: "a.ts", Source: "import * as fs from \"fs\"\n"},
		{Filename: "b.ts", Source: "const a = 1\n"},
	}
	res, _, err := newTestServer().handleApplyRefactorings(context.Background(), nil, RefactoringsInput{
		FixIDs: []string{"replace-node-fs", "no-such-fix"},
		Files:  files,
	})
	require.NoError(t, err)

	result := decode[model.RefactoringResult](t, res)
	require.Len(t, result.Changes, 1)
	assert.Equal(t, "a.ts", result.Changes[0].Filename)
}

func TestHandleAnalyzeConsistency(t *testing.T) {
	files := []model.SourceFile{
		{Filename: "a.ts", Source: "import * as fs from \"node:fs\"\n"},
		{Filename: "b.ts", Source: "import { FileSystem } from \"@effect/platform\"\n"},
	}
	res, _, err := newTestServer().handleAnalyzeConsistency(context.Background(), nil, ConsistencyInput{Files: files})
	require.NoError(t, err)

	out := decode[struct {
		Issues []model.ConsistencyIssue `json:"issues"`
	}](t, res)
	require.NotEmpty(t, out.Issues)
	assert.Equal(t, "inconsistent-filesystem", out.Issues[0].IssueID)
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	s := newTestServer()

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"analyze_code", "analyze_consistency", "list_rules",
		"list_fixes", "generate_fix", "apply_refactorings",
	}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "analyze_code",
		Arguments: map[string]any{"source": "const x: any = 1", "filename": "a.ts"},
	})
	require.NoError(t, err)
	assert.Contains(t, findingIDs(decode[model.Report](t, res)), "any-type")
}
