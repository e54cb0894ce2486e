package mcp

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ctexam/corpusgen/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.OutputFile = filepath.Join(t.TempDir(), "corpus.jsonl")
	cfg.ServerName = "test-server"
	return cfg
}

func TestNewServer(t *testing.T) {
	server, err := NewServer(testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}
	if server.mcpServer == nil {
		t.Error("expected MCP server to be initialized")
	}
	if server.detector == nil {
		t.Error("expected a fallback detector when none is given")
	}
}

func TestNewServerNilConfig(t *testing.T) {
	if _, err := NewServer(nil, nil, nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestHandleListExams(t *testing.T) {
	cfg := testConfig(t)

	// Lay out one edition following the naming convention.
	subjectDir := filepath.Join(cfg.DataDir, "13_geo")
	if err := os.MkdirAll(subjectDir, 0o750); err != nil {
		t.Fatalf("failed to create subject dir: %v", err)
	}
	for _, name := range []string{"13_geo_test_2023_rus.pdf", "13_geo_consult_2023.pdf"} {
		if err := os.WriteFile(filepath.Join(subjectDir, name), []byte("%PDF-1.4"), 0o600); err != nil {
			t.Fatalf("failed to create fixture %s: %v", name, err)
		}
	}

	server, err := NewServer(cfg, nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	result, err := server.handleListExams(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "geo 2023 (rus)") {
		t.Errorf("expected exam listing, got: %s", text)
	}
	if !strings.Contains(text, "13_geo_consult_2023.pdf") {
		t.Errorf("expected answer key path in listing, got: %s", text)
	}
}

func TestHandleListExamsEmptyDirectory(t *testing.T) {
	server, err := NewServer(testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{},
		},
	}

	result, err := server.handleListExams(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	text := extractTextFromResult(result)
	if !strings.Contains(text, "No exam PDFs found") {
		t.Errorf("expected empty listing message, got: %s", text)
	}
}

func TestHandleValidatePDFMissingFile(t *testing.T) {
	server, err := NewServer(testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": "/nonexistent/file.pdf",
			},
		},
	}

	result, err := server.handleValidatePDF(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for missing file")
	}
}

func TestHandleValidatePDFSizeLimit(t *testing.T) {
	cfg := testConfig(t)
	cfg.MaxFileSize = 4

	bigFile := filepath.Join(cfg.DataDir, "big.pdf")
	if err := os.WriteFile(bigFile, []byte("%PDF-1.4 too big"), 0o600); err != nil {
		t.Fatalf("failed to create fixture: %v", err)
	}

	server, err := NewServer(cfg, nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"path": bigFile,
			},
		},
	}

	result, err := server.handleValidatePDF(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	text := extractTextFromResult(result)
	if !strings.Contains(text, "exceeds limit") {
		t.Errorf("expected size limit message, got: %s", text)
	}
}

func TestHandleExtractSubjectBadCodes(t *testing.T) {
	server, err := NewServer(testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"subject":  "alchemy",
				"year":     "2023",
				"language": "rus",
			},
		},
	}

	result, err := server.handleExtractSubject(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result for invalid subject code")
	}
}

func TestHandleExtractSubjectMissingArguments(t *testing.T) {
	server, err := NewServer(testConfig(t), nil, nil)
	if err != nil {
		t.Fatalf("failed to create server: %v", err)
	}

	request := mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Arguments: map[string]interface{}{
				"subject": "geo",
			},
		},
	}

	result, err := server.handleExtractSubject(context.Background(), request)
	if err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if !result.IsError {
		t.Error("expected error result when year and language are missing")
	}
}

// Helper function to extract text from a CallToolResult
func extractTextFromResult(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}

	for _, content := range result.Content {
		if textContent, ok := content.(mcp.TextContent); ok {
			return textContent.Text
		}
		if textContentPtr, ok := content.(*mcp.TextContent); ok {
			return textContentPtr.Text
		}
	}
	return ""
}
