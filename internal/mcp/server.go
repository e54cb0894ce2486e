// Package mcp exposes the corpus generator over the Model Context
// Protocol, so extraction can be driven from MCP-capable clients.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ctexam/corpusgen/internal/config"
	"github.com/ctexam/corpusgen/internal/corpus"
	"github.com/ctexam/corpusgen/internal/exam"
	"github.com/ctexam/corpusgen/internal/extract"
	"github.com/ctexam/corpusgen/internal/layout"
	"github.com/ctexam/corpusgen/internal/tables"
)

// Server represents the MCP server instance
type Server struct {
	config    *config.Config
	detector  tables.Detector
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server instance
func NewServer(cfg *config.Config, detector tables.Detector, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if detector == nil {
		detector = tables.Noop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	mcpServer := server.NewMCPServer(
		cfg.ServerName,
		cfg.Version,
		server.WithToolCapabilities(false), // We don't support dynamic tool capabilities
	)

	s := &Server{
		config:    cfg,
		detector:  detector,
		logger:    logger,
		mcpServer: mcpServer,
	}

	s.registerTools()

	return s, nil
}

// registerTools registers all available MCP tools
func (s *Server) registerTools() {
	extractTool := mcp.NewTool(
		"exam_extract_subject",
		mcp.WithDescription("Extract one exam edition into corpus records and append them to the output file"),
		mcp.WithString("subject",
			mcp.Required(),
			mcp.Description("Subject code, e.g. geo or phy"),
		),
		mcp.WithString("year",
			mcp.Required(),
			mcp.Description("Four digit exam year"),
		),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Exam language: rus or bel"),
		),
		mcp.WithString("output",
			mcp.Description("Corpus output file (uses the configured default if empty)"),
		),
		mcp.WithBoolean("overwrite",
			mcp.Description("Truncate the output file instead of refusing an existing one"),
		),
	)
	s.mcpServer.AddTool(extractTool, s.handleExtractSubject)

	listTool := mcp.NewTool(
		"exam_list_exams",
		mcp.WithDescription("List the exam editions available in the data directory"),
		mcp.WithString("directory",
			mcp.Description("Data directory to scan (uses default if empty)"),
		),
	)
	s.mcpServer.AddTool(listTool, s.handleListExams)

	validateTool := mcp.NewTool(
		"exam_validate_pdf",
		mcp.WithDescription("Validate that a file is a readable PDF within the size limit"),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Full path to the PDF file"),
		),
	)
	s.mcpServer.AddTool(validateTool, s.handleValidatePDF)
}

// Handler functions
func (s *Server) handleExtractSubject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	subject, err := request.RequireString("subject")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	year, err := request.RequireString("year")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	language, err := request.RequireString("language")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	args := request.GetArguments()
	output := s.config.OutputFile
	if o, ok := args["output"].(string); ok && o != "" {
		output = o
	}
	overwrite := s.config.Overwrite
	if o, ok := args["overwrite"].(bool); ok {
		overwrite = o
	}

	sub, err := extract.NewSubject(s.config.DataDir, subject, year, language, s.detector, s.logger)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w, err := corpus.NewWriter(output, overwrite)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	defer w.Close()

	if err := sub.Extract(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	records, err := sub.Records()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}

	responseText := fmt.Sprintf("Extracted %s %s (%s)\n", subject, year, language)
	responseText += fmt.Sprintf("Questions: %d\n", len(records))
	responseText += fmt.Sprintf("Tables spliced from: %d grids\n", len(sub.Tables))
	responseText += fmt.Sprintf("Images: %d\n", len(sub.Images))
	responseText += fmt.Sprintf("Output: %s\n", w.Path())

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleListExams(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	directory := s.config.DataDir // default
	if dir, ok := args["directory"].(string); ok && dir != "" {
		directory = dir
	}

	exams, err := exam.ScanDataDir(directory)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var responseText string
	if len(exams) == 0 {
		responseText = fmt.Sprintf("No exam PDFs found in directory: %s", directory)
	} else {
		responseText = s.formatExamList(directory, exams)
	}

	return mcp.NewToolResultText(responseText), nil
}

func (s *Server) handleValidatePDF(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := request.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot access %s: %v", path, err)), nil
	}
	if info.Size() > s.config.MaxFileSize {
		return mcp.NewToolResultText(fmt.Sprintf(
			"PDF validation failed for %s: file size %d exceeds limit %d", path, info.Size(), s.config.MaxFileSize)), nil
	}

	if err := layout.Validate(path); err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("PDF validation failed for %s: %v", path, err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("PDF file %s is valid and readable", path)), nil
}

// Formatting methods
func (s *Server) formatExamList(directory string, exams []exam.Exam) string {
	text := fmt.Sprintf("Found %d exam PDF(s) in directory: %s\n", len(exams), directory)
	text += "\nExams:\n"

	for i, e := range exams {
		text += fmt.Sprintf("%d. %s %s (%s)\n", i+1, e.Subject, e.Year, e.Language)
		text += fmt.Sprintf("   Booklet: %s\n", e.DataPDF)
		if e.HasConsult {
			text += fmt.Sprintf("   Answer key: %s\n", e.ConsultPDF)
		} else {
			text += "   Answer key: missing\n"
		}
		if i < len(exams)-1 {
			text += "\n"
		}
	}

	return text
}

// Run starts the MCP server on standard I/O.
func (s *Server) Run(_ context.Context) error {
	if s.config.IsDebug() {
		s.logger.Debug("starting corpus generator MCP server",
			"data_dir", s.config.DataDir, "output", s.config.OutputFile)
	}

	if err := server.ServeStdio(s.mcpServer); err != nil {
		return fmt.Errorf("failed to serve stdio: %w", err)
	}
	return nil
}
