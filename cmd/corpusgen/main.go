package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ctexam/corpusgen/internal/config"
	"github.com/ctexam/corpusgen/internal/corpus"
	"github.com/ctexam/corpusgen/internal/exam"
	"github.com/ctexam/corpusgen/internal/extract"
	"github.com/ctexam/corpusgen/internal/mcp"
	"github.com/ctexam/corpusgen/internal/tables"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "corpusgen",
		Short: "Extract centralized-exam PDFs into a benchmark corpus",
	}

	ext := extractCmd()
	root.AddCommand(ext, listCmd(), serveCmd())

	// Make "extract" the default when no subcommand is given.
	root.RunE = ext.RunE

	// Register extract flags on root so bare `corpusgen --subject ...` still works.
	root.Flags().AddFlagSet(ext.Flags())

	return root
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract exam editions into a JSONL corpus file",
		RunE:  runExtract,
	}
	config.DefaultConfig().BindFlags(cmd.Flags())
	return cmd
}

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the exam editions found in the data directory",
		RunE:  runList,
	}
	config.DefaultConfig().BindFlags(cmd.Flags())
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the extraction tools over the Model Context Protocol on stdio",
		RunE:  runServe,
	}
	config.DefaultConfig().BindFlags(cmd.Flags())
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("loglevel")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("logformat")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("CORPUSGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.FromViper(viperForCmd(cmd))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func detectorFor(cfg *config.Config) tables.Detector {
	if cfg.TablesServiceURL == "" {
		return tables.Noop{}
	}
	return tables.NewClient(cfg.TablesServiceURL)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	specs, err := cfg.SubjectSpecs()
	if err != nil {
		return err
	}
	if len(specs) == 0 {
		return errors.New("at least one --subject spec is required (e.g. --subject geo:2023)")
	}

	// Open the output up front so a taken path fails before any extraction work.
	w, err := corpus.NewWriter(cfg.OutputFile, cfg.Overwrite)
	if err != nil {
		if errors.Is(err, corpus.ErrOutputExists) {
			return fmt.Errorf("%w: pass --overwrite to replace %s", err, cfg.OutputFile)
		}
		return err
	}
	defer w.Close()

	detector := detectorFor(cfg)
	logger := slog.Default()

	failed := 0
	for _, spec := range specs {
		for _, language := range cfg.Languages {
			if err := extractOne(cmd, cfg, spec, language, detector, w, logger); err != nil {
				logger.Error("extraction failed",
					"subject", spec.Subject, "year", spec.Year, "language", language, "error", err)
				failed++
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d extraction(s) failed", failed)
	}
	return nil
}

func extractOne(cmd *cobra.Command, cfg *config.Config, spec config.SubjectSpec, language string,
	detector tables.Detector, w *corpus.Writer, logger *slog.Logger,
) error {
	sub, err := extract.NewSubject(cfg.DataDir, spec.Subject, spec.Year, language, detector, logger)
	if err != nil {
		return err
	}
	if err := sub.Extract(cmd.Context()); err != nil {
		return err
	}
	return sub.WriteCorpus(w)
}

func runList(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	exams, err := exam.ScanDataDir(cfg.DataDir)
	if err != nil {
		return err
	}
	if len(exams) == 0 {
		fmt.Printf("No exam PDFs found in %s\n", cfg.DataDir)
		return nil
	}

	for _, e := range exams {
		answerKey := "answer key missing"
		if e.HasConsult {
			answerKey = "answer key present"
		}
		fmt.Printf("%s:%s %s  %s  (%s)\n", e.Subject, e.Year, e.Language, e.DataPDF, answerKey)
	}
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	srv, err := mcp.NewServer(cfg, detectorFor(cfg), slog.Default())
	if err != nil {
		return err
	}
	return srv.Run(cmd.Context())
}
