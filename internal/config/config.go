// Package config holds the runtime configuration for the corpus
// generator, populated from command line flags and CORPUSGEN_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ctexam/corpusgen/internal/exam"
)

const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultOutputFile  = "corpus.jsonl"
	DefaultMaxFileSize = 100 * 1024 * 1024 // 100MB
)

// SubjectSpec is one "subject:year" extraction request.
type SubjectSpec struct {
	Subject string
	Year    string
}

// Config holds all configuration for the corpus generator.
type Config struct {
	// Extraction configuration
	DataDir    string
	OutputFile string
	Overwrite  bool
	Subjects   []string // "subject:year" specs
	Languages  []string

	// Table detection service. Empty disables table splicing.
	TablesServiceURL string

	// Application configuration
	Version     string
	ServerName  string
	LogLevel    string
	LogFormat   string
	MaxFileSize int64
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	currentDir, err := os.Getwd()
	if err != nil {
		currentDir = "."
	}

	return &Config{
		DataDir:     filepath.Join(currentDir, "data"),
		OutputFile:  DefaultOutputFile,
		Languages:   []string{"rus", "bel"},
		Version:     "1.0.0",
		ServerName:  "corpusgen",
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// BindFlags registers every configuration flag on the given flag set,
// seeded with the config's current values as defaults.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.String("data-dir", c.DataDir, "Directory containing the exam PDF tree")
	fs.String("output", c.OutputFile, "Corpus output file (JSON lines)")
	fs.Bool("overwrite", c.Overwrite, "Truncate the output file instead of refusing to touch it")
	fs.StringSlice("subject", c.Subjects, "Exam to extract as subject:year, repeatable (e.g. geo:2023)")
	fs.StringSlice("language", c.Languages, "Languages to extract (rus, bel)")
	fs.String("tables-url", c.TablesServiceURL, "Base URL of the table detection service (empty disables table splicing)")
	fs.String("loglevel", c.LogLevel, "Log level (debug, info, warn, error)")
	fs.String("logformat", c.LogFormat, "Log format (text, json)")
	fs.Int64("maxfilesize", c.MaxFileSize, "Maximum PDF file size in bytes")
}

// FromViper fills the config with the values resolved by viper, then
// normalizes paths.
func (c *Config) FromViper(v *viper.Viper) {
	c.DataDir = v.GetString("data-dir")
	c.OutputFile = v.GetString("output")
	c.Overwrite = v.GetBool("overwrite")
	c.Subjects = v.GetStringSlice("subject")
	c.Languages = v.GetStringSlice("language")
	c.TablesServiceURL = v.GetString("tables-url")
	c.LogLevel = v.GetString("loglevel")
	c.LogFormat = v.GetString("logformat")
	c.MaxFileSize = v.GetInt64("maxfilesize")

	if c.DataDir != "" {
		if abs, err := filepath.Abs(c.DataDir); err == nil {
			c.DataDir = abs
		}
	}
}

// ParseSubjectSpec splits a "subject:year" spec and validates both parts.
func ParseSubjectSpec(spec string) (SubjectSpec, error) {
	subject, year, ok := strings.Cut(spec, ":")
	if !ok {
		return SubjectSpec{}, fmt.Errorf("subject spec %q must have the form subject:year", spec)
	}
	if _, ok := exam.SubjectCodes[subject]; !ok {
		return SubjectSpec{}, fmt.Errorf("subject %q is not a valid subject code", subject)
	}
	if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
		return SubjectSpec{}, fmt.Errorf("year %q must be a four digit year", year)
	}
	return SubjectSpec{Subject: subject, Year: year}, nil
}

// SubjectSpecs parses every configured subject spec.
func (c *Config) SubjectSpecs() ([]SubjectSpec, error) {
	specs := make([]SubjectSpec, 0, len(c.Subjects))
	for _, raw := range c.Subjects {
		spec, err := ParseSubjectSpec(raw)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data directory cannot be empty")
	}
	if _, err := os.Stat(c.DataDir); err != nil {
		return fmt.Errorf("cannot access data directory %s: %w", c.DataDir, err)
	}

	if c.OutputFile == "" {
		return errors.New("output file cannot be empty")
	}

	if len(c.Languages) == 0 {
		return errors.New("at least one language is required")
	}
	for _, lang := range c.Languages {
		if !exam.Languages[lang] {
			return fmt.Errorf("invalid language: %s (must be one of: rus, bel)", lang)
		}
	}

	if _, err := c.SubjectSpecs(); err != nil {
		return err
	}

	if c.MaxFileSize <= 0 {
		return errors.New("maximum file size must be positive")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be one of: debug, info, warn, error)", c.LogLevel)
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.LogFormat)
	}

	return nil
}

// IsDebug returns true if debug logging is enabled.
func (c *Config) IsDebug() bool {
	return c.LogLevel == "debug"
}

// String returns a string representation of the configuration.
func (c *Config) String() string {
	return fmt.Sprintf("Config{DataDir: %s, OutputFile: %s, Overwrite: %t, Subjects: %v, Languages: %v, TablesServiceURL: %s, LogLevel: %s}",
		c.DataDir, c.OutputFile, c.Overwrite, c.Subjects, c.Languages, c.TablesServiceURL, c.LogLevel)
}
