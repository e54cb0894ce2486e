// Package extract turns a pair of exam PDFs, the question booklet and its
// consultation booklet, into corpus records: questions are segmented and
// cleaned, answers and comments associated by page position, detected
// tables spliced back as markdown and illustrations attached inline.
package extract

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ctexam/corpusgen/internal/corpus"
	"github.com/ctexam/corpusgen/internal/exam"
	"github.com/ctexam/corpusgen/internal/layout"
	"github.com/ctexam/corpusgen/internal/tables"
)

// Subject drives extraction for one exam edition: a subject code, year
// and language.
type Subject struct {
	Subject  string
	Language string
	Year     string

	DataPDFPath    string
	ConsultPDFPath string

	Sections []Section
	Answers  map[string]*AnswerRecord
	Tables   []tables.Grid
	Images   []ImageRecord

	detector tables.Detector
	logger   *slog.Logger
}

// NewSubject validates the codes and resolves the edition's PDF paths
// under dataDir. A nil detector disables table splicing; a nil logger
// disables diagnostics.
func NewSubject(dataDir, subject, year, language string, detector tables.Detector, logger *slog.Logger) (*Subject, error) {
	if err := exam.ValidateCodes(subject, language); err != nil {
		return nil, err
	}
	if detector == nil {
		detector = tables.Noop{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Subject{
		Subject:        subject,
		Language:       language,
		Year:           year,
		DataPDFPath:    exam.DataPDFPath(dataDir, subject, year, language),
		ConsultPDFPath: exam.ConsultPDFPath(dataDir, subject, year),
		detector:       detector,
		logger:         logger,
	}, nil
}

// Extract runs the full pipeline: table detection, question segmentation,
// image extraction and answer association, then splices the detected
// tables into their questions.
func (s *Subject) Extract(ctx context.Context) error {
	if err := s.extractTables(ctx); err != nil {
		return err
	}
	if err := s.extractQuestions(); err != nil {
		return err
	}
	if err := s.extractImages(); err != nil {
		return err
	}
	if err := s.extractAnswers(); err != nil {
		return err
	}

	NewMatcher(s.logger).SpliceAll(s.Sections, s.Tables)
	return nil
}

func (s *Subject) extractTables(ctx context.Context) error {
	grids, err := s.detector.Detect(ctx, s.DataPDFPath)
	if err != nil {
		return fmt.Errorf("table detection failed: %w", err)
	}
	CleanGrids(grids)
	s.Tables = ApplyTableOverrides(s.Subject, s.Year, grids)
	return nil
}

func (s *Subject) extractQuestions() error {
	doc, err := layout.Open(s.DataPDFPath)
	if err != nil {
		return fmt.Errorf("cannot open question booklet: %w", err)
	}
	defer doc.Close()

	s.Sections = Segment(doc.FullText())
	return nil
}

func (s *Subject) extractImages() error {
	records, err := ExtractImages(s.DataPDFPath)
	if err != nil {
		return fmt.Errorf("image extraction failed: %w", err)
	}

	dir := filepath.Dir(s.DataPDFPath)
	if ids := ImageQuestionOverride(s.Subject, s.Year); ids != nil {
		ApplyImageOverrides(records, ids, dir)
	}
	if err := WriteImageInfo(dir, records); err != nil {
		return err
	}
	s.Images = records
	return nil
}

func (s *Subject) extractAnswers() error {
	doc, err := layout.Open(s.ConsultPDFPath)
	if err != nil {
		return fmt.Errorf("cannot open consultation booklet: %w", err)
	}
	defer doc.Close()

	pages := make([][]layout.Block, 0, doc.NumPages())
	for p := 1; p <= doc.NumPages(); p++ {
		pages = append(pages, doc.PageBlocks(p))
	}
	s.Answers = AssociateAnswers(pages)
	return nil
}

// Records builds the full corpus record set for the edition. Every
// question must have a non-empty answer; building fails before any record
// is produced otherwise, so a corpus file is never left half-written for
// one edition.
func (s *Subject) Records() ([]corpus.Record, error) {
	if s.Sections == nil || s.Answers == nil {
		return nil, fmt.Errorf("extraction has not been run for %s %s %s", s.Subject, s.Year, s.Language)
	}

	samples, err := exam.LetterSamples(s.Language)
	if err != nil {
		return nil, err
	}

	var records []corpus.Record
	for _, sec := range s.Sections {
		system := sec.GeneralInfo + "\n" + samples
		engSection := exam.TranslateSection(sec.Letter)
		points := exam.SectionPoints(sec.Letter)

		for _, q := range sec.Questions {
			ans, ok := s.Answers[q.ID]
			if !ok || ans.Answer == "" {
				return nil, fmt.Errorf("no answer for question %s in %s %s %s", q.ID, s.Subject, s.Year, s.Language)
			}

			engID := engSection + string([]rune(q.ID)[1:])
			userContent := []corpus.Content{corpus.TextContent(q.Text)}
			for _, img := range s.Images {
				if img.QuestionID == q.ID {
					userContent = append(userContent, corpus.ImageContent(img.DataURI))
				}
			}

			records = append(records, corpus.Record{
				Input: []corpus.Message{
					{Role: "system", Content: []corpus.Content{corpus.TextContent(system)}},
					{Role: "user", Content: userContent},
				},
				Target: exam.TranslateAnswer(ans.Answer, s.Language),
				ID: fmt.Sprintf("%s-%s-%s-%s-%s",
					exam.SubjectCodes[s.Subject], s.Subject, s.Year, s.Language, engID),
				Metadata: corpus.Metadata{
					Comments: ans.Comment,
					Subject:  s.Subject,
					Year:     s.Year,
					Language: s.Language,
					Section:  engSection,
					Points:   points,
				},
			})
		}
	}
	return records, nil
}

// WriteCorpus appends the edition's records to the writer.
func (s *Subject) WriteCorpus(w *corpus.Writer) error {
	records, err := s.Records()
	if err != nil {
		return err
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			return fmt.Errorf("failed to write record %s: %w", rec.ID, err)
		}
	}
	s.logger.Info("corpus records written",
		"subject", s.Subject, "year", s.Year, "language", s.Language, "records", len(records))
	return nil
}
