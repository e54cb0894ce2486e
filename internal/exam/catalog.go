package exam

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
)

// Exam identifies one extractable (subject, year, language) exam instance
// discovered under the data directory.
type Exam struct {
	Subject     string
	Code        string
	Year        string
	Language    string
	DataPDF     string
	ConsultPDF  string
	HasConsult  bool
	DataPDFSize int64
}

// testPDFPattern matches data PDF filenames of the form
// {code}_{subject}_test_{year}_{language}.pdf.
var testPDFPattern = regexp.MustCompile(`^(\d{2})_([a-z]{3})_test_(\d{4})_(rus|bel)\.pdf$`)

// DataPDFPath returns the conventional path of the exam paper PDF for one
// (subject, year, language) combination.
func DataPDFPath(dataDir, subject, year, language string) string {
	code := SubjectCodes[subject]
	name := fmt.Sprintf("%s_%s_test_%s_%s.pdf", code, subject, year, language)
	return filepath.Join(dataDir, fmt.Sprintf("%s_%s", code, subject), name)
}

// ConsultPDFPath returns the conventional path of the answer-key
// (consultation) PDF for one (subject, year) combination. The answer key is
// language-independent.
func ConsultPDFPath(dataDir, subject, year string) string {
	code := SubjectCodes[subject]
	name := fmt.Sprintf("%s_%s_consult_%s.pdf", code, subject, year)
	return filepath.Join(dataDir, fmt.Sprintf("%s_%s", code, subject), name)
}

// ScanDataDir walks the data directory and returns every exam instance whose
// data PDF follows the naming convention. Files with unknown subject codes
// are skipped; the scan never fails on individual files.
func ScanDataDir(dataDir string) ([]Exam, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("data directory cannot be empty")
	}
	if _, err := os.Stat(dataDir); err != nil {
		return nil, fmt.Errorf("cannot access data directory %s: %w", dataDir, err)
	}

	var exams []Exam
	err := filepath.Walk(dataDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil //nolint:nilerr // continue on file errors
		}
		if info.IsDir() {
			return nil
		}

		m := testPDFPattern.FindStringSubmatch(info.Name())
		if m == nil {
			return nil
		}
		code, subject, year, language := m[1], m[2], m[3], m[4]
		if SubjectCodes[subject] != code {
			return nil
		}

		consult := ConsultPDFPath(dataDir, subject, year)
		_, consultErr := os.Stat(consult)

		exams = append(exams, Exam{
			Subject:     subject,
			Code:        code,
			Year:        year,
			Language:    language,
			DataPDF:     path,
			ConsultPDF:  consult,
			HasConsult:  consultErr == nil,
			DataPDFSize: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan data directory: %w", err)
	}

	sort.Slice(exams, func(i, j int) bool {
		a, b := exams[i], exams[j]
		if a.Code != b.Code {
			return a.Code < b.Code
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Language < b.Language
	})
	return exams, nil
}
