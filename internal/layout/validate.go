package layout

import (
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Validate checks that the file at path is a structurally sound PDF.
// Validation is relaxed: the scanned exam PDFs routinely violate strict
// conformance without affecting extraction.
func Validate(path string) error {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if err := api.ValidateFile(path, conf); err != nil {
		return fmt.Errorf("PDF validation failed for %s: %w", path, err)
	}
	return nil
}
