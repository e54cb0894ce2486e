package extract

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ctexam/corpusgen/internal/layout"
)

// nearbyTextMargin is how far, in points, around an image's bounding box
// to collect caption and label text.
const nearbyTextMargin = 20.0

// ImageSourcePath resolves which PDF to pull illustrations from. The
// Belarusian booklets reuse the Russian edition's artwork, so a "*_bel"
// path maps to its "*_rus" sibling.
func ImageSourcePath(pdfPath string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(pdfPath), filepath.Ext(pdfPath))
	switch {
	case strings.HasSuffix(stem, "_rus"):
		return pdfPath, nil
	case strings.HasSuffix(stem, "_bel"):
		return strings.Replace(pdfPath, "_bel", "_rus", 1), nil
	}
	return "", fmt.Errorf("cannot derive image source from path %s", pdfPath)
}

// ExtractImages pulls every illustration out of the booklet that pdfPath
// belongs to, saves the image files next to the PDF, and collects the
// text found near each image on its page.
func ExtractImages(pdfPath string) ([]ImageRecord, error) {
	srcPath, err := ImageSourcePath(pdfPath)
	if err != nil {
		return nil, err
	}

	images, err := layout.ExtractImages(srcPath)
	if err != nil {
		return nil, err
	}

	var doc *layout.Document
	if d, err := layout.Open(srcPath); err == nil {
		doc = d
		defer doc.Close()
	}

	dir := filepath.Dir(pdfPath)
	records := make([]ImageRecord, 0, len(images))
	for _, img := range images {
		if err := os.WriteFile(filepath.Join(dir, img.Name), img.Bytes, 0o644); err != nil {
			return nil, fmt.Errorf("failed to save image %s: %w", img.Name, err)
		}

		rec := ImageRecord{
			Filename: img.Name,
			Page:     img.PageNumber,
			Format:   img.Format,
			Size:     len(img.Bytes),
			DataURI:  dataURI(img.Format, img.Bytes),
		}
		if doc != nil && img.HasBBox {
			rec.NearbyText = doc.TextNear(img.PageNumber, img.BBox, nearbyTextMargin)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ApplyImageOverrides zips the curated question IDs onto the records in
// detection order and swaps in a hand-edited image file where one exists
// next to the original. Extra records beyond the ID list, or extra IDs
// beyond the records, are ignored.
func ApplyImageOverrides(records []ImageRecord, questionIDs []string, dir string) {
	for i := range records {
		if i >= len(questionIDs) {
			break
		}
		records[i].QuestionID = questionIDs[i]

		ext := filepath.Ext(records[i].Filename)
		editedName := strings.TrimSuffix(records[i].Filename, ext) + "_edit" + ext
		if data, err := os.ReadFile(filepath.Join(dir, editedName)); err == nil {
			records[i].DataURI = dataURI(records[i].Format, data)
		}
	}
}

type imageInfoEntry struct {
	ImageURL   string `json:"image_url"`
	Page       int    `json:"page"`
	Format     string `json:"format"`
	Size       int    `json:"size"`
	NearbyText string `json:"nearby_text"`
	QuestionID string `json:"question,omitempty"`
}

// WriteImageInfo saves the image_info.json sidecar describing every
// extracted image, keyed by filename.
func WriteImageInfo(dir string, records []ImageRecord) error {
	info := make(map[string]imageInfoEntry, len(records))
	for _, rec := range records {
		info[rec.Filename] = imageInfoEntry{
			ImageURL:   rec.DataURI,
			Page:       rec.Page,
			Format:     rec.Format,
			Size:       rec.Size,
			NearbyText: rec.NearbyText,
			QuestionID: rec.QuestionID,
		}
	}

	data, err := json.MarshalIndent(info, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode image info: %w", err)
	}
	path := filepath.Join(dir, "image_info.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func dataURI(format string, data []byte) string {
	return fmt.Sprintf("data:image/%s;base64,%s", format, base64.StdEncoding.EncodeToString(data))
}
