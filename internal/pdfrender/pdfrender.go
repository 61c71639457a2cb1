// Package pdfrender turns a publishable case study into a PDF document on
// disk. Rendering is synchronous; there is no external job to poll.
package pdfrender

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"storyforge/internal/services"
)

// Renderer writes case study PDFs into a target directory.
type Renderer struct {
	outputDir string
}

// NewRenderer constructs a renderer that writes into outputDir.
func NewRenderer(outputDir string) *Renderer {
	return &Renderer{outputDir: outputDir}
}

// Render writes the story text to a new PDF and returns its path. Each input
// line becomes one wrapped paragraph cell.
func (r *Renderer) Render(story string) (string, error) {
	if strings.TrimSpace(story) == "" {
		return "", services.Wrap(services.ErrInput, "pdfrender", "render", "story text required", nil)
	}
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", services.Wrap(services.ErrInput, "pdfrender", "render", "create output directory", err)
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.AddPage()
	doc.SetFont("Arial", "", 12)
	for _, line := range strings.Split(story, "\n") {
		doc.MultiCell(0, 10, line, "", "L", false)
	}

	name := fmt.Sprintf("final_case_study_%d.pdf", time.Now().Unix())
	path := filepath.Join(r.outputDir, name)
	if err := doc.OutputFileAndClose(path); err != nil {
		return "", services.Wrap(services.ErrInput, "pdfrender", "render", "write pdf", err)
	}
	return path, nil
}
