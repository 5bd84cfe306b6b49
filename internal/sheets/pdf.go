package sheets

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signintech/gopdf"

	"ms-nametags/internal/models"
)

// PDFExporter assembles rendered pages into one letter-size document.
type PDFExporter struct {
	Renderer *Renderer
}

func NewPDFExporter(renderer *Renderer) *PDFExporter {
	return &PDFExporter{Renderer: renderer}
}

// Export writes one PDF page per group of PageSize tags and returns the page
// count. An empty list is rejected with models.ErrNothingToExport.
func (e *PDFExporter) Export(w io.Writer, tags []models.Tag) (int, error) {
	pages := Chunk(tags, PageSize)
	if len(pages) == 0 {
		return 0, models.ErrNothingToExport
	}

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeLetter})

	full := &gopdf.Rect{W: gopdf.PageSizeLetter.W, H: gopdf.PageSizeLetter.H}
	for i, page := range pages {
		img, err := e.Renderer.RenderPage(page)
		if err != nil {
			return 0, fmt.Errorf("failed to render page %d: %w", i+1, err)
		}
		pdf.AddPage()
		if err := pdf.ImageFrom(img, 0, 0, full); err != nil {
			return 0, fmt.Errorf("failed to place page %d: %w", i+1, err)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Write(&buf); err != nil {
		return 0, fmt.Errorf("failed to write PDF: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return 0, err
	}
	return len(pages), nil
}
