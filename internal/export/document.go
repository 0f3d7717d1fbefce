package export

import (
	"context"
	"fmt"

	"github.com/jonathan/resume-chat/internal/rendering"
	"github.com/jonathan/resume-chat/internal/types"
)

// Exporter turns a rendered resume page into a PDF
type Exporter interface {
	Export(ctx context.Context, html string) (*Result, error)
}

// Document renders doc with the given template and exports it. It returns the result and
// the download file name.
func Document(ctx context.Context, exporter Exporter, doc *types.ResumeDocument, id types.TemplateID) (*Result, string, error) {
	if doc == nil {
		doc = types.NewResumeDocument()
	}
	html, err := rendering.RenderHTML(doc, id)
	if err != nil {
		return nil, "", err
	}
	result, err := exporter.Export(ctx, html)
	if err != nil {
		return nil, "", fmt.Errorf("export %s: %w", id, err)
	}
	return result, doc.ExportFileName(), nil
}
