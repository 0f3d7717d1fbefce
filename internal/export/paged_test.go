package export

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-chat/internal/types"
)

func TestBuildPagedHTML(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	plan, err := Paginate(210, 700, A4)
	require.NoError(t, err)
	require.Equal(t, 3, plan.Pages())

	html, err := BuildPagedHTML(plan, png)
	require.NoError(t, err)

	page, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)

	sheets := page.Find(SheetSelector)
	require.Equal(t, 3, sheets.Length())

	wantSrc := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	wantTops := []string{"top: 0.0000mm", "top: -297.0000mm", "top: -594.0000mm"}
	sheets.Each(func(i int, s *goquery.Selection) {
		img := s.Find("img")
		src, _ := img.Attr("src")
		assert.Equal(t, wantSrc, src)
		style, _ := img.Attr("style")
		assert.Equal(t, wantTops[i], style)
	})
	assert.Contains(t, html, "height: 700.0000mm")
	assert.Contains(t, html, "size: 210.0000mm 297.0000mm")
}

func TestBuildPagedHTML_EmptyPlan(t *testing.T) {
	_, err := BuildPagedHTML(Plan{}, nil)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

type fakeExporter struct {
	html string
	err  error
}

func (f *fakeExporter) Export(_ context.Context, html string) (*Result, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return &Result{PDF: []byte("%PDF-1.4"), Pages: 1}, nil
}

func TestDocument(t *testing.T) {
	doc := types.NewResumeDocument()
	doc.PersonalInfo.FirstName = "Jane"
	fake := &fakeExporter{}

	result, name, err := Document(context.Background(), fake, doc, types.TemplateTech)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, doc.ExportFileName(), name)
	assert.Contains(t, fake.html, "tech-template")
	assert.Contains(t, fake.html, "Jane")
}

func TestDocument_ExportError(t *testing.T) {
	fake := &fakeExporter{err: assert.AnError}
	_, _, err := Document(context.Background(), fake, nil, types.TemplateClassic)
	assert.ErrorIs(t, err, assert.AnError)
}
