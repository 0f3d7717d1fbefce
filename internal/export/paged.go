package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
)

// SheetSelector matches one printed page in the paged document.
const SheetSelector = ".sheet"

var pagedTemplate = template.Must(template.New("paged").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
@page { size: {{.Width}}mm {{.Height}}mm; margin: 0; }
html, body { margin: 0; padding: 0; background: #ffffff; }
.sheet { position: relative; width: {{.Width}}mm; height: {{.Height}}mm; overflow: hidden; page-break-after: always; break-after: page; }
.sheet:last-child { page-break-after: auto; break-after: auto; }
.sheet img { position: absolute; left: 0; width: {{.ImageWidth}}mm; height: {{.ImageHeight}}mm; }
</style>
</head>
<body>
{{- range .Sheets}}
<div class="sheet" data-page="{{.Index}}"><img src="{{$.Image}}" alt="" style="top: {{.Offset}}mm"></div>
{{- end}}
</body>
</html>
`))

type sheetView struct {
	Index  int
	Offset string
}

type pagedView struct {
	Width       string
	Height      string
	ImageWidth  string
	ImageHeight string
	Image       template.URL
	Sheets      []sheetView
}

// BuildPagedHTML lays out one sheet per slice of plan, each showing the same PNG shifted
// up by the slice offset.
func BuildPagedHTML(plan Plan, png []byte) (string, error) {
	if plan.Pages() == 0 {
		return "", fmt.Errorf("empty plan: %w", ErrInvalidImage)
	}

	view := pagedView{
		Width:       mm(plan.Page.WidthMM),
		Height:      mm(plan.Page.HeightMM),
		ImageWidth:  mm(plan.ImageWidthMM),
		ImageHeight: mm(plan.ImageHeightMM),
		Image:       template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)),
	}
	for _, s := range plan.Slices {
		view.Sheets = append(view.Sheets, sheetView{Index: s.Index, Offset: mm(s.OffsetMM)})
	}

	var buf bytes.Buffer
	if err := pagedTemplate.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("failed to build paged document: %w", err)
	}
	return buf.String(), nil
}

func mm(v float64) string {
	return fmt.Sprintf("%.4f", v)
}
