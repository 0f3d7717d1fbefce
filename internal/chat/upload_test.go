package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-chat/internal/types"
)

func TestInspectImport(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantErr  error
	}{
		{name: "pdf", data: minimalPDF(2), wantMIME: "application/pdf"},
		{name: "png", data: pngBytes, wantMIME: "image/png"},
		{name: "jpeg", data: jpegBytes, wantMIME: "image/jpeg"},
		{name: "pdf at page limit", data: minimalPDF(MaxImportPages), wantMIME: "application/pdf"},
		{name: "unparseable pdf passes through", data: []byte("%PDF-1.7\nnot really a pdf"), wantMIME: "application/pdf"},
		{name: "text", data: textBytes, wantErr: ErrUnsupportedFile},
		{name: "pdf over page limit", data: minimalPDF(MaxImportPages + 3), wantErr: ErrTooManyPages},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// declared types are ignored in favour of content sniffing
			got, err := inspectImport(types.Upload{Name: "upload", MIMEType: "application/octet-stream", Data: tt.data})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMIME, got)
		})
	}
}

func TestInspectImage(t *testing.T) {
	got, err := inspectImage(types.Upload{Name: "me.png", Data: pngBytes})
	require.NoError(t, err)
	assert.Equal(t, "image/png", got)

	_, err = inspectImage(types.Upload{Name: "cv.txt", Data: textBytes})
	var fileErr *FileError
	require.ErrorAs(t, err, &fileErr)
	assert.ErrorIs(t, err, ErrUnsupportedFile)
	assert.Equal(t, "cv.txt", fileErr.FileName)
	assert.Contains(t, fileErr.Error(), "text/plain")
}

func TestCountPDFPages(t *testing.T) {
	pages, err := countPDFPages(minimalPDF(4))
	require.NoError(t, err)
	assert.Equal(t, 4, pages)

	_, err = countPDFPages([]byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

func TestImportPlaceholder(t *testing.T) {
	assert.Equal(t, "[Uploaded Resume: jane.pdf]", ImportPlaceholder("jane.pdf"))
}
