package chat

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/jonathan/resume-chat/internal/types"
)

const (
	// MaxUploadBytes caps both profile pictures and imported resumes.
	MaxUploadBytes = 10 << 20
	// MaxImportPages caps the length of an imported PDF resume.
	MaxImportPages = 10
)

var importTypes = []string{"application/pdf", "image/png", "image/jpeg"}

// sniff detects the media type from content, ignoring any declared type.
func sniff(upload types.Upload) (*mimetype.MIME, error) {
	if len(upload.Data) == 0 {
		return nil, &FileError{FileName: upload.Name, Err: fmt.Errorf("%w: empty file", ErrUnsupportedFile)}
	}
	if len(upload.Data) > MaxUploadBytes {
		return nil, &FileError{FileName: upload.Name, Err: ErrFileTooLarge}
	}
	return mimetype.Detect(upload.Data), nil
}

// inspectImage accepts any image type and returns its media type.
func inspectImage(upload types.Upload) (string, error) {
	mtype, err := sniff(upload)
	if err != nil {
		return "", err
	}
	if strings.HasPrefix(mtype.String(), "image/") {
		return mtype.String(), nil
	}
	return "", &FileError{FileName: upload.Name, MIMEType: mtype.String(), Err: ErrUnsupportedFile}
}

// inspectImport accepts PDF, PNG and JPEG resumes and returns the media type.
// PDFs that parse are held to MaxImportPages; PDFs the parser cannot read are passed
// on, since the extraction model may still read them.
func inspectImport(upload types.Upload) (string, error) {
	mtype, err := sniff(upload)
	if err != nil {
		return "", err
	}
	if !mimetype.EqualsAny(mtype.String(), importTypes...) {
		return "", &FileError{FileName: upload.Name, MIMEType: mtype.String(), Err: ErrUnsupportedFile}
	}
	if mtype.Is("application/pdf") {
		if pages, err := countPDFPages(upload.Data); err == nil && pages > MaxImportPages {
			return "", &FileError{
				FileName: upload.Name,
				MIMEType: mtype.String(),
				Err:      fmt.Errorf("%w: %d pages, limit is %d", ErrTooManyPages, pages, MaxImportPages),
			}
		}
	}
	return mtype.String(), nil
}

// countPDFPages returns the page count of a PDF. Malformed input that makes the parser
// panic is reported as an error.
func countPDFPages(data []byte) (pages int, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	return reader.NumPage(), nil
}
