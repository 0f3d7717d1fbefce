package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-chat/internal/chat"
	"github.com/jonathan/resume-chat/internal/export"
	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/types"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// scriptedAssistant names the user after whatever they last said.
type scriptedAssistant struct {
	template types.TemplateID
}

func (a *scriptedAssistant) ChatRespond(_ context.Context, history []types.ChatMessage) string {
	return "Got it: " + history[len(history)-1].Content
}

func (a *scriptedAssistant) ExtractFromConversation(_ context.Context, history []types.ChatMessage, current *types.ResumeDocument) *types.ResumeDocument {
	doc := current.Clone()
	doc.PersonalInfo.FirstName = "Jane"
	doc.PersonalInfo.LastName = "Doe"
	if a.template != "" {
		doc.TemplateID = a.template
	}
	return doc
}

func (a *scriptedAssistant) ExtractFromFile(_ context.Context, _, _ string) *types.ResumeDocument {
	doc := types.NewResumeDocument()
	doc.PersonalInfo.FirstName = "Imported"
	doc.Skills = []string{"Go"}
	return doc
}

type recordingExporter struct {
	calls int
}

func (e *recordingExporter) Export(_ context.Context, html string) (*export.Result, error) {
	e.calls++
	return &export.Result{PDF: []byte("%PDF " + html[:10]), Pages: 1}, nil
}

func newTestREPL(assistant chat.Assistant, exporter export.Exporter) (*repl, *chat.Session, *bytes.Buffer) {
	var out bytes.Buffer
	logger, _ := logtest.NewNullLogger()
	session := chat.NewSession(assistant, observability.Component(logger, "chat"))
	return newREPL(session, exporter, &out), session, &out
}

func TestREPL_SendsMessages(t *testing.T) {
	r, session, out := newTestREPL(&scriptedAssistant{}, nil)

	err := r.run(context.Background(), strings.NewReader("I'm Jane Doe\n\n/quit\nnever sent\n"))
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Assistant: Got it: I'm Jane Doe")
	snap := session.Snapshot()
	require.Len(t, snap.Messages, 2)
	assert.Equal(t, "Jane Doe", snap.Document.FullName())
}

func TestREPL_ReportsTemplateSwitch(t *testing.T) {
	r, _, out := newTestREPL(&scriptedAssistant{template: types.TemplateTech}, nil)

	_, err := r.handle(context.Background(), "use the tech layout")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "switched to the Tech template")
}

func TestREPL_Commands(t *testing.T) {
	dir := t.TempDir()
	picture := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(picture, pngBytes, 0o644))
	notes := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("just some text"), 0o644))

	tests := []struct {
		name    string
		line    string
		want    string
		wantErr string
		check   func(t *testing.T, s *chat.Session)
	}{
		{
			name: "help",
			line: "/help",
			want: "/import <file>",
		},
		{
			name: "list templates",
			line: "/template",
			want: "* classic",
		},
		{
			name: "switch template",
			line: "/template Executive",
			want: "Template: Executive",
			check: func(t *testing.T, s *chat.Session) {
				_, id := s.Document()
				assert.Equal(t, types.TemplateExecutive, id)
			},
		},
		{
			name:    "unknown template",
			line:    "/template baroque",
			wantErr: "unknown template",
		},
		{
			name: "import",
			line: "/import " + picture,
			want: chat.ImportSuccessMessage,
			check: func(t *testing.T, s *chat.Session) {
				doc, _ := s.Document()
				assert.Equal(t, "Imported", doc.PersonalInfo.FirstName)
			},
		},
		{
			name:    "import unsupported",
			line:    "/import " + notes,
			wantErr: "unsupported file type",
		},
		{
			name:    "import without path",
			line:    "/import",
			wantErr: "a file path is required",
		},
		{
			name: "image",
			line: "/image " + picture,
			want: "Profile picture updated.",
			check: func(t *testing.T, s *chat.Session) {
				doc, _ := s.Document()
				assert.True(t, strings.HasPrefix(doc.PersonalInfo.ImageURL, "data:image/png;base64,"))
			},
		},
		{
			name: "resume",
			line: "/resume",
			want: "CURRENT RESUME",
		},
		{
			name:    "export without exporter",
			line:    "/export",
			wantErr: "not available",
		},
		{
			name:    "unknown command",
			line:    "/dance",
			wantErr: "unknown command /dance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, session, out := newTestREPL(&scriptedAssistant{}, nil)
			quit, err := r.handle(context.Background(), tt.line)
			assert.False(t, quit)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.want)
			if tt.check != nil {
				tt.check(t, session)
			}
		})
	}
}

func TestREPL_ResetAndHistory(t *testing.T) {
	r, session, out := newTestREPL(&scriptedAssistant{}, nil)
	ctx := context.Background()

	_, err := r.handle(ctx, "hello there")
	require.NoError(t, err)
	_, err = r.handle(ctx, "/history")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "You: hello there")

	_, err = r.handle(ctx, "/reset")
	require.NoError(t, err)
	assert.Empty(t, session.Snapshot().Messages)
}

func TestREPL_WritesHTMLAndPDF(t *testing.T) {
	exporter := &recordingExporter{}
	r, _, out := newTestREPL(&scriptedAssistant{}, exporter)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := r.handle(ctx, "I'm Jane Doe")
	require.NoError(t, err)

	htmlPath := filepath.Join(dir, "resume.html")
	_, err = r.handle(ctx, "/html "+htmlPath)
	require.NoError(t, err)
	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Jane Doe")

	pdfPath := filepath.Join(dir, "jane.pdf")
	_, err = r.handle(ctx, "/export "+pdfPath)
	require.NoError(t, err)
	assert.Equal(t, 1, exporter.calls)
	assert.Contains(t, out.String(), "(1 pages)")
	assert.FileExists(t, pdfPath)
}

func TestREPL_RunReportsErrorsAndContinues(t *testing.T) {
	r, _, out := newTestREPL(&scriptedAssistant{}, nil)
	err := r.run(context.Background(), strings.NewReader("/nope\n/quit\n"))
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Error: unknown command /nope")
}
