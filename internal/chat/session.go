// Package chat implements the conversation controller that keeps the chat transcript and
// the resume document consistent with each other.
package chat

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/types"
)

// HistoryWindow is the number of trailing messages sent to conversation extraction.
const HistoryWindow = 10

// Assistant is the generative service as seen by the controller. Implementations report
// failure through fixed replies and nil documents, never errors.
type Assistant interface {
	ChatRespond(ctx context.Context, history []types.ChatMessage) string
	ExtractFromConversation(ctx context.Context, history []types.ChatMessage, current *types.ResumeDocument) *types.ResumeDocument
	ExtractFromFile(ctx context.Context, base64Data, mimeType string) *types.ResumeDocument
}

// State is the controller's position in a send or import flow
type State int

// Controller states
const (
	StateIdle State = iota
	StateAwaitingReply
	StateAwaitingExtraction
	StateApplying
	StateImporting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingReply:
		return "awaiting_reply"
	case StateAwaitingExtraction:
		return "awaiting_extraction"
	case StateApplying:
		return "applying"
	case StateImporting:
		return "importing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Outcome describes how a flow ended
type Outcome string

// Flow outcomes
const (
	OutcomeApplied          Outcome = "applied"
	OutcomeExtractionFailed Outcome = "extraction_failed"
	OutcomeError            Outcome = "error"
	OutcomeImported         Outcome = "imported"
	OutcomeImportUnreadable Outcome = "import_unreadable"
	OutcomeImportError      Outcome = "import_error"
	OutcomeGreeted          Outcome = "greeted"
	OutcomeUnchanged        Outcome = "unchanged"
	// OutcomeDiscarded means the session was reset while the flow was in flight.
	OutcomeDiscarded Outcome = "discarded"
)

// Result reports the end of a flow along with the session state it produced
type Result struct {
	Outcome         Outcome               `json:"outcome"`
	Reply           string                `json:"reply,omitempty"`
	TemplateChanged bool                  `json:"templateChanged"`
	Session         types.SessionSnapshot `json:"session"`
}

// Session is one user's document, transcript and displayed template.
// Sends and imports are serialized: a second one is rejected with ErrBusy.
type Session struct {
	assistant Assistant
	logger    *logrus.Entry

	mu         sync.Mutex
	doc        *types.ResumeDocument
	template   types.TemplateID
	messages   []types.ChatMessage
	state      State
	generation uint64
}

// NewSession creates a session holding the default document.
func NewSession(assistant Assistant, logger *logrus.Entry) *Session {
	if logger == nil {
		logger = observability.Component(nil, "chat")
	}
	return &Session{
		assistant: assistant,
		logger:    logger,
		doc:       types.NewResumeDocument(),
		template:  types.TemplateClassic,
		messages:  []types.ChatMessage{},
	}
}

// begin moves an idle session into state, returning the flow's generation and a copy of
// the transcript after appending msgs.
func (s *Session) begin(state State, msgs ...types.ChatMessage) (uint64, []types.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return 0, nil, ErrBusy
	}
	s.messages = append(s.messages, msgs...)
	s.state = state
	return s.generation, types.Window(s.messages, 0), nil
}

// Send submits a user message: reply, then extraction over the trailing window, then apply.
// The transcript grows by exactly two entries unless the session is reset meanwhile.
func (s *Session) Send(ctx context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	gen, history, err := s.begin(StateAwaitingReply, types.UserMessage(text))
	if err != nil {
		return nil, err
	}

	reply, extracted, err := s.converse(ctx, gen, history)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return s.resultLocked(OutcomeDiscarded, "", false), nil
	}

	switch {
	case err != nil:
		s.logger.WithError(err).Error("send failed")
		return s.finishLocked(OutcomeError, NetworkErrorMessage, false), nil

	case extracted == nil:
		s.logger.Warn("extraction returned no document, keeping current resume")
		return s.finishLocked(OutcomeExtractionFailed, ExtractionFailedMessage, false), nil
	}

	s.state = StateApplying
	changed := s.applyLocked(extracted, true)
	s.logger.WithFields(logrus.Fields{
		"template":         s.template,
		"template_changed": changed,
	}).Info("resume updated from conversation")
	return s.finishLocked(OutcomeApplied, reply, changed), nil
}

// converse runs the two model calls outside the lock. A panic or a cancelled context is
// returned as an error.
func (s *Session) converse(ctx context.Context, gen uint64, history []types.ChatMessage) (reply string, extracted *types.ResumeDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during send: %v", r)
		}
	}()

	reply = s.assistant.ChatRespond(ctx, history)
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	if s.generation != gen {
		s.mu.Unlock()
		return reply, nil, nil
	}
	s.state = StateAwaitingExtraction
	current := s.doc.Clone()
	s.mu.Unlock()

	window := types.Window(append(history, types.ModelMessage(reply)), HistoryWindow)
	extracted = s.assistant.ExtractFromConversation(ctx, window, current)
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	return reply, extracted, nil
}

// applyLocked replaces the document with extracted, carrying the current profile picture
// forward. With follow set, a differing template in extracted switches the displayed one.
func (s *Session) applyLocked(extracted *types.ResumeDocument, follow bool) bool {
	types.PreserveImage(extracted, s.doc)

	changed := false
	switch {
	case extracted.TemplateID == "":
		extracted.TemplateID = s.template
	case follow && extracted.TemplateID != s.template:
		s.template = extracted.TemplateID
		changed = true
	}
	s.doc = extracted
	return changed
}

// ImportResume replaces the document with one extracted from an uploaded PDF, PNG or JPEG.
// Uploads of other types are rejected with an error before anything is recorded.
func (s *Session) ImportResume(ctx context.Context, upload types.Upload) (*Result, error) {
	mimeType, err := inspectImport(upload)
	if err != nil {
		return nil, err
	}

	gen, _, err := s.begin(StateImporting, types.UserMessage(ImportPlaceholder(upload.Name)))
	if err != nil {
		return nil, err
	}

	extracted, err := s.extractFile(ctx, upload.Data, mimeType)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return s.resultLocked(OutcomeDiscarded, "", false), nil
	}

	switch {
	case err != nil:
		s.logger.WithError(err).WithField("file", upload.Name).Error("import failed")
		return s.finishLocked(OutcomeImportError, ImportErrorMessage, false), nil

	case extracted == nil:
		s.logger.WithField("file", upload.Name).Warn("could not extract resume from file")
		return s.finishLocked(OutcomeImportUnreadable, ImportUnreadableMessage, false), nil
	}

	s.applyLocked(extracted, false)
	s.logger.WithFields(logrus.Fields{"file": upload.Name, "mime_type": mimeType}).Info("resume imported")
	return s.finishLocked(OutcomeImported, ImportSuccessMessage, false), nil
}

func (s *Session) extractFile(ctx context.Context, data []byte, mimeType string) (doc *types.ResumeDocument, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during import: %v", r)
		}
	}()

	encoded := base64.StdEncoding.EncodeToString(data)
	doc = s.assistant.ExtractFromFile(ctx, encoded, mimeType)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return doc, nil
}

// UploadImage stores an image as the profile picture. It never contacts the assistant and
// is accepted while a send is in flight.
func (s *Session) UploadImage(upload types.Upload) (*Result, error) {
	mimeType, err := inspectImage(upload)
	if err != nil {
		return nil, err
	}
	uri := types.EncodeDataURI(mimeType, upload.Data)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.PersonalInfo.ImageURL = uri
	return s.resultLocked(OutcomeUnchanged, "", false), nil
}

// Greet opens an empty conversation with the assistant's introduction. The transcript then
// holds only the model's greeting. Greeting a conversation that has started is a no-op.
func (s *Session) Greet(ctx context.Context) (*Result, error) {
	s.mu.Lock()
	if len(s.messages) > 0 {
		defer s.mu.Unlock()
		return s.resultLocked(OutcomeUnchanged, "", false), nil
	}
	s.mu.Unlock()

	gen, _, err := s.begin(StateAwaitingReply)
	if err != nil {
		return nil, err
	}

	reply, err := s.greet(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return s.resultLocked(OutcomeDiscarded, "", false), nil
	}
	if err != nil {
		s.logger.WithError(err).Error("greeting failed")
		s.state = StateIdle
		return s.resultLocked(OutcomeUnchanged, "", false), nil
	}
	return s.finishLocked(OutcomeGreeted, reply, false), nil
}

func (s *Session) greet(ctx context.Context) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during greeting: %v", r)
		}
	}()
	reply = s.assistant.ChatRespond(ctx, []types.ChatMessage{types.UserMessage(GreetingPrompt)})
	return reply, ctx.Err()
}

// SelectTemplate switches the displayed template and records it on the document.
func (s *Session) SelectTemplate(id types.TemplateID) (*Result, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTemplate, id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := s.template != id
	s.template = id
	s.doc.TemplateID = id
	return s.resultLocked(OutcomeUnchanged, "", changed), nil
}

// Reset restores the default document, an empty transcript and the classic template.
// Flows still in flight finish as OutcomeDiscarded without touching the session.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = types.NewResumeDocument()
	s.template = types.TemplateClassic
	s.messages = []types.ChatMessage{}
	s.state = StateIdle
	s.generation++
}

// Snapshot returns a deep copy of the session state.
func (s *Session) Snapshot() types.SessionSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Document returns a copy of the current document with the displayed template applied.
func (s *Session) Document() (*types.ResumeDocument, types.TemplateID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.Clone(), s.template
}

// State returns the current controller state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) snapshotLocked() types.SessionSnapshot {
	return types.SessionSnapshot{
		Document:   s.doc.Clone(),
		TemplateID: s.template,
		Messages:   types.Window(s.messages, 0),
		State:      s.state.String(),
		Busy:       s.state != StateIdle,
	}
}

// finishLocked appends the flow's closing model message and returns the session to idle.
// This is the only place a flow's reply reaches the transcript.
func (s *Session) finishLocked(outcome Outcome, reply string, templateChanged bool) *Result {
	s.messages = append(s.messages, types.ModelMessage(reply))
	s.state = StateIdle
	return s.resultLocked(outcome, reply, templateChanged)
}

func (s *Session) resultLocked(outcome Outcome, reply string, templateChanged bool) *Result {
	return &Result{
		Outcome:         outcome,
		Reply:           reply,
		TemplateChanged: templateChanged,
		Session:         s.snapshotLocked(),
	}
}
