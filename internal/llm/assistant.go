package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jonathan/resume-chat/internal/observability"
	"github.com/jonathan/resume-chat/internal/prompts"
	"github.com/jonathan/resume-chat/internal/schemas"
	"github.com/jonathan/resume-chat/internal/types"
)

// Fixed replies returned by ChatRespond instead of errors
const (
	NoCredentialsMessage   = "No Gemini API keys configured. Please add GEMINI_API_KEYS to your .env file."
	ChatUnavailableMessage = "I'm having trouble connecting right now due to API rate limits. Please try again soon."
	EmptyReplyMessage      = "I'm sorry, I couldn't understand that."
)

// Assistant runs the three resume operations against the generative service, rotating
// through the key pool on failure. Its methods never return errors: failures become a
// fixed reply or a nil document.
type Assistant struct {
	pool      *KeyPool
	newClient ClientFactory
	policy    RetryPolicy
	logger    *logrus.Entry
}

// AssistantOption configures an Assistant
type AssistantOption func(*Assistant)

// WithRetryPolicy replaces the default UniformRetry policy.
func WithRetryPolicy(policy RetryPolicy) AssistantOption {
	return func(a *Assistant) {
		a.policy = policy
	}
}

// WithLogger sets the logger used for rotation and parse diagnostics.
func WithLogger(logger *logrus.Entry) AssistantOption {
	return func(a *Assistant) {
		a.logger = logger
	}
}

// NewAssistant creates an Assistant over pool, creating one client per attempt with newClient.
func NewAssistant(pool *KeyPool, newClient ClientFactory, opts ...AssistantOption) *Assistant {
	if pool == nil {
		pool = NewKeyPool(nil)
	}
	a := &Assistant{
		pool:      pool,
		newClient: newClient,
		policy:    UniformRetry{},
		logger:    observability.Component(nil, "llm"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Pool returns the assistant's key pool.
func (a *Assistant) Pool() *KeyPool {
	return a.pool
}

// ChatRespond returns the model's reply to history.
func (a *Assistant) ChatRespond(ctx context.Context, history []types.ChatMessage) string {
	system := prompts.ChatSystemInstruction()

	reply, err := withRotation(ctx, a, "chat", func(ctx context.Context, c Client) (string, error) {
		return c.Chat(ctx, system, history, ChatTier)
	})
	switch {
	case errors.Is(err, ErrNoCredentials):
		return NoCredentialsMessage
	case err != nil:
		a.logger.WithError(err).Error("chat reply failed")
		return ChatUnavailableMessage
	case strings.TrimSpace(reply) == "":
		return EmptyReplyMessage
	}
	return reply
}

// ExtractFromConversation asks the model for current with the facts from history merged in.
// It returns a full replacement document, or nil when extraction failed.
func (a *Assistant) ExtractFromConversation(ctx context.Context, history []types.ChatMessage, current *types.ResumeDocument) *types.ResumeDocument {
	if a.pool.Len() == 0 {
		return nil
	}
	prompt, err := prompts.ConversationExtractionPrompt(history, current)
	if err != nil {
		a.logger.WithError(err).Error("failed to build extraction prompt")
		return nil
	}

	doc, err := withRotation(ctx, a, "extract_conversation", func(ctx context.Context, c Client) (*types.ResumeDocument, error) {
		raw, err := c.GenerateJSON(ctx, prompt, ExtractionTier)
		if err != nil {
			return nil, err
		}
		return ParseDocument(raw)
	})
	if err != nil {
		a.logger.WithError(err).Warn("conversation extraction failed")
		return nil
	}
	return doc
}

// ExtractFromFile builds a fresh document from a resume file given as base64 (a data URI
// header is tolerated). It returns nil when extraction failed.
func (a *Assistant) ExtractFromFile(ctx context.Context, base64Data, mimeType string) *types.ResumeDocument {
	if a.pool.Len() == 0 {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(types.StripDataURIHeader(base64Data))
	if err != nil {
		a.logger.WithError(err).Error("file payload is not valid base64")
		return nil
	}
	prompt, err := prompts.FileExtractionPrompt()
	if err != nil {
		a.logger.WithError(err).Error("failed to build file extraction prompt")
		return nil
	}
	attachment := Attachment{MIMEType: mimeType, Data: data}

	doc, err := withRotation(ctx, a, "extract_file", func(ctx context.Context, c Client) (*types.ResumeDocument, error) {
		raw, err := c.GenerateJSON(ctx, prompt, ExtractionTier, attachment)
		if err != nil {
			return nil, err
		}
		return ParseDocument(raw)
	})
	if err != nil {
		a.logger.WithError(err).Warn("file extraction failed")
		return nil
	}
	return doc
}

// ParseDocument validates raw against the resume schema and decodes it.
// Anything other than a single schema-valid JSON object is rejected.
func ParseDocument(raw string) (*types.ResumeDocument, error) {
	cleaned := CleanJSONBlock(raw)
	if cleaned == "" {
		return nil, &ParseError{Message: "empty response"}
	}
	if err := schemas.ValidateResumeDocument(cleaned); err != nil {
		return nil, &ParseError{Message: "schema mismatch", Cause: err}
	}

	var doc types.ResumeDocument
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &ParseError{Message: "decode failed", Cause: err}
	}
	return doc.Normalize(), nil
}

// withRotation runs call with a client for the current key, rotating to the next key and
// retrying while the policy allows, for at most pool.Attempts() tries.
func withRotation[T any](ctx context.Context, a *Assistant, op string, call func(context.Context, Client) (T, error)) (T, error) {
	var zero T
	attempts := a.pool.Attempts()
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		key, index, ok := a.pool.Current()
		if !ok {
			return zero, ErrNoCredentials
		}

		result, err := attemptWithKey(ctx, a.newClient, key, call)
		if err == nil {
			return result, nil
		}
		lastErr = err

		log := a.logger.WithFields(logrus.Fields{
			"operation":    op,
			"attempt":      attempt,
			"key_index":    index,
			"rate_limited": IsRateLimited(err),
		}).WithError(err)

		if !a.policy.ShouldRotate(err) {
			log.Warn("attempt failed, not retrying")
			return zero, err
		}
		next := a.pool.Rotate()
		log.WithField("next_key_index", next).Warn("attempt failed, rotated API key")
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrRetriesExhausted, attempts, lastErr)
}

// attemptWithKey makes one call with a fresh client for key. Panics inside the call are
// returned as *PanicError so they rotate like any other failure.
func attemptWithKey[T any](ctx context.Context, newClient ClientFactory, key string, call func(context.Context, Client) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()

	client, err := newClient(ctx, key)
	if err != nil {
		return result, fmt.Errorf("failed to create client: %w", err)
	}
	defer func() { _ = client.Close() }()

	return call(ctx, client)
}
