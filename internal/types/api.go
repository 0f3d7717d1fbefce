package types

import (
	"encoding/base64"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// SendMessageRequest is the body of a chat message submission.
type SendMessageRequest struct {
	Message string `json:"message" validate:"required,max=8000"`
}

// UploadRequest carries a file as a base64 data URI, or as raw base64 plus media type.
type UploadRequest struct {
	FileName string `json:"fileName" validate:"max=255"`
	DataURL  string `json:"dataUrl" validate:"required_without=Data"`
	MIMEType string `json:"mimeType" validate:"required_with=Data"`
	Data     string `json:"data" validate:"required_without=DataURL"`
}

// SelectTemplateRequest switches the displayed template.
type SelectTemplateRequest struct {
	TemplateID TemplateID `json:"templateId" validate:"required,oneof=classic modern minimal professional creative executive academic tech"`
}

// VerifyPaymentRequest carries the identifiers returned on the payment gateway redirect.
type VerifyPaymentRequest struct {
	PaymentID        string `json:"payment_id" validate:"required"`
	PaymentRequestID string `json:"payment_request_id" validate:"required"`
	PaymentStatus    string `json:"payment_status,omitempty"`
}

// SessionSnapshot is the API view of a chat session.
type SessionSnapshot struct {
	Document   *ResumeDocument `json:"document"`
	TemplateID TemplateID      `json:"templateId"`
	Messages   []ChatMessage   `json:"messages"`
	State      string          `json:"state"`
	Busy       bool            `json:"busy"`
}

// Validate validates the SendMessageRequest using the validator.
func (r *SendMessageRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the UploadRequest using the validator.
func (r *UploadRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the SelectTemplateRequest using the validator.
func (r *SelectTemplateRequest) Validate() error {
	return validate.Struct(r)
}

// Validate validates the VerifyPaymentRequest using the validator.
func (r *VerifyPaymentRequest) Validate() error {
	return validate.Struct(r)
}

// ToUpload decodes the request payload.
func (r *UploadRequest) ToUpload() (Upload, error) {
	if r.DataURL != "" {
		mimeType, data, err := ParseDataURI(r.DataURL)
		if err != nil {
			return Upload{}, err
		}
		return Upload{Name: r.FileName, MIMEType: mimeType, Data: data}, nil
	}

	data, err := base64.StdEncoding.DecodeString(StripDataURIHeader(r.Data))
	if err != nil {
		return Upload{}, fmt.Errorf("invalid upload data: %w", err)
	}
	return Upload{Name: r.FileName, MIMEType: r.MIMEType, Data: data}, nil
}
