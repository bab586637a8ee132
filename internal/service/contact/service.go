// Package contact implements the contact form feature: public submissions
// guarded by configurable security question and consent gates, and an
// admin-only inbox with search, pagination and read/delete moderation.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Mcdonalid/Lychee/internal/auth"
	"github.com/Mcdonalid/Lychee/internal/settings"
	"github.com/Mcdonalid/Lychee/internal/store"
)

// Common errors for contact operations.
var (
	ErrFormDisabled           = errors.New("contact form is disabled")
	ErrSecurityAnswerMismatch = errors.New("incorrect answer to the security question")
	ErrConsentRequired        = errors.New("consent to the privacy policy is required")
	ErrUnauthenticated        = errors.New("authentication required")
	ErrForbidden              = errors.New("insufficient permissions")
	ErrNotFound               = errors.New("contact message not found")
)

const (
	defaultPerPage = 20
	maxPerPage     = 100

	// maxIPLength and maxUserAgentLength match the column widths of the
	// contact_messages table.
	maxIPLength        = 45
	maxUserAgentLength = 512

	defaultThankYou = "Thank you for your message. We will get back to you soon."
)

// Service coordinates validation, authorization and storage for the
// contact form. Configuration and policy are injected so the service is
// deterministic under test.
type Service struct {
	store    store.ContactMessageStore
	settings settings.Provider
	authz    auth.Authorizer
	validate *validator.Validate
}

// New creates a new contact service.
func New(st store.ContactMessageStore, cfg settings.Provider, authz auth.Authorizer) *Service {
	return &Service{
		store:    st,
		settings: cfg,
		authz:    authz,
		validate: validator.New(),
	}
}

// Config is the public configuration snapshot served to the contact form.
// The configured security answer is never part of it.
type Config struct {
	IsContactFormEnabled bool   `json:"is_contact_form_enabled"`
	SecurityQuestion     string `json:"security_question"`
	IsConsentRequired    bool   `json:"is_consent_required"`
	Header               string `json:"header"`
	Headline             string `json:"headline"`
	ConsentText          string `json:"consent_text"`
	PrivacyPolicyURL     string `json:"privacy_policy_url"`
	SubmitButtonText     string `json:"submit_button_text"`
	ContactMethod        string `json:"contact_method"`
	MessageLabel         string `json:"message_label"`
	MessageAnswer        string `json:"message_answer"`
	ThankYouMessage      string `json:"thank_you_message"`
}

// Init returns the contact form configuration. Public, side-effect free.
func (s *Service) Init(ctx context.Context) *Config {
	return &Config{
		IsContactFormEnabled: s.settings.GetBool(ctx, settings.KeyContactFormEnabled),
		SecurityQuestion:     s.settings.GetString(ctx, settings.KeySecurityQuestion),
		IsConsentRequired:    s.settings.GetBool(ctx, settings.KeyConsentRequired),
		Header:               s.settings.GetString(ctx, settings.KeyHeader),
		Headline:             s.settings.GetString(ctx, settings.KeyHeadline),
		ConsentText:          s.settings.GetString(ctx, settings.KeyConsentText),
		PrivacyPolicyURL:     s.settings.GetString(ctx, settings.KeyPrivacyPolicyURL),
		SubmitButtonText:     s.settings.GetString(ctx, settings.KeySubmitButtonText),
		ContactMethod:        s.settings.GetString(ctx, settings.KeyContactMethod),
		MessageLabel:         s.settings.GetString(ctx, settings.KeyMessageLabel),
		MessageAnswer:        s.settings.GetString(ctx, settings.KeyMessageAnswer),
		ThankYouMessage:      s.settings.GetString(ctx, settings.KeyThankYouMessage),
	}
}

// Submit validates and persists a public submission. It returns the
// confirmation message shown to the visitor.
//
// Field violations surface as ValidationErrors; a wrong security answer or
// missing consent as ErrSecurityAnswerMismatch / ErrConsentRequired. The
// transport maps all three to the same unprocessable status.
func (s *Service) Submit(ctx context.Context, sub *Submission) (string, error) {
	if !s.settings.GetBool(ctx, settings.KeyContactFormEnabled) {
		return "", ErrFormDisabled
	}

	if verrs := s.validateSubmission(sub); verrs != nil {
		return "", verrs
	}

	// The security gate only applies when both the question and the
	// answer are configured. Comparison is case-insensitive and ignores
	// surrounding whitespace.
	question := s.settings.GetString(ctx, settings.KeySecurityQuestion)
	answer := s.settings.GetString(ctx, settings.KeySecurityAnswer)
	if question != "" && answer != "" {
		if !strings.EqualFold(strings.TrimSpace(sub.SecurityAnswer), strings.TrimSpace(answer)) {
			return "", ErrSecurityAnswerMismatch
		}
	}

	if s.settings.GetBool(ctx, settings.KeyConsentRequired) && !sub.ConsentAgreed {
		return "", ErrConsentRequired
	}

	msg := &store.NewContactMessage{
		Name:      sub.Name,
		Email:     sub.Email,
		Message:   sub.Message,
		IPAddress: truncate(sub.IPAddress, maxIPLength),
		UserAgent: truncate(sub.UserAgent, maxUserAgentLength),
	}
	if _, err := s.store.CreateContactMessage(ctx, msg); err != nil {
		return "", fmt.Errorf("store contact message: %w", err)
	}

	if thanks := s.settings.GetString(ctx, settings.KeyThankYouMessage); thanks != "" {
		return thanks, nil
	}
	return defaultThankYou, nil
}

// ListOptions narrows and paginates the admin inbox listing.
type ListOptions struct {
	// Page is clamped to >= 1.
	Page int
	// PerPage is clamped to [1,100]; non-positive values fall back to 20.
	PerPage int
	// Search matches name, email or message as a literal substring.
	Search string
	// IsRead restricts to the given read state when non-nil.
	IsRead *bool
}

// MessagePage is one page of the admin inbox.
type MessagePage struct {
	Messages    []*store.ContactMessage
	Total       int64
	PerPage     int
	CurrentPage int
}

// List returns a page of messages, newest first. Requires the
// create-or-edit-or-delete capability.
func (s *Service) List(ctx context.Context, identity *auth.Identity, opts ListOptions) (*MessagePage, error) {
	if err := s.authorize(identity); err != nil {
		return nil, err
	}

	perPage := opts.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	filter := store.ContactMessageFilter{
		Search: opts.Search,
		IsRead: opts.IsRead,
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	}
	messages, total, err := s.store.ListContactMessages(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}

	return &MessagePage{
		Messages:    messages,
		Total:       total,
		PerPage:     perPage,
		CurrentPage: page,
	}, nil
}

// MarkRead sets the read flag of a message and returns the updated message.
// Idempotent. Requires the create-or-edit-or-delete capability.
func (s *Service) MarkRead(ctx context.Context, identity *auth.Identity, id int64, isRead bool) (*store.ContactMessage, error) {
	if err := s.authorize(identity); err != nil {
		return nil, err
	}

	msg, err := s.store.SetContactMessageRead(ctx, id, isRead)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mark contact message: %w", err)
	}

	return msg, nil
}

// Delete permanently removes a message. Requires the
// create-or-edit-or-delete capability.
func (s *Service) Delete(ctx context.Context, identity *auth.Identity, id int64) error {
	if err := s.authorize(identity); err != nil {
		return err
	}

	if err := s.store.DeleteContactMessage(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete contact message: %w", err)
	}

	return nil
}

// authorize short-circuits mutation and listing operations before any
// store access.
func (s *Service) authorize(identity *auth.Identity) error {
	if identity == nil {
		return ErrUnauthenticated
	}
	if !s.authz.HasCapability(identity, auth.CapabilityCreateOrEditOrDelete) {
		return ErrForbidden
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
