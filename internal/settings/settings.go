// Package settings exposes the gallery configuration stored in the database
// as typed key lookups. Missing keys read as zero values so callers never
// have to distinguish "unset" from "empty".
package settings

import (
	"context"
	"strconv"
	"strings"

	"github.com/Mcdonalid/Lychee/internal/store"
)

// Contact form configuration keys.
const (
	KeyContactFormEnabled = "contact_form_enabled"
	KeySecurityQuestion   = "contact_form_security_question"
	KeySecurityAnswer     = "contact_form_security_answer"
	KeyConsentRequired    = "contact_form_custom_consent_required"
	KeyHeader             = "contact_form_header"
	KeyHeadline           = "contact_form_headline"
	KeyConsentText        = "contact_form_custom_consent_text"
	KeyPrivacyPolicyURL   = "contact_form_custom_privacy_url"
	KeySubmitButtonText   = "contact_form_custom_submit_button_text"
	KeyContactMethod      = "contact_form_contact_method"
	KeyMessageLabel       = "contact_form_message_label"
	KeyMessageAnswer      = "contact_form_message_answer"
	KeyThankYouMessage    = "contact_form_thank_you_message"
)

// Provider supplies typed configuration values.
type Provider interface {
	// GetString returns the value for key, or "" when unset.
	GetString(ctx context.Context, key string) string

	// GetBool returns the value for key parsed as a boolean, or false
	// when unset or unparsable. "1"/"0" and the strconv forms are accepted.
	GetBool(ctx context.Context, key string) bool
}

// Service reads settings from a SettingsStore.
type Service struct {
	store store.SettingsStore
}

// New creates a settings service backed by the given store.
func New(st store.SettingsStore) *Service {
	return &Service{store: st}
}

// GetString returns the value for key, or "" when unset.
func (s *Service) GetString(ctx context.Context, key string) string {
	value, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return ""
	}
	return value
}

// GetBool returns the value for key parsed as a boolean.
func (s *Service) GetBool(ctx context.Context, key string) bool {
	value, err := s.store.GetSetting(ctx, key)
	if err != nil {
		return false
	}

	parsed, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed
}

// Set stores a raw value for key.
func (s *Service) Set(ctx context.Context, key, value string) error {
	return s.store.SetSetting(ctx, key, value)
}
