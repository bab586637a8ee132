package sqlite

import (
	"context"
	"fmt"
)

// schema holds the full database schema. Statements are idempotent so
// Migrate can run on every startup.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	username       TEXT NOT NULL UNIQUE,
	password_hash  TEXT NOT NULL,
	may_administer BOOLEAN NOT NULL DEFAULT 0,
	created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS contact_messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL,
	message    TEXT NOT NULL,
	is_read    BOOLEAN NOT NULL DEFAULT 0,
	ip_address TEXT,
	user_agent TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contact_messages_created ON contact_messages(created_at);
CREATE INDEX IF NOT EXISTS idx_contact_messages_is_read ON contact_messages(is_read);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// defaultSettings seeds the contact form configuration. Existing values
// are left untouched.
var defaultSettings = map[string]string{
	"contact_form_enabled":                   "1",
	"contact_form_security_question":         "",
	"contact_form_security_answer":           "",
	"contact_form_custom_consent_required":   "0",
	"contact_form_header":                    "Contact Us",
	"contact_form_headline":                  "We'd love to hear from you!",
	"contact_form_custom_consent_text":       "I agree to the privacy policy",
	"contact_form_custom_privacy_url":        "",
	"contact_form_custom_submit_button_text": "Send Message",
	"contact_form_contact_method":            "email",
	"contact_form_message_label":             "Message",
	"contact_form_message_answer":            "",
	"contact_form_thank_you_message":         "Thank you for your message. We will get back to you soon.",
}

// Migrate applies the schema and seeds default settings.
func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}

	for key, value := range defaultSettings {
		query := "INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)"
		if _, err := s.db.ExecContext(ctx, query, key, value); err != nil {
			return fmt.Errorf("seed setting %q: %w", key, err)
		}
	}

	return nil
}
