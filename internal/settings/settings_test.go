package settings

import (
	"context"
	"testing"

	"github.com/Mcdonalid/Lychee/internal/store/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return New(st)
}

func TestGetString(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if err := svc.Set(ctx, KeySecurityQuestion, "What colour is the sky?"); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if got := svc.GetString(ctx, KeySecurityQuestion); got != "What colour is the sky?" {
		t.Errorf("unexpected value %q", got)
	}

	// Missing keys read as empty
	if got := svc.GetString(ctx, "no_such_key"); got != "" {
		t.Errorf("expected empty string for missing key, got %q", got)
	}
}

func TestGetBool(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		value    string
		expected bool
	}{
		{"1", true},
		{"0", false},
		{"true", true},
		{"false", false},
		{" 1 ", true},
		{"not-a-bool", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if err := svc.Set(ctx, KeyConsentRequired, tt.value); err != nil {
				t.Fatalf("set failed: %v", err)
			}
			if got := svc.GetBool(ctx, KeyConsentRequired); got != tt.expected {
				t.Errorf("GetBool(%q) = %v, expected %v", tt.value, got, tt.expected)
			}
		})
	}

	if got := svc.GetBool(ctx, "no_such_key"); got {
		t.Errorf("expected false for missing key")
	}
}

func TestSeededDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	if !svc.GetBool(ctx, KeyContactFormEnabled) {
		t.Errorf("expected contact form to be enabled by default")
	}
	if svc.GetBool(ctx, KeyConsentRequired) {
		t.Errorf("expected consent not to be required by default")
	}
	if svc.GetString(ctx, KeySecurityQuestion) != "" {
		t.Errorf("expected no security question by default")
	}
	if svc.GetString(ctx, KeyThankYouMessage) == "" {
		t.Errorf("expected a default thank you message")
	}
}
