package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/Mcdonalid/Lychee/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return s
}

func seedMessage(t *testing.T, s *SQLiteStore, name, email, body string) *store.ContactMessage {
	t.Helper()

	msg, err := s.CreateContactMessage(context.Background(), &store.NewContactMessage{
		Name:      name,
		Email:     email,
		Message:   body,
		IPAddress: "203.0.113.7",
		UserAgent: "test-agent",
	})
	if err != nil {
		t.Fatalf("failed to seed message from %s: %v", name, err)
	}
	return msg
}

func TestCreateContactMessage(t *testing.T) {
	s := newTestStore(t)

	msg := seedMessage(t, s, "John Doe", "john@example.com", "This is a test message that is long enough.")

	if msg.ID == 0 {
		t.Errorf("expected server-assigned id, got 0")
	}
	if msg.IsRead {
		t.Errorf("expected new message to be unread")
	}
	if msg.IPAddress != "203.0.113.7" {
		t.Errorf("expected ip address to be captured, got %q", msg.IPAddress)
	}
	if msg.CreatedAt.IsZero() || msg.UpdatedAt.IsZero() {
		t.Errorf("expected timestamps to be set")
	}
}

func TestListContactMessages_OrderAndPagination(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	var ids []int64
	for _, name := range []string{"first", "second", "third", "fourth", "fifth"} {
		msg := seedMessage(t, s, name, name+"@example.com", "message from "+name+" long enough")
		ids = append(ids, msg.ID)
	}

	// Newest first
	messages, total, err := s.ListContactMessages(ctx, store.ContactMessageFilter{Limit: 2, Offset: 0})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5, got %d", total)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != ids[4] || messages[1].ID != ids[3] {
		t.Errorf("expected newest first [%d %d], got [%d %d]", ids[4], ids[3], messages[0].ID, messages[1].ID)
	}

	// Second page continues where the first left off
	messages, total, err = s.ListContactMessages(ctx, store.ContactMessageFilter{Limit: 2, Offset: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 5 {
		t.Errorf("expected total 5 regardless of pagination, got %d", total)
	}
	if messages[0].ID != ids[2] || messages[1].ID != ids[1] {
		t.Errorf("expected page [%d %d], got [%d %d]", ids[2], ids[1], messages[0].ID, messages[1].ID)
	}
}

func TestListContactMessages_TieBrokenByAscendingID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	a := seedMessage(t, s, "alice", "alice@example.com", "message from alice long enough")
	b := seedMessage(t, s, "bob", "bob@example.com", "message from bob long enough")

	// Force identical created_at so only the tie-break decides the order.
	_, err := s.db.ExecContext(ctx, "UPDATE contact_messages SET created_at = ?", a.CreatedAt)
	if err != nil {
		t.Fatalf("failed to level created_at: %v", err)
	}

	messages, _, err := s.ListContactMessages(ctx, store.ContactMessageFilter{Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].ID != a.ID || messages[1].ID != b.ID {
		t.Errorf("expected id ascending on ties [%d %d], got [%d %d]", a.ID, b.ID, messages[0].ID, messages[1].ID)
	}
}

func TestListContactMessages_Search(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedMessage(t, s, "Alice Smith", "alice@example.com", "hello there, this is alice writing")
	seedMessage(t, s, "Bob Jones", "bob@example.com", "completely unrelated content here")
	seedMessage(t, s, "Carol", "carol@other.org", "discount: 50% off all_items today only")

	tests := []struct {
		name     string
		search   string
		expected int
	}{
		{name: "matches name case-insensitively", search: "alice", expected: 1},
		{name: "matches email", search: "example.com", expected: 2},
		{name: "matches message body", search: "unrelated", expected: 1},
		{name: "percent is literal", search: "%", expected: 1},
		{name: "underscore is literal", search: "_", expected: 1},
		{name: "literal sequence with wildcards", search: "50% off", expected: 1},
		{name: "no match", search: "zzz", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, total, err := s.ListContactMessages(ctx, store.ContactMessageFilter{Search: tt.search, Limit: 10})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if total != int64(tt.expected) {
				t.Errorf("expected %d matches for %q, got %d", tt.expected, tt.search, total)
			}
		})
	}
}

func TestListContactMessages_IsReadFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m1 := seedMessage(t, s, "alice", "alice@example.com", "message from alice long enough")
	seedMessage(t, s, "bob", "bob@example.com", "message from bob long enough")

	if _, err := s.SetContactMessageRead(ctx, m1.ID, true); err != nil {
		t.Fatalf("failed to mark read: %v", err)
	}

	isRead := true
	messages, total, err := s.ListContactMessages(ctx, store.ContactMessageFilter{IsRead: &isRead, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(messages) != 1 || messages[0].ID != m1.ID {
		t.Errorf("expected only the read message, got total=%d len=%d", total, len(messages))
	}

	isRead = false
	_, total, err = s.ListContactMessages(ctx, store.ContactMessageFilter{IsRead: &isRead, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 {
		t.Errorf("expected one unread message, got %d", total)
	}
}

func TestSetContactMessageRead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := seedMessage(t, s, "alice", "alice@example.com", "message from alice long enough")

	updated, err := s.SetContactMessageRead(ctx, msg.ID, true)
	if err != nil {
		t.Fatalf("mark read failed: %v", err)
	}
	if !updated.IsRead {
		t.Errorf("expected message to be read")
	}
	if updated.CreatedAt != msg.CreatedAt {
		t.Errorf("expected created_at to be immutable")
	}

	// Setting the same value twice leaves state unchanged
	again, err := s.SetContactMessageRead(ctx, msg.ID, true)
	if err != nil {
		t.Fatalf("repeated mark read failed: %v", err)
	}
	if !again.IsRead {
		t.Errorf("expected message to stay read")
	}

	back, err := s.SetContactMessageRead(ctx, msg.ID, false)
	if err != nil {
		t.Fatalf("mark unread failed: %v", err)
	}
	if back.IsRead {
		t.Errorf("expected message to be unread again")
	}

	if _, err := s.SetContactMessageRead(ctx, 9999, true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown id, got %v", err)
	}
}

func TestDeleteContactMessage(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := seedMessage(t, s, "alice", "alice@example.com", "message from alice long enough")

	if err := s.DeleteContactMessage(ctx, msg.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	if _, err := s.GetContactMessageByID(ctx, msg.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}

	if err := s.DeleteContactMessage(ctx, msg.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}

	if _, err := s.SetContactMessageRead(ctx, msg.ID, true); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update after delete, got %v", err)
	}
}

func TestSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Seeded by Migrate
	value, err := s.GetSetting(ctx, "contact_form_enabled")
	if err != nil {
		t.Fatalf("get seeded setting failed: %v", err)
	}
	if value != "1" {
		t.Errorf("expected seeded value %q, got %q", "1", value)
	}

	if err := s.SetSetting(ctx, "contact_form_security_question", "What colour is the sky?"); err != nil {
		t.Fatalf("set setting failed: %v", err)
	}
	value, err = s.GetSetting(ctx, "contact_form_security_question")
	if err != nil {
		t.Fatalf("get setting failed: %v", err)
	}
	if value != "What colour is the sky?" {
		t.Errorf("unexpected value %q", value)
	}

	if _, err := s.GetSetting(ctx, "does_not_exist"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown key, got %v", err)
	}
}

func TestUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	admin, err := s.CreateUser(ctx, "admin", "hash", true)
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if !admin.MayAdminister {
		t.Errorf("expected admin flag to persist")
	}

	fetched, err := s.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("get user failed: %v", err)
	}
	if fetched.ID != admin.ID {
		t.Errorf("expected id %d, got %d", admin.ID, fetched.ID)
	}

	if _, err := s.GetUserByID(ctx, 9999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
