package session

import (
	"errors"
	"testing"
	"time"

	"nichescope"
)

func TestStoreLifecycle(t *testing.T) {
	s := NewStore(0)

	token := s.Create()
	if token == "" {
		t.Fatal("Create() returned empty token")
	}

	sess, err := s.Get(token)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if sess.Token != token {
		t.Errorf("Token = %q, want %q", sess.Token, token)
	}
	if sess.Credentials.ModelKey != "" {
		t.Errorf("fresh session has credentials: %+v", sess.Credentials)
	}

	creds := nichescope.Credentials{ModelKey: "mk", PlatformKey: "pk"}
	if err := s.SetCredentials(token, creds); err != nil {
		t.Fatalf("SetCredentials() error = %v", err)
	}

	out := &nichescope.Outcome{Kind: nichescope.KindAnalysis}
	if err := s.SetResult(token, out); err != nil {
		t.Fatalf("SetResult() error = %v", err)
	}

	sess, err = s.Get(token)
	if err != nil {
		t.Fatalf("Get() after updates error = %v", err)
	}
	if sess.Credentials != creds {
		t.Errorf("Credentials = %+v, want %+v", sess.Credentials, creds)
	}
	if sess.LastResult != out {
		t.Error("LastResult not stored")
	}

	s.Delete(token)
	if _, err := s.Get(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
}

func TestStoreUnknownToken(t *testing.T) {
	s := NewStore(0)

	if _, err := s.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(unknown) = %v, want ErrNotFound", err)
	}
	if err := s.SetCredentials("nope", nichescope.Credentials{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetCredentials(unknown) = %v, want ErrNotFound", err)
	}
	if err := s.SetResult("nope", nil); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetResult(unknown) = %v, want ErrNotFound", err)
	}
}

func TestStoreExpiry(t *testing.T) {
	s := NewStore(time.Minute)
	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	token := s.Create()

	// Activity inside the TTL keeps the session alive.
	current = current.Add(50 * time.Second)
	if _, err := s.Get(token); err != nil {
		t.Fatalf("Get() within ttl error = %v", err)
	}

	// The Get above refreshed the deadline, so another 50s is still fine.
	current = current.Add(50 * time.Second)
	if _, err := s.Get(token); err != nil {
		t.Fatalf("Get() after refresh error = %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := s.Get(token); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after expiry = %v, want ErrNotFound", err)
	}
	if got := s.Len(); got != 0 {
		t.Errorf("Len() after expiry = %d, want 0", got)
	}
}

func TestStoreLenPurges(t *testing.T) {
	s := NewStore(time.Minute)
	current := time.Unix(1000, 0)
	s.now = func() time.Time { return current }

	s.Create()
	s.Create()
	if got := s.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}

	current = current.Add(2 * time.Minute)
	if got := s.Len(); got != 0 {
		t.Errorf("Len() after expiry = %d, want 0", got)
	}
}
