package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Ahmed-Sayed-1/Blog-System/internal/jar"
)

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newTestStore(t *testing.T) (*Store, *jar.Jar, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	j, err := jar.Open(":memory:", jar.WithClock(c.Now))
	if err != nil {
		t.Fatalf("jar.Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = j.Close() })
	return NewStore(j, c.Now), j, c
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func TestStore_SetGetRemove(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v err %v, want absent", ok, err)
	}
	if err := store.Set(ctx, "abc"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	token, ok, err := store.Get(ctx)
	if err != nil || !ok || token != "abc" {
		t.Fatalf("Get = %q %v %v, want abc true nil", token, ok, err)
	}
	if err := store.Remove(ctx); err != nil {
		t.Fatalf("Remove returned error: %v", err)
	}
	if _, ok, _ := store.Get(ctx); ok {
		t.Fatalf("token still present after Remove")
	}
	if err := store.Set(ctx, ""); err == nil {
		t.Fatalf("Set(\"\") returned nil error")
	}
}

func TestStore_TokenExpiresAfterSevenDays(t *testing.T) {
	store, _, c := newTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "abc"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	c.t = c.t.Add(TokenLifetime - time.Minute)
	if _, ok, _ := store.Get(ctx); !ok {
		t.Fatalf("token missing before expiry")
	}
	c.t = c.t.Add(2 * time.Minute)
	if _, ok, _ := store.Get(ctx); ok {
		t.Fatalf("token present after expiry")
	}
}

func TestDecodeIdentity(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    string
		wantErr error
	}{
		{name: "numeric user_id", token: signed(t, jwt.MapClaims{"user_id": 42}), want: "42"},
		{name: "string user_id", token: signed(t, jwt.MapClaims{"user_id": "u-7"}), want: "u-7"},
		{name: "subject fallback", token: signed(t, jwt.MapClaims{"sub": "9"}), want: "9"},
		{name: "no claim", token: signed(t, jwt.MapClaims{"foo": "bar"}), wantErr: ErrNoIdentity},
		{name: "empty", token: "", wantErr: ErrNoIdentity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeIdentity(tt.token)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeIdentity returned error: %v", err)
			}
			if string(got) != tt.want {
				t.Fatalf("id = %q, want %q", got, tt.want)
			}
		})
	}

	if _, err := DecodeIdentity("not.a.jwt"); err == nil {
		t.Fatalf("garbage token decoded without error")
	}
}

func TestSession_LoadLoginLogout(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()

	s, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if s.Snapshot().Authenticated {
		t.Fatalf("fresh session is authenticated")
	}

	token := signed(t, jwt.MapClaims{"user_id": 5})
	if err := s.Login(ctx, token); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	st := s.Snapshot()
	if !st.Authenticated || st.UserID != "5" || !st.HasIdentity() {
		t.Fatalf("state after login = %+v", st)
	}
	if present, err := s.TokenPresent(ctx); err != nil || !present {
		t.Fatalf("TokenPresent = %v %v, want true", present, err)
	}

	reloaded, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if got := reloaded.Snapshot(); got.Token != token {
		t.Fatalf("reloaded token = %q, want stored token", got.Token)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if s.Snapshot().Authenticated {
		t.Fatalf("session authenticated after logout")
	}
	if present, _ := s.TokenPresent(ctx); present {
		t.Fatalf("token still in jar after logout")
	}
}

func TestSession_OpaqueTokenAuthenticatesWithoutIdentity(t *testing.T) {
	store, _, _ := newTestStore(t)
	ctx := context.Background()
	s, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := s.Login(ctx, "opaque-token"); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	st := s.Snapshot()
	if !st.Authenticated || st.HasIdentity() {
		t.Fatalf("state = %+v, want authenticated without identity", st)
	}
}

func TestSession_ReloadPicksUpExternalChanges(t *testing.T) {
	store, j, _ := newTestStore(t)
	ctx := context.Background()
	s, err := Load(ctx, store)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	token := signed(t, jwt.MapClaims{"user_id": "3"})
	if err := j.Set(ctx, CookieName, token, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("jar.Set returned error: %v", err)
	}
	if s.Snapshot().Authenticated {
		t.Fatalf("snapshot changed before Reload")
	}
	st, err := s.Reload(ctx)
	if err != nil {
		t.Fatalf("Reload returned error: %v", err)
	}
	if !st.Authenticated || st.UserID != "3" {
		t.Fatalf("reloaded state = %+v", st)
	}

	if err := j.Remove(ctx, CookieName); err != nil {
		t.Fatalf("jar.Remove returned error: %v", err)
	}
	if st, _ := s.Reload(ctx); st.Authenticated {
		t.Fatalf("state still authenticated after external removal")
	}
}
