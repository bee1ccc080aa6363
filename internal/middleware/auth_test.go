package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/fernwell/choreboard/internal/auth"
	"github.com/fernwell/choreboard/internal/database"
	"github.com/fernwell/choreboard/internal/model"
	"github.com/fernwell/choreboard/internal/store"
)

func setupAuthMiddlewareDB(t *testing.T) *store.FamilyMemberStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewFamilyMemberStore(db)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMemberAuthNoHeader(t *testing.T) {
	ms := setupAuthMiddlewareDB(t)

	handler := MemberAuth(ms, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/chores", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMemberAuthUnknownMember(t *testing.T) {
	ms := setupAuthMiddlewareDB(t)

	handler := MemberAuth(ms, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("should not reach handler")
	}))

	req := httptest.NewRequest("GET", "/api/chores", nil)
	req.Header.Set("X-Member-ID", "999")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestMemberAuthValidMember(t *testing.T) {
	ms := setupAuthMiddlewareDB(t)
	m, err := ms.CreateMember("Alice", model.RoleParent, 1)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	var got model.FamilyMember
	handler := MemberAuth(ms, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		member, ok := auth.Member(r.Context())
		if !ok {
			t.Fatal("expected member in request context")
		}
		got = member
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/api/chores", nil)
	req.Header.Set("X-Member-ID", "1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got.ID != m.ID || got.Name != "Alice" {
		t.Errorf("member = %+v, want id=%d name=Alice", got, m.ID)
	}
}

func TestMemberAuthPIN(t *testing.T) {
	ms := setupAuthMiddlewareDB(t)
	m, err := ms.CreateMember("Bob", model.RoleChild, 1)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	hash, _ := bcrypt.GenerateFromPassword([]byte("1234"), bcrypt.MinCost)
	if err := ms.SetPIN(m.ID, string(hash)); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	handler := MemberAuth(ms, testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Wrong PIN rejected
	req := httptest.NewRequest("GET", "/api/chores", nil)
	req.Header.Set("X-Member-ID", "1")
	req.Header.Set("X-Member-PIN", "0000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong pin status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}

	// Correct PIN accepted
	req = httptest.NewRequest("GET", "/api/chores", nil)
	req.Header.Set("X-Member-ID", "1")
	req.Header.Set("X-Member-PIN", "1234")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("correct pin status = %d, want %d", rec.Code, http.StatusOK)
	}
}
