package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetUser(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		switch r.Header.Get("Authorization") {
		case "Bearer good-token":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "user-42", "email": "ana@example.com"})
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "anon-key")

	user, err := client.GetUser(context.Background(), "good-token")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user == nil || user.ID != "user-42" {
		t.Errorf("expected user-42, got %+v", user)
	}

	user, err = client.GetUser(context.Background(), "bad-token")
	if err != nil {
		t.Fatalf("invalid token must not be an error: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user for invalid token, got %+v", user)
	}
}

func TestScopedFind_AddsOwnerAndStripsKeySuffix(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[{"id":"a1","title":"Poda"}]`))
	}))
	defer server.Close()

	store := NewClient(server.URL, "anon-key").Scoped("user-1", "token")

	var rows []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	filter := map[string]string{
		"start_time":       "gte.2026-09-10T00:00:00Z",
		"start_time#upper": "lt.2026-09-11T00:00:00Z",
	}
	if err := store.Find(context.Background(), "appointments", filter, &rows); err != nil {
		t.Fatalf("find failed: %v", err)
	}

	if got := gotQuery["user_id"]; len(got) != 1 || got[0] != "eq.user-1" {
		t.Errorf("expected owner scoping, got %v", got)
	}
	if got := gotQuery["start_time"]; len(got) != 2 {
		t.Errorf("expected both start_time constraints on one column, got %v", got)
	}
	if len(rows) != 1 || rows[0].ID != "a1" {
		t.Errorf("unexpected rows %+v", rows)
	}
}

func TestScopedInsert_DecodesRepresentation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Prefer") != "return=representation" {
			t.Errorf("expected representation preference, got %q", r.Header.Get("Prefer"))
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"new-1"}]`))
	}))
	defer server.Close()

	store := NewClient(server.URL, "anon-key").Scoped("user-1", "token")

	var created struct {
		ID string `json:"id"`
	}
	if err := store.Insert(context.Background(), "clients", map[string]string{"name": "Dona Marta"}, &created); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if created.ID != "new-1" {
		t.Errorf("expected decoded id, got %q", created.ID)
	}
}

func TestScopedUpdate_ScopesByOwnerAndID(t *testing.T) {
	var gotQuery map[string][]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "PATCH" {
			t.Errorf("expected PATCH, got %s", r.Method)
		}
		gotQuery = r.URL.Query()
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	store := NewClient(server.URL, "anon-key").Scoped("user-1", "token")
	if err := store.Update(context.Background(), "appointments", "a1", map[string]interface{}{"end_time": "x"}); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := gotQuery["id"]; len(got) != 1 || got[0] != "eq.a1" {
		t.Errorf("expected id filter, got %v", got)
	}
	if got := gotQuery["user_id"]; len(got) != 1 || got[0] != "eq.user-1" {
		t.Errorf("expected owner filter, got %v", got)
	}
}
