// Package supabase is a thin client for the managed backend: PostgREST for
// rows, GoTrue for user lookup. Persistence, auth, and row-level security
// live on the other side of these calls.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	BaseURL string
	AnonKey string

	httpClient *http.Client
}

func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AnonKey:    anonKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// User is the subset of the GoTrue user record the service needs.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GetUser resolves a bearer token to its user via the identity provider.
// An invalid or expired token yields a nil user, not an error.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.AnonKey)
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing auth response body: %v", err)
		}
	}()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("auth user lookup returned status %d: %s", resp.StatusCode, string(body))
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, nil
	}
	return &user, nil
}

// Scoped returns a data-access handle restricted to one owner. Every query
// carries user_id=eq.<owner>; together with row-level security on the
// backend this keeps callers inside their own rows.
func (c *Client) Scoped(ownerID, accessToken string) *ScopedStore {
	return &ScopedStore{client: c, ownerID: ownerID, accessToken: accessToken}
}

type ScopedStore struct {
	client      *Client
	ownerID     string
	accessToken string
}

// Find fetches rows matching the filter into dest (a pointer to a slice).
// Filter keys are column names with PostgREST operator values ("eq.x",
// "gte.2026-09-01"); anything after a '#' in a key is stripped, so two
// constraints on one column stay distinct map keys.
func (s *ScopedStore) Find(ctx context.Context, table string, filter map[string]string, dest interface{}) error {
	query := url.Values{}
	query.Set("user_id", "eq."+s.ownerID)
	for key, value := range filter {
		column := key
		if i := strings.IndexByte(key, '#'); i >= 0 {
			column = key[:i]
		}
		query.Add(column, value)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.client.BaseURL, table, query.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return err
	}
	s.setHeaders(req)

	body, err := s.do(req, http.StatusOK)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, dest)
}

// Insert writes one record. When dest is non-nil the representation returned
// by the backend is decoded into it.
func (s *ScopedStore) Insert(ctx context.Context, table string, record interface{}, dest interface{}) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", s.client.BaseURL, table)
	req, err := http.NewRequestWithContext(ctx, "POST", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	if dest != nil {
		req.Header.Set("Prefer", "return=representation")
	} else {
		req.Header.Set("Prefer", "return=minimal")
	}

	body, err := s.do(req, http.StatusCreated)
	if err != nil {
		return err
	}
	if dest == nil {
		return nil
	}
	// PostgREST returns an array even for single inserts.
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) == 0 {
		return fmt.Errorf("unexpected insert response for %s", table)
	}
	return json.Unmarshal(rows[0], dest)
}

// Update patches one row by id.
func (s *ScopedStore) Update(ctx context.Context, table string, id string, patch map[string]interface{}) error {
	payload, err := json.Marshal(patch)
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("id", "eq."+id)
	query.Set("user_id", "eq."+s.ownerID)
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.client.BaseURL, table, query.Encode())

	req, err := http.NewRequestWithContext(ctx, "PATCH", endpoint, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	s.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=minimal")

	_, err = s.do(req, http.StatusNoContent)
	return err
}

func (s *ScopedStore) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.client.AnonKey)
	token := s.accessToken
	if token == "" {
		token = s.client.AnonKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func (s *ScopedStore) do(req *http.Request, wantStatus int) ([]byte, error) {
	resp, err := s.client.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Printf("Error closing supabase response body: %v", err)
		}
	}()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("supabase returned status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}
	return body, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
