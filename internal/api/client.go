// Package api talks to the backup server's REST API. The console owns
// none of the semantics behind these calls; it forwards requests and
// reports failures as-is.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wy414012/proxmox-backup/internal/model"
	"github.com/wy414012/proxmox-backup/internal/session"
)

const (
	ticketPath    = "/api2/json/access/ticket"
	datastorePath = "/api2/json/config/datastore"

	csrfHeader = "CSRFPreventionToken"
)

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Session    *session.Context
}

// NewClient builds a client for the backend at baseURL. With insecure
// set, the backend's TLS certificate is not verified (self-signed
// setups).
func NewClient(baseURL string, insecure bool, timeout time.Duration) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")

	transport := http.DefaultTransport
	if insecure {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		Session: &session.Context{},
	}
}

// Login requests a ticket and applies it to the client's session, so
// subsequent calls are authenticated.
func (c *Client) Login(ctx context.Context, username, password string) (*model.Ticket, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+ticketPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to log in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("login failed with status %d: %s", resp.StatusCode, string(body))
	}

	var envelope model.Envelope[model.Ticket]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	c.Session.Apply(envelope.Data)
	return &envelope.Data, nil
}

// ListDatastores fetches all datastore configuration records.
func (c *Client) ListDatastores(ctx context.Context) ([]model.DatastoreConfig, error) {
	var envelope model.Envelope[[]model.DatastoreConfig]
	if err := c.do(ctx, http.MethodGet, datastorePath, nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

// GetDatastore fetches a single datastore configuration record.
func (c *Client) GetDatastore(ctx context.Context, name string) (*model.DatastoreConfig, error) {
	var envelope model.Envelope[model.DatastoreConfig]
	if err := c.do(ctx, http.MethodGet, datastorePath+"/"+url.PathEscape(name), nil, &envelope); err != nil {
		return nil, err
	}
	return &envelope.Data, nil
}

// CreateDatastore inserts a new record at the base resource path.
func (c *Client) CreateDatastore(ctx context.Context, payload map[string]any) error {
	return c.do(ctx, http.MethodPost, datastorePath, payload, nil)
}

// UpdateDatastore replaces the named record in place. Cleared fields
// travel as an explicit delete list next to the new values.
func (c *Client) UpdateDatastore(ctx context.Context, name string, payload map[string]any, deletes []string) error {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	if len(deletes) > 0 {
		body["delete"] = deletes
	}

	return c.do(ctx, http.MethodPut, datastorePath+"/"+url.PathEscape(name), body, nil)
}

// do runs one authenticated API call. The ticket travels as a cookie on
// every request; write methods additionally carry the CSRF token.
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	if c.Session.Authenticated() {
		req.AddCookie(session.Cookie(c.Session.Ticket()))
		if method != http.MethodGet {
			req.Header.Set(csrfHeader, c.Session.CSRFToken())
		}
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s failed with status %d: %s", method, path, resp.StatusCode, string(raw))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
