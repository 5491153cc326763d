package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wy414012/proxmox-backup/internal/model"
	"github.com/wy414012/proxmox-backup/internal/session"
)

type recordedRequest struct {
	Method string
	Path   string
	Ticket string
	CSRF   string
	Body   map[string]any
}

func newStubBackend(t *testing.T) (*httptest.Server, *[]recordedRequest) {
	var requests []recordedRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/api2/json/access/ticket", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.PostFormValue("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"username":            r.PostFormValue("username"),
				"ticket":              "PBS:TICKET",
				"CSRFPreventionToken": "CSRF:TOKEN",
			},
		})
	})
	mux.HandleFunc("/api2/json/config/datastore", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordRequest(r))
		if r.Method == http.MethodGet {
			json.NewEncoder(w).Encode(map[string]any{
				"data": []map[string]any{{"name": "store1", "path": "/mnt/datastore/store1"}},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": nil})
	})
	mux.HandleFunc("/api2/json/config/datastore/", func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, recordRequest(r))
		if r.Method == http.MethodGet {
			comment := "kept"
			json.NewEncoder(w).Encode(map[string]any{
				"data": model.DatastoreConfig{
					Name:    "store1",
					Path:    "/mnt/datastore/store1",
					Comment: &comment,
				},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"data": nil})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, &requests
}

func recordRequest(r *http.Request) recordedRequest {
	rec := recordedRequest{
		Method: r.Method,
		Path:   r.URL.Path,
		CSRF:   r.Header.Get("CSRFPreventionToken"),
	}
	if cookie, err := r.Cookie(session.CookieName); err == nil {
		rec.Ticket = cookie.Value
	}
	if r.Body != nil {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
			rec.Body = body
		}
	}
	return rec
}

func loggedInClient(t *testing.T) (*Client, *[]recordedRequest) {
	server, requests := newStubBackend(t)
	client := NewClient(server.URL, false, 5*time.Second)

	ticket, err := client.Login(context.Background(), "admin@pbs", "secret")
	require.NoError(t, err)
	require.Equal(t, "PBS:TICKET", ticket.Ticket)

	return client, requests
}

func TestLoginAppliesSession(t *testing.T) {
	client, _ := loggedInClient(t)

	assert.True(t, client.Session.Authenticated())
	assert.Equal(t, "admin@pbs", client.Session.Username())
	assert.Equal(t, "CSRF:TOKEN", client.Session.CSRFToken())
}

func TestLoginFailure(t *testing.T) {
	server, _ := newStubBackend(t)
	client := NewClient(server.URL, false, 5*time.Second)

	_, err := client.Login(context.Background(), "admin@pbs", "wrong")
	require.Error(t, err)
	assert.False(t, client.Session.Authenticated())
}

func TestAuthenticatedRequestsCarryTicketCookie(t *testing.T) {
	client, requests := loggedInClient(t)

	_, err := client.ListDatastores(context.Background())
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	rec := (*requests)[0]
	assert.Equal(t, "PBS:TICKET", rec.Ticket)
	assert.Empty(t, rec.CSRF, "reads do not need the CSRF token")
}

func TestCreateDatastore(t *testing.T) {
	client, requests := loggedInClient(t)

	err := client.CreateDatastore(context.Background(), map[string]any{
		"name":      "store1",
		"path":      "/mnt/datastore/store1",
		"keep-last": uint64(3),
	})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	rec := (*requests)[0]
	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/api2/json/config/datastore", rec.Path)
	assert.Equal(t, "PBS:TICKET", rec.Ticket)
	assert.Equal(t, "CSRF:TOKEN", rec.CSRF)
	assert.Equal(t, "store1", rec.Body["name"])
	assert.Equal(t, float64(3), rec.Body["keep-last"])
	_, present := rec.Body["delete"]
	assert.False(t, present, "inserts never carry a delete list")
}

func TestUpdateDatastoreCarriesDeleteList(t *testing.T) {
	client, requests := loggedInClient(t)

	err := client.UpdateDatastore(context.Background(), "store1",
		map[string]any{"keep-last": uint64(5)},
		[]string{"comment", "gc-schedule"})
	require.NoError(t, err)

	require.Len(t, *requests, 1)
	rec := (*requests)[0]
	assert.Equal(t, http.MethodPut, rec.Method)
	assert.Equal(t, "/api2/json/config/datastore/store1", rec.Path)
	assert.Equal(t, "CSRF:TOKEN", rec.CSRF)
	assert.Equal(t, float64(5), rec.Body["keep-last"])
	assert.ElementsMatch(t, []any{"comment", "gc-schedule"}, rec.Body["delete"])
}

func TestUpdateDatastoreWithoutDeletes(t *testing.T) {
	client, requests := loggedInClient(t)

	err := client.UpdateDatastore(context.Background(), "store1",
		map[string]any{"comment": "hello"}, nil)
	require.NoError(t, err)

	rec := (*requests)[0]
	_, present := rec.Body["delete"]
	assert.False(t, present)
}

func TestGetDatastore(t *testing.T) {
	client, _ := loggedInClient(t)

	ds, err := client.GetDatastore(context.Background(), "store1")
	require.NoError(t, err)

	assert.Equal(t, "store1", ds.Name)
	require.NotNil(t, ds.Comment)
	assert.Equal(t, "kept", *ds.Comment)
}

func TestErrorCarriesStatusAndBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "datastore 'store1' does not exist", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(server.URL, false, 5*time.Second)
	client.Session.Apply(model.Ticket{Username: "admin@pbs", Ticket: "T", CSRFToken: "C"})

	_, err := client.GetDatastore(context.Background(), "store1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "does not exist")
}
