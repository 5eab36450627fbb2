package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/santaswap/internal/service"
	"github.com/mmynk/santaswap/internal/storage/sqlite"
)

func setupTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAPIHandler(service.NewGroupService(store)).Register(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}

	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
	}

	return resp.StatusCode
}

type groupJSON struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Participants []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Wish      string `json:"wish"`
		Recipient *struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Wish string `json:"wish"`
		} `json:"recipient"`
	} `json:"participants"`
}

func createGroup(t *testing.T, server *httptest.Server, name string, participants ...string) groupJSON {
	t.Helper()

	var group groupJSON
	status := doJSON(t, http.MethodPost, server.URL+"/api/groups",
		map[string]string{"name": name}, &group)
	if status != http.StatusCreated {
		t.Fatalf("create group status = %d, want 201", status)
	}

	for _, p := range participants {
		status := doJSON(t, http.MethodPost, server.URL+"/api/groups/"+group.ID+"/participants",
			map[string]string{"name": p}, nil)
		if status != http.StatusCreated {
			t.Fatalf("add participant status = %d, want 201", status)
		}
	}

	var full groupJSON
	if status := doJSON(t, http.MethodGet, server.URL+"/api/groups/"+group.ID, nil, &full); status != http.StatusOK {
		t.Fatalf("get group status = %d, want 200", status)
	}
	return full
}

func TestGroupCRUD(t *testing.T) {
	server := setupTestServer(t)

	// Create
	var created groupJSON
	status := doJSON(t, http.MethodPost, server.URL+"/api/groups",
		map[string]string{"name": "Office 2026", "description": "Annual exchange"}, &created)
	if status != http.StatusCreated {
		t.Fatalf("create status = %d, want 201", status)
	}
	if created.ID == "" {
		t.Fatal("expected generated group id")
	}

	// List
	var list []groupJSON
	if status := doJSON(t, http.MethodGet, server.URL+"/api/groups", nil, &list); status != http.StatusOK {
		t.Fatalf("list status = %d, want 200", status)
	}
	if len(list) != 1 || list[0].Name != "Office 2026" {
		t.Errorf("list = %+v, want one group named Office 2026", list)
	}

	// Update
	var updated groupJSON
	status = doJSON(t, http.MethodPut, server.URL+"/api/groups/"+created.ID,
		map[string]string{"name": "Renamed", "description": "x"}, &updated)
	if status != http.StatusOK {
		t.Fatalf("update status = %d, want 200", status)
	}
	if updated.Name != "Renamed" {
		t.Errorf("updated name = %s, want Renamed", updated.Name)
	}

	// Delete
	if status := doJSON(t, http.MethodDelete, server.URL+"/api/groups/"+created.ID, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete status = %d, want 204", status)
	}
	if status := doJSON(t, http.MethodGet, server.URL+"/api/groups/"+created.ID, nil, nil); status != http.StatusNotFound {
		t.Errorf("get after delete status = %d, want 404", status)
	}
}

func TestGroupNotFound(t *testing.T) {
	server := setupTestServer(t)

	cases := []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodGet, "/api/groups/nope", nil},
		{http.MethodPut, "/api/groups/nope", map[string]string{"name": "x"}},
		{http.MethodDelete, "/api/groups/nope", nil},
		{http.MethodPost, "/api/groups/nope/participants", map[string]string{"name": "x"}},
		{http.MethodPost, "/api/groups/nope/toss", nil},
	}

	for _, tc := range cases {
		if status := doJSON(t, tc.method, server.URL+tc.path, tc.body, nil); status != http.StatusNotFound {
			t.Errorf("%s %s status = %d, want 404", tc.method, tc.path, status)
		}
	}
}

func TestToss(t *testing.T) {
	server := setupTestServer(t)
	group := createGroup(t, server, "Family", "Alice", "Bob", "Charlie")

	var participants []struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Recipient *struct {
			ID string `json:"id"`
		} `json:"recipient"`
	}
	status := doJSON(t, http.MethodPost, server.URL+"/api/groups/"+group.ID+"/toss", nil, &participants)
	if status != http.StatusOK {
		t.Fatalf("toss status = %d, want 200", status)
	}
	if len(participants) != 3 {
		t.Fatalf("toss returned %d participants, want 3", len(participants))
	}

	received := make(map[string]int)
	for _, p := range participants {
		if p.Recipient == nil {
			t.Fatalf("participant %s has no recipient after toss", p.Name)
		}
		if p.Recipient.ID == p.ID {
			t.Fatalf("participant %s assigned to themself", p.Name)
		}
		received[p.Recipient.ID]++
	}
	for _, p := range participants {
		if received[p.ID] != 1 {
			t.Fatalf("participant %s received %d times, want exactly 1", p.Name, received[p.ID])
		}
	}

	// Recipient lookup agrees with the toss result.
	for _, p := range participants {
		var recipient struct {
			ID string `json:"id"`
		}
		url := fmt.Sprintf("%s/api/groups/%s/participants/%s/recipient", server.URL, group.ID, p.ID)
		if status := doJSON(t, http.MethodGet, url, nil, &recipient); status != http.StatusOK {
			t.Fatalf("get recipient status = %d, want 200", status)
		}
		if recipient.ID != p.Recipient.ID {
			t.Errorf("stored recipient of %s = %s, want %s", p.Name, recipient.ID, p.Recipient.ID)
		}
	}
}

func TestToss_TooFewParticipants(t *testing.T) {
	server := setupTestServer(t)
	group := createGroup(t, server, "Pair", "Alice", "Bob")

	status := doJSON(t, http.MethodPost, server.URL+"/api/groups/"+group.ID+"/toss", nil, nil)
	if status != http.StatusConflict {
		t.Fatalf("toss with 2 participants status = %d, want 409", status)
	}
}

func TestGetRecipient_BeforeToss(t *testing.T) {
	server := setupTestServer(t)
	group := createGroup(t, server, "Waiting", "Alice", "Bob", "Charlie")

	url := fmt.Sprintf("%s/api/groups/%s/participants/%s/recipient",
		server.URL, group.ID, group.Participants[0].ID)
	if status := doJSON(t, http.MethodGet, url, nil, nil); status != http.StatusNotFound {
		t.Errorf("get recipient before toss status = %d, want 404", status)
	}
}

func TestDeleteParticipant(t *testing.T) {
	server := setupTestServer(t)
	group := createGroup(t, server, "Trio", "Alice", "Bob", "Charlie")

	url := fmt.Sprintf("%s/api/groups/%s/participants/%s",
		server.URL, group.ID, group.Participants[1].ID)
	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNoContent {
		t.Fatalf("delete participant status = %d, want 204", status)
	}

	var after groupJSON
	if status := doJSON(t, http.MethodGet, server.URL+"/api/groups/"+group.ID, nil, &after); status != http.StatusOK {
		t.Fatalf("get group status = %d, want 200", status)
	}
	if len(after.Participants) != 2 {
		t.Errorf("participants after delete = %d, want 2", len(after.Participants))
	}

	// Unknown participant in a known group is a 404.
	if status := doJSON(t, http.MethodDelete, url, nil, nil); status != http.StatusNotFound {
		t.Errorf("re-delete status = %d, want 404", status)
	}
}

func TestCreateGroup_InvalidBody(t *testing.T) {
	server := setupTestServer(t)

	status := doJSON(t, http.MethodPost, server.URL+"/api/groups", map[string]int{"name": 42}, nil)
	if status != http.StatusBadRequest {
		t.Errorf("create with bad body status = %d, want 400", status)
	}
}

func TestGetGroup_EmbedsRecipients(t *testing.T) {
	server := setupTestServer(t)
	group := createGroup(t, server, "Embedded", "Alice", "Bob", "Charlie")

	if status := doJSON(t, http.MethodPost, server.URL+"/api/groups/"+group.ID+"/toss", nil, nil); status != http.StatusOK {
		t.Fatalf("toss status = %d, want 200", status)
	}

	var after groupJSON
	if status := doJSON(t, http.MethodGet, server.URL+"/api/groups/"+group.ID, nil, &after); status != http.StatusOK {
		t.Fatalf("get group status = %d, want 200", status)
	}
	for _, p := range after.Participants {
		if p.Recipient == nil {
			t.Errorf("participant %s missing embedded recipient", p.Name)
			continue
		}
		if p.Recipient.Name == "" {
			t.Errorf("participant %s recipient missing name", p.Name)
		}
	}
}
