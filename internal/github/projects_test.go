package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/clintrovert/ticketsync/pkg/types"
)

func TestMatchProject(t *testing.T) {
	projects := []projectNode{
		{ID: "P1", Title: "1", Number: 99},
		{ID: "P2", Title: "Roadmap", Number: 1},
	}

	tests := []struct {
		name   string
		query  string
		number int
		wantID string
	}{
		{name: "number beats title", query: "1", number: 1, wantID: "P2"},
		{name: "title match", query: "roadmap", number: 0, wantID: "P2"},
		{name: "title case-insensitive", query: "ROADMAP", number: 0, wantID: "P2"},
		{name: "no match", query: "Backlog", number: 0, wantID: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := matchProject(projects, tt.query, tt.number)
			if tt.wantID == "" {
				if got != nil {
					t.Fatalf("got %+v, want nil", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Fatalf("got %+v, want ID %s", got, tt.wantID)
			}
		})
	}
}

func newGraphQLTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{
		httpClient: srv.Client(),
		graphqlURL: srv.URL,
		owner:      "acme",
		repo:       "widgets",
		logger:     zap.NewNop(),
		fieldIDs:   make(map[string]string),
	}
}

func TestGraphQLDecodesData(t *testing.T) {
	c := newGraphQLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req.Query == "" {
			t.Error("empty query")
		}
		w.Write([]byte(`{"data":{"value":42}}`))
	})

	var out struct {
		Value int `json:"value"`
	}
	if err := c.graphql(context.Background(), "query { value }", nil, &out); err != nil {
		t.Fatalf("graphql: %v", err)
	}
	if out.Value != 42 {
		t.Errorf("value = %d", out.Value)
	}
}

func TestGraphQLSurfacesErrors(t *testing.T) {
	c := newGraphQLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Field 'bogus' doesn't exist"}]}`))
	})
	err := c.graphql(context.Background(), "query { bogus }", nil, nil)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestProjectFieldsBuildsSchemaAndCache(t *testing.T) {
	c := newGraphQLTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"node":{"fields":{"nodes":[
			{},
			{"id":"F1","name":"Type","options":[{"id":"O1","name":"Bug"},{"id":"O2","name":"Task"}]}
		]}}}}`))
	})

	project := &types.Project{ID: "PROJ_1", Number: 1, Title: "Roadmap"}
	schema, err := c.ProjectFields(context.Background(), project)
	if err != nil {
		t.Fatalf("ProjectFields: %v", err)
	}
	if !schema.HasOption("Type", "Bug") || !schema.HasOption("type", "task") {
		t.Errorf("schema = %v", schema)
	}
	if schema.HasOption("Type", "Epic") {
		t.Error("unexpected option Epic")
	}
	if c.fieldIDs[fieldKey(project.ID, "Type", "")] != "F1" {
		t.Errorf("field ID not cached: %v", c.fieldIDs)
	}
	if c.fieldIDs[fieldKey(project.ID, "Type", "Task")] != "O2" {
		t.Errorf("option ID not cached: %v", c.fieldIDs)
	}
}

func TestAlreadyLinkedMessagesRecognized(t *testing.T) {
	for _, msg := range []string{
		"graphql: Issue may only have one parent",
		"graphql: The issue is already a sub-issue of the parent",
		"graphql: Parent already has this sub-issue",
	} {
		lower := strings.ToLower(msg)
		recognized := false
		for _, fragment := range alreadyLinkedFragments {
			if strings.Contains(lower, fragment) {
				recognized = true
				break
			}
		}
		if !recognized {
			t.Errorf("message %q not treated as already-linked", msg)
		}
	}
}
