package backend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaptable/internal/table"
)

func TestUploadDocument(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/document", r.URL.Path)

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		assert.Equal(t, "contract.pdf", header.Filename)
		body, _ := io.ReadAll(file)
		assert.Equal(t, "file bytes", string(body))

		_ = json.NewEncoder(w).Encode(table.Document{ID: "d1", Name: "contract.pdf", PageCount: 4})
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	doc, err := c.UploadDocument(context.Background(), "contract.pdf", strings.NewReader("file bytes"))
	require.NoError(t, err)
	assert.Equal(t, "d1", doc.ID)
	assert.Equal(t, 4, doc.PageCount)
}

func TestDeleteDocument(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	require.NoError(t, c.DeleteDocument(context.Background(), "d1"))
	assert.Equal(t, "/api/v1/document/d1", gotPath)
}

func TestRunQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/query", r.URL.Path)

		var req QueryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "d1", req.DocumentID)
		assert.Equal(t, "What is the total?", req.Prompt.Query)

		_, _ = w.Write([]byte(`{
			"answer": {"answer": 42},
			"chunks": [{"content": "total: 42", "page": 3}],
			"resolvedEntities": [{"original": "forty-two", "resolved": "42"}]
		}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	resp, err := c.RunQuery(context.Background(), QueryRequest{
		DocumentID: "d1",
		Prompt:     Prompt{ID: "col1", Query: "What is the total?", Type: table.TypeInt},
	})
	require.NoError(t, err)

	assert.True(t, resp.Answer.Answer.Equal(table.Int(42)))
	require.Len(t, resp.Chunks, 1)
	assert.Equal(t, 3, resp.Chunks[0].Page)
	require.Len(t, resp.ResolvedEntities, 1)
	assert.Equal(t, FlexString("forty-two"), resp.ResolvedEntities[0].Original)
}

func TestRunQuery_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	_, err := c.RunQuery(context.Background(), QueryRequest{Prompt: Prompt{ID: "col1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "col1")
	assert.Contains(t, err.Error(), "500")
}

func TestExportTriples(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/graph/export-triples", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// Numbers arrive pre-stringified.
		assert.Equal(t, "7", payload["count"])

		_, _ = w.Write([]byte(`{"triples": []}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(Config{BaseURL: srv.URL})
	blob, err := c.ExportTriples(context.Background(), map[string]any{"count": 7})
	require.NoError(t, err)
	assert.JSONEq(t, `{"triples": []}`, string(blob))
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    FlexString
		wantErr bool
	}{
		{"string", `"hello"`, "hello", false},
		{"list joins with spaces", `["a", "b", "c"]`, "a b c", false},
		{"empty list", `[]`, "", false},
		{"number rejected", `42`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f FlexString
			err := json.Unmarshal([]byte(tt.in), &f)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestMergeRules(t *testing.T) {
	column := &table.Column{
		ID:         "col1",
		EntityType: "Company",
		Rules:      []table.Rule{{Type: table.RuleMaxLength, Length: 20}},
	}
	globals := []*table.GlobalRule{
		{ID: "g1", EntityType: " company ", Rule: table.Rule{Type: table.RuleMustReturn, Options: []string{"ACME"}}},
		{ID: "g2", EntityType: "Person", Rule: table.Rule{Type: table.RuleMayReturn, Options: []string{"Jane"}}},
	}

	rules := MergeRules(column, globals)
	require.Len(t, rules, 2)
	assert.Equal(t, table.RuleMaxLength, rules[0].Type)
	// The entity-type match is trimmed and case-folded.
	assert.Equal(t, table.RuleMustReturn, rules[1].Type)
}

func TestStringifyDeep(t *testing.T) {
	in := map[string]any{
		"name":  "Alice",
		"count": 7,
		"ratio": 2.5,
		"flag":  true,
		"gone":  nil,
		"tags":  []any{"a", 1, nil},
		"inner": map[string]any{"page": 3},
	}
	out, ok := StringifyDeep(in).(map[string]any)
	require.True(t, ok)

	assert.Equal(t, "Alice", out["name"])
	assert.Equal(t, "7", out["count"])
	assert.Equal(t, "2.5", out["ratio"])
	assert.Equal(t, "true", out["flag"])
	assert.Equal(t, "", out["gone"])
	assert.Equal(t, []any{"a", "1", ""}, out["tags"])
	inner, ok := out["inner"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "3", inner["page"])
}

func TestStringifyDeep_TypedValues(t *testing.T) {
	row := &table.Row{
		ID: "r1",
		Cells: map[string]table.Value{
			"col1": table.Int(42),
			"col2": table.Null(),
		},
	}
	out, ok := StringifyDeep(row).(map[string]any)
	require.True(t, ok)
	cells, ok := out["cells"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "42", cells["col1"])
	assert.Equal(t, "", cells["col2"])
}
