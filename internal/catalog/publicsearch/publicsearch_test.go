// Copyright (c) 2026 BookHaven. All rights reserved.

package publicsearch_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookhaven/internal/catalog/publicsearch"
)

/*
TestClient_Search verifies decoding of a volumes payload into results.
*/
func TestClient_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Contains(t, request.URL.Query().Get("q"), "intitle:go")

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{
			"items": [
				{
					"volumeInfo": {
						"title": "The Go Programming Language",
						"authors": ["Alan Donovan", "Brian Kernighan"],
						"description": "The authoritative resource.",
						"language": "en",
						"infoLink": "https://books.example/go",
						"imageLinks": {"thumbnail": "https://books.example/go.jpg"}
					}
				},
				{
					"volumeInfo": {"title": ""}
				}
			]
		}`))
	}))
	defer server.Close()

	client := publicsearch.NewClient(server.URL)

	results, err := client.Search(context.Background(), "go")
	require.NoError(t, err)

	// Untitled volumes are dropped
	require.Len(t, results, 1)
	assert.Equal(t, "The Go Programming Language", results[0].Title)
	assert.Equal(t, []string{"Alan Donovan", "Brian Kernighan"}, results[0].Authors)
	assert.Equal(t, "https://books.example/go.jpg", results[0].CoverURL)
}

/*
TestClient_Search_UpstreamError surfaces non-200 responses as errors.
*/
func TestClient_Search_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := publicsearch.NewClient(server.URL)

	_, err := client.Search(context.Background(), "go")
	assert.Error(t, err)
}

/*
TestClient_Search_Disabled returns nothing when no upstream is configured.
*/
func TestClient_Search_Disabled(t *testing.T) {
	client := publicsearch.NewClient("")

	assert.False(t, client.Enabled())

	results, err := client.Search(context.Background(), "go")
	assert.NoError(t, err)
	assert.Nil(t, results)
}
