// Copyright (c) 2026 BookHaven. All rights reserved.

/*
Package publicsearch queries the public Google Books volumes API.

The catalog merges these results into text searches so readers can discover
titles BookHaven does not host locally. Results are transient: they are
tagged as public, never persisted, and a failing upstream simply yields an
empty result set at the caller's discretion.
*/
package publicsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bookhaven/bookhaven/internal/platform/constants"
)

// maxResults caps how many public volumes a single search returns.
const maxResults = 10

// Result is one public volume matched by the upstream API.
type Result struct {
	Title       string   `json:"title"`
	Authors     []string `json:"authors"`
	Description string   `json:"description"`
	Language    string   `json:"language"`
	CoverURL    string   `json:"cover_url"`
	InfoURL     string   `json:"info_url"`
}

// volumesResponse mirrors only the fields we need from the upstream payload.
type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title       string   `json:"title"`
			Authors     []string `json:"authors"`
			Description string   `json:"description"`
			Language    string   `json:"language"`
			InfoLink    string   `json:"infoLink"`
			ImageLinks  struct {
				Thumbnail      string `json:"thumbnail"`
				SmallThumbnail string `json:"smallThumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

// Client calls the keyless Google Books volumes endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient constructs a [Client] for the given volumes endpoint.
// An empty baseURL produces a disabled client whose Search returns nothing.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: constants.PublicSearchTimeout,
		},
	}
}

// Enabled reports whether the client has an upstream configured.
func (client *Client) Enabled() bool {
	return client.baseURL != ""
}

/*
Search queries the public volumes API for books matching the text.

Parameters:
  - ctx: context.Context (carries the request deadline)
  - text: string (free-text query; matched against titles upstream)

Returns:
  - []Result: Up to maxResults public volumes, possibly empty
  - error: Network, status, or decoding failures
*/
func (client *Client) Search(ctx context.Context, text string) ([]Result, error) {
	if !client.Enabled() || text == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("q", "intitle:"+text)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, client.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("publicsearch_request_build_failed: %w", err)
	}

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("publicsearch_request_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("publicsearch_bad_status: %d", response.StatusCode)
	}

	var payload volumesResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("publicsearch_decode_failed: %w", err)
	}

	results := make([]Result, 0, len(payload.Items))
	for _, item := range payload.Items {
		info := item.VolumeInfo
		if info.Title == "" {
			continue
		}

		cover := info.ImageLinks.Thumbnail
		if cover == "" {
			cover = info.ImageLinks.SmallThumbnail
		}

		results = append(results, Result{
			Title:       info.Title,
			Authors:     info.Authors,
			Description: info.Description,
			Language:    info.Language,
			CoverURL:    cover,
			InfoURL:     info.InfoLink,
		})
	}

	return results, nil
}
