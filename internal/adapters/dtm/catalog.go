package dtm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/nitwit45/automation-tm/internal/domain"
)

// catalogEntrySchema tolerates the remote's loose typing: ids arrive as
// strings or numbers depending on the endpoint.
type catalogEntrySchema struct {
	ID   flexString `json:"id"`
	Name flexString `json:"name"`
}

// flexString decodes a JSON string or number into a string.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// TaskTypes fetches the active task types. Like every catalog read it returns
// an empty list on any failure; "no data" and "request failed" are not
// distinguishable to the caller.
func (c *Client) TaskTypes(ctx context.Context) []domain.CatalogEntry {
	entries, ok := c.fetchCatalog(ctx, taskTypeListPath, url.Values{})
	if ok {
		c.catalog.TaskTypes = entries
	}
	return entries
}

func (c *Client) Projects(ctx context.Context) []domain.CatalogEntry {
	entries, ok := c.fetchCatalog(ctx, productListPath, url.Values{})
	if ok {
		c.catalog.Projects = entries
	}
	return entries
}

func (c *Client) Categories(ctx context.Context, projectID string) []domain.CatalogEntry {
	query := url.Values{}
	query.Set("project", projectID)

	entries, ok := c.fetchCatalog(ctx, categoryListPath, query)
	if ok {
		c.catalog.Categories = entries
	}
	return entries
}

func (c *Client) Activities(ctx context.Context, projectID, categoryID string) []domain.CatalogEntry {
	query := url.Values{}
	query.Set("project", projectID)
	query.Set("categoryId", categoryID)

	entries, ok := c.fetchCatalog(ctx, activityListPath, query)
	if ok {
		c.catalog.Activities = entries
	}
	return entries
}

func (c *Client) fetchCatalog(ctx context.Context, path string, query url.Values) ([]domain.CatalogEntry, bool) {
	query.Set("status", "1")
	query.Set(fieldToken, c.token)

	resp, err := c.get(ctx, path, query)
	if err != nil {
		return []domain.CatalogEntry{}, false
	}
	body, err := readBody(resp)
	if err != nil || resp.StatusCode != http.StatusOK {
		return []domain.CatalogEntry{}, false
	}

	var raw []catalogEntrySchema
	if err := decodeRelay(body, &raw); err != nil {
		return []domain.CatalogEntry{}, false
	}

	entries := make([]domain.CatalogEntry, 0, len(raw))
	for _, entry := range raw {
		// Partial records are dropped rather than propagated.
		if entry.ID == "" || entry.Name == "" {
			continue
		}
		entries = append(entries, domain.CatalogEntry{ID: string(entry.ID), Name: string(entry.Name)})
	}

	return entries, true
}
