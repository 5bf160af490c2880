package integrations

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/spinshelf/backend/internal/models"
)

const discogsBaseURL = "https://api.discogs.com"

// DiscogsClient searches the Discogs catalog and turns releases into
// importable record payloads.
type DiscogsClient struct {
	http  *resty.Client
	token string
}

// NewDiscogsClient creates a Discogs client. An empty token still works
// against the public endpoints but with tighter rate limits.
func NewDiscogsClient(token string) *DiscogsClient {
	client := resty.New().
		SetBaseURL(discogsBaseURL).
		SetHeader("User-Agent", "SpinShelf/1.0")
	return &DiscogsClient{http: client, token: token}
}

// DiscogsSearchResult is one row of a catalog search.
type DiscogsSearchResult struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	Year     string `json:"year"`
	Label    string `json:"label,omitempty"`
	Format   string `json:"format,omitempty"`
	CoverURL string `json:"cover_image,omitempty"`
}

type discogsSearchResponse struct {
	Results []struct {
		ID         int      `json:"id"`
		Title      string   `json:"title"`
		Year       string   `json:"year"`
		Label      []string `json:"label"`
		Format     []string `json:"format"`
		CoverImage string   `json:"cover_image"`
	} `json:"results"`
}

type discogsRelease struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Year    int    `json:"year"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Genres []string `json:"genres"`
	Labels []struct {
		Name  string `json:"name"`
		Catno string `json:"catno"`
	} `json:"labels"`
	Formats []struct {
		Name string `json:"name"`
	} `json:"formats"`
	Images []struct {
		URI string `json:"uri"`
	} `json:"images"`
}

// Search queries the Discogs release database.
func (c *DiscogsClient) Search(ctx context.Context, query string) ([]DiscogsSearchResult, error) {
	var body discogsSearchResponse

	req := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", query).
		SetQueryParam("type", "release").
		SetResult(&body)
	if c.token != "" {
		req.SetQueryParam("token", c.token)
	}

	resp, err := req.Get("/database/search")
	if err != nil {
		return nil, fmt.Errorf("discogs search: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("discogs search: status %d", resp.StatusCode())
	}

	results := make([]DiscogsSearchResult, 0, len(body.Results))
	for _, r := range body.Results {
		item := DiscogsSearchResult{
			ID:       r.ID,
			Title:    r.Title,
			Year:     r.Year,
			CoverURL: r.CoverImage,
		}
		if len(r.Label) > 0 {
			item.Label = r.Label[0]
		}
		if len(r.Format) > 0 {
			item.Format = r.Format[0]
		}
		results = append(results, item)
	}
	return results, nil
}

// GetRelease fetches one release and maps it onto a record create payload.
func (c *DiscogsClient) GetRelease(ctx context.Context, releaseID int) (*models.CreateRecordRequest, error) {
	var release discogsRelease

	req := c.http.R().
		SetContext(ctx).
		SetResult(&release)
	if c.token != "" {
		req.SetQueryParam("token", c.token)
	}

	resp, err := req.Get("/releases/" + strconv.Itoa(releaseID))
	if err != nil {
		return nil, fmt.Errorf("discogs release %d: %w", releaseID, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 404 {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("discogs release %d: status %d", releaseID, resp.StatusCode())
	}

	payload := &models.CreateRecordRequest{
		Title: release.Title,
		Year:  release.Year,
	}
	if len(release.Artists) > 0 {
		payload.Artist = release.Artists[0].Name
	}
	if len(release.Genres) > 0 {
		payload.Genre = release.Genres[0]
	}
	if len(release.Labels) > 0 {
		payload.Label = release.Labels[0].Name
		payload.CatalogNumber = release.Labels[0].Catno
	}
	if len(release.Formats) > 0 {
		payload.Format = normalizeFormat(release.Formats[0].Name)
	}
	if len(release.Images) > 0 {
		payload.ImageURL = release.Images[0].URI
	}
	return payload, nil
}

// Discogs reports media as "Vinyl"; collection formats are pressing sizes.
func normalizeFormat(format string) string {
	switch format {
	case "LP", "EP", `7"`, `10"`, `12"`:
		return format
	default:
		return "LP"
	}
}
