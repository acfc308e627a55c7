package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"

	"github.com/denprystai/mediamonitor/internal/domain"
)

// Client searches articles through the newsapi.org "everything" endpoint.
type Client struct {
	http    *resty.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Client for the given base URL and API key.
// The timeout bounds every Search call in addition to its context.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	c := resty.New()
	c.SetTimeout(timeout)
	return &Client{http: c, baseURL: baseURL, apiKey: apiKey}
}

type searchResponse struct {
	Status   string          `json:"status"`
	Code     string          `json:"code"`
	Message  string          `json:"message"`
	Articles []searchArticle `json:"articles"`
}

type searchArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
}

// Search returns English-language articles matching the keyword.
func (c *Client) Search(ctx context.Context, keyword string) ([]domain.Article, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        keyword,
			"language": "en",
			"apiKey":   c.apiKey,
		}).
		Get(c.baseURL + "/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("newsapi decode: %w", err)
	}
	if resp.StatusCode() != 200 || body.Status != "ok" {
		return nil, fmt.Errorf("newsapi status %d: %s %s", resp.StatusCode(), body.Code, body.Message)
	}

	return lo.Map(body.Articles, func(a searchArticle, _ int) domain.Article {
		return domain.Article{
			Title:    a.Title,
			Summary:  a.Description,
			URL:      a.URL,
			ImageURL: a.URLToImage,
		}
	}), nil
}
