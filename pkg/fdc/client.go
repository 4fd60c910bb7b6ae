// Package fdc provides a client for the USDA FoodData Central API.
package fdc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/platewise/nutrition-engine/internal/resilience"
)

const (
	defaultBaseURL  = "https://api.nal.usda.gov/fdc/v1"
	defaultPageSize = 25
)

// ErrMissingAPIKey is returned when a request is attempted without credentials.
var ErrMissingAPIKey = eris.New("fdc: missing API key")

// Client searches the food-composition database and fetches nutrient detail.
type Client interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
	FoodDetail(ctx context.Context, fdcID int) (*FoodDetail, error)
}

// Candidate is a scored search hit from /foods/search.
type Candidate struct {
	FDCID       int     `json:"fdcId"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	DataType    string  `json:"dataType"`
}

// FoodDetail is the full nutrient record for one food.
type FoodDetail struct {
	FDCID       int        `json:"fdcId"`
	Description string     `json:"description"`
	Nutrients   []Nutrient `json:"foodNutrients"`
}

// Nutrient is a single per-100g nutrient value. The database tags each
// nutrient with both a numeric ID and a legacy nutrient number; different
// dataset families populate them differently, so both are exposed.
type Nutrient struct {
	ID     int     `json:"id"`
	Number string  `json:"number"`
	Name   string  `json:"name"`
	Unit   string  `json:"unit"`
	Amount float64 `json:"amount"`
}

type searchResponse struct {
	Foods []Candidate `json:"foods"`
}

type foodResponse struct {
	FDCID         int    `json:"fdcId"`
	Description   string `json:"description"`
	FoodNutrients []struct {
		Nutrient struct {
			ID       int    `json:"id"`
			Number   string `json:"number"`
			Name     string `json:"name"`
			UnitName string `json:"unitName"`
		} `json:"nutrient"`
		Amount float64 `json:"amount"`
	} `json:"foodNutrients"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithPageSize overrides the number of search candidates requested.
func WithPageSize(n int) Option {
	return func(c *httpClient) {
		c.pageSize = n
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets the client-side request rate (USDA enforces hourly
// quotas per key). Zero disables limiting.
func WithRateLimit(perSec float64) Option {
	return func(c *httpClient) {
		if perSec > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSec), 1)
		}
	}
}

// WithRetry overrides the retry configuration.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(c *httpClient) {
		c.retry = cfg
	}
}

type httpClient struct {
	apiKey   string
	baseURL  string
	pageSize int
	http     *http.Client
	limiter  *rate.Limiter
	retry    resilience.RetryConfig
}

// NewClient creates a FoodData Central API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:   apiKey,
		baseURL:  defaultBaseURL,
		pageSize: defaultPageSize,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		retry: resilience.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Search(ctx context.Context, query string) ([]Candidate, error) {
	q := url.Values{}
	q.Set("query", query)
	q.Set("pageSize", fmt.Sprintf("%d", c.pageSize))
	q.Set("dataType", "Foundation,SR Legacy,Survey (FNDDS)")

	var result searchResponse
	if err := c.getJSON(ctx, "/foods/search", q, &result); err != nil {
		return nil, eris.Wrapf(err, "fdc: search %q", query)
	}
	return result.Foods, nil
}

func (c *httpClient) FoodDetail(ctx context.Context, fdcID int) (*FoodDetail, error) {
	var result foodResponse
	if err := c.getJSON(ctx, fmt.Sprintf("/food/%d", fdcID), url.Values{}, &result); err != nil {
		return nil, eris.Wrapf(err, "fdc: food detail %d", fdcID)
	}

	detail := &FoodDetail{
		FDCID:       result.FDCID,
		Description: result.Description,
		Nutrients:   make([]Nutrient, 0, len(result.FoodNutrients)),
	}
	for _, fn := range result.FoodNutrients {
		detail.Nutrients = append(detail.Nutrients, Nutrient{
			ID:     fn.Nutrient.ID,
			Number: fn.Nutrient.Number,
			Name:   fn.Nutrient.Name,
			Unit:   fn.Nutrient.UnitName,
			Amount: fn.Amount,
		})
	}
	return detail, nil
}

func (c *httpClient) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	if c.apiKey == "" {
		return ErrMissingAPIKey
	}
	q.Set("api_key", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	body, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.get(ctx, endpoint)
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "unmarshal response")
	}
	return nil
}

func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "rate limit wait")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "send request")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read response")
	}

	if resp.StatusCode != http.StatusOK {
		err := eris.Errorf("unexpected status %d: %s", resp.StatusCode, truncate(body, 200))
		if resilience.IsTransientHTTPStatus(resp.StatusCode) {
			return nil, resilience.NewTransientError(err, resp.StatusCode)
		}
		return nil, err
	}

	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
