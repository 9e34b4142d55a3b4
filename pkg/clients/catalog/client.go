package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/stockledger/internal/config"
	"github.com/mamadbah2/stockledger/internal/domain/models"
)

// APIClient is a resty-backed product catalog lookup.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a catalog client from the configured base URL and token.
func NewClient(cfg config.CatalogConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(10 * time.Second)

	if cfg.APIToken != "" {
		restyClient.SetAuthToken(cfg.APIToken)
	}

	return &APIClient{httpClient: restyClient}
}

// apiError is the error body returned by the catalog service.
type apiError struct {
	Error string `json:"error"`
}

// GetProduct fetches one product. Unknown ids yield models.ErrProductNotFound.
func (c *APIClient) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	result := new(models.Product)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(result).
		SetError(apiErr).
		Get("/products/" + url.PathEscape(id))
	if err != nil {
		return nil, fmt.Errorf("get catalog product %s: %w", id, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", models.ErrProductNotFound, id)
	case resp.StatusCode() >= http.StatusBadRequest:
		return nil, fmt.Errorf("catalog api error: code=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}

	if result.ID == "" {
		result.ID = id
	}
	return result, nil
}
