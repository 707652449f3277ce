package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"silkrhyme/internal/config"
	"silkrhyme/internal/model"
	"strings"
)

type GetGeoAPIClient interface {
	Configured() bool
	ListCurrencies(ctx context.Context) (*model.CurrencyListResult, error)
	Convert(ctx context.Context, from, to, amount string) (*model.ConvertResult, error)
}

type getGeoAPIClientImpl struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewGetGeoAPIClient(cfg *config.GetGeoAPI) GetGeoAPIClient {
	return &getGeoAPIClientImpl{
		httpClient: newHTTPClient(defaultTimeout),
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

func (c *getGeoAPIClientImpl) Configured() bool {
	return c.apiKey != ""
}

func (c *getGeoAPIClientImpl) ListCurrencies(ctx context.Context) (*model.CurrencyListResult, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("format", "json")

	var result model.CurrencyListResult
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/v2/currency/list?"+q.Encode(), &result); err != nil {
		return nil, fmt.Errorf("getgeoapi currency list: %w", err)
	}
	return &result, nil
}

func (c *getGeoAPIClientImpl) Convert(ctx context.Context, from, to, amount string) (*model.ConvertResult, error) {
	q := url.Values{}
	q.Set("api_key", c.apiKey)
	q.Set("from", from)
	q.Set("to", to)
	q.Set("amount", amount)
	q.Set("format", "json")

	var result model.ConvertResult
	if err := getJSON(ctx, c.httpClient, c.baseURL+"/v2/currency/convert?"+q.Encode(), &result); err != nil {
		return nil, fmt.Errorf("getgeoapi currency convert: %w", err)
	}
	return &result, nil
}
