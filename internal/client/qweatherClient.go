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

type QWeatherClient interface {
	// Configured reports whether an API key is available.
	Configured() bool
	LookupCity(ctx context.Context, city string) (*model.QWeatherLookupResult, error)
	Now(ctx context.Context, locationID string) (*model.QWeatherNowResult, error)
}

type qweatherClientImpl struct {
	httpClient *http.Client
	geoURL     string
	apiURL     string
	apiKey     string
}

func NewQWeatherClient(cfg *config.QWeather) QWeatherClient {
	return &qweatherClientImpl{
		httpClient: newHTTPClient(defaultTimeout),
		geoURL:     strings.TrimRight(cfg.GeoURL, "/"),
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		apiKey:     cfg.APIKey,
	}
}

func (c *qweatherClientImpl) Configured() bool {
	return c.apiKey != ""
}

func (c *qweatherClientImpl) LookupCity(ctx context.Context, city string) (*model.QWeatherLookupResult, error) {
	q := url.Values{}
	q.Set("location", city)
	q.Set("number", "1")
	q.Set("lang", "zh")
	q.Set("key", c.apiKey)

	var result model.QWeatherLookupResult
	if err := getJSON(ctx, c.httpClient, c.geoURL+"/v2/city/lookup?"+q.Encode(), &result); err != nil {
		return nil, fmt.Errorf("qweather city lookup: %w", err)
	}
	return &result, nil
}

func (c *qweatherClientImpl) Now(ctx context.Context, locationID string) (*model.QWeatherNowResult, error) {
	q := url.Values{}
	q.Set("location", locationID)
	q.Set("lang", "zh")
	q.Set("key", c.apiKey)

	var result model.QWeatherNowResult
	if err := getJSON(ctx, c.httpClient, c.apiURL+"/v7/weather/now?"+q.Encode(), &result); err != nil {
		return nil, fmt.Errorf("qweather weather now: %w", err)
	}
	return &result, nil
}
