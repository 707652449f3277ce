package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/client"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

type WeatherService interface {
	Lookup(ctx context.Context, city string) (*dto.WeatherResponse, error)
}

type weatherServiceImpl struct {
	qweatherClient client.QWeatherClient
	logger         *zap.Logger
}

func NewWeatherService(qweatherClient client.QWeatherClient, logger *zap.Logger) WeatherService {
	return &weatherServiceImpl{
		qweatherClient: qweatherClient,
		logger:         logger,
	}
}

// Lookup resolves city to a location id, then fetches current conditions for it.
// A city the provider cannot resolve yields a 404 and no second call.
func (s *weatherServiceImpl) Lookup(ctx context.Context, city string) (*dto.WeatherResponse, error) {
	if !s.qweatherClient.Configured() {
		return nil, apperror.Config("服务端未配置和风天气 Key")
	}

	city = strings.TrimSpace(city)
	if city == "" {
		return nil, apperror.BadRequest("缺少城市参数")
	}

	lookup, err := s.qweatherClient.LookupCity(ctx, city)
	if err != nil {
		s.logger.Warn("qweather city lookup failed", zap.String("city", city), zap.Error(err))
		return nil, upstreamStatusError(err, "城市查询失败", "天气查询失败")
	}

	if lookup.Code != model.QWeatherSuccess || len(lookup.Location) == 0 || lookup.Location[0].ID == "" {
		return nil, apperror.NotFound("未找到该城市")
	}
	location := lookup.Location[0]

	now, err := s.qweatherClient.Now(ctx, location.ID)
	if err != nil {
		s.logger.Warn("qweather weather now failed", zap.String("location_id", location.ID), zap.Error(err))
		return nil, upstreamStatusError(err, "天气查询失败", "天气查询失败")
	}
	if now.Code != model.QWeatherSuccess || now.Now == nil {
		return nil, apperror.Upstream("天气数据为空", nil)
	}

	return &dto.WeatherResponse{
		LocationName: locationName(location),
		Temperature:  reading(now.Now.Temp),
		Humidity:     reading(now.Now.Humidity),
		WindSpeed:    reading(now.Now.WindSpeed),
		WeatherCode:  now.Now.Icon,
		WeatherText:  now.Now.Text,
	}, nil
}

// reading converts a provider measurement; blank or malformed values read as 0.
func reading(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func locationName(loc model.QWeatherLocation) string {
	parts := []string{loc.Name}
	if loc.Adm1 != "" {
		parts = append(parts, loc.Adm1)
	}
	if loc.Country != "" {
		parts = append(parts, loc.Country)
	}
	return strings.Join(parts, " · ")
}

// upstreamStatusError maps a non-2xx answer to "<prefix>: <status>" and any other failure
// (transport, decoding) to the generic fallback; transport errors can carry the API key in the URL.
func upstreamStatusError(err error, prefix, fallback string) error {
	var upstreamErr *client.UpstreamError
	if errors.As(err, &upstreamErr) {
		return apperror.Upstream(fmt.Sprintf("%s: %d", prefix, upstreamErr.StatusCode), err)
	}
	return apperror.Upstream(fallback, err)
}
