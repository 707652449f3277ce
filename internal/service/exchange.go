package service

import (
	"context"
	"math"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/client"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type ExchangeService interface {
	ListCurrencies(ctx context.Context) (*dto.CurrencyListResponse, error)
	Convert(ctx context.Context, from, to, amount string) (*dto.ConvertResponse, error)
}

type exchangeServiceImpl struct {
	getGeoAPIClient client.GetGeoAPIClient
	logger          *zap.Logger
}

func NewExchangeService(getGeoAPIClient client.GetGeoAPIClient, logger *zap.Logger) ExchangeService {
	return &exchangeServiceImpl{
		getGeoAPIClient: getGeoAPIClient,
		logger:          logger,
	}
}

const errExchangeKeyMissing = "服务端未配置汇率 API Key"

func (s *exchangeServiceImpl) ListCurrencies(ctx context.Context) (*dto.CurrencyListResponse, error) {
	if !s.getGeoAPIClient.Configured() {
		return nil, apperror.Config(errExchangeKeyMissing)
	}

	result, err := s.getGeoAPIClient.ListCurrencies(ctx)
	if err != nil {
		s.logger.Warn("getgeoapi currency list failed", zap.Error(err))
		return nil, upstreamStatusError(err, "币种列表请求失败", "获取币种列表失败")
	}
	if result.Status != model.GetGeoAPISuccess || result.Currencies == nil {
		return nil, apperror.Upstream(result.Error.MessageOr("获取币种列表失败"), nil)
	}

	currencies := make([]dto.Currency, 0, len(result.Currencies))
	for code, name := range result.Currencies {
		currencies = append(currencies, dto.Currency{Code: code, Name: name})
	}
	sort.Slice(currencies, func(i, j int) bool {
		return currencies[i].Code < currencies[j].Code
	})

	return &dto.CurrencyListResponse{Currencies: currencies}, nil
}

// Convert validates the query before any upstream call: currency codes are trimmed and
// upper-cased, amount must be a finite number greater than zero.
func (s *exchangeServiceImpl) Convert(ctx context.Context, from, to, amount string) (*dto.ConvertResponse, error) {
	if !s.getGeoAPIClient.Configured() {
		return nil, apperror.Config(errExchangeKeyMissing)
	}

	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	amount = strings.TrimSpace(amount)
	if from == "" || to == "" || amount == "" {
		return nil, apperror.BadRequest("缺少汇率查询参数")
	}

	value, err := strconv.ParseFloat(amount, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return nil, apperror.BadRequest("金额参数无效")
	}
	normalized := strconv.FormatFloat(value, 'f', -1, 64)

	result, err := s.getGeoAPIClient.Convert(ctx, from, to, normalized)
	if err != nil {
		s.logger.Warn("getgeoapi convert failed", zap.String("from", from), zap.String("to", to), zap.Error(err))
		return nil, upstreamStatusError(err, "汇率接口请求失败", "汇率换算失败")
	}
	if result.Status != model.GetGeoAPISuccess {
		return nil, apperror.Upstream(result.Error.MessageOr("汇率查询失败"), nil)
	}

	converted, ok := convertedAmount(result.Rates[to], normalized)
	if !ok || math.IsInf(converted, 0) || math.IsNaN(converted) {
		return nil, apperror.Upstream("未获取到汇率结果", nil)
	}

	return &dto.ConvertResponse{
		Result:      converted,
		UpdatedDate: result.UpdatedDate,
	}, nil
}

// convertedAmount prefers the provider's rate_for_amount and falls back to rate × amount.
func convertedAmount(rate model.ConvertRate, amount string) (float64, bool) {
	if rate.RateForAmount != "" {
		d, err := decimal.NewFromString(strings.TrimSpace(rate.RateForAmount))
		if err != nil {
			return 0, false
		}
		return d.InexactFloat64(), true
	}

	if rate.Rate == "" {
		return 0, false
	}
	r, err := decimal.NewFromString(strings.TrimSpace(rate.Rate))
	if err != nil {
		return 0, false
	}
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, false
	}
	return r.Mul(a).InexactFloat64(), true
}
