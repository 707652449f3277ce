package model

// GetGeoAPISuccess is the provider's "status" value for a successful call.
const GetGeoAPISuccess = "success"

type GetGeoAPIError struct {
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type CurrencyListResult struct {
	Status     string            `json:"status,omitempty"`
	Currencies map[string]string `json:"currencies,omitempty"`
	Error      *GetGeoAPIError   `json:"error,omitempty"`
}

type ConvertRate struct {
	CurrencyName  string `json:"currency_name,omitempty"`
	Rate          string `json:"rate,omitempty"`
	RateForAmount string `json:"rate_for_amount,omitempty"`
}

type ConvertResult struct {
	Status      string                 `json:"status,omitempty"`
	UpdatedDate string                 `json:"updated_date,omitempty"`
	Rates       map[string]ConvertRate `json:"rates,omitempty"`
	Error       *GetGeoAPIError        `json:"error,omitempty"`
}

func (e *GetGeoAPIError) MessageOr(fallback string) string {
	if e == nil || e.Message == "" {
		return fallback
	}
	return e.Message
}
