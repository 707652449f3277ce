package dto

import (
	"bytes"
	"encoding/json"
	"silkrhyme/internal/model"
)

type MessageResponse struct {
	Message string `json:"message"`
}

// -------- proxies --------

type WeatherResponse struct {
	LocationName string  `json:"locationName"`
	Temperature  float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	WindSpeed    float64 `json:"windSpeed"`
	WeatherCode  string  `json:"weatherCode"`
	WeatherText  string  `json:"weatherText"`
}

type Currency struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CurrencyListResponse struct {
	Currencies []Currency `json:"currencies"`
}

type ConvertResponse struct {
	Result      float64 `json:"result"`
	UpdatedDate string  `json:"updatedDate"`
}

// -------- shop --------

type ProductListResponse struct {
	Products   []model.Product   `json:"products"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

type CheckoutRequest struct {
	ProductSlug    string            `json:"product_slug" validate:"required"`
	Quantity       Quantity          `json:"quantity"`
	Email          string            `json:"email"`
	OrderPassword  string            `json:"order_password"`
	ChannelID      int64             `json:"channel_id"`
	ManualFormData map[string]string `json:"manual_form_data,omitempty"`
}

// Quantity is the raw quantity text from a form. Clients send either a JSON number or a string;
// anything else decodes as blank. Coercion to a positive count happens at checkout.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
	case len(data) > 0 && (data[0] == '-' || (data[0] >= '0' && data[0] <= '9')):
		*q = Quantity(data)
	default:
		*q = ""
	}
	return nil
}

type CheckoutResponse struct {
	Order   *model.Order         `json:"order,omitempty"`
	Payment *model.PaymentLaunch `json:"payment,omitempty"`
	Message string               `json:"message,omitempty"`
}

// -------- account --------

type VerifyCodeRequest struct {
	Email string `json:"email"`
}

type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Code      string `json:"code" validate:"required"`
	Agreement bool   `json:"agreement"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AccountResponse struct {
	User    *model.UserProfile `json:"user,omitempty"`
	Message string             `json:"message,omitempty"`
}

type AccountOrderView struct {
	model.AccountOrder
	StatusLabel string `json:"status_label"`
}

// -------- heritage / itinerary --------

type HeritageListResponse struct {
	Items []model.Heritage `json:"items"`
	Total int              `json:"total"`
}

type ItineraryRequest struct {
	Destination string   `json:"destination" validate:"required"`
	Preferences []string `json:"preferences"`
	TravelStyle string   `json:"travel_style"`
	Companion   string   `json:"companion"`
	Budget      int      `json:"budget" validate:"gte=0"`
	From        string   `json:"from,omitempty"`
	To          string   `json:"to,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}
