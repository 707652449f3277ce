package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// LocaleText is a localized string keyed by locale, e.g. {"zh-CN": "刺绣", "en-US": "Embroidery"}.
type LocaleText map[string]string

// Text resolves the display text: zh-CN, then zh, then en-US, then the first non-empty value by key order.
func (t LocaleText) Text() string {
	for _, locale := range []string{"zh-CN", "zh", "en-US"} {
		if v := t[locale]; v != "" {
			return v
		}
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t[k] != "" {
			return t[k]
		}
	}
	return ""
}

const FulfillmentManual = "manual"

// Pagination mirrors the envelope of paginated commerce API responses.
type Pagination struct {
	Page      int `json:"page"`
	PageSize  int `json:"page_size"`
	Total     int `json:"total"`
	TotalPage int `json:"total_page"`
}

type Category struct {
	ID   int64      `json:"id"`
	Slug string     `json:"slug"`
	Name LocaleText `json:"name"`
}

type FormField struct {
	Key         string     `json:"key"`
	Type        string     `json:"type,omitempty"`
	Required    bool       `json:"required,omitempty"`
	Label       LocaleText `json:"label,omitempty"`
	Placeholder LocaleText `json:"placeholder,omitempty"`
}

// DisplayLabel falls back to the field key when no label is configured.
func (f FormField) DisplayLabel() string {
	if label := f.Label.Text(); label != "" {
		return label
	}
	return f.Key
}

type ManualFormSchema struct {
	Fields []FormField `json:"fields,omitempty"`
}

type Product struct {
	ID                   int64             `json:"id"`
	CategoryID           int64             `json:"category_id"`
	Slug                 string            `json:"slug"`
	Title                LocaleText        `json:"title"`
	Description          LocaleText        `json:"description,omitempty"`
	PriceAmount          string            `json:"price_amount"`
	PriceCurrency        string            `json:"price_currency"`
	PromotionPriceAmount string            `json:"promotion_price_amount,omitempty"`
	Images               []string          `json:"images,omitempty"`
	Tags                 []string          `json:"tags,omitempty"`
	FulfillmentType      string            `json:"fulfillment_type,omitempty"`
	ManualFormSchema     *ManualFormSchema `json:"manual_form_schema,omitempty"`
	IsSoldOut            bool              `json:"is_sold_out,omitempty"`
}

func (p *Product) ManualFields() []FormField {
	if p == nil || p.ManualFormSchema == nil {
		return nil
	}
	return p.ManualFormSchema.Fields
}

// Fulfillment defaults to manual when the upstream leaves it blank.
func (p *Product) Fulfillment() string {
	if p.FulfillmentType == "" {
		return FulfillmentManual
	}
	return p.FulfillmentType
}

// EffectivePrice is the promotional price when present, else the list price. Unparseable amounts read as zero.
func (p *Product) EffectivePrice() decimal.Decimal {
	if promo, err := decimal.NewFromString(p.PromotionPriceAmount); err == nil {
		return promo
	}
	price, err := decimal.NewFromString(p.PriceAmount)
	if err != nil {
		return decimal.Zero
	}
	return price
}

type PaymentChannel struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	ChannelType     string `json:"channel_type"`
	InteractionMode string `json:"interaction_mode"`
}

type SiteConfig struct {
	PaymentChannels []PaymentChannel `json:"payment_channels,omitempty"`
}

// HasChannel reports whether id is one of the configured payment channels.
func HasChannel(channels []PaymentChannel, id int64) bool {
	for _, ch := range channels {
		if ch.ID == id {
			return true
		}
	}
	return false
}

type ProductQuery struct {
	CategoryID int64 // zero means all categories
	Search     string
	Page       int
	PageSize   int
}

type OrderItemRequest struct {
	ProductID       int64  `json:"product_id"`
	Quantity        int    `json:"quantity"`
	FulfillmentType string `json:"fulfillment_type"`
}

type GuestOrderRequest struct {
	Email          string                       `json:"email"`
	OrderPassword  string                       `json:"order_password"`
	Items          []OrderItemRequest           `json:"items"`
	ManualFormData map[string]map[string]string `json:"manual_form_data,omitempty"`
}

type Order struct {
	ID          int64  `json:"id"`
	TotalAmount string `json:"total_amount"`
}

type GuestPaymentRequest struct {
	Email         string `json:"email"`
	OrderPassword string `json:"order_password"`
	OrderID       int64  `json:"order_id"`
	ChannelID     int64  `json:"channel_id"`
}

type PaymentLaunch struct {
	PaymentID       int64  `json:"payment_id"`
	InteractionMode string `json:"interaction_mode"`
	PayURL          string `json:"pay_url,omitempty"`
	QRCode          string `json:"qr_code,omitempty"`
}
