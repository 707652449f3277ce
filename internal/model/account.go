package model

import "time"

type UserProfile struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname,omitempty"`
	Locale   string `json:"locale,omitempty"`
}

type AuthResult struct {
	User  UserProfile `json:"user"`
	Token string      `json:"token"`
}

type AccountOrderItem struct {
	ID              int64      `json:"id"`
	Title           LocaleText `json:"title,omitempty"`
	Quantity        int        `json:"quantity"`
	TotalPrice      string     `json:"total_price"`
	FulfillmentType string     `json:"fulfillment_type,omitempty"`
}

type AccountOrder struct {
	ID          int64              `json:"id"`
	OrderNo     string             `json:"order_no"`
	Status      string             `json:"status"`
	Currency    string             `json:"currency"`
	TotalAmount string             `json:"total_amount"`
	CreatedAt   string             `json:"created_at"`
	Items       []AccountOrderItem `json:"items"`
}

var orderStatusLabels = map[string]string{
	"pending_payment":     "待支付",
	"paid":                "已支付",
	"fulfilling":          "备货中",
	"partially_delivered": "部分交付",
	"delivered":           "已交付",
	"completed":           "已完成",
	"canceled":            "已取消",
}

// StatusLabel returns the display label of an order status, or the raw status when unknown.
func StatusLabel(status string) string {
	if label, ok := orderStatusLabels[status]; ok {
		return label
	}
	return status
}

// AccountSession persists the upstream bearer token behind an opaque session id.
type AccountSession struct {
	ID        string `gorm:"primaryKey;size:64;not null"`
	Token     string `gorm:"type:text;not null"`
	Email     string `gorm:"size:255;index"`
	ExpiresAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
