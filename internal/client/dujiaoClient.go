package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"silkrhyme/internal/config"
	"silkrhyme/internal/model"
	"strconv"
	"strings"
)

// DujiaoClient talks to the upstream commerce API (catalog, guest orders and payments, accounts).
type DujiaoClient interface {
	Configured() bool

	Categories(ctx context.Context) ([]model.Category, error)
	SiteConfig(ctx context.Context) (*model.SiteConfig, error)
	Products(ctx context.Context, query model.ProductQuery) ([]model.Product, *model.Pagination, error)
	Product(ctx context.Context, slug string) (*model.Product, error)
	CreateGuestOrder(ctx context.Context, req *model.GuestOrderRequest) (*model.Order, error)
	CreateGuestPayment(ctx context.Context, req *model.GuestPaymentRequest) (*model.PaymentLaunch, error)

	SendVerifyCode(ctx context.Context, email, purpose string) error
	Register(ctx context.Context, email, password, code string) (*model.AuthResult, error)
	Login(ctx context.Context, email, password string) (*model.AuthResult, error)
	Me(ctx context.Context, token string) (*model.UserProfile, error)
	Orders(ctx context.Context, token string, page, pageSize int) ([]model.AccountOrder, error)
	OrderByNo(ctx context.Context, token, orderNo string) (*model.AccountOrder, error)
}

type dujiaoClientImpl struct {
	httpClient *http.Client
	baseApiURL string
}

type dujiaoEnvelope struct {
	StatusCode int               `json:"status_code"`
	Msg        string            `json:"msg"`
	Data       json.RawMessage   `json:"data"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

func NewDujiaoClient(cfg *config.Dujiao) DujiaoClient {
	return &dujiaoClientImpl{
		httpClient: newHTTPClient(cfg.Timeout),
		baseApiURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (c *dujiaoClientImpl) Configured() bool {
	return c.baseApiURL != ""
}

func (c *dujiaoClientImpl) Categories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if _, err := c.do(ctx, http.MethodGet, "/public/categories", nil, "", &categories); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (c *dujiaoClientImpl) SiteConfig(ctx context.Context) (*model.SiteConfig, error) {
	var cfg model.SiteConfig
	if _, err := c.do(ctx, http.MethodGet, "/public/config", nil, "", &cfg); err != nil {
		return nil, fmt.Errorf("get site config: %w", err)
	}
	return &cfg, nil
}

func (c *dujiaoClientImpl) Products(ctx context.Context, query model.ProductQuery) ([]model.Product, *model.Pagination, error) {
	page, pageSize := query.Page, query.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	if query.CategoryID != 0 {
		q.Set("category_id", strconv.FormatInt(query.CategoryID, 10))
	}
	if search := strings.TrimSpace(query.Search); search != "" {
		q.Set("search", search)
	}

	var products []model.Product
	pagination, err := c.do(ctx, http.MethodGet, "/public/products?"+q.Encode(), nil, "", &products)
	if err != nil {
		return nil, nil, fmt.Errorf("list products: %w", err)
	}
	return products, pagination, nil
}

func (c *dujiaoClientImpl) Product(ctx context.Context, slug string) (*model.Product, error) {
	var product model.Product
	if _, err := c.do(ctx, http.MethodGet, "/public/products/"+url.PathEscape(slug), nil, "", &product); err != nil {
		return nil, fmt.Errorf("get product %s: %w", slug, err)
	}
	return &product, nil
}

func (c *dujiaoClientImpl) CreateGuestOrder(ctx context.Context, req *model.GuestOrderRequest) (*model.Order, error) {
	var order model.Order
	if _, err := c.do(ctx, http.MethodPost, "/guest/orders", req, "", &order); err != nil {
		return nil, fmt.Errorf("create guest order: %w", err)
	}
	return &order, nil
}

func (c *dujiaoClientImpl) CreateGuestPayment(ctx context.Context, req *model.GuestPaymentRequest) (*model.PaymentLaunch, error) {
	var launch model.PaymentLaunch
	if _, err := c.do(ctx, http.MethodPost, "/guest/payments", req, "", &launch); err != nil {
		return nil, fmt.Errorf("create guest payment: %w", err)
	}
	return &launch, nil
}

func (c *dujiaoClientImpl) SendVerifyCode(ctx context.Context, email, purpose string) error {
	body := map[string]string{"email": email, "purpose": purpose}
	if _, err := c.do(ctx, http.MethodPost, "/auth/send-verify-code", body, "", nil); err != nil {
		return fmt.Errorf("send verify code: %w", err)
	}
	return nil
}

func (c *dujiaoClientImpl) Register(ctx context.Context, email, password, code string) (*model.AuthResult, error) {
	body := map[string]any{
		"email":              email,
		"password":           password,
		"code":               code,
		"agreement_accepted": true,
	}
	var result model.AuthResult
	if _, err := c.do(ctx, http.MethodPost, "/auth/register", body, "", &result); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return &result, nil
}

func (c *dujiaoClientImpl) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result model.AuthResult
	if _, err := c.do(ctx, http.MethodPost, "/auth/login", body, "", &result); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return &result, nil
}

func (c *dujiaoClientImpl) Me(ctx context.Context, token string) (*model.UserProfile, error) {
	var profile model.UserProfile
	if _, err := c.do(ctx, http.MethodGet, "/me", nil, token, &profile); err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

func (c *dujiaoClientImpl) Orders(ctx context.Context, token string, page, pageSize int) ([]model.AccountOrder, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	var orders []model.AccountOrder
	if _, err := c.do(ctx, http.MethodGet, "/orders?"+q.Encode(), nil, token, &orders); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []model.AccountOrder{}
	}
	return orders, nil
}

func (c *dujiaoClientImpl) OrderByNo(ctx context.Context, token, orderNo string) (*model.AccountOrder, error) {
	var order model.AccountOrder
	if _, err := c.do(ctx, http.MethodGet, "/orders/by-order-no/"+url.PathEscape(orderNo), nil, token, &order); err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderNo, err)
	}
	return &order, nil
}

// do sends one request and unwraps the {status_code, msg, data} envelope into out.
func (c *dujiaoClientImpl) do(ctx context.Context, method, path string, payload any, token string, out any) (*model.Pagination, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal req payload: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseApiURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	var envelope dujiaoEnvelope
	decodeErr := json.NewDecoder(resp.Body).Decode(&envelope)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := fmt.Sprintf("网络错误：%d", resp.StatusCode)
		if decodeErr == nil && envelope.Msg != "" {
			msg = envelope.Msg
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: "无法解析响应"}
	}
	if envelope.StatusCode != 0 {
		msg := envelope.Msg
		if msg == "" {
			msg = "请求失败"
		}
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && len(envelope.Data) > 0 && string(envelope.Data) != "null" {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return nil, fmt.Errorf("decode response data: %w", err)
		}
	}
	return envelope.Pagination, nil
}
