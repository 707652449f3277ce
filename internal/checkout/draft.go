package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/model"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Commerce is the part of the upstream commerce API the checkout flow depends on.
type Commerce interface {
	Categories(ctx context.Context) ([]model.Category, error)
	SiteConfig(ctx context.Context) (*model.SiteConfig, error)
	Products(ctx context.Context, query model.ProductQuery) ([]model.Product, *model.Pagination, error)
	Product(ctx context.Context, slug string) (*model.Product, error)
	CreateGuestOrder(ctx context.Context, req *model.GuestOrderRequest) (*model.Order, error)
	CreateGuestPayment(ctx context.Context, req *model.GuestPaymentRequest) (*model.PaymentLaunch, error)
}

const msgPlaceFailed = "下单或支付发起失败"

type Step string

const (
	StepOrder   Step = "order"
	StepPayment Step = "payment"
)

// StepError reports which upstream call of the order→payment chain failed.
// Order is set when the failure happened after the order already exists.
type StepError struct {
	Step  Step
	Order *model.Order
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("create %s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// UserMessage is the upstream's message for the failed step, or the generic checkout failure text.
func (e *StepError) UserMessage() string {
	return apperror.MessageOf(e.Err, msgPlaceFailed)
}

// Draft is the guest checkout form for a single product.
type Draft struct {
	Product   model.Product
	Quantity  int
	Email     string
	Password  string
	ChannelID int64
	Fields    map[string]string
}

// ParseQuantity coerces user input to a positive quantity; blank, non-numeric or < 1 input yields 1.
func ParseQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || v < 1 {
		return 1
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(math.Floor(v))
}

// Validate checks the draft locally; no network call may be issued while it fails.
func (d *Draft) Validate(channels []model.PaymentChannel) error {
	if strings.TrimSpace(d.Email) == "" || strings.TrimSpace(d.Password) == "" {
		return apperror.BadRequest("请填写游客邮箱和查询密码")
	}
	if d.ChannelID == 0 {
		return apperror.BadRequest("请选择支付渠道")
	}
	if !model.HasChannel(channels, d.ChannelID) {
		return apperror.BadRequest("支付渠道无效")
	}
	for _, field := range d.Product.ManualFields() {
		if field.Required && strings.TrimSpace(d.Fields[field.Key]) == "" {
			return apperror.BadRequest("请填写：" + field.DisplayLabel())
		}
	}
	return nil
}

// Subtotal is the effective unit price times quantity, for display before the order exists.
func (d *Draft) Subtotal() decimal.Decimal {
	return d.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(d.quantity())))
}

func (d *Draft) quantity() int {
	if d.Quantity < 1 {
		return 1
	}
	return d.Quantity
}

func (d *Draft) OrderRequest() *model.GuestOrderRequest {
	req := &model.GuestOrderRequest{
		Email:         strings.TrimSpace(d.Email),
		OrderPassword: strings.TrimSpace(d.Password),
		Items: []model.OrderItemRequest{{
			ProductID:       d.Product.ID,
			Quantity:        d.quantity(),
			FulfillmentType: d.Product.Fulfillment(),
		}},
	}

	if len(d.Product.ManualFields()) > 0 {
		values := make(map[string]string, len(d.Fields))
		for k, v := range d.Fields {
			values[k] = v
		}
		req.ManualFormData = map[string]map[string]string{
			strconv.FormatInt(d.Product.ID, 10): values,
		}
	}
	return req
}

func (d *Draft) PaymentRequest(orderID int64) *model.GuestPaymentRequest {
	return &model.GuestPaymentRequest{
		Email:         strings.TrimSpace(d.Email),
		OrderPassword: strings.TrimSpace(d.Password),
		OrderID:       orderID,
		ChannelID:     d.ChannelID,
	}
}

type Receipt struct {
	Order   *model.Order
	Payment *model.PaymentLaunch
}

// Place validates the draft, creates the order and immediately creates its payment with the same
// guest credentials. A payment failure leaves the created order in the returned *StepError.
func Place(ctx context.Context, commerce Commerce, draft *Draft, channels []model.PaymentChannel) (*Receipt, error) {
	if err := draft.Validate(channels); err != nil {
		return nil, err
	}

	order, err := createOrder(ctx, commerce, draft)
	if err != nil {
		return nil, err
	}

	payment, err := createPayment(ctx, commerce, draft, order)
	if err != nil {
		return &Receipt{Order: order}, err
	}

	return &Receipt{Order: order, Payment: payment}, nil
}

func createOrder(ctx context.Context, commerce Commerce, draft *Draft) (*model.Order, error) {
	order, err := commerce.CreateGuestOrder(ctx, draft.OrderRequest())
	if err != nil {
		return nil, &StepError{Step: StepOrder, Err: err}
	}
	if order == nil {
		return nil, &StepError{Step: StepOrder, Err: errors.New("empty order response")}
	}
	return order, nil
}

func createPayment(ctx context.Context, commerce Commerce, draft *Draft, order *model.Order) (*model.PaymentLaunch, error) {
	payment, err := commerce.CreateGuestPayment(ctx, draft.PaymentRequest(order.ID))
	if err != nil {
		return nil, &StepError{Step: StepPayment, Order: order, Err: err}
	}
	if payment == nil {
		return nil, &StepError{Step: StepPayment, Order: order, Err: errors.New("empty payment response")}
	}
	return payment, nil
}
