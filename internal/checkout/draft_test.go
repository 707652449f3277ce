package checkout

import (
	"context"
	"errors"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/client"
	"silkrhyme/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"  ", 1},
		{"abc", 1},
		{"0", 1},
		{"-3", 1},
		{"1", 1},
		{"5", 5},
		{" 12 ", 12},
		{"2.7", 2},
		{"NaN", 1},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuantity(tt.raw))
		})
	}
}

func TestDraft_Validate(t *testing.T) {
	channels := sampleChannels()

	tests := []struct {
		name    string
		draft   Draft
		wantMsg string
	}{
		{
			name:    "missing email",
			draft:   Draft{Product: manualProduct(), Password: "pw", ChannelID: 7, Fields: map[string]string{"receiver": "张三"}},
			wantMsg: "请填写游客邮箱和查询密码",
		},
		{
			name:    "blank password",
			draft:   Draft{Product: manualProduct(), Email: "a@b.c", Password: "   ", ChannelID: 7},
			wantMsg: "请填写游客邮箱和查询密码",
		},
		{
			name:    "no channel",
			draft:   Draft{Product: manualProduct(), Email: "a@b.c", Password: "pw"},
			wantMsg: "请选择支付渠道",
		},
		{
			name:    "unknown channel",
			draft:   Draft{Product: manualProduct(), Email: "a@b.c", Password: "pw", ChannelID: 99},
			wantMsg: "支付渠道无效",
		},
		{
			name:    "required manual field empty",
			draft:   Draft{Product: manualProduct(), Email: "a@b.c", Password: "pw", ChannelID: 7, Fields: map[string]string{"receiver": " "}},
			wantMsg: "请填写：收件人",
		},
		{
			name:  "valid",
			draft: Draft{Product: manualProduct(), Email: "a@b.c", Password: "pw", ChannelID: 9, Fields: map[string]string{"receiver": "张三"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate(channels)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			appErr := apperror.From(err)
			require.NotNil(t, appErr)
			assert.Equal(t, 400, appErr.Status)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestDraft_Validate_LabelFallsBackToKey(t *testing.T) {
	product := model.Product{ID: 1, ManualFormSchema: &model.ManualFormSchema{Fields: []model.FormField{{Key: "qq", Required: true}}}}
	d := Draft{Product: product, Email: "a@b.c", Password: "pw", ChannelID: 7}

	assert.Equal(t, "请填写：qq", apperror.MessageOf(d.Validate(sampleChannels()), ""))
}

func TestDraft_OrderRequest(t *testing.T) {
	d := Draft{
		Product:   manualProduct(),
		Quantity:  3,
		Email:     " guest@example.com ",
		Password:  " secret ",
		ChannelID: 7,
		Fields:    map[string]string{"receiver": "张三"},
	}

	req := d.OrderRequest()
	assert.Equal(t, "guest@example.com", req.Email)
	assert.Equal(t, "secret", req.OrderPassword)
	require.Len(t, req.Items, 1)
	assert.Equal(t, model.OrderItemRequest{ProductID: 101, Quantity: 3, FulfillmentType: "manual"}, req.Items[0])
	assert.Equal(t, map[string]map[string]string{"101": {"receiver": "张三"}}, req.ManualFormData)

	plain := Draft{Product: model.Product{ID: 5, FulfillmentType: "auto"}, Email: "a", Password: "b"}
	req = plain.OrderRequest()
	assert.Nil(t, req.ManualFormData)
	assert.Equal(t, 1, req.Items[0].Quantity)
	assert.Equal(t, "auto", req.Items[0].FulfillmentType)

	pay := d.PaymentRequest(555)
	assert.Equal(t, &model.GuestPaymentRequest{Email: "guest@example.com", OrderPassword: "secret", OrderID: 555, ChannelID: 7}, pay)
}

func TestDraft_Subtotal(t *testing.T) {
	p := manualProduct()
	p.PromotionPriceAmount = "66.50"
	d := Draft{Product: p, Quantity: 2}

	assert.Equal(t, "133", d.Subtotal().String())
}

func validDraft() *Draft {
	return &Draft{
		Product:   manualProduct(),
		Quantity:  2,
		Email:     "guest@example.com",
		Password:  "secret",
		ChannelID: 9,
		Fields:    map[string]string{"receiver": "张三"},
	}
}

func TestPlace_InvalidDraftMakesNoCalls(t *testing.T) {
	fc := &fakeCommerce{}
	d := validDraft()
	d.Fields["receiver"] = ""

	_, err := Place(context.Background(), fc, d, sampleChannels())
	require.Error(t, err)

	orders, payments, _ := fc.counts()
	assert.Zero(t, orders)
	assert.Zero(t, payments)
}

func TestPlace_OrderThenPayment(t *testing.T) {
	fc := &fakeCommerce{
		order:   &model.Order{ID: 555, TotalAmount: "176.00"},
		payment: &model.PaymentLaunch{PaymentID: 1, InteractionMode: "qr", QRCode: "weixin://wxpay/abc"},
	}

	receipt, err := Place(context.Background(), fc, validDraft(), sampleChannels())
	require.NoError(t, err)
	assert.Equal(t, int64(555), receipt.Order.ID)
	assert.Equal(t, "weixin://wxpay/abc", receipt.Payment.QRCode)

	require.Len(t, fc.paymentReqs, 1)
	assert.Equal(t, int64(555), fc.paymentReqs[0].OrderID)
	assert.Equal(t, int64(9), fc.paymentReqs[0].ChannelID)
	assert.Equal(t, "secret", fc.paymentReqs[0].OrderPassword)
}

func TestPlace_OrderFailureSkipsPayment(t *testing.T) {
	fc := &fakeCommerce{orderErr: &client.UpstreamError{StatusCode: 200, Message: "库存不足"}}

	receipt, err := Place(context.Background(), fc, validDraft(), sampleChannels())
	assert.Nil(t, receipt)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepOrder, stepErr.Step)
	assert.Equal(t, "库存不足", apperror.MessageOf(err, ""))

	_, payments, _ := fc.counts()
	assert.Zero(t, payments)
}

func TestPlace_PaymentFailureKeepsOrder(t *testing.T) {
	fc := &fakeCommerce{
		order:      &model.Order{ID: 555, TotalAmount: "176.00"},
		paymentErr: errors.New("connection reset"),
	}

	receipt, err := Place(context.Background(), fc, validDraft(), sampleChannels())
	require.Error(t, err)
	require.NotNil(t, receipt)
	assert.Equal(t, int64(555), receipt.Order.ID)
	assert.Nil(t, receipt.Payment)

	var stepErr *StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, StepPayment, stepErr.Step)
	assert.Equal(t, int64(555), stepErr.Order.ID)
	assert.Equal(t, "下单或支付发起失败", apperror.MessageOf(err, ""))
}
