package checkout

import (
	"context"
	"silkrhyme/internal/model"
	"sync"
)

type fakeCommerce struct {
	mu sync.Mutex

	categories    []model.Category
	categoriesErr error
	config        *model.SiteConfig
	configErr     error
	products      []model.Product
	productsErr   error
	// productsBySearch, when set, answers each query by its search keyword.
	productsBySearch map[string][]model.Product
	detail        map[string]*model.Product
	detailErr     error
	order         *model.Order
	orderErr      error
	payment       *model.PaymentLaunch
	paymentErr    error

	// orderGate, when set, blocks CreateGuestOrder until it is closed.
	orderGate chan struct{}
	// detailGate, when set, blocks Product until it is closed.
	detailGate chan struct{}
	// productsGate, when set, blocks the first Products call until it is closed.
	productsGate chan struct{}

	productQueries []model.ProductQuery
	productCtxs    []context.Context
	productsDone   int
	orderReqs      []*model.GuestOrderRequest
	paymentReqs    []*model.GuestPaymentRequest
	detailCalls    int
}

func (f *fakeCommerce) Categories(ctx context.Context) ([]model.Category, error) {
	return f.categories, f.categoriesErr
}

func (f *fakeCommerce) SiteConfig(ctx context.Context) (*model.SiteConfig, error) {
	if f.configErr != nil {
		return nil, f.configErr
	}
	return f.config, nil
}

func (f *fakeCommerce) Products(ctx context.Context, query model.ProductQuery) ([]model.Product, *model.Pagination, error) {
	f.mu.Lock()
	f.productQueries = append(f.productQueries, query)
	f.productCtxs = append(f.productCtxs, ctx)
	var gate chan struct{}
	if len(f.productQueries) == 1 {
		gate = f.productsGate
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.productsDone++
		f.mu.Unlock()
	}()

	if gate != nil {
		<-gate
	}
	if f.productsErr != nil {
		return nil, nil, f.productsErr
	}
	products := f.products
	if f.productsBySearch != nil {
		products = f.productsBySearch[query.Search]
	}
	return products, &model.Pagination{Page: 1, PageSize: query.PageSize, Total: len(products)}, nil
}

func (f *fakeCommerce) Product(ctx context.Context, slug string) (*model.Product, error) {
	f.mu.Lock()
	f.detailCalls++
	gate := f.detailGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail[slug], nil
}

func (f *fakeCommerce) CreateGuestOrder(ctx context.Context, req *model.GuestOrderRequest) (*model.Order, error) {
	f.mu.Lock()
	f.orderReqs = append(f.orderReqs, req)
	gate := f.orderGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	return f.order, nil
}

func (f *fakeCommerce) CreateGuestPayment(ctx context.Context, req *model.GuestPaymentRequest) (*model.PaymentLaunch, error) {
	f.mu.Lock()
	f.paymentReqs = append(f.paymentReqs, req)
	f.mu.Unlock()
	if f.paymentErr != nil {
		return nil, f.paymentErr
	}
	return f.payment, nil
}

func (f *fakeCommerce) queries() []model.ProductQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.ProductQuery(nil), f.productQueries...)
}

func (f *fakeCommerce) productCall(i int) (context.Context, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.productCtxs[i], f.productsDone
}

func (f *fakeCommerce) counts() (orders, payments, details int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orderReqs), len(f.paymentReqs), f.detailCalls
}

func sampleChannels() []model.PaymentChannel {
	return []model.PaymentChannel{
		{ID: 7, Name: "支付宝", ChannelType: "alipay", InteractionMode: "redirect"},
		{ID: 9, Name: "微信支付", ChannelType: "wechat", InteractionMode: "qr"},
	}
}

func manualProduct() model.Product {
	return model.Product{
		ID:            101,
		CategoryID:    3,
		Slug:          "embroidery-kit",
		Title:         model.LocaleText{"zh-CN": "刺绣材料包"},
		PriceAmount:   "88.00",
		PriceCurrency: "CNY",
		ManualFormSchema: &model.ManualFormSchema{Fields: []model.FormField{
			{Key: "receiver", Required: true, Label: model.LocaleText{"zh-CN": "收件人"}},
			{Key: "remark"},
		}},
	}
}
