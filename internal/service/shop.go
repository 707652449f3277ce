package service

import (
	"context"
	"errors"
	"net/http"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/checkout"
	"silkrhyme/internal/client"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const errShopNotConfigured = "服务端未配置商城 API 地址"

// CheckoutError is returned when the payment step fails after the order was created;
// Order lets the caller keep showing it.
type CheckoutError struct {
	Err   *apperror.Error
	Order *model.Order
}

func (e *CheckoutError) Error() string {
	return e.Err.Error()
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

type ShopService interface {
	Categories(ctx context.Context) ([]model.Category, error)
	SiteConfig(ctx context.Context) (*model.SiteConfig, error)
	Products(ctx context.Context, query model.ProductQuery) (*dto.ProductListResponse, error)
	Product(ctx context.Context, slug string) (*model.Product, error)
	Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error)
}

type shopServiceImpl struct {
	dujiaoClient client.DujiaoClient
	logger       *zap.Logger
}

func NewShopService(dujiaoClient client.DujiaoClient, logger *zap.Logger) ShopService {
	return &shopServiceImpl{
		dujiaoClient: dujiaoClient,
		logger:       logger,
	}
}

func (s *shopServiceImpl) Categories(ctx context.Context) ([]model.Category, error) {
	if !s.dujiaoClient.Configured() {
		return nil, apperror.Config(errShopNotConfigured)
	}
	categories, err := s.dujiaoClient.Categories(ctx)
	if err != nil {
		s.logger.Warn("list categories failed", zap.Error(err))
		return nil, commerceError(err, "初始化数据加载失败")
	}
	if categories == nil {
		categories = []model.Category{}
	}
	return categories, nil
}

func (s *shopServiceImpl) SiteConfig(ctx context.Context) (*model.SiteConfig, error) {
	if !s.dujiaoClient.Configured() {
		return nil, apperror.Config(errShopNotConfigured)
	}
	cfg, err := s.dujiaoClient.SiteConfig(ctx)
	if err != nil {
		s.logger.Warn("get site config failed", zap.Error(err))
		return nil, commerceError(err, "初始化数据加载失败")
	}
	return cfg, nil
}

func (s *shopServiceImpl) Products(ctx context.Context, query model.ProductQuery) (*dto.ProductListResponse, error) {
	if !s.dujiaoClient.Configured() {
		return nil, apperror.Config(errShopNotConfigured)
	}
	products, pagination, err := s.dujiaoClient.Products(ctx, query)
	if err != nil {
		s.logger.Warn("list products failed", zap.Int64("category_id", query.CategoryID), zap.String("search", query.Search), zap.Error(err))
		return nil, commerceError(err, "商品加载失败")
	}
	if products == nil {
		products = []model.Product{}
	}
	return &dto.ProductListResponse{Products: products, Pagination: pagination}, nil
}

func (s *shopServiceImpl) Product(ctx context.Context, slug string) (*model.Product, error) {
	if !s.dujiaoClient.Configured() {
		return nil, apperror.Config(errShopNotConfigured)
	}
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, apperror.BadRequest("缺少商品参数")
	}
	product, err := s.dujiaoClient.Product(ctx, slug)
	if err != nil {
		s.logger.Warn("get product failed", zap.String("slug", slug), zap.Error(err))
		return nil, commerceError(err, "商品加载失败")
	}
	return product, nil
}

// Checkout places a guest order for one product and immediately starts its payment.
// The product detail and the payment channels are fetched fresh so validation runs against
// the current manual form schema and channel set.
func (s *shopServiceImpl) Checkout(ctx context.Context, req *dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	if !s.dujiaoClient.Configured() {
		return nil, apperror.Config(errShopNotConfigured)
	}

	var (
		product *model.Product
		cfg     *model.SiteConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		product, err = s.dujiaoClient.Product(gctx, strings.TrimSpace(req.ProductSlug))
		return err
	})
	g.Go(func() error {
		var err error
		cfg, err = s.dujiaoClient.SiteConfig(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("load checkout data failed", zap.String("slug", req.ProductSlug), zap.Error(err))
		return nil, commerceError(err, "商品加载失败")
	}

	draft := &checkout.Draft{
		Product:   *product,
		Quantity:  checkout.ParseQuantity(string(req.Quantity)),
		Email:     req.Email,
		Password:  req.OrderPassword,
		ChannelID: req.ChannelID,
		Fields:    req.ManualFormData,
	}

	receipt, err := checkout.Place(ctx, s.dujiaoClient, draft, cfg.PaymentChannels)
	if err != nil {
		if appErr := apperror.From(err); appErr != nil {
			return nil, appErr
		}

		var stepErr *checkout.StepError
		if errors.As(err, &stepErr) && stepErr.Step == checkout.StepPayment {
			s.logger.Warn("create guest payment failed", zap.Int64("order_id", stepErr.Order.ID), zap.Error(err))
			return nil, &CheckoutError{
				Err:   apperror.New(http.StatusBadGateway, apperror.MessageOf(err, "下单或支付发起失败"), err),
				Order: stepErr.Order,
			}
		}

		s.logger.Warn("create guest order failed", zap.Int64("product_id", product.ID), zap.Error(err))
		return nil, apperror.Upstream(apperror.MessageOf(err, "下单或支付发起失败"), err)
	}

	s.logger.Info("guest checkout placed",
		zap.Int64("order_id", receipt.Order.ID),
		zap.Int64("payment_id", receipt.Payment.PaymentID),
		zap.Int64("channel_id", draft.ChannelID),
	)
	return &dto.CheckoutResponse{Order: receipt.Order, Payment: receipt.Payment}, nil
}

// commerceError surfaces the commerce API's own message, which is safe to show, or fallback.
func commerceError(err error, fallback string) error {
	return apperror.Upstream(apperror.MessageOf(err, fallback), err)
}
