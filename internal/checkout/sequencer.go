package checkout

import (
	"context"
	"errors"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/model"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultSearchDelay = 300 * time.Millisecond
	productPageSize    = 20
)

var (
	ErrNoCheckout = errors.New("checkout surface is not open")
	ErrSubmitting = errors.New("checkout already in progress")
	ErrClosed     = errors.New("checkout surface closed before the result arrived")
)

// CheckoutView is the state of the open checkout surface.
type CheckoutView struct {
	Product      model.Product
	DetailLoaded bool
	Quantity     int
	Email        string
	Password     string
	ChannelID    int64
	Fields       map[string]string
	Subtotal     decimal.Decimal
	Error        string
	Order        *model.Order
	Payment      *model.PaymentLaunch
}

// Snapshot is an immutable copy of a storefront view.
type Snapshot struct {
	State            State
	Categories       []model.Category
	Channels         []model.PaymentChannel
	Products         []model.Product
	ActiveCategoryID int64
	Keyword          string
	LoadingBase      bool
	LoadingProducts  bool
	Error            string
	Checkout         *CheckoutView
}

type surface struct {
	view       CheckoutView
	cancel     context.CancelFunc
	submitting bool
}

type Option func(*Sequencer)

func WithSearchDelay(d time.Duration) Option {
	return func(s *Sequencer) { s.search = NewDebouncer(d) }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Sequencer) { s.logger = logger }
}

// WithObserver registers fn to receive a snapshot after every state change.
func WithObserver(fn func(Snapshot)) Option {
	return func(s *Sequencer) { s.onChange = fn }
}

// Sequencer drives one storefront view: base data, debounced product search, and the
// product detail → order → payment checkout chain. Network calls run outside the lock;
// results that belong to a superseded search or a closed surface are dropped.
type Sequencer struct {
	commerce Commerce
	logger   *zap.Logger
	search   *Debouncer
	onChange func(Snapshot)

	ctx  context.Context
	stop context.CancelFunc

	mu               sync.Mutex
	state            State
	categories       []model.Category
	channels         []model.PaymentChannel
	products         []model.Product
	activeCategoryID int64
	keyword          string
	loadingBase      bool
	loadingProducts  bool
	err              string
	listGen          uint64
	listCancel       context.CancelFunc
	surface          *surface
}

func NewSequencer(commerce Commerce, opts ...Option) *Sequencer {
	ctx, stop := context.WithCancel(context.Background())
	s := &Sequencer{
		commerce: commerce,
		logger:   zap.NewNop(),
		search:   NewDebouncer(DefaultSearchDelay),
		ctx:      ctx,
		stop:     stop,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Stop tears the view down: pending searches and in-flight background fetches are cancelled.
func (s *Sequencer) Stop() {
	s.search.Cancel()
	s.stop()
}

// LoadBase fetches categories and site configuration concurrently and waits for both.
// It also schedules the first product list load. On failure the lists stay empty and the
// view remains usable.
func (s *Sequencer) LoadBase(ctx context.Context) error {
	s.update(func() {
		s.state = StateLoadingBase
		s.loadingBase = true
		s.err = ""
		s.scheduleProductsLocked()
	})

	var (
		categories []model.Category
		cfg        *model.SiteConfig
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		categories, err = s.commerce.Categories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		cfg, err = s.commerce.SiteConfig(gctx)
		return err
	})
	err := g.Wait()

	s.update(func() {
		s.loadingBase = false
		if err != nil {
			s.err = apperror.MessageOf(err, "初始化数据加载失败")
		} else {
			s.categories = categories
			if cfg != nil {
				s.channels = cfg.PaymentChannels
			}
		}
		if s.state == StateLoadingBase {
			s.state = StateBrowsing
		}
	})

	if err != nil {
		s.logger.Warn("load storefront base data failed", zap.Error(err))
	}
	return err
}

// SetCategory filters the product list by category; zero means all categories.
func (s *Sequencer) SetCategory(categoryID int64) {
	s.update(func() {
		if s.activeCategoryID == categoryID {
			return
		}
		s.activeCategoryID = categoryID
		s.scheduleProductsLocked()
	})
}

func (s *Sequencer) SetKeyword(keyword string) {
	s.update(func() {
		if s.keyword == keyword {
			return
		}
		s.keyword = keyword
		s.scheduleProductsLocked()
	})
}

// Refresh re-runs the product search with the current filters.
func (s *Sequencer) Refresh() {
	s.update(s.scheduleProductsLocked)
}

func (s *Sequencer) scheduleProductsLocked() {
	s.listGen++
	gen := s.listGen
	query := model.ProductQuery{
		CategoryID: s.activeCategoryID,
		Search:     strings.TrimSpace(s.keyword),
		Page:       1,
		PageSize:   productPageSize,
	}
	s.search.Schedule(func() { s.fetchProducts(gen, query) })
}

func (s *Sequencer) fetchProducts(gen uint64, query model.ProductQuery) {
	var ctx context.Context
	stale := false
	s.update(func() {
		if gen != s.listGen {
			stale = true
			return
		}
		if s.listCancel != nil {
			s.listCancel()
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(s.ctx)
		s.listCancel = cancel
		s.loadingProducts = true
		s.err = ""
	})
	if stale {
		return
	}

	products, _, err := s.commerce.Products(ctx, query)

	s.update(func() {
		if gen != s.listGen {
			return
		}
		s.loadingProducts = false
		s.listCancel = nil
		if err != nil {
			s.err = apperror.MessageOf(err, "商品加载失败")
			return
		}
		s.products = products
	})
	if err != nil && ctx.Err() == nil {
		s.logger.Warn("load products failed", zap.Error(err))
	}
}

// Open shows the checkout surface for product right away using the list-level data, then
// upgrades it with the product detail in the background. A failed detail fetch is ignored.
func (s *Sequencer) Open(product model.Product) {
	var (
		sf  *surface
		ctx context.Context
	)
	s.update(func() {
		if s.surface != nil {
			s.surface.cancel()
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(s.ctx)
		view := CheckoutView{
			Product:  product,
			Quantity: 1,
			Fields:   map[string]string{},
		}
		if len(s.channels) > 0 {
			view.ChannelID = s.channels[0].ID
		}
		sf = &surface{view: view, cancel: cancel}
		s.surface = sf
		s.state = StateOpeningDetail
	})

	go func() {
		detail, err := s.commerce.Product(ctx, product.Slug)
		s.update(func() {
			if s.surface != sf {
				return
			}
			if err == nil && detail != nil {
				sf.view.Product = *detail
				sf.view.DetailLoaded = true
			}
			if s.state == StateOpeningDetail {
				s.state = StateFillingForm
			}
		})
		if err != nil {
			s.logger.Debug("product detail unavailable, keeping list data", zap.String("slug", product.Slug), zap.Error(err))
		}
	}()
}

// Close tears the checkout surface down; results still in flight for it are discarded.
func (s *Sequencer) Close() {
	s.update(func() {
		if s.surface == nil {
			return
		}
		s.surface.cancel()
		s.surface = nil
		s.state = StateBrowsing
	})
}

func (s *Sequencer) SetEmail(email string) {
	s.editSurface(func(v *CheckoutView) { v.Email = email })
}

func (s *Sequencer) SetPassword(password string) {
	s.editSurface(func(v *CheckoutView) { v.Password = password })
}

// SetQuantity coerces raw input with ParseQuantity.
func (s *Sequencer) SetQuantity(raw string) {
	s.editSurface(func(v *CheckoutView) { v.Quantity = ParseQuantity(raw) })
}

func (s *Sequencer) SetField(key, value string) {
	s.editSurface(func(v *CheckoutView) { v.Fields[key] = value })
}

// SelectChannel accepts only channels returned by the site configuration.
func (s *Sequencer) SelectChannel(channelID int64) error {
	var err error
	s.update(func() {
		if s.surface == nil {
			err = ErrNoCheckout
			return
		}
		if !model.HasChannel(s.channels, channelID) {
			err = apperror.BadRequest("支付渠道无效")
			return
		}
		s.surface.view.ChannelID = channelID
	})
	return err
}

func (s *Sequencer) editSurface(fn func(v *CheckoutView)) {
	s.update(func() {
		if s.surface != nil {
			fn(&s.surface.view)
		}
	})
}

// Submit validates the form and, when it passes, creates the order and then its payment.
// Failures are reported inline and return the view to the form with every entered value kept;
// an order created before a payment failure stays visible.
func (s *Sequencer) Submit(ctx context.Context) error {
	var (
		sf       *surface
		draft    *Draft
		stateErr error
	)
	s.update(func() {
		sf = s.surface
		if sf == nil {
			stateErr = ErrNoCheckout
			return
		}
		if sf.submitting {
			stateErr = ErrSubmitting
			return
		}
		draft = sf.draftLocked()
		if err := draft.Validate(s.channels); err != nil {
			sf.view.Error = apperror.MessageOf(err, msgPlaceFailed)
			stateErr = err
			return
		}
		sf.submitting = true
		sf.view.Error = ""
		sf.view.Payment = nil
		s.state = StateCreatingOrder
	})
	if stateErr != nil {
		return stateErr
	}

	order, err := createOrder(ctx, s.commerce, draft)
	closed := false
	s.update(func() {
		if s.surface != sf {
			closed = true
			return
		}
		if err != nil {
			s.failSubmitLocked(sf, err)
			return
		}
		sf.view.Order = order
		s.state = StateCreatingPayment
	})
	if closed {
		return ErrClosed
	}
	if err != nil {
		s.logger.Warn("create guest order failed", zap.Int64("product_id", draft.Product.ID), zap.Error(err))
		return err
	}

	payment, err := createPayment(ctx, s.commerce, draft, order)
	s.update(func() {
		if s.surface != sf {
			closed = true
			return
		}
		if err != nil {
			s.failSubmitLocked(sf, err)
			return
		}
		sf.submitting = false
		sf.view.Payment = payment
		s.state = StatePaymentShown
	})
	if closed {
		return ErrClosed
	}
	if err != nil {
		s.logger.Warn("create guest payment failed", zap.Int64("order_id", order.ID), zap.Error(err))
		return err
	}
	return nil
}

func (s *Sequencer) failSubmitLocked(sf *surface, err error) {
	sf.submitting = false
	sf.view.Error = apperror.MessageOf(err, msgPlaceFailed)
	s.state = StateFillingForm
}

func (sf *surface) draftLocked() *Draft {
	fields := make(map[string]string, len(sf.view.Fields))
	for k, v := range sf.view.Fields {
		fields[k] = v
	}
	return &Draft{
		Product:   sf.view.Product,
		Quantity:  sf.view.Quantity,
		Email:     sf.view.Email,
		Password:  sf.view.Password,
		ChannelID: sf.view.ChannelID,
		Fields:    fields,
	}
}

func (s *Sequencer) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Sequencer) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:            s.state,
		Categories:       append([]model.Category(nil), s.categories...),
		Channels:         append([]model.PaymentChannel(nil), s.channels...),
		Products:         append([]model.Product(nil), s.products...),
		ActiveCategoryID: s.activeCategoryID,
		Keyword:          s.keyword,
		LoadingBase:      s.loadingBase,
		LoadingProducts:  s.loadingProducts,
		Error:            s.err,
	}
	if s.surface != nil {
		view := s.surface.view
		view.Fields = make(map[string]string, len(s.surface.view.Fields))
		for k, v := range s.surface.view.Fields {
			view.Fields[k] = v
		}
		view.Subtotal = s.surface.draftLocked().Subtotal()
		snap.Checkout = &view
	}
	return snap
}

// update applies fn under the lock and then notifies the observer outside of it.
func (s *Sequencer) update(fn func()) {
	s.mu.Lock()
	fn()
	var snap Snapshot
	if s.onChange != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(snap)
	}
}
