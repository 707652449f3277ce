package service

import (
	"context"
	"errors"
	"net/http"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/auth"
	"silkrhyme/internal/client"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"strings"

	"go.uber.org/zap"
)

const (
	errLoginRequired = "请先登录"
	errLoginExpired  = "登录已过期，请重新登录"

	verifyPurposeRegister = "register"
	accountOrdersPageSize = 20
)

type AccountService interface {
	SendVerifyCode(ctx context.Context, email string) error
	Register(ctx context.Context, req *dto.RegisterRequest) (*auth.Session, *model.UserProfile, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*auth.Session, *model.UserProfile, error)
	Logout(ctx context.Context, session *auth.Session) error
	Me(ctx context.Context, session *auth.Session) (*model.UserProfile, error)
	Orders(ctx context.Context, session *auth.Session) ([]dto.AccountOrderView, error)
	OrderByNo(ctx context.Context, session *auth.Session, orderNo string) (*dto.AccountOrderView, error)
}

type accountServiceImpl struct {
	dujiaoClient client.DujiaoClient
	sessions     *auth.Store
	logger       *zap.Logger
}

func NewAccountService(dujiaoClient client.DujiaoClient, sessions *auth.Store, logger *zap.Logger) AccountService {
	return &accountServiceImpl{
		dujiaoClient: dujiaoClient,
		sessions:     sessions,
		logger:       logger,
	}
}

func (s *accountServiceImpl) SendVerifyCode(ctx context.Context, email string) error {
	if !s.dujiaoClient.Configured() {
		return apperror.Config(errShopNotConfigured)
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return apperror.BadRequest("请填写注册邮箱")
	}

	if err := s.dujiaoClient.SendVerifyCode(ctx, email, verifyPurposeRegister); err != nil {
		s.logger.Warn("send verify code failed", zap.Error(err))
		return commerceError(err, "验证码发送失败")
	}
	return nil
}

func (s *accountServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*auth.Session, *model.UserProfile, error) {
	if !s.dujiaoClient.Configured() {
		return nil, nil, apperror.Config(errShopNotConfigured)
	}
	if !req.Agreement {
		return nil, nil, apperror.BadRequest("需要先同意服务条款才能注册")
	}

	email := strings.TrimSpace(req.Email)
	result, err := s.dujiaoClient.Register(ctx, email, req.Password, strings.TrimSpace(req.Code))
	if err != nil {
		s.logger.Warn("register failed", zap.Error(err))
		return nil, nil, commerceError(err, "注册失败")
	}
	return s.startSession(ctx, result, email)
}

func (s *accountServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*auth.Session, *model.UserProfile, error) {
	if !s.dujiaoClient.Configured() {
		return nil, nil, apperror.Config(errShopNotConfigured)
	}

	email := strings.TrimSpace(req.Email)
	result, err := s.dujiaoClient.Login(ctx, email, req.Password)
	if err != nil {
		s.logger.Warn("login failed", zap.Error(err))
		return nil, nil, commerceError(err, "登录失败")
	}
	return s.startSession(ctx, result, email)
}

func (s *accountServiceImpl) startSession(ctx context.Context, result *model.AuthResult, email string) (*auth.Session, *model.UserProfile, error) {
	if result.Token == "" {
		return nil, nil, apperror.Upstream("登录凭证缺失", nil)
	}
	if result.User.Email != "" {
		email = result.User.Email
	}

	session, err := s.sessions.Save(ctx, result.Token, email)
	if err != nil {
		return nil, nil, apperror.New(http.StatusInternalServerError, "会话保存失败", err)
	}
	user := result.User
	return session, &user, nil
}

func (s *accountServiceImpl) Logout(ctx context.Context, session *auth.Session) error {
	if session == nil {
		return nil
	}
	if err := s.sessions.Clear(ctx, session.ID); err != nil {
		return apperror.New(http.StatusInternalServerError, "退出登录失败", err)
	}
	return nil
}

// Me fetches the profile for the session's token. Any upstream rejection drops the session and the
// caller must log in again; transport failures keep it.
func (s *accountServiceImpl) Me(ctx context.Context, session *auth.Session) (*model.UserProfile, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}

	profile, err := s.dujiaoClient.Me(ctx, session.Token)
	var upstreamErr *client.UpstreamError
	if errors.As(err, &upstreamErr) {
		return nil, s.expire(ctx, session, err)
	}
	if err != nil {
		return nil, s.accountError(ctx, session, err, "获取账户信息失败")
	}
	return profile, nil
}

func (s *accountServiceImpl) Orders(ctx context.Context, session *auth.Session) ([]dto.AccountOrderView, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}

	orders, err := s.dujiaoClient.Orders(ctx, session.Token, 1, accountOrdersPageSize)
	if err != nil {
		return nil, s.accountError(ctx, session, err, "订单加载失败")
	}

	views := make([]dto.AccountOrderView, 0, len(orders))
	for _, order := range orders {
		views = append(views, orderView(order))
	}
	return views, nil
}

func (s *accountServiceImpl) OrderByNo(ctx context.Context, session *auth.Session, orderNo string) (*dto.AccountOrderView, error) {
	if err := s.requireSession(session); err != nil {
		return nil, err
	}
	orderNo = strings.TrimSpace(orderNo)
	if orderNo == "" {
		return nil, apperror.BadRequest("缺少订单号")
	}

	order, err := s.dujiaoClient.OrderByNo(ctx, session.Token, orderNo)
	if err != nil {
		return nil, s.accountError(ctx, session, err, "订单加载失败")
	}
	view := orderView(*order)
	return &view, nil
}

func (s *accountServiceImpl) requireSession(session *auth.Session) error {
	if !s.dujiaoClient.Configured() {
		return apperror.Config(errShopNotConfigured)
	}
	if !session.Authenticated() {
		return apperror.Unauthorized(errLoginRequired)
	}
	return nil
}

// accountError clears the session when the upstream answers 401/403.
func (s *accountServiceImpl) accountError(ctx context.Context, session *auth.Session, err error, fallback string) error {
	var upstreamErr *client.UpstreamError
	if errors.As(err, &upstreamErr) &&
		(upstreamErr.StatusCode == http.StatusUnauthorized || upstreamErr.StatusCode == http.StatusForbidden) {
		return s.expire(ctx, session, err)
	}

	s.logger.Warn("account request failed", zap.String("email", session.Email), zap.Error(err))
	return commerceError(err, fallback)
}

func (s *accountServiceImpl) expire(ctx context.Context, session *auth.Session, err error) error {
	s.logger.Info("upstream rejected account token, clearing session", zap.String("session_id", session.ID), zap.Error(err))
	if clearErr := s.sessions.Clear(ctx, session.ID); clearErr != nil {
		s.logger.Error("clear rejected session failed", zap.String("session_id", session.ID), zap.Error(clearErr))
	}
	return apperror.New(http.StatusUnauthorized, errLoginExpired, err)
}

func orderView(order model.AccountOrder) dto.AccountOrderView {
	return dto.AccountOrderView{
		AccountOrder: order,
		StatusLabel:  model.StatusLabel(order.Status),
	}
}
