package handler

import (
	"net/http"
	"silkrhyme/internal/auth"
	"silkrhyme/internal/config"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/middleware"
	"silkrhyme/internal/service"
	"time"

	"github.com/labstack/echo/v4"
)

type AccountHandler struct {
	accountService service.AccountService
	cookie         config.Session
}

func NewAccountHandler(accountService service.AccountService, cookie config.Session) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		cookie:         cookie,
	}
}

func (h *AccountHandler) SendVerifyCode(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyCodeRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	if err := h.accountService.SendVerifyCode(ctx, req.Email); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "验证码已发送"})
}

func (h *AccountHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, user, err := h.accountService.Register(ctx, &req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, session)
	return c.JSON(http.StatusCreated, dto.AccountResponse{User: user, Message: "注册成功"})
}

func (h *AccountHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	session, user, err := h.accountService.Login(ctx, &req)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, session)
	return c.JSON(http.StatusOK, dto.AccountResponse{User: user, Message: "登录成功"})
}

func (h *AccountHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.accountService.Logout(ctx, middleware.SessionFrom(c)); err != nil {
		return err
	}

	h.clearSessionCookie(c)
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "已退出登录"})
}

func (h *AccountHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()
	session := middleware.SessionFrom(c)

	user, err := h.accountService.Me(ctx, session)
	if err != nil {
		if session != nil && isUnauthorized(err) {
			h.clearSessionCookie(c)
		}
		return err
	}

	return c.JSON(http.StatusOK, dto.AccountResponse{User: user})
}

func (h *AccountHandler) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	session := middleware.SessionFrom(c)

	orders, err := h.accountService.Orders(ctx, session)
	if err != nil {
		if session != nil && isUnauthorized(err) {
			h.clearSessionCookie(c)
		}
		return err
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *AccountHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	session := middleware.SessionFrom(c)

	order, err := h.accountService.OrderByNo(ctx, session, c.Param("order_no"))
	if err != nil {
		if session != nil && isUnauthorized(err) {
			h.clearSessionCookie(c)
		}
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *AccountHandler) setSessionCookie(c echo.Context, session *auth.Session) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(h.cookie.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AccountHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
