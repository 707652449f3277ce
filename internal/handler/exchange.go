package handler

import (
	"net/http"
	"silkrhyme/internal/service"

	"github.com/labstack/echo/v4"
)

type ExchangeHandler struct {
	exchangeService service.ExchangeService
}

func NewExchangeHandler(exchangeService service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{
		exchangeService: exchangeService,
	}
}

func (h *ExchangeHandler) Convert(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.exchangeService.Convert(ctx, c.QueryParam("from"), c.QueryParam("to"), c.QueryParam("amount"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func (h *ExchangeHandler) ListCurrencies(c echo.Context) error {
	ctx := c.Request().Context()

	currencies, err := h.exchangeService.ListCurrencies(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, currencies)
}
