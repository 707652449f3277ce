package handler

import (
	"net/http"
	"silkrhyme/internal/service"

	"github.com/labstack/echo/v4"
)

type WeatherHandler struct {
	weatherService service.WeatherService
}

func NewWeatherHandler(weatherService service.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
	}
}

func (h *WeatherHandler) GetWeather(c echo.Context) error {
	ctx := c.Request().Context()

	weather, err := h.weatherService.Lookup(ctx, c.QueryParam("city"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, weather)
}
