package handler

import (
	"net/http"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/service"

	"github.com/labstack/echo/v4"
)

type ItineraryHandler struct {
	itineraryService service.ItineraryService
}

func NewItineraryHandler(itineraryService service.ItineraryService) *ItineraryHandler {
	return &ItineraryHandler{
		itineraryService: itineraryService,
	}
}

func (h *ItineraryHandler) GetOptions(c echo.Context) error {
	return c.JSON(http.StatusOK, h.itineraryService.Options())
}

func (h *ItineraryHandler) Generate(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.ItineraryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	itinerary, err := h.itineraryService.Generate(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, itinerary)
}
