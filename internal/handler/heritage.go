package handler

import (
	"net/http"
	"silkrhyme/internal/apperror"
	"silkrhyme/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type HeritageHandler struct {
	heritageService service.HeritageService
}

func NewHeritageHandler(heritageService service.HeritageService) *HeritageHandler {
	return &HeritageHandler{
		heritageService: heritageService,
	}
}

func (h *HeritageHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, h.heritageService.List(c.QueryParam("category"), c.QueryParam("q")))
}

func (h *HeritageHandler) ListCategories(c echo.Context) error {
	return c.JSON(http.StatusOK, h.heritageService.Categories())
}

func (h *HeritageHandler) Get(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return apperror.NotFound("未找到该非遗项目")
	}

	item, err := h.heritageService.Get(id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, item)
}
