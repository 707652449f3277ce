package handler

import (
	"net/http"
	"silkrhyme/internal/dto"
	"silkrhyme/internal/model"
	"silkrhyme/internal/service"
	"strconv"

	"github.com/labstack/echo/v4"
)

type ShopHandler struct {
	shopService service.ShopService
}

func NewShopHandler(shopService service.ShopService) *ShopHandler {
	return &ShopHandler{
		shopService: shopService,
	}
}

func (h *ShopHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.shopService.Categories(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, categories)
}

func (h *ShopHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	cfg, err := h.shopService.SiteConfig(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cfg)
}

// ListProducts accepts category_id, search, page and page_size; malformed numbers fall back to defaults.
func (h *ShopHandler) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()

	query := model.ProductQuery{
		Search:   c.QueryParam("search"),
		Page:     queryInt(c, "page"),
		PageSize: queryInt(c, "page_size"),
	}
	query.CategoryID, _ = strconv.ParseInt(c.QueryParam("category_id"), 10, 64)

	products, err := h.shopService.Products(ctx, query)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ShopHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	product, err := h.shopService.Product(ctx, c.Param("slug"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ShopHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	resp, err := h.shopService.Checkout(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, resp)
}

func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v < 0 {
		return 0
	}
	return v
}
