package server

import (
	"context"
	"net/http"
	"silkrhyme/internal/auth"
	"silkrhyme/internal/config"
	"silkrhyme/internal/handler"
	silkmiddleware "silkrhyme/internal/middleware"
	"silkrhyme/internal/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Weather   service.WeatherService
	Exchange  service.ExchangeService
	Shop      service.ShopService
	Account   service.AccountService
	Heritage  service.HeritageService
	Itinerary service.ItineraryService
}

type Server struct {
	echo             *echo.Echo
	sessions         *auth.Store
	sessionCfg       config.Session
	logger           *zap.Logger
	weatherHandler   *handler.WeatherHandler
	exchangeHandler  *handler.ExchangeHandler
	shopHandler      *handler.ShopHandler
	accountHandler   *handler.AccountHandler
	heritageHandler  *handler.HeritageHandler
	itineraryHandler *handler.ItineraryHandler
}

func NewServer(services Services, sessions *auth.Store, sessionCfg config.Session, logger *zap.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.NewHTTPErrorHandler(logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig(logger)))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:             e,
		sessions:         sessions,
		sessionCfg:       sessionCfg,
		logger:           logger,
		weatherHandler:   handler.NewWeatherHandler(services.Weather),
		exchangeHandler:  handler.NewExchangeHandler(services.Exchange),
		shopHandler:      handler.NewShopHandler(services.Shop),
		accountHandler:   handler.NewAccountHandler(services.Account, sessionCfg),
		heritageHandler:  handler.NewHeritageHandler(services.Heritage),
		itineraryHandler: handler.NewItineraryHandler(services.Itinerary),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// -------- proxies --------
	api.GET("/weather", s.weatherHandler.GetWeather, silkmiddleware.NoStore())
	exchange := api.Group("/exchange", silkmiddleware.NoStore())
	exchange.GET("", s.exchangeHandler.Convert)
	exchange.GET("/currencies", s.exchangeHandler.ListCurrencies)

	// -------- shop --------
	shop := api.Group("/shop")
	shop.GET("/categories", s.shopHandler.ListCategories)
	shop.GET("/config", s.shopHandler.GetConfig)
	shop.GET("/products", s.shopHandler.ListProducts)
	shop.GET("/products/:slug", s.shopHandler.GetProduct)
	shop.POST("/checkout", s.shopHandler.Checkout, silkmiddleware.NoStore())

	// -------- account --------
	account := api.Group("/account",
		silkmiddleware.NoStore(),
		silkmiddleware.Session(s.sessions, s.sessionCfg.CookieName, s.logger),
	)
	account.POST("/verify-code", s.accountHandler.SendVerifyCode)
	account.POST("/register", s.accountHandler.Register)
	account.POST("/login", s.accountHandler.Login)
	account.POST("/logout", s.accountHandler.Logout)
	account.GET("/me", s.accountHandler.Me)
	account.GET("/orders", s.accountHandler.ListOrders)
	account.GET("/orders/:order_no", s.accountHandler.GetOrder)

	// -------- heritage / itinerary --------
	heritage := api.Group("/heritage")
	heritage.GET("", s.heritageHandler.List)
	heritage.GET("/categories", s.heritageHandler.ListCategories)
	heritage.GET("/:id", s.heritageHandler.Get)

	itinerary := api.Group("/itinerary")
	itinerary.GET("/options", s.itineraryHandler.GetOptions)
	itinerary.POST("", s.itineraryHandler.Generate)
}

func requestLoggerConfig(logger *zap.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
				logger.Warn("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
