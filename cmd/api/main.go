package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"silkrhyme/internal/auth"
	"silkrhyme/internal/client"
	"silkrhyme/internal/config"
	"silkrhyme/internal/logger"
	"silkrhyme/internal/repository"
	"silkrhyme/internal/server"
	"silkrhyme/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

const sessionSweepInterval = time.Hour

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	db, err := client.InitDBClient(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init db: %w", err)
	}

	qweatherClient := client.NewQWeatherClient(&cfg.QWeather)
	getGeoAPIClient := client.NewGetGeoAPIClient(&cfg.GetGeoAPI)
	dujiaoClient := client.NewDujiaoClient(&cfg.Dujiao)

	sessionRepo := repository.NewSessionRepository(db)
	sessions := auth.NewStore(sessionRepo)

	heritageService, err := service.NewHeritageService()
	if err != nil {
		return err
	}
	itineraryService, err := service.NewItineraryService(&cfg.Itinerary, log)
	if err != nil {
		return err
	}

	services := server.Services{
		Weather:   service.NewWeatherService(qweatherClient, log),
		Exchange:  service.NewExchangeService(getGeoAPIClient, log),
		Shop:      service.NewShopService(dujiaoClient, log),
		Account:   service.NewAccountService(dujiaoClient, sessions, log),
		Heritage:  heritageService,
		Itinerary: itineraryService,
	}

	if !qweatherClient.Configured() {
		log.Warn("QWEATHER_API_KEY not set, /api/weather will answer 500")
	}
	if !getGeoAPIClient.Configured() {
		log.Warn("GETGEOAPI_KEY not set, /api/exchange will answer 500")
	}
	if !dujiaoClient.Configured() {
		log.Warn("DUJIAO_API_BASE_URL not set, shop and account endpoints will answer 500")
	}

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	// Init HTTP server
	srv := server.NewServer(services, sessions, cfg.Session, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go sweepSessions(ctx, sessions, log)

	errCh := make(chan error, 1)
	log.Info("starting HTTP server", zap.String("addr", serverAddr), zap.String("environment", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// sweepSessions periodically drops sessions whose upstream token has expired.
func sweepSessions(ctx context.Context, sessions *auth.Store, log *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Sweep(ctx)
			if err != nil {
				log.Warn("sweep expired sessions failed", zap.Error(err))
				continue
			}
			if n > 0 {
				log.Info("swept expired sessions", zap.Int64("count", n))
			}
		}
	}
}
