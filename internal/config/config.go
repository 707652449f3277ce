package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://silkrhyme.db"`

	QWeather  QWeather  `envPrefix:"QWEATHER_"`
	GetGeoAPI GetGeoAPI `envPrefix:"GETGEOAPI_"`
	Dujiao    Dujiao    `envPrefix:"DUJIAO_"`
	Itinerary Itinerary `envPrefix:"ITINERARY_"`
	Session   Session   `envPrefix:"SESSION_"`
}

// QWeather keys are optional at startup; the weather service rejects requests while APIKey is empty.
type QWeather struct {
	APIKey string `env:"API_KEY"`
	GeoURL string `env:"GEO_URL" envDefault:"https://geoapi.qweather.com"`
	APIURL string `env:"API_URL" envDefault:"https://devapi.qweather.com"`
}

type GetGeoAPI struct {
	APIKey  string `env:"KEY"`
	BaseURL string `env:"BASE_URL" envDefault:"https://api.getgeoapi.com"`
}

// Dujiao is the upstream commerce API. BaseURL already carries the version prefix, e.g. https://shop.example.com/api/v1.
type Dujiao struct {
	BaseURL string        `env:"API_BASE_URL"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type Itinerary struct {
	Delay time.Duration `env:"DELAY" envDefault:"1500ms"`
}

type Session struct {
	CookieName   string        `env:"COOKIE_NAME" envDefault:"sid"`
	CookieSecure bool          `env:"COOKIE_SECURE" envDefault:"false"`
	MaxAge       time.Duration `env:"MAX_AGE" envDefault:"720h"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
