package config

import (
	"os"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
)

// Config carries everything one invocation needs. It is built once at process
// start and passed by parameter; there are no ambient globals.
type Config struct {
	// Upstream forecast API.
	OpenAPIURL string `validate:"required,url"`
	ServiceKey string `validate:"required"`
	GridX      int    `validate:"required"`
	GridY      int    `validate:"required"`
	BaseTime   string `validate:"required,len=4"` // HHMM
	PageNo     int    `validate:"required,min=1"`
	NumRows    int    `validate:"required,min=1"`

	// Object storage.
	AccessKeyID     string `validate:"required"`
	SecretAccessKey string `validate:"required"`
	Region          string `validate:"required"`
	Bucket          string `validate:"required"`
	Prefix          string
	BaseKey         string `validate:"required"`

	// Fetch retry policy.
	MaxRetries    int           `validate:"required,min=1"`
	RetryInterval time.Duration `validate:"required"`
}

// Load reads configuration from the environment. Any missing required value
// fails here, before the run makes any network call.
func Load() (*Config, error) {
	interval, err := time.ParseDuration(getenvDefault("FETCH_RETRY_INTERVAL", "3s"))
	if err != nil {
		return nil, errors.Wrap(err, "invalid FETCH_RETRY_INTERVAL")
	}

	cfg := &Config{
		OpenAPIURL: os.Getenv("WEATHER_OPENAPI_URL"),
		ServiceKey: os.Getenv("WEATHER_DATA_API_KEY"),
		GridX:      getenvInt("NX", 55),
		GridY:      getenvInt("NY", 127),
		BaseTime:   getenvDefault("BASE_TIME", "0200"),
		PageNo:     1,
		NumRows:    1000,

		AccessKeyID:     os.Getenv("ACCESS_KEY"),
		SecretAccessKey: os.Getenv("SECRET_ACCESS_KEY"),
		Region:          os.Getenv("REGION"),
		Bucket:          os.Getenv("BUCKET"),
		Prefix:          os.Getenv("PREFIX"),
		BaseKey:         getenvDefault("FILE_KEY", "lambda_weather_data"),

		MaxRetries:    getenvInt("FETCH_MAX_RETRIES", 10),
		RetryInterval: interval,
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
