// Package weathervault fetches one short-term forecast snapshot and archives
// it to object storage under a collision-avoiding, date-scoped key.
package weathervault

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/daehan-lim/weathervault/config"
	"github.com/daehan-lim/weathervault/fetch"
	"github.com/daehan-lim/weathervault/keys"
	"github.com/daehan-lim/weathervault/storage"
	"github.com/daehan-lim/weathervault/telemetry"
)

// Result is the only externally observable outcome of one invocation.
type Result struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// App wires one invocation's collaborators together.
type App struct {
	Config  *config.Config
	Store   storage.System
	Fetcher *fetch.Client
	Logger  telemetry.Logger
	Metrics telemetry.Metrics

	// Now is replaceable by tests; nil means time.Now.
	Now func() time.Time
}

func NewApp(cfg *config.Config, store storage.System, logger telemetry.Logger, metrics telemetry.Metrics) *App {
	if logger == nil {
		logger = telemetry.NOPLogger{}
	}
	if metrics == nil {
		metrics = telemetry.NOPMetrics{}
	}

	fetcher := fetch.NewClient(cfg.OpenAPIURL, fetch.RetryPolicy{
		MaxAttempts: cfg.MaxRetries,
		Interval:    cfg.RetryInterval,
	}, logger, metrics)

	return &App{
		Config:  cfg,
		Store:   store,
		Fetcher: fetcher,
		Logger:  logger,
		Metrics: metrics,
	}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// Run executes one fetch, extract, encode, resolve, upload cycle. Every stage
// failure ends the run with a 400 result; only the happy path reaches 200.
func (a *App) Run(ctx context.Context) Result {
	runID := uuid.NewString()
	now := a.now()
	baseDate := now.Format("20060102")

	a.Logger.Info("starting snapshot run", "run_id", runID, "base_date", baseDate)

	resp, err := a.Fetcher.Fetch(ctx, fetch.Query{
		ServiceKey: a.Config.ServiceKey,
		PageNo:     a.Config.PageNo,
		NumOfRows:  a.Config.NumRows,
		BaseDate:   baseDate,
		BaseTime:   a.Config.BaseTime,
		Nx:         a.Config.GridX,
		Ny:         a.Config.GridY,
	})
	if err != nil {
		a.Logger.Error("fetch failed", err, "run_id", runID)
		return Result{StatusCode: 400, Body: "Fetch Fail"}
	}

	snap, err := resp.Snapshot()
	if err != nil {
		a.Logger.Error("extraction failed", err, "run_id", runID)
		return Result{StatusCode: 400, Body: "Malformed Response"}
	}

	payload, err := snap.Encode()
	if err != nil {
		a.Logger.Error("encoding failed", err, "run_id", runID)
		return Result{StatusCode: 400, Body: "Encode Fail"}
	}

	key, err := keys.Resolve(ctx, a.Store, a.Config.Prefix+a.Config.BaseKey, now)
	if err != nil {
		a.Logger.Error("key resolution failed", err, "run_id", runID)
		return Result{StatusCode: 400, Body: "Key Resolution Fail"}
	}

	if !a.upload(ctx, key, payload) {
		return Result{StatusCode: 400, Body: "Upload Fail"}
	}

	a.Metrics.IncrCount("upload.success", 1)
	a.Logger.Info("uploaded snapshot", "run_id", runID, "key", key, "bytes", len(payload))
	return Result{StatusCode: 200, Body: "Upload Success"}
}

// upload makes a single put attempt. A storage error is reported through the
// result, never propagated.
func (a *App) upload(ctx context.Context, key string, payload []byte) bool {
	if err := a.Store.Write(ctx, key, payload); err != nil {
		a.Logger.Error("upload failed", err, "key", key)
		a.Metrics.IncrCount("upload.failure", 1)
		return false
	}
	return true
}
