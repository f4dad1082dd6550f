package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	dropcountr "github.com/m-arav/dropcountr-go"
)

// Config contains configuration for the application.
type Config struct {
	Email          string
	Password       string
	OutputCSV      string
	CacheDirectory string
	Period         string
	Days           int
}

// App manages application dependencies and logic.
type App struct {
	Config *Config
	Client *dropcountr.Client
}

func NewApp(config *Config) *App {
	rt := http.DefaultTransport

	if config.CacheDirectory != "disable" {
		cacheDir := config.CacheDirectory
		if cacheDir == "" {
			cacheDir = os.TempDir()
		}
		if err := os.MkdirAll(cacheDir, 0755); err != nil {
			log.Fatal().Err(err).Msg("failed to create cache dir")
		}

		rt = &CachingRoundTripper{
			UnderlyingTransport: http.DefaultTransport, CacheDir: filepath.Clean(cacheDir),
		}

		log.Info().Str("dir", cacheDir).Msg("HTTP caching enabled")
	} else {
		log.Info().Msg("HTTP caching disabled")
	}

	client := dropcountr.New(config.Email, config.Password, dropcountr.WithTransport(rt))

	return &App{
		Config: config,
		Client: client,
	}
}

func (app *App) Run(ctx context.Context) error {
	defer app.Client.Close()

	resp, err := app.Client.Login(ctx)
	if err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("login rejected with status %s", resp.Status)
	}
	log.Info().Int("status", resp.StatusCode).Msg("Logged in")

	user, err := app.Client.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetching user: %w", err)
	}
	log.Info().Str("name", user.Name).Int("premises", len(user.Premises)).Msg("Authenticated")

	during := dropcountr.Interval(time.Now().AddDate(0, 0, -app.Config.Days), time.Now())
	log.Info().Str("during", during).Str("period", app.Config.Period).Msg("Reporting range")

	var rows []*ReportRow
	for _, ref := range user.Premises {
		premise, err := app.Client.Premise(ctx, ref.ID)
		if err != nil {
			return fmt.Errorf("fetching premise %s: %w", ref.ID, err)
		}
		log.Info().Str("premise", premise.Name).Int("meters", len(premise.ServiceConnections)).Msg("Loaded premise")

		for _, sc := range premise.ServiceConnections {
			meterRows, err := app.collectRows(ctx, premise.Name, sc, during)
			if err != nil {
				return err
			}
			rows = append(rows, meterRows...)
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].During != rows[j].During {
			return rows[i].During < rows[j].During
		}
		return rows[i].MeterID < rows[j].MeterID
	})

	if err := writeCSV(app.Config.OutputCSV, rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	log.Info().Str("file", app.Config.OutputCSV).Int("rows", len(rows)).Msg("Wrote CSV")

	if _, err := app.Client.Logout(ctx); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}

	return nil
}

// collectRows fetches the usage, cost and goal series for one meter and
// merges them into per-bucket report rows.
func (app *App) collectRows(ctx context.Context, premiseName string, sc dropcountr.ServiceConnection, during string) ([]*ReportRow, error) {
	byBucket := map[string]*ReportRow{}
	row := func(bucket string) *ReportRow {
		r, ok := byBucket[bucket]
		if !ok {
			r = &ReportRow{
				During:  bucket,
				Premise: premiseName,
				MeterID: sc.MeterID.String(),
			}
			byBucket[bucket] = r
		}
		return r
	}

	usage, err := app.Client.Usage(ctx, sc.UsageSeries.Template, app.Config.Period, during)
	if err != nil {
		return nil, fmt.Errorf("fetching usage for meter %s: %w", sc.MeterID, err)
	}
	for _, e := range usage.Member {
		r := row(e.During)
		gallons := e.TotalGallons
		leaking := e.IsLeaking
		r.TotalGallons = &gallons
		r.IsLeaking = &leaking
	}

	// Not every service connection exposes cost or goal series.
	if sc.CostSeries.Template != "" {
		costs, err := app.Client.Cost(ctx, sc.CostSeries.Template, app.Config.Period, during)
		if err != nil {
			return nil, fmt.Errorf("fetching costs for meter %s: %w", sc.MeterID, err)
		}
		for _, e := range costs.Member {
			r := row(e.During)
			r.Price = e.Price
			r.PriceCurrency = e.PriceCurrency
		}
	}

	if sc.GoalSeries.Template != "" {
		goals, err := app.Client.Goal(ctx, sc.GoalSeries.Template, app.Config.Period, during)
		if err != nil {
			return nil, fmt.Errorf("fetching goals for meter %s: %w", sc.MeterID, err)
		}
		for _, e := range goals.Member {
			r := row(e.During)
			gallons := e.TotalGallons
			r.GoalGallons = &gallons
		}
	}

	log.Info().Str("meter", sc.MeterID.String()).Int("buckets", len(byBucket)).Msg("Collected series")

	rows := make([]*ReportRow, 0, len(byBucket))
	for _, r := range byBucket {
		rows = append(rows, r)
	}
	return rows, nil
}
