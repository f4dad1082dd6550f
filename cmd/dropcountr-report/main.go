package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// envOrString returns the environment variable value if set, otherwise returns the default value.
func envOrString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseFlags() *Config {
	email := flag.String("email", envOrString("DROPCOUNTR_EMAIL", ""), "Dropcountr account email")
	password := flag.String("password", envOrString("DROPCOUNTR_PASS", ""), "Dropcountr account password")
	outCSV := flag.String("out", envOrString("OUTPUT_CSV", "usage.csv"), "Output CSV file")
	cacheDir := flag.String("cache", envOrString("CACHE_DIR", "disable"), "Directory for HTTP cache ('disable' to disable, empty for temporary directory)")
	period := flag.String("period", "day", "Series period (hour, day or month)")
	days := flag.Int("days", 3, "Number of days to report on, ending today")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal().Msgf("Required flags missing. Usage: %s -email=... -password=...", os.Args[0])
	}

	return &Config{
		Email:          *email,
		Password:       *password,
		OutputCSV:      *outCSV,
		CacheDirectory: *cacheDir,
		Period:         *period,
		Days:           *days,
	}
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Credentials usually live in a .env file next to the binary; a missing
	// file just means they come from the real environment or flags.
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("Loaded .env file")
	}

	config := parseFlags()
	app := NewApp(config)

	if err := app.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Application error")
	}
}
