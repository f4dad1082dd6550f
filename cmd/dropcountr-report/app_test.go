package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	dropcountr "github.com/m-arav/dropcountr-go"
)

func TestRunProducesReport(t *testing.T) {
	var server *httptest.Server

	requireSession := func(w http.ResponseWriter, r *http.Request) bool {
		if c, err := r.Cookie("dcsession"); err != nil || c.Value != "tok-1" {
			w.WriteHeader(http.StatusForbidden)
			return false
		}
		return true
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "dcsession", Value: "tok-1", Path: "/"})
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/api/me", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		fmt.Fprintf(w, `{"data": {"name": "Ada", "premises": [{"@id": "%s/api/premises/1"}]}}`, server.URL)
	})
	mux.HandleFunc("/api/premises/1", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		fmt.Fprintf(w, `{"data": {
			"@id": "%[1]s/api/premises/1",
			"name": "Home",
			"service_connections": [{
				"@id": "%[1]s/api/service_connections/42",
				"meter_id": 42,
				"usage_series": {"template": "%[1]s/api/service_connections/42/usage/{period}/{during}"},
				"cost_series": {"template": "%[1]s/api/service_connections/42/cost/{period}/{during}"},
				"goal_series": {"template": ""}
			}]
		}}`, server.URL)
	})
	mux.HandleFunc("/api/service_connections/42/usage/", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		fmt.Fprint(w, `{"data": {"member": [
			{"during": "2023-01-01/2023-01-02", "total_gallons": 123.4, "is_leaking": false},
			{"during": "2023-01-02/2023-01-03", "total_gallons": 98.7, "is_leaking": true}
		]}}`)
	})
	mux.HandleFunc("/api/service_connections/42/cost/", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		fmt.Fprint(w, `{"data": {"member": [
			{"during": "2023-01-01/2023-01-02", "price": 3.5, "priceCurrency": "USD"}
		]}}`)
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		if !requireSession(w, r) {
			return
		}
		fmt.Fprint(w, `{"data": "ok"}`)
	})
	server = httptest.NewServer(mux)
	defer server.Close()

	config := &Config{
		Email:          "user@example.com",
		Password:       "hunter2",
		OutputCSV:      filepath.Join(t.TempDir(), "usage.csv"),
		CacheDirectory: "disable",
		Period:         "day",
		Days:           3,
	}
	app := &App{
		Config: config,
		Client: dropcountr.New(config.Email, config.Password, dropcountr.WithBaseURL(server.URL)),
	}

	require.NoError(t, app.Run(context.Background()))

	file, err := os.Open(config.OutputCSV)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus two period buckets")

	require.Equal(t, []string{
		"2023-01-01/2023-01-02", "Home", "42", "123.40", "false", "3.50", "USD", "NaN",
	}, records[1])
	require.Equal(t, []string{
		"2023-01-02/2023-01-03", "Home", "42", "98.70", "true", "NaN", "", "NaN",
	}, records[2])
}
