package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JordanChem/VideoGame-prediction/internal/api/handlers"
	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/pkg/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			ReadTimeout:  5,
			WriteTimeout: 5,
			BodyLimit:    1 << 20,
			Development:  true,
		},
		Model: config.ModelConfig{ReferenceDate: "2025-02-12", CurvePoints: 20},
		Chart: config.ChartConfig{Width: 320, Height: 240, RendersPerMinute: 2},
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	rows := [][]string{
		{"Name", "Total vues trailer", "lag_day", "Instagram", "Facebook", "Tiktok", "global_sales"},
		{"Alpha", "100000", "10", "10000", "70000", "5000", "100"},
		{"Bravo", "250000", "-5", "20000", "20000", "9000", "200"},
		{"Charlie", "300000", "40", "30000", "55000", "1000", "300"},
		{"Delta", "420000", "22", "40000", "90000", "12000", "400"},
		{"Echo", "500000", "90", "50000", "15000", "7000", "500"},
	}
	table, err := dataset.Parse(rows, dataset.DefaultColumns())
	require.NoError(t, err)

	bank, err := forecast.Train(table.Records)
	require.NoError(t, err)

	sampler, err := forecast.NewCurveSampler(bank, forecast.WithPoints(20))
	require.NoError(t, err)

	srv := NewServer(testConfig(), Deps{
		Table:     table,
		Predictor: forecast.NewPredictor(bank),
		Sampler:   sampler,
		Defaults: handlers.Defaults{
			ReleaseDate:        time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
			TrailerViews:       100000,
			InstagramFollowers: 50000,
			FacebookFollowers:  75000,
			TikTokFollowers:    25000,
		},
	})
	t.Cleanup(func() { srv.limiter.Stop() })

	return srv
}

func do(t *testing.T, srv *Server, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := srv.App.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, body
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestPredictEndpoint(t *testing.T) {
	srv := newTestServer(t)

	t.Run("defaults", func(t *testing.T) {
		resp, body := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/v1/predict", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out handlers.PredictionResponse
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "2025-12-31", out.ReleaseDate)
		require.Equal(t, 322, out.LagDay)
		require.InDelta(t, 500, out.Instagram, 1e-6)
		require.InDelta(t, (out.Video+out.Instagram+out.Facebook+out.TikTok)/4, out.Final, 1e-9)
		require.NotEmpty(t, out.ID)
		require.NotEmpty(t, resp.Header.Get("X-Request-ID"))
	})

	t.Run("override", func(t *testing.T) {
		resp, body := do(t, srv, postJSON("/api/v1/predict", `{"instagram_followers":20000,"release_date":"2028-03-01"}`))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out handlers.PredictionResponse
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, 1113, out.LagDay)
		require.InDelta(t, 200, out.Instagram, 1e-6)
	})

	t.Run("non-numeric count", func(t *testing.T) {
		resp, body := do(t, srv, postJSON("/api/v1/predict", `{"trailer_views":"many"}`))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out map[string]string
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "trailer_views", out["field"])
	})

	t.Run("negative count", func(t *testing.T) {
		resp, body := do(t, srv, postJSON("/api/v1/predict", `{"tiktok_followers":-5}`))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
		require.Contains(t, string(body), "tiktok_followers")
	})

	t.Run("malformed json", func(t *testing.T) {
		resp, _ := do(t, srv, postJSON("/api/v1/predict", `{"tiktok_followers":`))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("wrong content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader("instagram=1"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, _ := do(t, srv, req)
		require.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
	})
}

func TestCurveEndpoints(t *testing.T) {
	srv := newTestServer(t)

	t.Run("json curve spans the training range", func(t *testing.T) {
		resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/curves/instagram", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Channel string `json:"channel"`
			Points  []struct {
				X float64 `json:"x"`
				Y float64 `json:"y"`
			} `json:"points"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.Equal(t, "instagram", out.Channel)
		require.Len(t, out.Points, 20)
		require.Equal(t, 10000.0, out.Points[0].X)
		require.Equal(t, 50000.0, out.Points[19].X)
		require.InDelta(t, 500, out.Points[19].Y, 1e-6)
	})

	t.Run("all channels", func(t *testing.T) {
		resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/curves?release_date=2026-01-01", nil))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Curves []struct {
				Channel string `json:"channel"`
				LagDay  int    `json:"lag_day"`
			} `json:"curves"`
		}
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out.Curves, 4)
		require.Equal(t, "video", out.Curves[0].Channel)
		require.Equal(t, 323, out.Curves[0].LagDay)
	})

	t.Run("unknown channel", func(t *testing.T) {
		resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/curves/myspace", nil))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("bad release date", func(t *testing.T) {
		resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/curves/video?release_date=soon", nil))
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("chart png is rate limited", func(t *testing.T) {
		for range 2 {
			resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/curves/tiktok/chart.png", nil))
			require.Equal(t, http.StatusOK, resp.StatusCode)
			require.Equal(t, "image/png", resp.Header.Get("Content-Type"))
			require.Equal(t, []byte("\x89PNG"), body[:4])
		}

		resp, _ := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/curves/tiktok/chart.png", nil))
		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	})
}

func TestDatasetAndModelEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/dataset/top?n=2", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var top struct {
		Records []struct {
			Name        string  `json:"name"`
			GlobalSales float64 `json:"global_sales"`
		} `json:"records"`
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(body, &top))
	require.Equal(t, 5, top.Total)
	require.Len(t, top.Records, 2)
	require.Equal(t, "Echo", top.Records[0].Name)
	require.Equal(t, "Delta", top.Records[1].Name)

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/dataset/top?n=0", nil))
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/model", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		ReferenceDate string `json:"reference_date"`
		Channels      []struct {
			Channel string  `json:"channel"`
			R2      float64 `json:"r2"`
		} `json:"channels"`
	}
	require.NoError(t, json.Unmarshal(body, &report))
	require.Equal(t, "2025-02-12", report.ReferenceDate)
	require.Len(t, report.Channels, 4)
	require.InDelta(t, 1, report.Channels[1].R2, 1e-9)

	resp, body = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/model?format=text", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "Model Bank Report")
}

func TestOperationalEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, body := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/ready", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.JSONEq(t, `{"status":"ready","records":5}`, string(body))

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	require.Empty(t, resp.Header.Get("Strict-Transport-Security"))

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, httptest.NewRequest(http.MethodGet, "/ws/session", nil))
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
