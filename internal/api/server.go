package api

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/internal/api/handlers"
	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/evaluation"
	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/internal/metrics"
	"github.com/JordanChem/VideoGame-prediction/internal/middleware/ratelimit"
	"github.com/JordanChem/VideoGame-prediction/internal/middleware/security"
	"github.com/JordanChem/VideoGame-prediction/internal/middleware/validation"
	"github.com/JordanChem/VideoGame-prediction/pkg/config"
	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

// Deps are the trained, read-only components the server exposes.
type Deps struct {
	Table     *dataset.Table
	Predictor *forecast.Predictor
	Sampler   *forecast.CurveSampler
	Defaults  handlers.Defaults
}

// Server wraps the fiber app together with the resources it owns.
type Server struct {
	App     *fiber.App
	limiter *ratelimit.RateLimiter
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	app := fiber.New(fiber.Config{
		ReadTimeout:           time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:             cfg.Server.BodyLimit,
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins(cfg.Server.AllowedOrigins),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(security.HeadersMiddleware(security.HeadersConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		IsDevelopment:  cfg.Server.Development,
	}))
	app.Use(validation.Middleware(validation.Config{
		MaxBodySize: cfg.Server.BodyLimit,
		JSONPaths:   []string{"/api/v1/predict"},
		Logger:      logger.Log,
	}))

	bank := deps.Predictor.Bank()
	limiter := ratelimit.New(ratelimit.Config{
		MaxRequestsPerMinute: cfg.Chart.RendersPerMinute,
		Logger:               logger.Log,
	})

	predictionHandler := handlers.NewPredictionHandler(deps.Predictor, deps.Defaults)
	curveHandler := handlers.NewCurveHandler(deps.Sampler, bank, deps.Defaults, cfg.Chart.Width, cfg.Chart.Height)
	datasetHandler := handlers.NewDatasetHandler(deps.Table)
	modelHandler := handlers.NewModelHandler(evaluation.NewEvaluator(bank, deps.Table))
	sessionHandler := handlers.NewSessionHandler(deps.Predictor, deps.Defaults)

	api := app.Group("/api/v1")

	api.Post("/predict", predictionHandler.HandlePredict)
	api.Get("/predict/defaults", predictionHandler.HandleDefaults)

	api.Get("/curves", curveHandler.HandleCurves)
	api.Get("/curves/:channel", curveHandler.HandleCurve)
	api.Get("/curves/:channel/chart.png", limiter.Middleware(), curveHandler.HandleChart)

	api.Get("/dataset/top", datasetHandler.TopGames)
	api.Get("/model", modelHandler.GetModel)

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Unix(),
		})
	})

	api.Get("/ready", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ready",
			"records": len(deps.Table.Records),
		})
	})

	app.Get("/metrics", metrics.MetricsHandler())

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/session", websocket.New(sessionHandler.HandleConnection))

	return &Server{App: app, limiter: limiter}
}

func (s *Server) Listen(addr string) error {
	return s.App.Listen(addr)
}

func (s *Server) Shutdown() error {
	s.limiter.Stop()
	return s.App.Shutdown()
}

func allowOrigins(origins []string) string {
	if len(origins) == 0 {
		return "*"
	}
	return strings.Join(origins, ", ")
}

func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		logger.Debug("Request handled",
			zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("took", time.Since(start)),
		)

		return err
	}
}
