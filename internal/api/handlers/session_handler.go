package handlers

import (
	"encoding/json"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/JordanChem/VideoGame-prediction/internal/forecast"
	"github.com/JordanChem/VideoGame-prediction/internal/metrics"
	"github.com/JordanChem/VideoGame-prediction/pkg/logger"
)

// SessionHandler serves interactive prediction sessions: each "predict"
// message gets one "prediction" or "error" reply.
type SessionHandler struct {
	predictor *forecast.Predictor
	defaults  Defaults
}

func NewSessionHandler(predictor *forecast.Predictor, defaults Defaults) *SessionHandler {
	return &SessionHandler{
		predictor: predictor,
		defaults:  defaults,
	}
}

type sessionMessage struct {
	Type  string         `json:"type"`
	Input PredictRequest `json:"input"`
}

func (h *SessionHandler) HandleConnection(c *websocket.Conn) {
	metrics.SessionsActive.Inc()
	logger.Info("Prediction session opened", zap.String("remote", c.RemoteAddr().String()))

	defer func() {
		c.Close()
		metrics.SessionsActive.Dec()
		logger.Info("Prediction session closed")
	}()

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("Failed to read session message", zap.Error(err))
			}
			break
		}

		if err := c.WriteJSON(h.process(raw)); err != nil {
			logger.Error("Failed to write session reply", zap.Error(err))
			break
		}
	}
}

// process turns one raw client message into its reply.
func (h *SessionHandler) process(raw []byte) map[string]any {
	var msg sessionMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		metrics.RecordInputError()
		return sessionError(decodeError(err))
	}

	switch msg.Type {
	case "predict":
		resp, err := predict(h.predictor, h.defaults, msg.Input)
		if err != nil {
			metrics.RecordInputError()
			return sessionError(err)
		}
		return map[string]any{
			"type":       "prediction",
			"prediction": resp,
		}
	case "ping":
		return map[string]any{"type": "pong"}
	default:
		return map[string]any{
			"type":  "error",
			"error": "unknown message type: " + msg.Type,
		}
	}
}

func sessionError(err error) map[string]any {
	body := errorBody(err)
	body["type"] = "error"
	return body
}
