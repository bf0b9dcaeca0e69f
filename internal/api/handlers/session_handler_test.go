package handlers

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSessionProcess(t *testing.T) {
	h := NewSessionHandler(testPredictor(t), testDefaults())

	t.Run("predict with defaults", func(t *testing.T) {
		reply := h.process([]byte(`{"type":"predict","input":{}}`))
		require.Equal(t, "prediction", reply["type"])

		resp, ok := reply["prediction"].(*PredictionResponse)
		require.True(t, ok)
		require.Equal(t, 322, resp.LagDay)
		require.InDelta(t, 500, resp.Instagram, 1e-6)
		require.InDelta(t, (resp.Video+resp.Instagram+resp.Facebook+resp.TikTok)/4, resp.Final, 1e-9)
		require.NotEmpty(t, resp.ID)
	})

	t.Run("input error keeps the session usable", func(t *testing.T) {
		reply := h.process([]byte(`{"type":"predict","input":{"trailer_views":-1}}`))
		require.Equal(t, "error", reply["type"])
		require.Equal(t, "trailer_views", reply["field"])

		reply = h.process([]byte(`{"type":"predict","input":{"instagram_followers":10000}}`))
		require.Equal(t, "prediction", reply["type"])
		require.InDelta(t, 100, reply["prediction"].(*PredictionResponse).Instagram, 1e-6)
	})

	t.Run("malformed message", func(t *testing.T) {
		reply := h.process([]byte(`{"type":`))
		require.Equal(t, "error", reply["type"])
	})

	t.Run("ping", func(t *testing.T) {
		require.Equal(t, map[string]any{"type": "pong"}, h.process([]byte(`{"type":"ping"}`)))
	})

	t.Run("unknown type", func(t *testing.T) {
		reply := h.process([]byte(`{"type":"train"}`))
		require.Equal(t, "error", reply["type"])
		require.Contains(t, reply["error"], "train")
	})
}
