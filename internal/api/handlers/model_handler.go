package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JordanChem/VideoGame-prediction/internal/evaluation"
)

type ModelHandler struct {
	evaluator *evaluation.Evaluator
	report    *evaluation.Report
}

// NewModelHandler evaluates the bank once; the bank never changes afterwards.
func NewModelHandler(evaluator *evaluation.Evaluator) *ModelHandler {
	return &ModelHandler{
		evaluator: evaluator,
		report:    evaluator.Evaluate(),
	}
}

func (h *ModelHandler) GetModel(c *fiber.Ctx) error {
	if c.Query("format") == "text" {
		return c.SendString(h.evaluator.GenerateReport(h.report))
	}

	return c.JSON(h.report)
}
