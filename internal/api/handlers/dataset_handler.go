package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/JordanChem/VideoGame-prediction/internal/dataset"
	"github.com/JordanChem/VideoGame-prediction/internal/errs"
)

const maxPreview = 100

type DatasetHandler struct {
	table *dataset.Table
}

func NewDatasetHandler(table *dataset.Table) *DatasetHandler {
	return &DatasetHandler{
		table: table,
	}
}

type recordView struct {
	Row          int      `json:"row"`
	Name         string   `json:"name,omitempty"`
	TrailerViews *int64   `json:"trailer_views"`
	LagDay       *int64   `json:"lag_day"`
	Instagram    *int64   `json:"instagram"`
	Facebook     *int64   `json:"facebook"`
	TikTok       *int64   `json:"tiktok"`
	GlobalSales  *float64 `json:"global_sales"`
}

// TopGames previews the best-selling records of the training data.
func (h *DatasetHandler) TopGames(c *fiber.Ctx) error {
	n := c.QueryInt("n", 5)
	if n < 1 || n > maxPreview {
		return c.Status(fiber.StatusBadRequest).JSON(errorBody(
			errs.NewInputError("n", "must be between 1 and %d", maxPreview),
		))
	}

	top := h.table.TopBySales(n)
	views := make([]recordView, len(top))
	for i, r := range top {
		views[i] = recordView{
			Row:          r.Row,
			Name:         r.Name,
			TrailerViews: r.TrailerViews,
			LagDay:       r.LagDay,
			Instagram:    r.Instagram,
			Facebook:     r.Facebook,
			TikTok:       r.TikTok,
			GlobalSales:  r.GlobalSales,
		}
	}

	return c.JSON(fiber.Map{
		"records": views,
		"total":   len(h.table.Records),
	})
}
