package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"cafe-api/logging"
	"cafe-api/metrics"
	"cafe-api/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// Column order expected in the first sheet of an import workbook
var importColumns = []string{
	"name", "map_url", "img_url", "location", "seats",
	"has_toilet", "has_wifi", "has_sockets", "can_take_calls", "coffee_price",
}

type skippedRow struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportCafes bulk-creates cafes from an uploaded .xlsx file. The first row
// is a header. Invalid or duplicate rows are skipped and reported.
func (h *Handler) ImportCafes(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "Excel file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		badRequest(c, "Unable to open Excel file")
		return
	}
	defer file.Close()

	xl, err := excelize.OpenReader(file)
	if err != nil {
		badRequest(c, "Failed to parse Excel file")
		return
	}
	defer xl.Close()

	sheets := xl.GetSheetList()
	if len(sheets) == 0 {
		badRequest(c, "Excel file has no sheets")
		return
	}
	rows, err := xl.GetRows(sheets[0])
	if err != nil || len(rows) < 2 {
		badRequest(c, "Excel must have a header row and at least one row of data")
		return
	}

	skipped := []skippedRow{}
	var cafes []models.Cafe
	var rowNumbers []int
	for i, row := range rows[1:] {
		rowNum := i + 2
		cafe, err := cafeFromRow(row)
		if err != nil {
			skipped = append(skipped, skippedRow{Row: rowNum, Error: err.Error()})
			continue
		}
		cafes = append(cafes, cafe)
		rowNumbers = append(rowNumbers, rowNum)
	}

	res, err := h.cafes.CreateBatch(c.Request.Context(), cafes)
	if err != nil {
		metrics.RecordMutation("import", "error")
		internalError(c, err, "Failed to import cafes")
		return
	}
	for _, f := range res.Failed {
		skipped = append(skipped, skippedRow{Row: rowNumbers[f.Index], Error: f.Err.Error()})
	}

	metrics.RecordMutation("import", "ok")
	logging.Ctx(c.Request.Context()).Info().
		Int("imported", len(res.Created)).
		Int("skipped", len(skipped)).
		Msg("cafe import finished")

	c.JSON(http.StatusOK, gin.H{
		"response": gin.H{"success": fmt.Sprintf("Imported %d cafes", len(res.Created))},
		"imported": len(res.Created),
		"skipped":  skipped,
	})
}

func cafeFromRow(row []string) (models.Cafe, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var missing []string
	for i := 0; i < 5; i++ {
		if cell(i) == "" {
			missing = append(missing, importColumns[i])
		}
	}
	if len(missing) > 0 {
		return models.Cafe{}, fmt.Errorf("missing %s", strings.Join(missing, ", "))
	}

	price := cell(9)
	return models.Cafe{
		Name:         cell(0),
		MapURL:       cell(1),
		ImgURL:       cell(2),
		Location:     cell(3),
		Seats:        cell(4),
		HasToilet:    models.ParseFlag(cell(5)),
		HasWifi:      models.ParseFlag(cell(6)),
		HasSockets:   models.ParseFlag(cell(7)),
		CanTakeCalls: models.ParseFlag(cell(8)),
		CoffeePrice:  optional(&price),
	}, nil
}
