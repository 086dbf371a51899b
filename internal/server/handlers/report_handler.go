package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/service/reporting"
)

// defaultReportDays is the period a text report covers without from/to.
const defaultReportDays = 30

// TextReport serves the plain-text report as a download.
func (h *APIHandler) TextReport(c *gin.Context) {
	at, err := h.animalType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	today := h.today()
	from, err := h.dateQuery(c, "from", today.AddDate(0, 0, -(defaultReportDays-1)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := h.dateQuery(c, "to", today)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	text, err := h.reporting.TextReport(at.ID, from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", attachment(at, today, "txt"))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// ExcelReport serves the xlsx workbook of every record of the animal type.
func (h *APIHandler) ExcelReport(c *gin.Context) {
	at, err := h.animalType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	data, err := h.reporting.ExcelReport(at.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Content-Disposition", attachment(at, h.today(), "xlsx"))
	c.Data(http.StatusOK, reporting.ExcelContentType, data)
}

// ReportHistory lists archived daily snapshots between from and to (default:
// the last 30 days). animalTypeId narrows the list.
func (h *APIHandler) ReportHistory(c *gin.Context) {
	if h.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archive is not configured"})
		return
	}

	today := h.today()
	from, err := h.dateQuery(c, "from", today.AddDate(0, 0, -(defaultReportDays-1)))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := h.dateQuery(c, "to", today)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	reports, err := h.archive.ListDailyReports(c.Request.Context(), c.Query("animalTypeId"), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if reports == nil {
		reports = []models.DailyReport{}
	}
	c.JSON(http.StatusOK, reports)
}

func attachment(at models.AnimalType, day time.Time, ext string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case r == ' ':
			return '-'
		}
		return -1
	}, strings.ToLower(strings.TrimSpace(at.Name)))
	if slug == "" {
		slug = "report"
	}
	return fmt.Sprintf(`attachment; filename="farmdash-%s-%s.%s"`, slug, day.Format(models.DateLayout), ext)
}
