package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmdash/internal/service/analytics"
)

const (
	defaultWeeks   = 8
	maxWeeks       = 52
	defaultCompare = 30
)

// Trends returns every chart series for the requested animal type.
func (h *APIHandler) Trends(c *gin.Context) {
	at, err := h.animalType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	weeks := defaultWeeks
	if raw := c.Query("weeks"); raw != "" {
		weeks, err = strconv.Atoi(raw)
		if err != nil || weeks < 1 || weeks > maxWeeks {
			respondError(c, h.logger, fieldError("weeks", "weeks must be between 1 and 52"))
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"animalTypeId":      at.ID,
		"production":        h.analytics.ProductionTrend(at.ID),
		"productionByWeek":  h.analytics.ProductionByWeek(at.ID, weeks),
		"feed":              h.analytics.FeedTrend(at.ID),
		"health":            h.analytics.HealthTrend(at.ID),
		"inventoryMovement": h.analytics.InventoryMovement(at.ID),
		"breedingActivity":  h.analytics.BreedingActivity(at.ID),
	})
}

// Stats returns the dashboard headline block.
func (h *APIHandler) Stats(c *gin.Context) {
	at, err := h.animalType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, h.analytics.Stats(at.ID))
}

// Compare totals a metric over two periods. Without explicit bounds it compares
// the trailing `days` (default 30) with the days before them.
func (h *APIHandler) Compare(c *gin.Context) {
	at, err := h.animalType(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	days := defaultCompare
	if raw := c.Query("days"); raw != "" {
		days, err = strconv.Atoi(raw)
		if err != nil || days < 1 {
			respondError(c, h.logger, fieldError("days", "days must be a positive integer"))
			return
		}
	}
	current, previous := analytics.TrailingPeriods(h.today(), days)

	if current, err = h.periodQuery(c, "from", "to", current); err != nil {
		respondError(c, h.logger, err)
		return
	}
	if previous, err = h.periodQuery(c, "previousFrom", "previousTo", previous); err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.analytics.Compare(at.ID, analytics.Metric(c.Query("metric")), current, previous)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"animalTypeId": at.ID,
		"metric":       c.Query("metric"),
		"current":      current,
		"previous":     previous,
		"comparison":   result,
	})
}

func (h *APIHandler) periodQuery(c *gin.Context, fromName, toName string, fallback analytics.Period) (analytics.Period, error) {
	from, err := h.dateQuery(c, fromName, fallback.From)
	if err != nil {
		return analytics.Period{}, err
	}
	to, err := h.dateQuery(c, toName, fallback.To)
	if err != nil {
		return analytics.Period{}, err
	}
	if to.Before(from) {
		return analytics.Period{}, fieldError(toName, "must not be before "+fromName)
	}
	return analytics.Period{From: from, To: to}, nil
}
