package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/repository/mongodb"
	"github.com/mamadbah2/farmdash/internal/service/analytics"
	"github.com/mamadbah2/farmdash/internal/service/farm"
	"github.com/mamadbah2/farmdash/internal/service/reminders"
	"github.com/mamadbah2/farmdash/internal/service/reporting"
)

// APIServices bundles the services behind the dashboard API.
type APIServices struct {
	Farm      *farm.Service
	Reminders *reminders.Service
	Analytics *analytics.Service
	Reporting *reporting.Service
	// Archive is nil when MongoDB is not configured.
	Archive mongodb.Repository
}

// APIHandler serves the /api routes used by the dashboard.
type APIHandler struct {
	farm      *farm.Service
	reminders *reminders.Service
	analytics *analytics.Service
	reporting *reporting.Service
	archive   mongodb.Repository
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time
}

// NewAPIHandler constructs the dashboard API adapter. "Today" defaults are taken in loc.
func NewAPIHandler(svc APIServices, loc *time.Location, logger *zap.Logger) *APIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &APIHandler{
		farm:      svc.Farm,
		reminders: svc.Reminders,
		analytics: svc.Analytics,
		reporting: svc.Reporting,
		archive:   svc.Archive,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}
}

func (h *APIHandler) today() time.Time {
	return models.Day(h.now().In(h.loc))
}

// animalType resolves the animalTypeId query parameter, falling back to the
// selected animal type.
func (h *APIHandler) animalType(c *gin.Context) (models.AnimalType, error) {
	if id := c.Query("animalTypeId"); id != "" {
		return h.farm.GetAnimalType(id)
	}
	if at, ok := h.farm.SelectedAnimalType(); ok {
		return at, nil
	}
	return models.AnimalType{}, fieldError("animalTypeId", "animal type is required")
}

// dateQuery parses an optional YYYY-MM-DD query parameter.
func (h *APIHandler) dateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return time.Time{}, fieldError(name, "date must be YYYY-MM-DD")
	}
	return d, nil
}
