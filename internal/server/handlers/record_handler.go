package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// ListRecords lists one record kind, newest first. animalTypeId narrows the list.
func (h *APIHandler) ListRecords(c *gin.Context) {
	kind, err := models.ParseRecordKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	records, err := h.farm.ListRecords(kind, c.Query("animalTypeId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	c.JSON(http.StatusOK, records)
}

func (h *APIHandler) GetRecord(c *gin.Context) {
	kind, err := models.ParseRecordKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	rec, err := h.farm.GetRecord(kind, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *APIHandler) CreateRecord(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	created, err := h.farm.CreateRecord(c.Request.Context(), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *APIHandler) UpdateRecord(c *gin.Context) {
	rec, ok := h.bindRecord(c)
	if !ok {
		return
	}
	updated, err := h.farm.UpdateRecord(c.Request.Context(), c.Param("id"), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *APIHandler) DeleteRecord(c *gin.Context) {
	kind, err := models.ParseRecordKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if err := h.farm.DeleteRecord(c.Request.Context(), kind, c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// bindRecord decodes the body into the variant named by the :kind segment.
// Validation is left to the service so the field messages are uniform.
func (h *APIHandler) bindRecord(c *gin.Context) (models.Record, bool) {
	kind, err := models.ParseRecordKind(c.Param("kind"))
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	rec, err := models.NewRecord(kind)
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	if err := c.ShouldBindJSON(rec); err != nil {
		respondBadBody(c, h.logger, err)
		return nil, false
	}
	return rec, true
}
