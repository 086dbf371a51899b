package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

type loginRequest struct {
	Email string `json:"email" binding:"required"`
	Name  string `json:"name"`
}

type profileRequest struct {
	Name     string `json:"name"`
	FarmName string `json:"farmName"`
}

type farmRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// Login signs the single local user in.
func (h *APIHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	profile, err := h.farm.Login(c.Request.Context(), req.Email, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// Logout clears the stored profile.
func (h *APIHandler) Logout(c *gin.Context) {
	if err := h.farm.Logout(c.Request.Context()); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetProfile returns the signed-in profile.
func (h *APIHandler) GetProfile(c *gin.Context) {
	profile := h.farm.Profile()
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not signed in"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *APIHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	profile, err := h.farm.UpdateProfile(c.Request.Context(), req.Name, req.FarmName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ListFarms returns every farm and the selected farm id.
func (h *APIHandler) ListFarms(c *gin.Context) {
	selected := ""
	if f, ok := h.farm.SelectedFarm(); ok {
		selected = f.ID
	}
	c.JSON(http.StatusOK, gin.H{"farms": h.farm.ListFarms(), "selectedFarmId": selected})
}

func (h *APIHandler) CreateFarm(c *gin.Context) {
	var req farmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	f, err := h.farm.CreateFarm(c.Request.Context(), req.Name, req.Location)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, f)
}

func (h *APIHandler) SelectFarm(c *gin.Context) {
	if err := h.farm.SelectFarm(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListAnimalTypes returns the configured animal types and the selection.
func (h *APIHandler) ListAnimalTypes(c *gin.Context) {
	selected := ""
	if at, ok := h.farm.SelectedAnimalType(); ok {
		selected = at.ID
	}
	c.JSON(http.StatusOK, gin.H{"animalTypes": h.farm.ListAnimalTypes(), "selectedAnimalTypeId": selected})
}

func (h *APIHandler) GetAnimalType(c *gin.Context) {
	at, err := h.farm.GetAnimalType(c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, at)
}

func (h *APIHandler) CreateAnimalType(c *gin.Context) {
	var req models.AnimalType
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	at, err := h.farm.CreateAnimalType(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, at)
}

func (h *APIHandler) UpdateAnimalType(c *gin.Context) {
	var req models.AnimalType
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	at, err := h.farm.UpdateAnimalType(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, at)
}

// DeleteAnimalType removes the type and every record it owns.
func (h *APIHandler) DeleteAnimalType(c *gin.Context) {
	if err := h.farm.DeleteAnimalType(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) SelectAnimalType(c *gin.Context) {
	if err := h.farm.SelectAnimalType(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *APIHandler) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, h.farm.Preferences())
}

func (h *APIHandler) UpdatePreferences(c *gin.Context) {
	var req models.Preferences
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	p, err := h.farm.UpdatePreferences(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *APIHandler) GetNotificationSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.farm.NotificationSettings())
}

// UpdateNotificationSettings applies the fields present in the body over the
// stored settings. Reminders are regenerated on the next read.
func (h *APIHandler) UpdateNotificationSettings(c *gin.Context) {
	req := h.farm.NotificationSettings()
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadBody(c, h.logger, err)
		return
	}
	settings, err := h.farm.UpdateNotificationSettings(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
