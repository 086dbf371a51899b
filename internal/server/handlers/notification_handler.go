package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/farmdash/internal/domain/models"
	"github.com/mamadbah2/farmdash/internal/service/reminders"
)

// allIDs addresses every visible reminder in the read and clear routes.
const allIDs = "all"

// defaultCalendarSpan is how far the calendar looks back and ahead by default.
const defaultCalendarSpan = 30

// ListNotifications returns the visible reminders, most urgent first.
func (h *APIHandler) ListNotifications(c *gin.Context) {
	list := h.reminders.List()
	if list == nil {
		list = []models.Notification{}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list, "unreadCount": reminders.UnreadCount(list)})
}

func (h *APIHandler) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unreadCount": h.reminders.UnreadCount()})
}

// MarkNotificationRead marks one reminder, or all of them for id "all".
func (h *APIHandler) MarkNotificationRead(c *gin.Context) {
	ctx := c.Request.Context()
	var err error
	if id := c.Param("id"); id == allIDs {
		err = h.reminders.MarkAllAsRead(ctx)
	} else {
		err = h.reminders.MarkAsRead(ctx, id)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearNotification hides one reminder, or all of them for id "all".
func (h *APIHandler) ClearNotification(c *gin.Context) {
	ctx := c.Request.Context()
	var err error
	if id := c.Param("id"); id == allIDs {
		err = h.reminders.ClearAll(ctx)
	} else {
		err = h.reminders.Clear(ctx, id)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Calendar lists dated farm events between from and to (defaults: 30 days
// either side of today).
func (h *APIHandler) Calendar(c *gin.Context) {
	today := h.today()
	from, err := h.dateQuery(c, "from", today.AddDate(0, 0, -defaultCalendarSpan))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	to, err := h.dateQuery(c, "to", today.AddDate(0, 0, defaultCalendarSpan))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if to.Before(from) {
		respondError(c, h.logger, fieldError("to", "must not be before from"))
		return
	}

	events := h.reminders.Calendar(from, to)
	if events == nil {
		events = []models.CalendarEvent{}
	}
	c.JSON(http.StatusOK, events)
}
