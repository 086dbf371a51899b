package models

import "time"

// NotificationType identifies the rule that produced a reminder.
type NotificationType string

const (
	NotificationVaccination NotificationType = "vaccination"
	NotificationBirth       NotificationType = "birth"
	NotificationInventory   NotificationType = "inventory"
	NotificationHealthCheck NotificationType = "health_check"
)

// Priority orders reminders in the aggregated list.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Rank maps high, medium, low to 0, 1, 2. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Notification is a derived reminder. Only its read and cleared state is persisted,
// keyed by ID, so the ID must be stable across recomputation.
type Notification struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Title          string           `json:"title"`
	Message        string           `json:"message"`
	AnimalTypeID   string           `json:"animalTypeId,omitempty"`
	AnimalTypeName string           `json:"animalTypeName,omitempty"`
	Date           time.Time        `json:"date"`
	Priority       Priority         `json:"priority"`
	Read           bool             `json:"read"`
}

// NotificationSettings gates each reminder rule and holds its thresholds.
type NotificationSettings struct {
	VaccinationReminders    bool `json:"vaccinationReminders"`
	BirthReminders          bool `json:"birthReminders"`
	LowInventoryAlerts      bool `json:"lowInventoryAlerts"`
	HealthCheckReminders    bool `json:"healthCheckReminders"`
	VaccinationDaysBefore   int  `json:"vaccinationDaysBefore" validate:"min=0,max=365"`
	BirthDaysBefore         int  `json:"birthDaysBefore" validate:"min=0,max=365"`
	LowInventoryThreshold   int  `json:"lowInventoryThreshold" validate:"gte=0"`
	HealthCheckIntervalDays int  `json:"healthCheckIntervalDays" validate:"min=1,max=730"`
}

// DefaultNotificationSettings enables every rule with the stock thresholds.
func DefaultNotificationSettings() NotificationSettings {
	return NotificationSettings{
		VaccinationReminders:    true,
		BirthReminders:          true,
		LowInventoryAlerts:      true,
		HealthCheckReminders:    true,
		VaccinationDaysBefore:   7,
		BirthDaysBefore:         7,
		LowInventoryThreshold:   10,
		HealthCheckIntervalDays: 30,
	}
}

// CalendarEvent is one dated entry in the farm calendar.
type CalendarEvent struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	Kind           string    `json:"kind"`
	AnimalTypeID   string    `json:"animalTypeId"`
	AnimalTypeName string    `json:"animalTypeName"`
	Upcoming       bool      `json:"upcoming"`
}
