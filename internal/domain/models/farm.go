package models

import "time"

// TrackingFeature names an optional module that can be enabled per animal type.
type TrackingFeature string

const (
	FeatureFeed         TrackingFeature = "feed"
	FeatureHealth       TrackingFeature = "health"
	FeatureReproduction TrackingFeature = "reproduction"
	FeatureGenetics     TrackingFeature = "genetics"
	FeatureInventory    TrackingFeature = "inventory"
	FeatureProduction   TrackingFeature = "production"
)

// AllFeatures lists every tracking module in display order.
var AllFeatures = []TrackingFeature{
	FeatureFeed,
	FeatureHealth,
	FeatureReproduction,
	FeatureGenetics,
	FeatureInventory,
	FeatureProduction,
}

// Valid reports whether f is a known tracking module.
func (f TrackingFeature) Valid() bool {
	for _, known := range AllFeatures {
		if f == known {
			return true
		}
	}
	return false
}

// Terminology customises how an animal type names its young, sexes and birth event
// (e.g. kits/buck/doe/kindling for rabbits).
type Terminology struct {
	Young      string `json:"young"`
	Male       string `json:"male"`
	Female     string `json:"female"`
	BirthEvent string `json:"birthEvent"`
}

// DefaultTerminology is applied to any blank terminology field.
func DefaultTerminology() Terminology {
	return Terminology{
		Young:      "young",
		Male:       "male",
		Female:     "female",
		BirthEvent: "birth",
	}
}

// AnimalType is a user-configured category of livestock.
type AnimalType struct {
	ID              string            `json:"id"`
	FarmID          string            `json:"farmId,omitempty"`
	Name            string            `json:"name" validate:"notblank,max=50"`
	Icon            string            `json:"icon,omitempty"`
	Color           string            `json:"color,omitempty"`
	MeasurementUnit string            `json:"measurementUnit,omitempty"`
	Features        []TrackingFeature `json:"features" validate:"min=1,dive,feature"`
	Terminology     Terminology       `json:"terminology"`
	CreatedAt       time.Time         `json:"createdAt"`
}

// EntityID returns the animal type id.
func (a AnimalType) EntityID() string { return a.ID }

// HasFeature reports whether the tracking module is enabled for this type.
func (a AnimalType) HasFeature(f TrackingFeature) bool {
	for _, enabled := range a.Features {
		if enabled == f {
			return true
		}
	}
	return false
}

// WithDefaults fills blank terminology fields.
func (a AnimalType) WithDefaults() AnimalType {
	def := DefaultTerminology()
	if a.Terminology.Young == "" {
		a.Terminology.Young = def.Young
	}
	if a.Terminology.Male == "" {
		a.Terminology.Male = def.Male
	}
	if a.Terminology.Female == "" {
		a.Terminology.Female = def.Female
	}
	if a.Terminology.BirthEvent == "" {
		a.Terminology.BirthEvent = def.BirthEvent
	}
	return a
}

// Farm is a named holding that groups animal types.
type Farm struct {
	ID        string    `json:"id"`
	Name      string    `json:"name" validate:"notblank,max=100"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// EntityID returns the farm id.
func (f Farm) EntityID() string { return f.ID }

// UserProfile is the signed-in user. Login is a mock and trusts any credentials.
type UserProfile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	FarmName  string    `json:"farmName,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Preferences groups the independent theme and language keys for the API.
type Preferences struct {
	Theme    Theme  `json:"theme" validate:"omitempty,oneof=light dark system"`
	Language string `json:"language" validate:"omitempty,oneof=en fr es pt"`
}
