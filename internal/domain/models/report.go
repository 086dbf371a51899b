package models

import "time"

// DailyReport is the per-animal-type snapshot archived by the scheduler.
type DailyReport struct {
	Date            time.Time `bson:"date" json:"date"`
	AnimalTypeID    string    `bson:"animal_type_id" json:"animalTypeId"`
	AnimalTypeName  string    `bson:"animal_type_name" json:"animalTypeName"`
	LiveAnimals     int       `bson:"live_animals" json:"liveAnimals"`
	ProductionTotal float64   `bson:"production_total" json:"productionTotal"`
	FeedConsumed    float64   `bson:"feed_consumed" json:"feedConsumed"`
	FeedCost        float64   `bson:"feed_cost" json:"feedCost"`
	HealthEvents    int       `bson:"health_events" json:"healthEvents"`
	BreedingEvents  int       `bson:"breeding_events" json:"breedingEvents"`
	OpenReminders   int       `bson:"open_reminders" json:"openReminders"`
	CreatedAt       time.Time `bson:"created_at" json:"createdAt"`
}

// DailyReportHeader labels the columns of Row.
func DailyReportHeader() []interface{} {
	return []interface{}{
		"Date",
		"Animal type",
		"Live animals",
		"Production",
		"Feed consumed",
		"Feed cost",
		"Health events",
		"Breeding events",
		"Open reminders",
	}
}

// Row flattens the report for spreadsheet export.
func (r DailyReport) Row() []interface{} {
	return []interface{}{
		r.Date.Format(DateLayout),
		r.AnimalTypeName,
		r.LiveAnimals,
		r.ProductionTotal,
		r.FeedConsumed,
		r.FeedCost,
		r.HealthEvents,
		r.BreedingEvents,
		r.OpenReminders,
	}
}
