// Package farm owns the user-managed entities: profile, farms, animal types,
// records and preferences.
package farm

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmdash/internal/store"
)

// Service validates and persists farm data.
type Service struct {
	store  *store.Store
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a farm service over st.
func NewService(st *store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  st,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}
