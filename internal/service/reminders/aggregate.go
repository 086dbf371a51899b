package reminders

import (
	"sort"

	"github.com/mamadbah2/farmdash/internal/domain/models"
)

// IDSet is a set of reminder ids.
type IDSet map[string]struct{}

// NewIDSet builds a set from the persisted id list.
func NewIDSet(ids []string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Aggregate drops cleared candidates, marks read ones and orders the rest by
// priority, then by date. Candidates with equal priority and date keep rule order.
func Aggregate(candidates []models.Notification, read, cleared IDSet) []models.Notification {
	out := make([]models.Notification, 0, len(candidates))
	for _, n := range candidates {
		if cleared.Has(n.ID) {
			continue
		}
		n.Read = read.Has(n.ID)
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, rj := out[i].Priority.Rank(), out[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// UnreadCount counts reminders that are not read.
func UnreadCount(notifications []models.Notification) int {
	n := 0
	for _, item := range notifications {
		if !item.Read {
			n++
		}
	}
	return n
}

// appendUnique adds ids missing from list, preserving order.
func appendUnique(list []string, ids ...string) []string {
	seen := NewIDSet(list)
	for _, id := range ids {
		if seen.Has(id) {
			continue
		}
		seen[id] = struct{}{}
		list = append(list, id)
	}
	return list
}
