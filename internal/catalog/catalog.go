package catalog

import (
	"reservas/internal/models"
)

// Catalog is the process-wide, read-only table of services and time slots.
// Built once at startup; safe for concurrent readers.
type Catalog struct {
	services []models.Service
	slots    []string
	byID     map[string]int
}

// New builds a catalog from the configured tables. Empty inputs fall back to
// the built-in defaults so the wizard always has at least one service.
func New(services []models.Service, slots []string) *Catalog {
	if len(services) == 0 {
		services = models.DefaultServices()
	}
	if len(slots) == 0 {
		slots = models.DefaultSlots()
	}

	byID := make(map[string]int, len(services))
	for i, svc := range services {
		byID[svc.ID] = i
	}

	return &Catalog{services: services, slots: slots, byID: byID}
}

// FindService resolves an id to a service. Unknown ids resolve to the first
// cataloged service: the wizard must always hold a valid selection, so the
// lookup degrades instead of failing.
func (c *Catalog) FindService(id string) models.Service {
	if i, ok := c.byID[id]; ok {
		return c.services[i]
	}
	return c.services[0]
}

// HasService reports whether the id is actually cataloged.
func (c *Catalog) HasService(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// First returns the default service used for fresh and reset drafts.
func (c *Catalog) First() models.Service {
	return c.services[0]
}

// Services returns a copy of the service table.
func (c *Catalog) Services() []models.Service {
	out := make([]models.Service, len(c.services))
	copy(out, c.services)
	return out
}

// Slots returns a copy of the slot table.
func (c *Catalog) Slots() []string {
	out := make([]string, len(c.slots))
	copy(out, c.slots)
	return out
}

// HasSlot reports whether the label is one of the bookable slots.
func (c *Catalog) HasSlot(label string) bool {
	for _, s := range c.slots {
		if s == label {
			return true
		}
	}
	return false
}
