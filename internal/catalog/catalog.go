// Package catalog holds the read-only display data for the site: services,
// events, job postings and per-page meta tags.
package catalog

import (
	_ "embed"
	"fmt"

	"github.com/firstpriority/website/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultDocument []byte

// Catalog is immutable after construction. Accessors hand out copies.
type Catalog struct {
	data model.Catalog
}

// Default parses the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultDocument)
}

// Parse decodes a YAML catalog document.
func Parse(doc []byte) (*Catalog, error) {
	var data model.Catalog
	if err := yaml.Unmarshal(doc, &data); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	for i, e := range data.Events {
		if e.Status != model.EventPast && e.Status != model.EventUpcoming {
			return nil, fmt.Errorf("catalog: event %d (%q): unknown status %q", i, e.Name, e.Status)
		}
	}
	return &Catalog{data: data}, nil
}

// Services returns every service offering.
func (c *Catalog) Services() []model.Service {
	out := make([]model.Service, len(c.data.Services))
	for i, s := range c.data.Services {
		s.Features = append([]string(nil), s.Features...)
		out[i] = s
	}
	return out
}

// Events returns every event in catalog order.
func (c *Catalog) Events() []model.Event {
	return append([]model.Event(nil), c.data.Events...)
}

// UpcomingEvents returns events whose status is "Upcoming".
func (c *Catalog) UpcomingEvents() []model.Event {
	return c.eventsWithStatus(model.EventUpcoming)
}

// PastEvents returns events whose status is "Past".
func (c *Catalog) PastEvents() []model.Event {
	return c.eventsWithStatus(model.EventPast)
}

func (c *Catalog) eventsWithStatus(status string) []model.Event {
	var out []model.Event
	for _, e := range c.data.Events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Jobs returns every open position.
func (c *Catalog) Jobs() []model.Job {
	out := make([]model.Job, len(c.data.Jobs))
	for i, j := range c.data.Jobs {
		j.Details = append([]string(nil), j.Details...)
		out[i] = j
	}
	return out
}

// Page returns the meta tags for a page key such as "home" or "contact".
// Unknown keys yield an empty PageMeta.
func (c *Catalog) Page(key string) model.PageMeta {
	return c.data.Pages[key]
}
