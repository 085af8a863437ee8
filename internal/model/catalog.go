package model

// Service is one offering shown on the services page.
type Service struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Tag         string   `yaml:"tag"`
}

// Event status values.
const (
	EventPast     = "Past"
	EventUpcoming = "Upcoming"
)

// Event is a company event listed on the events page.
type Event struct {
	Name        string `yaml:"name"`
	Date        string `yaml:"date"`
	Location    string `yaml:"location"`
	Status      string `yaml:"status"` // "Past" | "Upcoming"
	Description string `yaml:"description"`
}

// Job is an open position listed on the hiring page.
type Job struct {
	Title   string   `yaml:"title"`
	Summary string   `yaml:"summary"`
	Details []string `yaml:"details"`
}

// PageMeta carries the <title> and meta description for a page.
type PageMeta struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// Catalog is the static display data for the site.
type Catalog struct {
	Services []Service           `yaml:"services"`
	Events   []Event             `yaml:"events"`
	Jobs     []Job               `yaml:"jobs"`
	Pages    map[string]PageMeta `yaml:"pages"`
}
