package models

// Service is a bookable package as shown to the visitor. The catalog is
// defined in config (or falls back to the built-in default set) and never
// changes after startup.
type Service struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	Setup       string   `yaml:"setup" json:"setup"`
	Retainer    string   `yaml:"retainer" json:"retainer"`
	Bullets     []string `yaml:"bullets" json:"bullets"`
	Limit       string   `yaml:"limit" json:"limit"`
}
