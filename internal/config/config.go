package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"flms/internal/league"
)

// TeamEntry is one roster line. ID is optional and defaults to the
// slugified name.
type TeamEntry struct {
	ID    string `yaml:"id" validate:"omitempty,min=2,max=50"`
	Name  string `yaml:"name" validate:"required,min=2,max=50"`
	Venue string `yaml:"venue" validate:"required,min=2,max=100"`
}

// Config is the league file. Team order matters: generation is
// deterministic over the order teams appear here.
type Config struct {
	League string      `yaml:"league" validate:"required,min=3"`
	Season string      `yaml:"season" validate:"required,min=4"`
	Teams  []TeamEntry `yaml:"teams" validate:"dive"`
}

// Roster returns the teams in file order, ready for the scheduler.
func (c *Config) Roster() []league.Team {
	teams := make([]league.Team, len(c.Teams))
	for i, t := range c.Teams {
		teams[i] = league.Team{ID: t.ID, Name: t.Name, Venue: t.Venue}
	}
	return teams
}

// LoadFromBytes parses YAML bytes into a Config and validates it.
func LoadFromBytes(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromFile reads and parses a YAML league file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

// normalize trims names and fills missing team IDs from the slugified
// name, so validation and duplicate checks see the effective values.
func (c *Config) normalize() {
	c.League = strings.TrimSpace(c.League)
	c.Season = strings.TrimSpace(c.Season)
	for i := range c.Teams {
		c.Teams[i].Name = strings.TrimSpace(c.Teams[i].Name)
		c.Teams[i].Venue = strings.TrimSpace(c.Teams[i].Venue)
		if c.Teams[i].ID == "" {
			c.Teams[i].ID = league.Slug(c.Teams[i].Name)
		}
	}
}

func (c *Config) validate() error {
	if len(c.Teams) < 4 {
		return fmt.Errorf("at least 4 teams are required, got %d", len(c.Teams))
	}

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid league config: %w", err)
	}

	// Names are compared case-insensitively: "Rovers" and "rovers"
	// would collide on the slugged ID anyway.
	seenName := make(map[string]string)
	seenID := make(map[string]string)
	for _, t := range c.Teams {
		lower := strings.ToLower(t.Name)
		if prev, ok := seenName[lower]; ok {
			return fmt.Errorf("team name %q duplicates %q", t.Name, prev)
		}
		seenName[lower] = t.Name

		if prev, ok := seenID[t.ID]; ok {
			return fmt.Errorf("team id %q used by both %q and %q", t.ID, prev, t.Name)
		}
		seenID[t.ID] = t.Name
	}

	return nil
}
