package config

import (
	"fmt"
	"time"

	"github.com/dpup/trailfire/server/internal/clients/wildfire"
)

// Config represents the complete server configuration
type Config struct {
	Fires   FiresConfig   `koanf:"fires"`
	Trails  []TrailConfig `koanf:"trails"`
	Borders BordersConfig `koanf:"borders"`
	SMS     SMSConfig     `koanf:"sms"`
}

// FiresConfig controls fetching and analysing fire perimeters
type FiresConfig struct {
	URL             string        `koanf:"url"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
	RetryDelay      time.Duration `koanf:"retry_delay"`
	Timeout         time.Duration `koanf:"timeout"`
	RadiusMiles     float64       `koanf:"radius_miles"`
	TrailSampleCap  int           `koanf:"trail_sample_cap"`
	FireSampleCap   int           `koanf:"fire_sample_cap"`
	Workers         int           `koanf:"workers"`
}

// TrailConfig describes one supported trail
type TrailConfig struct {
	Code        string   `koanf:"code"`
	Name        string   `koanf:"name"`
	States      []string `koanf:"states"`
	Data        string   `koanf:"data"`
	Format      string   `koanf:"format"`
	Reverse     bool     `koanf:"reverse"`
	MaxGapMiles float64  `koanf:"max_gap_miles"`
	Synonyms    []string `koanf:"synonyms"`
}

// BordersConfig locates the state border dataset
type BordersConfig struct {
	Path string `koanf:"path"`
}

// SMSConfig holds SMS reply settings
type SMSConfig struct {
	// MaxLength truncates replies; zero sends the whole report
	MaxLength int `koanf:"max_length"`
}

// Trail returns the configuration for a trail code
func (c *Config) Trail(code string) (TrailConfig, bool) {
	for _, t := range c.Trails {
		if t.Code == code {
			return t, true
		}
	}
	return TrailConfig{}, false
}

// Synonyms maps every configured phrase to its trail code, including the
// code and display name themselves
func (c *Config) Synonyms() map[string]string {
	synonyms := make(map[string]string)
	for _, t := range c.Trails {
		synonyms[t.Code] = t.Code
		if t.Name != "" {
			synonyms[t.Name] = t.Code
		}
		for _, s := range t.Synonyms {
			synonyms[s] = t.Code
		}
	}
	return synonyms
}

// Validate checks the settings the engine cannot run without
func (c *Config) Validate() error {
	if c.Fires.RadiusMiles <= 0 {
		return fmt.Errorf("fires.radius_miles must be positive, got %v", c.Fires.RadiusMiles)
	}
	if c.Fires.RefreshInterval <= 0 {
		return fmt.Errorf("fires.refresh_interval must be positive, got %v", c.Fires.RefreshInterval)
	}
	if len(c.Trails) == 0 {
		return fmt.Errorf("at least one trail must be configured")
	}
	seen := make(map[string]bool)
	for i, t := range c.Trails {
		if t.Code == "" {
			return fmt.Errorf("trails[%d] is missing a code", i)
		}
		if seen[t.Code] {
			return fmt.Errorf("trail %s is configured more than once", t.Code)
		}
		seen[t.Code] = true
		if t.Data == "" {
			return fmt.Errorf("trail %s is missing a data path", t.Code)
		}
	}
	return nil
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Fires: FiresConfig{
			URL:             wildfire.DefaultURL,
			RefreshInterval: 4 * time.Hour,
			RetryDelay:      5 * time.Minute,
			Timeout:         30 * time.Second,
			RadiusMiles:     50,
			TrailSampleCap:  2000,
			FireSampleCap:   5000,
			Workers:         4,
		},
		Trails: []TrailConfig{
			{
				Code:        "PCT",
				Name:        "Pacific Crest Trail",
				States:      []string{"California", "Oregon", "Washington"},
				Data:        "data/trails/Pacific_Crest_Trail.gpx",
				Format:      "gpx",
				Reverse:     true,
				MaxGapMiles: 300,
			},
			{
				Code:        "CT",
				Name:        "Colorado Trail",
				States:      []string{"Colorado"},
				Data:        "data/trails/Colorado_Trail.gpx",
				Format:      "gpx",
				Reverse:     true,
				MaxGapMiles: 300,
			},
			{
				Code:        "AZT",
				Name:        "Arizona Trail",
				States:      []string{"Arizona"},
				Data:        "data/trails/Arizona_Trail.gpx",
				Format:      "gpx",
				Reverse:     true,
				MaxGapMiles: 300,
			},
			{
				Code:        "PNT",
				Name:        "Pacific Northwest Trail",
				States:      []string{"Montana", "Idaho", "Washington"},
				Data:        "data/trails/Pacific_Northwest_Trail.gpx",
				Format:      "gpx",
				Reverse:     true,
				MaxGapMiles: 300,
			},
			{
				Code:        "CDT",
				Name:        "Continental Divide Trail",
				States:      []string{"New Mexico", "Colorado", "Wyoming", "Idaho", "Montana"},
				Data:        "data/trails/Continental_Divide_Trail.gpx",
				Format:      "gpx",
				Reverse:     true,
				MaxGapMiles: 300,
			},
		},
		Borders: BordersConfig{
			Path: "data/state_borders.geojson",
		},
	}
}
