package services

import (
	"context"
	"fmt"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/trailfire/server/internal/clients/borders"
	"github.com/dpup/trailfire/server/internal/clients/trails"
	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/trail"
)

// LoadTrackedTrails loads the state borders and every configured trail. A
// trail that cannot be loaded or built is logged and returned in unavailable
// so the remaining trails are still served. Failing to load the borders, or
// every trail, is an error.
func LoadTrackedTrails(ctx context.Context, cfg *config.Config) (tracked []*TrackedTrail, unavailable []config.TrailConfig, err error) {
	ctx = logging.EnsureLogger(ctx)

	var stateBorders fire.Borders
	if cfg.Borders.Path != "" {
		stateBorders, err = borders.LoadFile(cfg.Borders.Path)
		if err != nil {
			return nil, nil, err
		}
	}

	for _, tc := range cfg.Trails {
		tt, err := loadTrackedTrail(tc, stateBorders, cfg.Fires.RadiusMiles)
		if err != nil {
			logging.Errorw(ctx, "Trail unavailable, no report will be produced",
				"trail", tc.Code, "error", err)
			unavailable = append(unavailable, tc)
			continue
		}
		tracked = append(tracked, tt)
	}

	if len(tracked) == 0 && len(cfg.Trails) > 0 {
		return nil, unavailable, fmt.Errorf("none of the %d configured trails could be loaded", len(cfg.Trails))
	}
	return tracked, unavailable, nil
}

func loadTrackedTrail(tc config.TrailConfig, stateBorders fire.Borders, radiusMiles float64) (*TrackedTrail, error) {
	points, err := trails.Load(trails.Source{Path: tc.Data, Format: tc.Format})
	if err != nil {
		return nil, fmt.Errorf("trail %s: %w", tc.Code, err)
	}

	t, err := trail.Build(points, Definition(tc))
	if err != nil {
		return nil, err
	}
	return NewTrackedTrail(t, stateBorders, radiusMiles)
}

// NewFireTrackerFromConfig loads every configured trail into a tracker in
// configured order. Trails that failed to load are registered as unavailable.
func NewFireTrackerFromConfig(ctx context.Context, cfg *config.Config) (*FireTracker, error) {
	tracked, _, err := LoadTrackedTrails(ctx, cfg)
	if err != nil {
		return nil, err
	}

	loaded := make(map[string]*TrackedTrail, len(tracked))
	for _, tt := range tracked {
		loaded[tt.Trail.Code()] = tt
	}

	tracker := NewFireTracker(nil, cfg.Fires)
	for _, tc := range cfg.Trails {
		if tt, ok := loaded[tc.Code]; ok {
			tracker.track(tt)
			continue
		}
		tracker.MarkUnavailable(tc.Code, tc.Name)
	}
	return tracker, nil
}

// Definition converts trail configuration to a build definition
func Definition(tc config.TrailConfig) trail.Definition {
	return trail.Definition{
		Code:        tc.Code,
		Name:        tc.Name,
		States:      tc.States,
		Reverse:     tc.Reverse,
		MaxGapMiles: tc.MaxGapMiles,
	}
}
