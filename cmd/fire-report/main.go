package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dpup/prefab/logging"

	"github.com/dpup/trailfire/server/internal/clients/wildfire"
	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/lib/fire"
	"github.com/dpup/trailfire/server/internal/lib/mapexport"
	"github.com/dpup/trailfire/server/internal/lib/proximity"
	"github.com/dpup/trailfire/server/internal/lib/trail"
	"github.com/dpup/trailfire/server/internal/services"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML configuration file (defaults plus TRAILFIRE__ env vars when empty)")
		trailName  = flag.String("trail", "CT", "Trail code or name to report on")
		firesPath  = flag.String("fires", "", "Read fire perimeters from a saved FeatureServer JSON response instead of the live API")
		kmlPath    = flag.String("kml", "", "Also write a KML map of the analysis to this file")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fmt.Printf("Trail Fire Report Tool\n\n")
		fmt.Printf("Runs one fire analysis for a trail and prints the report.\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s -trail=PCT\n", os.Args[0])
		fmt.Printf("  %s -trail=\"colorado trail\" -fires=perimeters.json -kml=ct.kml\n", os.Args[0])
		return
	}

	appConfig, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	code, ok := trail.NewResolver(appConfig.Synonyms()).Resolve(*trailName)
	if !ok {
		log.Fatalf("Unknown trail %q, expected one of: %s", *trailName, strings.Join(codes(appConfig), ", "))
	}
	tc, _ := appConfig.Trail(code)

	// Only the requested trail is loaded
	appConfig.Trails = []config.TrailConfig{tc}
	ctx := logging.EnsureLogger(context.Background())
	trails, _, err := services.LoadTrackedTrails(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to load trail %s: %v", code, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	start := time.Now()
	raw, err := fetchFires(ctx, appConfig.Fires, *firesPath)
	if err != nil {
		log.Fatalf("Failed to fetch fires: %v", err)
	}
	log.Printf("Fetched %d fires in %v", len(raw), time.Since(start))

	tracker := services.NewFireTracker(trails, appConfig.Fires)
	if !tracker.Refresh(ctx, code, raw) {
		log.Fatalf("Failed to generate report for %s", code)
	}
	fmt.Print(tracker.GetReport(code))

	if *kmlPath != "" {
		analysis, _ := tracker.Analysis(code)
		if err := writeKML(*kmlPath, analysis); err != nil {
			log.Fatalf("Failed to write KML: %v", err)
		}
		log.Printf("Map written to %s", *kmlPath)
	}
}

func fetchFires(ctx context.Context, cfg config.FiresConfig, path string) ([]fire.RawFireRecord, error) {
	if path == "" {
		return wildfire.NewClient(cfg.URL, cfg.Timeout).FetchFires(ctx)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return wildfire.Decode(f)
}

func writeKML(path string, analysis *proximity.Analysis) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := mapexport.Write(f, analysis); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func codes(cfg *config.Config) []string {
	out := make([]string, len(cfg.Trails))
	for i, t := range cfg.Trails {
		out[i] = t.Code
	}
	return out
}
