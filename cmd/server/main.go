package main

import (
	"context"
	"fmt"
	"html"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dpup/prefab"
	"github.com/dpup/prefab/logging"

	api "github.com/dpup/trailfire/server/api/v1"
	"github.com/dpup/trailfire/server/internal/clients/wildfire"
	"github.com/dpup/trailfire/server/internal/config"
	"github.com/dpup/trailfire/server/internal/lib/trail"
	"github.com/dpup/trailfire/server/internal/metrics"
	"github.com/dpup/trailfire/server/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig, err := config.Load(prefab.Config)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := logging.EnsureLogger(context.Background())

	// Trails, mile markers and proximity zones are built once and never change.
	// A trail that fails to load is served as unavailable.
	tracker, err := services.NewFireTrackerFromConfig(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to load trails: %v", err)
	}

	resolver := trail.NewResolver(appConfig.Synonyms())
	fireClient := wildfire.NewClient(appConfig.Fires.URL, appConfig.Fires.Timeout)

	reportService := services.NewReportService(tracker, resolver)
	smsService := services.NewSMSService(tracker, resolver, appConfig.SMS)
	gateway := api.NewGateway(reportService)

	log.Printf("Trail fire server starting")
	log.Printf("Trails tracked: %s", strings.Join(tracker.Codes(), ", "))
	log.Printf("Proximity radius: %v miles, refresh every %v", appConfig.Fires.RadiusMiles, appConfig.Fires.RefreshInterval)

	// The refresh worker is the only writer of reports; requests only read
	periodicRefresh := services.NewPeriodicRefreshService(tracker, fireClient, appConfig.Fires)
	if err := periodicRefresh.Start(ctx); err != nil {
		log.Fatalf("Failed to start periodic refresh: %v", err)
	}
	defer periodicRefresh.Stop()

	// Server configuration (port, etc.) will be loaded from prefab.yaml/env vars
	server := prefab.New(
		prefab.WithGRPCReflection(),
		prefab.WithHTTPHandlerFunc("/sms", smsService.HandleSMS),
		prefab.WithHTTPHandlerFunc("/test", services.HandleTest),
		prefab.WithHTTPHandlerFunc("/metrics", metrics.Handler().ServeHTTP),
		prefab.WithHTTPHandlerFunc(api.GatewayPrefix, gateway.ServeHTTP),
		prefab.WithHTTPHandlerFunc(api.GatewayPrefix+"/", gateway.ServeHTTP),
		prefab.WithHTTPHandlerFunc("/", homepageHandler(tracker.Codes())),
	)

	api.RegisterReportService(server.ServiceRegistrar(), reportService)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(codes []string) http.HandlerFunc {
	var links strings.Builder
	for _, code := range codes {
		c := html.EscapeString(code)
		fmt.Fprintf(&links, "  <a href=\"/api/v1/trails/%s/report\">GET /api/v1/trails/%s/report</a>\n", c, c)
	}

	page := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>trailfire</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">trailfire</span>

Active wildfires near and across long-distance hiking trails.
Text a trail name to the SMS number for the current report.

<span class="header">API Endpoints:</span>

  <a href="/api/v1/trails">GET /api/v1/trails</a>                   - Tracked trails and report freshness
  GET /api/v1/trails/{code}/report     - Plain text fire report
  GET /api/v1/trails/{code}/map        - KML map of the last analysis
  POST /sms                            - SMS webhook (form field Body)

<span class="header">Reports:</span>
` + links.String() + `
<span class="header">Data Sources:</span>
  • NIFC Wildland Fire Perimeters - Current fire perimeters
</pre>
</body>
</html>`

	return func(w http.ResponseWriter, r *http.Request) {
		// Only handle the root path
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := fmt.Fprint(w, page); err != nil {
			slog.Error("Failed to write homepage HTML", "error", err)
		}
	}
}
