package main

import (
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SentryView/sentryview/pkg/backend"
	"github.com/SentryView/sentryview/pkg/config"
	_ "github.com/SentryView/sentryview/pkg/docs"
	"github.com/SentryView/sentryview/pkg/handlers"
	log "github.com/SentryView/sentryview/pkg/logging"
	"github.com/SentryView/sentryview/pkg/metadata"
	"github.com/SentryView/sentryview/pkg/models"
	"github.com/SentryView/sentryview/pkg/notify"
	"github.com/SentryView/sentryview/pkg/poll"
	"github.com/SentryView/sentryview/pkg/render"
	"github.com/SentryView/sentryview/pkg/store"
	"github.com/SentryView/sentryview/pkg/store/cluster"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// initLogger initializes the logger with the given log level
func initLogger(logLevel string) error {
	var cfg zap.Config
	switch strings.ToLower(logLevel) {
	case "debug":
		cfg = zap.NewDevelopmentConfig()
	case "info":
		cfg = zap.NewProductionConfig()
	default:
		return fmt.Errorf("invalid log level specified: %s", logLevel)
	}

	return log.SetConfig(cfg)
}

// @title SentryView Console API
// @version 1.0
// @description SentryView is the presentation console for a security monitoring backend: alert triage, white-traffic rules, file analysis and profile management.

// @contact.name GitHub Issues
// @contact.url https://github.com/SentryView/sentryview/issues

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /
func main() {
	// Parse command line arguments
	addr := flag.String("addr", "", "address to listen on")
	logLevel := flag.String("logLevel", "info", "log level")
	configPath := flag.String("config", "", "path to the YAML configuration file")
	backendURL := flag.String("backendURL", "", "base URL of the monitoring backend")
	pollSpec := flag.String("pollSpec", "", "cron spec for the background alert refresh")
	clusterEnabled := flag.Bool("clusterEnabled", false, "replicate the alert snapshot across replicas")
	clusterJoin := flag.String("clusterJoin", "", "comma-separated peer addresses to join")

	flag.Parse()

	// Configure logger first
	if err := initLogger(*logLevel); err != nil {
		log.Fatal("Could not set log configuration")
	}

	log.Info("Starting SentryView", zap.String("version", version), zap.String("commit", commit), zap.String("date", date))

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Could not load configuration", zap.String("error", err.Error()))
	}

	// Flags override file values
	if *addr != "" {
		cfg.Addr = *addr
	}
	if *backendURL != "" {
		cfg.BackendURL = *backendURL
	}
	if *pollSpec != "" {
		cfg.PollSpec = *pollSpec
	}
	if *clusterEnabled {
		cfg.Cluster.Enabled = true
	}
	if *clusterJoin != "" {
		cfg.Cluster.JoinAddrs = strings.Split(*clusterJoin, ",")
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatal("Could not parse templates", zap.String("error", err.Error()))
	}

	alerts := store.New[models.Alert](time.Now)
	rules := store.New[models.WhiteRule](time.Now)

	server := &handlers.Server{
		Backend: backend.New(cfg.BackendURL, backend.WithHTTPClient(&http.Client{
			Timeout: cfg.RequestTimeout.Std(),
		})),
		Alerts:   alerts,
		Rules:    rules,
		Renderer: renderer,
		Notifier: notify.NewSink(notify.DefaultTTL, time.Now),
		Profile:  handlers.NewProfile(),
	}

	// Replicate alert snapshots between replicas when clustering is enabled
	if cfg.Cluster.Enabled {
		replicator := cluster.NewReplicator(alerts, cfg.Cluster.JoinAddrs)
		if err := replicator.Initialize(); err != nil {
			log.Fatal("Failed to initialize cluster replicator", zap.String("error", err.Error()))
		}
		defer func() {
			if err := replicator.Close(); err != nil {
				log.Error("Failed to leave cluster", zap.Error(err))
			}
		}()
		server.OnAlertsRefreshed = replicator.Broadcast
	}

	// Start the background refresh
	poller := poll.New(server, cfg.RequestTimeout.Std())
	if err := poller.Start(cfg.PollSpec); err != nil {
		log.Fatal("Could not start background refresh", zap.String("error", err.Error()))
	}
	defer poller.Stop()

	// Register metrics and set prometheus handler
	metadata.AddMetricsToPrometheusRegistry()
	http.HandleFunc("GET "+metadata.MetricsPath, func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Register HTTP routes
	log.Info("Starting console")
	http.HandleFunc("GET /healthz", server.HealthzGetHandler)
	http.HandleFunc("GET /readiness", server.ReadinessGetHandler)
	http.HandleFunc("GET /alerts", server.AlertsPageHandler)
	http.HandleFunc("GET /api/alerts", server.AlertsJSONHandler)
	http.HandleFunc("POST /alerts/update/{id}", server.AlertUpdateHandler)
	http.HandleFunc("GET /alerts/copy/{id}", server.AlertCopyHandler)
	http.HandleFunc("GET /white-rules", server.RulesPageHandler)
	http.HandleFunc("GET /api/white-rules", server.RulesJSONHandler)
	http.HandleFunc("POST /white-rules/add", server.RuleAddHandler)
	http.HandleFunc("POST /white-rules/edit/{id}", server.RuleEditHandler)
	http.HandleFunc("POST /white-rules/toggle/{id}", server.RuleToggleHandler)
	http.HandleFunc("POST /white-rules/delete/{id}", server.RuleDeleteHandler)
	http.HandleFunc("GET /file-drop", server.FileDropPageHandler)
	http.HandleFunc("POST /file-drop", server.FileDropHandler)
	http.HandleFunc("GET /profile", server.ProfilePageHandler)
	http.HandleFunc("POST /profile/update", server.ProfileUpdateHandler)
	http.HandleFunc("POST /profile/avatar", server.AvatarHandler)
	http.HandleFunc("POST /profile/change-password", server.PasswordHandler)
	http.HandleFunc("GET /assets/", handlers.AssetsHandler)
	http.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/alerts", http.StatusSeeOther)
	})
	http.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	// Create and start HTTP server
	srv := &http.Server{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.ReadTimeout.Std(),
		WriteTimeout: cfg.WriteTimeout.Std(),
	}

	log.Info("Starting server on " + cfg.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatal("error starting server: ", zap.String("error", err.Error()))
	}
}
