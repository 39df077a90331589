package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/joho/godotenv/autoload"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/proxy"

	"github.com/alena0604/data-techniques/config"
	"github.com/alena0604/data-techniques/data"
	"github.com/alena0604/data-techniques/data/repos"
	"github.com/alena0604/data-techniques/handlers"
	"github.com/alena0604/data-techniques/matchers"
	"github.com/alena0604/data-techniques/metrics"
	"github.com/alena0604/data-techniques/normalizers"
	"github.com/alena0604/data-techniques/sinks"
	"github.com/alena0604/data-techniques/sources"
)

//go:embed data/migrations/*.sql
var embedMigrations embed.FS

func main() {
	startID := flag.Int64("start-id", 0, "first item ID to ingest (overrides START_ITEM_ID)")
	flag.Parse()

	config.LoadConfig()
	if *startID > 0 {
		config.Config.StartItemID = *startID
	}

	// stdout carries documents when the stdout sink is on.
	logOut := os.Stdout
	if config.Config.HasSink(config.SinkStdout) {
		logOut = os.Stderr
	}
	logger := slog.New(newLogHandler(logOut, config.Config))
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var db *sqlx.DB
	if config.Config.HasSink(config.SinkPostgres) {
		var err error
		db, err = sqlx.Connect("postgres", config.Config.PostgresURL)
		if err != nil {
			slog.Error("failed to connect to db", "error", err)
			os.Exit(1)
		}

		db.SetMaxOpenConns(config.Config.Workers + 4)
		db.SetMaxIdleConns(4)
		db.SetConnMaxLifetime(5 * time.Minute)
		db.SetConnMaxIdleTime(1 * time.Minute)

		if err := data.RunMigrations(db.DB, embedMigrations); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
	}

	sinkList, err := buildSinks(db)
	if err != nil {
		slog.Error("failed to create sinks", "error", err)
		os.Exit(1)
	}

	client, err := httpClient(config.Config.ProxyURL)
	if err != nil {
		slog.Error("failed to create http client", "error", err)
		os.Exit(1)
	}
	hn := sources.NewHackerNewsClient(
		config.Config.HackerNewsBaseURL,
		client,
		config.Config.RequestTimeout,
		config.Config.RequestsPerSecond,
	)

	tracker := sources.NewMaxIDTracker(logger, hn, m, sources.TrackerOptions{
		StartID:      config.Config.StartItemID,
		Retries:      config.Config.MaxIDRetries,
		RetryDelay:   config.Config.MaxIDRetryDelay,
		MaxBatchSize: config.Config.MaxBatchSize,
	})
	fetcher := sources.NewItemFetcher(logger, hn, m, sources.FetcherOptions{
		MaxRetries: config.Config.FetchMaxRetries,
		RetryBase:  config.Config.FetchRetryBase,
		RetryMax:   config.Config.FetchRetryMax,
	})
	normalizer := normalizers.NewDocumentNormalizer(time.Now)

	var enricher sources.Enricher
	if config.Config.DetectLanguage {
		enricher = normalizers.NewLanguageDetector()
	}

	poller := sources.NewHackerNewsPoller(logger, tracker, fetcher, normalizer, enricher, sinkList, m, sources.PipelineOptions{
		PollInterval:           config.Config.PollInterval,
		Workers:                config.Config.Workers,
		MaxConsecutiveFailures: config.Config.MaxConsecutiveFailures,
		Filters: matchers.ItemTypeFilters{
			ItemTypes:        config.Config.ItemTypes,
			ExcludeItemTypes: config.Config.ExcludeItemTypes,
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if config.Config.HTTPAddr != "" {
		go serveHTTP(config.Config.HTTPAddr, reg, poller, db)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sigCh
		slog.Info("Shutting down...")
		cancel()
	}()

	pollErr := poller.StartPolling(ctx)

	for _, s := range sinkList {
		if err := s.Close(); err != nil {
			slog.Error("failed to close sink", "sink", s.Name(), "error", err)
		}
	}
	if db != nil {
		if err := db.Close(); err != nil {
			slog.Error("failed to close database connection", "error", err)
		}
	}

	if pollErr != nil {
		slog.Error("polling stopped", "error", pollErr)
		if errors.Is(pollErr, sources.ErrSourceUnreachable) {
			os.Exit(1)
		}
	}
}

// newLogHandler logs JSON in production and plain text in development.
func newLogHandler(w io.Writer, cfg config.AppConfig) slog.Handler {
	opts := slog.HandlerOptions{Level: cfg.LogLevel}
	if !cfg.IsProduction() {
		return slog.NewTextHandler(w, &opts)
	}
	return slog.NewJSONHandler(w, &opts)
}

func buildSinks(db *sqlx.DB) ([]sinks.Sink, error) {
	var list []sinks.Sink
	for _, name := range config.Config.Sinks {
		switch name {
		case config.SinkStdout:
			list = append(list, sinks.NewStdoutSink())
		case config.SinkPostgres:
			list = append(list, sinks.NewPostgresSink(repos.NewDocumentRepo(db)))
		case config.SinkRabbitMQ:
			s, err := sinks.NewRabbitMQSink(config.Config.RabbitMQURL, config.Config.RabbitMQQueue)
			if err != nil {
				closeSinks(list)
				return nil, err
			}
			list = append(list, s)
		case config.SinkKafka:
			list = append(list, sinks.NewKafkaSink(config.Config.KafkaBrokers, config.Config.KafkaTopic))
		case config.SinkElasticsearch:
			s, err := sinks.NewElasticsearchSink(config.Config.ElasticsearchURL, config.Config.ElasticsearchIndex)
			if err != nil {
				closeSinks(list)
				return nil, err
			}
			list = append(list, s)
		}
		slog.Info("sink enabled", "sink", name)
	}
	return list, nil
}

func closeSinks(list []sinks.Sink) {
	for _, s := range list {
		_ = s.Close()
	}
}

func serveHTTP(addr string, reg *prometheus.Registry, poller *sources.HackerNewsPoller, db *sqlx.DB) {
	status := handlers.NewStatusHandler(poller)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", public(status.GetStatus))
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	if db != nil {
		documents := handlers.NewDocumentHandler(repos.NewDocumentRepo(db))
		mux.HandleFunc("GET /documents", public(documents.GetDocuments))
		mux.HandleFunc("GET /documents/{id}", public(documents.GetDocument))
	}

	slog.Info("Starting server", "addr", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		slog.Error("failed to start server", "error", err)
	}
}

func httpClient(proxyURL string) (*http.Client, error) {
	// Per-request deadlines come from the source client.
	client := &http.Client{}

	if proxyURL == "" {
		return client, nil
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, err
	}
	if parsedURL.Scheme != "socks5" {
		client.Transport = &http.Transport{Proxy: http.ProxyURL(parsedURL)}
		slog.Info("using http proxy", "proxy", parsedURL.Host)
		return client, nil
	}

	var auth *proxy.Auth
	if parsedURL.User != nil {
		password, _ := parsedURL.User.Password()
		auth = &proxy.Auth{
			User:     parsedURL.User.Username(),
			Password: password,
		}
	}

	dialer, err := proxy.SOCKS5("tcp", parsedURL.Host, auth, proxy.Direct)
	if err != nil {
		return nil, err
	}

	client.Transport = &http.Transport{
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			if cd, ok := dialer.(proxy.ContextDialer); ok {
				return cd.DialContext(ctx, network, addr)
			}
			return dialer.Dial(network, addr)
		},
	}
	slog.Info("using SOCKS5 proxy", "proxy", parsedURL.Host)

	return client, nil
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func public(handler handlers.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts := time.Now()
		res := handler(w, r)
		elapsedMs := time.Since(ts).Milliseconds()
		slog.Debug("req", "method", r.Method, "path", r.URL.Path, "code", res.Code, "elapsed", elapsedMs)
		writeResult(w, res)
	}
}

func writeResult(w http.ResponseWriter, res handlers.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.Code)
	if res.Body != nil {
		if err := json.NewEncoder(w).Encode(res.Body); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
	if res.Code == http.StatusInternalServerError {
		slog.Error("internal error", "error", res.Error.Error())
	}
}
