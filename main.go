package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propscout/api"
	"propscout/config"
	"propscout/extract"
	"propscout/gazetteer"
	"propscout/httputil"
	"propscout/inventory"
	"propscout/links"
	"propscout/logging"
	"propscout/scheduler"
	"propscout/scrape"
	"propscout/services"
	"propscout/storage"
	"propscout/workers"
)

var (
	resolveText = flag.String("resolve", "", "Resolve one inquiry and exit")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	logFile, err := logging.Setup("daemon.log")
	if err != nil {
		log.Printf("Warning: could not set up file logging: %v", err)
	} else {
		defer logFile.Close()
	}

	log.Println("Starting propscout...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	gaz, err := gazetteer.Load(cfg.GazetteerPath)
	if err != nil {
		log.Fatalf("Failed to load gazetteer: %v", err)
	}
	log.Printf("Gazetteer loaded: %d aliases", gaz.Len())

	blacklist, err := scrape.LoadBlacklist(cfg.BlacklistPath)
	if err != nil {
		log.Fatalf("Failed to load blacklist: %v", err)
	}

	clients := httputil.NewClients(&cfg.Scraper)

	ctx := context.Background()

	// Postgres is optional: without it the resolver still extracts, links
	// and scrapes, it just can't match inventory or save searches.
	var pgStore *storage.PostgresStore
	var inventoryFinder services.InventoryFinder
	var searchStore services.SearchStore
	if cfg.DatabaseURL != "" {
		pgStore, err = storage.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		inventoryFinder = inventory.NewResolver(pgStore, cfg.Resolver.InventoryLimit, cfg.Resolver.PriceTolerance)
		searchStore = pgStore
		log.Println("Connected to Postgres")
	} else {
		log.Println("No DATABASE_URL set, running without inventory matching")
	}

	sqliteStore, err := storage.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open SQLite: %v", err)
	}
	defer sqliteStore.Close()
	log.Printf("SQLite database: %s", cfg.DBPath)

	var primary extract.Strategy
	if cfg.Gemini.APIKey != "" {
		primary = extract.NewGeminiStrategy(cfg.Gemini.APIKey, cfg.Gemini.Model, gaz)
		log.Printf("Gemini extraction enabled (%s)", cfg.Gemini.Model)
	} else {
		log.Println("No GEMINI_API_KEY set, using rule extraction only")
	}
	extractor := extract.New(primary, extract.NewRuleStrategy(gaz), cfg.Resolver.MinQueryLen)

	scrapers := []scrape.Scraper{
		scrape.NewZonaprop(clients.Scraping, cfg.Scraper.Cap, blacklist),
		scrape.NewArgenprop(clients.Scraping, cfg.Scraper.Cap, blacklist),
	}

	resolver := services.NewResolveService(
		extractor,
		inventoryFinder,
		links.NewBuilder(),
		scrapers,
		blacklist,
		searchStore,
		sqliteStore,
		cfg.Scraper.Timeout,
	)

	// One-shot mode for the office CLI.
	if *resolveText != "" {
		result, err := resolver.Resolve(ctx, *resolveText, services.PersistOptions{})
		if err != nil {
			log.Fatalf("Resolve failed: %v", err)
		}
		out, _ := json.MarshalIndent(result, "", "  ")
		os.Stdout.Write(append(out, '\n'))
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if pgStore != nil {
		refreshWorker := workers.NewRefreshWorker(pgStore, resolver)
		interval := cfg.Refresh.Interval
		if interval <= 0 {
			interval = 30 * time.Minute
		}
		go refreshWorker.Run(ctx, cfg.Refresh.Batch, interval)
		log.Println("Refresh worker started")

		sched := scheduler.New(&cfg.Refresh, refreshWorker)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	srv := api.NewServer(resolver, sqliteStore)
	go func() {
		if err := srv.Start(cfg.HTTPAddr); err != nil {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	log.Println("Daemon running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")
}
