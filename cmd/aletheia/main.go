package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/aletheia-labs/aletheia/src/ai/core"
	_ "github.com/aletheia-labs/aletheia/src/ai/openai"
	_ "github.com/aletheia-labs/aletheia/src/ai/perplexity"
	"github.com/aletheia-labs/aletheia/src/api"
	"github.com/aletheia-labs/aletheia/src/cache"
	"github.com/aletheia-labs/aletheia/src/config"
	"github.com/aletheia-labs/aletheia/src/data"
	"github.com/aletheia-labs/aletheia/src/images"
	"github.com/aletheia-labs/aletheia/src/search"
	"github.com/aletheia-labs/aletheia/src/verify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg := config.Load()

	client, err := core.NewClient(core.FactoryConfig{
		Provider:      cfg.AI.Provider,
		Model:         cfg.AI.Model,
		OpenAIKey:     cfg.AI.OpenAIKey,
		PerplexityKey: cfg.AI.PerplexityKey,
	})
	if err != nil {
		log.Fatalf("ai client: %v", err)
	}

	gateClient := client
	if cfg.AI.Provider != "openai" && cfg.AI.OpenAIKey != "" {
		// The gate is a cheap classification; keep it on the default
		// provider even when the agent runs elsewhere.
		gateClient, err = core.NewClient(core.FactoryConfig{
			Provider:  "openai",
			Model:     cfg.AI.GateModel,
			OpenAIKey: cfg.AI.OpenAIKey,
		})
		if err != nil {
			log.Fatalf("gate client: %v", err)
		}
	}

	searcher := search.NewClient(search.NewDuckDuckGo())
	gate := verify.NewGate(gateClient, cfg.AI.GateModel)
	agent := verify.NewAgent(client, searcher)
	service := verify.NewService(gate, agent)

	if cfg.RedisURL != "" {
		rdb := cache.MustRedis(cfg.RedisURL)
		service.WithCache(cache.NewVerdicts(rdb, time.Hour))
	}

	var history *data.HistoryStore
	if cfg.MySQLDSN != "" {
		db := data.MustMySQL(cfg.MySQLDSN)
		history = data.NewHistoryStore(db, cfg.AI.Provider, cfg.AI.Model)
		service.WithHistory(history)
	}

	var describer images.Describer
	if cfg.AI.OpenAIKey != "" {
		describer, err = images.NewOpenAIDescriber(cfg.AI.OpenAIKey, cfg.AI.GateModel)
		if err != nil {
			log.Fatalf("image describer: %v", err)
		}
	}

	router := api.New(api.NewHandlers(service, describer, history))

	httpSrv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 300 * time.Second,
	}

	go func() {
		log.Printf("aletheia listening on :%s (provider=%s model=%s)", cfg.Port, cfg.AI.Provider, cfg.AI.Model)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
