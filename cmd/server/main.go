package main

import (
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/api/analyze"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/config"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/loan"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/market"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/pipeline"
)

func main() {
	godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := config.FromEnv()
	if cfg.RentCastAPIKey == "" {
		log.Fatal().Msg("RENTCAST_API_KEY is not set")
	}

	assumptions, err := config.LoadAssumptions("config/assumptions.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("assumptions file unusable, using defaults")
	}
	cfg.Assumptions = assumptions

	loanParams, err := loan.LoadParams("config/loan_params.hjson")
	if err != nil {
		log.Warn().Err(err).Msg("loan params file unusable, using defaults")
	}

	var cache market.CacheRepository
	if cfg.RedisAddr != "" {
		cache = market.NewRedisCache(cfg.RedisAddr)
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis response cache")
	} else {
		cache = market.NewMemoryCache()
		log.Info().Msg("using in-memory response cache")
	}

	client := market.NewClient(cfg.RentCastAPIKey, cache)
	analyzer := pipeline.NewAnalyzer(client, loan.NewCalculator(loanParams))
	analyzer.DefaultAssumptions = cfg.Assumptions
	handler := analyze.NewHandler(analyzer)

	http.HandleFunc("/api/analyze", handler.HandleAnalyze)
	http.HandleFunc("/api/report", handler.HandleReport)
	http.HandleFunc("/health", handler.HandleHealth)

	log.Info().Str("port", cfg.Port).Msg("server starting")
	if err := http.ListenAndServe(":"+cfg.Port, nil); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
