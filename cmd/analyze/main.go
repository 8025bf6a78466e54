package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/config"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/loan"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/market"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/pipeline"
	"github.com/MonkeysPaw2025/BetterDeal/pkg/core/report"
)

func main() {
	godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	var (
		url      = flag.String("url", "", "Zillow or Realtor.com listing URL (required)")
		price    = flag.Float64("price", 0, "purchase price override; 0 = look up")
		rent     = flag.Float64("rent", 0, "monthly rent override; 0 = look up")
		loanType = flag.String("loan", "conventional", "loan type: conventional, fha, va, usda")
		down     = flag.Float64("down", 0, "down payment fraction, e.g. 0.20; 0 = loan type default")
		rate     = flag.Float64("rate", 0.065, "annual interest rate as a decimal")
		term     = flag.Int("term", 30, "loan term in years")
		strategy = flag.String("strategy", "rental", "selected strategy")
	)
	flag.Parse()

	if *url == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	if cfg.RentCastAPIKey == "" {
		log.Fatal().Msg("RENTCAST_API_KEY is not set")
	}
	assumptions, err := config.LoadAssumptions("config/assumptions.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("assumptions file unusable, using defaults")
	}
	loanParams, err := loan.LoadParams("config/loan_params.hjson")
	if err != nil {
		log.Warn().Err(err).Msg("loan params file unusable, using defaults")
	}

	client := market.NewClient(cfg.RentCastAPIKey, market.NewMemoryCache())
	analyzer := pipeline.NewAnalyzer(client, loan.NewCalculator(loanParams))
	analyzer.DefaultAssumptions = assumptions

	req := pipeline.Request{
		PropertyURL:      *url,
		SelectedStrategy: *strategy,
		LoanType:         loan.Type(*loanType),
		InterestRate:     *rate,
		LoanTermYears:    *term,
	}
	if *price > 0 {
		req.PurchasePrice = price
	}
	if *rent > 0 {
		req.EstimatedRent = rent
	}
	if *down > 0 {
		req.DownPaymentPct = down
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	result, err := analyzer.AnalyzeProperty(ctx, req)
	if err != nil {
		log.Fatal().Err(err).Msg("analysis failed")
	}

	fmt.Println(report.Markdown(result))
}
