package main

import (
	"flag"
	"os"

	"github.com/jeffabe/bankledger"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Provisions a demo bank with a customer, both account variants, and a
// credit card against the configured store.
func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg bankledger.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	bank := flag.String("bank", "First Bank and Trust", "name of the bank to seed")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	if cfg.Storage.Backend == "postgres" {
		lh, err := bankledger.NewLocalHelper(cfg.Storage.ConnectionString)
		if err != nil {
			logger.Fatal().Err(err).Msg("error starting local helper")
		}
		if _, err = lh.InitDB(); err != nil {
			logger.Fatal().Err(err).Msg("error initializing database")
		}
	}

	store, err := bankledger.OpenStore(&cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting store")
	}
	ledger, err := bankledger.NewLedger(store, nil, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting ledger")
	}

	b, err := ledger.CreateBank(*bank)
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating bank")
	}
	cust, err := b.NewCustomer(123456789, "Jeff", "Abe", "1234 Main st")
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating customer")
	}
	savings, err := b.OpenSavings(cust.CustomerID(), bankledger.DefaultSavingsTerms())
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening savings account")
	}
	checking, err := b.OpenChecking(cust.CustomerID(), bankledger.DefaultCheckingTerms())
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening checking account")
	}
	card, err := b.OpenCard(cust.CustomerID(), bankledger.DefaultCardTerms())
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening credit card")
	}

	logger.Info().
		Str("bank", b.Name()).
		Int64("customer_id", cust.CustomerID()).
		Int64("savings_id", savings.AccountID()).
		Int64("checking_id", checking.AccountID()).
		Int64("card_number", card.CardNumber()).
		Msg("seeded")
}
