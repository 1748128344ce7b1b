package main

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jeffabe/bankledger"
	"github.com/sony/gobreaker/v2"
	"gopkg.in/yaml.v3"

	"github.com/rs/zerolog"
)

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	var cfg bankledger.Config
	cfp := flag.String("config", "config.yml", "path to configuration file")
	flag.Parse()
	cfgfl, err := os.Open(*cfp)
	if err != nil {
		logger.Fatal().Err(err).Msg("error opening config file")
	}
	if err = yaml.NewDecoder(cfgfl).Decode(&cfg); err != nil {
		logger.Fatal().Err(err).Msg("error decoding config file")
	}

	store, err := bankledger.OpenStore(&cfg, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting store")
	}

	stdin := bufio.NewReader(os.Stdin)
	confirm := func(prompt string) (string, error) {
		fmt.Fprintln(os.Stdout, prompt)
		line, err := stdin.ReadString('\n')
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	ledger, err := bankledger.NewLedger(store, confirm, &logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("error starting ledger")
	}

	inflight := cfg.Limits.InFlight
	if inflight == 0 {
		inflight = 64
	}
	timeout := time.Duration(cfg.Limits.AcquireTimeout) * time.Millisecond
	if timeout == 0 {
		timeout = time.Second
	}

	var svc bankledger.Service = bankledger.NewService(ledger, &logger)
	for _, mw := range []bankledger.Middleware{
		bankledger.NewCircuitBreakMiddleware(bankledger.NewServiceBreaker(gobreaker.Settings{Name: "store"})),
		bankledger.NewLimitMiddleware(bankledger.NewServiceLimits(inflight), timeout),
		bankledger.NewValidationMiddleware(),
	} {
		svc = mw(svc)
	}
	hndlr := bankledger.NewHTTPHandler(svc, &logger)

	listen := cfg.Listen
	if listen == "" {
		listen = ":3000"
	}
	logger.Info().Str("listen", listen).Msg("ledger server starting")
	if err := http.ListenAndServe(listen, hndlr); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
