package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/dokimion24/payment/internal/config"
	"github.com/dokimion24/payment/internal/domain"
	"github.com/dokimion24/payment/internal/metrics"
	"github.com/dokimion24/payment/internal/payment"
	"github.com/dokimion24/payment/internal/server"
	"github.com/dokimion24/payment/internal/store"
)

func main() {
	_ = godotenv.Load(".env.local", ".env")
	defaults := config.EnvDefaults()

	env := flag.String("env", defaults.Env, "")
	port := flag.Int("port", defaults.Port, "")
	logJSON := flag.Bool("log-json", defaults.LogJSON, "")
	flag.Parse()

	cfg := defaults
	cfg.Env = *env
	cfg.Port = *port
	cfg.LogJSON = *logJSON

	setupLogger(cfg.LogJSON)

	toss, err := payment.NewTossAdapter(payment.TossConfig{
		SecretKey: cfg.TossSecretKey,
		BaseURL:   cfg.TossAPIBase,
		Timeout:   cfg.GatewayTimeout,
	})
	if err != nil {
		log.Fatalf("toss adapter: %v", err)
	}
	paypal, err := payment.NewPayPalAdapter(payment.PayPalConfig{
		ClientID: cfg.PayPalClientID,
		Secret:   cfg.PayPalSecret,
		BaseURL:  cfg.PayPalAPIBase,
		Timeout:  cfg.GatewayTimeout,
	})
	if err != nil {
		log.Fatalf("paypal adapter: %v", err)
	}

	factory := payment.NewFactory(payment.Registry{
		domain.ProviderToss:    func() payment.Adapter { return toss },
		domain.ProviderPayPal:  func() payment.Adapter { return paypal },
		domain.ProviderGeneral: func() payment.Adapter { return payment.NewGeneralAdapter() },
	})

	srv := server.New(cfg, store.New(), factory, metrics.New("payment"))

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("payment server listening", slog.String("addr", addr), slog.String("env", cfg.Env))
	if err := srv.Run(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func setupLogger(jsonOut bool) {
	var h slog.Handler
	if jsonOut {
		h = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		h = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(h))
}
