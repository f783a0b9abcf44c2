package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Env     string
	Port    int
	LogJSON bool

	TossSecretKey  string
	TossAPIBase    string
	PayPalClientID string
	PayPalSecret   string
	PayPalAPIBase  string
	GatewayTimeout time.Duration
}

func Default() Config {
	return Config{
		Env:            "dev",
		Port:           8080,
		LogJSON:        true,
		TossAPIBase:    "https://api.tosspayments.com",
		PayPalAPIBase:  "https://api-m.sandbox.paypal.com",
		GatewayTimeout: 10 * time.Second,
	}
}

func EnvDefaults() Config {
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	if v := os.Getenv("PAY_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PAY_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("PAY_LOG_JSON"); v != "" {
		switch v {
		case "1", "true", "TRUE":
			c.LogJSON = true
		case "0", "false", "FALSE":
			c.LogJSON = false
		}
	}
	if v := os.Getenv("TOSS_SECRET_KEY"); v != "" {
		c.TossSecretKey = v
	}
	if v := os.Getenv("TOSS_API_BASE"); v != "" {
		c.TossAPIBase = v
	}
	if v := os.Getenv("PAYPAL_CLIENT_ID"); v != "" {
		c.PayPalClientID = v
	}
	if v := os.Getenv("PAYPAL_SECRET"); v != "" {
		c.PayPalSecret = v
	}
	if v := os.Getenv("PAYPAL_API_BASE"); v != "" {
		c.PayPalAPIBase = v
	}
	if v := os.Getenv("PAY_GATEWAY_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.GatewayTimeout = d
		}
	}
	return c
}
