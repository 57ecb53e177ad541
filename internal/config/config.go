package config

import (
	"errors"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr        string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	WebSocketOrigin string
	DBDSN           string

	StartPrice      decimal.Decimal
	TickInterval    time.Duration
	ContractSize    decimal.Decimal
	MarginRate      decimal.Decimal
	StartingBalance decimal.Decimal

	AdminUsername     string
	AdminPasswordHash string
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		c.JWTTTL = 2 * time.Hour
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		missing = append(missing, "WS_ORIGIN")
	}
	c.DBDSN = os.Getenv("DB_DSN")

	var err error
	if c.StartPrice, err = decimalEnv("START_PRICE", "1.1000"); err != nil {
		return c, err
	}
	if c.ContractSize, err = decimalEnv("CONTRACT_SIZE", "100000"); err != nil {
		return c, err
	}
	if c.MarginRate, err = decimalEnv("MARGIN_RATE", "0.01"); err != nil {
		return c, err
	}
	if c.StartingBalance, err = decimalEnv("STARTING_BALANCE", "10000"); err != nil {
		return c, err
	}
	tickInterval := os.Getenv("TICK_INTERVAL")
	if tickInterval == "" {
		c.TickInterval = time.Second
	} else {
		d, err := time.ParseDuration(tickInterval)
		if err != nil {
			return c, err
		}
		c.TickInterval = d
	}
	c.AdminUsername = os.Getenv("ADMIN_USERNAME")
	c.AdminPasswordHash = os.Getenv("ADMIN_PASSWORD_HASH")
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + join(missing))
	}
	return c, nil
}

func decimalEnv(key, fallback string) (decimal.Decimal, error) {
	raw := os.Getenv(key)
	if raw == "" {
		raw = fallback
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errors.New("invalid " + key)
	}
	return d, nil
}

func join(items []string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for i := 1; i < len(items); i++ {
		out += "," + items[i]
	}
	return out
}
