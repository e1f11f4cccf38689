package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/SscSPs/bukubesar/internal/platform/config"
	"github.com/SscSPs/bukubesar/internal/utils"
)

// Prints a bearer token for the ledger API, signed with the configured JWT_SECRET.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	actor := flag.String("actor", "", "subject of the token")
	caps := flag.String("caps", "", "comma-separated capabilities: revise_soft_closed, reopen_period")
	ttl := flag.Duration("ttl", 8*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var names []string
	for _, c := range strings.Split(*caps, ",") {
		if c = strings.TrimSpace(c); c != "" {
			names = append(names, c)
		}
	}

	token, err := utils.GenerateActorToken(*actor, names, cfg.JWTSecret, *ttl, cfg.JWTIssuer)
	if err != nil {
		logger.Error("Failed to generate token", slog.String("error", err.Error()))
		os.Exit(1)
	}
	fmt.Println(token)
}
