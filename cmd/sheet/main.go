package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-character-sheet/internal/config"
	"github.com/KirkDiggler/dnd-character-sheet/internal/console"
	"github.com/KirkDiggler/dnd-character-sheet/internal/observability"
	"github.com/KirkDiggler/dnd-character-sheet/internal/services"
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err = run(ctx, cfg, logger, flag.Args())
	stop()
	_ = logger.Sync()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.Logger, args []string) error {
	provider, err := services.NewProvider(ctx, &services.ProviderConfig{
		Config: cfg,
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer provider.Close()

	return console.New(&console.Config{
		Service: provider.CharacterService,
		In:      os.Stdin,
		Out:     os.Stdout,
		Logger:  logger,
	}).Run(ctx, args)
}
