package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-character-sheet/internal/catalog"
	"github.com/KirkDiggler/dnd-character-sheet/internal/clients/dnd5e"
	"github.com/KirkDiggler/dnd-character-sheet/internal/config"
	"github.com/KirkDiggler/dnd-character-sheet/internal/dice"
	"github.com/KirkDiggler/dnd-character-sheet/internal/events"
	"github.com/KirkDiggler/dnd-character-sheet/internal/repositories/characters"
	characterService "github.com/KirkDiggler/dnd-character-sheet/internal/services/character"
	"github.com/KirkDiggler/dnd-character-sheet/internal/uuid"
)

// Provider holds all service instances
type Provider struct {
	CharacterService characterService.Service
	Bus              *events.Bus
	Catalog          *catalog.Catalog

	closers []func() error
	logger  *zap.Logger
}

// ProviderConfig holds configuration for creating services
type ProviderConfig struct {
	Config config.Config
	Logger *zap.Logger

	// Optional overrides, built from Config when nil
	CharacterRepository characters.Repository
	DNDClient           dnd5e.Client
	DiceSource          dice.Source
	UUIDGenerator       uuid.Generator
}

// NewProvider creates a new service provider with all services initialized
func NewProvider(ctx context.Context, cfg *ProviderConfig) (*Provider, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Provider{
		Bus:    events.NewBus(logger),
		logger: logger,
	}
	p.Bus.Subscribe(events.NewLogListener(logger), events.AllEventTypes...)

	source := cfg.DiceSource
	if source == nil {
		source = dice.NewRandomSource()
		if cfg.Config.Dice.Seed != 0 {
			source = dice.NewSeededSource(cfg.Config.Dice.Seed)
			logger.Debug("using seeded dice", zap.Int64("seed", cfg.Config.Dice.Seed))
		}
	}

	charRepo := cfg.CharacterRepository
	if charRepo == nil {
		var err error
		if charRepo, err = p.newRepository(ctx, cfg.Config); err != nil {
			return nil, err
		}
	}

	dndClient := cfg.DNDClient
	if dndClient == nil && cfg.Config.Catalog.SRDFallback {
		var err error
		dndClient, err = dnd5e.New(&dnd5e.Config{
			HttpClient: &http.Client{
				Timeout: cfg.Config.Catalog.SRDTimeout,
			},
			Logger: logger,
		})
		if err != nil {
			p.Close()
			return nil, err
		}
	}

	equip, err := catalog.New(&catalog.Config{
		Path:   cfg.Config.Catalog.Path,
		SRD:    dndClient,
		Logger: logger,
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	p.Catalog = equip

	p.CharacterService = characterService.NewService(&characterService.ServiceConfig{
		Repository:    charRepo,
		UUIDGenerator: cfg.UUIDGenerator,
		Roller:        dice.NewRoller(&dice.RollerConfig{Source: source, Publisher: p.Bus}),
		Publisher:     p.Bus,
		Catalog:       equip,
		Logger:        logger,
	})

	return p, nil
}

func (p *Provider) newRepository(ctx context.Context, cfg config.Config) (characters.Repository, error) {
	switch cfg.Storage.Driver {
	case config.StorageFile:
		p.logger.Debug("using file storage", zap.String("dir", cfg.Storage.Dir))
		return characters.NewFileRepository(&characters.FileRepoConfig{Dir: cfg.Storage.Dir})

	case config.StorageSQLite:
		repo, err := characters.NewSQLiteRepository(&characters.SQLiteRepoConfig{Path: cfg.Storage.Path})
		if err != nil {
			return nil, err
		}
		p.logger.Debug("using sqlite storage", zap.String("path", cfg.Storage.Path))
		p.closers = append(p.closers, repo.Close)
		return repo, nil

	case config.StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Redis.Addr, err)
		}

		p.logger.Debug("using redis storage", zap.String("addr", cfg.Redis.Addr))
		p.closers = append(p.closers, client.Close)
		return characters.NewRedis(client), nil

	default:
		p.logger.Warn("using in-memory storage, characters are lost on exit")
		return characters.NewInMemoryRepository(), nil
	}
}

// Close releases connections opened by the provider
func (p *Provider) Close() {
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil {
			p.logger.Warn("error closing connection", zap.Error(err))
		}
	}
	p.closers = nil
}
