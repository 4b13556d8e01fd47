package dnd5e

import (
	"net/http"

	dnderr "github.com/KirkDiggler/dnd-character-sheet/internal/errors"
	"github.com/fadedpez/dnd5e-api/clients/dnd5e"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dnd-character-sheet/internal/domain/equipment"
)

// TODO: add context to functions once the API client accepts one
type client struct {
	client dnd5e.Interface
	logger *zap.Logger
}

type Config struct {
	HttpClient *http.Client
	Logger     *zap.Logger
}

func New(cfg *Config) (Client, error) {
	if cfg == nil {
		return nil, dnderr.InvalidArgument("dnd5e client config is required")
	}

	dndClient, err := dnd5e.NewDND5eAPI(&dnd5e.DND5eAPIConfig{
		Client: cfg.HttpClient,
	})
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to create dnd5e api client")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &client{
		client: dndClient,
		logger: logger,
	}, nil
}

func (c *client) GetEquipment(key string) (equipment.Equipment, error) {
	if key == "" {
		return nil, dnderr.InvalidArgument("equipment key is required")
	}

	response, err := c.client.GetEquipment(key)
	if err != nil {
		return nil, dnderr.Wrapf(err, "failed to get equipment %q", key).
			WithMeta("key", key)
	}

	equip := apiEquipmentInterfaceToEquipment(response)
	if equip == nil {
		return nil, dnderr.NotFoundf("equipment %q is not a weapon or armor", key).
			WithMeta("key", key)
	}

	c.logger.Debug("srd equipment fetched",
		zap.String("key", key),
		zap.String("type", string(equip.GetEquipmentType())))

	return equip, nil
}

func (c *client) ListEquipment() ([]string, error) {
	refs, err := c.client.ListEquipment()
	if err != nil {
		return nil, dnderr.Wrap(err, "failed to list equipment")
	}

	keys := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != nil && ref.Key != "" {
			keys = append(keys, ref.Key)
		}
	}

	return keys, nil
}
