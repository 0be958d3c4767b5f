package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

const (
	stateKeyDeviceRegistry = "deviceRegistry"
	stateKeyLastSync       = "lastSync"
)

type stateRepository struct {
	db     *DB
	logger *logger.Logger
}

// NewStateRepository creates a SQLite-backed StateRepository.
func NewStateRepository(db *DB) StateRepository {
	return &stateRepository{
		db:     db,
		logger: db.logger.GetChildLogger("stateRepository"),
	}
}

func (r *stateRepository) DeviceRegistry(ctx context.Context) (map[string]models.DeviceInfo, error) {
	raw, err := r.get(ctx, stateKeyDeviceRegistry)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return map[string]models.DeviceInfo{}, nil
	}

	registry := map[string]models.DeviceInfo{}
	if err := json.Unmarshal([]byte(raw), &registry); err != nil {
		r.logger.Err(err).Str("func", "DeviceRegistry").Msg("error decoding device registry")
		return nil, fmt.Errorf("failed to decode device registry: %w", err)
	}

	return registry, nil
}

func (r *stateRepository) SaveDeviceRegistry(ctx context.Context, registry map[string]models.DeviceInfo) error {
	raw, err := json.Marshal(registry)
	if err != nil {
		return fmt.Errorf("failed to encode device registry: %w", err)
	}

	return r.put(ctx, stateKeyDeviceRegistry, string(raw))
}

func (r *stateRepository) LastSync(ctx context.Context) (int64, error) {
	raw, err := r.get(ctx, stateKeyLastSync)
	if err != nil {
		return 0, err
	}
	if raw == "" {
		return 0, nil
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse last sync timestamp: %w", err)
	}

	return millis, nil
}

func (r *stateRepository) SetLastSync(ctx context.Context, millis int64) error {
	return r.put(ctx, stateKeyLastSync, strconv.FormatInt(millis, 10))
}

func (r *stateRepository) get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, getStateValue, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		r.logger.Err(err).Str("func", "get").Str("key", key).Msg("error reading state value")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

func (r *stateRepository) put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, putStateValue, key, value)
	if err != nil {
		r.logger.Err(err).Str("func", "put").Str("key", key).Msg("error writing state value")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
