package store

import (
	"context"
	"fmt"

	"github.com/solace-im/devicesync/internal/logger"
	"github.com/solace-im/devicesync/models"
)

type deviceDirectory struct {
	db     *DB
	logger *logger.Logger
}

// NewDeviceDirectory creates a SQLite-backed DeviceDirectory.
func NewDeviceDirectory(db *DB) DeviceDirectory {
	return &deviceDirectory{
		db:     db,
		logger: db.logger.GetChildLogger("deviceDirectory"),
	}
}

func (r *deviceDirectory) GetDevices(ctx context.Context) ([]models.Device, error) {
	rows, err := r.db.QueryContext(ctx, getAllDevices)
	if err != nil {
		r.logger.Err(err).Str("func", "GetDevices").Msg("error querying devices")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var devices []models.Device
	for rows.Next() {
		var d models.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.Created, &d.LastSeen); err != nil {
			r.logger.Err(err).Str("func", "GetDevices").Msg("error scanning device row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return devices, nil
}

func (r *deviceDirectory) SaveDevice(ctx context.Context, device models.Device) error {
	_, err := r.db.ExecContext(ctx, saveDevice, device.ID, device.Name, device.Created, device.LastSeen)
	if err != nil {
		r.logger.Err(err).Str("func", "SaveDevice").Str("deviceID", device.ID).Msg("error saving device")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
