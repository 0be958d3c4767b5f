package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type StructuredJSONConfig struct {
	App struct {
		DeviceID   string `json:"device_id"`
		DeviceName string `json:"device_name"`
		UserAgent  string `json:"user_agent"`
		Version    string `json:"version"`
	} `json:"app,omitempty"`

	Sync struct {
		DefaultTTL       Duration `json:"default_ttl"`
		MessageBatchSize int      `json:"message_batch_size"`
		StaggerStep      Duration `json:"stagger_step"`
		DeviceStaleAfter Duration `json:"device_stale_after"`
		LocationTimeout  Duration `json:"location_timeout"`
		FreshWindow      Duration `json:"fresh_window"`
		Interval         Duration `json:"interval"`
	} `json:"sync,omitempty"`

	Transport struct {
		ListenAddress  string   `json:"listen_address"`
		RelayAddress   string   `json:"relay_address"`
		RequestTimeout Duration `json:"request_timeout"`
		RetryCount     int      `json:"retry_count"`
	} `json:"transport,omitempty"`

	Storage struct {
		DSN string `json:"dsn"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*Config, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &Config{
		App: App{
			DeviceID:   jsonCfg.App.DeviceID,
			DeviceName: jsonCfg.App.DeviceName,
			UserAgent:  jsonCfg.App.UserAgent,
			Version:    jsonCfg.App.Version,
		},
		Sync: Sync{
			DefaultTTL:       time.Duration(jsonCfg.Sync.DefaultTTL),
			MessageBatchSize: jsonCfg.Sync.MessageBatchSize,
			StaggerStep:      time.Duration(jsonCfg.Sync.StaggerStep),
			DeviceStaleAfter: time.Duration(jsonCfg.Sync.DeviceStaleAfter),
			LocationTimeout:  time.Duration(jsonCfg.Sync.LocationTimeout),
			FreshWindow:      time.Duration(jsonCfg.Sync.FreshWindow),
			Interval:         time.Duration(jsonCfg.Sync.Interval),
		},
		Transport: Transport{
			ListenAddress:  jsonCfg.Transport.ListenAddress,
			RelayAddress:   jsonCfg.Transport.RelayAddress,
			RequestTimeout: time.Duration(jsonCfg.Transport.RequestTimeout),
			RetryCount:     jsonCfg.Transport.RetryCount,
		},
		Storage: Storage{
			DSN: jsonCfg.Storage.DSN,
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
