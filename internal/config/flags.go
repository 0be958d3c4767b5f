package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a listen address in format [host]:[port]
//	-relay relay base URL for outbound control exchanges
//	-d database DSN
//	-c/-config json file path with configs
//	-device-id id of this device in the user's directory
//	-device-name human-readable device name
//	-sync-interval periodic sync job interval (e.g., "1h", "30m")
//	-request-timeout outbound transport timeout (e.g., "30s", "1m")
func ParseFlags() *Config {
	var listenAddress NetAddress
	var relayAddress string
	var databaseDSN string
	var jsonConfigPath string
	var deviceID string
	var deviceName string
	var syncInterval time.Duration
	var requestTimeout time.Duration

	flag.Var(&listenAddress, "a", "Net address host:port")
	flag.StringVar(&relayAddress, "relay", "", "Relay base URL")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&deviceID, "device-id", "", "Device id")
	flag.StringVar(&deviceName, "device-name", "", "Device name")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Sync job interval (e.g., 1h, 30m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")

	flag.Parse()

	return &Config{
		App: App{
			DeviceID:   deviceID,
			DeviceName: deviceName,
		},
		Sync: Sync{
			Interval: syncInterval,
		},
		Transport: Transport{
			ListenAddress:  listenAddress.String(),
			RelayAddress:   relayAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DSN: databaseDSN,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
