// Package config defines the node's command-line configuration
// using github.com/jessevdk/go-flags.
package config

import (
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
)

const (
	defaultLogFilename          = "tangled.log"
	defaultMaxLogRolls          = 8
	defaultListenPort           = 15600
	defaultMinWeightMag         = 14
	defaultCoordinatorSecurity  = 2
	defaultCoordinatorDepth     = 10
	defaultTransactionCacheSize = 10000
)

// Config holds every setting the node needs at startup: network
// listen address, coordinator identity, milestone validation
// parameters, and logging.
type Config struct {
	AppDir               string   `long:"appdir" description:"Directory to store data"`
	LogDir               string   `long:"logdir" description:"Directory to log output"`
	ListenPort           uint16   `long:"port" description:"Port to listen for connections on"`
	CoordinatorAddress   string   `long:"coordinator" description:"Hex-encoded address of the milestone coordinator" required:"true"`
	MinWeightMagnitude   byte     `long:"mwm" description:"Minimum weight magnitude required of incoming transactions"`
	SecurityLevel        int      `long:"security-level" description:"Number of signature fragments the coordinator splits its signature across"`
	Depth                int      `long:"depth" description:"Depth of the coordinator's signature tree"`
	TransactionCacheSize int      `long:"tx-cache-size" description:"Capacity of the front-door transaction dedup cache"`
	Peers                []string `long:"addpeer" description:"Add a peer to connect with at startup"`
	Debug                bool     `long:"debug" description:"Enable debug-level logging"`
}

// defaultConfig returns a Config populated with the node's defaults,
// applied before flag overrides.
func defaultConfig() *Config {
	return &Config{
		ListenPort:           defaultListenPort,
		MinWeightMagnitude:   defaultMinWeightMag,
		SecurityLevel:        defaultCoordinatorSecurity,
		Depth:                defaultCoordinatorDepth,
		TransactionCacheSize: defaultTransactionCacheSize,
	}
}

// Load parses command-line arguments into a Config, applying defaults
// first.
func Load() (*Config, error) {
	cfg := defaultConfig()
	parser := flags.NewParser(cfg, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		return nil, errors.Wrap(err, "parsing command-line arguments")
	}

	if cfg.AppDir == "" {
		cfg.AppDir = defaultAppDir()
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.AppDir, "logs")
	}
	return cfg, nil
}

// LogFilePath returns the path of the node's rotating log file.
func (c *Config) LogFilePath() string {
	return filepath.Join(c.LogDir, defaultLogFilename)
}

// MaxLogRolls returns the number of rotated log files to retain.
func (c *Config) MaxLogRolls() int {
	return defaultMaxLogRolls
}

func defaultAppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".tangled")
}
