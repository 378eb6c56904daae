package config

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ConfigDebug         = "debug"
	ConfigBackend       = "backend"
	ConfigDropMode      = "drop-mode"
	ConfigKickTable     = "kick-table"
	ConfigSpawnX        = "spawn-x"
	ConfigSpawnY        = "spawn-y"
	ConfigVisibleRows   = "visible-rows"
	ConfigMinimize      = "minimize"
	ConfigNatsURL       = "nats-url"
	ConfigWorkerSubject = "worker-subject"
	ConfigCacheSize     = "cache-size"
	ConfigCPUProfile    = "cpu-profile"
	ConfigMemProfile    = "mem-profile"
	ConfigThreads       = "threads"
)

// Config wraps a viper instance. Values come from, in order of precedence,
// command-line flags, REACHGEN_* environment variables, and the defaults
// below.
type Config struct {
	viper.Viper
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigBackend, "u64")
	v.SetDefault(ConfigDropMode, "soft")
	v.SetDefault(ConfigKickTable, "srs")
	v.SetDefault(ConfigSpawnX, 4)
	v.SetDefault(ConfigSpawnY, 20)
	v.SetDefault(ConfigVisibleRows, 0)
	v.SetDefault(ConfigMinimize, true)
	v.SetDefault(ConfigNatsURL, "nats://127.0.0.1:4222")
	v.SetDefault(ConfigWorkerSubject, "reachgen.search")
	v.SetDefault(ConfigCacheSize, 10000)
	v.SetDefault(ConfigCPUProfile, "")
	v.SetDefault(ConfigMemProfile, "")
	v.SetDefault(ConfigThreads, 0)
}

func flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("reachgen", pflag.ContinueOnError)
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.String(ConfigBackend, "u64", "board backend: u8, u16, u32, u64, tall, packed256")
	fs.String(ConfigDropMode, "soft", "drop mode: soft or hard")
	fs.String(ConfigKickTable, "srs", "rotation system: srs, none, or a path to a YAML kick table")
	fs.Int(ConfigSpawnX, 4, "spawn column of the rotation centre")
	fs.Int(ConfigSpawnY, 20, "spawn row of the rotation centre")
	fs.Int(ConfigVisibleRows, 0, "rows to display; 0 sizes to the stack")
	fs.Bool(ConfigMinimize, true, "merge placements that cover the same cells")
	fs.String(ConfigNatsURL, "nats://127.0.0.1:4222", "NATS server for the worker")
	fs.String(ConfigWorkerSubject, "reachgen.search", "NATS subject the worker listens on")
	fs.Int(ConfigCacheSize, 10000, "maximum cached search results")
	fs.String(ConfigCPUProfile, "", "write a cpu profile to this file")
	fs.String(ConfigMemProfile, "", "write a memory profile to this file")
	fs.Int(ConfigThreads, 0, "parallel searches; 0 means one per cpu")
	return fs
}

// Load parses args as flags and layers them over the environment and the
// defaults.
func (c *Config) Load(args []string) error {
	c.Viper = *viper.New()
	c.SetEnvPrefix("reachgen")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	setDefaults(&c.Viper)

	fs := flagSet()
	if err := fs.Parse(args); err != nil {
		return err
	}
	// Only flags given on the command line override the environment.
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err == nil {
			err = c.BindPFlag(f.Name, f)
		}
	})
	return err
}

func DefaultConfig() *Config {
	c := &Config{Viper: *viper.New()}
	setDefaults(&c.Viper)
	return c
}
