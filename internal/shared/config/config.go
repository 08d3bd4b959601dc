package config

import (
	"os"

	"gopkg.in/ini.v1"

	"cpuwatch/internal/shared/types"
)

// Default returns the configuration the tool runs with when no config file
// is present. The endpoint matches the metrics producer's default bind.
func Default() *types.Config {
	return &types.Config{
		ListenerConf: types.ListenerConf{
			URL:                 "ws://localhost:5062/ws",
			HandshakeTimeoutSec: 15,
		},
		LogConf: types.LogConf{
			Level: "info",
		},
	}
}

// LoadIni loads the cpuwatch.ini behavior configuration into cfg. A missing
// file is not an error: the built-in defaults stay in effect so the tool can
// run with zero configuration.
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	if err == nil {
		if err := iniFile.MapTo(cfg); err != nil {
			return err
		}
	}
	// The env override applies whether or not a config file exists.
	overrideFromEnv(&cfg.ListenerConf.URL, "CPUWATCH_URL")
	return nil
}

func overrideFromEnv(target *string, envName string) {
	if envValue := os.Getenv(envName); envValue != "" {
		*target = envValue
	}
}
