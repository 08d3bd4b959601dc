package types

// ListenerConf contains the settings for the single WebSocket subscription.
type ListenerConf struct {
	URL                 string `ini:"url"`
	HandshakeTimeoutSec int    `ini:"handshake_timeout"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config is the unified configuration structure mapped from cpuwatch.ini.
type Config struct {
	ListenerConf `ini:"listener"`
	LogConf      `ini:"log"`
}
