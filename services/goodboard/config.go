package goodboard

import (
	"time"

	"goodboard-backend/lib/configutil"
)

type Config struct {
	// StorePath is the sqlite file backing the shared key-value store.
	// Empty means in-memory.
	StorePath string `json:"store_path"`
	// PortalOrigin prefixes relative asset urls when extracting
	// instruction html from saved pages.
	PortalOrigin string `json:"portal_origin"`
	// DebounceMs overrides the mutation debounce interval.
	DebounceMs int64 `json:"debounce_ms"`
}

func ReadConfig(path string) (Config, error) {
	return configutil.ReadConfig[Config](path)
}

func (c Config) Debounce() time.Duration {
	if c.DebounceMs <= 0 {
		return DefaultDebounce
	}
	return time.Duration(c.DebounceMs) * time.Millisecond
}
