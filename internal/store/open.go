package store

import "fmt"

// BackendConfig selects and configures a backend.
type BackendConfig struct {
	Backend     string
	Dir         string
	SQLitePath  string
	RedisAddr   string
	RedisDB     int
	RedisPrefix string
}

func OpenBackend(c BackendConfig) (Backend, error) {
	switch c.Backend {
	case "", "file":
		return NewFileBackend(c.Dir)
	case "sqlite":
		return NewSQLiteBackend(c.SQLitePath)
	case "redis":
		return NewRedisBackend(c.RedisAddr, c.RedisDB, c.RedisPrefix), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, c.Backend)
}
