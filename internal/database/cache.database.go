package database

import (
	"fmt"

	"fleetdeck/config"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/valkey-io/valkey-go"
)

// Valkey database index organization. Each index gives a logical separation
// for one cache category.
const (
	// GENERAL_CACHE_INDEX (DB 0) - miscellaneous cache operations
	GENERAL_CACHE_INDEX = iota

	// SESSION_CACHE_INDEX (DB 1) - session tokens and revocations
	SESSION_CACHE_INDEX

	// USER_CACHE_INDEX (DB 2) - user profiles and yacht-name lookups
	USER_CACHE_INDEX

	// EVENTS_CACHE_INDEX (DB 3) - table-change pub/sub for live reloads
	EVENTS_CACHE_INDEX
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := logger.New("database").Function("initializeCacheDB")
	log.Info("initializing cache database")

	address := config.DatabaseCacheAddress
	port := config.DatabaseCachePort
	if address == "" || port == 0 {
		return log.ErrMsg("failed to initialize cache database: address or port is empty")
	}

	initAddress := []string{fmt.Sprintf("%s:%d", address, port)}

	clients := []struct {
		target *CacheClient
		index  int
		name   string
	}{
		{&s.Cache.General, GENERAL_CACHE_INDEX, "general"},
		{&s.Cache.Session, SESSION_CACHE_INDEX, "session"},
		{&s.Cache.User, USER_CACHE_INDEX, "user"},
		{&s.Cache.Events, EVENTS_CACHE_INDEX, "events"},
	}

	for _, c := range clients {
		client, err := valkey.NewClient(valkey.ClientOption{
			InitAddress: initAddress,
			SelectDB:    c.index,
		})
		if err != nil {
			return log.Err("failed to create cache client", err, "cache", c.name)
		}
		*c.target = client
	}

	log.Info("cache database initialized")
	return nil
}
