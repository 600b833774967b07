// Package config loads typed configuration structs from environment
// variables, with .env support for local development.
//
// Each package owning a Config struct declares env tags on its fields:
//
//	type Config struct {
//		ConnectionString string `env:"PG_CONN_URL,required"`
//		MaxOpenConns     int32  `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//	}
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil { ... }
//
// Load caches by struct type, so repeated loads of the same config type
// return the first parsed value.
package config
