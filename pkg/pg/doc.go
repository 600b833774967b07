// Package pg bootstraps the PostgreSQL layer backing the identity store:
// a resilient pgxpool connection, embedded goose migrations for the users
// and security_tokens tables, and error helpers shared by the stores.
//
// Connect retries with linear back-off so a service restarting alongside
// its database comes up cleanly. Migrate applies the schema shipped in
// the binary; there is no runtime dependency on a migrations directory.
//
// Usage:
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//	    panic(err)
//	}
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    panic(err)
//	}
package pg
