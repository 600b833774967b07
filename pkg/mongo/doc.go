// Package mongo provides the connection bootstrap for deployments that
// persist single-use tokens in MongoDB instead of Postgres or Redis.
// Connect retries until the server answers a ping, mirroring pkg/pg and
// pkg/redis.
package mongo
