// Package redis provides the connection bootstrap for the Redis instance
// shared by the session store and the token store. Connect retries until
// the server answers a ping or the configured budget runs out.
package redis
