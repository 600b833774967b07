// Package userstore provides implementations of the flow.UserStore
// contract: an in-memory store for tests and single-process setups, and a
// PostgreSQL store for production.
//
// Both enforce email uniqueness and surface flow.ErrUserNotFound and
// flow.ErrEmailAlreadyExists so the orchestrator can branch on them.
package userstore
