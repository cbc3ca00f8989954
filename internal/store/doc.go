// Package store defines interfaces for data persistence operations.
// These interfaces keep the task and user logic independent of the
// underlying database; PostgreSQL implementations live in
// internal/platform/postgres.
package store
