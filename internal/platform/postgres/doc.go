// Package postgres provides PostgreSQL-backed implementations of the
// store interfaces. All implementations work against store.DBTX, so they
// can run on a plain connection or inside a transaction.
package postgres
