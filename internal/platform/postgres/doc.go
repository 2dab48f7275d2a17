// Package postgres implements the store interfaces on PostgreSQL.
//
// Stores work against store.DBTX so the same code runs on a *sql.DB or inside
// a *sql.Tx. Driver errors are translated by MapError into the store
// package's sentinel errors. The schema is managed by goose migrations that
// are embedded in the binary (see Migrate).
package postgres
