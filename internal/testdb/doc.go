// Package testdb provides helpers for integration tests that run against a
// real PostgreSQL database.
//
// Tests using it are built with the integration tag:
//
//	FOCUS_TEST_DATABASE_URL=postgres://... go test -tags=integration ./...
//
// Without a database URL the tests are skipped locally and fail in CI.
// Each test runs inside a transaction that is rolled back afterwards.
package testdb
