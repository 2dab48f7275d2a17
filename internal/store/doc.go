// Package store defines the persistence boundary for tasks. The interfaces
// here keep the service and API layers independent of the database
// technology; internal/platform/postgres provides the implementation.
package store
