// Package domain contains the core business entities and value objects of
// the application: persisted tasks, the candidate tasks extracted from brain
// dumps, and the calendar date type they share. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
