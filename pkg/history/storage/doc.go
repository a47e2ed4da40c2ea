// Package storage provides the persistence backends for validation run
// history: an in-memory store for tests and one-shot use, and a SQLite
// store for durable history across invocations.
package storage
