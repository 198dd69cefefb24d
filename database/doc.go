// Package database provides connection management, schema bootstrap,
// configuration types, logging, SQL query hooks, error classification and
// health checks built on top of Bun.
package database
