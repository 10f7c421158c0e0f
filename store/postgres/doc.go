// Package postgres implements sentry.UserStore on PostgreSQL through the
// pgx stdlib driver. Schema management lives in the nested migrations
// package; the store itself only reads and mutates rows.
//
// Update builds its SET clause from the field map the core passes in, so
// column names are checked against a fixed whitelist before any SQL is
// assembled.
package postgres
