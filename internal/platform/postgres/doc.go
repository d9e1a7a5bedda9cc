// Package postgres realizes the keyed-store contract on PostgreSQL for
// deployments that want a self-hosted backend. Values live in a single
// path-keyed JSONB table; the atomic multi-path batch maps onto one
// database transaction. Schema management uses goose with embedded
// migrations.
package postgres
