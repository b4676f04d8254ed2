/*
Package database provides the embedded relational store for signal,
geolocation, event, and report records.

# Architecture

  - db.go: connection lifecycle, single-writer/many-reader guard
  - schema.go: table DDL and index creation
  - migrations.go: versioned upgrade sequence tracked in the metadata table
  - crud_*.go: typed insert/get/list/delete for each record kind
  - filter.go: parameterized WHERE-clause construction, whitelisted order-by columns
  - maintenance.go: vacuum, backup, restore, and retention purge

# Database Technology

The store uses DuckDB (github.com/duckdb/duckdb-go/v2), an embedded
OLAP engine, accessed through database/sql. A single *sql.DB handles
read-only queries concurrently; all writes take an explicit mutex to
give the store single-writer/many-reader semantics regardless of the
driver's own connection pool size.

# Error Handling

All errors are wrapped with fmt.Errorf("...: %w", err) so callers can
unwrap sentinel errors (ErrNotFound) and driver errors with errors.Is.
*/
package database
