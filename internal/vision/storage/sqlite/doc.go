// Package sqlite persists benchmark runs and their per-tick samples.
//
// The schema is owned by the embedded migrations; Open applies the
// connection pragmas and MigrateUp brings the schema to the latest version.
package sqlite
