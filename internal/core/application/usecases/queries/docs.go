// Package queries contains the read side of the service. Handlers run plain
// SQL against the database and return read models shaped for the HTTP layer;
// they never load aggregates.
package queries
