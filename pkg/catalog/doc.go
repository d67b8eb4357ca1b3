// Package catalog defines the data model shared by the reconciliation
// engine: entries as served by the remote server directory, the records
// persisted in the local servers table, and their dependent install
// instructions.
package catalog
