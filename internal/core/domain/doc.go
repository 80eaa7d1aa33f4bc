// Package domain contains the core types for the helpsync pipeline:
// documents, the change ledger, deltas between snapshots, and run
// summaries. It has no dependency on adapters or transports.
package domain
