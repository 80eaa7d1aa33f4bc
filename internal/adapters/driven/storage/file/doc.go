// Package file provides the file-backed document store and change
// ledger. Every write goes through write-to-temp-then-rename so a crash
// mid-write never leaves a torn file observable to later runs.
package file
