package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
)

func TestStatusCmd_Use(t *testing.T) {
	assert.Equal(t, "status", statusCmd.Use)
}

func TestStatusCmd_ShowsLedgerAndRemoteCounts(t *testing.T) {
	comps := setupCommandTest(t)
	comps.ledgerStore = &stubLedgerStore{ledger: domain.Ledger{
		"1": {DocumentID: "1", Title: "Getting started"},
		"2": {DocumentID: "2", Title: "Billing"},
	}}
	comps.index = &stubIndex{counts: domain.FileCounts{Total: 2, Completed: 2}}

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Ledger: 2 documents")
	assert.Contains(t, out, "Remote index: 2 files")
	assert.NotContains(t, out, "Warning")
}

func TestStatusCmd_WarnsOnDrift(t *testing.T) {
	comps := setupCommandTest(t)
	comps.ledgerStore = &stubLedgerStore{ledger: domain.Ledger{
		"1": {DocumentID: "1"},
	}}
	comps.index = &stubIndex{counts: domain.FileCounts{Total: 3, Completed: 3}}

	out, err := execute("status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Warning")
}

func TestStatusCmd_ListsDocuments(t *testing.T) {
	comps := setupCommandTest(t)
	comps.ledgerStore = &stubLedgerStore{ledger: domain.Ledger{
		"2": {DocumentID: "2", Title: "Billing", LastSyncedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
		"1": {DocumentID: "1", Title: "Getting started", LastSyncedAt: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)},
	}}
	comps.index = &stubIndex{counts: domain.FileCounts{Total: 2}}
	defer func() { statusShowDocs = false }()

	out, err := execute("status", "--documents")

	assert.NoError(t, err)
	assert.Contains(t, out, "Getting started")
	assert.Contains(t, out, "Billing")
	// Sorted by id.
	assert.Less(t, strings.Index(out, "Getting started"), strings.Index(out, "Billing"))
}
