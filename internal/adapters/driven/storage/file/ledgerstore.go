package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/helpsync-labs/helpsync-cli/internal/core/domain"
	"github.com/helpsync-labs/helpsync-cli/internal/core/ports/driven"
)

// Ensure LedgerStore implements the interface.
var _ driven.LedgerStore = (*LedgerStore)(nil)

// ledgerVersion is the current ledger schema version.
const ledgerVersion = 1

// ledgerFile is the on-disk ledger format.
type ledgerFile struct {
	Version int           `json:"version"`
	Entries domain.Ledger `json:"entries"`
}

// LedgerStore persists the change ledger as a single JSON file.
type LedgerStore struct {
	path string
}

// NewLedgerStore creates a ledger store backed by the given file path.
func NewLedgerStore(path string) *LedgerStore {
	return &LedgerStore{path: path}
}

// Path returns the ledger file path.
func (s *LedgerStore) Path() string {
	return s.path
}

// Load reads the persisted ledger. A missing file yields an empty
// ledger. A torn or otherwise unreadable file also yields an empty
// ledger, together with an error wrapping domain.ErrLedgerCorrupt so
// the caller can log the fail-open resync.
func (s *LedgerStore) Load(_ context.Context) (domain.Ledger, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Ledger{}, nil
		}
		return domain.Ledger{}, fmt.Errorf("%w: %w", domain.ErrLedgerCorrupt, err)
	}

	var lf ledgerFile
	if err := json.Unmarshal(data, &lf); err != nil {
		return domain.Ledger{}, fmt.Errorf("%w: %w", domain.ErrLedgerCorrupt, err)
	}
	if lf.Entries == nil {
		lf.Entries = domain.Ledger{}
	}
	return lf.Entries, nil
}

// Save atomically persists the ledger via write-temp-then-rename.
func (s *LedgerStore) Save(_ context.Context, ledger domain.Ledger) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	data, err := json.MarshalIndent(ledgerFile{Version: ledgerVersion, Entries: ledger}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp ledger: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename ledger: %w", err)
	}
	return nil
}

// Reset removes the persisted ledger.
func (s *LedgerStore) Reset(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove ledger: %w", err)
	}
	return nil
}
