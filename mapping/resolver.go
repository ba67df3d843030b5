package mapping

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dnldd/roll/shared"
	"github.com/dnldd/roll/universe"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// entry represents one row of a contract mapping table.
type entry struct {
	date   time.Time
	ticker string
}

// FileResolverConfig represents the file resolver configuration.
type FileResolverConfig struct {
	// Dir is the directory holding per-symbol mapping files.
	Dir string
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config has sane inputs.
func (cfg *FileResolverConfig) Validate() error {
	var errs error

	if cfg.Dir == "" {
		errs = errors.Join(errs, fmt.Errorf("mapping directory cannot be an empty string"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("mapping resolver logger cannot be nil"))
	}

	return errs
}

// FileResolver resolves contract mappings from per-symbol mapping files. The
// tables are loaded lazily and cached, cached tables are safe for concurrent
// reads.
type FileResolver struct {
	cfg       *FileResolverConfig
	tables    map[string][]entry
	tablesMtx sync.RWMutex
}

// Ensure the file resolver implements the MappingResolver interface.
var _ universe.MappingResolver = (*FileResolver)(nil)

// NewFileResolver initializes a new file backed mapping resolver.
func NewFileResolver(cfg *FileResolverConfig) (*FileResolver, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating file resolver config: %w", err)
	}

	return &FileResolver{
		cfg:    cfg,
		tables: make(map[string][]entry),
	}, nil
}

// loadTable parses the mapping table for the provided canonical symbol from
// its mapping file. Entries must be sorted ascending by date.
func (r *FileResolver) loadTable(canonical shared.Symbol) ([]entry, error) {
	path := filepath.Join(r.cfg.Dir, fmt.Sprintf("%s.json", strings.ToLower(canonical.BaseTicker())))
	readb, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping table from file with path '%s': %v", path, err)
	}

	b := gjson.ParseBytes(readb)
	rows := b.Get("mappings").Array()
	table := make([]entry, 0, len(rows))
	for idx := range rows {
		date, err := time.Parse(shared.DateLayout, rows[idx].Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("parsing mapping date: %w", err)
		}

		ticker := rows[idx].Get("ticker").String()
		if ticker == "" {
			return nil, fmt.Errorf("mapping ticker cannot be an empty string for %s",
				date.Format(shared.DateLayout))
		}

		if len(table) > 0 && !table[len(table)-1].date.Before(date) {
			return nil, fmt.Errorf("mapping table for %s not sorted at %s",
				canonical.String(), date.Format(shared.DateLayout))
		}

		table = append(table, entry{date: date, ticker: ticker})
	}

	return table, nil
}

// table returns the cached mapping table for the provided canonical symbol,
// loading it on first use.
func (r *FileResolver) table(canonical shared.Symbol) ([]entry, error) {
	r.tablesMtx.RLock()
	table, ok := r.tables[canonical.Ticker]
	r.tablesMtx.RUnlock()
	if ok {
		return table, nil
	}

	table, err := r.loadTable(canonical)
	if err != nil {
		return nil, fmt.Errorf("loading mapping table: %w", err)
	}

	r.tablesMtx.Lock()
	r.tables[canonical.Ticker] = table
	r.tablesMtx.Unlock()

	return table, nil
}

// ResolveMapping returns the ticker of the contract underlying the provided
// canonical symbol as of the provided local date, honoring the symbol's
// contract depth offset. An empty ticker means no mapping is available.
func (r *FileResolver) ResolveMapping(canonical shared.Symbol, asOf time.Time) (string, error) {
	table, err := r.table(canonical)
	if err != nil {
		return "", err
	}

	date := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)

	current := -1
	for idx := range table {
		if table[idx].date.After(date) {
			break
		}

		current = idx
	}
	if current == -1 {
		return "", nil
	}

	// The contract depth offset selects contracts further out than the
	// front contract mapped on the date.
	depth := current + canonical.ContractOffset
	if depth >= len(table) {
		return "", nil
	}

	return table[depth].ticker, nil
}
