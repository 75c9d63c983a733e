// File: internal/input/loader.go
// Description: Reads the ICCID batch from a delimited file. The loader is the
// only fatal surface of a run: a file that cannot be read or understood stops
// everything before a single identifier is scheduled.

package input

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/config"
)

// LoadError is fatal to the whole run: missing or malformed input aborts
// processing before any identifier is scheduled.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading input %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Loader reads and deduplicates identifier batches.
type Loader struct {
	cfg    config.InputConfig
	logger *zap.Logger
}

// NewLoader creates a loader for the configured input file.
func NewLoader(cfg config.InputConfig, logger *zap.Logger) *Loader {
	return &Loader{cfg: cfg, logger: logger.Named("input")}
}

// Load reads the file and returns the unique ICCIDs in first-occurrence
// order. The file is either delimited with a header row containing an "iccid"
// column (located case-insensitively), or a bare single-column list. Values
// are trimmed and empties skipped.
func (l *Loader) Load() ([]string, error) {
	f, err := os.Open(l.cfg.Path)
	if err != nil {
		return nil, &LoadError{Path: l.cfg.Path, Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	if l.cfg.Delimiter != "" {
		r.Comma = rune(l.cfg.Delimiter[0])
	}
	r.TrimLeadingSpace = true
	// Rows in the wild carry trailing junk columns; only the iccid column matters.
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: l.cfg.Path, Err: err}
	}
	if len(records) == 0 {
		return nil, &LoadError{Path: l.cfg.Path, Err: fmt.Errorf("file is empty")}
	}

	col, hasHeader := locateColumn(records[0])
	rows := records
	if hasHeader {
		rows = records[1:]
	} else if len(records[0]) != 1 {
		return nil, &LoadError{Path: l.cfg.Path, Err: fmt.Errorf("no %q column in header", headerName)}
	}

	seen := make(map[string]struct{}, len(rows))
	iccids := make([]string, 0, len(rows))
	duplicates := 0

	for _, row := range rows {
		if col >= len(row) {
			continue
		}
		iccid := strings.TrimSpace(row[col])
		if iccid == "" {
			continue
		}
		if _, dup := seen[iccid]; dup {
			duplicates++
			continue
		}
		seen[iccid] = struct{}{}
		iccids = append(iccids, iccid)
	}

	if len(iccids) == 0 {
		return nil, &LoadError{Path: l.cfg.Path, Err: fmt.Errorf("no ICCIDs found")}
	}

	l.logger.Info("Input loaded",
		zap.String("path", l.cfg.Path),
		zap.Int("iccids", len(iccids)),
		zap.Int("duplicates_skipped", duplicates),
	)
	return iccids, nil
}

const headerName = "iccid"

// locateColumn finds the iccid column in a header row. A single-column file
// whose first value is not a header is treated as a bare list.
func locateColumn(header []string) (int, bool) {
	for i, field := range header {
		if strings.EqualFold(strings.TrimSpace(field), headerName) {
			return i, true
		}
	}
	return 0, false
}
