// File: internal/reporting/writer.go
package reporting

import (
	"encoding/csv"
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/simflow/internal/activation"
	"github.com/xkilldash9x/simflow/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Writer persists the artifacts of a completed run: the full outcome
// collection as JSON and the rejected-ICCID subset as CSV. The core hands the
// data over; formats live entirely here.
type Writer struct {
	cfg    config.OutputConfig
	logger *zap.Logger
}

// NewWriter creates a report writer for the configured output paths.
func NewWriter(cfg config.OutputConfig, logger *zap.Logger) *Writer {
	return &Writer{cfg: cfg, logger: logger.Named("reporting")}
}

// WriteResults writes the outcome collection to the results file as a JSON
// array of {iccid, status, error_detail} records.
func (w *Writer) WriteResults(outcomes []activation.Outcome) error {
	data, err := json.MarshalIndent(outcomes, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding outcomes: %w", err)
	}
	if err := os.WriteFile(w.cfg.ResultsFile, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing results file: %w", err)
	}

	w.logger.Info("Results written", zap.String("path", w.cfg.ResultsFile), zap.Int("outcomes", len(outcomes)))
	return nil
}

// WriteInvalid writes the rejected identifiers as a one-column CSV. No file is
// produced when nothing was rejected.
func (w *Writer) WriteInvalid(iccids []string) error {
	if len(iccids) == 0 {
		w.logger.Debug("No invalid ICCIDs to report")
		return nil
	}

	f, err := os.Create(w.cfg.InvalidFile)
	if err != nil {
		return fmt.Errorf("creating invalid-ICCID file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"iccid"}); err != nil {
		return fmt.Errorf("writing invalid-ICCID header: %w", err)
	}
	for _, iccid := range iccids {
		if err := cw.Write([]string{iccid}); err != nil {
			return fmt.Errorf("writing invalid-ICCID row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing invalid-ICCID file: %w", err)
	}

	w.logger.Info("Invalid ICCIDs written", zap.String("path", w.cfg.InvalidFile), zap.Int("count", len(iccids)))
	return nil
}

// LogSummary emits the final tally as a structured event.
func (w *Writer) LogSummary(s activation.Summary) {
	w.logger.Info("Run summary",
		zap.Int("total", s.Total),
		zap.Int("success", s.Success),
		zap.Int("already_activated", s.AlreadyActivated),
		zap.Int("processing", s.Processing),
		zap.Int("invalid", s.Invalid),
		zap.Int("failed", s.Failed),
	)
}
