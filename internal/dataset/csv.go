package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lowkh/coewatch/internal/contracts"
	"github.com/lowkh/coewatch/pkg/logger"
)

// Source loads the full historical dataset.
type Source interface {
	Load(ctx context.Context) ([]contracts.BiddingRecord, error)
}

// requiredColumns are the raw dataset columns the pipeline depends on.
// A missing column is fatal before any row is processed.
var requiredColumns = []string{
	"month", "bidding_no", "vehicle_class",
	"quota", "bids_received", "bids_success", "premium",
}

// monthLayouts are the accepted month formats. The published dataset
// uses YYYY-MM; the rest cover common spreadsheet exports.
var monthLayouts = []string{
	"2006-01",
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
	"Jan-06",
}

// CSVSource loads bidding records from a results CSV file.
type CSVSource struct {
	path   string
	logger *logger.Logger
}

// NewCSVSource creates a CSV-backed dataset source
func NewCSVSource(path string, log *logger.Logger) *CSVSource {
	return &CSVSource{
		path:   path,
		logger: log.WithComponent("dataset.csv"),
	}
}

// Load reads and cleans the CSV. Schema is validated before any row is
// processed; rows with unparseable months are dropped; unparseable
// numeric values default to 0. Both recoveries are deterministic.
func (s *CSVSource) Load(ctx context.Context) ([]contracts.BiddingRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &contracts.SchemaError{Missing: missing}
	}

	var records []contracts.BiddingRecord
	dropped := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken line drops that row only, like an
			// unparseable month; later rows still load.
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				dropped++
				continue
			}
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		month, ok := ParseMonth(field(row, columns["month"]))
		if !ok {
			dropped++
			continue
		}

		records = append(records, contracts.BiddingRecord{
			VehicleClass: strings.TrimSpace(field(row, columns["vehicle_class"])),
			Month:        month,
			BiddingNo:    int(ParseNumber(field(row, columns["bidding_no"]))),
			Quota:        ParseNumber(field(row, columns["quota"])),
			BidsReceived: ParseNumber(field(row, columns["bids_received"])),
			BidsSuccess:  ParseNumber(field(row, columns["bids_success"])),
			Premium:      ParseNumber(field(row, columns["premium"])),
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"path":    s.path,
		"records": len(records),
		"dropped": dropped,
	}).Info("Loaded bidding dataset")

	return records, nil
}

func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ParseMonth parses a raw month value against the accepted layouts.
func ParseMonth(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumber coerces a possibly comma-formatted numeric string, per
// the dataset's cleaning rules: thousands separators and surrounding
// whitespace are stripped; anything unparseable becomes 0.
func ParseNumber(raw string) float64 {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", ""))
	if raw == "" {
		return 0
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}
