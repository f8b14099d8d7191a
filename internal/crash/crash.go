// Package crash records errors that should be looked at later. Reports are
// JSON files, one per error, kept until somebody deletes them.
package crash

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lightningnetwork/lnd/clock"
	"go.uber.org/zap"
)

var log = zap.NewNop()

// UseLogger sets the package-wide logger.
func UseLogger(logger *zap.Logger) {
	log = logger.Named("crash")
}

const fileSuffix = ".json"

// Report is a single recorded error.
type Report struct {
	ID         string    `json:"id"`
	Error      string    `json:"error"`
	Stack      string    `json:"stack,omitempty"`
	AppVersion string    `json:"appVersion"`
	IsUncaught bool      `json:"isUncaught"`
	Time       time.Time `json:"time"`
}

// Reporter writes reports to a directory.
type Reporter struct {
	dir        string
	appVersion string
	clock      clock.Clock
}

func NewReporter(dir, appVersion string, clk clock.Clock) *Reporter {
	return &Reporter{dir: dir, appVersion: appVersion, clock: clk}
}

// Dir is where reports are written.
func (r *Reporter) Dir() string {
	return r.dir
}

// ReportCaught records an error the program recovered from.
func (r *Reporter) ReportCaught(err error) (*Report, error) {
	return r.write(err, "", false)
}

// ReportUncaught records a panic value and its stack.
func (r *Reporter) ReportUncaught(recovered any, stack []byte) (*Report, error) {
	err, ok := recovered.(error)
	if !ok {
		err = fmt.Errorf("%v", recovered)
	}
	return r.write(err, string(stack), true)
}

func (r *Reporter) write(cause error, stack string, uncaught bool) (*Report, error) {
	if cause == nil {
		return nil, errors.New("nothing to report")
	}

	report := &Report{
		ID:         uuid.NewString(),
		Error:      cause.Error(),
		Stack:      stack,
		AppVersion: r.appVersion,
		IsUncaught: uncaught,
		Time:       r.clock.Now().UTC(),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode crash report: %w", err)
	}
	if err := os.MkdirAll(r.dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create crash directory: %w", err)
	}

	// Timestamp first so reports list in order.
	name := fmt.Sprintf("%s_%s%s", report.Time.Format("20060102T150405.000"), report.ID, fileSuffix)
	if err := os.WriteFile(filepath.Join(r.dir, name), data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write crash report: %w", err)
	}

	log.Warn("Crash report written",
		zap.String("id", report.ID), zap.Bool("uncaught", uncaught), zap.Error(cause))
	return report, nil
}

// List returns all reports, oldest first. Unreadable files are skipped.
func (r *Reporter) List() ([]Report, error) {
	entries, err := os.ReadDir(r.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list crash reports: %w", err)
	}

	var reports []Report
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), fileSuffix) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(r.dir, e.Name()))
		if err != nil {
			log.Warn("Skipping unreadable crash report", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		var report Report
		if err := json.Unmarshal(data, &report); err != nil {
			log.Warn("Skipping malformed crash report", zap.String("file", e.Name()), zap.Error(err))
			continue
		}
		reports = append(reports, report)
	}

	slices.SortStableFunc(reports, func(a, b Report) int {
		return a.Time.Compare(b.Time)
	})
	return reports, nil
}
