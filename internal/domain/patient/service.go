package patient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/visioncare/records/internal/platform/metrics"
)

// ErrNoRecords is returned when an export is requested with nothing stored.
var ErrNoRecords = errors.New("there are no patient records to export")

// ErrFileRead is returned when the import payload cannot be read.
var ErrFileRead = errors.New("could not read the csv file")

// ErrNoValidRecords is returned when an import parses rows but none of them
// pass validation. An import where every valid row is a duplicate still
// succeeds with everything counted as skipped.
var ErrNoValidRecords = errors.New("no valid patient records found in the csv file")

// ImportSummary reports an import back to the caller: how many records were
// stored and how many were skipped (invalid rows plus duplicate mobiles).
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ListSummary carries the derived totals shown alongside the record list.
type ListSummary struct {
	Count      int     `json:"count"`
	FrameTotal float64 `json:"frameTotal"`
	GlassTotal float64 `json:"glassTotal"`
	GrandTotal float64 `json:"grandTotal"`
}

// Service coordinates the repository, the CSV codec and the observability
// hooks. Metrics may be nil.
type Service struct {
	repo    *Repository
	appName string
	logger  zerolog.Logger
	metrics *metrics.Metrics
}

func NewService(repo *Repository, appName string, logger zerolog.Logger) *Service {
	s := &Service{repo: repo, appName: appName, logger: logger}
	return s
}

// SetMetrics attaches optional Prometheus collectors.
func (s *Service) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
	if m != nil {
		m.PatientsStored.Set(float64(s.repo.Count()))
	}
}

// SubmitNewPatient validates and stores a single form submission.
func (s *Service) SubmitNewPatient(ctx context.Context, candidate Record) (Record, error) {
	stored, err := s.repo.Add(ctx, candidate)
	if err != nil {
		return Record{}, err
	}
	if s.metrics != nil {
		s.metrics.PatientsStored.Set(float64(s.repo.Count()))
	}
	s.logger.Info().Str("id", stored.ID).Msg("patient record added")
	return stored, nil
}

// SearchPatients filters the stored records; a blank query returns them all.
func (s *Service) SearchPatients(query string, field SearchField) []Record {
	return s.repo.Search(query, field)
}

// ListPatients returns the full record set, newest first when byDate is set,
// along with the billing totals.
func (s *Service) ListPatients(byDate bool) ([]Record, ListSummary) {
	records := s.repo.List()
	if byDate {
		records = SortByDate(records)
	}
	var summary ListSummary
	summary.Count = len(records)
	for _, r := range records {
		summary.FrameTotal += parsePrice(r.FramePrice)
		summary.GlassTotal += parsePrice(r.GlassPrice)
	}
	summary.GrandTotal = summary.FrameTotal + summary.GlassTotal
	return records, summary
}

// ExportFilename names an export file after the app and the export date.
func (s *Service) ExportFilename(now time.Time) string {
	return fmt.Sprintf("%s-%s.csv", s.appName, now.Format("2006-01-02"))
}

// ExportCurrentPatients renders every stored record as a CSV blob.
func (s *Service) ExportCurrentPatients() (string, error) {
	records := s.repo.List()
	if len(records) == 0 {
		return "", ErrNoRecords
	}
	s.logger.Info().Int("count", len(records)).Msg("exported patient records")
	return EncodeCSV(records), nil
}

// ImportPatientsFromFile runs the whole import pipeline: read, decode,
// validate, de-duplicate, persist. Read failures, parse failures and files
// with no valid rows abort the attempt without touching stored data; invalid
// and duplicate rows inside an otherwise usable file are skipped and counted.
func (s *Service) ImportPatientsFromFile(ctx context.Context, file io.Reader) (ImportSummary, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return ImportSummary{}, fmt.Errorf("%w: %v", ErrFileRead, err)
	}

	candidates, err := DecodeCSV(string(data), time.Now())
	if err != nil {
		return ImportSummary{}, err
	}

	result, err := s.repo.ImportBatch(ctx, candidates)
	if err != nil {
		return ImportSummary{}, err
	}
	if result.ValidCount == 0 {
		return ImportSummary{}, ErrNoValidRecords
	}

	summary := ImportSummary{Imported: len(result.Accepted), Skipped: result.RejectedCount}
	if s.metrics != nil {
		s.metrics.PatientsStored.Set(float64(s.repo.Count()))
		s.metrics.ImportsAccepted.Add(float64(summary.Imported))
		s.metrics.ImportsRejected.Add(float64(summary.Skipped))
	}
	s.logger.Info().
		Int("imported", summary.Imported).
		Int("skipped", summary.Skipped).
		Msg("csv import finished")
	return summary, nil
}
