package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noelyen/classtrack-api/internal/models"
	"github.com/noelyen/classtrack-api/pkg/config"
	appErrors "github.com/noelyen/classtrack-api/pkg/errors"
	"github.com/noelyen/classtrack-api/pkg/export"
)

type reportRepository interface {
	MonthlyReport(ctx context.Context, from, to time.Time) ([]models.MonthlyReportRow, error)
}

var reportHeaders = []string{"Date", "Student", "Course", "Time", "Teacher", "Status", "Remaining Classes"}

// ReportService aggregates the attendance ledger into monthly tabular
// output. Each row carries the student's balance as of query time;
// the cache is therefore off unless explicitly enabled, and short-lived
// when it is on.
type ReportService struct {
	repo    reportRepository
	cache   *redis.Client
	cfg     config.ReportsConfig
	metrics *MetricsService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewReportService constructs the report service. cache may be nil.
func NewReportService(repo reportRepository, cache *redis.Client, cfg config.ReportsConfig, metrics *MetricsService, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		repo:    repo,
		cache:   cache,
		cfg:     cfg,
		metrics: metrics,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Monthly returns the attendance rows for one calendar month, sorted
// by (date, student name).
func (s *ReportService) Monthly(ctx context.Context, year, month int) ([]models.MonthlyReportRow, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("month %d out of range", month))
	}
	if year < 1970 || year > 9999 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("year %d out of range", year))
	}

	key := fmt.Sprintf("report:monthly:%04d-%02d", year, month)
	if rows, ok := s.fromCache(ctx, key); ok {
		return rows, nil
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0).AddDate(0, 0, -1)

	rows, err := s.repo.MonthlyReport(ctx, from, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build monthly report")
	}
	s.toCache(ctx, key, rows)
	return rows, nil
}

// MonthlyCSV renders the month's rows as a CSV document.
func (s *ReportService) MonthlyCSV(ctx context.Context, year, month int) ([]byte, string, error) {
	rows, err := s.Monthly(ctx, year, month)
	if err != nil {
		return nil, "", err
	}
	data, err := s.csv.Render(export.Dataset{Headers: reportHeaders, Rows: reportCells(rows)})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, fmt.Sprintf("attendance_report_%04d_%02d.csv", year, month), nil
}

// MonthlyPDF renders the month's rows as a PDF document.
func (s *ReportService) MonthlyPDF(ctx context.Context, year, month int) ([]byte, string, error) {
	rows, err := s.Monthly(ctx, year, month)
	if err != nil {
		return nil, "", err
	}
	title := fmt.Sprintf("Attendance Report %04d-%02d", year, month)
	data, err := s.pdf.Render(export.Dataset{Headers: reportHeaders, Rows: reportCells(rows)}, title)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, fmt.Sprintf("attendance_report_%04d_%02d.pdf", year, month), nil
}

func reportCells(rows []models.MonthlyReportRow) [][]string {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{
			row.Date.Format(dateLayout),
			row.StudentName,
			row.CourseName,
			fmt.Sprintf("%s-%s", row.StartTime, row.EndTime),
			row.TeacherName,
			string(row.Status),
			fmt.Sprintf("%d", row.RemainingClasses),
		})
	}
	return cells
}

func (s *ReportService) fromCache(ctx context.Context, key string) ([]models.MonthlyReportRow, bool) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return nil, false
	}
	start := time.Now()
	payload, err := s.cache.Get(ctx, key).Bytes()
	hit := err == nil
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit, time.Since(start))
	}
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("report cache read failed", zap.Error(err))
		}
		return nil, false
	}
	var rows []models.MonthlyReportRow
	if err := json.Unmarshal(payload, &rows); err != nil {
		s.logger.Warn("report cache decode failed", zap.Error(err))
		return nil, false
	}
	return rows, true
}

func (s *ReportService) toCache(ctx context.Context, key string, rows []models.MonthlyReportRow) {
	if !s.cfg.CacheEnabled || s.cache == nil {
		return
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return
	}
	start := time.Now()
	if err := s.cache.Set(ctx, key, payload, s.cfg.CacheTTL).Err(); err != nil {
		s.logger.Warn("report cache write failed", zap.Error(err))
		return
	}
	if s.metrics != nil {
		s.metrics.ObserveCacheWrite(time.Since(start))
	}
}
