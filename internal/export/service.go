package export

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/sorajobs/admin-dashboard/internal/service"
)

const sheetName = "Jobs"

var headers = []string{
	"ID",
	"User ID",
	"Status",
	"Provider",
	"Provider Status",
	"Queue Position",
	"Minutes Since Update",
	"Stuck",
	"Provider Error",
	"Video URL",
	"Created At",
	"Updated At",
}

// JobLister is the slice of the job service the exporter needs.
type JobLister interface {
	ListJobs(ctx context.Context, filter service.JobFilter) ([]service.DerivedJob, error)
}

// ExportService renders the current job listing as an XLSX workbook.
type ExportService struct {
	jobs JobLister
	log  *zap.SugaredLogger
}

func NewExportService(jobs JobLister) *ExportService {
	return &ExportService{
		jobs: jobs,
		log:  zap.S().Named("export"),
	}
}

// ExportJobsXLSX produces workbook bytes for the jobs matching the filter.
// Rows carry the same derived columns the listing endpoints serve.
func (s *ExportService) ExportJobsXLSX(ctx context.Context, filter service.JobFilter) ([]byte, error) {
	start := time.Now()

	jobs, err := s.jobs.ListJobs(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	if _, err := f.NewSheet(sheetName); err != nil {
		return nil, errors.Wrap(err, "creating sheet")
	}
	index, _ := f.GetSheetIndex(sheetName)
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for rowIdx, job := range jobs {
		row := rowIdx + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}

		write(1, job.ID.String())
		write(2, stringOrEmpty(job.UserID))
		write(3, job.StatusDisplay)
		write(4, job.Provider)
		write(5, stringOrNA(job.ProviderStatus))
		if job.QueuePosition != nil {
			write(6, *job.QueuePosition)
		}
		write(7, math.Round(job.MinutesSinceUpdate*10)/10)
		write(8, job.IsStuck)
		write(9, stringOrEmpty(job.ProviderError))
		write(10, stringOrEmpty(job.VideoURL))
		write(11, job.CreatedAt.UTC().Format(time.RFC3339))
		if job.UpdatedAt != nil {
			write(12, job.UpdatedAt.UTC().Format(time.RFC3339))
		}
	}

	_ = f.SetColWidth(sheetName, "A", "B", 38)
	_ = f.SetColWidth(sheetName, "C", "E", 18)
	_ = f.SetColWidth(sheetName, "I", "J", 48)
	_ = f.SetColWidth(sheetName, "K", "L", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "writing workbook")
	}

	s.log.Infow("jobs exported", "rows", len(jobs), "elapsed_ms", time.Since(start).Milliseconds())
	return buf.Bytes(), nil
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func stringOrNA(v *string) string {
	if v == nil || *v == "" {
		return "n/a"
	}
	return *v
}
