package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AijiY/StudentManagement/internal/models"
	appErrors "github.com/AijiY/StudentManagement/pkg/errors"
	"github.com/AijiY/StudentManagement/pkg/export"
)

// ExportFormat selects the roster file type.
type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatPDF  ExportFormat = "pdf"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var exportContentTypes = map[ExportFormat]string{
	ExportFormatCSV:  "text/csv; charset=utf-8",
	ExportFormatPDF:  "application/pdf",
	ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseExportFormat validates a format name. Empty means CSV.
func ParseExportFormat(raw string) (ExportFormat, error) {
	format := ExportFormat(strings.ToLower(strings.TrimSpace(raw)))
	if format == "" {
		return ExportFormatCSV, nil
	}
	if _, ok := exportContentTypes[format]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", raw))
	}
	return format, nil
}

// ExportResult is a rendered roster ready to be streamed.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

type studentSearcher interface {
	SearchStudents(ctx context.Context, filter models.StudentSearchFilter) ([]models.StudentDetail, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type documentRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders student rosters, one row per enrollment.
type ExportService struct {
	students studentSearcher
	csv      csvRenderer
	pdf      documentRenderer
	xlsx     documentRenderer
	maxRows  int
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// pkg/export implementations.
func NewExportService(students studentSearcher, maxRows int, logger *zap.Logger, csv csvRenderer, pdf, xlsx documentRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter(true)
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter()
	}
	return &ExportService{students: students, csv: csv, pdf: pdf, xlsx: xlsx, maxRows: maxRows, logger: logger, now: time.Now}
}

var rosterHeaders = []string{"Student ID", "Name", "Kana Name", "Email", "Deleted", "Course", "Start Date", "End Due Date"}

// ExportStudents renders the student details selected by filter.
func (s *ExportService) ExportStudents(ctx context.Context, format ExportFormat, filter models.StudentSearchFilter) (*ExportResult, error) {
	contentType, ok := exportContentTypes[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	details, err := s.students.SearchStudents(ctx, filter)
	if err != nil {
		return nil, err
	}
	dataset := rosterDataset(details)
	if s.maxRows > 0 && len(dataset.Rows) > s.maxRows {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("export exceeds %d rows", s.maxRows))
	}

	title := "Student Roster"
	if filter.Status != nil {
		title += " " + filter.Status.String()
	}

	var payload []byte
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	case ExportFormatXLSX:
		payload, err = s.xlsx.Render(dataset, title)
	}
	if err != nil {
		return nil, internalError(err, "failed to render roster")
	}

	s.logger.Info("roster exported", zap.String("format", string(format)), zap.Int("rows", len(dataset.Rows)))
	return &ExportResult{
		Filename:    fmt.Sprintf("students_%s.%s", s.now().UTC().Format("20060102_150405"), format),
		ContentType: contentType,
		Data:        payload,
	}, nil
}

func rosterDataset(details []models.StudentDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(details))
	for _, d := range details {
		base := map[string]string{
			"Student ID": d.Student.ID,
			"Name":       d.Student.Name,
			"Kana Name":  d.Student.KanaName,
			"Email":      d.Student.Email,
			"Deleted":    strconv.FormatBool(d.Student.Deleted),
		}
		if len(d.Enrollments) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, e := range d.Enrollments {
			row := make(map[string]string, len(rosterHeaders))
			for k, v := range base {
				row[k] = v
			}
			row["Course"] = e.CourseName
			row["Start Date"] = e.StartDate.Format("2006-01-02")
			row["End Due Date"] = e.EndDueDate.Format("2006-01-02")
			rows = append(rows, row)
		}
	}
	return export.Dataset{Headers: rosterHeaders, Rows: rows}
}
