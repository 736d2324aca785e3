package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/oncall-service/internal/domain"
	apperrors "github.com/spec-kit/oncall-service/pkg/util/errorutil"
)

// ExportService renders projected schedules into downloadable formats: a
// yearly .xlsx workbook (one sheet per month) and an iCalendar feed operators
// can subscribe to. All day-level data comes through CalendarService, so the
// export agrees with the live calendar day for day.
type ExportService struct {
	calendar *CalendarService
	logger   *zap.Logger
}

// NewExportService constructs the service.
func NewExportService(calendar *CalendarService, logger *zap.Logger) *ExportService {
	return &ExportService{calendar: calendar, logger: logger}
}

// ExportYear builds the annual on-call workbook and a suggested filename.
func (s *ExportService) ExportYear(ctx context.Context, year int) (*bytes.Buffer, string, error) {
	cells, err := s.calendar.ProjectRange(ctx,
		time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	byMonth := make(map[time.Month][]domain.DayCell)
	for _, cell := range cells {
		byMonth[cell.Date.Month()] = append(byMonth[cell.Date.Month()], cell)
	}

	for month := time.January; month <= time.December; month++ {
		sheet := month.String()
		if _, err := f.NewSheet(sheet); err != nil {
			s.logger.Error("create export sheet", zap.String("sheet", sheet), zap.Error(err))
			return nil, "", apperrors.NewInternalError(err)
		}

		headers := []string{"Date", "Weekday", "On-Call Operator", "Source"}
		for i, header := range headers {
			col, _ := excelize.ColumnNumberToName(i + 1)
			_ = f.SetCellValue(sheet, col+"1", header)
			_ = f.SetCellStyle(sheet, col+"1", col+"1", headerStyle)
		}
		_ = f.SetColWidth(sheet, "A", "D", 18)

		for i, cell := range byMonth[month] {
			row := i + 2
			name := cell.DisplayName
			if name == "" {
				name = "Unassigned"
			}
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", row), cell.Date.Format("2006-01-02"))
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", row), cell.Date.Weekday().String())
			_ = f.SetCellValue(sheet, fmt.Sprintf("C%d", row), name)
			_ = f.SetCellValue(sheet, fmt.Sprintf("D%d", row), string(cell.Source))

			if cell.ColorCode != "" {
				if style, err := f.NewStyle(&excelize.Style{
					Fill: excelize.Fill{Type: "pattern", Color: []string{cell.ColorCode}, Pattern: 1},
				}); err == nil {
					_ = f.SetCellStyle(sheet, fmt.Sprintf("C%d", row), fmt.Sprintf("C%d", row), style)
				}
			}
		}
	}
	f.DeleteSheet("Sheet1")

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("write export workbook", zap.Error(err))
		return nil, "", apperrors.NewInternalError(err)
	}
	filename := fmt.Sprintf("oncall-schedule-%d.xlsx", year)
	return buf, filename, nil
}

// BuildICS renders the projected range as an iCalendar feed with one all-day
// event per covered date.
func (s *ExportService) BuildICS(ctx context.Context, start, end time.Time) (string, error) {
	cells, err := s.calendar.ProjectRange(ctx, start, end)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//oncall-service//schedule//EN")

	for _, cell := range cells {
		if cell.OperatorID == "" {
			continue
		}
		event := cal.AddEvent(fmt.Sprintf("oncall-%s@oncall-service", cell.Date.Format("20060102")))
		event.SetAllDayStartAt(cell.Date)
		event.SetAllDayEndAt(cell.Date.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("On-call: %s", cell.DisplayName))
		event.SetDescription(fmt.Sprintf("source: %s", cell.Source))
		event.SetDtStampTime(time.Now().UTC())
	}
	return cal.Serialize(), nil
}
