package service

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/voyago/trip-planner-api/internal/dto"
	"github.com/voyago/trip-planner-api/pkg/export"
	appErrors "github.com/voyago/trip-planner-api/pkg/errors"
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(headers []string, sections []export.Section, title string) ([]byte, error)
}

// ExportResult is a rendered itinerary document.
type ExportResult struct {
	Filename string
	MimeType string
	Payload  []byte
}

// ExportService renders generated itineraries into downloadable documents.
type ExportService struct {
	csv       csvRenderer
	pdf       pdfRenderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{csv: csv, pdf: pdf, validator: validate, logger: logger}
}

var itineraryHeaders = []string{"Start", "End", "Activity", "Duration (min)", "Price", "Booking"}

// ExportPlan renders the submitted plan into the requested format.
func (s *ExportService) ExportPlan(req dto.ExportPlanRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	title := fmt.Sprintf("Itinerary %s (%s to %s)", req.Plan.DestinationID, req.Plan.StartDate, req.Plan.EndDate)
	filename := fmt.Sprintf("itinerary_%s_%s", req.Plan.DestinationID, req.Plan.StartDate)

	switch req.Format {
	case "csv":
		payload, err := s.csv.Render(planDataset(req.Plan))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{Filename: filename + ".csv", MimeType: "text/csv", Payload: payload}, nil
	case "pdf":
		payload, err := s.pdf.Render(itineraryHeaders, planSections(req.Plan), title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{Filename: filename + ".pdf", MimeType: "application/pdf", Payload: payload}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", req.Format))
	}
}

func planDataset(plan dto.GeneratePlanResponse) export.Dataset {
	dataset := export.Dataset{Headers: append([]string{"Date"}, itineraryHeaders...)}
	for _, day := range plan.Days {
		if len(day.Activities) == 0 {
			dataset.Rows = append(dataset.Rows, map[string]string{"Date": day.Date, "Activity": "free day"})
			continue
		}
		for _, activity := range day.Activities {
			row := activityRow(activity)
			row["Date"] = day.Date
			dataset.Rows = append(dataset.Rows, row)
		}
	}
	return dataset
}

func planSections(plan dto.GeneratePlanResponse) []export.Section {
	sections := make([]export.Section, 0, len(plan.Days))
	for _, day := range plan.Days {
		section := export.Section{Title: day.Date}
		for _, activity := range day.Activities {
			section.Rows = append(section.Rows, activityRow(activity))
		}
		sections = append(sections, section)
	}
	return sections
}

func activityRow(activity dto.PlannedActivity) map[string]string {
	price := ""
	if activity.Price > 0 {
		price = fmt.Sprintf("%.2f %s", activity.Price, activity.Currency)
	}
	return map[string]string{
		"Start":          activity.StartTimestamp.Format(time.Kitchen),
		"End":            activity.EndTimestamp.Format(time.Kitchen),
		"Activity":       activity.Title,
		"Duration (min)": strconv.Itoa(activity.DurationMinutes),
		"Price":          price,
		"Booking":        activity.BookingURL,
	}
}
