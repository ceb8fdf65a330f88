package handler

import (
	"net/http"

	"github.com/SarvaniBalivada/sports-schedular/internal/api/middleware"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/request"
	"github.com/SarvaniBalivada/sports-schedular/internal/api/response"
	"github.com/SarvaniBalivada/sports-schedular/internal/model"
	"github.com/SarvaniBalivada/sports-schedular/internal/services/report"
)

// ReportHandler handles administrative reports
type ReportHandler struct {
	reportService *report.Service
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *report.Service) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// Sessions handles GET /api/v1/admin/reports/sessions
func (h *ReportHandler) Sessions(w http.ResponseWriter, r *http.Request) {
	identity := middleware.MustGetIdentity(r.Context())
	query := r.URL.Query()

	start, err := request.ParseDate("start_date", query.Get("start_date"))
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}
	end, err := request.ParseDate("end_date", query.Get("end_date"))
	if err != nil {
		WriteError(w, NewInvalidRequestError(err.Error()))
		return
	}

	result, err := h.reportService.SessionReport(r.Context(), identity, model.DateRange{Start: start, End: end})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.OK(w, response.ReportFromModel(result, request.DateLayout))
}
