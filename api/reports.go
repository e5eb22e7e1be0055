package api

import (
	"net/http"
	"time"

	"github.com/akarsenev/parkslot/internal/domain"
	"github.com/akarsenev/parkslot/internal/service/reports"
	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	service reports.ReportUseCase
}

type submitReportRequest struct {
	SlotID       string `json:"slot_id"`
	ReporterName string `json:"reporter_name"`
	Message      string `json:"message"`
}

type reportResponse struct {
	ID           string `json:"id"`
	SlotID       string `json:"slot_id"`
	SlotNumber   string `json:"slot_number"`
	ReporterName string `json:"reporter_name"`
	Message      string `json:"message"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
}

func NewReportHandler(service reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{service: service}
}

func (h *ReportHandler) Register(router *gin.RouterGroup, admin gin.HandlerFunc) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.PUT("/:id", admin, h.resolve)
}

func (h *ReportHandler) list(c *gin.Context) {
	result, err := h.service.ListReports(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]reportResponse, 0, len(result))
	for _, r := range result {
		out = append(out, toReportResponse(&r))
	}
	c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) create(c *gin.Context) {
	var req submitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.service.SubmitReport(c.Request.Context(), reports.SubmitReportInput{
		SlotID:       req.SlotID,
		ReporterName: req.ReporterName,
		Message:      req.Message,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReportResponse(created))
}

func (h *ReportHandler) resolve(c *gin.Context) {
	resolved, err := h.service.ResolveReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReportResponse(resolved))
}

func toReportResponse(r *domain.Report) reportResponse {
	return reportResponse{
		ID:           r.ID,
		SlotID:       r.SlotID,
		SlotNumber:   r.SlotNumber,
		ReporterName: r.ReporterName,
		Message:      r.Message,
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
