package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sorajobs/admin-dashboard/internal/handlers/v1alpha1/mappers"
	"github.com/sorajobs/admin-dashboard/internal/service"
	"github.com/sorajobs/admin-dashboard/internal/status"
)

// jobFilterFromRequest reads the shared listing query parameters. The
// status value must be one of the canonical states.
func jobFilterFromRequest(r *http.Request) (service.JobFilter, error) {
	filter := service.JobFilter{
		Provider: r.URL.Query().Get("provider"),
		UserID:   r.URL.Query().Get("user_id"),
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, fmt.Errorf("invalid limit %q", raw)
		}
		filter.Limit = limit
	}

	if raw := r.URL.Query().Get("status"); raw != "" {
		canonical := status.Canonical(raw)
		known := false
		for _, s := range status.All() {
			if s == canonical {
				known = true
				break
			}
		}
		if !known {
			return filter, fmt.Errorf("unknown status %q", raw)
		}
		filter.CanonicalStatus = canonical
	}

	return filter, nil
}

func (h *ServiceHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromRequest(r)
	if err != nil {
		replyErrorWithCode(w, r, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.jobSrv.ListJobs(r.Context(), filter)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to list jobs", "error", err)
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

func (h *ServiceHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		replyErrorWithCode(w, r, http.StatusBadRequest, fmt.Sprintf("invalid job id: %v", err))
		return
	}

	job, err := h.jobSrv.GetJob(r.Context(), id)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to get job", "job_id", id, "error", err)
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobToApi(*job))
}

func (h *ServiceHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromRequest(r)
	if err != nil {
		replyErrorWithCode(w, r, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.jobSrv.Summary(r.Context(), filter)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to summarize jobs", "error", err)
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.SummaryToApi(summary))
}

func (h *ServiceHandler) ListStuckJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromRequest(r)
	if err != nil {
		replyErrorWithCode(w, r, http.StatusBadRequest, err.Error())
		return
	}

	jobs, err := h.jobSrv.StuckJobs(r.Context(), filter)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to list stuck jobs", "error", err)
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.JobListToApi(jobs))
}

func (h *ServiceHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromRequest(r)
	if err != nil {
		replyErrorWithCode(w, r, http.StatusBadRequest, err.Error())
		return
	}

	var bucket time.Duration
	if raw := r.URL.Query().Get("bucket"); raw != "" {
		bucket, err = time.ParseDuration(raw)
		if err != nil || bucket <= 0 {
			replyErrorWithCode(w, r, http.StatusBadRequest, fmt.Sprintf("invalid bucket %q", raw))
			return
		}
	}

	buckets, err := h.jobSrv.Activity(r.Context(), bucket, filter)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to bucket job activity", "error", err)
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, mappers.ActivityToApi(buckets))
}

func (h *ServiceHandler) ExportJobs(w http.ResponseWriter, r *http.Request) {
	filter, err := jobFilterFromRequest(r)
	if err != nil {
		replyErrorWithCode(w, r, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.exportSrv.ExportJobsXLSX(r.Context(), filter)
	if err != nil {
		zap.S().Named("job_handler").Errorw("failed to export jobs", "error", err)
		replyError(w, r, err)
		return
	}

	filename := fmt.Sprintf("jobs_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
