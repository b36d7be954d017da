package v1alpha1

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	api "github.com/sorajobs/admin-dashboard/api/v1alpha1"
	"github.com/sorajobs/admin-dashboard/internal/export"
	"github.com/sorajobs/admin-dashboard/internal/service"
	"github.com/sorajobs/admin-dashboard/pkg/requestid"
)

type ServiceHandler struct {
	jobSrv    *service.JobService
	pollerSrv *service.PollerService
	exportSrv *export.ExportService
}

func NewServiceHandler(jobSrv *service.JobService, pollerSrv *service.PollerService, exportSrv *export.ExportService) *ServiceHandler {
	return &ServiceHandler{
		jobSrv:    jobSrv,
		pollerSrv: pollerSrv,
		exportSrv: exportSrv,
	}
}

// RegisterRoutes mounts the v1alpha1 surface on the given router.
func (h *ServiceHandler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
	r.Route("/api/v1alpha1", func(r chi.Router) {
		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", h.ListJobs)
			r.Get("/summary", h.GetSummary)
			r.Get("/stuck", h.ListStuckJobs)
			r.Get("/activity", h.GetActivity)
			r.Get("/export", h.ExportJobs)
			r.Get("/{id}", h.GetJob)
		})
		r.Post("/poller/run", h.TriggerPollerRun)
	})
}

func (h *ServiceHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.Health{Status: "ok"})
}

// replyError maps typed service errors onto status codes and writes the
// common error body.
func replyError(w http.ResponseWriter, r *http.Request, err error) {
	code := http.StatusInternalServerError
	switch err.(type) {
	case *service.ErrInvalidBatchSize:
		code = http.StatusBadRequest
	case *service.ErrJobNotFound:
		code = http.StatusNotFound
	case *service.ErrPollerNotConfigured, *service.ErrPollerUnavailable:
		code = http.StatusBadGateway
	}
	replyErrorWithCode(w, r, code, err.Error())
}

func replyErrorWithCode(w http.ResponseWriter, r *http.Request, code int, message string) {
	render.Status(r, code)
	render.JSON(w, r, api.Error{Message: message, RequestId: requestid.FromRequest(r)})
}
