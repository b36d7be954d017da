package v1alpha1

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"go.uber.org/zap"

	api "github.com/sorajobs/admin-dashboard/api/v1alpha1"
)

// TriggerPollerRun asks the external poller to process one batch. The
// batch size defaults to the configured value; validation happens in the
// service.
func (h *ServiceHandler) TriggerPollerRun(w http.ResponseWriter, r *http.Request) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			replyErrorWithCode(w, r, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = parsed
	}

	result, err := h.pollerSrv.Run(r.Context(), limit)
	if err != nil {
		zap.S().Named("poller_handler").Errorw("failed to trigger poller run", "limit", limit, "error", err)
		replyError(w, r, err)
		return
	}

	render.JSON(w, r, api.PollerRunResult{Processed: result.Processed, Updated: result.Updated})
}
