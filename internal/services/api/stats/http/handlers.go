// Package http provides http transport for stats
package http

import (
	stdhttp "net/http"

	"batch/internal/modkit/httpkit"
	"batch/internal/services/api/stats/domain"
	svc "batch/internal/services/api/stats/service"
)

// Register mounts stats endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// buckets by day and status
	httpkit.PostJSON[domain.ByStatusInput](r, "/status", h.byStatus)

	// buckets by layer
	httpkit.PostJSON[domain.ByLayerInput](r, "/layer", h.byLayer)

	// busiest sources in window
	httpkit.PostJSON[domain.BySourceInput](r, "/source", h.bySource)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /stats/status Stats statsByStatus
// @Summary Job counts by day and status
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.ByStatusInput true "Query"
// @Success 200 {array} domain.ByStatusRow "ok"
// @Router /stats/status [post]
func (h *handlers) byStatus(r *stdhttp.Request, in domain.ByStatusInput) (any, error) {
	return h.svc.ByStatus(r.Context(), in)
}

// swagger:route POST /stats/layer Stats statsByLayer
// @Summary Job and feature counts by layer
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.ByLayerInput true "Query"
// @Success 200 {array} domain.ByLayerRow "ok"
// @Router /stats/layer [post]
func (h *handlers) byLayer(r *stdhttp.Request, in domain.ByLayerInput) (any, error) {
	return h.svc.ByLayer(r.Context(), in)
}

// swagger:route POST /stats/source Stats statsBySource
// @Summary Busiest sources in a time window
// @Tags Stats
// @Accept json
// @Produce json
// @Param payload body domain.BySourceInput true "Query"
// @Success 200 {array} domain.BySourceRow "ok"
// @Router /stats/source [post]
func (h *handlers) bySource(r *stdhttp.Request, in domain.BySourceInput) (any, error) {
	return h.svc.BySource(r.Context(), in)
}
