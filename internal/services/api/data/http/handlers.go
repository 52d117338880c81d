// Package http provides http transport for data
package http

import (
	stdhttp "net/http"

	"batch/internal/modkit/httpkit"
	"batch/internal/services/api/data/domain"
	resultsdomain "batch/internal/services/results/domain"
)

// Register mounts data endpoints on the given router
func Register(r httpkit.Router, q resultsdomain.QueryPort) {
	h := &handlers{q: q}

	// latest successful output per source layer
	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)

	// past jobs for one source layer
	httpkit.PostJSON[domain.HistoryInput](r, "/history", h.history)
}

type handlers struct{ q resultsdomain.QueryPort }

// swagger:route POST /data/search Data dataSearch
// @Summary Latest successful output per source layer
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Query"
// @Success 200 {array} resultsdomain.Result "ok"
// @Router /data/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.q.List(r.Context(), resultsdomain.Filters{
		Source:        in.Source,
		Layer:         in.Layer,
		Point:         in.Point,
		RadiusDegrees: in.Radius,
		Limit:         in.Limit,
	})
}

// swagger:route POST /data/history Data dataHistory
// @Summary Past jobs for one source layer
// @Tags Data
// @Accept json
// @Produce json
// @Param payload body domain.HistoryInput true "Query"
// @Success 200 {array} resultsdomain.HistoryEntry "ok"
// @Router /data/history [post]
func (h *handlers) history(r *stdhttp.Request, in domain.HistoryInput) (any, error) {
	return h.q.History(r.Context(), in.Source, in.Layer, in.Name, in.Limit)
}
