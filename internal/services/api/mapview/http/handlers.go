// Package http provides http transport for the map surface
package http

import (
	stdhttp "net/http"

	"batch/internal/modkit/httpkit"
	perr "batch/internal/platform/errors"
	"batch/internal/services/api/mapview/domain"
	regdomain "batch/internal/services/regions/domain"
)

// Register mounts map endpoints on the given router
func Register(r httpkit.Router, q regdomain.QueryPort) {
	h := &handlers{q: q}

	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
	httpkit.PostJSON[domain.PointInput](r, "/point", h.point)
}

type handlers struct{ q regdomain.QueryPort }

// swagger:route POST /map/search Map mapSearch
// @Summary List known regions
// @Tags Map
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Query"
// @Success 200 {array} regdomain.Region "ok"
// @Router /map/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.q.List(r.Context(), in.Limit)
}

// swagger:route POST /map/get Map mapGet
// @Summary Fetch one region by code or id
// @Tags Map
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} regdomain.Region "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /map/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	switch {
	case in.Code != "" && in.ID != 0:
		return nil, perr.Newf(perr.ErrorCodeValidation, "map: code and id are mutually exclusive")
	case in.Code != "":
		return h.q.ByCode(r.Context(), in.Code)
	case in.ID != 0:
		return h.q.ByID(r.Context(), in.ID)
	default:
		return nil, perr.Newf(perr.ErrorCodeValidation, "map: code or id required")
	}
}

// swagger:route POST /map/point Map mapPoint
// @Summary Find the region nearest a lon/lat point
// @Tags Map
// @Accept json
// @Produce json
// @Param payload body domain.PointInput true "Query"
// @Success 200 {object} regdomain.Region "ok"
// @Failure 404 {object} httpkit.Envelope "no region within radius"
// @Router /map/point [post]
func (h *handlers) point(r *stdhttp.Request, in domain.PointInput) (any, error) {
	return h.q.Nearest(r.Context(), in.Point[0], in.Point[1], in.Radius)
}
