// Package http provides http transport for jobs
package http

import (
	stdhttp "net/http"

	"batch/internal/modkit/httpkit"
	"batch/internal/services/api/jobs/domain"
	jobsdomain "batch/internal/services/jobs/domain"
)

// Register mounts job endpoints on the given router
func Register(r httpkit.Router, w jobsdomain.WriterPort, q jobsdomain.QueryPort) {
	h := &handlers{w: w, q: q}

	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
	httpkit.PostJSON[domain.StatusInput](r, "/status", h.status)
	httpkit.PostJSON[domain.CompleteInput](r, "/complete", h.complete)
}

type handlers struct {
	w jobsdomain.WriterPort
	q jobsdomain.QueryPort
}

// swagger:route POST /jobs/search Jobs jobsSearch
// @Summary List jobs with filters
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Query"
// @Success 200 {array} jobsdomain.Job "ok"
// @Router /jobs/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.q.List(r.Context(), jobsdomain.Filters{
		Status: jobsdomain.Status(in.Status),
		Run:    in.Run,
		Source: in.Source,
		Layer:  in.Layer,
		Limit:  in.Limit,
	})
}

// swagger:route POST /jobs/get Jobs jobsGet
// @Summary Fetch one job
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} jobsdomain.Job "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /jobs/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	return h.q.Get(r.Context(), in.ID)
}

// swagger:route POST /jobs/status Jobs jobsStatus
// @Summary Advance a job's lifecycle state
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body domain.StatusInput true "Update"
// @Success 200 {object} jobsdomain.Job "ok"
// @Router /jobs/status [post]
func (h *handlers) status(r *stdhttp.Request, in domain.StatusInput) (any, error) {
	return h.w.SetStatus(r.Context(), in.ID, jobsdomain.Status(in.Status))
}

// swagger:route POST /jobs/complete Jobs jobsComplete
// @Summary Finish a job with its ingest stats
// @Tags Jobs
// @Accept json
// @Produce json
// @Param payload body domain.CompleteInput true "Completion"
// @Success 200 {object} jobsdomain.Job "ok"
// @Router /jobs/complete [post]
func (h *handlers) complete(r *stdhttp.Request, in domain.CompleteInput) (any, error) {
	return h.w.Complete(r.Context(), in.ID, in.Stats)
}
