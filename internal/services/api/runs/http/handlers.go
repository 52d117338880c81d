// Package http provides http transport for runs
package http

import (
	stdhttp "net/http"

	"batch/internal/modkit/httpkit"
	"batch/internal/services/api/runs/domain"
	svc "batch/internal/services/api/runs/service"
)

// Register mounts run endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.SubmitInput](r, "/submit", h.submit)
	httpkit.PostJSON[domain.SearchInput](r, "/search", h.search)
	httpkit.PostJSON[domain.GetInput](r, "/get", h.get)
	httpkit.PostJSON[domain.GetInput](r, "/close", h.close)
	httpkit.PostJSON[domain.GetInput](r, "/jobs", h.jobs)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /runs/submit Runs runsSubmit
// @Summary Open a run and seed its jobs from source documents
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.SubmitInput true "Submission"
// @Success 200 {object} domain.SubmitOutput "ok"
// @Router /runs/submit [post]
func (h *handlers) submit(r *stdhttp.Request, in domain.SubmitInput) (any, error) {
	return h.svc.Submit(r.Context(), in)
}

// swagger:route POST /runs/search Runs runsSearch
// @Summary List recent runs
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.SearchInput true "Query"
// @Success 200 {array} runsdomain.Run "ok"
// @Router /runs/search [post]
func (h *handlers) search(r *stdhttp.Request, in domain.SearchInput) (any, error) {
	return h.svc.List(r.Context(), in.Limit)
}

// swagger:route POST /runs/get Runs runsGet
// @Summary Fetch one run
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Query"
// @Success 200 {object} runsdomain.Run "ok"
// @Failure 404 {object} httpkit.Envelope "not found"
// @Router /runs/get [post]
func (h *handlers) get(r *stdhttp.Request, in domain.GetInput) (any, error) {
	return h.svc.Get(r.Context(), in.ID)
}

// swagger:route POST /runs/close Runs runsClose
// @Summary Close a run
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Run"
// @Success 200 {object} runsdomain.Run "ok"
// @Router /runs/close [post]
func (h *handlers) close(r *stdhttp.Request, in domain.GetInput) (any, error) {
	return h.svc.Close(r.Context(), in.ID)
}

// swagger:route POST /runs/jobs Runs runsJobs
// @Summary Jobs created under a run
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.GetInput true "Run"
// @Success 200 {array} jobsdomain.Job "ok"
// @Router /runs/jobs [post]
func (h *handlers) jobs(r *stdhttp.Request, in domain.GetInput) (any, error) {
	return h.svc.Jobs(r.Context(), in.ID)
}
