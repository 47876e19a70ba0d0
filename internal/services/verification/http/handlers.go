// Package http provides http transport for verification
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"repocred/internal/modkit/httpkit"
	perr "repocred/internal/platform/errors"
	"repocred/internal/services/verification/domain"
	svc "repocred/internal/services/verification/service"
)

// Register mounts verification endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// run the pipeline for one project
	httpkit.PostJSON[domain.VerifyInput](r, "/verify", h.verify)

	// read back the stored report
	httpkit.Get(r, "/report/{project_id}", h.report)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /verification/verify Verification verificationVerify
// @Summary Verify a project's repository authenticity
// @Tags Verification
// @Accept json
// @Produce json
// @Param payload body domain.VerifyInput true "Verification request"
// @Success 200 {object} domain.VerifyOutput "ok"
// @Router /verification/verify [post]
func (h *handlers) verify(r *stdhttp.Request, in domain.VerifyInput) (any, error) {
	return h.svc.Verify(r.Context(), in)
}

// swagger:route GET /verification/report/{project_id} Verification verificationReport
// @Summary Fetch the stored verification report
// @Tags Verification
// @Produce json
// @Param project_id path string true "Project ID"
// @Success 200 {object} score.Report "ok"
// @Router /verification/report/{project_id} [get]
func (h *handlers) report(r *stdhttp.Request) (any, error) {
	id := chi.URLParam(r, "project_id")
	if id == "" {
		return nil, perr.InvalidArgf("project_id is required")
	}
	return h.svc.Report(r.Context(), id)
}
