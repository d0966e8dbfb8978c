package performancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/domain/performance"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service  *performance.Service
	Subjects shared.SubjectResolver
	Debug    bool
}

func NewHandler(service *performance.Service, subjects shared.SubjectResolver, debug bool) *Handler {
	return &Handler{Service: service, Subjects: subjects, Debug: debug}
}

type reviewRequest struct {
	EmployeeID       int64            `json:"employeeId" validate:"required,gt=0"`
	ReviewerID       int64            `json:"reviewerId" validate:"required,gt=0"`
	Period           string           `json:"period" validate:"required,max=50"`
	Rating           *decimal.Decimal `json:"rating" validate:"required"`
	TechnicalSkills  *decimal.Decimal `json:"technicalSkills"`
	Communication    *decimal.Decimal `json:"communication"`
	Teamwork         *decimal.Decimal `json:"teamwork"`
	Leadership       *decimal.Decimal `json:"leadership"`
	Review           string           `json:"review" validate:"max=5000"`
	Goals            string           `json:"goals" validate:"max=5000"`
	ImprovementAreas string           `json:"improvementAreas" validate:"max=5000"`
	Status           string           `json:"status" validate:"omitempty,oneof=draft submitted approved closed"`
}

// Sub-scores accept an explicit null to remove a previously given score.
type reviewPatchRequest struct {
	ReviewerID       *int64                         `json:"reviewerId" validate:"omitempty,gt=0"`
	Period           *string                        `json:"period" validate:"omitempty,max=50"`
	Rating           *decimal.Decimal               `json:"rating"`
	TechnicalSkills  core.Nullable[decimal.Decimal] `json:"technicalSkills"`
	Communication    core.Nullable[decimal.Decimal] `json:"communication"`
	Teamwork         core.Nullable[decimal.Decimal] `json:"teamwork"`
	Leadership       core.Nullable[decimal.Decimal] `json:"leadership"`
	Review           *string                        `json:"review" validate:"omitempty,max=5000"`
	Goals            *string                        `json:"goals" validate:"omitempty,max=5000"`
	ImprovementAreas *string                        `json:"improvementAreas" validate:"omitempty,max=5000"`
	Status           *string                        `json:"status" validate:"omitempty,oneof=draft submitted approved closed"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.OpReviewList)).Get("/", h.handleList)
		r.With(middleware.RequireCapability(auth.OpReviewList)).Get("/summary", h.handleSummary)
		r.With(middleware.RequireCapability(auth.OpReviewCreate)).Post("/", h.handleCreate)
		r.Route("/{reviewID}", func(r chi.Router) {
			r.With(middleware.RequireCapability(auth.OpReviewRead)).Get("/", h.handleGet)
			r.With(middleware.RequireCapability(auth.OpReviewUpdate)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireCapability(auth.OpReviewDelete)).Delete("/", h.handleDelete)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, err, h.Debug)
}

func (h *Handler) scope(r *http.Request) (*int64, error) {
	identity, _ := middleware.GetIdentity(r.Context())
	return shared.Scope(r.Context(), h.Subjects, identity)
}

func parseFilter(r *http.Request) (performance.Filter, error) {
	page, err := shared.ParsePagination(r)
	if err != nil {
		return performance.Filter{}, err
	}
	filter := performance.Filter{
		Period: r.URL.Query().Get("period"),
		Status: r.URL.Query().Get("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if filter.EmployeeID, err = shared.QueryInt64(r, "employeeId"); err != nil {
		return performance.Filter{}, err
	}
	if filter.ReviewerID, err = shared.QueryInt64(r, "reviewerId"); err != nil {
		return performance.Filter{}, err
	}
	return filter, nil
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	reviews, total, err := h.Service.List(r.Context(), filter, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, api.Page[performance.Review]{Items: reviews, Total: total, Limit: filter.Limit, Offset: filter.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	summary, err := h.Service.Summary(r.Context(), filter, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, summary, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "reviewID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rev, err := h.Service.Get(r.Context(), id, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rev, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload reviewRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	rev, err := h.Service.Create(r.Context(), performance.Input{
		EmployeeID:       payload.EmployeeID,
		ReviewerID:       payload.ReviewerID,
		Period:           payload.Period,
		Rating:           *payload.Rating,
		TechnicalSkills:  payload.TechnicalSkills,
		Communication:    payload.Communication,
		Teamwork:         payload.Teamwork,
		Leadership:       payload.Leadership,
		Review:           payload.Review,
		Goals:            payload.Goals,
		ImprovementAreas: payload.ImprovementAreas,
		Status:           payload.Status,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "review.create", "review", rev.ID, nil)
	api.Created(w, rev, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "reviewID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload reviewPatchRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}

	patch := performance.Patch{
		ReviewerID:       payload.ReviewerID,
		Period:           payload.Period,
		Rating:           payload.Rating,
		Review:           payload.Review,
		Goals:            payload.Goals,
		ImprovementAreas: payload.ImprovementAreas,
		Status:           payload.Status,
	}
	patch.TechnicalSkills = score(&patch, "technicalSkills", payload.TechnicalSkills)
	patch.Communication = score(&patch, "communication", payload.Communication)
	patch.Teamwork = score(&patch, "teamwork", payload.Teamwork)
	patch.Leadership = score(&patch, "leadership", payload.Leadership)

	rev, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "review.update", "review", id, nil)
	api.Success(w, rev, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "reviewID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "review.delete", "review", id, nil)
	api.Success(w, map[string]any{"id": id, "deleted": true}, requestctx.GetRequestID(r.Context()))
}

// score returns the new value of a sub-score, recording an explicit null in
// the patch's clear set.
func score(patch *performance.Patch, field string, value core.Nullable[decimal.Decimal]) *decimal.Decimal {
	if value.Set && value.Value == nil {
		patch.Clear = append(patch.Clear, field)
	}
	return value.Value
}
