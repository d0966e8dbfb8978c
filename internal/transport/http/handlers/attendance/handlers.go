package attendancehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/attendance"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service  *attendance.Service
	Subjects shared.SubjectResolver
	Debug    bool
}

func NewHandler(service *attendance.Service, subjects shared.SubjectResolver, debug bool) *Handler {
	return &Handler{Service: service, Subjects: subjects, Debug: debug}
}

type recordRequest struct {
	EmployeeID   int64   `json:"employeeId" validate:"required,gt=0"`
	Date         string  `json:"date" validate:"required"`
	Status       string  `json:"status" validate:"omitempty,oneof=present absent half_day sick_leave paid_leave unpaid_leave"`
	CheckInTime  *string `json:"checkInTime"`
	CheckOutTime *string `json:"checkOutTime"`
	Remarks      string  `json:"remarks" validate:"max=1000"`
}

type recordPatchRequest struct {
	Date         *string               `json:"date"`
	Status       *string               `json:"status" validate:"omitempty,oneof=present absent half_day sick_leave paid_leave unpaid_leave"`
	CheckInTime  core.Nullable[string] `json:"checkInTime"`
	CheckOutTime core.Nullable[string] `json:"checkOutTime"`
	Remarks      *string               `json:"remarks" validate:"omitempty,max=1000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/attendance", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.OpAttendanceList)).Get("/", h.handleList)
		r.With(middleware.RequireCapability(auth.OpAttendanceCreate)).Post("/", h.handleCreate)
		r.Route("/{recordID}", func(r chi.Router) {
			r.With(middleware.RequireCapability(auth.OpAttendanceRead)).Get("/", h.handleGet)
			r.With(middleware.RequireCapability(auth.OpAttendanceUpdate)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireCapability(auth.OpAttendanceDelete)).Delete("/", h.handleDelete)
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

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	page, err := shared.ParsePagination(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	employeeID, err := shared.QueryInt64(r, "employeeId")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	from, err := shared.QueryDate(r, "from")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	to, err := shared.QueryDate(r, "to")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records, total, err := h.Service.List(r.Context(), attendance.Filter{
		EmployeeID: employeeID,
		From:       from,
		To:         to,
		Status:     r.URL.Query().Get("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, api.Page[attendance.Record]{Items: records, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "recordID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rec, err := h.Service.Get(r.Context(), id, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload recordRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := shared.ParseDate(payload.Date)
	if err != nil {
		h.fail(w, r, apperr.Validation("date", "must be a valid date in YYYY-MM-DD format"))
		return
	}
	rec, err := h.Service.Create(r.Context(), attendance.Input{
		EmployeeID:   payload.EmployeeID,
		Date:         date,
		Status:       payload.Status,
		CheckInTime:  payload.CheckInTime,
		CheckOutTime: payload.CheckOutTime,
		Remarks:      payload.Remarks,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "attendance.create", "attendance", rec.ID, nil)
	api.Created(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "recordID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload recordPatchRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	date, err := shared.OptionalDate("date", payload.Date)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	patch := attendance.Patch{
		Date:    date,
		Status:  payload.Status,
		Remarks: payload.Remarks,
	}
	if payload.CheckInTime.Set {
		patch.CheckInTime = payload.CheckInTime.Value
		patch.ClearCheckIn = payload.CheckInTime.Value == nil
	}
	if payload.CheckOutTime.Set {
		patch.CheckOutTime = payload.CheckOutTime.Value
		patch.ClearCheckOut = payload.CheckOutTime.Value == nil
	}

	rec, err := h.Service.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "attendance.update", "attendance", id, nil)
	api.Success(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "recordID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "attendance.delete", "attendance", id, nil)
	api.Success(w, map[string]any{"id": id, "deleted": true}, requestctx.GetRequestID(r.Context()))
}
