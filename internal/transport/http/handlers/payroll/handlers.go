package payrollhandler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/payroll"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service  *payroll.Service
	Subjects shared.SubjectResolver
	Debug    bool
}

func NewHandler(service *payroll.Service, subjects shared.SubjectResolver, debug bool) *Handler {
	return &Handler{Service: service, Subjects: subjects, Debug: debug}
}

type payrollRequest struct {
	EmployeeID int64            `json:"employeeId" validate:"required,gt=0"`
	Month      int              `json:"month" validate:"required,gte=1,lte=12"`
	Year       int              `json:"year" validate:"required,gte=1900,lte=9999"`
	BaseSalary *decimal.Decimal `json:"baseSalary" validate:"required"`
	Allowances *decimal.Decimal `json:"allowances"`
	Bonus      *decimal.Decimal `json:"bonus"`
	Deductions *decimal.Decimal `json:"deductions"`
	Tax        *decimal.Decimal `json:"tax"`
	Status     string           `json:"status" validate:"omitempty,oneof=draft pending approved paid cancelled"`
	PaidDate   *string          `json:"paidDate"`
	Remarks    string           `json:"remarks" validate:"max=1000"`
}

type payrollPatchRequest struct {
	Month      *int             `json:"month" validate:"omitempty,gte=1,lte=12"`
	Year       *int             `json:"year" validate:"omitempty,gte=1900,lte=9999"`
	BaseSalary *decimal.Decimal `json:"baseSalary"`
	Allowances *decimal.Decimal `json:"allowances"`
	Bonus      *decimal.Decimal `json:"bonus"`
	Deductions *decimal.Decimal `json:"deductions"`
	Tax        *decimal.Decimal `json:"tax"`
	Status     *string          `json:"status" validate:"omitempty,oneof=draft pending approved paid cancelled"`
	PaidDate   *string          `json:"paidDate"`
	Remarks    *string          `json:"remarks" validate:"omitempty,max=1000"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/payroll", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.OpPayrollList)).Get("/", h.handleList)
		r.With(middleware.RequireCapability(auth.OpPayrollCreate)).Post("/", h.handleCreate)
		r.Route("/{payrollID}", func(r chi.Router) {
			r.With(middleware.RequireCapability(auth.OpPayrollRead)).Get("/", h.handleGet)
			r.With(middleware.RequireCapability(auth.OpPayrollUpdate)).Patch("/", h.handleUpdate)
			r.With(middleware.RequireCapability(auth.OpPayrollDelete)).Delete("/", h.handleDelete)
			r.With(middleware.RequireCapability(auth.OpPayrollPayslip)).Get("/payslip", h.handlePayslip)
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
	filter := payroll.Filter{
		Status: r.URL.Query().Get("status"),
		Limit:  page.Limit,
		Offset: page.Offset,
	}
	if filter.EmployeeID, err = shared.QueryInt64(r, "employeeId"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.Month, err = shared.QueryInt(r, "month"); err != nil {
		h.fail(w, r, err)
		return
	}
	if filter.Year, err = shared.QueryInt(r, "year"); err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	records, total, err := h.Service.List(r.Context(), filter, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, api.Page[payroll.Record]{Items: records, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "payrollID")
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
	identity, _ := middleware.GetIdentity(r.Context())
	var payload payrollRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	paidDate, err := shared.OptionalDate("paidDate", payload.PaidDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rec, err := h.Service.Create(r.Context(), payroll.Input{
		EmployeeID: payload.EmployeeID,
		Month:      payload.Month,
		Year:       payload.Year,
		BaseSalary: amount(payload.BaseSalary),
		Allowances: amount(payload.Allowances),
		Bonus:      amount(payload.Bonus),
		Deductions: amount(payload.Deductions),
		Tax:        amount(payload.Tax),
		Status:     payload.Status,
		PaidDate:   paidDate,
		Remarks:    payload.Remarks,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rec.Warnings) > 0 {
		slog.Warn("payroll created with warnings", "payrollId", rec.ID, "warnings", rec.Warnings, "by", identity.AccountID)
	}
	shared.Audit(r, "payroll.create", "payroll", rec.ID, nil)
	api.Created(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "payrollID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload payrollPatchRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	paidDate, err := shared.OptionalDate("paidDate", payload.PaidDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rec, err := h.Service.Update(r.Context(), id, payroll.Patch{
		Month:      payload.Month,
		Year:       payload.Year,
		BaseSalary: payload.BaseSalary,
		Allowances: payload.Allowances,
		Bonus:      payload.Bonus,
		Deductions: payload.Deductions,
		Tax:        payload.Tax,
		Status:     payload.Status,
		PaidDate:   paidDate,
		Remarks:    payload.Remarks,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "payroll.update", "payroll", id, nil)
	api.Success(w, rec, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "payrollID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "payroll.delete", "payroll", id, nil)
	api.Success(w, map[string]any{"id": id, "deleted": true}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handlePayslip(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "payrollID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	subject, err := h.scope(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	pdf, filename, err := h.Service.Payslip(r.Context(), id, subject)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		slog.Warn("payslip write failed", "payrollId", id, "err", err)
	}
}

func amount(value *decimal.Decimal) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}
	return *value
}
