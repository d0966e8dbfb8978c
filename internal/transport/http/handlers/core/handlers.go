package corehandler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Service *core.Service
	Debug   bool
}

func NewHandler(service *core.Service, debug bool) *Handler {
	return &Handler{Service: service, Debug: debug}
}

type employeeRequest struct {
	AccountID        *int64           `json:"accountId" validate:"omitempty,gt=0"`
	Password         string           `json:"password" validate:"omitempty,min=8,max=72"`
	DepartmentID     *int64           `json:"departmentId" validate:"omitempty,gt=0"`
	Name             string           `json:"name" validate:"required,max=200"`
	Email            string           `json:"email" validate:"required,email"`
	Phone            string           `json:"phone" validate:"max=40"`
	Address          string           `json:"address" validate:"max=500"`
	City             string           `json:"city" validate:"max=100"`
	State            string           `json:"state" validate:"max=100"`
	ZipCode          string           `json:"zipCode" validate:"max=20"`
	EmergencyContact string           `json:"emergencyContact" validate:"max=200"`
	EmergencyPhone   string           `json:"emergencyPhone" validate:"max=40"`
	Designation      string           `json:"designation" validate:"max=200"`
	Salary           *decimal.Decimal `json:"salary"`
	Status           string           `json:"status" validate:"omitempty,oneof=active inactive on_leave terminated"`
	JoiningDate      *string          `json:"joiningDate"`
}

type employeePatchRequest struct {
	DepartmentID     core.Nullable[int64] `json:"departmentId"`
	Name             *string              `json:"name" validate:"omitempty,max=200"`
	Email            *string              `json:"email" validate:"omitempty,email"`
	Phone            *string              `json:"phone" validate:"omitempty,max=40"`
	Address          *string              `json:"address" validate:"omitempty,max=500"`
	City             *string              `json:"city" validate:"omitempty,max=100"`
	State            *string              `json:"state" validate:"omitempty,max=100"`
	ZipCode          *string              `json:"zipCode" validate:"omitempty,max=20"`
	EmergencyContact *string              `json:"emergencyContact" validate:"omitempty,max=200"`
	EmergencyPhone   *string              `json:"emergencyPhone" validate:"omitempty,max=40"`
	Designation      *string              `json:"designation" validate:"omitempty,max=200"`
	Salary           *decimal.Decimal     `json:"salary"`
	Status           *string              `json:"status" validate:"omitempty,oneof=active inactive on_leave terminated"`
	JoiningDate      *string              `json:"joiningDate"`
}

type departmentRequest struct {
	Name        string           `json:"name" validate:"required,max=200"`
	Description string           `json:"description" validate:"max=2000"`
	Budget      *decimal.Decimal `json:"budget"`
	HeadID      *int64           `json:"headId" validate:"omitempty,gt=0"`
	Active      *bool            `json:"active"`
}

type departmentPatchRequest struct {
	Name        *string                        `json:"name" validate:"omitempty,max=200"`
	Description *string                        `json:"description" validate:"omitempty,max=2000"`
	Budget      core.Nullable[decimal.Decimal] `json:"budget"`
	HeadID      core.Nullable[int64]           `json:"headId"`
	Active      *bool                          `json:"active"`
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.OpEmployeeList)).Get("/", h.handleListEmployees)
		r.With(middleware.RequireCapability(auth.OpEmployeeCreate)).Post("/", h.handleCreateEmployee)
		r.Route("/{employeeID}", func(r chi.Router) {
			r.With(middleware.RequireCapability(auth.OpEmployeeRead)).Get("/", h.handleGetEmployee)
			r.With(middleware.RequireCapability(auth.OpEmployeeUpdate)).Patch("/", h.handleUpdateEmployee)
			r.With(middleware.RequireCapability(auth.OpEmployeeDelete)).Delete("/", h.handleDeleteEmployee)
		})
	})
	r.Route("/departments", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.OpDepartmentList)).Get("/", h.handleListDepartments)
		r.With(middleware.RequireCapability(auth.OpDepartmentCreate)).Post("/", h.handleCreateDepartment)
		r.Route("/{departmentID}", func(r chi.Router) {
			r.With(middleware.RequireCapability(auth.OpDepartmentRead)).Get("/", h.handleGetDepartment)
			r.With(middleware.RequireCapability(auth.OpDepartmentUpdate)).Patch("/", h.handleUpdateDepartment)
			r.With(middleware.RequireCapability(auth.OpDepartmentDelete)).Delete("/", h.handleDeleteDepartment)
			r.With(middleware.RequireCapability(auth.OpDepartmentRead)).Get("/employees", h.handleDepartmentEmployees)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, err, h.Debug)
}

func (h *Handler) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	page, err := shared.ParsePagination(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	departmentID, err := shared.QueryInt64(r, "departmentId")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	employees, total, err := h.Service.ListEmployees(r.Context(), core.EmployeeFilter{
		DepartmentID: departmentID,
		Status:       r.URL.Query().Get("status"),
		Search:       r.URL.Query().Get("search"),
		Limit:        page.Limit,
		Offset:       page.Offset,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filterAll(employees, identity)
	api.Success(w, api.Page[core.Employee]{Items: employees, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetEmployee(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	id, err := shared.PathID(r, "employeeID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	emp, err := h.Service.GetEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	core.FilterEmployeeFields(&emp, identity)
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var payload employeeRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	joining, err := shared.OptionalDate("joiningDate", payload.JoiningDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.Service.CreateEmployee(r.Context(), core.EmployeeInput{
		AccountID:        payload.AccountID,
		Password:         payload.Password,
		DepartmentID:     payload.DepartmentID,
		Name:             payload.Name,
		Email:            payload.Email,
		Phone:            payload.Phone,
		Address:          payload.Address,
		City:             payload.City,
		State:            payload.State,
		ZipCode:          payload.ZipCode,
		EmergencyContact: payload.EmergencyContact,
		EmergencyPhone:   payload.EmergencyPhone,
		Designation:      payload.Designation,
		Salary:           payload.Salary,
		Status:           payload.Status,
		JoiningDate:      joining,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "employee.create", "employee", created.Employee.ID, map[string]any{"accountId": created.Employee.AccountID})
	api.Created(w, created, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "employeeID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload employeePatchRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	joining, err := shared.OptionalDate("joiningDate", payload.JoiningDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	emp, err := h.Service.UpdateEmployee(r.Context(), id, core.EmployeePatch{
		DepartmentID:     payload.DepartmentID,
		Name:             payload.Name,
		Email:            payload.Email,
		Phone:            payload.Phone,
		Address:          payload.Address,
		City:             payload.City,
		State:            payload.State,
		ZipCode:          payload.ZipCode,
		EmergencyContact: payload.EmergencyContact,
		EmergencyPhone:   payload.EmergencyPhone,
		Designation:      payload.Designation,
		Salary:           payload.Salary,
		Status:           payload.Status,
		JoiningDate:      joining,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "employee.update", "employee", id, nil)
	api.Success(w, emp, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "employeeID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := h.Service.DeleteEmployee(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "employee.delete", "employee", id, map[string]any{"cascade": report})
	api.Success(w, map[string]any{"id": id, "deleted": report}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	page, err := shared.ParsePagination(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	active, err := shared.QueryBool(r, "active")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	departments, total, err := h.Service.ListDepartments(r.Context(), core.DepartmentFilter{
		Active: active,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, api.Page[core.Department]{Items: departments, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleGetDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "departmentID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	dep, err := h.Service.GetDepartment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, dep, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	var payload departmentRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	dep, err := h.Service.CreateDepartment(r.Context(), core.DepartmentInput{
		Name:        payload.Name,
		Description: payload.Description,
		Budget:      payload.Budget,
		HeadID:      payload.HeadID,
		Active:      payload.Active,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "department.create", "department", dep.ID, nil)
	api.Created(w, dep, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "departmentID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload departmentPatchRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	dep, err := h.Service.UpdateDepartment(r.Context(), id, core.DepartmentPatch{
		Name:        payload.Name,
		Description: payload.Description,
		Budget:      payload.Budget,
		HeadID:      payload.HeadID,
		Active:      payload.Active,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "department.update", "department", id, nil)
	api.Success(w, dep, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "departmentID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := h.Service.DeleteDepartment(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "department.delete", "department", id, map[string]any{"cascade": report})
	api.Success(w, map[string]any{"id": id, "deleted": report}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleDepartmentEmployees(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	id, err := shared.PathID(r, "departmentID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	page, err := shared.ParsePagination(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	employees, total, err := h.Service.DepartmentEmployees(r.Context(), id, page.Limit, page.Offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	filterAll(employees, identity)
	api.Success(w, api.Page[core.Employee]{Items: employees, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func filterAll(employees []core.Employee, identity auth.Identity) {
	for i := range employees {
		core.FilterEmployeeFields(&employees[i], identity)
	}
}
