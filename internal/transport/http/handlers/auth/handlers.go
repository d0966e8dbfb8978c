package authhandler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"workforce/internal/domain/apperr"
	"workforce/internal/domain/auth"
	"workforce/internal/domain/core"
	"workforce/internal/platform/requestctx"
	"workforce/internal/transport/http/api"
	"workforce/internal/transport/http/middleware"
	"workforce/internal/transport/http/shared"
)

type Handler struct {
	Auth            *auth.Service
	Core            *core.Service
	AllowSelfSignup bool
	Debug           bool
}

func NewHandler(authService *auth.Service, coreService *core.Service, allowSelfSignup, debug bool) *Handler {
	return &Handler{Auth: authService, Core: coreService, AllowSelfSignup: allowSelfSignup, Debug: debug}
}

type registerRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode" validate:"omitempty,len=6,numeric"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=72"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required,len=6,numeric"`
}

type accountRequest struct {
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password" validate:"required,min=8,max=72"`
	Role      auth.Role `json:"role" validate:"required,oneof=admin hr employee"`
	FirstName string    `json:"firstName" validate:"max=100"`
	LastName  string    `json:"lastName" validate:"max=100"`
}

type accountPatchRequest struct {
	Role      *auth.Role `json:"role" validate:"omitempty,oneof=admin hr employee"`
	Active    *bool      `json:"active"`
	FirstName *string    `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string    `json:"lastName" validate:"omitempty,max=100"`
}

// RegisterPublicRoutes mounts the endpoints reachable without a token. The
// caller wraps them in the login rate limiter.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	if h.AllowSelfSignup {
		r.Post("/auth/register", h.HandleRegister)
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequireCapability(auth.OpLogout)).Post("/auth/logout", h.HandleLogout)
	r.With(middleware.RequireCapability(auth.OpMe)).Get("/auth/me", h.HandleMe)
	r.With(middleware.RequireCapability(auth.OpChangeSecret)).Post("/auth/change-password", h.HandleChangePassword)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCapability(auth.OpMFA))
		r.Post("/auth/mfa/setup", h.HandleMFASetup)
		r.Post("/auth/mfa/enable", h.HandleMFAEnable)
		r.Post("/auth/mfa/disable", h.HandleMFADisable)
	})
	r.Route("/accounts", func(r chi.Router) {
		r.With(middleware.RequireCapability(auth.OpAccountList)).Get("/", h.handleListAccounts)
		r.With(middleware.RequireCapability(auth.OpAccountCreate)).Post("/", h.handleCreateAccount)
		r.Route("/{accountID}", func(r chi.Router) {
			r.With(middleware.RequireCapability(auth.OpAccountUpdate)).Patch("/", h.handleUpdateAccount)
			r.With(middleware.RequireCapability(auth.OpAccountDelete)).Delete("/", h.handleDeleteAccount)
		})
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	api.WriteError(w, r, err, h.Debug)
}

// HandleRegister creates an employee-role account. The role is never taken
// from the request.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var payload registerRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	account, err := h.Auth.Register(r.Context(), auth.RegisterInput{
		Email:     payload.Email,
		Secret:    payload.Password,
		Role:      auth.RoleEmployee,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "account.register", "account", account.ID, nil)
	api.Created(w, account, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	session, err := h.Auth.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, session, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	if err := h.Auth.Logout(r.Context(), identity); err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"status": "logged_out"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	account, err := h.Auth.Me(r.Context(), identity)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	var employee *core.Employee
	if h.Core != nil {
		emp, err := h.Core.EmployeeForAccount(r.Context(), identity.AccountID)
		switch {
		case err == nil:
			core.FilterEmployeeFields(&emp, identity)
			employee = &emp
		case !errors.Is(err, apperr.ErrNotFound):
			h.fail(w, r, err)
			return
		}
	}

	api.Success(w, map[string]any{
		"account":  account,
		"employee": employee,
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	var payload changePasswordRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.Auth.ChangeSecret(r.Context(), identity, payload.CurrentPassword, payload.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "account.password_change", "account", identity.AccountID, nil)
	api.Success(w, map[string]string{"status": "password_changed"}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	identity, _ := middleware.GetIdentity(r.Context())
	secret, url, err := h.Auth.SetupMFA(r.Context(), identity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, map[string]string{"secret": secret, "otpauthUrl": url}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	identity, _ := middleware.GetIdentity(r.Context())
	var payload mfaCodeRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	var err error
	status := "mfa_enabled"
	if enable {
		err = h.Auth.EnableMFA(r.Context(), identity, payload.Code)
	} else {
		status = "mfa_disabled"
		err = h.Auth.DisableMFA(r.Context(), identity, payload.Code)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "account."+status, "account", identity.AccountID, nil)
	api.Success(w, map[string]string{"status": status}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleListAccounts(w http.ResponseWriter, r *http.Request) {
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
	role := auth.Role(r.URL.Query().Get("role"))
	if role != "" && !role.Valid() {
		h.fail(w, r, apperr.Validation("role", "must be one of admin, hr, employee"))
		return
	}
	accounts, total, err := h.Auth.ListAccounts(r.Context(), auth.AccountFilter{
		Role:   role,
		Active: active,
		Limit:  page.Limit,
		Offset: page.Offset,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	api.Success(w, api.Page[auth.Account]{Items: accounts, Total: total, Limit: page.Limit, Offset: page.Offset}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var payload accountRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	account, err := h.Auth.Register(r.Context(), auth.RegisterInput{
		Email:     payload.Email,
		Secret:    payload.Password,
		Role:      payload.Role,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "account.create", "account", account.ID, map[string]any{"role": account.Role})
	api.Created(w, account, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "accountID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var payload accountPatchRequest
	if err := shared.Decode(r, &payload); err != nil {
		h.fail(w, r, err)
		return
	}
	account, err := h.Auth.UpdateAccount(r.Context(), id, auth.AccountPatch{
		Role:      payload.Role,
		Active:    payload.Active,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "account.update", "account", id, nil)
	api.Success(w, account, requestctx.GetRequestID(r.Context()))
}

// handleDeleteAccount removes the account together with its employee record
// and everything hanging off it.
func (h *Handler) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := shared.PathID(r, "accountID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	identity, _ := middleware.GetIdentity(r.Context())
	if id == identity.AccountID {
		h.fail(w, r, apperr.Validation("id", "cannot delete the calling account"))
		return
	}
	report, err := h.Core.DeleteAccount(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.Audit(r, "account.delete", "account", id, map[string]any{"cascade": report})
	api.Success(w, map[string]any{"id": id, "deleted": report}, requestctx.GetRequestID(r.Context()))
}
