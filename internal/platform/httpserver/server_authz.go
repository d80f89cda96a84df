package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	authzerrors "vendorhub/contexts/identity-access/authorization-service/domain/errors"
	authzhttp "vendorhub/contexts/identity-access/authorization-service/transport/http"
	"vendorhub/internal/platform/metrics"
)

func (s *Server) handleAuthzHasRole(w http.ResponseWriter, r *http.Request) {
	subject, ok := s.requireSubject(w, r)
	if !ok {
		return
	}

	var req authzhttp.HasRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.SubjectID) == "" {
		req.SubjectID = subject
	}
	// Only admins may ask about other subjects.
	if req.SubjectID != subject && !s.allowAdmin(w, r, subject) {
		return
	}

	resp, err := s.authorization.Handler.HasRoleHandler(r.Context(), req)
	if err != nil {
		s.metrics.ObserveRoleCheck(req.RoleName, metrics.RoleCheckError)
		writeAuthzDomainError(w, err)
		return
	}
	s.metrics.ObserveRoleCheck(req.RoleName, roleCheckResult(resp.Result))
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzListUserRoles(w http.ResponseWriter, r *http.Request) {
	subject, ok := s.requireSubject(w, r)
	if !ok {
		return
	}
	userID := r.PathValue("user_id")
	if userID != subject && !s.allowAdmin(w, r, subject) {
		return
	}

	resp, err := s.authorization.Handler.ListUserRolesHandler(r.Context(), userID)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzGrantRole(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireSubject(w, r)
	if !ok || !requireRequestID(w, r) {
		return
	}

	var req authzhttp.GrantRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.GrantRoleHandler(
		r.Context(),
		r.PathValue("user_id"),
		adminID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAuthzRevokeRole(w http.ResponseWriter, r *http.Request) {
	adminID, ok := s.requireSubject(w, r)
	if !ok || !requireRequestID(w, r) {
		return
	}

	var req authzhttp.RevokeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.authorization.Handler.RevokeRoleHandler(
		r.Context(),
		r.PathValue("user_id"),
		adminID,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeAuthzDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// allowAdmin writes 403 (or 503 when the role lookup fails) and returns false
// unless subject holds the admin role.
func (s *Server) allowAdmin(w http.ResponseWriter, r *http.Request, subject string) bool {
	isAdmin, err := s.hasAdminRole(r.Context(), subject)
	if err != nil {
		s.logger.Warn("admin role check failed",
			"event", "http_admin_check_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"subject_id", subject,
			"error", err.Error(),
		)
		writeError(w, http.StatusServiceUnavailable, "authz_unavailable", "permission check failed")
		return false
	}
	if !isAdmin {
		writeError(w, http.StatusForbidden, "forbidden", authzerrors.ErrForbidden.Error())
		return false
	}
	return true
}

func (s *Server) hasAdminRole(ctx context.Context, subject string) (bool, error) {
	resp, err := s.authorization.Handler.HasRoleHandler(ctx, authzhttp.HasRoleRequest{
		SubjectID: subject,
		RoleName:  AdminRole,
	})
	if err != nil {
		s.metrics.ObserveRoleCheck(AdminRole, metrics.RoleCheckError)
		return false, err
	}
	s.metrics.ObserveRoleCheck(AdminRole, roleCheckResult(resp.Result))
	return resp.Result, nil
}

func roleCheckResult(granted bool) string {
	if granted {
		return metrics.RoleCheckGranted
	}
	return metrics.RoleCheckDenied
}

func writeAuthzDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, authzerrors.ErrInvalidUserID),
		errors.Is(err, authzerrors.ErrInvalidRoleID),
		errors.Is(err, authzerrors.ErrInvalidRoleName),
		errors.Is(err, authzerrors.ErrInvalidAdminID):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, authzerrors.ErrRoleNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, authzerrors.ErrRoleAlreadyAssigned),
		errors.Is(err, authzerrors.ErrRoleNotAssigned),
		errors.Is(err, authzerrors.ErrIdempotencyConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, authzerrors.ErrIdempotencyKeyRequired):
		writeError(w, http.StatusBadRequest, "idempotency_key_required", err.Error())
	case errors.Is(err, authzerrors.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
