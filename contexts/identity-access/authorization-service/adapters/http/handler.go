package httpadapter

import (
	"context"
	"log/slog"

	application "vendorhub/contexts/identity-access/authorization-service/application"
	"vendorhub/contexts/identity-access/authorization-service/application/commands"
	"vendorhub/contexts/identity-access/authorization-service/application/queries"
	"vendorhub/contexts/identity-access/authorization-service/domain/entities"
	httptransport "vendorhub/contexts/identity-access/authorization-service/transport/http"
)

// Handler maps HTTP DTOs to application commands/queries.
type Handler struct {
	HasRole    queries.HasRoleUseCase
	ListRoles  queries.ListUserRolesUseCase
	GrantRole  commands.GrantRoleUseCase
	RevokeRole commands.RevokeRoleUseCase
	Logger     *slog.Logger
}

// HasRoleHandler answers the has_role RPC.
func (h Handler) HasRoleHandler(
	ctx context.Context,
	request httptransport.HasRoleRequest,
) (httptransport.HasRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("http authz has_role received",
		"event", "authz_http_has_role_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"subject_id", request.SubjectID,
		"role_name", request.RoleName,
	)

	check, err := h.HasRole.Execute(ctx, queries.HasRoleQuery{
		SubjectID: request.SubjectID,
		RoleName:  request.RoleName,
	})
	if err != nil {
		logger.Error("http authz has_role failed",
			"event", "authz_http_has_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"subject_id", request.SubjectID,
			"role_name", request.RoleName,
			"error", err.Error(),
		)
		return httptransport.HasRoleResponse{}, err
	}
	return httptransport.HasRoleResponse{
		Result:    check.HasRole,
		CheckedAt: check.CheckedAt,
		CacheHit:  check.CacheHit,
	}, nil
}

// ListUserRolesHandler returns active and historical role assignments for a user.
func (h Handler) ListUserRolesHandler(ctx context.Context, userID string) (httptransport.ListUserRolesResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http authz list roles received",
		"event", "authz_http_list_roles_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"user_id", userID,
	)

	roles, err := h.ListRoles.Execute(ctx, userID)
	if err != nil {
		logger.Error("http authz list roles failed",
			"event", "authz_http_list_roles_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"user_id", userID,
			"error", err.Error(),
		)
		return httptransport.ListUserRolesResponse{}, err
	}

	items := make([]httptransport.RoleAssignmentDTO, 0, len(roles))
	for _, role := range roles {
		items = append(items, toAssignmentDTO(role))
	}
	return httptransport.ListUserRolesResponse{
		UserID: userID,
		Roles:  items,
	}, nil
}

// GrantRoleHandler executes idempotent role assignment.
func (h Handler) GrantRoleHandler(
	ctx context.Context,
	userID string,
	adminID string,
	idempotencyKey string,
	request httptransport.GrantRoleRequest,
) (httptransport.GrantRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http authz grant role received",
		"event", "authz_http_grant_role_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"user_id", userID,
		"admin_id", adminID,
		"role_id", request.RoleID,
	)

	result, err := h.GrantRole.Execute(ctx, commands.GrantRoleCommand{
		IdempotencyKey: idempotencyKey,
		UserID:         userID,
		RoleID:         request.RoleID,
		AdminID:        adminID,
		Reason:         request.Reason,
		ExpiresAt:      request.ExpiresAt,
	})
	if err != nil {
		logger.Error("http authz grant role failed",
			"event", "authz_http_grant_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"user_id", userID,
			"admin_id", adminID,
			"role_id", request.RoleID,
			"error", err.Error(),
		)
		return httptransport.GrantRoleResponse{}, err
	}
	return httptransport.GrantRoleResponse{
		AssignmentID: result.Assignment.AssignmentID,
		UserID:       result.Assignment.UserID,
		RoleID:       result.Assignment.RoleID,
		AssignedAt:   result.Assignment.AssignedAt,
		ExpiresAt:    result.Assignment.ExpiresAt,
		Replayed:     result.Replayed,
	}, nil
}

// RevokeRoleHandler executes idempotent role revocation.
func (h Handler) RevokeRoleHandler(
	ctx context.Context,
	userID string,
	adminID string,
	idempotencyKey string,
	request httptransport.RevokeRoleRequest,
) (httptransport.RevokeRoleResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Info("http authz revoke role received",
		"event", "authz_http_revoke_role_received",
		"module", "identity-access/authorization-service",
		"layer", "transport",
		"user_id", userID,
		"admin_id", adminID,
		"role_id", request.RoleID,
	)

	result, err := h.RevokeRole.Execute(ctx, commands.RevokeRoleCommand{
		IdempotencyKey: idempotencyKey,
		UserID:         userID,
		RoleID:         request.RoleID,
		AdminID:        adminID,
		Reason:         request.Reason,
	})
	if err != nil {
		logger.Error("http authz revoke role failed",
			"event", "authz_http_revoke_role_failed",
			"module", "identity-access/authorization-service",
			"layer", "transport",
			"user_id", userID,
			"admin_id", adminID,
			"role_id", request.RoleID,
			"error", err.Error(),
		)
		return httptransport.RevokeRoleResponse{}, err
	}
	return httptransport.RevokeRoleResponse{
		UserID:    result.Assignment.UserID,
		RoleID:    result.Assignment.RoleID,
		RevokedAt: result.Assignment.RevokedAt,
		Replayed:  result.Replayed,
	}, nil
}

func toAssignmentDTO(role entities.RoleAssignment) httptransport.RoleAssignmentDTO {
	return httptransport.RoleAssignmentDTO{
		AssignmentID: role.AssignmentID,
		UserID:       role.UserID,
		RoleID:       role.RoleID,
		RoleName:     role.RoleName,
		AssignedBy:   role.AssignedBy,
		Reason:       role.Reason,
		AssignedAt:   role.AssignedAt,
		ExpiresAt:    role.ExpiresAt,
		IsActive:     role.IsActive,
		RevokedAt:    role.RevokedAt,
	}
}
