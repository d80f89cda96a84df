package permission

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	application "vendorhub/contexts/vendor-marketplace/vendor-console/application"
	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"
	"vendorhub/contexts/vendor-marketplace/vendor-console/ports"
)

const AdminRole = "admin"

// AdminResolver derives whether the current identity holds a role by asking
// the remote has_role procedure once per identity.
//
// Each identity change bumps a generation; a response is applied only if its
// generation is still current. Query errors resolve to Denied with Failed set.
type AdminResolver struct {
	Roles    ports.RoleChecker
	RoleName string
	// OnChange receives every state transition in order.
	OnChange func(entities.PermissionState)
	Logger   *slog.Logger

	mu         sync.Mutex
	state      entities.PermissionState
	identity   entities.Identity
	seen       bool
	generation uint64
	changed    chan struct{}
	inflight   sync.WaitGroup

	notifyMu sync.Mutex
}

func NewAdminResolver(roles ports.RoleChecker, logger *slog.Logger) *AdminResolver {
	return &AdminResolver{
		Roles:    roles,
		RoleName: AdminRole,
		Logger:   logger,
	}
}

// Current returns a snapshot of the permission state.
func (r *AdminResolver) Current() entities.PermissionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Run applies identity events until the channel closes or ctx ends, then
// waits for queries still in flight.
func (r *AdminResolver) Run(ctx context.Context, identities <-chan entities.Identity) error {
	defer r.inflight.Wait()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case identity, ok := <-identities:
			if !ok {
				return nil
			}
			r.observe(ctx, identity)
		}
	}
}

// observe applies one identity event. Repeating the current identity is a no-op.
// Only Run calls it, so every inflight.Add happens before Run's deferred Wait.
func (r *AdminResolver) observe(ctx context.Context, identity entities.Identity) {
	r.mu.Lock()
	if r.seen && r.identity == identity {
		r.mu.Unlock()
		return
	}
	r.seen = true
	r.identity = identity
	r.generation++
	generation := r.generation

	var next entities.PermissionState
	switch identity.Status {
	case entities.IdentitySubject:
		next = entities.PermissionState{Status: entities.PermissionResolving, SubjectID: identity.SubjectID}
	case entities.IdentityNull:
		next = entities.PermissionState{Status: entities.PermissionDenied}
	default:
		next = entities.PermissionState{Status: entities.PermissionUnresolved}
	}
	r.setLocked(next)
	if identity.Status == entities.IdentitySubject {
		r.inflight.Add(1)
	}
	r.emitUnlock(next)

	if identity.Status != entities.IdentitySubject {
		return
	}
	go func() {
		defer r.inflight.Done()
		r.resolve(ctx, generation, identity.SubjectID)
	}()
}

// Wait blocks until the state for the current identity is Granted or Denied.
func (r *AdminResolver) Wait(ctx context.Context) (entities.PermissionState, error) {
	for {
		r.mu.Lock()
		state := r.state
		changed := r.changedLocked()
		r.mu.Unlock()

		if state.Terminal() {
			return state, nil
		}
		select {
		case <-ctx.Done():
			return state, ctx.Err()
		case <-changed:
		}
	}
}

func (r *AdminResolver) resolve(ctx context.Context, generation uint64, subjectID string) {
	logger := application.ResolveLogger(r.Logger)
	roleName := r.roleName()

	hasRole, err := r.Roles.HasRole(ctx, subjectID, roleName)

	r.mu.Lock()
	if generation != r.generation {
		r.mu.Unlock()
		logger.Debug("stale role response discarded",
			"event", "console_role_response_stale",
			"module", "vendor-marketplace/vendor-console",
			"layer", "application",
			"subject_id", subjectID,
			"role_name", roleName,
		)
		return
	}
	next := entities.PermissionState{Status: entities.PermissionDenied, SubjectID: subjectID}
	switch {
	case err != nil:
		next.Failed = true
	case hasRole:
		next.Status = entities.PermissionGranted
	}
	r.setLocked(next)
	r.emitUnlock(next)

	if err != nil {
		err = errors.Join(domainerrors.ErrPermissionCheck, err)
		logger.Warn("role check failed, denying",
			"event", "console_role_check_failed",
			"module", "vendor-marketplace/vendor-console",
			"layer", "application",
			"subject_id", subjectID,
			"role_name", roleName,
			"error", err.Error(),
		)
	}
}

func (r *AdminResolver) setLocked(state entities.PermissionState) {
	r.state = state
	if r.changed != nil {
		close(r.changed)
		r.changed = nil
	}
}

func (r *AdminResolver) changedLocked() chan struct{} {
	if r.changed == nil {
		r.changed = make(chan struct{})
	}
	return r.changed
}

// emitUnlock releases mu and delivers state to OnChange. notifyMu is taken
// before mu is released so deliveries follow transition order. OnChange must
// not call back into the resolver.
func (r *AdminResolver) emitUnlock(state entities.PermissionState) {
	if r.OnChange == nil {
		r.mu.Unlock()
		return
	}
	r.notifyMu.Lock()
	r.mu.Unlock()
	defer r.notifyMu.Unlock()
	r.OnChange(state)
}

func (r *AdminResolver) roleName() string {
	if r.RoleName == "" {
		return AdminRole
	}
	return r.RoleName
}
