package permission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"

	"github.com/stretchr/testify/require"
)

type roleAnswer struct {
	hasRole bool
	err     error
}

// gatedRoles answers has_role per subject. A subject with a gate blocks
// until an answer is sent on it.
type gatedRoles struct {
	mu      sync.Mutex
	calls   []string
	answers map[string]roleAnswer
	gates   map[string]chan roleAnswer
	started chan string
}

func newGatedRoles() *gatedRoles {
	return &gatedRoles{
		answers: make(map[string]roleAnswer),
		gates:   make(map[string]chan roleAnswer),
		started: make(chan string, 16),
	}
}

func (g *gatedRoles) gate(subjectID string) chan roleAnswer {
	ch := make(chan roleAnswer, 1)
	g.mu.Lock()
	g.gates[subjectID] = ch
	g.mu.Unlock()
	return ch
}

func (g *gatedRoles) HasRole(ctx context.Context, subjectID string, roleName string) (bool, error) {
	g.mu.Lock()
	g.calls = append(g.calls, subjectID+"/"+roleName)
	gate := g.gates[subjectID]
	answer := g.answers[subjectID]
	g.mu.Unlock()

	g.started <- subjectID
	if gate != nil {
		select {
		case answer = <-gate:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	return answer.hasRole, answer.err
}

func (g *gatedRoles) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

type stateLog struct {
	mu     sync.Mutex
	states []entities.PermissionState
}

func (l *stateLog) record(state entities.PermissionState) {
	l.mu.Lock()
	l.states = append(l.states, state)
	l.mu.Unlock()
}

func (l *stateLog) all() []entities.PermissionState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]entities.PermissionState(nil), l.states...)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestResolverStartsUnresolved(t *testing.T) {
	resolver := NewAdminResolver(newGatedRoles(), nil)
	require.Equal(t, entities.PermissionUnresolved, resolver.Current().Status)

	resolver.observe(context.Background(), entities.UnresolvedIdentity())
	require.Equal(t, entities.PermissionUnresolved, resolver.Current().Status)
}

func TestResolverNullIdentityDeniesWithoutQuery(t *testing.T) {
	roles := newGatedRoles()
	resolver := NewAdminResolver(roles, nil)

	resolver.observe(context.Background(), entities.NullIdentity())

	state, err := resolver.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Equal(t, entities.PermissionDenied, state.Status)
	require.False(t, state.Failed)
	require.Zero(t, roles.callCount())
}

func TestResolverGrantsAdmin(t *testing.T) {
	roles := newGatedRoles()
	roles.answers["u1"] = roleAnswer{hasRole: true}
	resolver := NewAdminResolver(roles, nil)

	resolver.observe(context.Background(), entities.SubjectIdentity("u1"))

	state, err := resolver.Wait(waitCtx(t))
	require.NoError(t, err)
	require.True(t, state.Granted())
	require.Equal(t, "u1", state.SubjectID)
	require.Equal(t, []string{"u1/admin"}, roles.calls)
}

func TestResolverQueryErrorFailsClosed(t *testing.T) {
	roles := newGatedRoles()
	roles.answers["u1"] = roleAnswer{err: errors.New("rpc unavailable")}
	resolver := NewAdminResolver(roles, nil)

	resolver.observe(context.Background(), entities.SubjectIdentity("u1"))

	state, err := resolver.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Equal(t, entities.PermissionDenied, state.Status)
	require.True(t, state.Failed)
}

func TestResolverShowsResolvingWhileInFlight(t *testing.T) {
	roles := newGatedRoles()
	gate := roles.gate("u1")
	resolver := NewAdminResolver(roles, nil)

	resolver.observe(context.Background(), entities.SubjectIdentity("u1"))
	<-roles.started
	require.Equal(t, entities.PermissionResolving, resolver.Current().Status)

	gate <- roleAnswer{hasRole: false}
	state, err := resolver.Wait(waitCtx(t))
	require.NoError(t, err)
	require.Equal(t, entities.PermissionDenied, state.Status)
	require.False(t, state.Failed)
}

func runStaleScenario(t *testing.T, staleFirst bool) []entities.PermissionState {
	t.Helper()
	roles := newGatedRoles()
	gateU1 := roles.gate("u1")
	gateU2 := roles.gate("u2")
	log := &stateLog{}
	resolver := NewAdminResolver(roles, nil)
	resolver.OnChange = log.record

	ctx := waitCtx(t)
	identities := make(chan entities.Identity)
	done := make(chan error, 1)
	go func() { done <- resolver.Run(ctx, identities) }()

	identities <- entities.SubjectIdentity("u1")
	require.Equal(t, "u1", <-roles.started)
	identities <- entities.SubjectIdentity("u2")
	require.Equal(t, "u2", <-roles.started)

	if staleFirst {
		gateU1 <- roleAnswer{hasRole: false}
		gateU2 <- roleAnswer{hasRole: true}
	} else {
		gateU2 <- roleAnswer{hasRole: true}
		state, err := resolver.Wait(ctx)
		require.NoError(t, err)
		require.True(t, state.Granted())
		gateU1 <- roleAnswer{hasRole: false}
	}
	close(identities)
	require.NoError(t, <-done)

	final := resolver.Current()
	require.True(t, final.Granted())
	require.Equal(t, "u2", final.SubjectID)
	return log.all()
}

func TestResolverDiscardsStaleResponseArrivingLate(t *testing.T) {
	states := runStaleScenario(t, false)
	for _, state := range states {
		if state.SubjectID == "u1" {
			require.Equal(t, entities.PermissionResolving, state.Status, "stale u1 result applied: %+v", states)
		}
	}
	require.Equal(t, entities.PermissionGranted, states[len(states)-1].Status)
}

func TestResolverDiscardsStaleResponseArrivingEarly(t *testing.T) {
	states := runStaleScenario(t, true)
	for _, state := range states {
		if state.SubjectID == "u1" {
			require.Equal(t, entities.PermissionResolving, state.Status, "stale u1 result applied: %+v", states)
		}
	}
	require.Equal(t, entities.PermissionGranted, states[len(states)-1].Status)
}

func TestResolverSameIdentityDoesNotRequery(t *testing.T) {
	roles := newGatedRoles()
	roles.answers["u1"] = roleAnswer{hasRole: true}
	resolver := NewAdminResolver(roles, nil)

	ctx := waitCtx(t)
	identities := make(chan entities.Identity, 4)
	identities <- entities.SubjectIdentity("u1")
	identities <- entities.SubjectIdentity("u1")
	identities <- entities.SubjectIdentity("u1")
	close(identities)

	require.NoError(t, resolver.Run(ctx, identities))
	require.Equal(t, 1, roles.callCount())
	require.True(t, resolver.Current().Granted())

	resolver.observe(ctx, entities.SubjectIdentity("u1"))
	require.Equal(t, 1, roles.callCount())
}

func TestResolverRequeriesAfterSignOutAndSignIn(t *testing.T) {
	roles := newGatedRoles()
	roles.answers["u1"] = roleAnswer{hasRole: true}
	resolver := NewAdminResolver(roles, nil)
	ctx := waitCtx(t)

	resolver.observe(ctx, entities.SubjectIdentity("u1"))
	state, err := resolver.Wait(ctx)
	require.NoError(t, err)
	require.True(t, state.Granted())

	resolver.observe(ctx, entities.NullIdentity())
	require.Equal(t, entities.PermissionDenied, resolver.Current().Status)

	resolver.observe(ctx, entities.SubjectIdentity("u1"))
	state, err = resolver.Wait(ctx)
	require.NoError(t, err)
	require.True(t, state.Granted())
	require.Equal(t, 2, roles.callCount())
}

func TestResolverWaitHonoursContext(t *testing.T) {
	resolver := NewAdminResolver(newGatedRoles(), nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	state, err := resolver.Wait(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, entities.PermissionUnresolved, state.Status)
}

func TestResolverRunReturnsAfterInflightQuery(t *testing.T) {
	roles := newGatedRoles()
	gate := roles.gate("u1")
	resolver := NewAdminResolver(roles, nil)

	identities := make(chan entities.Identity, 1)
	identities <- entities.SubjectIdentity("u1")
	close(identities)

	done := make(chan error, 1)
	go func() { done <- resolver.Run(context.Background(), identities) }()
	require.Equal(t, "u1", <-roles.started)

	select {
	case err := <-done:
		t.Fatalf("Run returned with a query in flight: %v", err)
	case <-time.After(20 * time.Millisecond):
	}

	gate <- roleAnswer{hasRole: true}
	require.NoError(t, <-done)
	require.True(t, resolver.Current().Granted())
}
