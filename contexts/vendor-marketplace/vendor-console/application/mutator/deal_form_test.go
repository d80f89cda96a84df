package mutator

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"vendorhub/contexts/vendor-marketplace/vendor-console/domain/entities"
	domainerrors "vendorhub/contexts/vendor-marketplace/vendor-console/domain/errors"

	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type fakeWriter struct {
	mu       sync.Mutex
	requests []entities.MutationRequest
	err      error
	// gates holds calls (by index) that wait until their channel is closed.
	gates   map[int]chan struct{}
	started chan int
}

func (w *fakeWriter) UpdateRecord(ctx context.Context, request entities.MutationRequest) error {
	w.mu.Lock()
	index := len(w.requests)
	w.requests = append(w.requests, request)
	gate := w.gates[index]
	err := w.err
	w.mu.Unlock()

	if w.started != nil {
		w.started <- index
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (w *fakeWriter) calls() []entities.MutationRequest {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]entities.MutationRequest(nil), w.requests...)
}

type recordingNotifier struct {
	mu    sync.Mutex
	items []entities.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification entities.Notification) {
	n.mu.Lock()
	n.items = append(n.items, notification)
	n.mu.Unlock()
}

func (n *recordingNotifier) all() []entities.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entities.Notification(nil), n.items...)
}

type staticTranslator map[string]string

func (t staticTranslator) Translate(_ context.Context, code string) (string, error) {
	text, ok := t[code]
	if !ok {
		return "", errors.New("unknown code")
	}
	return text, nil
}

var closedAt = time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC)

func newForm(writer *fakeWriter, notifier *recordingNotifier, refreshes *int) *DealForm {
	return &DealForm{
		Writer:   writer,
		Notifier: notifier,
		Clock:    fixedClock{now: closedAt},
		OnRefresh: func(context.Context) {
			*refreshes++
		},
	}
}

func TestSubmitClosesDealAndNotifies(t *testing.T) {
	writer := &fakeWriter{}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("200")
	outcome := form.Submit(context.Background(), "abc")

	require.True(t, outcome.Succeeded())
	require.Equal(t, "200.00", outcome.FormattedValue)

	calls := writer.calls()
	require.Len(t, calls, 1)
	require.Equal(t, "abc", calls[0].TargetID)
	require.Equal(t, map[string]any{
		entities.FieldDealClosed:   true,
		entities.FieldDealValue:    200.0,
		entities.FieldDealClosedAt: closedAt,
	}, calls[0].Fields)

	notes := notifier.all()
	require.Len(t, notes, 1)
	require.Equal(t, "Negócio fechado!", notes[0].Title)
	require.Equal(t, entities.VariantDefault, notes[0].Variant)
	require.Contains(t, notes[0].Description, "200.00")

	require.Empty(t, form.Input())
	require.Equal(t, 1, refreshes)
}

func TestSubmitAcceptsCommaDecimal(t *testing.T) {
	writer := &fakeWriter{}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("150,50")
	outcome := form.Submit(context.Background(), "abc")

	require.True(t, outcome.Succeeded())
	require.Equal(t, "150.50", outcome.FormattedValue)
	require.InDelta(t, 150.50, writer.calls()[0].Fields[entities.FieldDealValue], 1e-9)
}

func TestSubmitFormatsLargeAmountWithoutGrouping(t *testing.T) {
	for raw, want := range map[string]string{
		"1.234,56":     "1234.56",
		"1234.5":       "1234.50",
		"1.000.000,00": "1000000.00",
		"12.345,678":   "12345.68",
	} {
		writer := &fakeWriter{}
		notifier := &recordingNotifier{}
		refreshes := 0
		form := newForm(writer, notifier, &refreshes)

		form.SetInput(raw)
		outcome := form.Submit(context.Background(), "abc")

		require.True(t, outcome.Succeeded(), raw)
		require.Equal(t, want, outcome.FormattedValue, raw)
		notes := notifier.all()
		require.Len(t, notes, 1, raw)
		require.Equal(t, "Valor registrado: R$ "+want, notes[0].Description, raw)
	}
}

func TestSubmitBlocksInvalidInput(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3", "0,00", "12,3,4"} {
		writer := &fakeWriter{}
		notifier := &recordingNotifier{}
		refreshes := 0
		form := newForm(writer, notifier, &refreshes)

		form.SetInput(raw)
		outcome := form.Submit(context.Background(), "abc")

		require.False(t, outcome.Succeeded(), raw)
		require.ErrorIs(t, outcome.Err, domainerrors.ErrValidation, raw)
		require.Empty(t, writer.calls(), raw)
		notes := notifier.all()
		require.Len(t, notes, 1, raw)
		require.Equal(t, entities.VariantDestructive, notes[0].Variant, raw)
		require.Equal(t, raw, form.Input(), raw)
		require.Zero(t, refreshes, raw)
	}
}

func TestSubmitRequiresVendor(t *testing.T) {
	writer := &fakeWriter{}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("200")
	outcome := form.Submit(context.Background(), "  ")

	require.ErrorIs(t, outcome.Err, domainerrors.ErrInvalidVendorID)
	require.Empty(t, writer.calls())
	require.Equal(t, "200", form.Input())
}

func TestSubmitRemoteFailureKeepsInput(t *testing.T) {
	writer := &fakeWriter{err: errors.New("connection refused")}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("200")
	outcome := form.Submit(context.Background(), "abc")

	require.False(t, outcome.Succeeded())
	require.ErrorIs(t, outcome.Err, domainerrors.ErrRemote)
	require.Equal(t, messageGenericError, outcome.Reason)

	notes := notifier.all()
	require.Len(t, notes, 1)
	require.Equal(t, entities.VariantDestructive, notes[0].Variant)
	require.Equal(t, messageGenericError, notes[0].Description)
	require.Equal(t, "200", form.Input())
	require.Zero(t, refreshes)
	require.Len(t, writer.calls(), 1)
}

func TestSubmitTranslatesKnownRemoteCode(t *testing.T) {
	writer := &fakeWriter{err: &domainerrors.RemoteError{
		Op:     "update vendor",
		Status: 409,
		Code:   "version_conflict",
	}}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)
	form.Translator = staticTranslator{"version_conflict": "Atualize e tente novamente."}

	form.SetInput("200")
	outcome := form.Submit(context.Background(), "abc")

	require.Equal(t, "Atualize e tente novamente.", outcome.Reason)
	require.ErrorIs(t, outcome.Err, domainerrors.ErrRemote)

	form.Translator = staticTranslator{}
	outcome = form.Submit(context.Background(), "abc")
	require.Equal(t, messageGenericError, outcome.Reason)
}

func TestSubmitIsNotIdempotent(t *testing.T) {
	writer := &fakeWriter{}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("200")
	require.True(t, form.Submit(context.Background(), "abc").Succeeded())
	form.SetInput("200")
	require.True(t, form.Submit(context.Background(), "abc").Succeeded())

	require.Len(t, writer.calls(), 2)
	require.Len(t, notifier.all(), 2)
	require.Equal(t, 2, refreshes)
}

func TestSubmitKeepsInputEditedWhileInFlight(t *testing.T) {
	gate := make(chan struct{})
	writer := &fakeWriter{
		gates:   map[int]chan struct{}{0: gate},
		started: make(chan int, 1),
	}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("200")
	done := make(chan entities.MutationOutcome, 1)
	go func() { done <- form.Submit(context.Background(), "abc") }()

	<-writer.started
	form.SetInput("300")
	close(gate)

	outcome := <-done
	require.True(t, outcome.Succeeded())
	require.Equal(t, "300", form.Input())
	require.Equal(t, 1, refreshes)
}

func TestSubmitSupersededResultDoesNotClearInput(t *testing.T) {
	gate := make(chan struct{})
	writer := &fakeWriter{
		gates:   map[int]chan struct{}{0: gate},
		started: make(chan int, 2),
	}
	notifier := &recordingNotifier{}
	refreshes := 0
	form := newForm(writer, notifier, &refreshes)

	form.SetInput("200")
	first := make(chan entities.MutationOutcome, 1)
	go func() { first <- form.Submit(context.Background(), "abc") }()
	<-writer.started

	second := form.Submit(context.Background(), "abc")
	<-writer.started
	require.True(t, second.Succeeded())
	require.Empty(t, form.Input())

	// The operator types the same amount again before the first write returns.
	form.SetInput("200")
	close(gate)
	require.True(t, (<-first).Succeeded())

	require.Equal(t, "200", form.Input())
	require.Len(t, notifier.all(), 2)
	for _, note := range notifier.all() {
		require.True(t, strings.Contains(note.Description, "200.00"))
	}
}
