package dialog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/shopbot/pkg/errors"
	"github.com/yanqian/shopbot/pkg/metrics"
)

type stubOrders struct {
	orders  map[string]Order
	err     error
	lookups []string
}

func (s *stubOrders) GetByID(_ context.Context, orderID string) (Order, bool, error) {
	s.lookups = append(s.lookups, orderID)
	if s.err != nil {
		return Order{}, false, s.err
	}
	order, ok := s.orders[orderID]
	return order, ok, nil
}

type stubSessions struct {
	sessions map[string]Session
	loadErr  error
}

func (s *stubSessions) Load(_ context.Context, id string) (Session, error) {
	if s.loadErr != nil {
		return Session{}, s.loadErr
	}
	if session, ok := s.sessions[id]; ok {
		return session, nil
	}
	return Session{ID: id, State: StateIdle}, nil
}

func (s *stubSessions) Save(_ context.Context, session Session) error {
	s.sessions[session.ID] = session
	return nil
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(orders *stubOrders, sessions *stubSessions, m *metrics.Metrics) Service {
	return NewService(orders, sessions, m, newTestLogger())
}

func trackOrderEvent(source, orderID string) Event {
	slots := map[string]*Slot{SlotOrderID: nil}
	if orderID != "" {
		slots[SlotOrderID] = &Slot{Value: &SlotValue{OriginalValue: orderID, InterpretedValue: orderID}}
	}
	return Event{
		SessionID:        "session-1",
		InvocationSource: source,
		SessionState: SessionState{
			Intent: Intent{Name: IntentTrackOrder, Slots: slots},
		},
	}
}

func fallbackEvent(transcript string) Event {
	return Event{
		SessionID:        "session-1",
		InputTranscript:  transcript,
		InvocationSource: SourceDialogCodeHook,
		SessionState:     SessionState{Intent: Intent{Name: IntentFallback}},
	}
}

func TestTrackOrderElicitsMissingSlot(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]Session{}}
	svc := newTestService(&stubOrders{}, sessions, nil)

	resp, err := svc.Handle(context.Background(), trackOrderEvent(SourceDialogCodeHook, ""))
	require.NoError(t, err)
	require.Equal(t, ActionElicitSlot, resp.SessionState.DialogAction.Type)
	require.Equal(t, SlotOrderID, resp.SessionState.DialogAction.SlotToElicit)
	require.Equal(t, StateAwaitingOrderID, sessions.sessions["session-1"].State)
}

func TestTrackOrderDelegatesWhenSlotFilled(t *testing.T) {
	svc := newTestService(&stubOrders{}, &stubSessions{sessions: map[string]Session{}}, nil)

	resp, err := svc.Handle(context.Background(), trackOrderEvent(SourceDialogCodeHook, "a123"))
	require.NoError(t, err)
	require.Equal(t, ActionDelegate, resp.SessionState.DialogAction.Type)
	require.Empty(t, resp.Messages)
}

func TestTrackOrderFulfillment(t *testing.T) {
	orders := &stubOrders{orders: map[string]Order{
		"A123": {OrderID: "A123", Item: "blue kettle", OrderStatus: "shipped", EstimatedTime: "2 days"},
	}}
	sessions := &stubSessions{sessions: map[string]Session{"session-1": {ID: "session-1", State: StateAwaitingOrderID}}}
	m := metrics.New()
	svc := newTestService(orders, sessions, m)

	resp, err := svc.Handle(context.Background(), trackOrderEvent(SourceFulfillmentCodeHook, " a123 "))
	require.NoError(t, err)
	require.Equal(t, []string{"A123"}, orders.lookups)
	require.Equal(t, ActionClose, resp.SessionState.DialogAction.Type)
	require.Equal(t, IntentStateFulfilled, resp.SessionState.Intent.State)
	require.Equal(t, "Found your order! Your blue kettle is currently shipped. Estimated delivery: 2 days.\nLet me know if you need anything else 😁", resp.Messages[0].Content)
	require.Equal(t, StateIdle, sessions.sessions["session-1"].State)
	require.Equal(t, 1.0, testutil.ToFloat64(m.DialogTurnsTotal.WithLabelValues(IntentTrackOrder, ActionClose)))
}

func TestTrackOrderNotFoundAndLookupFailure(t *testing.T) {
	orders := &stubOrders{orders: map[string]Order{}}
	svc := newTestService(orders, &stubSessions{sessions: map[string]Session{}}, nil)

	resp, err := svc.Handle(context.Background(), trackOrderEvent(SourceFulfillmentCodeHook, "zz9"))
	require.NoError(t, err)
	require.Equal(t, "Sorry, I couldn't find an order with ID 'ZZ9'. Please check the order ID and try again.", resp.Messages[0].Content)

	orders.err = errors.New("throttled")
	resp, err = svc.Handle(context.Background(), trackOrderEvent(SourceFulfillmentCodeHook, "zz9"))
	require.NoError(t, err)
	require.Equal(t, lookupFailedText, resp.Messages[0].Content)
	require.NotContains(t, resp.Messages[0].Content, "throttled")
}

func TestFallbackConfirmationFlow(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]Session{}}
	svc := newTestService(&stubOrders{}, sessions, nil)
	ctx := context.Background()

	resp, err := svc.Handle(ctx, fallbackEvent("blah"))
	require.NoError(t, err)
	require.Equal(t, notUnderstoodText, resp.Messages[0].Content)
	require.Equal(t, IntentTrackOrder, resp.SessionState.SessionAttributes["pendingAction"])
	require.Equal(t, StateAwaitingOrderIDConfirmation, sessions.sessions["session-1"].State)

	resp, err = svc.Handle(ctx, fallbackEvent(" Yep "))
	require.NoError(t, err)
	require.Equal(t, ActionElicitSlot, resp.SessionState.DialogAction.Type)
	require.Equal(t, IntentTrackOrder, resp.SessionState.Intent.Name)
	require.Equal(t, IntentStateInProgress, resp.SessionState.Intent.State)
	require.Equal(t, askOrderIDText, resp.Messages[0].Content)
	require.NotContains(t, resp.SessionState.SessionAttributes, "pendingAction")
	require.Equal(t, StateAwaitingOrderID, sessions.sessions["session-1"].State)
}

func TestFallbackDeclined(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]Session{"session-1": {ID: "session-1", State: StateAwaitingOrderIDConfirmation}}}
	svc := newTestService(&stubOrders{}, sessions, nil)

	resp, err := svc.Handle(context.Background(), fallbackEvent("not now"))
	require.NoError(t, err)
	require.Equal(t, ActionClose, resp.SessionState.DialogAction.Type)
	require.Equal(t, declinedText, resp.Messages[0].Content)
	require.Equal(t, StateIdle, sessions.sessions["session-1"].State)
}

func TestFallbackYesWithoutPendingActionIsNotUnderstood(t *testing.T) {
	svc := newTestService(&stubOrders{}, &stubSessions{sessions: map[string]Session{}}, nil)

	resp, err := svc.Handle(context.Background(), fallbackEvent("yes"))
	require.NoError(t, err)
	require.Equal(t, notUnderstoodText, resp.Messages[0].Content)
}

func TestFallbackUsesSessionAttributesWhenStoreFails(t *testing.T) {
	sessions := &stubSessions{sessions: map[string]Session{}, loadErr: errors.New("valkey down")}
	svc := newTestService(&stubOrders{}, sessions, nil)

	event := fallbackEvent("ok")
	event.SessionState.SessionAttributes = map[string]string{"pendingAction": IntentTrackOrder, "locale": "en"}
	resp, err := svc.Handle(context.Background(), event)
	require.NoError(t, err)
	require.Equal(t, askOrderIDText, resp.Messages[0].Content)
	require.Equal(t, map[string]string{"locale": "en"}, resp.SessionState.SessionAttributes)
}

func TestUnknownIntentAndMissingName(t *testing.T) {
	svc := NewService(&stubOrders{}, nil, nil, newTestLogger())

	resp, err := svc.Handle(context.Background(), Event{SessionState: SessionState{Intent: Intent{Name: "OrderPizza"}}})
	require.NoError(t, err)
	require.Equal(t, notUnderstoodText, resp.Messages[0].Content)

	_, err = svc.Handle(context.Background(), Event{})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}
