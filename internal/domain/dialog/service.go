package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	apperrors "github.com/yanqian/shopbot/pkg/errors"
	"github.com/yanqian/shopbot/pkg/metrics"
)

const (
	askOrderIDText    = "Okay, let's check your order. What's your Order ID?"
	declinedText      = "No problem! Let me know if you need help with anything else."
	notUnderstoodText = "Sorry, I didn't get that. Do you want to check your order?"
	lookupFailedText  = "Sorry, I couldn't check your order right now. Please try again later."
)

var (
	yesWords = map[string]struct{}{"yes": {}, "yeah": {}, "yep": {}, "sure": {}, "ok": {}}
	noWords  = map[string]struct{}{"no": {}, "nah": {}, "nope": {}, "not now": {}}
)

// Service answers Lex V2 code hooks for the order tracking dialog.
type Service interface {
	Handle(ctx context.Context, event Event) (Response, error)
}

type service struct {
	orders   OrderRepository
	sessions SessionStore
	metrics  *metrics.Metrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs the dialog manager.
func NewService(orders OrderRepository, sessions SessionStore, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		orders:   orders,
		sessions: sessions,
		metrics:  m,
		logger:   logger.With("component", "dialog.service"),
		now:      time.Now,
	}
}

func (s *service) Handle(ctx context.Context, event Event) (Response, error) {
	name := strings.TrimSpace(event.SessionState.Intent.Name)
	if name == "" {
		return Response{}, apperrors.Wrap(apperrors.CodeInvalidInput, "intent name is required", nil)
	}

	state := s.currentState(ctx, event)
	var (
		resp Response
		next State
	)
	switch name {
	case IntentTrackOrder:
		resp, next = s.trackOrder(ctx, event, state)
	case IntentFallback:
		resp, next = s.fallback(event, state)
	default:
		resp = closeWith(event.SessionState.Intent, notUnderstoodText)
		next = StateAwaitingOrderIDConfirmation
	}

	resp.SessionState.SessionAttributes = withPendingAction(event.SessionState.SessionAttributes, next)
	s.saveState(ctx, event.SessionID, next)

	action := ""
	if resp.SessionState.DialogAction != nil {
		action = resp.SessionState.DialogAction.Type
	}
	s.metrics.ObserveDialogTurn(name, action)
	s.logger.Info("dialog turn", "session", event.SessionID, "intent", name, "source", event.InvocationSource, "from", state, "to", next, "action", action)
	return resp, nil
}

func (s *service) trackOrder(ctx context.Context, event Event, state State) (Response, State) {
	intent := event.SessionState.Intent
	orderID := strings.ToUpper(strings.TrimSpace(intent.SlotText(SlotOrderID)))

	if orderID == "" {
		return elicitOrderID(intent.Name, intent.Slots, "", ""), StateAwaitingOrderID
	}
	if event.InvocationSource != SourceFulfillmentCodeHook {
		return Response{
			SessionState: SessionState{
				DialogAction: &DialogAction{Type: ActionDelegate},
				Intent:       Intent{Name: intent.Name, Slots: intent.Slots},
			},
		}, state
	}

	fulfilled := Intent{Name: intent.Name, Slots: intent.Slots, State: IntentStateFulfilled}
	order, found, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		s.logger.Error("order lookup failed", "orderId", orderID, "error", apperrors.Wrap(apperrors.CodeOrderLookupFailed, "order lookup failed", err))
		return closeWith(fulfilled, lookupFailedText), StateIdle
	}
	if !found {
		s.logger.Info("order not found", "orderId", orderID)
		return closeWith(fulfilled, fmt.Sprintf("Sorry, I couldn't find an order with ID '%s'. Please check the order ID and try again.", orderID)), StateIdle
	}
	text := fmt.Sprintf("Found your order! Your %s is currently %s. Estimated delivery: %s.\nLet me know if you need anything else 😁",
		order.Item, order.OrderStatus, order.EstimatedTime)
	return closeWith(fulfilled, text), StateIdle
}

func (s *service) fallback(event Event, state State) (Response, State) {
	answer := strings.ToLower(strings.TrimSpace(event.InputTranscript))
	if state == StateAwaitingOrderIDConfirmation {
		if _, ok := yesWords[answer]; ok {
			return elicitOrderID(IntentTrackOrder, map[string]*Slot{SlotOrderID: nil}, IntentStateInProgress, askOrderIDText), StateAwaitingOrderID
		}
		if _, ok := noWords[answer]; ok {
			closed := Intent{Name: IntentTrackOrder, Slots: map[string]*Slot{SlotOrderID: nil}, State: IntentStateFulfilled}
			return closeWith(closed, declinedText), StateIdle
		}
	}
	intent := event.SessionState.Intent
	return closeWith(Intent{Name: intent.Name, Slots: intent.Slots, State: IntentStateFulfilled}, notUnderstoodText), StateAwaitingOrderIDConfirmation
}

// currentState prefers the session store and falls back to the pending
// action Lex echoes back in the session attributes.
func (s *service) currentState(ctx context.Context, event Event) State {
	if event.SessionID != "" && s.sessions != nil {
		session, err := s.sessions.Load(ctx, event.SessionID)
		if err != nil {
			s.logger.Warn("session load failed", "session", event.SessionID, "error", err)
		} else if session.State != "" && session.State != StateIdle {
			return session.State
		}
	}
	if event.SessionState.SessionAttributes[pendingActionAttr] == IntentTrackOrder {
		return StateAwaitingOrderIDConfirmation
	}
	return StateIdle
}

func (s *service) saveState(ctx context.Context, id string, state State) {
	if id == "" || s.sessions == nil {
		return
	}
	if err := s.sessions.Save(ctx, Session{ID: id, State: state, UpdatedAt: s.now().UTC()}); err != nil {
		s.logger.Warn("session save failed", "session", id, "error", err)
	}
}

func elicitOrderID(intentName string, slots map[string]*Slot, intentState, text string) Response {
	resp := Response{
		SessionState: SessionState{
			DialogAction: &DialogAction{Type: ActionElicitSlot, SlotToElicit: SlotOrderID},
			Intent:       Intent{Name: intentName, Slots: slots, State: intentState},
		},
	}
	if text != "" {
		resp.Messages = plainText(text)
	}
	return resp
}

func closeWith(intent Intent, text string) Response {
	return Response{
		SessionState: SessionState{
			DialogAction: &DialogAction{Type: ActionClose},
			Intent:       intent,
		},
		Messages: plainText(text),
	}
}

func withPendingAction(attrs map[string]string, state State) map[string]string {
	out := make(map[string]string, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	if state == StateAwaitingOrderIDConfirmation {
		out[pendingActionAttr] = IntentTrackOrder
	} else {
		delete(out, pendingActionAttr)
	}
	return out
}
