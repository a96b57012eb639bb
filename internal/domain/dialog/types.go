package dialog

import "time"

// Lex V2 vocabulary used by the order dialog.
const (
	IntentTrackOrder = "TrackOrder"
	IntentFallback   = "FallbackIntent"

	SlotOrderID = "OrderID"

	SourceDialogCodeHook      = "DialogCodeHook"
	SourceFulfillmentCodeHook = "FulfillmentCodeHook"

	ActionElicitSlot = "ElicitSlot"
	ActionDelegate   = "Delegate"
	ActionClose      = "Close"

	IntentStateInProgress = "InProgress"
	IntentStateFulfilled  = "Fulfilled"

	pendingActionAttr = "pendingAction"
)

// State is the position of a session in the order dialog.
type State string

const (
	StateIdle                        State = "idle"
	StateAwaitingOrderIDConfirmation State = "awaiting_order_id_confirmation"
	StateAwaitingOrderID             State = "awaiting_order_id"
)

// Session is the persisted dialog state for one Lex session id.
type Session struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Order is one row of the orders table.
type Order struct {
	OrderID       string `json:"OrderID" dynamodbav:"OrderID"`
	Item          string `json:"Item" dynamodbav:"Item"`
	OrderStatus   string `json:"OrderStatus" dynamodbav:"OrderStatus"`
	EstimatedTime string `json:"EstimatedTime" dynamodbav:"EstimatedTime"`
}

// SlotValue is the resolved value Lex attaches to a slot.
type SlotValue struct {
	OriginalValue    string   `json:"originalValue,omitempty"`
	InterpretedValue string   `json:"interpretedValue,omitempty"`
	ResolvedValues   []string `json:"resolvedValues,omitempty"`
}

// Slot is a filled slot. Unfilled slots arrive as JSON null.
type Slot struct {
	Value *SlotValue `json:"value,omitempty"`
}

// Intent carries the intent name, its slots and its state.
type Intent struct {
	Name  string           `json:"name"`
	Slots map[string]*Slot `json:"slots"`
	State string           `json:"state,omitempty"`
}

// DialogAction tells Lex what to do next.
type DialogAction struct {
	Type         string `json:"type"`
	SlotToElicit string `json:"slotToElicit,omitempty"`
}

// SessionState is shared by requests and responses.
type SessionState struct {
	DialogAction      *DialogAction     `json:"dialogAction,omitempty"`
	Intent            Intent            `json:"intent"`
	SessionAttributes map[string]string `json:"sessionAttributes,omitempty"`
}

// Event is the Lex V2 code hook input.
type Event struct {
	SessionID        string       `json:"sessionId"`
	InputTranscript  string       `json:"inputTranscript"`
	InvocationSource string       `json:"invocationSource"`
	SessionState     SessionState `json:"sessionState"`
}

// Message is a plain text message returned to the user.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// Response is the Lex V2 code hook output.
type Response struct {
	SessionState SessionState `json:"sessionState"`
	Messages     []Message    `json:"messages,omitempty"`
}

// SlotText returns the interpreted value of a slot, or "".
func (i Intent) SlotText(name string) string {
	slot := i.Slots[name]
	if slot == nil || slot.Value == nil {
		return ""
	}
	return slot.Value.InterpretedValue
}

func plainText(content string) []Message {
	return []Message{{ContentType: "PlainText", Content: content}}
}
