package coordinator

// State is a checkout step. Steps are ordered; the numeric order is the forward
// direction of the flow.
type State int

const (
	StateBrowsing State = iota
	StateCartReview
	StateDelivery
	StateContacts
	StateSubmitting
	StateConfirmed
)

func (s State) String() string {
	switch s {
	case StateBrowsing:
		return "browsing"
	case StateCartReview:
		return "cart_review"
	case StateDelivery:
		return "delivery"
	case StateContacts:
		return "contacts"
	case StateSubmitting:
		return "submitting"
	case StateConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// ParseState maps a step name back to its State.
func ParseState(name string) (State, bool) {
	for s := StateBrowsing; s <= StateConfirmed; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return 0, false
}

// transitions lists every legal move. Forward moves carry gates that are checked
// by the actions; backward moves re-open an earlier step and are always allowed,
// except while an order is in flight.
var transitions = map[State][]State{
	StateBrowsing:   {StateCartReview},
	StateCartReview: {StateBrowsing, StateDelivery},
	StateDelivery:   {StateBrowsing, StateCartReview, StateContacts},
	StateContacts:   {StateBrowsing, StateCartReview, StateDelivery, StateSubmitting},
	StateSubmitting: {StateContacts, StateConfirmed},
	StateConfirmed:  {StateBrowsing},
}

// CanTransition reports whether the table allows moving from one step to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the step ends an order.
func (s State) IsTerminal() bool {
	return s == StateConfirmed
}

// cartEditable reports whether the cart may change while in this step.
func (s State) cartEditable() bool {
	return s == StateBrowsing || s == StateCartReview
}
