package domain

// LifecycleProfile selects one of the two shipped order lifecycles. The
// variants differ in whether SERVED is terminal and in how far a waiter
// may drive their own orders; the rules are kept separate, not merged.
type LifecycleProfile string

const (
	// ProfileFourState: PENDING -> PREPARED -> SERVED, SERVED terminal.
	// Waiters may only move their own orders from PREPARED to SERVED.
	ProfileFourState LifecycleProfile = "four_state"

	// ProfileFiveState: adds SERVED -> COMPLETED. Waiters may request any
	// transition on their own orders.
	ProfileFiveState LifecycleProfile = "five_state"
)

func (p LifecycleProfile) Valid() bool {
	return p == ProfileFourState || p == ProfileFiveState
}

func (p LifecycleProfile) transitions() map[Status][]Status {
	switch p {
	case ProfileFiveState:
		return map[Status][]Status{
			StatusPending:   {StatusPrepared, StatusCanceled},
			StatusPrepared:  {StatusServed, StatusCanceled},
			StatusServed:    {StatusCompleted, StatusCanceled},
			StatusCompleted: {},
			StatusCanceled:  {},
		}
	default:
		return map[Status][]Status{
			StatusPending:  {StatusPrepared, StatusCanceled},
			StatusPrepared: {StatusServed, StatusCanceled},
			StatusServed:   {},
			StatusCanceled: {},
		}
	}
}

// CanTransition reports whether the profile allows moving from one status
// to another.
func (p LifecycleProfile) CanTransition(from, to Status) bool {
	for _, s := range p.transitions()[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition leaves the status.
func (p LifecycleProfile) Terminal(s Status) bool {
	return len(p.transitions()[s]) == 0
}

// WaiterMayRequest applies the profile's waiter restriction. Ownership of
// the order is checked separately by the caller.
func (p LifecycleProfile) WaiterMayRequest(from, to Status) bool {
	if p == ProfileFiveState {
		return true
	}
	return from == StatusPrepared && to == StatusServed
}
