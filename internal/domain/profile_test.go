package domain

import "testing"

func TestFourStateTransitions(t *testing.T) {
	p := ProfileFourState

	allowed := []struct{ from, to Status }{
		{StatusPending, StatusPrepared},
		{StatusPending, StatusCanceled},
		{StatusPrepared, StatusServed},
		{StatusPrepared, StatusCanceled},
	}
	for _, c := range allowed {
		if !p.CanTransition(c.from, c.to) {
			t.Errorf("four_state should allow %s -> %s", c.from, c.to)
		}
	}

	denied := []struct{ from, to Status }{
		{StatusPending, StatusServed},
		{StatusServed, StatusCompleted},
		{StatusServed, StatusCanceled},
		{StatusCanceled, StatusPending},
		{StatusPrepared, StatusPending},
	}
	for _, c := range denied {
		if p.CanTransition(c.from, c.to) {
			t.Errorf("four_state should deny %s -> %s", c.from, c.to)
		}
	}

	if !p.Terminal(StatusServed) {
		t.Error("SERVED must be terminal in four_state")
	}
	if !p.Terminal(StatusCanceled) {
		t.Error("CANCELED must be terminal")
	}
	if p.Terminal(StatusPending) {
		t.Error("PENDING must not be terminal")
	}
}

func TestFiveStateTransitions(t *testing.T) {
	p := ProfileFiveState

	if !p.CanTransition(StatusServed, StatusCompleted) {
		t.Error("five_state should allow SERVED -> COMPLETED")
	}
	if !p.CanTransition(StatusServed, StatusCanceled) {
		t.Error("five_state should allow SERVED -> CANCELED")
	}
	if p.CanTransition(StatusCompleted, StatusCanceled) {
		t.Error("COMPLETED must be terminal in five_state")
	}
	if p.Terminal(StatusServed) {
		t.Error("SERVED must not be terminal in five_state")
	}
	if !p.Terminal(StatusCompleted) {
		t.Error("COMPLETED must be terminal in five_state")
	}
}

func TestWaiterMayRequest(t *testing.T) {
	four := ProfileFourState
	if !four.WaiterMayRequest(StatusPrepared, StatusServed) {
		t.Error("four_state waiter should be allowed PREPARED -> SERVED")
	}
	if four.WaiterMayRequest(StatusPending, StatusPrepared) {
		t.Error("four_state waiter should not be allowed PENDING -> PREPARED")
	}
	if four.WaiterMayRequest(StatusPending, StatusCanceled) {
		t.Error("four_state waiter should not be allowed to cancel")
	}

	five := ProfileFiveState
	if !five.WaiterMayRequest(StatusPending, StatusPrepared) {
		t.Error("five_state waiter should be allowed any transition on own orders")
	}
	if !five.WaiterMayRequest(StatusServed, StatusCompleted) {
		t.Error("five_state waiter should be allowed SERVED -> COMPLETED")
	}
}

func TestProfileValid(t *testing.T) {
	if !ProfileFourState.Valid() || !ProfileFiveState.Valid() {
		t.Error("shipped profiles must be valid")
	}
	if LifecycleProfile("six_state").Valid() {
		t.Error("unknown profile must be invalid")
	}
}
