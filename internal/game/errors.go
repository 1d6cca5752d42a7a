package game

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is checks against *ActionError.
var (
	ErrIllegalAction           = errors.New("illegal action")
	ErrRuleViolation           = errors.New("rule violation")
	ErrInvariantBroken         = errors.New("invariant broken")
	ErrPolicyContractViolation = errors.New("policy contract violation")
)

// ErrorKind classifies engine errors.
type ErrorKind int

const (
	// KindIllegalAction: wrong player, wrong phase, or a card not in hand.
	KindIllegalAction ErrorKind = iota + 1
	// KindRuleViolation: follow-suit or obligatory-trump breach.
	KindRuleViolation
	// KindInvariantBroken: an internal impossibility; ends the deal.
	KindInvariantBroken
	// KindPolicyContractViolation: the decision policy broke its contract.
	KindPolicyContractViolation
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindIllegalAction:
		return ErrIllegalAction
	case KindRuleViolation:
		return ErrRuleViolation
	case KindInvariantBroken:
		return ErrInvariantBroken
	case KindPolicyContractViolation:
		return ErrPolicyContractViolation
	}
	return nil
}

func (k ErrorKind) String() string {
	if s := k.sentinel(); s != nil {
		return s.Error()
	}
	return "unknown error"
}

// ActionError describes why an action was rejected or a deal aborted.
type ActionError struct {
	Kind ErrorKind
	Seat Seat
	Op   string
	Msg  string
	Err  error
}

func (e *ActionError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Seat.Valid() {
		return fmt.Sprintf("%s %s: %s (%s)", e.Op, e.Seat, msg, e.Kind)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Op, msg, e.Kind)
}

// Is matches the sentinel for the error's kind.
func (e *ActionError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *ActionError) Unwrap() error { return e.Err }

// KindOf returns the ErrorKind of err, or 0 if err is not an *ActionError.
func KindOf(err error) ErrorKind {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

func illegal(op string, seat Seat, format string, args ...any) *ActionError {
	return &ActionError{Kind: KindIllegalAction, Seat: seat, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func violation(op string, seat Seat, format string, args ...any) *ActionError {
	return &ActionError{Kind: KindRuleViolation, Seat: seat, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func broken(op string, format string, args ...any) *ActionError {
	return &ActionError{Kind: KindInvariantBroken, Seat: NoSeat, Op: op, Msg: fmt.Sprintf(format, args...)}
}
