package auth

import "errors"

type OutcomeKind int

const (
	OutcomeVerified OutcomeKind = iota + 1
	OutcomeRejected
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeVerified:
		return "verified"
	case OutcomeRejected:
		return "rejected"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of every verification path: a verified identity,
// an explicit rejection with a reason, or an infrastructure failure.
// The zero value is not a valid outcome.
type Outcome struct {
	kind     OutcomeKind
	identity VerifiedIdentity
	reason   string
	err      error
}

func Verified(id VerifiedIdentity) Outcome {
	return Outcome{kind: OutcomeVerified, identity: id}
}

func Rejected(reason string) Outcome {
	return Outcome{kind: OutcomeRejected, reason: reason}
}

func Failed(err error) Outcome {
	if err == nil {
		err = errors.New("auth: failure without cause")
	}
	return Outcome{kind: OutcomeFailed, err: err}
}

func (o Outcome) Kind() OutcomeKind { return o.kind }

// Identity is only meaningful when Kind is OutcomeVerified.
func (o Outcome) Identity() VerifiedIdentity { return o.identity }

func (o Outcome) Reason() string { return o.reason }

func (o Outcome) Err() error { return o.err }

// RejectionError is returned by collaborators (user directory, resolver)
// when they deliberately refuse an identity, as opposed to failing.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string {
	return e.Reason
}

// AsRejection reports whether err carries a rejection and returns its reason.
func AsRejection(err error) (string, bool) {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason, true
	}
	return "", false
}
