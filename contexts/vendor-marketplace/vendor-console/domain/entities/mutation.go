package entities

import "time"

// Field names understood by the vendor record store.
const (
	FieldDealClosed   = "deal_closed"
	FieldDealValue    = "deal_value"
	FieldDealClosedAt = "deal_closed_at"
)

// MutationRequest is built per submission and discarded once handled.
type MutationRequest struct {
	TargetID string
	Fields   map[string]any
}

// CloseDealRequest returns the single-record update that marks a deal closed.
func CloseDealRequest(vendorID string, value float64, closedAt time.Time) MutationRequest {
	return MutationRequest{
		TargetID: vendorID,
		Fields: map[string]any{
			FieldDealClosed:   true,
			FieldDealValue:    value,
			FieldDealClosedAt: closedAt.UTC(),
		},
	}
}

type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota + 1
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// MutationOutcome is either Success with the formatted value or Failure with
// the user-facing reason.
type MutationOutcome struct {
	Kind           OutcomeKind
	FormattedValue string
	Reason         string
	Err            error
}

func Success(formattedValue string) MutationOutcome {
	return MutationOutcome{Kind: OutcomeSuccess, FormattedValue: formattedValue}
}

func Failure(reason string, err error) MutationOutcome {
	return MutationOutcome{Kind: OutcomeFailure, Reason: reason, Err: err}
}

func (o MutationOutcome) Succeeded() bool {
	return o.Kind == OutcomeSuccess
}
