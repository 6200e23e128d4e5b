// internal/app/lifecycle/result.go
package lifecycle

// Outcome tags the result of a lifecycle operation so callers must branch
// explicitly instead of inferring the branch from side effects.
type Outcome int

const (
	// OutcomeOK means every step of the operation settled successfully.
	OutcomeOK Outcome = iota
	// OutcomeWarning means a precondition refused the operation before any
	// store mutation; the caller should present a warning, not retry.
	OutcomeWarning
	// OutcomeConflict means the operation was refused because the target
	// already belongs to another organization. Zero mutations were issued.
	OutcomeConflict
	// OutcomeFailure means a store call failed. Compensations for completed
	// steps have already run; Message is display-ready.
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeWarning:
		return "warning"
	case OutcomeConflict:
		return "conflict"
	case OutcomeFailure:
		return "failure"
	}
	return "unknown"
}

// Result is the outcome of one lifecycle operation.
//
// OrganizationID carries the organization resolved during the operation; it is
// empty when no organization changed (notably after Decline).
type Result struct {
	Outcome        Outcome
	Message        string
	OrganizationID string
}

func ok(orgID string) Result {
	return Result{Outcome: OutcomeOK, OrganizationID: orgID}
}

func warning(message string) Result {
	return Result{Outcome: OutcomeWarning, Message: message}
}

func conflict(message string) Result {
	return Result{Outcome: OutcomeConflict, Message: message}
}

func failure(message string) Result {
	return Result{Outcome: OutcomeFailure, Message: message}
}
