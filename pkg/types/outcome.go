package types

// Outcome is the result of a take-book request. Refusals are outcomes, not
// errors: the ledger resolves every business rule into one of these values.
type Outcome int

// Take-book outcomes, in the order their checks are evaluated.
const (
	OutcomeSuccess Outcome = iota
	OutcomeBookNotFound
	OutcomeAlreadyReserved
	OutcomePersonLimitReached
)

// Fixed user-facing messages. Callers print these verbatim.
const (
	MsgTakeSuccess        = "Book has been successfully taken."
	MsgBookNotFound       = "Book does not exist. Try typing book's GUID again."
	MsgAlreadyReserved    = "Book is already reserved."
	MsgPersonLimitReached = "You have already taken 3 books."

	MsgBookAdded     = "Successfully added."
	MsgDuplicateGUID = "Book with specified unique GUID is in the library. Try different GUID."
	MsgFillAllFields = "Please fill in all the fields."
	MsgFillField     = "Please fill in the field."
	MsgInputErrors   = "Try again, errors found."
	MsgPeriodRange   = "Book can be taken for 1 - 60 days period. Try again."
)

// Message returns the fixed user-facing message for the outcome.
func (o Outcome) Message() string {
	switch o {
	case OutcomeSuccess:
		return MsgTakeSuccess
	case OutcomeBookNotFound:
		return MsgBookNotFound
	case OutcomeAlreadyReserved:
		return MsgAlreadyReserved
	case OutcomePersonLimitReached:
		return MsgPersonLimitReached
	default:
		return ""
	}
}

// String returns a stable identifier for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeBookNotFound:
		return "book_not_found"
	case OutcomeAlreadyReserved:
		return "already_reserved"
	case OutcomePersonLimitReached:
		return "person_limit_reached"
	default:
		return "unknown"
	}
}

// OK reports whether the reservation was recorded.
func (o Outcome) OK() bool {
	return o == OutcomeSuccess
}
