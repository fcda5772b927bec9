package entities

// QuotationStatus is the lifecycle state of a quotation.
type QuotationStatus string

const (
	QuotationStatusDraft    QuotationStatus = "draft"
	QuotationStatusSent     QuotationStatus = "sent"
	QuotationStatusViewed   QuotationStatus = "viewed"
	QuotationStatusAccepted QuotationStatus = "accepted"
	QuotationStatusRejected QuotationStatus = "rejected"
	QuotationStatusExpired  QuotationStatus = "expired"
)

func (s QuotationStatus) Valid() bool {
	switch s {
	case QuotationStatusDraft, QuotationStatusSent, QuotationStatusViewed,
		QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired:
		return true
	}
	return false
}

// StatusMachine is the table of permitted status transitions.
//
// Only draft->sent (owner action) and sent->viewed (first public read) are
// allowed. With allowResend the legacy behaviour of re-sending viewed,
// rejected and expired quotations is re-enabled.
type StatusMachine struct {
	transitions map[QuotationStatus]map[QuotationStatus]bool
}

func NewStatusMachine(allowResend bool) StatusMachine {
	t := map[QuotationStatus]map[QuotationStatus]bool{
		QuotationStatusDraft: {QuotationStatusSent: true},
		QuotationStatusSent:  {QuotationStatusViewed: true},
	}
	if allowResend {
		for _, from := range []QuotationStatus{QuotationStatusViewed, QuotationStatusRejected, QuotationStatusExpired} {
			t[from] = map[QuotationStatus]bool{QuotationStatusSent: true}
		}
	}
	return StatusMachine{transitions: t}
}

func (m StatusMachine) CanTransition(from, to QuotationStatus) bool {
	return m.transitions[from][to]
}
