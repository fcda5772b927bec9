package entities

import "time"

// Field is an optional patch value; Set distinguishes "absent" from "zero".
type Field[T any] struct {
	Set   bool
	Value T
}

func SetField[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// QuotationPatch carries the owner-editable fields of an update.
//
// Identity, ownership and lifecycle fields (ProposalID, CreatedBy, Status) are
// deliberately absent. A nil value in Details removes the key.
type QuotationPatch struct {
	CustomerName       Field[string]
	CustomerEmail      Field[string]
	CustomerPhone      Field[string]
	CustomerAddress    Field[string]
	DevelopmentAddress Field[string]
	SiteAddress        Field[string]
	JobType            Field[[]JobType]
	ProjectTitle       Field[string]
	ProjectDescription Field[string]
	QuotationType      Field[string]
	Scope              Field[string]
	QuotationDate      Field[time.Time]
	Items              Field[[]LineItem]
	Subtotal           Field[float64]
	VATRate            Field[float64]
	VATAmount          Field[float64]
	TotalAmount        Field[float64]
	Exclusions         Field[[]string]
	PaymentTerms       Field[string]
	HourlyRates        Field[[]HourlyRate]
	ValidUntil         Field[*time.Time]
	Details            map[string]any
}

// Apply returns a copy of q with the patch applied.
func (p QuotationPatch) Apply(q Quotation) Quotation {
	applyField(&q.CustomerName, p.CustomerName)
	applyField(&q.CustomerEmail, p.CustomerEmail)
	applyField(&q.CustomerPhone, p.CustomerPhone)
	applyField(&q.CustomerAddress, p.CustomerAddress)
	applyField(&q.DevelopmentAddress, p.DevelopmentAddress)
	applyField(&q.SiteAddress, p.SiteAddress)
	applyField(&q.JobType, p.JobType)
	applyField(&q.ProjectTitle, p.ProjectTitle)
	applyField(&q.ProjectDescription, p.ProjectDescription)
	applyField(&q.QuotationType, p.QuotationType)
	applyField(&q.Scope, p.Scope)
	applyField(&q.QuotationDate, p.QuotationDate)
	applyField(&q.Items, p.Items)
	applyField(&q.Subtotal, p.Subtotal)
	applyField(&q.VATRate, p.VATRate)
	applyField(&q.VATAmount, p.VATAmount)
	applyField(&q.TotalAmount, p.TotalAmount)
	applyField(&q.Exclusions, p.Exclusions)
	applyField(&q.PaymentTerms, p.PaymentTerms)
	applyField(&q.HourlyRates, p.HourlyRates)
	applyField(&q.ValidUntil, p.ValidUntil)

	if len(p.Details) > 0 {
		merged := make(map[string]any, len(q.Details)+len(p.Details))
		for k, v := range q.Details {
			merged[k] = v
		}
		for k, v := range p.Details {
			if v == nil {
				delete(merged, k)
				continue
			}
			merged[k] = v
		}
		q.Details = merged
	}
	return q
}

func applyField[T any](dst *T, f Field[T]) {
	if f.Set {
		*dst = f.Value
	}
}
