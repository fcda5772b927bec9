package response

import (
	"quotation_service/internal/domain/entities"
)

const (
	MessageQuotationCreated = "Quotation created. Copy the link and send it manually via email."
	MessageQuotationDeleted = "Quotation deleted successfully"
	MessageQuotationSent    = "Quotation marked as sent. Copy the link below and send it manually via your email."
)

// Envelope is the success body of every quotation endpoint.
type Envelope struct {
	Success    bool   `json:"success"`
	Count      *int   `json:"count,omitempty"`
	Data       any    `json:"data,omitempty"`
	Message    string `json:"message,omitempty"`
	PublicLink string `json:"publicLink,omitempty"`
	ProposalID string `json:"proposalId,omitempty"`
}

// QuotationDocument is the JSON object of one quotation: modelled fields plus
// the free-form details flattened next to them.
type QuotationDocument map[string]any

var coreKeys = map[string]bool{
	"id": true, "proposalId": true,
	"customerName": true, "customerEmail": true, "customerPhone": true,
	"customerAddress": true, "developmentAddress": true, "siteAddress": true,
	"jobType": true, "projectTitle": true, "projectDescription": true,
	"quotationType": true, "scope": true, "quotationDate": true,
	"items": true, "subtotal": true, "vatRate": true, "vatAmount": true, "totalAmount": true,
	"exclusions": true, "paymentTerms": true, "hourlyRates": true, "validUntil": true,
	"status": true, "createdBy": true, "version": true, "createdAt": true, "updatedAt": true,
}

// FromQuotation renders the full record (get, create, update).
func FromQuotation(q entities.Quotation) QuotationDocument {
	doc := QuotationDocument{
		"id":            q.ID,
		"proposalId":    q.ProposalID,
		"customerName":  q.CustomerName,
		"customerEmail": q.CustomerEmail,
		"siteAddress":   q.SiteAddress,
		"jobType":       nonNil(q.JobType),
		"quotationDate": q.QuotationDate,
		"items":         nonNil(q.Items),
		"subtotal":      q.Subtotal,
		"vatRate":       q.VATRate,
		"vatAmount":     q.VATAmount,
		"totalAmount":   q.TotalAmount,
		"exclusions":    nonNil(q.Exclusions),
		"hourlyRates":   nonNil(q.HourlyRates),
		"status":        string(q.Status),
		"createdBy":     q.CreatedBy,
		"version":       q.Version,
		"createdAt":     q.CreatedAt,
		"updatedAt":     q.UpdatedAt,
	}

	optional := map[string]string{
		"customerPhone":      q.CustomerPhone,
		"customerAddress":    q.CustomerAddress,
		"developmentAddress": q.DevelopmentAddress,
		"projectTitle":       q.ProjectTitle,
		"projectDescription": q.ProjectDescription,
		"quotationType":      q.QuotationType,
		"scope":              q.Scope,
		"paymentTerms":       q.PaymentTerms,
	}
	for k, v := range optional {
		if v != "" {
			doc[k] = v
		}
	}
	if q.ValidUntil != nil {
		doc["validUntil"] = *q.ValidUntil
	}

	for k, v := range q.Details {
		if coreKeys[k] {
			continue
		}
		doc[k] = v
	}
	return doc
}

// FromQuotationSummary is the listing shape: no version, no updatedAt.
func FromQuotationSummary(q entities.Quotation) QuotationDocument {
	doc := FromQuotation(q)
	delete(doc, "version")
	delete(doc, "updatedAt")
	return doc
}

// FromPublicQuotation is what an unauthenticated proposal link exposes.
func FromPublicQuotation(q entities.Quotation) QuotationDocument {
	doc := FromQuotationSummary(q)
	delete(doc, "createdBy")
	return doc
}

func NewCreatedEnvelope(q entities.Quotation, publicLink string) Envelope {
	return Envelope{Success: true, Data: FromQuotation(q), PublicLink: publicLink, Message: MessageQuotationCreated}
}

func NewListEnvelope(qs []entities.Quotation) Envelope {
	docs := make([]QuotationDocument, 0, len(qs))
	for _, q := range qs {
		docs = append(docs, FromQuotationSummary(q))
	}
	count := len(docs)
	return Envelope{Success: true, Count: &count, Data: docs}
}

func NewQuotationEnvelope(q entities.Quotation) Envelope {
	return Envelope{Success: true, Data: FromQuotation(q)}
}

func NewUpdatedEnvelope(q entities.Quotation, publicLink string) Envelope {
	return Envelope{Success: true, Data: FromQuotation(q), PublicLink: publicLink}
}

func NewDeletedEnvelope() Envelope {
	return Envelope{Success: true, Message: MessageQuotationDeleted}
}

func NewSentEnvelope(q entities.Quotation, publicLink string) Envelope {
	return Envelope{Success: true, Message: MessageQuotationSent, PublicLink: publicLink, ProposalID: q.ProposalID}
}

func NewPublicEnvelope(q entities.Quotation) Envelope {
	return Envelope{Success: true, Data: FromPublicQuotation(q)}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
