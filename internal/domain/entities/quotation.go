package entities

import "time"

// JobType classifies the utilities a quotation covers.
type JobType string

const (
	JobTypeElectric JobType = "Electric"
	JobTypeGas      JobType = "Gas"
	JobTypeWater    JobType = "Water"
)

// JobTypes lists the accepted job types in display order.
var JobTypes = []JobType{JobTypeElectric, JobTypeGas, JobTypeWater}

func (j JobType) Valid() bool {
	switch j {
	case JobTypeElectric, JobTypeGas, JobTypeWater:
		return true
	}
	return false
}

const (
	DefaultVATRate      = 20.0
	DefaultItemQuantity = 1.0
)

// LineItem is a priced line of a quotation.
type LineItem struct {
	ServiceName string  `json:"serviceName" validate:"required"`
	Description string  `json:"description,omitempty"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	TotalPrice  float64 `json:"totalPrice"`
}

type HourlyRate struct {
	Role string  `json:"role"`
	Rate float64 `json:"rate"`
}

// Quotation is the priced service offer sent to a customer.
//
// Storage model:
//   - PK: ID (internal, UUID)
//   - unique: ProposalID (public token)
//   - owner index: CreatedBy + CreatedAt
//
// Details holds the schema-flexible descriptive blocks (scopeTable,
// tenderInclusions, nonContestableCharges, ...) and any other key the client
// sends. It is stored and returned verbatim.
type Quotation struct {
	ID         string `json:"id"`
	ProposalID string `json:"proposalId" validate:"required,len=10"`

	CustomerName       string `json:"customerName" validate:"required"`
	CustomerEmail      string `json:"customerEmail" validate:"required"`
	CustomerPhone      string `json:"customerPhone,omitempty"`
	CustomerAddress    string `json:"customerAddress,omitempty"`
	DevelopmentAddress string `json:"developmentAddress,omitempty"`
	SiteAddress        string `json:"siteAddress" validate:"required"`

	JobType []JobType `json:"jobType" validate:"required,min=1,dive,oneof=Electric Gas Water"`

	ProjectTitle       string    `json:"projectTitle,omitempty"`
	ProjectDescription string    `json:"projectDescription,omitempty"`
	QuotationType      string    `json:"quotationType,omitempty"`
	Scope              string    `json:"scope,omitempty"`
	QuotationDate      time.Time `json:"quotationDate"`

	Items       []LineItem `json:"items" validate:"required,min=1,dive"`
	Subtotal    float64    `json:"subtotal"`
	VATRate     float64    `json:"vatRate"`
	VATAmount   float64    `json:"vatAmount"`
	TotalAmount float64    `json:"totalAmount"`

	Exclusions   []string     `json:"exclusions"`
	PaymentTerms string       `json:"paymentTerms,omitempty"`
	HourlyRates  []HourlyRate `json:"hourlyRates"`
	ValidUntil   *time.Time   `json:"validUntil,omitempty"`

	Details map[string]any `json:"-"`

	Status    QuotationStatus `json:"status" validate:"required,oneof=draft sent viewed accepted rejected expired"`
	CreatedBy string          `json:"createdBy" validate:"required"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IsOwnedBy reports whether userID created the quotation.
func (q Quotation) IsOwnedBy(userID string) bool {
	return q.CreatedBy != "" && q.CreatedBy == userID
}
