package request

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"quotation_service/internal/domain/entities"

	"github.com/shockerli/cvt"
	"github.com/shopspring/decimal"
)

// ValidationError is a payload problem reported to the client verbatim.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	ErrMissingRequiredFields = &ValidationError{Message: "Missing required fields: customerName, customerEmail, siteAddress"}
	ErrInvalidJobType        = &ValidationError{Message: "jobType must be a non-empty array (Electric, Gas, and/or Water)"}
	ErrInvalidItems          = &ValidationError{Message: "items must be a non-empty array"}
)

// QuotationPayload is the raw JSON object of a create or update request.
// Keys the service does not model are kept as quotation details.
type QuotationPayload map[string]any

// ignoredKeys are never taken from a client: identity, ownership, lifecycle
// and store bookkeeping.
var ignoredKeys = map[string]bool{
	"id":         true,
	"_id":        true,
	"proposalId": true,
	"createdBy":  true,
	"status":     true,
	"version":    true,
	"__v":        true,
	"createdAt":  true,
	"updatedAt":  true,
}

type fieldDecoder func(p *entities.QuotationPatch, key string, v any, strict bool) error

var quotationFields = map[string]fieldDecoder{
	"customerName":       stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.CustomerName }),
	"customerEmail":      stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.CustomerEmail }),
	"customerPhone":      stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.CustomerPhone }),
	"customerAddress":    stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.CustomerAddress }),
	"developmentAddress": stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.DevelopmentAddress }),
	"siteAddress":        stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.SiteAddress }),
	"projectTitle":       stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.ProjectTitle }),
	"projectDescription": stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.ProjectDescription }),
	"quotationType":      stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.QuotationType }),
	"scope":              stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.Scope }),
	"paymentTerms":       stringField(func(p *entities.QuotationPatch) *entities.Field[string] { return &p.PaymentTerms }),
	"subtotal":           numberField(func(p *entities.QuotationPatch) *entities.Field[float64] { return &p.Subtotal }, 0),
	"vatRate":            numberField(func(p *entities.QuotationPatch) *entities.Field[float64] { return &p.VATRate }, entities.DefaultVATRate),
	"vatAmount":          numberField(func(p *entities.QuotationPatch) *entities.Field[float64] { return &p.VATAmount }, 0),
	"totalAmount":        numberField(func(p *entities.QuotationPatch) *entities.Field[float64] { return &p.TotalAmount }, 0),
	"jobType":            decodeJobType,
	"items":              decodeItems,
	"exclusions":         decodeExclusions,
	"hourlyRates":        decodeHourlyRates,
	"quotationDate":      decodeQuotationDate,
	"validUntil":         decodeValidUntil,
}

// ToQuotation builds a new quotation from a create request.
//
// Required keys are checked first, in a fixed order. Numbers are coerced
// leniently: a value that is not numeric falls back to its default.
func (p QuotationPayload) ToQuotation() (entities.Quotation, error) {
	for _, key := range []string{"customerName", "customerEmail", "siteAddress"} {
		s, err := toString(p[key])
		if p[key] == nil || err != nil || strings.TrimSpace(s) == "" {
			return entities.Quotation{}, ErrMissingRequiredFields
		}
	}
	if jt, ok := p["jobType"].([]any); !ok || len(jt) == 0 {
		return entities.Quotation{}, ErrInvalidJobType
	}
	if items, ok := p["items"].([]any); !ok || len(items) == 0 {
		return entities.Quotation{}, ErrInvalidItems
	}

	patch, err := p.decode(false)
	if err != nil {
		return entities.Quotation{}, err
	}

	q := patch.Apply(entities.Quotation{VATRate: entities.DefaultVATRate})
	q.CustomerName = strings.TrimSpace(q.CustomerName)
	q.CustomerEmail = strings.TrimSpace(q.CustomerEmail)
	q.SiteAddress = strings.TrimSpace(q.SiteAddress)
	return q, nil
}

// ToPatch builds the patch of an update request. Numbers must be numeric, a
// null clears the field and a null detail key removes it.
func (p QuotationPayload) ToPatch() (entities.QuotationPatch, error) {
	patch, err := p.decode(true)
	if err != nil {
		return entities.QuotationPatch{}, err
	}
	if patch.SiteAddress.Set {
		patch.SiteAddress.Value = strings.TrimSpace(patch.SiteAddress.Value)
	}
	return patch, nil
}

func (p QuotationPayload) decode(strict bool) (entities.QuotationPatch, error) {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var patch entities.QuotationPatch
	for _, key := range keys {
		if ignoredKeys[key] {
			continue
		}
		v := p[key]
		if dec, ok := quotationFields[key]; ok {
			if err := dec(&patch, key, v, strict); err != nil {
				return entities.QuotationPatch{}, err
			}
			continue
		}
		if v == nil && !strict {
			continue
		}
		if patch.Details == nil {
			patch.Details = map[string]any{}
		}
		patch.Details[key] = v
	}
	return patch, nil
}

func stringField(sel func(*entities.QuotationPatch) *entities.Field[string]) fieldDecoder {
	return func(p *entities.QuotationPatch, key string, v any, _ bool) error {
		if v == nil {
			*sel(p) = entities.SetField("")
			return nil
		}
		s, err := toString(v)
		if err != nil {
			return &ValidationError{Message: key + " must be a string"}
		}
		*sel(p) = entities.SetField(s)
		return nil
	}
}

func numberField(sel func(*entities.QuotationPatch) *entities.Field[float64], def float64) fieldDecoder {
	return func(p *entities.QuotationPatch, key string, v any, strict bool) error {
		if v == nil {
			*sel(p) = entities.SetField(def)
			return nil
		}
		n, ok := toNumber(v)
		if !ok {
			if strict {
				return &ValidationError{Message: key + " must be a number"}
			}
			return nil
		}
		*sel(p) = entities.SetField(n)
		return nil
	}
}

func decodeJobType(p *entities.QuotationPatch, _ string, v any, _ bool) error {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return ErrInvalidJobType
	}
	out := make([]entities.JobType, 0, len(raw))
	for _, e := range raw {
		s, ok := e.(string)
		if !ok || !entities.JobType(s).Valid() {
			return ErrInvalidJobType
		}
		out = append(out, entities.JobType(s))
	}
	p.JobType = entities.SetField(out)
	return nil
}

func decodeItems(p *entities.QuotationPatch, _ string, v any, strict bool) error {
	raw, ok := v.([]any)
	if !ok || len(raw) == 0 {
		return ErrInvalidItems
	}
	items := make([]entities.LineItem, 0, len(raw))
	for i, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			return &ValidationError{Message: fmt.Sprintf("items[%d] must be an object", i)}
		}
		item, err := decodeLineItem(i, m, strict)
		if err != nil {
			return err
		}
		items = append(items, item)
	}
	p.Items = entities.SetField(items)
	return nil
}

func decodeLineItem(i int, m map[string]any, strict bool) (entities.LineItem, error) {
	item := entities.LineItem{Quantity: entities.DefaultItemQuantity}

	for _, key := range []string{"serviceName", "description"} {
		if m[key] == nil {
			continue
		}
		s, err := toString(m[key])
		if err != nil {
			return entities.LineItem{}, &ValidationError{Message: fmt.Sprintf("items[%d].%s must be a string", i, key)}
		}
		if key == "serviceName" {
			item.ServiceName = strings.TrimSpace(s)
		} else {
			item.Description = s
		}
	}

	number := func(key string) (float64, bool, error) {
		if m[key] == nil {
			return 0, false, nil
		}
		n, ok := toNumber(m[key])
		if !ok && strict {
			return 0, false, &ValidationError{Message: fmt.Sprintf("items[%d].%s must be a number", i, key)}
		}
		return n, ok, nil
	}

	qty, ok, err := number("quantity")
	if err != nil {
		return entities.LineItem{}, err
	}
	if ok {
		item.Quantity = qty
	}
	if item.UnitPrice, _, err = number("unitPrice"); err != nil {
		return entities.LineItem{}, err
	}
	total, ok, err := number("totalPrice")
	if err != nil {
		return entities.LineItem{}, err
	}
	if ok {
		item.TotalPrice = total
	} else {
		item.TotalPrice = LineTotal(item.Quantity, item.UnitPrice)
	}
	return item, nil
}

// LineTotal is quantity x unit price rounded to two decimal places.
func LineTotal(quantity, unitPrice float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitPrice)).Round(2).InexactFloat64()
}

func decodeExclusions(p *entities.QuotationPatch, key string, v any, _ bool) error {
	if v == nil {
		p.Exclusions = entities.SetField([]string(nil))
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return &ValidationError{Message: key + " must be an array"}
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		s, err := toString(e)
		if err != nil {
			return &ValidationError{Message: key + " must contain only strings"}
		}
		out = append(out, s)
	}
	p.Exclusions = entities.SetField(out)
	return nil
}

func decodeHourlyRates(p *entities.QuotationPatch, key string, v any, strict bool) error {
	if v == nil {
		p.HourlyRates = entities.SetField([]entities.HourlyRate(nil))
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return &ValidationError{Message: key + " must be an array"}
	}
	out := make([]entities.HourlyRate, 0, len(raw))
	for i, e := range raw {
		m, ok := e.(map[string]any)
		if !ok {
			return &ValidationError{Message: fmt.Sprintf("%s[%d] must be an object", key, i)}
		}
		var hr entities.HourlyRate
		if m["role"] != nil {
			s, err := toString(m["role"])
			if err != nil {
				return &ValidationError{Message: fmt.Sprintf("%s[%d].role must be a string", key, i)}
			}
			hr.Role = s
		}
		if m["rate"] != nil {
			n, ok := toNumber(m["rate"])
			if !ok && strict {
				return &ValidationError{Message: fmt.Sprintf("%s[%d].rate must be a number", key, i)}
			}
			hr.Rate = n
		}
		out = append(out, hr)
	}
	p.HourlyRates = entities.SetField(out)
	return nil
}

func decodeQuotationDate(p *entities.QuotationPatch, key string, v any, _ bool) error {
	if v == nil {
		p.QuotationDate = entities.SetField(time.Time{})
		return nil
	}
	t, err := toTime(v)
	if err != nil {
		return &ValidationError{Message: key + " must be a valid date"}
	}
	p.QuotationDate = entities.SetField(t)
	return nil
}

func decodeValidUntil(p *entities.QuotationPatch, key string, v any, _ bool) error {
	if v == nil {
		p.ValidUntil = entities.SetField[*time.Time](nil)
		return nil
	}
	t, err := toTime(v)
	if err != nil {
		return &ValidationError{Message: key + " must be a valid date"}
	}
	p.ValidUntil = entities.SetField(&t)
	return nil
}

func toString(v any) (string, error) {
	switch v.(type) {
	case map[string]any, []any:
		return "", fmt.Errorf("unsupported type %T", v)
	}
	return cvt.StringE(v)
}

func toNumber(v any) (float64, bool) {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}
	n, err := cvt.Float64E(v)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func toTime(v any) (time.Time, error) {
	if s, ok := v.(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t.UTC(), nil
		}
	}
	t, err := cvt.TimeE(v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
