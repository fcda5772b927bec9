package interfaces

import (
	"context"
	"errors"

	"quotation_service/internal/domain/entities"
)

// ErrProposalIDConflict is returned by Create when the proposal id is already taken.
var ErrProposalIDConflict = errors.New("proposal id already exists")

// ErrStaleQuotation is returned by Update when the stored version is no longer
// the one the caller read.
var ErrStaleQuotation = errors.New("quotation changed since it was read")

// IQuotationRepository abstracts quotation persistence.
//
// Lookups return a zero Quotation (empty ID) and a nil error when nothing matches.
//   - Update replaces the stored document; it never creates one. It only
//     writes when the stored version is q.Version-1 and never changes status.
//   - UpdateStatus is conditional on the current status being `from` and does
//     not re-validate the document.
//
//go:generate mockgen -source=quotation_repository_interface.go -destination=mocks/mock_quotation_repository_interface.go -package=mock_interfaces
type IQuotationRepository interface {
	Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error)
	GetByID(ctx context.Context, id string) (entities.Quotation, error)
	GetByProposalID(ctx context.Context, proposalID string) (entities.Quotation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Quotation, error)
	Update(ctx context.Context, q entities.Quotation) (entities.Quotation, error)
	UpdateStatus(ctx context.Context, id string, from, to entities.QuotationStatus) (entities.Quotation, error)
	Delete(ctx context.Context, q entities.Quotation) (bool, error)
}
