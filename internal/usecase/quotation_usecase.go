package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"quotation_service/internal/domain/entities"
	"quotation_service/internal/usecase/interfaces"
	"quotation_service/pkg/proposalid"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultPublicBaseURL = "http://localhost:3000"

var (
	ErrQuotationNotFound       = errors.New("quotation not found")
	ErrQuotationForbidden      = errors.New("quotation belongs to another user")
	ErrQuotationAlreadySent    = errors.New("quotation has already been sent or accepted")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrMissingCaller           = errors.New("missing caller identity")
	ErrQuotationValidation     = entities.ErrInvalidQuotation
	ErrProposalIDConflict      = interfaces.ErrProposalIDConflict
)

// TransitionError reports a status change the state machine refuses.
// It matches ErrInvalidStatusTransition with errors.Is.
type TransitionError struct {
	From entities.QuotationStatus
	To   entities.QuotationStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidStatusTransition, e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidStatusTransition
}

// IQuotationUseCase exposes the quotation operations.
//
// Owner-scoped operations check existence before ownership, so a caller probing
// another user's quotation gets ErrQuotationForbidden, not ErrQuotationNotFound.
//
//go:generate mockgen -source=quotation_usecase.go -destination=../adapter/http/handlers/mocks/mock_quotation_usecase.go -package=mocks
type IQuotationUseCase interface {
	Create(ctx context.Context, ownerID string, q entities.Quotation) (entities.Quotation, error)
	ListByOwner(ctx context.Context, ownerID string) ([]entities.Quotation, error)
	GetByID(ctx context.Context, ownerID, id string) (entities.Quotation, error)
	Update(ctx context.Context, ownerID, id string, patch entities.QuotationPatch) (entities.Quotation, error)
	Delete(ctx context.Context, ownerID, id string) error
	MarkSent(ctx context.Context, ownerID, id string) (entities.Quotation, error)
	ViewByProposalID(ctx context.Context, proposalID string) (entities.Quotation, error)
	PublicLink(proposalID string) string
}

type QuotationUseCaseConfig struct {
	PublicBaseURL string
	AllowResend   bool
	Logger        logrus.FieldLogger
}

type QuotationUseCase struct {
	repo          interfaces.IQuotationRepository
	statuses      entities.StatusMachine
	publicBaseURL string
	log           logrus.FieldLogger

	newID         func() string
	newProposalID func() (string, error)
	now           func() time.Time
}

var _ IQuotationUseCase = (*QuotationUseCase)(nil)

func NewQuotationUseCase(repo interfaces.IQuotationRepository, cfg QuotationUseCaseConfig) *QuotationUseCase {
	base := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if base == "" {
		base = DefaultPublicBaseURL
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &QuotationUseCase{
		repo:          repo,
		statuses:      entities.NewStatusMachine(cfg.AllowResend),
		publicBaseURL: base,
		log:           logger.WithField("module", "quotation_usecase"),
		newID:         uuid.NewString,
		newProposalID: proposalid.New,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (u *QuotationUseCase) PublicLink(proposalID string) string {
	return u.publicBaseURL + "/proposal/" + proposalID
}

// Create stores a new draft quotation owned by ownerID. Identity, ownership and
// status supplied in q are overwritten.
func (u *QuotationUseCase) Create(ctx context.Context, ownerID string, q entities.Quotation) (entities.Quotation, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return entities.Quotation{}, ErrMissingCaller
	}

	pid, err := u.newProposalID()
	if err != nil {
		return entities.Quotation{}, fmt.Errorf("generate proposal id: %w", err)
	}

	now := u.now()
	q.ID = u.newID()
	q.ProposalID = pid
	q.Status = entities.QuotationStatusDraft
	q.CreatedBy = ownerID
	q.Version = 0
	q.CreatedAt = now
	q.UpdatedAt = now
	if q.QuotationDate.IsZero() {
		q.QuotationDate = now
	}

	if err := q.Validate(); err != nil {
		return entities.Quotation{}, err
	}

	created, err := u.repo.Create(ctx, q)
	if err != nil {
		if errors.Is(err, interfaces.ErrProposalIDConflict) {
			u.log.WithField("proposal_id", pid).Warn("proposal id collision on create")
			return entities.Quotation{}, ErrProposalIDConflict
		}
		return entities.Quotation{}, err
	}

	u.log.WithFields(logrus.Fields{
		"quotation_id": created.ID,
		"proposal_id":  created.ProposalID,
		"owner_id":     ownerID,
	}).Info("quotation created")
	return created, nil
}

func (u *QuotationUseCase) ListByOwner(ctx context.Context, ownerID string) ([]entities.Quotation, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, ErrMissingCaller
	}
	items, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []entities.Quotation{}
	}
	return items, nil
}

func (u *QuotationUseCase) GetByID(ctx context.Context, ownerID, id string) (entities.Quotation, error) {
	return u.loadOwned(ctx, ownerID, id)
}

// Update applies patch to an owned quotation and re-validates the result.
func (u *QuotationUseCase) Update(ctx context.Context, ownerID, id string, patch entities.QuotationPatch) (entities.Quotation, error) {
	current, err := u.loadOwned(ctx, ownerID, id)
	if err != nil {
		return entities.Quotation{}, err
	}

	next := patch.Apply(current)
	next.ID = current.ID
	next.ProposalID = current.ProposalID
	next.CreatedBy = current.CreatedBy
	next.Status = current.Status
	next.CreatedAt = current.CreatedAt
	next.Version = current.Version + 1
	next.UpdatedAt = u.now()

	if err := next.Validate(); err != nil {
		return entities.Quotation{}, err
	}

	saved, err := u.repo.Update(ctx, next)
	if errors.Is(err, interfaces.ErrStaleQuotation) {
		return entities.Quotation{}, fmt.Errorf("%w: %s changed while updating", ErrInvalidStatusTransition, current.ID)
	}
	if err != nil {
		return entities.Quotation{}, err
	}
	if saved.ID == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}
	return saved, nil
}

func (u *QuotationUseCase) Delete(ctx context.Context, ownerID, id string) error {
	current, err := u.loadOwned(ctx, ownerID, id)
	if err != nil {
		return err
	}
	deleted, err := u.repo.Delete(ctx, current)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrQuotationNotFound
	}
	u.log.WithFields(logrus.Fields{"quotation_id": current.ID, "owner_id": current.CreatedBy}).Info("quotation deleted")
	return nil
}

// MarkSent records that the owner shared the public link.
func (u *QuotationUseCase) MarkSent(ctx context.Context, ownerID, id string) (entities.Quotation, error) {
	current, err := u.loadOwned(ctx, ownerID, id)
	if err != nil {
		return entities.Quotation{}, err
	}

	switch current.Status {
	case entities.QuotationStatusSent, entities.QuotationStatusAccepted:
		return entities.Quotation{}, ErrQuotationAlreadySent
	}
	if !u.statuses.CanTransition(current.Status, entities.QuotationStatusSent) {
		return entities.Quotation{}, &TransitionError{From: current.Status, To: entities.QuotationStatusSent}
	}

	updated, err := u.repo.UpdateStatus(ctx, current.ID, current.Status, entities.QuotationStatusSent)
	if err != nil {
		return entities.Quotation{}, err
	}
	if updated.ID == "" {
		// status moved (or the record vanished) between read and write
		return entities.Quotation{}, fmt.Errorf("%w: status of %s changed concurrently", ErrInvalidStatusTransition, current.ID)
	}

	u.log.WithFields(logrus.Fields{
		"quotation_id": updated.ID,
		"proposal_id":  updated.ProposalID,
		"from":         current.Status,
	}).Info("quotation marked as sent")
	return updated, nil
}

// ViewByProposalID is the unauthenticated read. A sent quotation becomes viewed.
func (u *QuotationUseCase) ViewByProposalID(ctx context.Context, proposalID string) (entities.Quotation, error) {
	proposalID = strings.TrimSpace(proposalID)
	if !proposalid.Valid(proposalID) {
		return entities.Quotation{}, ErrQuotationNotFound
	}

	q, err := u.repo.GetByProposalID(ctx, proposalID)
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ID == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}

	if q.Status != entities.QuotationStatusSent || !u.statuses.CanTransition(q.Status, entities.QuotationStatusViewed) {
		return q, nil
	}

	viewed, err := u.repo.UpdateStatus(ctx, q.ID, entities.QuotationStatusSent, entities.QuotationStatusViewed)
	if err != nil {
		return entities.Quotation{}, err
	}
	if viewed.ID != "" {
		u.log.WithFields(logrus.Fields{"quotation_id": viewed.ID, "proposal_id": proposalID}).Info("quotation viewed")
		return viewed, nil
	}

	// another reader won the sent -> viewed race; return what is stored now
	latest, err := u.repo.GetByID(ctx, q.ID)
	if err != nil {
		return entities.Quotation{}, err
	}
	if latest.ID == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}
	return latest, nil
}

func (u *QuotationUseCase) loadOwned(ctx context.Context, ownerID, id string) (entities.Quotation, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return entities.Quotation{}, ErrMissingCaller
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}

	q, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return entities.Quotation{}, err
	}
	if q.ID == "" {
		return entities.Quotation{}, ErrQuotationNotFound
	}
	if !q.IsOwnedBy(ownerID) {
		return entities.Quotation{}, ErrQuotationForbidden
	}
	return q, nil
}
