package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"quotation_service/internal/domain/entities"
	"quotation_service/internal/usecase/interfaces"

	"gorm.io/gorm"
)

// QuotationRecord is the relational row of a quotation. Structured blocks are
// stored as JSON text.
type QuotationRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	ProposalID string `gorm:"size:10;not null;uniqueIndex"`

	CustomerName       string `gorm:"not null"`
	CustomerEmail      string `gorm:"not null"`
	CustomerPhone      string
	CustomerAddress    string
	DevelopmentAddress string
	SiteAddress        string             `gorm:"not null"`
	JobType            []entities.JobType `gorm:"type:text;serializer:json"`

	ProjectTitle       string
	ProjectDescription string
	QuotationType      string
	Scope              string
	QuotationDate      *time.Time

	Items       []entities.LineItem `gorm:"type:text;serializer:json"`
	Subtotal    float64
	VATRate     float64
	VATAmount   float64
	TotalAmount float64

	Exclusions   []string `gorm:"type:text;serializer:json"`
	PaymentTerms string
	HourlyRates  []entities.HourlyRate `gorm:"type:text;serializer:json"`
	ValidUntil   *time.Time
	Details      map[string]any `gorm:"type:text;serializer:json"`

	Status    string    `gorm:"size:16;not null"`
	CreatedBy string    `gorm:"not null;index:idx_quotations_owner_created,priority:1"`
	Version   int64     `gorm:"not null;default:0"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index:idx_quotations_owner_created,priority:2"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (QuotationRecord) TableName() string { return "quotations" }

// QuotationGormRepository persists quotations in Postgres or SQLite.
type QuotationGormRepository struct {
	db *gorm.DB
}

var _ interfaces.IQuotationRepository = (*QuotationGormRepository)(nil)

func NewQuotationGormRepository(db *gorm.DB) *QuotationGormRepository {
	return &QuotationGormRepository{db: db}
}

func (r *QuotationGormRepository) Create(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	rec := toQuotationRecord(q)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isDuplicate(err) {
			return entities.Quotation{}, interfaces.ErrProposalIDConflict
		}
		return entities.Quotation{}, err
	}
	return q, nil
}

func (r *QuotationGormRepository) GetByID(ctx context.Context, id string) (entities.Quotation, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *QuotationGormRepository) GetByProposalID(ctx context.Context, proposalID string) (entities.Quotation, error) {
	return r.first(ctx, "proposal_id = ?", proposalID)
}

func (r *QuotationGormRepository) ListByOwner(ctx context.Context, ownerID string) ([]entities.Quotation, error) {
	var recs []QuotationRecord
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}

	out := make([]entities.Quotation, 0, len(recs))
	for _, rec := range recs {
		out = append(out, fromQuotationRecord(rec))
	}
	return out, nil
}

// Update rewrites the editable columns when the stored version is the one the
// caller read. Identity and status are never touched.
func (r *QuotationGormRepository) Update(ctx context.Context, q entities.Quotation) (entities.Quotation, error) {
	rec := toQuotationRecord(q)
	res := r.db.WithContext(ctx).
		Model(&QuotationRecord{}).
		Where("id = ? AND version = ?", q.ID, q.Version-1).
		Select("*").
		Omit("id", "proposal_id", "created_by", "created_at", "status").
		Updates(&rec)
	if res.Error != nil {
		return entities.Quotation{}, res.Error
	}
	if res.RowsAffected == 0 {
		current, err := r.GetByID(ctx, q.ID)
		if err != nil {
			return entities.Quotation{}, err
		}
		if current.ID == "" {
			return entities.Quotation{}, nil
		}
		return entities.Quotation{}, interfaces.ErrStaleQuotation
	}
	return r.GetByID(ctx, q.ID)
}

func (r *QuotationGormRepository) UpdateStatus(ctx context.Context, id string, from, to entities.QuotationStatus) (entities.Quotation, error) {
	res := r.db.WithContext(ctx).
		Model(&QuotationRecord{}).
		Where("id = ? AND status = ?", id, string(from)).
		Updates(map[string]any{
			"status":     string(to),
			"updated_at": time.Now().UTC(),
			"version":    gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return entities.Quotation{}, res.Error
	}
	if res.RowsAffected == 0 {
		return entities.Quotation{}, nil
	}
	return r.GetByID(ctx, id)
}

func (r *QuotationGormRepository) Delete(ctx context.Context, q entities.Quotation) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ?", q.ID).Delete(&QuotationRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *QuotationGormRepository) first(ctx context.Context, query string, arg string) (entities.Quotation, error) {
	var rec QuotationRecord
	err := r.db.WithContext(ctx).Where(query, arg).Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Quotation{}, nil
		}
		return entities.Quotation{}, err
	}
	return fromQuotationRecord(rec), nil
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique constraint")
}

func toQuotationRecord(q entities.Quotation) QuotationRecord {
	rec := QuotationRecord{
		ID:                 q.ID,
		ProposalID:         q.ProposalID,
		CustomerName:       q.CustomerName,
		CustomerEmail:      q.CustomerEmail,
		CustomerPhone:      q.CustomerPhone,
		CustomerAddress:    q.CustomerAddress,
		DevelopmentAddress: q.DevelopmentAddress,
		SiteAddress:        q.SiteAddress,
		JobType:            q.JobType,
		ProjectTitle:       q.ProjectTitle,
		ProjectDescription: q.ProjectDescription,
		QuotationType:      q.QuotationType,
		Scope:              q.Scope,
		Items:              q.Items,
		Subtotal:           q.Subtotal,
		VATRate:            q.VATRate,
		VATAmount:          q.VATAmount,
		TotalAmount:        q.TotalAmount,
		Exclusions:         q.Exclusions,
		PaymentTerms:       q.PaymentTerms,
		HourlyRates:        q.HourlyRates,
		ValidUntil:         q.ValidUntil,
		Details:            q.Details,
		Status:             string(q.Status),
		CreatedBy:          q.CreatedBy,
		Version:            q.Version,
		CreatedAt:          q.CreatedAt.UTC(),
		UpdatedAt:          q.UpdatedAt.UTC(),
	}
	if !q.QuotationDate.IsZero() {
		d := q.QuotationDate.UTC()
		rec.QuotationDate = &d
	}
	return rec
}

func fromQuotationRecord(rec QuotationRecord) entities.Quotation {
	q := entities.Quotation{
		ID:                 rec.ID,
		ProposalID:         rec.ProposalID,
		CustomerName:       rec.CustomerName,
		CustomerEmail:      rec.CustomerEmail,
		CustomerPhone:      rec.CustomerPhone,
		CustomerAddress:    rec.CustomerAddress,
		DevelopmentAddress: rec.DevelopmentAddress,
		SiteAddress:        rec.SiteAddress,
		JobType:            rec.JobType,
		ProjectTitle:       rec.ProjectTitle,
		ProjectDescription: rec.ProjectDescription,
		QuotationType:      rec.QuotationType,
		Scope:              rec.Scope,
		Items:              rec.Items,
		Subtotal:           rec.Subtotal,
		VATRate:            rec.VATRate,
		VATAmount:          rec.VATAmount,
		TotalAmount:        rec.TotalAmount,
		Exclusions:         rec.Exclusions,
		PaymentTerms:       rec.PaymentTerms,
		HourlyRates:        rec.HourlyRates,
		Details:            rec.Details,
		Status:             entities.QuotationStatus(rec.Status),
		CreatedBy:          rec.CreatedBy,
		Version:            rec.Version,
		CreatedAt:          rec.CreatedAt.UTC(),
		UpdatedAt:          rec.UpdatedAt.UTC(),
	}
	if rec.QuotationDate != nil {
		q.QuotationDate = rec.QuotationDate.UTC()
	}
	if rec.ValidUntil != nil {
		v := rec.ValidUntil.UTC()
		q.ValidUntil = &v
	}
	return q
}
