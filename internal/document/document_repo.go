package document

import (
	"context"

	"go-leave/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=document_repo.go -destination=mock/document_repo_mock.go -package=mock
type Repository interface {
	// CreateIfMissing inserts d unless (request, template) exists and reports whether it wrote.
	CreateIfMissing(ctx context.Context, d *Document) (bool, error)
	FindByRequestTemplate(ctx context.Context, requestID, templateID string) (*Document, error)
	FindByID(ctx context.Context, companyID, id string) (*Document, error)
	FindByIDUnscoped(ctx context.Context, id string) (*Document, error)
	UpdateContent(ctx context.Context, id string, status string, content []byte) error
	AddSignature(ctx context.Context, s *Signature) error
	ListSignatures(ctx context.Context, documentID string) ([]Signature, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIfMissing(ctx context.Context, d *Document) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(d)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) FindByRequestTemplate(ctx context.Context, requestID, templateID string) (*Document, error) {
	var d Document
	err := r.db.WithContext(ctx).
		Where("request_id = ? AND template_id = ?", requestID, templateID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindByID(ctx context.Context, companyID, id string) (*Document, error) {
	var d Document
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindByIDUnscoped is for side-effect consumers, which act on behalf of the system.
func (r *repository) FindByIDUnscoped(ctx context.Context, id string) (*Document, error) {
	var d Document
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) UpdateContent(ctx context.Context, id string, status string, content []byte) error {
	return r.db.WithContext(ctx).
		Model(&Document{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "content": content}).Error
}

func (r *repository) AddSignature(ctx context.Context, s *Signature) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) ListSignatures(ctx context.Context, documentID string) ([]Signature, error) {
	var sigs []Signature
	err := r.db.WithContext(ctx).
		Where("document_id = ?", documentID).
		Order("signed_at ASC").
		Find(&sigs).Error
	return sigs, err
}
