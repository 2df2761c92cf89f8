package document

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusGenerated = "GENERATED"
	StatusSigned    = "SIGNED"
)

type Document struct {
	ID         uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	CompanyID  uuid.UUID                   `gorm:"type:uuid;not null"`
	RequestID  uuid.UUID                   `gorm:"type:uuid;not null;uniqueIndex:uq_documents_request_template"`
	TemplateID string                      `gorm:"type:varchar(60);not null;uniqueIndex:uq_documents_request_template"`
	Status     string                      `gorm:"type:varchar(20);not null"`
	Header     datatypes.JSONSlice[string] `gorm:"not null"`
	Content    []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

type Signature struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DocumentID uuid.UUID `gorm:"type:uuid;not null;index:idx_document_signatures_document"`
	SignerID   uuid.UUID `gorm:"type:uuid;not null"`
	SignerRole string    `gorm:"type:varchar(40);not null"`
	Signature  string    `gorm:"type:text;not null"`
	SignedAt   time.Time `gorm:"not null;index:idx_document_signatures_document"`
}

func (Signature) TableName() string {
	return "document_signatures"
}

func (s *Signature) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
