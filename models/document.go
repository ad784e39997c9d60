package models

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document categories
const (
	DocumentCategoryPleadings      = "Escritos Legales"
	DocumentCategoryContracts      = "Contratos"
	DocumentCategoryEvidence       = "Evidencia"
	DocumentCategoryReports        = "Reportes"
	DocumentCategoryJudgments      = "Sentencias"
	DocumentCategoryNotices        = "Notificaciones"
	DocumentCategoryCorrespondence = "Correspondencia"
	DocumentCategoryIDs            = "Identificaciones"
	DocumentCategoryPowers         = "Poderes"
	DocumentCategoryOther          = "Otro"
)

// Document is a file attached to a case.
type Document struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	CaseID string `gorm:"type:uuid;not null;index" json:"caseId"`
	Case   *Case  `gorm:"foreignKey:CaseID" json:"case,omitempty"`

	UploadedBy string `gorm:"type:uuid;not null;index" json:"uploadedBy"`
	Uploader   *User  `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`

	Name        string  `gorm:"not null" json:"name"` // Original filename
	DisplayName *string `json:"displayName,omitempty"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	Filename    string  `gorm:"not null" json:"filename"`      // Stored filename
	StorageKey  string  `gorm:"not null;uniqueIndex" json:"-"` // Key inside the storage backend
	Mimetype    string  `gorm:"not null" json:"mimetype"`
	Size        int64   `gorm:"not null" json:"size"`
	Extension   string  `json:"extension"`
	Category    string  `gorm:"not null;default:Otro;index" json:"category"`
	Tags        *string `json:"tags,omitempty"`

	Version          int       `gorm:"not null;default:1" json:"version"`
	ParentDocumentID *string   `gorm:"type:uuid;index" json:"parentDocumentId,omitempty"`
	Parent           *Document `gorm:"foreignKey:ParentDocumentID" json:"parent,omitempty"`

	IsConfidential bool       `gorm:"not null;default:false" json:"isConfidential"`
	IsDeleted      bool       `gorm:"not null;default:false;index" json:"-"`
	DeletedAt      *time.Time `json:"-"`
	DeletedBy      *string    `gorm:"type:uuid" json:"-"`
}

// BeforeCreate hook to generate UUID
func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	if d.Extension == "" {
		d.Extension = strings.ToLower(filepath.Ext(d.Name))
	}
	return nil
}

// ArchiveUpdates flags the document as deleted while keeping the stored file.
func (Document) ArchiveUpdates(at time.Time, by *string) map[string]interface{} {
	return map[string]interface{}{
		"is_deleted": true,
		"deleted_at": at,
		"deleted_by": by,
	}
}

// VisibleScope hides soft-deleted documents.
func (Document) VisibleScope(db *gorm.DB) *gorm.DB {
	return db.Where("documents.is_deleted = ?", false)
}

// Label returns the display name, falling back to the original filename.
func (d *Document) Label() string {
	if d.DisplayName != nil && *d.DisplayName != "" {
		return *d.DisplayName
	}
	return d.Name
}

// IsValidDocumentCategory checks if a category is valid
func IsValidDocumentCategory(category string) bool {
	switch category {
	case DocumentCategoryPleadings, DocumentCategoryContracts, DocumentCategoryEvidence, DocumentCategoryReports,
		DocumentCategoryJudgments, DocumentCategoryNotices, DocumentCategoryCorrespondence, DocumentCategoryIDs,
		DocumentCategoryPowers, DocumentCategoryOther:
		return true
	}
	return false
}

// TableName specifies the table name for Document model
func (Document) TableName() string {
	return "documents"
}
