package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"lexfirm_api_go/models"
	"lexfirm_api_go/repositories"

	"go.uber.org/zap"
)

// DocumentUploadInput is the metadata sent along with uploaded files.
type DocumentUploadInput struct {
	CaseID           string
	Category         string
	DisplayName      *string
	Description      *string
	Tags             *string
	IsConfidential   bool
	ParentDocumentID string
}

// DocumentUpdateInput edits document metadata; nil means "not provided".
type DocumentUpdateInput struct {
	DisplayName    *string `json:"displayName"`
	Description    *string `json:"description"`
	Category       *string `json:"category"`
	Tags           *string `json:"tags"`
	IsConfidential *bool   `json:"isConfidential"`
}

type DocumentService struct {
	repos   *repositories.Repositories
	storage StorageProvider
	rules   UploadRules
}

func NewDocumentService(repos *repositories.Repositories, storage StorageProvider, rules UploadRules) *DocumentService {
	return &DocumentService{repos: repos, storage: storage, rules: rules}
}

// ViewerFor maps an actor to the confidentiality rule it is subject to.
func ViewerFor(actor Actor) repositories.DocumentViewer {
	return repositories.DocumentViewer{UserID: actor.UserID, IsAdmin: actor.IsAdmin()}
}

func (s *DocumentService) List(ctx context.Context, filter repositories.DocumentFilter, page repositories.Page) ([]models.Document, int64, error) {
	return s.repos.Documents.List(ctx, filter, page)
}

func (s *DocumentService) Stats(ctx context.Context, filter repositories.DocumentFilter) (repositories.DocumentStats, error) {
	return s.repos.Documents.Stats(ctx, filter)
}

// Get returns a visible document. Confidential documents of other users
// read as missing for non-admins.
func (s *DocumentService) Get(ctx context.Context, actor Actor, id string) (*models.Document, error) {
	doc, err := s.repos.Documents.FindByID(ctx, id, false)
	if err != nil {
		return nil, notFoundAs(err, "Document")
	}
	if doc.IsConfidential && !actor.IsAdmin() && doc.UploadedBy != actor.UserID {
		return nil, NotFound("Document")
	}
	return doc, nil
}

// Upload validates every file before storing any of them, then writes the
// files and their records. Files already written are removed again when a
// later step fails.
func (s *DocumentService) Upload(ctx context.Context, actor Actor, files []*multipart.FileHeader, input DocumentUploadInput) ([]models.Document, error) {
	if len(files) == 0 {
		return nil, Validation("no file was uploaded")
	}
	if s.rules.MaxFiles > 0 && len(files) > s.rules.MaxFiles {
		return nil, Validation(fmt.Sprintf("at most %d files can be uploaded at once", s.rules.MaxFiles))
	}
	if input.Category == "" {
		input.Category = models.DocumentCategoryOther
	}
	if !models.IsValidDocumentCategory(input.Category) {
		return nil, Validation("invalid document category: " + input.Category)
	}

	var parent *models.Document
	if input.ParentDocumentID != "" {
		p, err := s.Get(ctx, actor, input.ParentDocumentID)
		if err != nil {
			return nil, err
		}
		if len(files) > 1 {
			return nil, Validation("a new version takes exactly one file")
		}
		parent = p
		input.CaseID = p.CaseID
	}

	if input.CaseID == "" {
		return nil, Validation("caseId is required")
	}
	c, err := s.repos.Cases.FindByID(ctx, input.CaseID)
	if err != nil {
		return nil, notFoundAs(err, "Case")
	}

	mimeTypes := make([]string, len(files))
	for i, fh := range files {
		if mimeTypes[i], err = ValidateUpload(fh, s.rules); err != nil {
			return nil, err
		}
	}

	docs := make([]models.Document, 0, len(files))
	var stored []string
	cleanup := func() {
		for _, key := range stored {
			if err := s.storage.Delete(context.WithoutCancel(ctx), key); err != nil {
				zap.S().Errorw("Failed to remove orphaned upload", "key", key, "error", err)
			}
		}
	}

	for i, fh := range files {
		key := CaseDocumentKey(c.ID, fh.Filename)
		size, err := s.store(ctx, fh, key, mimeTypes[i])
		if err != nil {
			cleanup()
			return nil, err
		}
		stored = append(stored, key)

		doc := models.Document{
			CaseID:         c.ID,
			UploadedBy:     actor.UserID,
			Name:           filepath.Base(fh.Filename),
			DisplayName:    sanitizeOptional(input.DisplayName),
			Description:    sanitizeOptional(input.Description),
			Filename:       filepath.Base(key),
			StorageKey:     key,
			Mimetype:       mimeTypes[i],
			Size:           size,
			Extension:      strings.ToLower(filepath.Ext(fh.Filename)),
			Category:       input.Category,
			Tags:           trimOptional(input.Tags),
			Version:        1,
			IsConfidential: input.IsConfidential,
		}
		if parent != nil {
			doc.ParentDocumentID = &parent.ID
			doc.Version = parent.Version + 1
		}
		docs = append(docs, doc)
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		for i := range docs {
			if err := tx.Documents.Create(ctx, &docs[i]); err != nil {
				return err
			}
			if err := recordActivity(ctx, tx, actor, activityEntry{
				Type:        models.ActivityDocumentUploaded,
				EntityType:  "document",
				EntityID:    docs[i].ID,
				Description: fmt.Sprintf("Document uploaded to %s: %s", c.CaseNumber, docs[i].Label()),
				Metadata:    map[string]interface{}{"caseId": c.ID, "version": docs[i].Version},
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		cleanup()
		return nil, err
	}
	return docs, nil
}

// store writes one file, reading at most MaxSize+1 bytes so a body larger
// than its declared size is caught and removed.
func (s *DocumentService) store(ctx context.Context, fh *multipart.FileHeader, key, mimeType string) (int64, error) {
	src, err := fh.Open()
	if err != nil {
		return 0, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	var body io.Reader = src
	if s.rules.MaxSize > 0 {
		body = io.LimitReader(src, s.rules.MaxSize+1)
	}
	written, err := s.storage.Put(ctx, key, body, mimeType, fh.Size)
	if err != nil {
		return 0, err
	}
	if s.rules.MaxSize > 0 && written > s.rules.MaxSize {
		if err := s.storage.Delete(ctx, key); err != nil {
			zap.S().Errorw("Failed to remove oversized upload", "key", key, "error", err)
		}
		return 0, PayloadTooLarge(fmt.Sprintf("%s exceeds the %d MB limit", fh.Filename, s.rules.MaxSize/(1024*1024)))
	}
	return written, nil
}

// Open returns the document and a reader over its stored bytes.
func (s *DocumentService) Open(ctx context.Context, actor Actor, id string) (*models.Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.storage.Get(ctx, doc.StorageKey)
	if errors.Is(err, ErrObjectNotFound) {
		return nil, nil, NotFound("Document file")
	}
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

func (s *DocumentService) Update(ctx context.Context, actor Actor, id string, input DocumentUpdateInput) (*models.Document, error) {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if input.DisplayName != nil {
		doc.DisplayName = sanitizeOptional(input.DisplayName)
	}
	if input.Description != nil {
		doc.Description = sanitizeOptional(input.Description)
	}
	if input.Category != nil {
		if !models.IsValidDocumentCategory(*input.Category) {
			return nil, Validation("invalid document category: " + *input.Category)
		}
		doc.Category = *input.Category
	}
	if input.Tags != nil {
		doc.Tags = trimOptional(input.Tags)
	}
	if input.IsConfidential != nil {
		doc.IsConfidential = *input.IsConfidential
	}
	if err := s.repos.Documents.Update(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete hides the document but keeps the stored file.
func (s *DocumentService) Delete(ctx context.Context, actor Actor, id string) error {
	doc, err := s.Get(ctx, actor, id)
	if err != nil {
		return err
	}
	return s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Documents.Archive(ctx, id, actor.UserID); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityDocumentDeleted,
			EntityType:  "document",
			EntityID:    id,
			Description: fmt.Sprintf("Document deleted: %s", doc.Label()),
			Metadata:    map[string]interface{}{"caseId": doc.CaseID},
		})
	})
}

// HardDelete removes the record, soft-deleted or not, and then its file.
func (s *DocumentService) HardDelete(ctx context.Context, actor Actor, id string) error {
	doc, err := s.repos.Documents.FindByID(ctx, id, true)
	if err != nil {
		return notFoundAs(err, "Document")
	}

	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Documents.HardDelete(ctx, id); err != nil {
			return err
		}
		return recordActivity(ctx, tx, actor, activityEntry{
			Type:        models.ActivityDocumentDeleted,
			EntityType:  "document",
			EntityID:    id,
			Description: fmt.Sprintf("Document permanently deleted: %s", doc.Label()),
			Metadata:    map[string]interface{}{"caseId": doc.CaseID, "permanent": true},
		})
	})
	if err != nil {
		return err
	}

	if err := s.storage.Delete(ctx, doc.StorageKey); err != nil {
		zap.S().Errorw("Document record removed but file deletion failed", "document_id", id, "key", doc.StorageKey, "error", err)
	}
	return nil
}
