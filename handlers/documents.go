package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"

	"lexfirm_api_go/middleware"
	"lexfirm_api_go/repositories"
	"lexfirm_api_go/services"

	"github.com/labstack/echo/v4"
)

// multipart overhead allowed on top of the file bytes
const formOverhead = 1 << 20

func (h *Handler) documentFilter(c echo.Context) repositories.DocumentFilter {
	return repositories.DocumentFilter{
		CaseID:   c.QueryParam("caseId"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
		Viewer:   services.ViewerFor(middleware.GetActor(c)),
	}
}

func (h *Handler) ListDocuments(c echo.Context) error {
	page := pageParams(c)
	docs, total, err := h.Documents.List(c.Request().Context(), h.documentFilter(c), page)
	if err != nil {
		return err
	}
	return list(c, docs, total, page)
}

func (h *Handler) DocumentStats(c echo.Context) error {
	stats, err := h.Documents.Stats(c.Request().Context(), h.documentFilter(c))
	if err != nil {
		return err
	}
	return ok(c, stats)
}

func (h *Handler) GetDocument(c echo.Context) error {
	doc, err := h.Documents.Get(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, doc)
}

// UploadDocuments accepts a multipart form with up to the configured number
// of files under "file", "files" or "files[]".
func (h *Handler) UploadDocuments(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.cfg.UploadMaxSize*int64(h.cfg.UploadMaxFiles)+formOverhead)

	form, err := c.MultipartForm()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.PayloadTooLarge(fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}
		return services.Validation("expected a multipart/form-data body")
	}
	defer form.RemoveAll()

	input := services.DocumentUploadInput{
		CaseID:           formValue(form, "caseId"),
		Category:         formValue(form, "category"),
		DisplayName:      optionalFormValue(form, "displayName"),
		Description:      optionalFormValue(form, "description"),
		Tags:             optionalFormValue(form, "tags"),
		ParentDocumentID: formValue(form, "parentDocumentId"),
	}
	input.IsConfidential, _ = strconv.ParseBool(formValue(form, "isConfidential"))

	var files []*multipart.FileHeader
	for _, field := range []string{"file", "files", "files[]"} {
		files = append(files, form.File[field]...)
	}

	docs, err := h.Documents.Upload(req.Context(), middleware.GetActor(c), files, input)
	if err != nil {
		return err
	}
	return created(c, docs, fmt.Sprintf("%d document(s) uploaded", len(docs)))
}

// DownloadDocument streams the stored file as an attachment.
func (h *Handler) DownloadDocument(c echo.Context) error {
	doc, rc, err := h.Documents.Open(c.Request().Context(), middleware.GetActor(c), c.Param("id"))
	if err != nil {
		return err
	}
	defer rc.Close()

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(doc.Name))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(doc.Size, 10))
	return c.Stream(http.StatusOK, doc.Mimetype, rc)
}

func (h *Handler) UpdateDocument(c echo.Context) error {
	var input services.DocumentUpdateInput
	if err := bind(c, &input); err != nil {
		return err
	}
	doc, err := h.Documents.Update(c.Request().Context(), middleware.GetActor(c), c.Param("id"), input)
	if err != nil {
		return err
	}
	return ok(c, doc)
}

// DeleteDocument hides the document and keeps its file.
func (h *Handler) DeleteDocument(c echo.Context) error {
	if err := h.Documents.Delete(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, "Document deleted")
}

// PurgeDocument removes the record and the stored file.
func (h *Handler) PurgeDocument(c echo.Context) error {
	if err := h.Documents.HardDelete(c.Request().Context(), middleware.GetActor(c), c.Param("id")); err != nil {
		return err
	}
	return done(c, "Document permanently deleted")
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func optionalFormValue(form *multipart.Form, key string) *string {
	values, found := form.Value[key]
	if !found || len(values) == 0 {
		return nil
	}
	return &values[0]
}
