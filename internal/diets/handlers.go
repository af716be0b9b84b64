package diets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fdg312/diet-hub/internal/auth"
	"github.com/fdg312/diet-hub/internal/reports"
	"github.com/google/uuid"
)

// multipart memory buffer, larger parts spill to temp files
const maxMultipartMemory = 32 << 20

// AccessPolicy decides whether a caller may act on behalf of another user.
type AccessPolicy interface {
	CanActFor(ctx context.Context, callerID, targetID string) bool
}

// Handlers handles HTTP requests for diets
type Handlers struct {
	service *Service
	access  AccessPolicy
	now     func() time.Time
}

// NewHandlers creates new diets handlers
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service, now: time.Now}
}

// WithAccessPolicy restricts user_id overrides. Without a policy any
// override is accepted.
func (h *Handlers) WithAccessPolicy(p AccessPolicy) *Handlers {
	h.access = p
	return h
}

// HandleValidate handles POST /v1/diets/validate?format=json|pdf|csv|text
func (h *Handlers) HandleValidate(w http.ResponseWriter, r *http.Request) {
	format, err := reports.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_format", "format must be one of json, pdf, csv, text")
		return
	}

	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	result, err := h.service.Validate(r.Context(), userID, up)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if format == reports.FormatJSON {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
		return
	}

	body, err := reports.Render(format, reports.Report{
		FileName:    up.FileName,
		UserID:      userID,
		GeneratedAt: h.now(),
		Result:      result,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "report_failed", "Failed to render report")
		return
	}

	name := strings.TrimSuffix(filepath.Base(up.FileName), filepath.Ext(up.FileName))
	w.Header().Set("Content-Type", reports.ContentType(format))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+"_report."+reports.Extension(format)))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Write(body)
}

// HandleImport handles POST /v1/diets/import (multipart upload)
func (h *Handlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	up, ok := h.readUpload(w, r)
	if !ok {
		return
	}
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Import(r.Context(), userID, up)
	if err != nil {
		if errors.Is(err, ErrInvalidDiet) && resp != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(resp)
			return
		}
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// HandleList handles GET /v1/diets?user_id=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	dtos, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DietsResponse{Diets: dtos})
}

// HandleGet handles GET /v1/diets/{id}
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := dietID(w, r)
	if !ok {
		return
	}
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	dto, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleDelete handles DELETE /v1/diets/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := dietID(w, r)
	if !ok {
		return
	}
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleShoppingList handles GET /v1/diets/{id}/shopping-list
func (h *Handlers) HandleShoppingList(w http.ResponseWriter, r *http.Request) {
	id, ok := dietID(w, r)
	if !ok {
		return
	}
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	dto, err := h.service.GetShoppingList(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dto)
}

// HandleListShoppingLists handles GET /v1/shopping-lists?user_id=
func (h *Handlers) HandleListShoppingLists(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	dtos, err := h.service.ListShoppingLists(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ShoppingListsResponse{ShoppingLists: dtos})
}

// HandleFile handles GET /v1/diets/{id}/file
func (h *Handlers) HandleFile(w http.ResponseWriter, r *http.Request) {
	id, ok := dietID(w, r)
	if !ok {
		return
	}
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	file, err := h.service.File(r.Context(), userID, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	// S3 mode: redirect to presigned or public URL
	if file.RedirectURL != "" {
		http.Redirect(w, r, file.RedirectURL, http.StatusFound)
		return
	}

	name := file.FileName
	if name == "" {
		name = fmt.Sprintf("diet_%s.xlsx", id.String()[:8])
	}
	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(name)))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.Write(file.Data)
}

// readUpload parses the multipart form and reads the "file" part.
func (h *Handlers) readUpload(w http.ResponseWriter, r *http.Request) (Upload, bool) {
	if limit := h.service.opts.MaxUploadBytes; limit > 0 {
		// room for the multipart envelope and form fields
		r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeServiceError(w, ErrFileTooLarge)
			return Upload{}, false
		}
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to parse multipart form")
		return Upload{}, false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing_file", "File is required")
		return Upload{}, false
	}
	defer file.Close()

	if err := h.service.CheckUpload(header.Filename, header.Size); err != nil {
		h.writeServiceError(w, err)
		return Upload{}, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Failed to read file")
		return Upload{}, false
	}

	return Upload{FileName: header.Filename, Data: data}, true
}

func (h *Handlers) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidUpload):
		writeError(w, http.StatusBadRequest, "invalid_upload", "A file name is required")
	case errors.Is(err, ErrFileTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Sprintf("File exceeds maximum size of %d MB", h.service.opts.MaxUploadBytes>>20))
	case errors.Is(err, ErrUnsupportedExtension):
		writeError(w, http.StatusBadRequest, "unsupported_extension",
			fmt.Sprintf("Only %s files are accepted", strings.Join(h.service.opts.AllowedExtensions, ", ")))
	case errors.Is(err, ErrDietNotFound):
		writeError(w, http.StatusNotFound, "diet_not_found", "Diet not found")
	case errors.Is(err, ErrShoppingListNotFound):
		writeError(w, http.StatusNotFound, "shopping_list_not_found", "Shopping list not found")
	case errors.Is(err, ErrFileNotFound):
		writeError(w, http.StatusNotFound, "file_not_found", "Diet file not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

// resolveUser returns the user the request acts for: the user_id override
// (a dietitian working on a client's plan) or the caller.
func (h *Handlers) resolveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := auth.UserIDOrDefault(r.Context())
	target := strings.TrimSpace(r.FormValue("user_id"))
	if target == "" || target == caller {
		return caller, true
	}
	if h.access != nil && !h.access.CanActFor(r.Context(), caller, target) {
		writeError(w, http.StatusNotFound, "user_not_found", "User not found")
		return "", false
	}
	return target, true
}

func dietID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid diet ID")
		return uuid.Nil, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
