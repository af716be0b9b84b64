package diets

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fdg312/diet-hub/internal/blob"
	"github.com/fdg312/diet-hub/internal/dietimport"
	"github.com/fdg312/diet-hub/internal/storage"
	"github.com/google/uuid"
)

var (
	ErrInvalidUpload        = errors.New("invalid upload")
	ErrFileTooLarge         = errors.New("file too large")
	ErrUnsupportedExtension = errors.New("unsupported file extension")
	ErrInvalidDiet          = errors.New("diet file failed validation")
	ErrDietNotFound         = errors.New("diet not found")
	ErrShoppingListNotFound = errors.New("shopping list not found")
	ErrFileNotFound         = errors.New("diet file not found")
)

const defaultPresignTTLSeconds = 900

type Logger interface {
	Printf(format string, v ...any)
}

// Options holds upload limits and object storage settings.
type Options struct {
	MaxUploadBytes    int64
	AllowedExtensions []string
	ObjectPrefix      string
	PublicBaseURL     string
	PreferPublicURL   bool
	PresignTTLSeconds int
}

// Service handles diet import and retrieval
type Service struct {
	validator *dietimport.Service
	storage   storage.Storage
	blobStore blob.Store // nil: files are kept in storage (local mode)
	opts      Options
	logger    Logger
}

// NewService creates a new diets service
func NewService(validator *dietimport.Service, st storage.Storage, blobStore blob.Store, opts Options, logger Logger) *Service {
	if opts.PresignTTLSeconds <= 0 {
		opts.PresignTTLSeconds = defaultPresignTTLSeconds
	}
	for i, ext := range opts.AllowedExtensions {
		opts.AllowedExtensions[i] = strings.ToLower(strings.TrimSpace(ext))
	}
	return &Service{
		validator: validator,
		storage:   st,
		blobStore: blobStore,
		opts:      opts,
		logger:    logger,
	}
}

// CheckUpload rejects files by name and size before they are read.
func (s *Service) CheckUpload(fileName string, size int64) error {
	if strings.TrimSpace(fileName) == "" {
		return ErrInvalidUpload
	}
	if s.opts.MaxUploadBytes > 0 && size > s.opts.MaxUploadBytes {
		return ErrFileTooLarge
	}
	if len(s.opts.AllowedExtensions) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range s.opts.AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return ErrUnsupportedExtension
}

// Validate runs the pipeline without persisting anything.
func (s *Service) Validate(ctx context.Context, userID string, up Upload) (dietimport.ValidationResult, error) {
	if err := s.CheckUpload(up.FileName, int64(len(up.Data))); err != nil {
		return dietimport.ValidationResult{}, err
	}
	return s.validator.Validate(ctx, up.Data, userID), nil
}

// Import validates the upload and, when it is valid, stores the file, the
// diet and its shopping list. An invalid file returns the report together
// with ErrInvalidDiet.
func (s *Service) Import(ctx context.Context, userID string, up Upload) (*ImportResponse, error) {
	if err := s.CheckUpload(up.FileName, int64(len(up.Data))); err != nil {
		return nil, err
	}

	result := s.validator.Validate(ctx, up.Data, userID)
	if !result.IsValid {
		s.logf("INFO diets: import rejected user=%s file=%q errors=%d", userID, up.FileName, len(result.Errors))
		return &ImportResponse{Validation: result}, ErrInvalidDiet
	}

	diet := &storage.Diet{
		ID:     uuid.New(),
		UserID: userID,
		Days:   toDietDays(result.Data),
		Metadata: storage.DietMetadata{
			TotalDays: len(result.Data),
			FileName:  filepath.Base(up.FileName),
		},
	}

	var list *storage.ShoppingList
	if len(result.ShoppingList) > 0 {
		dates := result.Dates()
		list = &storage.ShoppingList{
			ID:     uuid.New(),
			UserID: userID,
			Items:  result.ShoppingList,
		}
		if len(dates) > 0 {
			list.StartDate = dates[0]
			list.EndDate = dates[len(dates)-1]
		}
	}

	if s.blobStore != nil {
		key := blob.DietFileKey(s.opts.ObjectPrefix, userID, diet.ID, up.FileName)
		if _, err := s.blobStore.PutObject(ctx, key, up.Data, blob.XLSXContentType); err != nil {
			return nil, fmt.Errorf("failed to upload diet file: %w", err)
		}
		diet.Metadata.ObjectKey = key
		if s.opts.PreferPublicURL {
			diet.Metadata.FileURL = blob.PublicURL(s.opts.PublicBaseURL, key)
		}

		if err := s.storage.CreateDiet(ctx, diet, list); err != nil {
			// Rollback: delete from S3
			_ = s.blobStore.DeleteObject(ctx, key)
			return nil, fmt.Errorf("failed to save diet: %w", err)
		}
	} else {
		if err := s.storage.CreateDiet(ctx, diet, list); err != nil {
			return nil, fmt.Errorf("failed to save diet: %w", err)
		}
		file := &storage.DietFile{
			DietID:      diet.ID,
			FileName:    diet.Metadata.FileName,
			ContentType: blob.XLSXContentType,
			Data:        up.Data,
		}
		if err := s.storage.PutDietFile(ctx, file); err != nil {
			_ = s.storage.DeleteDiet(ctx, diet.ID)
			return nil, fmt.Errorf("failed to store diet file: %w", err)
		}
	}

	s.logf("INFO diets: imported diet=%s user=%s days=%d shopping_items=%d warnings=%d",
		diet.ID, userID, len(diet.Days), len(result.ShoppingList), len(result.Warnings))

	resp := &ImportResponse{Diet: toDietDTO(diet), Validation: result}
	if list != nil {
		resp.ShoppingList = toShoppingListDTO(list)
	}
	// the stored diet already carries the parsed days
	resp.Validation.Data = nil
	return resp, nil
}

// List returns the diets of a user, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]DietSummaryDTO, error) {
	diets, err := s.storage.ListDiets(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]DietSummaryDTO, len(diets))
	for i, d := range diets {
		dtos[i] = toSummaryDTO(d)
	}
	return dtos, nil
}

// Get returns a diet owned by userID.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (*DietDTO, error) {
	diet, err := s.ownedDiet(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return toDietDTO(diet), nil
}

// Delete removes the diet, its shopping lists and the stored file.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	diet, err := s.ownedDiet(ctx, userID, id)
	if err != nil {
		return err
	}

	if s.blobStore != nil && diet.Metadata.ObjectKey != "" {
		if err := s.blobStore.DeleteObject(ctx, diet.Metadata.ObjectKey); err != nil {
			s.logf("WARN diets: object delete failed key=%s err=%v", diet.Metadata.ObjectKey, err)
		}
	}

	if err := s.storage.DeleteDiet(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrDietNotFound
		}
		return err
	}
	return nil
}

// GetShoppingList returns the shopping list generated for a diet.
func (s *Service) GetShoppingList(ctx context.Context, userID string, dietID uuid.UUID) (*ShoppingListDTO, error) {
	if _, err := s.ownedDiet(ctx, userID, dietID); err != nil {
		return nil, err
	}
	list, err := s.storage.GetShoppingListByDiet(ctx, dietID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrShoppingListNotFound
		}
		return nil, err
	}
	return toShoppingListDTO(list), nil
}

// ListShoppingLists returns all shopping lists of a user.
func (s *Service) ListShoppingLists(ctx context.Context, userID string) ([]ShoppingListDTO, error) {
	lists, err := s.storage.ListShoppingLists(ctx, userID)
	if err != nil {
		return nil, err
	}
	dtos := make([]ShoppingListDTO, len(lists))
	for i := range lists {
		dtos[i] = *toShoppingListDTO(&lists[i])
	}
	return dtos, nil
}

// File resolves the original spreadsheet of a diet. In S3 mode it returns a
// public or presigned URL, otherwise the stored bytes.
func (s *Service) File(ctx context.Context, userID string, id uuid.UUID) (*FileDownload, error) {
	diet, err := s.ownedDiet(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if key := diet.Metadata.ObjectKey; key != "" {
		if s.blobStore == nil {
			return nil, ErrFileNotFound
		}
		if s.opts.PreferPublicURL && s.opts.PublicBaseURL != "" {
			return &FileDownload{RedirectURL: blob.PublicURL(s.opts.PublicBaseURL, key)}, nil
		}
		url, err := s.blobStore.PresignGet(ctx, key, s.opts.PresignTTLSeconds)
		if err != nil {
			if errors.Is(err, blob.ErrObjectNotFound) {
				return nil, ErrFileNotFound
			}
			return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
		}
		return &FileDownload{RedirectURL: url}, nil
	}

	file, err := s.storage.GetDietFile(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &FileDownload{
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Data:        file.Data,
	}, nil
}

// ownedDiet hides diets of other users behind ErrDietNotFound.
func (s *Service) ownedDiet(ctx context.Context, userID string, id uuid.UUID) (*storage.Diet, error) {
	diet, err := s.storage.GetDiet(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrDietNotFound
		}
		return nil, err
	}
	if diet.UserID != userID {
		return nil, ErrDietNotFound
	}
	return diet, nil
}

func (s *Service) logf(format string, v ...any) {
	if s.logger != nil {
		s.logger.Printf(format, v...)
	}
}
