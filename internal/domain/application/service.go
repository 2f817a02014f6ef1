package application

import (
	"context"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"careers/internal/domain/storage"
)

const (
	// MaxFileSize is the per-document limit; a file of exactly this size
	// is still accepted.
	MaxFileSize = 5 * 1024 * 1024

	// MaxAdditionalDocs caps the additional_docs slot.
	MaxAdditionalDocs = 3
)

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".doc":  true,
	".docx": true,
	".txt":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// allowedMimeTypes is checked against the declared part type. Browsers
// send application/octet-stream for types they do not recognize, so that
// and a missing type fall back to the extension check alone.
var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"text/plain": true,
	"image/jpeg": true,
	"image/png":  true,
}

// SubmittedFiles groups the multipart file slots of the form.
type SubmittedFiles struct {
	Resume         *multipart.FileHeader
	CoverLetter    *multipart.FileHeader
	AdditionalDocs []*multipart.FileHeader
}

// Service implements the submission and lifecycle transactions.
type Service struct {
	repo  Repository
	store *storage.Store
}

func NewService(repo Repository, store *storage.Store) *Service {
	return &Service{repo: repo, store: store}
}

// Submit validates the form, persists the documents to disk and then
// records the application and its file rows in one database transaction.
// Validation failures have no side effects. A database failure after the
// disk writes leaves the files orphaned; the cleanup sweep reclaims them.
func (s *Service) Submit(ctx context.Context, req *SubmitRequest, files SubmittedFiles) (*Application, error) {
	if err := validateFiles(files); err != nil {
		return nil, err
	}

	now := time.Now()
	var stored []ApplicationFile
	resumePath := ""

	save := func(field string, fh *multipart.FileHeader, category Category) error {
		sf, err := s.store.Save(field, fh)
		if err != nil {
			return err
		}
		stored = append(stored, ApplicationFile{
			FileName:   fh.Filename,
			FilePath:   sf.Path,
			FileType:   declaredMime(fh),
			FileSize:   fh.Size,
			Category:   category,
			UploadedAt: now,
		})
		if category == CategoryResume {
			resumePath = sf.Path
		}
		return nil
	}

	if err := save("resume", files.Resume, CategoryResume); err != nil {
		return nil, err
	}
	if files.CoverLetter != nil {
		if err := save("cover_letter_file", files.CoverLetter, CategoryCoverLetter); err != nil {
			return nil, err
		}
	}
	for _, fh := range files.AdditionalDocs {
		if err := save("additional_docs", fh, CategoryAdditional); err != nil {
			return nil, err
		}
	}

	app := &Application{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Position:    req.Position,
		CoverLetter: req.CoverLetter,
		Resume:      resumePath,
		Status:      StatusPending,
		CreatedAt:   now,
	}

	if err := s.repo.CreateWithFiles(ctx, app, stored); err != nil {
		return nil, err
	}
	return app, nil
}

// List returns applications newest first, each with its files.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Application, int64, error) {
	return s.repo.List(ctx, filter)
}

func (s *Service) GetByID(ctx context.Context, id int64) (*Application, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateStatus sets the review state. Setting the current value again is
// a no-op that still succeeds.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) (*Application, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}

// Delete removes the application and its file rows transactionally, then
// unlinks the stored documents best-effort after the commit. The database
// is the source of truth; a failed unlink never reverses the delete.
func (s *Service) Delete(ctx context.Context, id int64) error {
	paths, err := s.repo.DeleteWithFiles(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range paths {
		s.store.Remove(p)
	}
	return nil
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{
		Pending:  counts[StatusPending],
		Reviewed: counts[StatusReviewed],
	}
	st.Total = st.Pending + st.Reviewed
	return st, nil
}

// validateFiles runs every file gate before anything touches disk.
func validateFiles(files SubmittedFiles) error {
	if files.Resume == nil {
		return ErrResumeRequired
	}
	if len(files.AdditionalDocs) > MaxAdditionalDocs {
		return ErrTooManyAdditional
	}

	all := []*multipart.FileHeader{files.Resume}
	if files.CoverLetter != nil {
		all = append(all, files.CoverLetter)
	}
	all = append(all, files.AdditionalDocs...)

	for _, fh := range all {
		if fh.Size > MaxFileSize {
			return ErrFileTooLarge
		}
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedExtensions[ext] {
			return ErrFileTypeNotAllowed
		}
		if mt := declaredMime(fh); mt != "" && mt != "application/octet-stream" && !allowedMimeTypes[mt] {
			return ErrFileTypeNotAllowed
		}
	}
	return nil
}

func declaredMime(fh *multipart.FileHeader) string {
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		return ""
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ""
	}
	return mt
}
