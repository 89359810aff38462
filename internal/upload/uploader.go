package upload

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ZerkerEOD/paytypes-backend/internal/config"
	"github.com/ZerkerEOD/paytypes-backend/pkg/debug"
	"github.com/ZerkerEOD/paytypes-backend/pkg/fsutil"
	"github.com/google/uuid"
)

// Memory kept for multipart parsing before spilling to temporary files
const maxMemory = 8 << 20

// StoredFile describes an accepted upload
type StoredFile struct {
	Category     config.Category `json:"category"`
	OriginalName string          `json:"originalName"`
	FileName     string          `json:"fileName"`
	// Path is relative to the upload root and always uses forward slashes
	Path        string `json:"path"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

// Uploader stores single-file uploads under a root directory, one subdirectory per category
type Uploader struct {
	root     string
	policy   config.UploadPolicy
	maxBytes int64
}

// New creates an uploader. maxBytes <= 0 disables the size check.
func New(root string, policy config.UploadPolicy, maxBytes int64) *Uploader {
	return &Uploader{
		root:     root,
		policy:   policy,
		maxBytes: maxBytes,
	}
}

// Single accepts one file per request for a fixed category
type Single struct {
	uploader *Uploader
	category config.Category
}

// For returns a single-file acceptor bound to the rules of category
func (u *Uploader) For(category config.Category) *Single {
	return &Single{uploader: u, category: category}
}

// Root returns the upload root directory
func (u *Uploader) Root() string {
	return u.root
}

// AbsPath returns the on-disk location of a stored file
func (u *Uploader) AbsPath(f *StoredFile) string {
	return filepath.Join(u.root, filepath.FromSlash(f.Path))
}

// Remove deletes a stored file. Missing files are ignored.
func (u *Uploader) Remove(f *StoredFile) error {
	if f == nil {
		return nil
	}
	return fsutil.RemoveIfExists(u.AbsPath(f))
}

// Accept reads the file in field from a multipart request, checks it against the
// category policy and writes it to disk. Other form values stay available through
// r.FormValue once Accept returns.
func (s *Single) Accept(r *http.Request, field string) (*StoredFile, error) {
	u := s.uploader

	if u.maxBytes > 0 {
		r.Body = http.MaxBytesReader(nil, r.Body, u.maxBytes)
	}

	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, tooLarge.Limit)
		}
		// Some multipart paths flatten the reader error into text
		if strings.Contains(err.Error(), "request body too large") {
			return nil, fmt.Errorf("%w: limit is %d bytes", ErrFileTooLarge, u.maxBytes)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, fmt.Errorf("%w: field %q", ErrMissingFile, field)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidForm, err)
	}
	defer file.Close()

	debug.Debug("Received %s upload %s (%d bytes) in field %s", s.category, header.Filename, header.Size, field)

	if u.maxBytes > 0 && header.Size > u.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, header.Size, u.maxBytes)
	}

	ext := filepath.Ext(header.Filename)
	if !u.policy.Permits(s.category, ext) {
		return nil, fmt.Errorf("%w: %q for %s uploads", ErrFileTypeNotAllowed, ext, s.category)
	}

	// Sniff the content type from the first bytes, then rewind
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	contentType := http.DetectContentType(head[:n])
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	ext = strings.ToLower(ext)
	base := fsutil.SanitizeFilename(fsutil.ExtractBaseNameWithoutExt(header.Filename))
	fileName := fmt.Sprintf("%s-%s%s", base, uuid.New().String()[:8], ext)

	dir := filepath.Join(u.root, string(s.category))
	if err := fsutil.EnsureDirectoryExists(dir); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	size, err := writeFile(dir, fileName, file)
	if err != nil {
		return nil, err
	}

	stored := &StoredFile{
		Category:     s.category,
		OriginalName: header.Filename,
		FileName:     fileName,
		Path:         path.Join(string(s.category), fileName),
		Size:         size,
		ContentType:  contentType,
	}
	debug.Info("Stored %s upload %s as %s", s.category, header.Filename, stored.Path)
	return stored, nil
}

// writeFile copies src into dir/name through a temporary file so a partial
// write never leaves a file under the final name
func writeFile(dir, name string, src io.Reader) (int64, error) {
	tempFile, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempName := tempFile.Name()

	size, err := io.Copy(tempFile, src)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempName)
		return 0, fmt.Errorf("failed to save upload: %w", err)
	}

	if err := os.Rename(tempName, filepath.Join(dir, name)); err != nil {
		os.Remove(tempName)
		return 0, fmt.Errorf("failed to move upload into place: %w", err)
	}
	return size, nil
}
