package utility

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Upload kinds and the directory each is kept under.
const (
	KindFormula     = "formula"
	KindQuestion    = "question"
	KindExplanation = "explanation"
)

var kindDirs = map[string]string{
	KindFormula:     "formulas",
	KindQuestion:    "questions",
	KindExplanation: "explanations",
}

// ObjectKey names a new object for kind, keeping the extension of filename.
func ObjectKey(kind, filename string) (string, error) {
	dir, ok := kindDirs[kind]
	if !ok {
		return "", fmt.Errorf("unknown upload kind %q: %w", kind, ErrValidation)
	}
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("assets/%s/%s%s", dir, uuid.NewString(), ext), nil
}

// allowedType checks a sniffed content type against the kind: formula sheets
// are PDFs, everything else is an image.
func allowedType(kind, contentType string) bool {
	if kind == KindFormula {
		return contentType == "application/pdf"
	}
	return strings.HasPrefix(contentType, "image/")
}

// SaveUpload sniffs the file's content type, checks it fits kind and stores it.
func SaveUpload(ctx context.Context, store FileStore, fileHeader *multipart.FileHeader, kind string) (string, error) {
	key, err := ObjectKey(kind, fileHeader.Filename)
	if err != nil {
		return "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])
	if !allowedType(kind, contentType) {
		return "", fmt.Errorf("%s uploads cannot be %s: %w", kind, contentType, ErrValidation)
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return store.Put(ctx, key, contentType, file)
}

// DeleteUploads removes the objects behind urls. Empty URLs and URLs the store
// did not hand out are skipped.
func DeleteUploads(ctx context.Context, store FileStore, urls ...string) error {
	var errs []error
	for _, u := range urls {
		key, ok := store.KeyOf(u)
		if !ok {
			continue
		}
		if err := store.Delete(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
