package firebase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// StoredObject is what the bucket hands back after an upload. Ref is the object
// name and is the only thing needed to delete it again.
type StoredObject struct {
	URL string
	Ref string
}

// Bucket stores uploaded files under logical folders
type Bucket struct {
	handle *storage.BucketHandle
	name   string
}

func NewBucket(handle *storage.BucketHandle, name string) *Bucket {
	return &Bucket{handle: handle, name: name}
}

// ObjectName builds "<folder>/<uuid><ext>" for an uploaded file name
func ObjectName(folder, filename string) string {
	folder = strings.Trim(folder, "/")
	ext := strings.ToLower(path.Ext(filename))
	name := uuid.NewString() + ext
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// PublicURL is the download URL for an object in bucket
func PublicURL(bucket, ref string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, ref)
}

// Upload streams r into folder and returns the object's URL and ref
func (b *Bucket) Upload(ctx context.Context, r io.Reader, filename, contentType, folder string) (*StoredObject, error) {
	ref := ObjectName(folder, filename)

	w := b.handle.Object(ref).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("upload %s: %w", ref, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("upload %s: %w", ref, err)
	}

	return &StoredObject{URL: PublicURL(b.name, ref), Ref: ref}, nil
}

// Delete removes a previously uploaded object. Deleting an object that is already gone is not an error.
func (b *Bucket) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	err := b.handle.Object(ref).Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil
	}
	return err
}
