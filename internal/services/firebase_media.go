package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// FirebaseMediaStore uploads images to a Firebase Storage bucket and returns
// tokened download URLs, the same form the Firebase SDKs hand out.
type FirebaseMediaStore struct {
	gcs    *storage.Client
	bucket string
}

// NewFirebaseMediaStore creates the storage client once at server startup.
func NewFirebaseMediaStore(ctx context.Context, bucket string) (*FirebaseMediaStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("media: storage client: %w", err)
	}
	return &FirebaseMediaStore{
		gcs:    client,
		bucket: bucket,
	}, nil
}

func (s *FirebaseMediaStore) Upload(ctx context.Context, folder, filename string, file io.Reader) (string, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".jpg"
	}

	objectName := folder + "/" + uuid.New().String() + ext
	token := uuid.New().String()

	w := s.gcs.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	w.Metadata = map[string]string{
		"firebaseStorageDownloadTokens": token,
	}
	if _, err := io.Copy(w, file); err != nil {
		w.Close()
		return "", fmt.Errorf("media: write object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media: finalize object: %w", err)
	}

	return firebaseDownloadURL(s.bucket, objectName, token), nil
}

func firebaseDownloadURL(bucket, objectName, token string) string {
	return fmt.Sprintf(
		"https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket,
		url.PathEscape(objectName),
		url.QueryEscape(token),
	)
}
