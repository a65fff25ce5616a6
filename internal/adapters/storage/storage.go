// Package storage keeps uploaded document blobs and issues signed links to them.
package storage

import (
	"context"
	"errors"
	"time"
)

// Operations a signed URL may authorize
const (
	OpGet = "get"
	OpPut = "put"
)

var (
	ErrNotFound     = errors.New("object not found")
	ErrInvalidKey   = errors.New("invalid object key")
	ErrInvalidToken = errors.New("invalid or expired file token")
)

// PresignedURL is a time-limited link to one object
type PresignedURL struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Object is a stored blob with its metadata
type Object struct {
	Key         string
	ContentType string
	Filename    string
	Content     []byte
}

// Store is the object storage used for application documents
type Store interface {
	Put(ctx context.Context, key, contentType string, content []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	PresignGet(key, filename string) (*PresignedURL, error)
	Resolve(token string) (key, filename string, err error)
}
