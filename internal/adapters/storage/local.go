package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"eac-registry/internal/pkg/jwt"
)

// LocalStore keeps objects under a root directory. Signed URLs carry a JWT
// naming the key, the operation and the expiry.
type LocalStore struct {
	root    string
	baseURL string
	secret  string
	ttl     time.Duration
}

// NewLocalStore creates the root directory if needed
func NewLocalStore(root, baseURL, secret string, ttl time.Duration) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	log.Printf("✅ Local object storage ready at %s", root)
	return &LocalStore{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		ttl:     ttl,
	}, nil
}

// Put writes content atomically under key
func (s *LocalStore) Put(ctx context.Context, key, contentType string, content []byte) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Get reads the object stored under key
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	return data, err
}

// Delete removes an object; deleting a missing object is not an error
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// PresignGet returns a download link valid for the configured TTL
func (s *LocalStore) PresignGet(key, filename string) (*PresignedURL, error) {
	if _, err := s.path(key); err != nil {
		return nil, err
	}
	token, expiresAt, err := jwt.GenerateFileToken(key, OpGet, filename, s.secret, s.ttl)
	if err != nil {
		return nil, err
	}
	return &PresignedURL{
		URL:       fmt.Sprintf("%s/api/v1/files/%s", s.baseURL, url.PathEscape(token)),
		ExpiresAt: expiresAt,
	}, nil
}

// Resolve validates a download token and returns the key it grants
func (s *LocalStore) Resolve(token string) (string, string, error) {
	claims, err := jwt.ValidateFileToken(token, s.secret)
	if err != nil || claims.Operation != OpGet {
		return "", "", ErrInvalidToken
	}
	if _, err := s.path(claims.Key); err != nil {
		return "", "", ErrInvalidToken
	}
	return claims.Key, claims.Filename, nil
}

// path maps key into root, refusing anything that escapes it
func (s *LocalStore) path(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
