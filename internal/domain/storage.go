package domain

import "context"

// Object store path conventions for certificate assets.
const (
	TemplateDir  = "certificates"
	GeneratedDir = "certificates/generated"
)

// ObjectStore persists binary assets under slash-separated keys (e.g.
// "certificates/generated/certificate_CERT-xyz.pdf") and resolves them
// to publicly downloadable URLs.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	URL(key string) string
}
