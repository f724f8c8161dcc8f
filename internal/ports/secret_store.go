package ports

import "context"

// SecretStore holds credentials that must not land in the profile file,
// typically under keys in "dtm/<profile>/password" form.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
