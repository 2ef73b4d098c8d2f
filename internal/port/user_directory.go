package port

import "context"

type UserDirectory interface {
	// FindByEmail returns the account id registered under email, or "" when
	// no account matches. Read-only; this core never writes the directory.
	FindByEmail(ctx context.Context, email string) (string, error)
}
