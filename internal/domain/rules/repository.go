package rules

import "context"

type Repository interface {
	Load(ctx context.Context) (Table, error)
}
