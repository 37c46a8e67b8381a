package ledger

import (
	"context"

	"github.com/zaelmari/controle/internal/model"
)

// Store persists the whole ledger table. There is no partial update: every
// mutation rewrites the table. Implementations must make ReplaceAll atomic so
// a failed write leaves the previous table intact.
type Store interface {
	// LoadAll returns every persisted entry in stored order, without blank rows.
	LoadAll(ctx context.Context) ([]model.Entry, error)
	// ReplaceAll overwrites the persisted table with entries.
	ReplaceAll(ctx context.Context, entries []model.Entry) error
}
