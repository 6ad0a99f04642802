package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
)

// EntryModel is one row of the session_entries table.
type EntryModel struct {
	bun.BaseModel `bun:"table:session_entries"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// Bun keeps the token in a SQL table through bun.
type Bun struct {
	db  bun.IDB
	key string
	now func() time.Time
}

// NewBun returns a Bun store. Call CreateTable once before use on a fresh
// database.
func NewBun(db bun.IDB, opts ...Option) *Bun {
	o := buildOptions(opts)
	return &Bun{db: db, key: o.key, now: time.Now}
}

// CreateTable creates session_entries if it does not exist.
func (b *Bun) CreateTable(ctx context.Context) error {
	_, err := b.db.NewCreateTable().
		Model((*EntryModel)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

func (b *Bun) Save(ctx context.Context, token string) error {
	model := &EntryModel{
		Key:       b.key,
		Value:     token,
		UpdatedAt: b.now().UTC(),
	}
	_, err := b.db.NewInsert().
		Model(model).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (b *Bun) Load(ctx context.Context) (string, bool, error) {
	var model EntryModel
	err := b.db.NewSelect().
		Model(&model).
		Where("? = ?", bun.Ident("key"), b.key).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return model.Value, true, nil
}

func (b *Bun) Clear(ctx context.Context) error {
	_, err := b.db.NewDelete().
		Model((*EntryModel)(nil)).
		Where("? = ?", bun.Ident("key"), b.key).
		Exec(ctx)
	return err
}
