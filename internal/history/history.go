// Package history keeps a sqlite log of every accepted feed write,
// one row per update, for debugging why (and when) feeds changed.
package history

import (
	"context"
	"database/sql"
	"time"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

type Update struct {
	RunId       string
	Account     string
	Time        time.Time
	Reason      string
	Fingerprint string
	ItemCount   int
	Mirror      string
}

func (s Store) Record(ctx context.Context, u Update) error {
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO feed_updates (run_id, account, time, reason, fingerprint, item_count, mirror)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.RunId,
		u.Account,
		u.Time.Unix(),
		u.Reason,
		u.Fingerprint,
		u.ItemCount,
		u.Mirror,
	)
	return err
}

// ForAccount returns the account's updates, most recent first.
func (s Store) ForAccount(ctx context.Context, account string) ([]Update, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, account, time, reason, fingerprint, item_count, mirror
		FROM feed_updates WHERE account = ? ORDER BY time DESC`,
		account,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Update
	for rows.Next() {
		var u Update
		var unix int64
		err := rows.Scan(&u.RunId, &u.Account, &unix, &u.Reason, &u.Fingerprint, &u.ItemCount, &u.Mirror)
		if err != nil {
			return nil, err
		}
		u.Time = time.Unix(unix, 0)
		out = append(out, u)
	}

	return out, rows.Err()
}
