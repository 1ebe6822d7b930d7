package tablestore

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dekarrin/rezi"
	"github.com/npillmayer/lalr/lr/table"
	"modernc.org/sqlite"
)

// Errors returned by a store.
var (
	ErrNotFound = errors.New("tables not found")
	ErrDB       = errors.New("table store database error")
)

// Entry describes tables held in a store.
type Entry struct {
	Fingerprint string
	Name        string
	States      int
	Rules       int
	Created     time.Time
}

func (e Entry) String() string {
	return fmt.Sprintf("%s %s (%d states, %d rules)", e.Fingerprint, e.Name, e.States, e.Rules)
}

// Store is a table store backed by an SQLite database file.
type Store struct {
	file string
	db   *sql.DB
}

// Open opens the store in file, creating it if it does not exist.
func Open(file string) (*Store, error) {
	st := &Store{file: file}
	var err error
	st.db, err = sql.Open("sqlite", file)
	if err != nil {
		return nil, wrapDBError(err)
	}
	if err = st.init(); err != nil {
		st.db.Close()
		return nil, err
	}
	tracer().Debugf("opened table store %s", file)
	return st, nil
}

func (st *Store) init() error {
	stmt := `CREATE TABLE IF NOT EXISTS tables (
		fingerprint TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		states INTEGER NOT NULL,
		rules INTEGER NOT NULL,
		data TEXT NOT NULL,
		created INTEGER NOT NULL
	);`
	if _, err := st.db.Exec(stmt); err != nil {
		return wrapDBError(err)
	}
	return nil
}

// Put stores tables and returns their fingerprint. Storing tables which are
// already present replaces the entry.
func (st *Store) Put(ctx context.Context, t *table.Tables) (string, error) {
	if t == nil {
		return "", errors.New("cannot store nil tables")
	}
	fp, err := t.Fingerprint()
	if err != nil {
		return "", fmt.Errorf("could not compute fingerprint: %w", err)
	}
	data := base64.StdEncoding.EncodeToString(rezi.EncBinary(t))
	stmt, err := st.db.PrepareContext(ctx, `INSERT OR REPLACE INTO tables
		(fingerprint, name, states, rules, data, created) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", wrapDBError(err)
	}
	defer stmt.Close()
	_, err = stmt.ExecContext(ctx, fp, t.Name, len(t.States), len(t.Rules), data, time.Now().Unix())
	if err != nil {
		return "", wrapDBError(err)
	}
	tracer().Infof("stored tables %s as %s", t.Name, fp)
	return fp, nil
}

// Get loads the tables with fingerprint fp. It returns ErrNotFound if the store
// does not hold them. Tables are validated after loading.
func (st *Store) Get(ctx context.Context, fp string) (*table.Tables, error) {
	row := st.db.QueryRowContext(ctx, `SELECT data FROM tables WHERE fingerprint = ?;`, fp)
	var data string
	if err := row.Scan(&data); err != nil {
		return nil, wrapDBError(err)
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("stored tables %s are corrupt: %w", fp, err)
	}
	t := &table.Tables{}
	if _, err = rezi.DecBinary(raw, t); err != nil {
		return nil, fmt.Errorf("stored tables %s are corrupt: %w", fp, err)
	}
	if err = t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// List returns all entries of the store, ordered by name.
func (st *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := st.db.QueryContext(ctx,
		`SELECT fingerprint, name, states, rules, created FROM tables ORDER BY name, created;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()
	var all []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err = rows.Scan(&e.Fingerprint, &e.Name, &e.States, &e.Rules, &created); err != nil {
			return nil, wrapDBError(err)
		}
		e.Created = time.Unix(created, 0)
		all = append(all, e)
	}
	if err = rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

// Delete removes the tables with fingerprint fp. It returns ErrNotFound if the
// store does not hold them.
func (st *Store) Delete(ctx context.Context, fp string) error {
	res, err := st.db.ExecContext(ctx, `DELETE FROM tables WHERE fingerprint = ?;`, fp)
	if err != nil {
		return wrapDBError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapDBError(err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Close closes the store.
func (st *Store) Close() error {
	if err := st.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", st.file, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		return fmt.Errorf("%w: %s", ErrDB, sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
