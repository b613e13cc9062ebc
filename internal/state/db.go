// Package state is the durable local key-value store behind session
// resumption, backed by a SQLite file.
package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Zuo-Peng/profile-verifier/internal/profile"
	"github.com/Zuo-Peng/profile-verifier/internal/session"
	_ "modernc.org/sqlite"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profiles (
    position            INTEGER NOT NULL,
    id                  INTEGER PRIMARY KEY,
    first_name          TEXT NOT NULL,
    last_name           TEXT NOT NULL,
    organization        TEXT NOT NULL DEFAULT '',
    linkedin_url        TEXT NOT NULL,
    verification_status TEXT NOT NULL DEFAULT 'pending',
    name_match          TEXT NOT NULL DEFAULT '',
    verified_at         TEXT NOT NULL DEFAULT '',
    notes               TEXT
);

CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);
`

// schemaVersion is bumped when the profiles table changes shape; a mismatch
// drops the saved snapshot.
const schemaVersion = "1"

// nextIDKey stores the store's id counter next to the snapshot.
const nextIDKey = "profileNextId"

type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// a single connection keeps PRAGMAs and transactions on one handle
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	d := &DB{db: db}
	if err := d.migrateSchemaVersion(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return d, nil
}

func (d *DB) migrateSchemaVersion() error {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err == nil && ver == schemaVersion {
		return nil
	}
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if _, err := d.db.Exec("DELETE FROM profiles"); err != nil {
		return err
	}
	_, err = d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	return err
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Get returns the value stored under key. ok is false when the key is absent.
func (d *DB) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = d.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

// Put stores value under key, replacing any previous value.
func (d *DB) Put(ctx context.Context, key, value string) error {
	_, err := d.db.ExecContext(ctx, "INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", key, value)
	return err
}

// Delete removes key. Deleting a missing key is not an error.
func (d *DB) Delete(ctx context.Context, key string) error {
	_, err := d.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key)
	return err
}

// ProfileCount returns the number of saved profiles.
func (d *DB) ProfileCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM profiles").Scan(&n)
	return n, err
}

// Save implements session.Persister: metadata, id counter and the profile
// list are replaced in one transaction.
func (d *DB) Save(ctx context.Context, snap session.Snapshot) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if snap.Metadata != nil {
		raw, err := json.Marshal(snap.Metadata)
		if err != nil {
			return fmt.Errorf("encode metadata: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", session.StorageKey, string(raw)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", nextIDKey, fmt.Sprint(snap.NextID)); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO profiles (position, id, first_name, last_name, organization, linkedin_url,
		                       verification_status, name_match, verified_at, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, r := range snap.Profiles {
		verifiedAt := ""
		if r.VerifiedAt != nil {
			verifiedAt = r.VerifiedAt.UTC().Format(time.RFC3339Nano)
		}
		var notes sql.NullString
		if r.Notes != nil {
			notes = sql.NullString{String: *r.Notes, Valid: true}
		}
		status := r.VerificationStatus
		if status == "" {
			status = profile.StatusPending
		}
		if _, err := stmt.ExecContext(ctx,
			i, r.ID, r.FirstName, r.LastName, r.Organization, r.LinkedInURL,
			string(status), string(r.NameMatch), verifiedAt, notes,
		); err != nil {
			return fmt.Errorf("save profile %d: %w", r.ID, err)
		}
	}

	return tx.Commit()
}

// Load implements session.Persister. It returns nil when no session
// metadata has been saved.
func (d *DB) Load(ctx context.Context) (*session.Snapshot, error) {
	raw, ok, err := d.Get(ctx, session.StorageKey)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	var meta session.Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("decode metadata: %w", err)
	}
	snap := &session.Snapshot{Metadata: &meta, NextID: 1}

	if v, ok, err := d.Get(ctx, nextIDKey); err != nil {
		return nil, err
	} else if ok {
		fmt.Sscan(v, &snap.NextID)
	}

	rows, err := d.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, organization, linkedin_url,
		        verification_status, name_match, verified_at, notes
		 FROM profiles ORDER BY position`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			r          profile.Record
			status     string
			nameMatch  string
			verifiedAt string
			notes      sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.FirstName, &r.LastName, &r.Organization, &r.LinkedInURL,
			&status, &nameMatch, &verifiedAt, &notes); err != nil {
			return nil, err
		}
		r.VerificationStatus = profile.Status(status)
		r.NameMatch = profile.NameMatch(nameMatch)
		if verifiedAt != "" {
			if t, err := time.Parse(time.RFC3339Nano, verifiedAt); err == nil {
				r.VerifiedAt = &t
			}
		}
		if notes.Valid {
			n := notes.String
			r.Notes = &n
		}
		snap.Profiles = append(snap.Profiles, r)
	}
	return snap, rows.Err()
}

// Clear implements session.Persister.
func (d *DB) Clear(ctx context.Context) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM kv WHERE key IN (?, ?)", session.StorageKey, nextIDKey); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles"); err != nil {
		return err
	}
	return tx.Commit()
}
