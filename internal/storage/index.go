/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	applog "github.com/natelevy2468/openreactions-sub001/internal/log"
	"github.com/natelevy2468/openreactions-sub001/internal/sketch"
	"github.com/natelevy2468/openreactions-sub001/internal/version"

	// Pure-Go SQLite driver (CGO-free)
	_ "modernc.org/sqlite"
)

const (
	// IndexDirName stores all per-sketch ephemeral/index data under the
	// sketch root.
	IndexDirName  = ".orx"
	IndexFileName = "index.sqlite"

	// schemaVersion tracks the local SQLite schema for the embedded index.
	schemaVersion = 2

	// autosaveKeep bounds how many crash autosaves are retained.
	autosaveKeep = 20
)

// IndexPath returns the full path to the sketch's embedded index database.
func IndexPath(sketchRoot string) string {
	return filepath.Join(sketchRoot, IndexDirName, IndexFileName)
}

// InitOrOpenIndex ensures the per-sketch SQLite index exists at
// .orx/index.sqlite, opens it, enables WAL mode and brings the schema up
// to date. Callers close the returned DB when done.
func InitOrOpenIndex(sketchRoot string) (*sql.DB, error) {
	l := applog.WithOperation(applog.WithComponent("storage"), "index_init").With(
		slog.String("root", sketchRoot),
	)
	if strings.TrimSpace(sketchRoot) == "" {
		return nil, errors.New("sketch root is required")
	}
	if err := os.MkdirAll(filepath.Join(sketchRoot, IndexDirName), 0o755); err != nil {
		l.Error("create .orx dir failed", slog.Any("err", err))
		return nil, fmt.Errorf("create .orx dir: %w", err)
	}

	path := IndexPath(sketchRoot)
	uriPath := filepath.ToSlash(path)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", uriPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		l.Error("sqlite open failed", slog.Any("err", err))
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		l.Error("enable WAL failed", slog.Any("err", err))
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON;"); err != nil {
		l.Warn("enable foreign_keys failed", slog.Any("err", err))
	}

	if err := ensureMetaAndVersion(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure meta/version failed", slog.Any("err", err))
		return nil, err
	}
	if err := ensureIndexSchema(ctx, db); err != nil {
		_ = db.Close()
		l.Error("ensure index schema failed", slog.Any("err", err))
		return nil, err
	}
	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		l.Error("run migrations failed", slog.Any("err", err))
		return nil, err
	}

	l.Info("index ready", slog.String("path", path))
	return db, nil
}

func ensureMetaAndVersion(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS version (
			id          INTEGER PRIMARY KEY CHECK(id=1),
			schema      INTEGER NOT NULL,
			app         TEXT,
			created_at  TEXT NOT NULL,
			updated_at  TEXT NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	appv := version.String()
	var curSchema int
	err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&curSchema)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := db.ExecContext(ctx, `INSERT INTO version (id, schema, app, created_at, updated_at) VALUES(1, ?, ?, ?, ?)`, schemaVersion, appv, now, now); err != nil {
			return fmt.Errorf("insert version: %w", err)
		}
	case err != nil:
		return fmt.Errorf("read version: %w", err)
	default:
		// update app and timestamp only; keep existing schema for migrations
		if _, err := db.ExecContext(ctx, `UPDATE version SET app=?, updated_at=? WHERE id=1`, appv, now); err != nil {
			return fmt.Errorf("update version: %w", err)
		}
	}
	return nil
}

// ensureIndexSchema creates the core index tables if they do not exist.
func ensureIndexSchema(ctx context.Context, db *sql.DB) error {
	ddl := []string{
		// Element histogram of the current document, one row per symbol.
		`CREATE TABLE IF NOT EXISTS elements (
			symbol TEXT PRIMARY KEY,
			count  INTEGER NOT NULL
		);`,

		// Single-row structural statistics of the current document.
		`CREATE TABLE IF NOT EXISTS stats (
			id       INTEGER PRIMARY KEY CHECK(id=1),
			vertices INTEGER NOT NULL,
			bonds    INTEGER NOT NULL,
			arrows   INTEGER NOT NULL,
			updated_at TEXT NOT NULL
		);`,

		// Crash autosaves: full document blobs, newest wins.
		`CREATE TABLE IF NOT EXISTS autosaves (
			id   INTEGER PRIMARY KEY,
			ts   TEXT NOT NULL,
			blob BLOB NOT NULL
		);`,
	}
	for _, q := range ddl {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure index schema: %w", err)
		}
	}
	return nil
}

// runMigrations applies incremental schema migrations up to schemaVersion.
func runMigrations(ctx context.Context, db *sql.DB) error {
	var cur int
	if err := db.QueryRowContext(ctx, `SELECT schema FROM version WHERE id=1`).Scan(&cur); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if cur > schemaVersion {
		// never downgrade
		return nil
	}
	for cur < schemaVersion {
		next := cur + 1
		switch next {
		case 2:
			tx, err := db.BeginTx(ctx, nil)
			if err != nil {
				return fmt.Errorf("begin migration %d: %w", next, err)
			}
			stmts := []string{
				`CREATE INDEX IF NOT EXISTS idx_autosaves_ts ON autosaves(ts);`,
				`CREATE INDEX IF NOT EXISTS idx_elements_count ON elements(count);`,
			}
			for _, q := range stmts {
				if _, err := tx.ExecContext(ctx, q); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migration %d stmt failed: %w", next, err)
				}
			}
			if _, err := tx.ExecContext(ctx, `UPDATE version SET schema=?, updated_at=? WHERE id=1`, next, time.Now().UTC().Format(time.RFC3339)); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d update version: %w", next, err)
			}
			if err := tx.Commit(); err != nil {
				return fmt.Errorf("migration %d commit: %w", next, err)
			}
		default:
			// unknown future step
		}
		cur = next
	}
	return nil
}

// UpdateIndex replaces the derived element histogram and stats from the
// given document. The index is a cache; it can always be rebuilt from
// sketch.json.
func UpdateIndex(ctx context.Context, sketchRoot string, doc sketch.Document) error {
	db, err := InitOrOpenIndex(sketchRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	return rebuildFromDocument(ctx, db, doc)
}

func rebuildFromDocument(ctx context.Context, db *sql.DB, doc sketch.Document) error {
	counts := map[string]int{}
	for _, v := range doc.Vertices {
		if s := strings.TrimSpace(v.Element); s != "" {
			counts[s]++
		}
	}
	bonds := 0
	for _, sg := range doc.Segments {
		if sg.BondOrder > 0 {
			bonds++
		}
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM elements;"); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear elements: %w", err)
	}
	ins, err := tx.PrepareContext(ctx, "INSERT INTO elements(symbol, count) VALUES(?,?);")
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer ins.Close()
	for sym, n := range counts {
		if _, err := ins.ExecContext(ctx, sym, n); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert element: %w", err)
		}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO stats(id, vertices, bonds, arrows, updated_at) VALUES(1,?,?,?,?)
		 ON CONFLICT(id) DO UPDATE SET vertices=excluded.vertices, bonds=excluded.bonds, arrows=excluded.arrows, updated_at=excluded.updated_at`,
		len(doc.Vertices), bonds, len(doc.Arrows), now); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert stats: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ElementCounts reads the element histogram from the index.
func ElementCounts(ctx context.Context, db *sql.DB) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, "SELECT symbol, count FROM elements;")
	if err != nil {
		return nil, fmt.Errorf("query elements: %w", err)
	}
	defer rows.Close()
	out := map[string]int{}
	for rows.Next() {
		var sym string
		var n int
		if err := rows.Scan(&sym, &n); err != nil {
			return nil, fmt.Errorf("scan element: %w", err)
		}
		out[sym] = n
	}
	return out, rows.Err()
}

// Stats reads the structural statistics row, returning zeros when the
// index has never been updated.
func Stats(ctx context.Context, db *sql.DB) (vertices, bonds, arrows int, err error) {
	err = db.QueryRowContext(ctx, "SELECT vertices, bonds, arrows FROM stats WHERE id=1;").
		Scan(&vertices, &bonds, &arrows)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, 0, nil
	}
	if err != nil {
		return 0, 0, 0, fmt.Errorf("read stats: %w", err)
	}
	return vertices, bonds, arrows, nil
}

// SaveAutosave stores a document blob as a crash autosave and prunes old
// entries beyond autosaveKeep.
func SaveAutosave(ctx context.Context, sketchRoot string, blob []byte) error {
	db, err := InitOrOpenIndex(sketchRoot)
	if err != nil {
		return err
	}
	defer db.Close()
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := db.ExecContext(ctx, "INSERT INTO autosaves(ts, blob) VALUES(?,?);", now, blob); err != nil {
		return fmt.Errorf("insert autosave: %w", err)
	}
	if _, err := db.ExecContext(ctx,
		`DELETE FROM autosaves WHERE id NOT IN (SELECT id FROM autosaves ORDER BY ts DESC, id DESC LIMIT ?);`,
		autosaveKeep); err != nil {
		return fmt.Errorf("prune autosaves: %w", err)
	}
	return nil
}

// LatestAutosave returns the newest autosave blob, or ok=false when none
// exists.
func LatestAutosave(ctx context.Context, sketchRoot string) (blob []byte, ts time.Time, ok bool, err error) {
	db, err := InitOrOpenIndex(sketchRoot)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	defer db.Close()
	var stamp string
	row := db.QueryRowContext(ctx, "SELECT ts, blob FROM autosaves ORDER BY ts DESC, id DESC LIMIT 1;")
	if err := row.Scan(&stamp, &blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, time.Time{}, false, nil
		}
		return nil, time.Time{}, false, fmt.Errorf("read autosave: %w", err)
	}
	t, perr := time.Parse(time.RFC3339Nano, stamp)
	if perr != nil {
		t = time.Time{}
	}
	return blob, t, true, nil
}

// DetectAndRebuildIndex checks for corruption or missing schema and
// rebuilds the index from the document when needed. Returns true when a
// rebuild was performed.
func DetectAndRebuildIndex(ctx context.Context, sketchRoot string, doc sketch.Document) (bool, error) {
	path := IndexPath(sketchRoot)
	db, err := InitOrOpenIndex(sketchRoot)
	if err != nil {
		backupIndexFile(path)
		_ = os.Remove(path)
		if rbErr := UpdateIndex(ctx, sketchRoot, doc); rbErr != nil {
			return false, fmt.Errorf("rebuild after open failure: %w (open err: %v)", rbErr, err)
		}
		return true, nil
	}
	defer db.Close()
	needs := false
	var chk string
	if err := db.QueryRowContext(ctx, `PRAGMA quick_check;`).Scan(&chk); err != nil || !strings.Contains(strings.ToLower(chk), "ok") {
		needs = true
	}
	if !needs {
		if _, err := db.ExecContext(ctx, `SELECT 1 FROM elements LIMIT 1;`); err != nil {
			needs = true
		}
	}
	if !needs {
		return false, nil
	}
	backupIndexFile(path)
	_ = os.Remove(path)
	if err := UpdateIndex(ctx, sketchRoot, doc); err != nil {
		return false, err
	}
	return true, nil
}

// backupIndexFile copies the index file into a timestamped backup under
// .orx/backups before a destructive rebuild.
func backupIndexFile(indexPath string) {
	bdir := filepath.Join(filepath.Dir(indexPath), "backups")
	_ = os.MkdirAll(bdir, 0o755)
	stamp := time.Now().Format("20060102-150405")
	bak := filepath.Join(bdir, fmt.Sprintf("%s.%s.bak", filepath.Base(indexPath), stamp))
	if data, err := os.ReadFile(indexPath); err == nil {
		_ = os.WriteFile(bak, data, 0o644)
	}
}
