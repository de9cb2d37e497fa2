// Package db exports font catalogs to a SQLite database so builds can be
// queried after the fact.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joeblew999/plat-fonts/pkg/font"
	"github.com/zeromicro/go-zero/core/stores/sqlx"
	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	*sql.DB
	path string
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("execute pragma %q: %w", pragma, err)
		}
	}

	d := &DB{DB: db, path: path}
	if err := d.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.path
}

// Migrate creates the catalog tables.
func (d *DB) Migrate() error {
	schema := `
	-- One row per generate run
	CREATE TABLE IF NOT EXISTS builds (
		id TEXT PRIMARY KEY,
		generated DATETIME NOT NULL,
		family_count INTEGER NOT NULL,
		total_fonts INTEGER NOT NULL,
		total_file_size INTEGER NOT NULL,
		base64_encoded INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS families (
		id TEXT PRIMARY KEY,
		build_id TEXT NOT NULL,
		family_name TEXT NOT NULL,
		display_name TEXT NOT NULL,
		formats TEXT NOT NULL,
		has_default_font INTEGER NOT NULL DEFAULT 0,
		font_count INTEGER NOT NULL,
		total_size INTEGER NOT NULL,
		license_file TEXT,
		position INTEGER NOT NULL,
		FOREIGN KEY (build_id) REFERENCES builds(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_families_build ON families(build_id);
	CREATE INDEX IF NOT EXISTS idx_families_name ON families(family_name);

	CREATE TABLE IF NOT EXISTS variants (
		id TEXT PRIMARY KEY,
		family_id TEXT NOT NULL,
		name TEXT NOT NULL,
		weight INTEGER NOT NULL,
		style TEXT NOT NULL,
		format TEXT NOT NULL,
		file_size INTEGER NOT NULL,
		url TEXT NOT NULL,
		FOREIGN KEY (family_id) REFERENCES families(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_variants_family ON variants(family_id);
	`

	_, err := d.Exec(schema)
	return err
}

// SqlConn returns a go-zero sqlx.SqlConn wrapping the underlying database.
func (d *DB) SqlConn() sqlx.SqlConn {
	return sqlx.NewSqlConnFromDB(d.DB, sqlx.WithAcceptable(sqliteAcceptable))
}

// sqliteAcceptable keeps "database is locked" errors from tripping the breaker.
func sqliteAcceptable(err error) bool {
	return err == nil || strings.Contains(err.Error(), "database is locked")
}

// SaveCatalog stores the catalog as a new build in a single transaction and
// returns the build id. Embedded file payloads are not stored.
func (d *DB) SaveCatalog(ctx context.Context, cat *font.Catalog) (string, error) {
	buildID := uuid.NewString()
	meta := cat.Metadata

	err := d.SqlConn().TransactCtx(ctx, func(ctx context.Context, session sqlx.Session) error {
		_, err := session.ExecCtx(ctx,
			"insert into builds (id, generated, family_count, total_fonts, total_file_size, base64_encoded) values (?, ?, ?, ?, ?, ?)",
			buildID, meta.Generated.UTC().Format(time.RFC3339), meta.FamilyCount, meta.TotalFonts, meta.TotalFileSize, meta.Base64Encoded)
		if err != nil {
			return fmt.Errorf("insert build: %w", err)
		}

		for i, f := range cat.Fonts {
			familyID := uuid.NewString()
			formats := make([]string, len(f.Formats))
			for j, format := range f.Formats {
				formats[j] = string(format)
			}
			_, err := session.ExecCtx(ctx,
				"insert into families (id, build_id, family_name, display_name, formats, has_default_font, font_count, total_size, license_file, position) values (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
				familyID, buildID, f.FamilyName, f.DisplayName, strings.Join(formats, ","), f.HasDefaultFont, f.FontCount, f.TotalSize, nullString(f.LicenseFile), i)
			if err != nil {
				return fmt.Errorf("insert family %s: %w", f.FamilyName, err)
			}

			for _, v := range f.Variants {
				_, err := session.ExecCtx(ctx,
					"insert into variants (id, family_id, name, weight, style, format, file_size, url) values (?, ?, ?, ?, ?, ?, ?, ?)",
					uuid.NewString(), familyID, v.Name, v.Weight, string(v.Style), string(v.Format), v.FileSize, v.URL)
				if err != nil {
					return fmt.Errorf("insert variant %s: %w", v.Name, err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return buildID, nil
}

// FamilyRow is a family as stored for a build.
type FamilyRow struct {
	FamilyName     string `db:"family_name"`
	DisplayName    string `db:"display_name"`
	Formats        string `db:"formats"`
	HasDefaultFont bool   `db:"has_default_font"`
	FontCount      int    `db:"font_count"`
	TotalSize      int64  `db:"total_size"`
}

// Families returns the families of a build in catalog order.
func (d *DB) Families(ctx context.Context, buildID string) ([]FamilyRow, error) {
	var rows []FamilyRow
	query := "select `family_name`, `display_name`, `formats`, `has_default_font`, `font_count`, `total_size` from families where `build_id` = ? order by `position`"
	if err := d.SqlConn().QueryRowsCtx(ctx, &rows, query, buildID); err != nil {
		return nil, err
	}
	return rows, nil
}

// LatestBuild returns the id of the most recently generated build.
func (d *DB) LatestBuild(ctx context.Context) (string, error) {
	var id string
	err := d.SqlConn().QueryRowCtx(ctx, &id, "select `id` from builds order by `generated` desc, `created_at` desc limit 1")
	if err != nil {
		return "", err
	}
	return id, nil
}

// VariantCount returns the number of variants stored for a build.
func (d *DB) VariantCount(ctx context.Context, buildID string) (int, error) {
	var n int
	query := "select count(*) from variants v join families f on v.family_id = f.id where f.build_id = ?"
	if err := d.SqlConn().QueryRowCtx(ctx, &n, query, buildID); err != nil {
		return 0, err
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
