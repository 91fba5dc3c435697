// internal/catalog/catalog.go
//
// Optional MySQL catalog of generated sites.
//
// Context
// -------
// When `catalog.enabled` is true, `lx generate` records the validated
// `site_info` of each build in one row keyed by the canonical URL.  A shared
// catalog lets several projects publish to one index; rebuilding a site
// updates its row in place.
//
// Schema
//
//	CREATE TABLE site_info (
//	    id                INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
//	    url               VARCHAR(512)  NOT NULL UNIQUE,
//	    title             VARCHAR(256)  NOT NULL,
//	    description       TEXT          NULL,
//	    default_timezone  VARCHAR(64)   NOT NULL,
//	    metadata          JSON          NOT NULL,
//	    updated_at        TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
//	                                    ON UPDATE CURRENT_TIMESTAMP
//	);
//
// Notes
// -----
//   - Metadata is stored as a JSON object with sorted keys.
//   - The store never logs; callers add context to errors.
//   - Oxford commas, two spaces after periods.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"

	"github.com/igxactly-forks/lightning/internal/siteinfo"
)

// Schema creates the catalog table when missing.
const Schema = `
CREATE TABLE IF NOT EXISTS site_info (
    id                INT UNSIGNED PRIMARY KEY AUTO_INCREMENT,
    url               VARCHAR(512)  NOT NULL UNIQUE,
    title             VARCHAR(256)  NOT NULL,
    description       TEXT          NULL,
    default_timezone  VARCHAR(64)   NOT NULL,
    metadata          JSON          NOT NULL,
    updated_at        TIMESTAMP     NOT NULL DEFAULT CURRENT_TIMESTAMP
                                    ON UPDATE CURRENT_TIMESTAMP
)`

// ErrNotFound is returned by ByURL when no row matches.
var ErrNotFound = errors.New("catalog: site not found")

// Record mirrors one row in `site_info`.
type Record struct {
	ID              uint64    `db:"id"`
	URL             string    `db:"url"`
	Title           string    `db:"title"`
	Description     *string   `db:"description"`
	DefaultTimezone string    `db:"default_timezone"`
	Metadata        string    `db:"metadata"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// MetadataMap decodes the stored metadata object.
func (r Record) MetadataMap() (map[string]any, error) {
	out := map[string]any{}
	if r.Metadata == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(r.Metadata), &out); err != nil {
		return nil, fmt.Errorf("catalog: metadata of %s: %w", r.URL, err)
	}
	return out, nil
}

// Store reads and writes the catalog.
type Store struct {
	db *sqlx.DB
}

// NewStore wraps an open pool.
func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

// EnsureSchema runs Schema.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, Schema)
	return err
}

// Upsert inserts info or refreshes the row with the same URL.
func (s *Store) Upsert(ctx context.Context, info siteinfo.SiteInfo) error {
	const q = `
	    INSERT INTO site_info (url, title, description, default_timezone, metadata)
	    VALUES (?, ?, ?, ?, ?)
	    ON DUPLICATE KEY UPDATE
	        title = VALUES(title),
	        description = VALUES(description),
	        default_timezone = VALUES(default_timezone),
	        metadata = VALUES(metadata)`

	md := info.Metadata
	if md == nil {
		md = map[string]siteinfo.Scalar{}
	}
	blob, err := json.Marshal(md)
	if err != nil {
		return fmt.Errorf("catalog: encode metadata: %w", err)
	}

	var desc any
	if info.Description != nil {
		desc = *info.Description
	}

	_, err = s.db.ExecContext(ctx, q,
		info.URL.String(), info.Title, desc, info.DefaultTimezone.Name(), string(blob))
	return err
}

// ByURL returns the row for one canonical URL.
func (s *Store) ByURL(ctx context.Context, url string) (*Record, error) {
	const q = `
	    SELECT  id, url, title, description, default_timezone, metadata, updated_at
	    FROM    site_info
	    WHERE   url = ?`

	var rec Record
	if err := s.db.GetContext(ctx, &rec, q, url); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}
