package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/memvault-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/memvault-cli/internal/core/domain"
	"github.com/custodia-labs/memvault-cli/internal/core/ports/driven"
)

// Store is the SQLite-backed metadata storage.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.memvault/data/memvault.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".memvault", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "memvault.db")

	// WAL mode for better concurrency between workers and queries.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ItemStore returns an ItemStore interface backed by this store.
func (s *Store) ItemStore() driven.ItemStore {
	return &itemStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Item Store ====================

// itemColumnList is the canonical column order shared by every item query.
var itemColumnList = []string{
	"id", "source_url", "blob_key", "fingerprint", "title",
	"description_manual", "description_ai", "transcript", "embedding",
	"duration_seconds", "folder_id", "tags", "status", "created_at",
}

var itemColumns = strings.Join(itemColumnList, ", ")

// itemStore implements driven.ItemStore.
type itemStore struct {
	store *Store
}

var _ driven.ItemStore = (*itemStore)(nil)

// Create stores a new item.
func (s *itemStore) Create(ctx context.Context, item *domain.Item) error {
	if item.ID == "" {
		return domain.ErrInvalidInput
	}

	tagsJSON, err := json.Marshal(tagsOrEmpty(item.Tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO items (`+itemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, item.ID, nullString(item.SourceURL), nullString(item.BlobKey),
		nullString(item.Fingerprint), nullString(item.Title),
		nullString(item.DescriptionManual), nullString(item.DescriptionAI),
		nullString(item.Transcript), float32SliceToBytes(item.Embedding),
		nullInt(item.DurationSeconds), nullString(item.FolderID),
		string(tagsJSON), string(item.Status), item.CreatedAt)

	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// Get retrieves an item by ID.
func (s *itemStore) Get(ctx context.Context, id string) (*domain.Item, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items WHERE id = ?
	`, id)

	return scanItemRow(row)
}

// Update writes the full record; nil pointer fields write NULL.
func (s *itemStore) Update(ctx context.Context, item *domain.Item) error {
	tagsJSON, err := json.Marshal(tagsOrEmpty(item.Tags))
	if err != nil {
		return fmt.Errorf("marshalling tags: %w", err)
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE items SET
			source_url = ?,
			blob_key = ?,
			fingerprint = ?,
			title = ?,
			description_manual = ?,
			description_ai = ?,
			transcript = ?,
			embedding = ?,
			duration_seconds = ?,
			folder_id = ?,
			tags = ?,
			status = ?
		WHERE id = ?
	`, nullString(item.SourceURL), nullString(item.BlobKey),
		nullString(item.Fingerprint), nullString(item.Title),
		nullString(item.DescriptionManual), nullString(item.DescriptionAI),
		nullString(item.Transcript), float32SliceToBytes(item.Embedding),
		nullInt(item.DurationSeconds), nullString(item.FolderID),
		string(tagsJSON), string(item.Status), item.ID)

	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an item record.
func (s *itemStore) Delete(ctx context.Context, id string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// FindByFingerprint returns the oldest COMPLETED item with the fingerprint,
// excluding excludeID.
func (s *itemStore) FindByFingerprint(ctx context.Context, fingerprint, excludeID string) (*domain.Item, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+itemColumns+` FROM items
		WHERE fingerprint = ? AND status = ? AND id != ?
		ORDER BY created_at ASC
		LIMIT 1
	`, fingerprint, string(domain.StatusCompleted), excludeID)

	return scanItemRow(row)
}

// ListByStatus returns items in the given status, oldest first.
func (s *itemStore) ListByStatus(
	ctx context.Context, status domain.ItemStatus, limit int,
) ([]domain.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE status = ? ORDER BY created_at ASC`
	args := []any{string(status)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items by status: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// ListByScope returns items whose folder is in folderIDs, newest first. The
// query is assembled with squirrel so the variable-length folder set and the
// optional filters all bind as parameters.
func (s *itemStore) ListByScope(
	ctx context.Context, folderIDs []string, onlyEmbedded bool, limit, offset int,
) ([]domain.Item, error) {
	if len(folderIDs) == 0 {
		return []domain.Item{}, nil
	}

	builder := sq.Select(itemColumnList...).
		From("items").
		Where(sq.Eq{"folder_id": folderIDs}).
		OrderBy("created_at DESC")

	if onlyEmbedded {
		builder = builder.Where("embedding IS NOT NULL")
	}
	// SQLite rejects OFFSET without LIMIT; -1 means unlimited.
	if limit <= 0 && offset > 0 {
		builder = builder.Suffix("LIMIT -1 OFFSET ?", offset)
	} else {
		if limit > 0 {
			builder = builder.Limit(uint64(limit))
		}
		if offset > 0 {
			builder = builder.Offset(uint64(offset))
		}
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building scope query: %w", err)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItemRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}

	return items, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// nullString maps a nil pointer to SQL NULL.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// nullInt maps a nil pointer to SQL NULL.
func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// tagsOrEmpty normalizes nil tag slices so the column always holds a JSON array.
func tagsOrEmpty(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(scanner rowScanner) (*domain.Item, error) {
	var item domain.Item
	var sourceURL, blobKey, fingerprint, title sql.NullString
	var descriptionManual, descriptionAI, transcript, folderID sql.NullString
	var embeddingBlob []byte
	var durationSeconds sql.NullInt64
	var tagsJSON, status string
	var createdAt sql.NullTime

	if err := scanner.Scan(&item.ID, &sourceURL, &blobKey, &fingerprint, &title,
		&descriptionManual, &descriptionAI, &transcript, &embeddingBlob,
		&durationSeconds, &folderID, &tagsJSON, &status, &createdAt); err != nil {
		return nil, err
	}

	item.SourceURL = ptrFromNull(sourceURL)
	item.BlobKey = ptrFromNull(blobKey)
	item.Fingerprint = ptrFromNull(fingerprint)
	item.Title = ptrFromNull(title)
	item.DescriptionManual = ptrFromNull(descriptionManual)
	item.DescriptionAI = ptrFromNull(descriptionAI)
	item.Transcript = ptrFromNull(transcript)
	item.FolderID = ptrFromNull(folderID)
	item.Embedding = bytesToFloat32Slice(embeddingBlob)
	if durationSeconds.Valid {
		d := int(durationSeconds.Int64)
		item.DurationSeconds = &d
	}
	if err := json.Unmarshal([]byte(tagsJSON), &item.Tags); err != nil {
		return nil, fmt.Errorf("unmarshalling tags: %w", err)
	}
	item.Status = domain.ItemStatus(status)
	if createdAt.Valid {
		item.CreatedAt = createdAt.Time
	}

	return &item, nil
}

// scanItemRow scans a single item row, mapping sql.ErrNoRows to ErrNotFound.
func scanItemRow(row *sql.Row) (*domain.Item, error) {
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	return item, nil
}

// scanItemRows scans an item from *sql.Rows.
func scanItemRows(rows *sql.Rows) (*domain.Item, error) {
	item, err := scanItem(rows)
	if err != nil {
		return nil, fmt.Errorf("scanning item: %w", err)
	}
	return item, nil
}

// ptrFromNull converts a NullString to *string.
func ptrFromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
