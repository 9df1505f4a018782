package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yaswanth-m/simply-backend/internal/telemetry/tracing"
)

// ChunkSize caps a single stored chunk; large objects span many rows
// and are streamed back one row at a time.
const ChunkSize = 256 * 1024

const defaultContentType = "application/octet-stream"

var (
	ErrFileNotFound  = errors.New("file not found")
	ErrInvalidUpload = errors.New("invalid upload")
)

type File struct {
	ID          uuid.UUID
	Filename    string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}

type SaveFileParams struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ChunkIterator is a lazy, finite, forward-only sequence of byte
// chunks. Next returns io.EOF after the last chunk.
type ChunkIterator interface {
	Next() ([]byte, error)
	Close()
}

var _ fileStore = (*FileStore)(nil)

// FileStore keeps uploaded binaries in postgres, split into chunks.
// Files are immutable: created once, then only read.
type FileStore struct {
	db *pgxpool.Pool
}

func NewFileStore(db *pgxpool.Pool) *FileStore {
	return &FileStore{
		db: db,
	}
}

func (s *FileStore) Save(ctx context.Context, params SaveFileParams) (uuid.UUID, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fileStore.Save")
	defer span.End()

	if !strings.HasPrefix(params.ContentType, "image/") {
		return uuid.Nil, fmt.Errorf("%w: only image uploads are supported", ErrInvalidUpload)
	}
	if len(params.Data) == 0 {
		return uuid.Nil, fmt.Errorf("%w: empty file", ErrInvalidUpload)
	}

	filename := params.Filename
	if filename == "" {
		filename = "upload"
	}

	id := uuid.New()
	span.SetAttributes(attribute.String("file.id", id.String()))

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return uuid.Nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			log.Errorf("rollback file save tx: %s", err)
		}
	}()

	if _, err := tx.Exec(
		ctx,
		`INSERT INTO upload_file (id, filename, content_type, size, created_at)
			VALUES ($1, $2, $3, $4, $5);`,
		id, filename, params.ContentType, len(params.Data), time.Now(),
	); err != nil {
		return uuid.Nil, fmt.Errorf("insert file: %w", err)
	}

	for n, chunk := range splitChunks(params.Data, ChunkSize) {
		if _, err := tx.Exec(
			ctx,
			`INSERT INTO upload_chunk (file_id, n, data) VALUES ($1, $2, $3);`,
			id, n, chunk,
		); err != nil {
			return uuid.Nil, fmt.Errorf("insert chunk %d: %w", n, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return uuid.Nil, fmt.Errorf("commit tx: %w", err)
	}

	return id, nil
}

// Open looks up a stored file and returns its metadata together with a
// lazy chunk iterator. A malformed id and a missing object are the
// same failure: ErrFileNotFound.
func (s *FileStore) Open(ctx context.Context, id string) (*File, ChunkIterator, error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "fileStore.Open")
	span.SetAttributes(attribute.String("file.id", id))
	defer span.End()

	fileID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, ErrFileNotFound
	}

	var file File
	err = s.db.QueryRow(
		ctx,
		`SELECT id, filename, content_type, size, created_at FROM upload_file WHERE id = $1;`,
		fileID,
	).Scan(&file.ID, &file.Filename, &file.ContentType, &file.Size, &file.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, ErrFileNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if file.ContentType == "" {
		file.ContentType = defaultContentType
	}

	rows, err := s.db.Query(
		ctx,
		`SELECT data FROM upload_chunk WHERE file_id = $1 ORDER BY n;`,
		fileID,
	)
	if err != nil {
		return nil, nil, err
	}

	return &file, &chunkStream{rows: rows}, nil
}

// chunkStream pulls chunk rows on demand, one per Next call, so a
// large object is never fully buffered on the way out.
type chunkStream struct {
	rows pgx.Rows
}

func (cs *chunkStream) Next() ([]byte, error) {
	if !cs.rows.Next() {
		if err := cs.rows.Err(); err != nil {
			return nil, err
		}
		return nil, io.EOF
	}
	var data []byte
	if err := cs.rows.Scan(&data); err != nil {
		return nil, err
	}
	return data, nil
}

func (cs *chunkStream) Close() {
	cs.rows.Close()
}

func splitChunks(data []byte, size int) [][]byte {
	var chunks [][]byte
	for len(data) > 0 {
		n := size
		if len(data) < n {
			n = len(data)
		}
		chunks = append(chunks, data[:n])
		data = data[n:]
	}
	return chunks
}
