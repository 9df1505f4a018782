package uploads

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var _ fileStore = (*TestStore)(nil)

type storedFile struct {
	file   File
	chunks [][]byte
}

// TestStore is an in-memory blob store for unit tests, chunked the
// same way the real one is.
type TestStore struct {
	mutex sync.Mutex
	files map[uuid.UUID]storedFile
}

func NewTestStore() *TestStore {
	return &TestStore{
		files: make(map[uuid.UUID]storedFile),
	}
}

func (s *TestStore) Save(_ context.Context, params SaveFileParams) (uuid.UUID, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

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
	s.files[id] = storedFile{
		file: File{
			ID:          id,
			Filename:    filename,
			ContentType: params.ContentType,
			Size:        int64(len(params.Data)),
			CreatedAt:   time.Now(),
		},
		chunks: splitChunks(append([]byte(nil), params.Data...), ChunkSize),
	}
	return id, nil
}

func (s *TestStore) Open(_ context.Context, id string) (*File, ChunkIterator, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	fileID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil, ErrFileNotFound
	}

	stored, ok := s.files[fileID]
	if !ok {
		return nil, nil, ErrFileNotFound
	}

	file := stored.file
	if file.ContentType == "" {
		file.ContentType = defaultContentType
	}
	return &file, &memoryChunks{chunks: stored.chunks}, nil
}

type memoryChunks struct {
	chunks [][]byte
	pos    int
}

func (mc *memoryChunks) Next() ([]byte, error) {
	if mc.pos >= len(mc.chunks) {
		return nil, io.EOF
	}
	chunk := mc.chunks[mc.pos]
	mc.pos++
	return chunk, nil
}

func (mc *memoryChunks) Close() {}
