package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/storefront/catalog/internal/domain/entities"
	"github.com/storefront/catalog/internal/infrastructure/logger"
	"github.com/storefront/catalog/internal/ports"
)

// MessageFileRepository implements MessageRepository on a single JSON
// file holding the ordered log. Appends follow the same serialized
// whole-file rewrite as the product repository.
type MessageFileRepository struct {
	path string
	log  *logger.Logger
	mu   sync.Mutex
}

// NewMessageFileRepository creates a repository backed by the given file.
func NewMessageFileRepository(path string, log *logger.Logger) *MessageFileRepository {
	return &MessageFileRepository{path: path, log: log.WithComponent("store")}
}

// Path returns the backing file path.
func (r *MessageFileRepository) Path() string {
	return r.path
}

func (r *MessageFileRepository) GetAll(ctx context.Context) ([]entities.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

func (r *MessageFileRepository) Append(ctx context.Context, message entities.Message) ([]entities.Message, error) {
	if !json.Valid(message) {
		return nil, fmt.Errorf("%w: message is not valid JSON", entities.ErrStorageWrite)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	messages, err := r.readAll()
	if err != nil {
		return nil, err
	}

	messages = append(messages, message)
	data, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrStorageWrite, err)
	}
	if err := replaceFile(r.path, data); err != nil {
		err = fmt.Errorf("%w: %s: %v", entities.ErrStorageWrite, r.path, err)
		r.log.LogStoreOp("write", r.path, err)
		return nil, err
	}
	r.log.LogStoreOp("write", r.path, nil)
	return messages, nil
}

func (r *MessageFileRepository) readAll() ([]entities.Message, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", entities.ErrStorageRead, r.path, err)
		r.log.LogStoreOp("read", r.path, err)
		return nil, err
	}

	var messages []entities.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		err = fmt.Errorf("%w: %s: %v", entities.ErrStorageRead, r.path, err)
		r.log.LogStoreOp("read", r.path, err)
		return nil, err
	}
	return messages, nil
}

var _ ports.MessageRepository = (*MessageFileRepository)(nil)
