package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
	"github.com/viant/allocman/internal/clock"
	"github.com/viant/allocman/internal/idgen"
	"github.com/viant/allocman/service/messaging"
)

const (
	pendingFolder    = "pending"
	processingFolder = "processing"
	completedFolder  = "completed"
	ext              = ".json"
)

// Config holds configuration for storage backed queue
type Config struct {
	// URL is the queue base location, any afs scheme
	URL string
	// Retain keeps acknowledged messages under completed
	Retain bool
}

// Message is a queued message persisted as a JSON object
type Message[T any] struct {
	ID        string    `json:"id"`
	Data      T         `json:"data"`
	CreatedAt time.Time `json:"createdAt"`

	queue     *Queue[T]
	name      string
	processed bool
	mu        sync.Mutex
}

// T returns the message payload
func (m *Message[T]) T() *T {
	return &m.Data
}

// Ack acknowledges that the message was processed
func (m *Message[T]) Ack() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.processed {
		return fmt.Errorf("message %v already processed", m.ID)
	}
	m.processed = true
	return m.queue.complete(context.Background(), m.name)
}

// Queue implements a storage backed messaging.Queue, messages are consumed in publish order
type Queue[T any] struct {
	fs     afs.Service
	config Config
	mu     sync.Mutex
	last   int64
}

// Publish adds a new message to the pending folder
func (q *Queue[T]) Publish(ctx context.Context, t *T) error {
	message := &Message[T]{ID: idgen.New(), Data: *t, CreatedAt: clock.Now()}
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	name := fmt.Sprintf("%020d-%s%s", q.nextSeq(message.CreatedAt), message.ID, ext)
	return q.fs.Upload(ctx, url.Join(q.config.URL, pendingFolder, name), file.DefaultFileOsMode, bytes.NewReader(data))
}

// nextSeq returns strictly increasing sequence so that names sort in publish order
func (q *Queue[T]) nextSeq(at time.Time) int64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	seq := at.UnixNano()
	if seq <= q.last {
		seq = q.last + 1
	}
	q.last = seq
	return seq
}

// Consume returns the oldest pending message or nil
func (q *Queue[T]) Consume(ctx context.Context) (messaging.Message[T], error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	objects, err := q.fs.List(ctx, url.Join(q.config.URL, pendingFolder))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}
	var names []string
	for _, object := range objects {
		if !object.IsDir() && strings.HasSuffix(object.Name(), ext) {
			names = append(names, object.Name())
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	sort.Strings(names)
	name := names[0]
	source := url.Join(q.config.URL, pendingFolder, name)
	data, err := q.fs.DownloadWithURL(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to read message %s: %w", name, err)
	}
	message := &Message[T]{queue: q, name: name}
	if err = json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message %s: %w", name, err)
	}
	if err = q.fs.Move(ctx, source, url.Join(q.config.URL, processingFolder, name)); err != nil {
		return nil, fmt.Errorf("failed to claim message %s: %w", name, err)
	}
	return message, nil
}

func (q *Queue[T]) complete(ctx context.Context, name string) error {
	source := url.Join(q.config.URL, processingFolder, name)
	if q.config.Retain {
		return q.fs.Move(ctx, source, url.Join(q.config.URL, completedFolder, name))
	}
	return q.fs.Delete(ctx, source)
}

// NewQueue creates a storage backed queue
func NewQueue[T any](ctx context.Context, fs afs.Service, config Config) (*Queue[T], error) {
	if config.URL == "" {
		return nil, fmt.Errorf("queue URL was empty")
	}
	config.URL = url.Normalize(config.URL, file.Scheme)
	ret := &Queue[T]{fs: fs, config: config}
	for _, folder := range []string{pendingFolder, processingFolder, completedFolder} {
		URL := url.Join(config.URL, folder)
		if exists, _ := fs.Exists(ctx, URL); exists {
			continue
		}
		if err := fs.Create(ctx, URL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", URL, err)
		}
	}
	return ret, nil
}

var _ messaging.Queue[any] = (*Queue[any])(nil)
