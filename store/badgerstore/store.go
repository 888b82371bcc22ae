// Package badgerstore implements the document store on an embedded
// BadgerDB. Keys are "doc/{collection}/{ulid}": ULIDs embed their
// creation time, so a prefix scan returns documents in insertion
// order and the id doubles as the ordering tie-breaker.
package badgerstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/oklog/ulid/v2"

	"giveboard/store"
)

type watcher struct {
	collection string
	query      store.Query
	sub        *store.Subscription

	// refresh orders the query re-run against the publish, so a
	// writer that read its snapshot first cannot publish it after a
	// later writer and roll the consumer's view backwards.
	refresh sync.Mutex
}

type Store struct {
	db     *badger.DB
	log    *slog.Logger
	buffer int

	mu       sync.RWMutex
	nextID   int
	watchers map[int]*watcher
}

func New(db *badger.DB, log *slog.Logger, buffer int) *Store {
	return &Store{
		db:       db,
		log:      log,
		buffer:   buffer,
		watchers: make(map[int]*watcher),
	}
}

func keyPrefix(collection string) string {
	return "doc/" + collection + "/"
}

func (s *Store) Get(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var docs []store.Document
	err := s.db.View(func(txn *badger.Txn) error {
		prefix := []byte(keyPrefix(collection))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			// Keys below this one belong to a subcollection, not to
			// the collection itself.
			if strings.ContainsRune(id, '/') {
				continue
			}
			err := item.Value(func(value []byte) error {
				fields := make(map[string]any)
				if err := json.Unmarshal(value, &fields); err != nil {
					return fmt.Errorf("decoding %s: %w", item.Key(), err)
				}
				docs = append(docs, store.Document{ID: id, Fields: fields})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q.Apply(docs), nil
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	id := ulid.Make().String()
	value, err := encode(fields)
	if err != nil {
		return "", err
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix(collection)+id), value)
	})
	if err != nil {
		return "", err
	}
	s.notify(collection)
	return id, nil
}

// Update merges fields into an existing document.
func (s *Store) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := []byte(keyPrefix(collection) + id)
	err := s.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return fmt.Errorf("document %s/%s: %w", collection, id, err)
		}
		current := make(map[string]any)
		err = item.Value(func(value []byte) error {
			return json.Unmarshal(value, &current)
		})
		if err != nil {
			return err
		}
		resolved, err := encodeInto(current, fields)
		if err != nil {
			return err
		}
		return txn.Set(key, resolved)
	})
	if err != nil {
		return err
	}
	s.notify(collection)
	return nil
}

// Subscribe registers an in-process watcher; every later write to the
// collection re-runs the query and publishes the full result set.
// The watcher is also torn down when ctx is cancelled, so an owning
// screen or request going away cannot leak a listener.
func (s *Store) Subscribe(ctx context.Context, collection string, q store.Query) (*store.Subscription, error) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	done := make(chan struct{})
	sub := store.NewSubscription(s.buffer, func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
		close(done)
	})
	w := &watcher{collection: collection, query: q, sub: sub}
	s.watchers[id] = w
	s.mu.Unlock()

	w.refresh.Lock()
	docs, err := s.Get(ctx, collection, q)
	if err != nil {
		w.refresh.Unlock()
		sub.Unsubscribe()
		return nil, fmt.Errorf("initial snapshot of %s: %w", collection, err)
	}
	sub.Publish(docs)
	w.refresh.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-done:
		}
	}()
	return sub, nil
}

// Close tears down every live watcher. The BadgerDB handle belongs to
// the caller and stays open.
func (s *Store) Close() error {
	s.mu.RLock()
	subs := make([]*store.Subscription, 0, len(s.watchers))
	for _, w := range s.watchers {
		subs = append(subs, w.sub)
	}
	s.mu.RUnlock()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	return nil
}

func (s *Store) notify(collection string) {
	s.mu.RLock()
	matching := make([]*watcher, 0, len(s.watchers))
	for _, w := range s.watchers {
		if w.collection == collection {
			matching = append(matching, w)
		}
	}
	s.mu.RUnlock()

	for _, w := range matching {
		w.refresh.Lock()
		docs, err := s.Get(context.Background(), w.collection, w.query)
		if err != nil {
			w.refresh.Unlock()
			s.log.Error("snapshot refresh failed", "collection", w.collection, "err", err)
			continue
		}
		w.sub.Publish(docs)
		w.refresh.Unlock()
	}
}

func encode(fields map[string]any) ([]byte, error) {
	return encodeInto(make(map[string]any, len(fields)), fields)
}

// encodeInto merges fields over base, resolving server-assigned
// timestamps with the local clock, and serializes the result.
func encodeInto(base map[string]any, fields map[string]any) ([]byte, error) {
	now := time.Now().UTC()
	for k, v := range fields {
		if v == store.ServerTimestamp {
			base[k] = now.Format(time.RFC3339Nano)
			continue
		}
		if t, ok := v.(time.Time); ok {
			base[k] = t.UTC().Format(time.RFC3339Nano)
			continue
		}
		base[k] = v
	}
	return json.Marshal(base)
}
