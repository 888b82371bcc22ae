// Package firestorestore implements the document store on Cloud
// Firestore. Collection paths map directly to Firestore paths, so
// messages live in the chats/{roomID}/messages subcollection exactly
// as the mobile client wrote them.
package firestorestore

import (
	"context"
	"fmt"
	"log/slog"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"giveboard/store"
)

type Store struct {
	client *firestore.Client
	log    *slog.Logger
	buffer int
}

func New(ctx context.Context, projectID string, log *slog.Logger, buffer int) (*Store, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID is required for the Firestore store")
	}
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}
	return &Store{client: client, log: log, buffer: buffer}, nil
}

func (s *Store) build(collection string, q store.Query) firestore.Query {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		switch f.Op {
		case store.OpArrayContains:
			query = query.Where(f.Field, "array-contains", f.Value)
		default:
			query = query.Where(f.Field, "==", f.Value)
		}
	}
	for _, o := range q.Orders {
		dir := firestore.Asc
		if o.Direction == store.Descending {
			dir = firestore.Desc
		}
		query = query.OrderBy(o.Field, dir)
	}
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}
	return query
}

func (s *Store) Get(ctx context.Context, collection string, q store.Query) ([]store.Document, error) {
	it := s.build(collection, q).Documents(ctx)
	defer it.Stop()

	var docs []store.Document
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("firestore read of %s: %w", collection, err)
		}
		docs = append(docs, store.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

func (s *Store) Insert(ctx context.Context, collection string, fields map[string]any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, resolveTimestamps(fields))
	if err != nil {
		return "", fmt.Errorf("firestore insert into %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *Store) Update(ctx context.Context, collection string, id string, fields map[string]any) error {
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, resolveTimestamps(fields), firestore.MergeAll)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("document %s/%s does not exist: %w", collection, id, err)
		}
		return fmt.Errorf("firestore update of %s/%s: %w", collection, id, err)
	}
	return nil
}

// Subscribe wraps Firestore's own snapshot listener. Every change
// event already carries the full matching document set, which is
// exactly the snapshot contract the services rely on.
func (s *Store) Subscribe(ctx context.Context, collection string, q store.Query) (*store.Subscription, error) {
	sctx, cancel := context.WithCancel(ctx)
	sub := store.NewSubscription(s.buffer, cancel)
	snapshots := s.build(collection, q).Snapshots(sctx)

	go func() {
		defer snapshots.Stop()
		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					s.log.Error("snapshot listener stopped", "collection", collection, "err", err)
				}
				sub.Unsubscribe()
				return
			}
			docs, err := collect(snap)
			if err != nil {
				s.log.Error("snapshot decode failed", "collection", collection, "err", err)
				continue
			}
			sub.Publish(docs)
		}
	}()
	return sub, nil
}

func collect(snap *firestore.QuerySnapshot) ([]store.Document, error) {
	docs := make([]store.Document, 0, snap.Size)
	it := snap.Documents
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, store.Document{ID: doc.Ref.ID, Fields: doc.Data()})
	}
}

func (s *Store) Close() error {
	return s.client.Close()
}

func resolveTimestamps(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if v == store.ServerTimestamp {
			out[k] = firestore.ServerTimestamp
			continue
		}
		out[k] = v
	}
	return out
}
