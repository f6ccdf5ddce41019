package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// DefaultCollection holds one document per key.
const DefaultCollection = "fistfuel"

type firestoreValue struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

// Firestore stores each key as a document in a single collection.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// NewFirestore creates a Firestore-backed store. An empty collection name
// selects DefaultCollection.
func NewFirestore(client *firestore.Client, collection string) *Firestore {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Firestore{client: client, collection: collection}
}

func (s *Firestore) Get(ctx context.Context, key string) (string, error) {
	doc, err := s.client.Collection(s.collection).Doc(key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNotFound
		}
		return "", unavailable(err)
	}

	var v firestoreValue
	if err := doc.DataTo(&v); err != nil {
		return "", unavailable(err)
	}
	return v.Value, nil
}

func (s *Firestore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.Collection(s.collection).Doc(key).Set(ctx, firestoreValue{
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// Remove deletes the document. Firestore treats deleting a missing document
// as success.
func (s *Firestore) Remove(ctx context.Context, key string) error {
	if _, err := s.client.Collection(s.collection).Doc(key).Delete(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return nil
		}
		return unavailable(err)
	}
	return nil
}

// unavailable marks err as a backend failure. Context errors stay matchable
// with errors.Is.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

// Compile-time interface check
var _ KV = (*Firestore)(nil)
