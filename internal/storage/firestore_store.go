package storage

import (
	"context"
	"fmt"
	"net/url"
	"portal/internal/errs"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const FirestoreDriver = "firestore"

type firestoreEntry struct {
	Value     string    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreStore keeps one document per key. Keys are path-escaped because
// document ids may not contain "/".
type FirestoreStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
}

func NewFirestoreStore(client *firestore.Client, collection string) *FirestoreStore {
	return &FirestoreStore{
		client:     client,
		collection: client.Collection(collection),
	}
}

func docID(key string) string {
	return url.PathEscape(key)
}

func (f *FirestoreStore) IsActivated() bool { return true }
func (f *FirestoreStore) Driver() string    { return FirestoreDriver }

func (f *FirestoreStore) GetValue(ctx context.Context, key string) ([]byte, error) {
	doc, err := f.collection.Doc(docID(key)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errs.NewNotFoundError("key not found: " + key)
		}
		return nil, fmt.Errorf("firestore get %s: %w", key, err)
	}
	var entry firestoreEntry
	if err := doc.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("firestore decode %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (f *FirestoreStore) SetValue(ctx context.Context, key string, value []byte) error {
	entry := firestoreEntry{Value: string(value), UpdatedAt: time.Now().UTC()}
	if _, err := f.collection.Doc(docID(key)).Set(ctx, entry); err != nil {
		return fmt.Errorf("firestore set %s: %w", key, err)
	}
	return nil
}

func (f *FirestoreStore) DeleteValue(ctx context.Context, key string) error {
	if _, err := f.collection.Doc(docID(key)).Delete(ctx); err != nil {
		return fmt.Errorf("firestore delete %s: %w", key, err)
	}
	return nil
}

func (f *FirestoreStore) Count(ctx context.Context) (int, error) {
	docs, err := f.collection.Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, fmt.Errorf("firestore count: %w", err)
	}
	return len(docs), nil
}

func (f *FirestoreStore) Close() error {
	return f.client.Close()
}
