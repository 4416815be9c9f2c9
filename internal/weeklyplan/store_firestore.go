package weeklyplan

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps plans at users/{userId}/plans/{planId}.
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(userID, planID string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(userID).Collection("plans").Doc(planID)
}

// Save overwrites the document. createdAt is set by the server.
func (s *FirestoreStore) Save(ctx context.Context, doc Document) error {
	doc.CreatedAt = time.Time{}
	if _, err := s.doc(doc.UserID, doc.PlanID).Set(ctx, doc); err != nil {
		return fmt.Errorf("set plan document: %w", err)
	}
	return nil
}

func (s *FirestoreStore) Get(ctx context.Context, userID, planID string) (Document, error) {
	snap, err := s.doc(userID, planID).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get plan document: %w", err)
	}
	var doc Document
	if err = snap.DataTo(&doc); err != nil {
		return Document{}, fmt.Errorf("decode plan document: %w", err)
	}
	return doc, nil
}
