package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/ferryman/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

const defaultCollection = "runs"

type store struct {
	client     *firestore.Client
	collection string
}

// Option is a functional option for the Firestore run store
type Option func(*store)

// WithCollection overrides the Firestore collection name.
func WithCollection(name string) Option {
	return func(s *store) {
		s.collection = name
	}
}

// NewStore creates a run store backed by Cloud Firestore. Serve mode uses
// it when a project ID is configured.
func NewStore(ctx context.Context, projectID string, opts ...Option) (*store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Firestore client",
			goerr.V("project_id", projectID))
	}

	s := &store{
		client:     client,
		collection: defaultCollection,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *store) Put(ctx context.Context, report *model.RunReport) error {
	_, err := s.client.Collection(s.collection).Doc(report.ID).Set(ctx, report)
	if err != nil {
		return goerr.Wrap(err, "failed to store run report",
			goerr.V("id", report.ID))
	}
	return nil
}

func (s *store) Get(ctx context.Context, id string) (*model.RunReport, error) {
	doc, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get run report",
			goerr.V("id", id))
	}

	var report model.RunReport
	if err := doc.DataTo(&report); err != nil {
		return nil, goerr.Wrap(err, "failed to decode run report",
			goerr.V("id", id))
	}
	return &report, nil
}

func (s *store) List(ctx context.Context, limit int) ([]*model.RunReport, error) {
	if limit <= 0 {
		limit = 50
	}

	iter := s.client.Collection(s.collection).
		OrderBy("started_at", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var reports []*model.RunReport
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate run reports")
		}

		var report model.RunReport
		if err := doc.DataTo(&report); err != nil {
			return nil, goerr.Wrap(err, "failed to decode run report",
				goerr.V("doc", doc.Ref.ID))
		}
		reports = append(reports, &report)
	}

	return reports, nil
}

// Close releases the underlying Firestore client.
func (s *store) Close() error {
	return s.client.Close()
}
