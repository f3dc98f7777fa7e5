package staff

import (
	"context"
	"errors"

	"vairanya/internal/session"
)

// Classifier answers the session resolver's one classification call from the
// staff directory. A subject missing from the directory is NOT_STAFF; only a
// backend failure surfaces as anything else.
type Classifier struct {
	store Store
}

func NewClassifier(store Store) *Classifier {
	return &Classifier{store: store}
}

func (c *Classifier) Classify(ctx context.Context, subjectID string) (session.Classification, error) {
	if subjectID == "" {
		return session.Classification{}, session.ErrUnauthorized
	}

	m, err := c.store.GetBySubject(ctx, subjectID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return session.Classification{}, session.ErrNotStaff
		}
		return session.Classification{}, err
	}

	return session.Classification{
		Role:        m.Role,
		DisplayName: m.DisplayName,
	}, nil
}
