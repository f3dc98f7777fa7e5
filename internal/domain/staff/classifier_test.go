package staff

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vairanya/internal/session"
)

type stubStore struct {
	members map[string]*Member
	err     error
}

func (s *stubStore) GetBySubject(_ context.Context, subjectID string) (*Member, error) {
	if s.err != nil {
		return nil, s.err
	}
	m, ok := s.members[subjectID]
	if !ok {
		return nil, ErrNotFound
	}
	return m, nil
}

func (s *stubStore) GetByID(context.Context, int64) (*Member, error) { return nil, ErrNotFound }

func (s *stubStore) List(context.Context, int, int) ([]Member, int, error) { return nil, 0, nil }

func (s *stubStore) Add(context.Context, *Member) error { return nil }

func (s *stubStore) SetRole(context.Context, int64, session.Role) error { return nil }

func (s *stubStore) Deactivate(context.Context, int64) error { return nil }

func TestClassifyStaffMember(t *testing.T) {
	c := NewClassifier(&stubStore{members: map[string]*Member{
		"42": {SubjectID: "42", DisplayName: "Asha", Role: session.RoleAdmin},
	}})

	got, err := c.Classify(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, session.RoleAdmin, got.Role)
	assert.Equal(t, "Asha", got.DisplayName)
}

func TestClassifyUnknownSubjectIsNotStaff(t *testing.T) {
	c := NewClassifier(&stubStore{members: map[string]*Member{}})

	_, err := c.Classify(context.Background(), "99")
	assert.ErrorIs(t, err, session.ErrNotStaff)
}

func TestClassifyEmptySubjectIsUnauthorized(t *testing.T) {
	c := NewClassifier(&stubStore{})

	_, err := c.Classify(context.Background(), "")
	assert.ErrorIs(t, err, session.ErrUnauthorized)
}

func TestClassifyStoreFailurePassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewClassifier(&stubStore{err: boom})

	_, err := c.Classify(context.Background(), "42")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, session.ErrNotStaff)
}
