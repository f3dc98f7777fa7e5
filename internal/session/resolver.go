package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Classification is the answer from the identity backend: what role, if any,
// does this authenticated caller hold in the staff directory.
type Classification struct {
	Role        Role
	DisplayName string
}

// Classifier performs the one network call that asks the identity backend
// whether the caller is registered staff. Implementations return
// ErrNotStaff for authenticated non-staff callers and ErrUnauthorized when
// the underlying identity itself is invalid; any other error is a backend
// failure.
type Classifier interface {
	Classify(ctx context.Context, subjectID string) (Classification, error)
}

// State tracks where a subject sits in the resolution lifecycle. The explicit
// enum replaces the scattered has-redirected / is-checking flag style and
// makes the no-loop property assertable directly.
type State int

const (
	StateUnresolved State = iota
	StateClassifying
	StateResolvedCustomer
	StateResolvedStaff
	StateResolvedNotStaff
)

func (s State) String() string {
	switch s {
	case StateUnresolved:
		return "unresolved"
	case StateClassifying:
		return "classifying"
	case StateResolvedCustomer:
		return "resolved_customer"
	case StateResolvedStaff:
		return "resolved_staff"
	case StateResolvedNotStaff:
		return "resolved_not_staff"
	}
	return "unknown"
}

// Resolver owns the session stores and the classification path. All shared
// state lives behind one mutex; the singleflight group guarantees at most one
// classification call in flight per subject, with late callers receiving the
// first call's result instead of issuing a duplicate.
type Resolver struct {
	primary    RecordStore
	echo       RecordStore
	classifier Classifier
	logger     *zap.SugaredLogger

	group singleflight.Group

	mu       sync.Mutex
	notStaff map[string]time.Time
	states   map[string]State
}

// NewResolver wires the two store tiers and the classifier. The echo store
// may be nil when no durable tier is configured.
func NewResolver(primary, echo RecordStore, classifier Classifier, logger *zap.SugaredLogger) *Resolver {
	return &Resolver{
		primary:    primary,
		echo:       echo,
		classifier: classifier,
		logger:     logger,
		notStaff:   make(map[string]time.Time),
		states:     make(map[string]State),
	}
}

// GetCached reads the primary store first, then falls back to the echo store.
// No network I/O. An echo hit is copied forward into the primary tier so the
// next read stays on the fast path.
func (r *Resolver) GetCached(ctx context.Context, subjectID string) *Record {
	if subjectID == "" {
		return nil
	}

	rec, err := r.primary.Get(ctx, subjectID)
	if err != nil {
		r.logger.Warnw("primary session store read failed", "error", err)
	}
	if rec.Valid() {
		return rec
	}

	if r.echo == nil {
		return nil
	}
	rec, err = r.echo.Get(ctx, subjectID)
	if err != nil {
		r.logger.Warnw("echo session store read failed", "error", err)
		return nil
	}
	if !rec.Valid() {
		return nil
	}
	if err := r.primary.Put(ctx, *rec); err != nil {
		r.logger.Warnw("warming primary session store failed", "error", err)
	}
	return rec
}

// Resolve produces a routing outcome for the subject, classifying at most
// once. Errors never escape: an invalid identity downgrades to anonymous, a
// non-staff answer is remembered for the rest of the session, and an
// unreachable backend fails closed without disturbing anything already
// cached.
func (r *Resolver) Resolve(ctx context.Context, subjectID string) Outcome {
	if subjectID == "" {
		return Outcome{Kind: OutcomeAnonymous}
	}

	if rec := r.GetCached(ctx, subjectID); rec != nil {
		if rec.Role.IsStaff() {
			r.setState(subjectID, StateResolvedStaff)
			return Outcome{Kind: OutcomeStaff, Record: rec}
		}
		r.setState(subjectID, StateResolvedCustomer)
		return Outcome{Kind: OutcomeCustomer, Record: rec}
	}

	if r.isNotStaff(subjectID) {
		return Outcome{Kind: OutcomeCustomer}
	}

	v, _, _ := r.group.Do(subjectID, func() (any, error) {
		return r.classify(ctx, subjectID), nil
	})
	return v.(Outcome)
}

func (r *Resolver) classify(ctx context.Context, subjectID string) Outcome {
	r.setState(subjectID, StateClassifying)

	c, err := r.classifier.Classify(ctx, subjectID)
	switch {
	case err == nil:
		// A classification without a usable staff role counts as not staff,
		// never as silently ignored.
		if !c.Role.IsStaff() {
			r.markNotStaff(subjectID)
			return Outcome{Kind: OutcomeCustomer}
		}
		rec := r.Establish(ctx, subjectID, c.Role, c.DisplayName)
		return Outcome{Kind: OutcomeStaff, Record: rec}

	case errors.Is(err, ErrNotStaff):
		r.markNotStaff(subjectID)
		return Outcome{Kind: OutcomeCustomer}

	case errors.Is(err, ErrUnauthorized):
		// Indistinguishable from never having logged in.
		r.setState(subjectID, StateUnresolved)
		return Outcome{Kind: OutcomeAnonymous}

	default:
		r.logger.Warnw("staff classification unavailable", "subject", subjectID, "error", err)
		r.setState(subjectID, StateUnresolved)
		return Outcome{Kind: OutcomeDenied}
	}
}

// Establish writes the resolved record into both tiers so subsequent loads
// skip classification entirely.
func (r *Resolver) Establish(ctx context.Context, subjectID string, role Role, displayName string) *Record {
	rec := Record{
		SubjectID:   subjectID,
		DisplayName: displayName,
		Role:        role,
		ResolvedAt:  time.Now(),
	}

	if err := r.primary.Put(ctx, rec); err != nil {
		r.logger.Warnw("primary session store write failed", "error", err)
	}
	if r.echo != nil {
		if err := r.echo.Put(ctx, rec); err != nil {
			r.logger.Warnw("echo session store write failed", "error", err)
		}
	}

	r.mu.Lock()
	delete(r.notStaff, subjectID)
	if role.IsStaff() {
		r.states[subjectID] = StateResolvedStaff
	} else {
		r.states[subjectID] = StateResolvedCustomer
	}
	r.mu.Unlock()

	return &rec
}

// Clear removes the record from both tiers and forgets the subject's
// resolution state. Used on sign-out.
func (r *Resolver) Clear(ctx context.Context, subjectID string) {
	if err := r.primary.Delete(ctx, subjectID); err != nil {
		r.logger.Warnw("primary session store delete failed", "error", err)
	}
	if r.echo != nil {
		if err := r.echo.Delete(ctx, subjectID); err != nil {
			r.logger.Warnw("echo session store delete failed", "error", err)
		}
	}

	r.mu.Lock()
	delete(r.notStaff, subjectID)
	delete(r.states, subjectID)
	r.mu.Unlock()
}

// StateOf reports the subject's current resolution state.
func (r *Resolver) StateOf(subjectID string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states[subjectID]
}

func (r *Resolver) setState(subjectID string, s State) {
	r.mu.Lock()
	r.states[subjectID] = s
	r.mu.Unlock()
}

// markNotStaff records a terminal not-staff classification in memory only.
// It is deliberately never persisted: a fresh browser session gets one more
// chance to classify.
func (r *Resolver) markNotStaff(subjectID string) {
	r.mu.Lock()
	r.notStaff[subjectID] = time.Now()
	r.states[subjectID] = StateResolvedNotStaff
	r.mu.Unlock()
}

func (r *Resolver) isNotStaff(subjectID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.notStaff[subjectID]
	return ok
}
