package poll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/creatorfeed/internal/domain"
	"github.com/heartmarshall/creatorfeed/internal/service/aggregate"
	"github.com/heartmarshall/creatorfeed/internal/service/mutation"
	"github.com/heartmarshall/creatorfeed/internal/service/realtime"
	"github.com/heartmarshall/creatorfeed/pkg/ctxutil"
)

// Poll is one open poll card.
type Poll struct {
	svc      *Service
	log      *slog.Logger
	postID   uuid.UUID
	def      *domain.PollDefinition
	viewer   uuid.UUID
	signedIn bool
	tally    *aggregate.Tally
	edits    *mutation.Group
	scope    *realtime.Handle

	mu       sync.Mutex
	fetching bool
	again    bool
	loading  bool
	err      error
	closed   bool
}

// Open fetches the poll of p and subscribes to its vote changes. A failed
// initial fetch is reported through State, not as an error.
func (s *Service) Open(ctx context.Context, p domain.Post) (*Poll, error) {
	if !p.HasPoll() {
		return nil, domain.NewValidationError("poll", "post has no poll")
	}

	pl := &Poll{
		svc:    s,
		log:    s.log.With("post_id", p.ID.String()),
		postID: p.ID,
		def:    p.Poll,
		tally:  s.counts.Tally(p.ID),
		edits:  s.edits.Group(),
	}
	if viewer, ok := ctxutil.UserIDFromCtx(ctx); ok {
		pl.viewer = viewer
		pl.signedIn = true
	}

	if s.hub != nil {
		scope, err := s.hub.Open(ctx, realtime.Scope{
			Name: "poll:" + p.ID.String(),
			Filter: domain.ChangeFilter{
				Table:  domain.TablePollVotes,
				Column: "post_id",
				Value:  p.ID.String(),
			},
			OnEvent: func(ctx context.Context, _ domain.ChangeEvent) { go pl.refetchLogged(ctx) },
			Resync:  pl.Refetch,
		})
		if err != nil {
			pl.edits.Close()
			return nil, fmt.Errorf("poll.Open: %w", err)
		}
		pl.scope = scope
	}

	_ = pl.Refetch(ctx)
	return pl, nil
}

// Close unsubscribes and detaches in-flight votes from the card.
func (p *Poll) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()

	p.edits.Close()
	if p.scope != nil {
		p.scope.Close()
	}
}

// State returns a consistent snapshot of the card.
func (p *Poll) State() State {
	snap := p.tally.Snapshot()
	submitting := p.edits.Busy(p.voteKey())

	p.mu.Lock()
	defer p.mu.Unlock()
	return State{
		TallySnapshot: snap,
		Phase:         phaseOf(snap.Own, submitting),
		Loading:       p.loading,
		Submitting:    submitting,
		Err:           p.err,
	}
}

// Vote casts or moves the viewer's vote to option. The tally changes
// immediately: the new option gains one and any previous option loses one.
func (p *Poll) Vote(ctx context.Context, option int) (*mutation.Ticket, error) {
	if !p.signedIn {
		return nil, domain.ErrUnauthorized
	}
	if !p.def.ValidOption(option) {
		return nil, domain.NewValidationError("option_index", fmt.Sprintf("poll has no option %d", option))
	}

	ticket, err := p.edits.Submit(ctx, mutation.Mutation{
		Key:  p.voteKey(),
		Kind: "vote",
		Apply: func() (mutation.Change, error) {
			prev := p.tally.SetOwn(option)
			return mutation.Change{
				Previous: prev,
				Pending:  option,
				// A later vote from another card owns the tally by now.
				Undo: func() { p.tally.RestoreOwn(option, prev) },
			}, nil
		},
		Remote: func(ctx context.Context) error {
			err := p.svc.votes.Upsert(ctx, p.postID, p.viewer, option)
			p.mu.Lock()
			p.err = err
			p.mu.Unlock()
			return err
		},
	})
	if err != nil {
		return nil, fmt.Errorf("poll.Vote: %w", err)
	}
	return ticket, nil
}

// Refetch replaces the tally with the backend's. Calls that arrive while a
// fetch runs are coalesced into one more fetch after it.
func (p *Poll) Refetch(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return domain.ErrDiscarded
	}
	if p.fetching {
		p.again = true
		p.mu.Unlock()
		return nil
	}
	p.fetching = true
	p.loading = true
	p.mu.Unlock()

	for {
		err := p.fetch(ctx)

		p.mu.Lock()
		if err != nil || !p.again {
			p.fetching = false
			p.again = false
			p.loading = false
			p.err = err
			p.mu.Unlock()
			return err
		}
		p.again = false
		p.mu.Unlock()
	}
}

func (p *Poll) refetchLogged(ctx context.Context) {
	err := p.Refetch(ctx)
	if err != nil && ctx.Err() == nil && !errors.Is(err, domain.ErrDiscarded) {
		p.log.WarnContext(ctx, "poll refetch failed", slog.String("error", err.Error()))
	}
}

func (p *Poll) fetch(ctx context.Context) error {
	// A vote written after this point outranks the fetched own option.
	version := p.tally.Version()

	votes, err := p.svc.votes.ListByPost(ctx, p.postID)
	if err != nil {
		return fmt.Errorf("poll.Refetch: %w", err)
	}

	others := make(map[int]int)
	serverOwn := aggregate.NoVote
	for _, v := range votes {
		if p.signedIn && v.UserID == p.viewer {
			serverOwn = v.OptionIndex
			continue
		}
		if p.def.ValidOption(v.OptionIndex) {
			others[v.OptionIndex]++
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}

	p.tally.ReplaceOthers(others)
	p.edits.IfIdle(p.voteKey(), func() { p.tally.SetOwnAt(version, serverOwn) })
	return nil
}

func (p *Poll) voteKey() domain.EditKey {
	return domain.EditKey{EntityID: p.postID, Field: domain.FieldVote}
}
