package finder

import (
	"context"
	"errors"
	"log/slog"

	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
	domainerrors "github.com/kz4killua/wikirec/internal/errors"
	"github.com/kz4killua/wikirec/internal/metrics"
	"github.com/kz4killua/wikirec/internal/service"
	"github.com/kz4killua/wikirec/internal/sse"
)

// SubmitStatus reports what a Submit call did.
type SubmitStatus string

const (
	// SubmitAccepted means a recommendation request was started.
	SubmitAccepted SubmitStatus = "accepted"
	// SubmitPending means a request was already running; nothing was started.
	SubmitPending SubmitStatus = "pending"
)

// SetQuery replaces the text typed into a slot. Fails with a conflict while
// the slot holds a selection.
func (s *Session) SetQuery(ctx context.Context, slotID int, text string) (dto.Slot, error) {
	var view dto.Slot
	var cmdErr error
	err := s.do(ctx, func() {
		st, err := s.slot(slotID)
		if err != nil {
			cmdErr = err
			return
		}
		if st.confirmed() {
			cmdErr = domainerrors.Conflict("slot already holds a selection; clear it to search again")
			return
		}
		st.setQuery(text)
		view = st.view()
	})
	return view, errors.Join(err, cmdErr)
}

// Focus marks a slot as focused once the grace delay has passed.
func (s *Session) Focus(ctx context.Context, slotID int) (dto.Slot, error) {
	return s.scheduleFocus(ctx, slotID, true)
}

// Blur marks a slot as unfocused once the grace delay has passed.
func (s *Session) Blur(ctx context.Context, slotID int) (dto.Slot, error) {
	return s.scheduleFocus(ctx, slotID, false)
}

func (s *Session) scheduleFocus(ctx context.Context, slotID int, focused bool) (dto.Slot, error) {
	var view dto.Slot
	var cmdErr error
	err := s.do(ctx, func() {
		st, err := s.slot(slotID)
		if err != nil {
			cmdErr = err
			return
		}
		st.scheduleFocus(focused)
		view = st.view()
	})
	return view, errors.Join(err, cmdErr)
}

// applyFocus runs when a focus change matures. At most one slot is focused.
func (s *Session) applyFocus(target *slotState, focused bool) {
	if focused {
		for _, other := range s.slots {
			if other != target {
				other.setFocused(false)
			}
		}
	}
	target.setFocused(focused)
}

// Confirm selects the candidate with the given page key. The key must belong
// to one of the slot's current candidates.
func (s *Session) Confirm(ctx context.Context, slotID int, key string) (dto.Slot, error) {
	var view dto.Slot
	var cmdErr error
	err := s.do(ctx, func() {
		st, err := s.slot(slotID)
		if err != nil {
			cmdErr = err
			return
		}
		if st.confirmed() {
			cmdErr = domainerrors.Conflict("slot already holds a selection; clear it first")
			return
		}
		c, ok := domain.FindCandidate(st.candidates, key)
		if !ok || key == "" {
			cmdErr = domainerrors.Validation(domain.SelectionHint)
			return
		}
		st.confirm(c)
		st.logger.Info("slot confirmed", slog.String("key", c.Key))
		view = st.view()
	})
	return view, errors.Join(err, cmdErr)
}

// Clear empties a slot, confirmed or not.
func (s *Session) Clear(ctx context.Context, slotID int) (dto.Slot, error) {
	var view dto.Slot
	var cmdErr error
	err := s.do(ctx, func() {
		st, err := s.slot(slotID)
		if err != nil {
			cmdErr = err
			return
		}
		st.clear()
		view = st.view()
	})
	return view, errors.Join(err, cmdErr)
}

// SetCategory chooses the kind of item to recommend.
func (s *Session) SetCategory(ctx context.Context, category domain.Category) error {
	if !category.Valid() {
		return domainerrors.Validationf("unknown category %q", category)
	}
	return s.do(ctx, func() {
		s.category = category
		s.touch()
	})
}

// Submit requests recommendations for the confirmed slots and the chosen
// category. The outcome arrives asynchronously as a recommendations.ready or
// recommendations.failed event. While a request is running, Submit does
// nothing and reports SubmitPending.
func (s *Session) Submit(ctx context.Context) (SubmitStatus, error) {
	var status SubmitStatus
	var cmdErr error
	err := s.do(ctx, func() {
		status, cmdErr = s.submit()
	})
	if err != nil {
		return "", err
	}
	return status, cmdErr
}

func (s *Session) submit() (SubmitStatus, error) {
	if s.loading {
		metrics.RecordSubmission(metrics.OutcomePending)
		return SubmitPending, nil
	}

	keys := s.confirmedKeys()
	category := s.category
	if err := service.Validate(keys, category); err != nil {
		metrics.RecordSubmission(metrics.OutcomeInvalid)
		s.emit(sse.NewNoticeEvent(s.id, sse.NoticeError, validationMessage(err)))
		return "", err
	}

	s.submitSeq++
	seq := s.submitSeq
	s.loading = true
	s.notice = ""
	s.touch()

	ctx, cancel := context.WithTimeout(s.ctx, s.opts.SubmitTimeout)
	s.submitCancel = cancel

	s.logger.Info("requesting recommendations",
		slog.String("category", category.String()),
		slog.Any("keys", keys))
	s.emit(sse.NewLoadingEvent(s.id, true))

	go func() {
		recs, err := s.recommender.Recommend(ctx, keys, category)
		s.post(func() { s.onRecommendations(seq, category, recs, err) })
	}()

	return SubmitAccepted, nil
}

// confirmedKeys returns the selections in slot order.
func (s *Session) confirmedKeys() []string {
	keys := make([]string, 0, len(s.slots))
	for _, st := range s.slots {
		if st.confirmed() {
			keys = append(keys, st.slot.ConfirmedKey)
		}
	}
	return keys
}

func (s *Session) onRecommendations(seq uint64, category domain.Category, recs []domain.Recommendation, err error) {
	if seq != s.submitSeq {
		return
	}

	if s.submitCancel != nil {
		s.submitCancel()
		s.submitCancel = nil
	}
	s.loading = false
	s.touch()
	s.emit(sse.NewLoadingEvent(s.id, false))

	if err != nil {
		metrics.RecordSubmission(metrics.OutcomeError)
		s.logger.Warn("recommendation request failed",
			slog.String("code", string(domainerrors.CodeOf(err))),
			slog.String("error", err.Error()),
		)
		s.notice = MsgSubmitFailed
		s.emit(sse.NewRecommendationsFailedEvent(s.id, MsgSubmitFailed))
		return
	}

	metrics.RecordSubmission(metrics.OutcomeOK)
	s.results = dto.NewResults(category, recs)
	s.logger.Info("recommendations ready", slog.Int("count", len(recs)))
	s.emit(sse.NewRecommendationsReadyEvent(s.id, s.results))
}

func validationMessage(err error) string {
	var domainErr *domainerrors.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}

// Snapshot returns the full state of the session.
func (s *Session) Snapshot(ctx context.Context) (dto.Session, error) {
	var snap dto.Session
	err := s.do(ctx, func() {
		snap = s.snapshot()
	})
	return snap, err
}

func (s *Session) snapshot() dto.Session {
	snap := dto.Session{
		ID:        s.id,
		Category:  s.category,
		Loading:   s.loading,
		Results:   s.results,
		Notice:    s.notice,
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
		Slots:     make([]dto.Slot, 0, len(s.slots)),
	}
	if s.category.Valid() {
		snap.CategoryLabel = s.category.Label()
	}
	for _, st := range s.slots {
		snap.Slots = append(snap.Slots, st.view())
	}
	return snap
}

// Result looks up one item of the current results.
func (s *Session) Result(ctx context.Context, itemID string) (dto.ResultItem, error) {
	var item dto.ResultItem
	var found bool
	err := s.do(ctx, func() {
		item, found = s.results.Item(itemID)
	})
	if err != nil {
		return dto.ResultItem{}, err
	}
	if !found {
		return dto.ResultItem{}, domainerrors.NotFoundf("result %q not found", itemID)
	}
	return item, nil
}
