package finder

import (
	"context"
	"log/slog"
	"time"

	"github.com/kz4killua/wikirec/internal/debounce"
	"github.com/kz4killua/wikirec/internal/domain"
	"github.com/kz4killua/wikirec/internal/dto"
	"github.com/kz4killua/wikirec/internal/metrics"
	"github.com/kz4killua/wikirec/internal/normalize"
	"github.com/kz4killua/wikirec/internal/sse"
)

// slotState is the loop-owned state behind one preference slot.
type slotState struct {
	session   *Session
	logger    *slog.Logger
	debouncer *debounce.Debouncer[string]

	searchCancel context.CancelFunc
	focusTimer   *time.Timer

	// query is the raw input text; normalized is what gets searched.
	query      string
	normalized string
	candidates []domain.Candidate
	slot       domain.Slot

	// seq identifies the latest issued search. Bumped on every search and
	// on anything that invalidates one.
	seq      uint64
	focusGen uint64

	inFlight bool
	focused  bool
}

func newSlotState(s *Session, slot domain.Slot) *slotState {
	st := &slotState{
		session: s,
		slot:    slot,
		logger:  s.logger.With(slog.Int("slot", slot.ID)),
	}
	st.debouncer = debounce.New(s.opts.DebounceWindow, func(query string, gen uint64) {
		s.post(func() { st.onQuiet(query, gen) })
	})
	return st
}

func (st *slotState) confirmed() bool {
	return st.slot.Confirmed()
}

// setQuery records new input and restarts the quiet window.
func (st *slotState) setQuery(text string) {
	st.query = text
	st.normalized = normalize.Query(text)
	st.debouncer.Trigger(st.normalized)
	st.changed()
}

// onQuiet runs when the input has been still for the debounce window.
func (st *slotState) onQuiet(query string, gen uint64) {
	if !st.debouncer.IsCurrent(gen) || st.confirmed() || query != st.normalized {
		return
	}

	if query == "" {
		st.invalidate()
		st.candidates = nil
		st.changed()
		return
	}

	st.search(query)
}

func (st *slotState) search(query string) {
	st.invalidate()
	seq := st.seq

	s := st.session
	ctx, cancel := context.WithTimeout(s.ctx, s.opts.SearchTimeout)
	st.searchCancel = cancel
	st.inFlight = true

	st.logger.Debug("searching titles", slog.String("query", query), slog.Uint64("seq", seq))

	go func() {
		candidates, err := s.searcher.Search(ctx, query, s.opts.SearchLimit)
		s.post(func() { st.onResults(seq, query, candidates, err) })
	}()
}

// onResults applies a search response if it still answers the current query.
func (st *slotState) onResults(seq uint64, query string, candidates []domain.Candidate, err error) {
	if seq != st.seq || st.confirmed() || query != st.normalized {
		metrics.StaleResponses.Inc()
		st.logger.Debug("discarding stale search response",
			slog.String("query", query),
			slog.Uint64("seq", seq),
			slog.Uint64("current_seq", st.seq))
		return
	}

	if st.searchCancel != nil {
		st.searchCancel()
		st.searchCancel = nil
	}
	st.inFlight = false

	if err != nil {
		// A failed search reads as no results; the next keystroke retries.
		st.logger.Warn("title search failed", slog.String("query", query), slog.String("error", err.Error()))
		candidates = nil
	}
	st.candidates = candidates
	st.changed()
}

// invalidate makes any in-flight search stale and cancels it.
func (st *slotState) invalidate() {
	st.seq++
	if st.searchCancel != nil {
		st.searchCancel()
		st.searchCancel = nil
	}
	st.inFlight = false
}

// confirm records c and drops every trace of the search that produced it.
func (st *slotState) confirm(c domain.Candidate) {
	st.debouncer.Cancel()
	st.invalidate()
	st.slot.Confirm(c)
	st.candidates = nil
	st.query = c.Title
	st.normalized = ""
	st.changed()
}

func (st *slotState) clear() {
	st.debouncer.Cancel()
	st.invalidate()
	st.slot.Clear()
	st.candidates = nil
	st.query = ""
	st.normalized = ""
	st.changed()
}

// scheduleFocus applies a focus change after the grace delay. A later call
// supersedes an earlier one that has not applied yet.
func (st *slotState) scheduleFocus(focused bool) {
	st.focusGen++
	gen := st.focusGen
	if st.focusTimer != nil {
		st.focusTimer.Stop()
	}

	s := st.session
	st.focusTimer = time.AfterFunc(s.opts.FocusGrace, func() {
		s.post(func() {
			if gen != st.focusGen {
				return
			}
			st.focusTimer = nil
			s.applyFocus(st, focused)
		})
	})
}

func (st *slotState) setFocused(focused bool) {
	if st.focused == focused {
		return
	}
	st.focused = focused
	st.changed()
}

// stop releases timers and in-flight work when the session ends.
func (st *slotState) stop() {
	st.debouncer.Cancel()
	st.invalidate()
	st.focusGen++
	if st.focusTimer != nil {
		st.focusTimer.Stop()
		st.focusTimer = nil
	}
}

func (st *slotState) changed() {
	st.session.touch()
	st.session.emit(sse.NewSlotUpdatedEvent(st.session.id, st.view()))
}

func (st *slotState) view() dto.Slot {
	v := dto.Slot{
		ID:             st.slot.ID,
		Placeholder:    st.slot.Placeholder,
		Query:          st.query,
		Candidates:     append([]domain.Candidate{}, st.candidates...),
		Focused:        st.focused,
		ConfirmedKey:   st.slot.ConfirmedKey,
		ConfirmedTitle: st.slot.ConfirmedTitle,
	}

	switch {
	case st.confirmed():
		v.State = domain.SlotConfirmed
		v.Query = st.slot.ConfirmedTitle
		v.Candidates = []domain.Candidate{}
	case st.normalized == "":
		v.State = domain.SlotEmpty
	case st.debouncer.Pending() || st.inFlight:
		v.State = domain.SlotSearching
		v.Searching = true
	default:
		v.State = domain.SlotBrowsing
	}

	if !st.confirmed() {
		v.ShowCandidates = st.focused && len(v.Candidates) > 0
		if !st.focused && st.query != "" {
			v.Hint = domain.SelectionHint
		}
	}
	return v
}
