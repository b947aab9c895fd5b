package app

import (
	"sort"
	"sync"

	"quizhub-service/internal/domain"
)

// LeaderboardHub fans leaderboard snapshots out to in-process subscribers,
// keyed by quiz title.
type LeaderboardHub struct {
	mu          sync.Mutex
	subscribers map[string]map[chan domain.Leaderboard]struct{}
}

func NewLeaderboardHub() *LeaderboardHub {
	return &LeaderboardHub{
		subscribers: make(map[string]map[chan domain.Leaderboard]struct{}),
	}
}

// Subscribe registers a channel for the quiz and primes it with initial.
// The caller must invoke the returned cancel function to avoid leaks.
func (h *LeaderboardHub) Subscribe(quizTitle string, initial domain.Leaderboard) (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)
	ch <- initial

	h.mu.Lock()
	subs, ok := h.subscribers[quizTitle]
	if !ok {
		subs = make(map[chan domain.Leaderboard]struct{})
		h.subscribers[quizTitle] = subs
	}
	subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs, ok := h.subscribers[quizTitle]
		if !ok {
			return
		}
		if _, ok := subs[ch]; ok {
			delete(subs, ch)
			close(ch)
		}
		if len(subs) == 0 {
			delete(h.subscribers, quizTitle)
		}
	}
	return ch, cancel
}

// Publish delivers lb to every subscriber of lb.QuizTitle. A subscriber whose
// buffer is full loses its oldest pending snapshot instead of blocking the
// publisher.
func (h *LeaderboardHub) Publish(lb domain.Leaderboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subscribers[lb.QuizTitle] {
		select {
		case ch <- lb:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
}

// Subscribers reports how many channels are registered for the quiz.
func (h *LeaderboardHub) Subscribers(quizTitle string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[quizTitle])
}

// sortLeaderboard orders entries by score desc, then by who reached the
// score earlier, then by username.
func sortLeaderboard(entries []domain.LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].Username < entries[j].Username
	})
}
