package app

import (
	"sort"
	"sync"
	"time"

	"waffles-trivia-service/internal/domain"
	"waffles-trivia-service/internal/scoring"
)

// Session is an in-memory representation of a running game.
type Session struct {
	id           string
	createdAt    time.Time
	now          func() time.Time
	mu           sync.RWMutex
	participants map[string]*domain.Participant
	subscribers  map[chan domain.Leaderboard]struct{}
}

// scoreFunc is evaluated under the session lock with the participant's
// current streak.
type scoreFunc func(streak int) (int, *scoring.Breakdown, error)

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:           id,
		createdAt:    now(),
		now:          now,
		participants: make(map[string]*domain.Participant),
		subscribers:  make(map[chan domain.Leaderboard]struct{}),
	}
}

func (s *Session) join(userID, displayName string) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if participant, ok := s.participants[userID]; ok {
		participant.DisplayName = displayName
		participant.LastUpdated = now
	} else {
		s.participants[userID] = &domain.Participant{
			UserID:      userID,
			DisplayName: displayName,
			Answered:    make(map[string]struct{}),
			LastUpdated: now,
		}
	}
	return s.broadcastLocked()
}

// answer scores and applies one answer. Nothing changes when score fails.
func (s *Session) answer(userID, questionID string, correct bool, score scoreFunc) (domain.Leaderboard, domain.AnswerResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	participant, ok := s.participants[userID]
	if !ok {
		return domain.Leaderboard{}, domain.AnswerResult{}, domain.ErrParticipantNotFound
	}
	if _, done := participant.Answered[questionID]; done {
		return domain.Leaderboard{}, domain.AnswerResult{}, domain.ErrAlreadyAnswered
	}

	awarded, breakdown, err := score(participant.Streak)
	if err != nil {
		return domain.Leaderboard{}, domain.AnswerResult{}, err
	}

	participant.Answered[questionID] = struct{}{}
	if correct {
		participant.Streak++
		if participant.Streak > participant.BestStreak {
			participant.BestStreak = participant.Streak
		}
	} else {
		participant.Streak = 0
	}
	participant.Score += awarded
	participant.LastUpdated = s.now()

	result := domain.AnswerResult{
		QuestionID: questionID,
		Correct:    correct,
		Awarded:    awarded,
		TotalScore: participant.Score,
		Streak:     participant.Streak,
		Breakdown:  breakdown,
	}
	return s.broadcastLocked(), result, nil
}

func (s *Session) streak(userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	participant, ok := s.participants[userID]
	if !ok {
		return 0, domain.ErrParticipantNotFound
	}
	return participant.Streak, nil
}

func (s *Session) leave(userID string) domain.Leaderboard {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.participants, userID)
	return s.broadcastLocked()
}

func (s *Session) isEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.participants) == 0
}

// IsEmpty reports whether the session has no participants.
func (s *Session) IsEmpty() bool {
	return s.isEmpty()
}

func (s *Session) subscribe() (<-chan domain.Leaderboard, func()) {
	ch := make(chan domain.Leaderboard, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.Leaderboard {
	lb := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- lb:
		default:
			// Slow subscriber: drop its oldest update so broadcast never blocks.
			select {
			case <-ch:
			default:
			}
			ch <- lb
		}
	}
	return lb
}

func (s *Session) snapshotLocked() domain.Leaderboard {
	entries := make([]domain.LeaderboardEntry, 0, len(s.participants))
	for _, participant := range s.participants {
		entries = append(entries, domain.LeaderboardEntry{
			UserID:      participant.UserID,
			DisplayName: participant.DisplayName,
			Score:       participant.Score,
			Streak:      participant.Streak,
		})
	}

	// Score desc, then whoever reached it first, then name.
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		pi := s.participants[entries[i].UserID]
		pj := s.participants[entries[j].UserID]
		if pi != nil && pj != nil && !pi.LastUpdated.Equal(pj.LastUpdated) {
			return pi.LastUpdated.Before(pj.LastUpdated)
		}
		return entries[i].DisplayName < entries[j].DisplayName
	})

	return domain.Leaderboard{
		QuizID:    s.id,
		Entries:   entries,
		UpdatedAt: s.now(),
	}
}
