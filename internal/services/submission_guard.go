package services

import (
	"errors"
	"sync"
)

// ErrSubmissionInFlight is returned when a submission for the same learner
// and lesson is already being evaluated
var ErrSubmissionInFlight = errors.New("submission already in progress")

type guardKey struct {
	learnerID int
	lessonID  int
}

// submissionGuard rejects concurrent duplicate submissions for the same
// (learner, lesson) pair so the model is not invoked twice for one unlock
type submissionGuard struct {
	mu       sync.Mutex
	inflight map[guardKey]struct{}
}

func newSubmissionGuard() *submissionGuard {
	return &submissionGuard{
		inflight: make(map[guardKey]struct{}),
	}
}

// tryAcquire reserves the (learner, lesson) pair. Returns false if a
// submission for the pair is already in flight.
func (g *submissionGuard) tryAcquire(learnerID, lessonID int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	key := guardKey{learnerID: learnerID, lessonID: lessonID}
	if _, ok := g.inflight[key]; ok {
		return false
	}
	g.inflight[key] = struct{}{}
	return true
}

// release frees the (learner, lesson) pair
func (g *submissionGuard) release(learnerID, lessonID int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, guardKey{learnerID: learnerID, lessonID: lessonID})
}
