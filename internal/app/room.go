package app

import (
	"sort"
	"sync"
	"time"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
	"github.com/google/uuid"
)

// AdvanceOutcome reports what an advancement evaluation did. The evaluation
// is idempotent: redundant invocations from the answer path and the timer
// path observe fresh state and resolve to a no-op.
type AdvanceOutcome int

const (
	// AdvanceSkipped means the room is missing, deleted, or not active.
	AdvanceSkipped AdvanceOutcome = iota
	// AdvanceWaiting means neither all-answered nor timed-out held yet.
	AdvanceWaiting
	// Advanced means the question pointer moved to the next question.
	Advanced
	// Finished means the last question resolved and the room is terminal.
	Finished
)

// LeaveOutcome is the exhaustive three-way result of a player leaving.
type LeaveOutcome int

const (
	Left LeaveOutcome = iota
	LeftHostMigrated
	LeftRoomDeleted
)

// Room is the in-memory aggregate for one multiplayer session. Its mutex
// linearizes every read-decide-write cycle, so concurrent answer
// submissions and the timeout callback can never double-advance the
// question pointer.
type Room struct {
	id            string
	code          string
	quizID        string
	questionCount int
	createdAt     time.Time
	now           func() time.Time

	mu          sync.RWMutex
	hostID      string
	status      domain.RoomStatus
	current     int
	startedAt   *time.Time
	players     map[string]*domain.Player
	profiles    map[string]domain.Profile
	subscribers map[chan domain.RoomUpdate]struct{}
	closed      bool
}

func newRoom(code string, quiz domain.Quiz, now func() time.Time) *Room {
	return &Room{
		id:            uuid.NewString(),
		code:          code,
		quizID:        quiz.ID,
		questionCount: len(quiz.Questions),
		createdAt:     now(),
		now:           now,
		status:        domain.RoomWaiting,
		current:       -1,
		players:       make(map[string]*domain.Player),
		profiles:      make(map[string]domain.Profile),
		subscribers:   make(map[chan domain.RoomUpdate]struct{}),
	}
}

// NewRoom is exported for infrastructure layers that need to seed rooms.
func NewRoom(code string, quiz domain.Quiz) *Room {
	return newRoom(code, quiz, time.Now)
}

func (r *Room) ID() string     { return r.id }
func (r *Room) Code() string   { return r.code }
func (r *Room) QuizID() string { return r.quizID }

// HostID returns the current host's user ID.
func (r *Room) HostID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.hostID
}

// Status returns the current lifecycle phase.
func (r *Room) Status() domain.RoomStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

// join adds the caller as a player, or reports alreadyIn for an idempotent
// re-join. The first joiner becomes host.
func (r *Room) join(userID, signalingID string, profile domain.Profile) (alreadyIn bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p, ok := r.players[userID]; ok {
		if signalingID != "" {
			p.SignalingID = signalingID
		}
		r.profiles[userID] = profile
		return true, nil
	}
	if r.status != domain.RoomWaiting {
		return false, domain.ErrRoomClosed
	}

	isHost := len(r.players) == 0
	r.players[userID] = &domain.Player{
		ID:          uuid.NewString(),
		RoomID:      r.id,
		UserID:      userID,
		IsHost:      isHost,
		JoinedAt:    r.now(),
		SignalingID: signalingID,
	}
	r.profiles[userID] = profile
	if isHost {
		r.hostID = userID
	}
	r.broadcastLocked()
	return false, nil
}

// start moves the room from waiting to active and seeds question zero.
func (r *Room) start(callerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if callerID != r.hostID {
		return domain.ErrForbidden
	}
	if r.status != domain.RoomWaiting {
		return domain.ErrRoomNotWaiting
	}

	now := r.now()
	r.status = domain.RoomActive
	r.current = 0
	r.startedAt = &now
	for _, p := range r.players {
		p.HasAnsweredCurrentQuestion = false
	}
	r.broadcastLocked()
	return nil
}

// leave removes the caller and resolves exactly one of the three outcomes:
// room deleted (last player out), host migrated (earliest remaining joiner
// promoted), or a plain leave.
func (r *Room) leave(callerID string) (LeaveOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	departing, ok := r.players[callerID]
	if !ok {
		return Left, domain.ErrNotAMember
	}
	delete(r.players, callerID)
	delete(r.profiles, callerID)

	if len(r.players) == 0 {
		r.closeLocked()
		return LeftRoomDeleted, nil
	}

	if departing.IsHost {
		successor := r.earliestJoinerLocked()
		successor.IsHost = true
		r.hostID = successor.UserID
		r.broadcastLocked()
		return LeftHostMigrated, nil
	}

	r.broadcastLocked()
	return Left, nil
}

func (r *Room) earliestJoinerLocked() *domain.Player {
	var successor *domain.Player
	for _, p := range r.players {
		if successor == nil || p.JoinedAt.Before(successor.JoinedAt) ||
			(p.JoinedAt.Equal(successor.JoinedAt) && p.UserID < successor.UserID) {
			successor = p
		}
	}
	return successor
}

// submitAnswer validates, records, and scores an answer, then evaluates
// advancement in the same critical section. The submission that completes
// the answer set is what triggers the transition.
func (r *Room) submitAnswer(callerID string, questionIndex, selectedIndex int, timeTakenMs int64, quiz domain.Quiz) (*domain.AnswerResult, AdvanceOutcome, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != domain.RoomActive {
		return nil, AdvanceSkipped, 0, domain.ErrQuizNotActive
	}
	if questionIndex != r.current {
		return nil, AdvanceSkipped, 0, domain.ErrStaleSubmission
	}
	player, ok := r.players[callerID]
	if !ok {
		return nil, AdvanceSkipped, 0, domain.ErrNotAMember
	}
	if player.HasAnsweredCurrentQuestion {
		return nil, AdvanceSkipped, 0, domain.ErrAlreadyAnswered
	}

	question := quiz.Questions[questionIndex]
	correct := selectedIndex == question.CorrectOptionIndex
	awarded := 0
	if correct {
		awarded = CorrectAnswerPoints
	}

	player.Answers = append(player.Answers, domain.AnswerRecord{
		QuestionIndex: questionIndex,
		SelectedIndex: selectedIndex,
		IsCorrect:     correct,
		TimeTakenMs:   timeTakenMs,
		AnsweredAt:    r.now(),
	})
	player.Score += awarded
	player.HasAnsweredCurrentQuestion = true

	result := &domain.AnswerResult{
		QuestionIndex: questionIndex,
		IsCorrect:     correct,
		Awarded:       awarded,
		TotalScore:    player.Score,
	}

	outcome, next := r.advanceLocked()
	if outcome == AdvanceWaiting {
		r.broadcastLocked()
	}
	return result, outcome, next, nil
}

// handleTimeout is the scheduled-callback entry point. A room that already
// advanced past expectedIndex, or is no longer active, makes this a no-op:
// it must never roll back or duplicate an advancement.
func (r *Room) handleTimeout(expectedIndex int) (AdvanceOutcome, int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || r.status != domain.RoomActive || r.current != expectedIndex {
		return AdvanceSkipped, 0
	}
	return r.advanceLocked()
}

// advanceLocked evaluates the shared advancement condition. Callers hold
// the write lock, so at most one invocation per question observes the
// condition as met.
func (r *Room) advanceLocked() (AdvanceOutcome, int) {
	if r.status != domain.RoomActive {
		return AdvanceSkipped, 0
	}

	allAnswered := true
	for _, p := range r.players {
		if !p.HasAnsweredCurrentQuestion {
			allAnswered = false
			break
		}
	}
	timedOut := r.startedAt != nil && !r.now().Before(r.startedAt.Add(QuestionTimeout))
	if !allAnswered && !timedOut {
		return AdvanceWaiting, 0
	}

	next := r.current + 1
	if next < r.questionCount {
		now := r.now()
		r.current = next
		r.startedAt = &now
		for _, p := range r.players {
			p.HasAnsweredCurrentQuestion = false
		}
		r.broadcastLocked()
		return Advanced, next
	}

	r.status = domain.RoomFinished
	r.startedAt = nil
	r.broadcastLocked()
	return Finished, 0
}

// close tears the room down and drops all subscribers.
func (r *Room) close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closeLocked()
}

func (r *Room) closeLocked() {
	if r.closed {
		return
	}
	r.closed = true
	for ch := range r.subscribers {
		delete(r.subscribers, ch)
		close(ch)
	}
}

func (r *Room) subscribe() (<-chan domain.RoomUpdate, func()) {
	ch := make(chan domain.RoomUpdate, 8)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	r.subscribers[ch] = struct{}{}
	// The channel is fresh with spare capacity, so this send cannot block.
	// It must happen under the lock: once the lock is released, a teardown
	// may close the channel.
	ch <- r.updateLocked()
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel
}

func (r *Room) broadcastLocked() {
	update := r.updateLocked()
	for ch := range r.subscribers {
		select {
		case ch <- update:
		default:
			// Drop the stale update so a slow client never blocks the room.
			select {
			case <-ch:
			default:
			}
			ch <- update
		}
	}
}

func (r *Room) updateLocked() domain.RoomUpdate {
	return domain.RoomUpdate{
		RoomID:                   r.id,
		Code:                     r.code,
		Status:                   r.status,
		HostID:                   r.hostID,
		CurrentQuestionIndex:     r.current,
		CurrentQuestionStartedAt: r.startedAt,
		Scoreboard:               r.scoreboardLocked(),
		UpdatedAt:                r.now(),
	}
}

// scoreboardLocked lists players in join order. It exposes scores and
// answered flags but never another player's selected answers.
func (r *Room) scoreboardLocked() []domain.ScoreboardEntry {
	ordered := r.playersByJoinLocked()
	entries := make([]domain.ScoreboardEntry, 0, len(ordered))
	for _, p := range ordered {
		entries = append(entries, domain.ScoreboardEntry{
			UserID:                     p.UserID,
			Username:                   r.usernameLocked(p.UserID),
			Score:                      p.Score,
			IsHost:                     p.IsHost,
			HasAnsweredCurrentQuestion: p.HasAnsweredCurrentQuestion,
		})
	}
	return entries
}

func (r *Room) playersByJoinLocked() []*domain.Player {
	ordered := make([]*domain.Player, 0, len(r.players))
	for _, p := range r.players {
		ordered = append(ordered, p)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].JoinedAt.Equal(ordered[j].JoinedAt) {
			return ordered[i].JoinedAt.Before(ordered[j].JoinedAt)
		}
		return ordered[i].UserID < ordered[j].UserID
	})
	return ordered
}

func (r *Room) usernameLocked(userID string) string {
	if profile, ok := r.profiles[userID]; ok && profile.Username != "" {
		return profile.Username
	}
	return userID
}

// lobbyPlayers is the pre-game roster: identities only, no progress.
func (r *Room) lobbyPlayers() []domain.LobbyPlayer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ordered := r.playersByJoinLocked()
	players := make([]domain.LobbyPlayer, 0, len(ordered))
	for _, p := range ordered {
		profile := r.profiles[p.UserID]
		players = append(players, domain.LobbyPlayer{
			UserID:      p.UserID,
			Username:    r.usernameLocked(p.UserID),
			AvatarURL:   profile.AvatarURL,
			IsHost:      p.IsHost,
			JoinedAt:    p.JoinedAt,
			SignalingID: p.SignalingID,
		})
	}
	return players
}

// playState assembles the caller-specific in-game snapshot.
func (r *Room) playState(callerID string) (domain.SelfView, []domain.ScoreboardEntry, domain.RoomStatus, string, int, *time.Time, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[callerID]
	if !ok {
		return domain.SelfView{}, nil, "", "", 0, nil, domain.ErrNotAMember
	}
	self := domain.SelfView{
		Score:                      player.Score,
		HasAnsweredCurrentQuestion: player.HasAnsweredCurrentQuestion,
	}
	return self, r.scoreboardLocked(), r.status, r.hostID, r.current, r.startedAt, nil
}

// results lists final standings sorted by score descending, username
// ascending as the deterministic tie-break.
func (r *Room) results() []domain.ResultEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.ResultEntry, 0, len(r.players))
	for _, p := range r.players {
		entries = append(entries, domain.ResultEntry{
			UserID:   p.UserID,
			Username: r.usernameLocked(p.UserID),
			Score:    p.Score,
			IsHost:   p.IsHost,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Username < entries[j].Username
	})
	return entries
}
