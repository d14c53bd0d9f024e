package app_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/app"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/infra/memory"
)

func TestCreateAndJoinRoom(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, err := svc.CreateRoom(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if len(created.Code) != 6 {
		t.Fatalf("expected 6-char code, got %q", created.Code)
	}

	joined, err := svc.JoinRoom(ctx, created.Code, "u2", "sig-2")
	if err != nil {
		t.Fatalf("join room: %v", err)
	}
	if joined.AlreadyInRoom {
		t.Fatalf("first join should not report alreadyInRoom")
	}

	again, err := svc.JoinRoom(ctx, created.Code, "u2", "")
	if err != nil {
		t.Fatalf("repeat join: %v", err)
	}
	if !again.AlreadyInRoom {
		t.Fatalf("repeat join should be idempotent")
	}

	lobby, err := svc.Lobby(ctx, created.RoomID, "u1")
	if err != nil {
		t.Fatalf("lobby: %v", err)
	}
	if len(lobby.Players) != 2 {
		t.Fatalf("expected 2 players, got %d", len(lobby.Players))
	}
	hosts := 0
	for _, p := range lobby.Players {
		if p.IsHost {
			hosts++
		}
	}
	if hosts != 1 {
		t.Fatalf("expected exactly one host, got %d", hosts)
	}
	if lobby.Players[0].UserID != "u1" || !lobby.Players[0].IsHost {
		t.Fatalf("creator should be first and host, got %+v", lobby.Players[0])
	}
	if lobby.QuestionCount != 2 {
		t.Fatalf("expected question count 2, got %d", lobby.QuestionCount)
	}
}

func TestJoinRoomLowercaseCode(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, err := svc.CreateRoom(ctx, "quiz-1", "u1")
	if err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := svc.JoinRoom(ctx, strings.ToLower(created.Code), "u2", ""); err != nil {
		t.Fatalf("lowercase join should resolve: %v", err)
	}
}

func TestJoinRoomFailures(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	if _, err := svc.JoinRoom(ctx, "NOSUCH", "u1", ""); err != domain.ErrRoomNotFound {
		t.Fatalf("expected room not found, got %v", err)
	}

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	if err := svc.StartRoom(ctx, created.RoomID, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := svc.JoinRoom(ctx, created.Code, "u2", ""); err != domain.ErrRoomClosed {
		t.Fatalf("expected room closed, got %v", err)
	}

	if _, err := svc.JoinRoom(ctx, created.Code, "", ""); err != domain.ErrUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}

func TestStartRoomAuthorization(t *testing.T) {
	ctx := context.Background()
	svc, _, sched := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")

	if err := svc.StartRoom(ctx, created.RoomID, "u2"); err != domain.ErrForbidden {
		t.Fatalf("expected forbidden for non-host, got %v", err)
	}
	if err := svc.StartRoom(ctx, created.RoomID, "u1"); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := svc.StartRoom(ctx, created.RoomID, "u1"); err != domain.ErrRoomNotWaiting {
		t.Fatalf("expected not-waiting on double start, got %v", err)
	}

	if got := sched.lastFor(created.RoomID); got != 0 {
		t.Fatalf("expected timer armed for question 0, got %d", got)
	}

	play, err := svc.Play(ctx, created.RoomID, "u1")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if play.Status != domain.RoomActive || play.CurrentQuestionIndex != 0 {
		t.Fatalf("expected active at question 0, got %s/%d", play.Status, play.CurrentQuestionIndex)
	}
	if play.CurrentQuestionStartedAt == nil {
		t.Fatalf("expected question start timestamp")
	}
}

func TestAnswerFlowAdvancesWhenAllAnswered(t *testing.T) {
	ctx := context.Background()
	svc, _, sched := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")
	_ = svc.StartRoom(ctx, created.RoomID, "u1")

	res, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 4000, "u1")
	if err != nil {
		t.Fatalf("submit u1: %v", err)
	}
	if !res.IsCorrect || res.Awarded != 10 || res.TotalScore != 10 {
		t.Fatalf("expected correct answer worth 10, got %+v", res)
	}

	// Room must not advance until the full set is in.
	play, _ := svc.Play(ctx, created.RoomID, "u1")
	if play.CurrentQuestionIndex != 0 {
		t.Fatalf("expected still on question 0, got %d", play.CurrentQuestionIndex)
	}

	res, err = svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 5000, "u2")
	if err != nil {
		t.Fatalf("submit u2: %v", err)
	}
	if !res.IsCorrect {
		t.Fatalf("expected correct answer, got %+v", res)
	}

	play, _ = svc.Play(ctx, created.RoomID, "u2")
	if play.CurrentQuestionIndex != 1 {
		t.Fatalf("expected advance to question 1, got %d", play.CurrentQuestionIndex)
	}
	if play.Self.HasAnsweredCurrentQuestion {
		t.Fatalf("answered flag should reset on advance")
	}
	if got := sched.lastFor(created.RoomID); got != 1 {
		t.Fatalf("expected timer re-armed for question 1, got %d", got)
	}
}

func TestSubmitAnswerPreconditions(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")

	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 100, "u1"); err != domain.ErrQuizNotActive {
		t.Fatalf("expected quiz-not-active before start, got %v", err)
	}

	_ = svc.StartRoom(ctx, created.RoomID, "u1")

	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 1, 1, 100, "u1"); err != domain.ErrStaleSubmission {
		t.Fatalf("expected stale submission for wrong index, got %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 100, "intruder"); err != domain.ErrNotAMember {
		t.Fatalf("expected not-a-member, got %v", err)
	}

	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 0, 100, "u1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 100, "u1"); err != domain.ErrAlreadyAnswered {
		t.Fatalf("expected already-answered, got %v", err)
	}

	// The rejected duplicate must not mutate score or the answer log.
	play, _ := svc.Play(ctx, created.RoomID, "u1")
	if play.Self.Score != 0 {
		t.Fatalf("duplicate submit mutated score: %d", play.Self.Score)
	}
}

func TestTimeoutAdvancesWithMissingAnswers(t *testing.T) {
	ctx := context.Background()
	svc, clock, sched := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")
	_ = svc.StartRoom(ctx, created.RoomID, "u1")

	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 3000, "u1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// Early fire: neither all-answered nor timed out, so nothing moves.
	svc.HandleQuestionTimeout(created.RoomID, 0)
	play, _ := svc.Play(ctx, created.RoomID, "u1")
	if play.CurrentQuestionIndex != 0 {
		t.Fatalf("premature advance to %d", play.CurrentQuestionIndex)
	}

	clock.Advance(app.QuestionTimeout)
	svc.HandleQuestionTimeout(created.RoomID, 0)

	play, _ = svc.Play(ctx, created.RoomID, "u2")
	if play.CurrentQuestionIndex != 1 {
		t.Fatalf("expected timeout advance to question 1, got %d", play.CurrentQuestionIndex)
	}
	// The silent player keeps their score; no retroactive answer appears.
	if play.Self.Score != 0 {
		t.Fatalf("non-answering player's score changed: %d", play.Self.Score)
	}
	if got := sched.lastFor(created.RoomID); got != 1 {
		t.Fatalf("expected re-arm for question 1, got %d", got)
	}

	// A stale duplicate fire for question 0 must be a no-op.
	svc.HandleQuestionTimeout(created.RoomID, 0)
	play, _ = svc.Play(ctx, created.RoomID, "u1")
	if play.CurrentQuestionIndex != 1 {
		t.Fatalf("stale timeout moved the room to %d", play.CurrentQuestionIndex)
	}
}

func TestFinishOnLastQuestion(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")
	_ = svc.StartRoom(ctx, created.RoomID, "u1")

	for _, user := range []string{"u1", "u2"} {
		if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 1000, user); err != nil {
			t.Fatalf("submit q0 %s: %v", user, err)
		}
	}
	for _, user := range []string{"u1", "u2"} {
		if _, err := svc.SubmitAnswer(ctx, created.RoomID, 1, 0, 1000, user); err != nil {
			t.Fatalf("submit q1 %s: %v", user, err)
		}
	}

	play, err := svc.Play(ctx, created.RoomID, "u1")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if play.Status != domain.RoomFinished {
		t.Fatalf("expected finished, got %s", play.Status)
	}
	if play.CurrentQuestionStartedAt != nil {
		t.Fatalf("expected question timestamp cleared on finish")
	}

	// A timeout left over from the last question fires into a no-op.
	svc.HandleQuestionTimeout(created.RoomID, 1)
	play, _ = svc.Play(ctx, created.RoomID, "u1")
	if play.Status != domain.RoomFinished {
		t.Fatalf("stale timeout changed status to %s", play.Status)
	}

	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 1, 0, 1000, "u1"); err != domain.ErrQuizNotActive {
		t.Fatalf("expected quiz-not-active after finish, got %v", err)
	}
}

func TestConcurrentFinalAnswersAdvanceOnce(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	users := []string{"u2", "u3", "u4", "u5"}
	for _, u := range users {
		if _, err := svc.JoinRoom(ctx, created.Code, u, ""); err != nil {
			t.Fatalf("join %s: %v", u, err)
		}
	}
	_ = svc.StartRoom(ctx, created.RoomID, "u1")

	for _, u := range []string{"u1", "u2", "u3", "u4"} {
		if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 1000, u); err != nil {
			t.Fatalf("submit %s: %v", u, err)
		}
	}

	// The last-needed answer races against several timeout fires; the
	// advancement must land exactly once.
	clock.Advance(app.QuestionTimeout)
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		_, _ = svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 1500, "u5")
	}()
	for i := 0; i < 3; i++ {
		go func() {
			defer wg.Done()
			svc.HandleQuestionTimeout(created.RoomID, 0)
		}()
	}
	wg.Wait()

	play, err := svc.Play(ctx, created.RoomID, "u1")
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if play.CurrentQuestionIndex != 1 {
		t.Fatalf("expected exactly one advance to question 1, got %d", play.CurrentQuestionIndex)
	}
	if play.Status != domain.RoomActive {
		t.Fatalf("expected still active, got %s", play.Status)
	}
}

func TestHostMigrationOnLeave(t *testing.T) {
	ctx := context.Background()
	svc, clock, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	clock.Advance(time.Second)
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")
	clock.Advance(time.Second)
	_, _ = svc.JoinRoom(ctx, created.Code, "u3", "")

	outcome, err := svc.LeaveRoom(ctx, created.RoomID, "u1")
	if err != nil {
		t.Fatalf("host leave: %v", err)
	}
	if outcome != app.LeftHostMigrated {
		t.Fatalf("expected host migration, got %v", outcome)
	}

	lobby, _ := svc.Lobby(ctx, created.RoomID, "u2")
	if lobby.HostID != "u2" {
		t.Fatalf("expected earliest joiner u2 promoted, got %s", lobby.HostID)
	}
	hosts := 0
	for _, p := range lobby.Players {
		if p.IsHost {
			hosts++
		}
	}
	if hosts != 1 {
		t.Fatalf("expected exactly one host after migration, got %d", hosts)
	}
}

func TestLastPlayerLeaveDeletesRoom(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")

	outcome, err := svc.LeaveRoom(ctx, created.RoomID, "u1")
	if err != nil {
		t.Fatalf("leave: %v", err)
	}
	if outcome != app.LeftRoomDeleted {
		t.Fatalf("expected room deletion, got %v", outcome)
	}

	if _, err := svc.JoinRoom(ctx, created.Code, "u2", ""); err != domain.ErrRoomNotFound {
		t.Fatalf("expected not found after deletion, got %v", err)
	}
	if _, err := svc.Lobby(ctx, created.RoomID, "u2"); err != domain.ErrRoomNotFound {
		t.Fatalf("expected lobby not found, got %v", err)
	}
}

func TestLeaveRoomRequiresMembership(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	if _, err := svc.LeaveRoom(ctx, created.RoomID, "stranger"); err != domain.ErrNotAMember {
		t.Fatalf("expected not-a-member, got %v", err)
	}
}

func TestDeleteRoomHostOnly(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "")

	if err := svc.DeleteRoom(ctx, created.RoomID, "u2"); err != domain.ErrForbidden {
		t.Fatalf("expected forbidden for non-host, got %v", err)
	}
	if err := svc.DeleteRoom(ctx, created.RoomID, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Lobby(ctx, created.RoomID, "u1"); err != domain.ErrRoomNotFound {
		t.Fatalf("expected room gone, got %v", err)
	}
	// The armed callback now targets a vanished room: a silent no-op.
	svc.HandleQuestionTimeout(created.RoomID, 0)
}

func TestResultsDeterministicTieBreak(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "bob")
	_, _ = svc.JoinRoom(ctx, created.Code, "alice", "")
	_ = svc.StartRoom(ctx, created.RoomID, "bob")

	// Both answer everything correctly: equal scores.
	for _, u := range []string{"bob", "alice"} {
		if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 1000, u); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}
	for _, u := range []string{"bob", "alice"} {
		if _, err := svc.SubmitAnswer(ctx, created.RoomID, 1, 2, 1000, u); err != nil {
			t.Fatalf("submit: %v", err)
		}
	}

	results, err := svc.Results(ctx, created.RoomID, "bob")
	if err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results.Players) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(results.Players))
	}
	if results.Players[0].Username != "Alice" || results.Players[1].Username != "Bob" {
		t.Fatalf("expected Alice before Bob on equal scores, got %s then %s",
			results.Players[0].Username, results.Players[1].Username)
	}
}

func TestSubscribeReceivesUpdates(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	ch, cancel, err := svc.Subscribe(ctx, created.RoomID)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer cancel()

	<-ch // initial snapshot

	if _, err := svc.JoinRoom(ctx, created.Code, "u2", ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	update := <-ch
	if len(update.Scoreboard) != 2 {
		t.Fatalf("expected 2 scoreboard entries after join, got %d", len(update.Scoreboard))
	}
	if update.Status != domain.RoomWaiting {
		t.Fatalf("expected waiting status, got %s", update.Status)
	}
}

func TestProjectionsRequireAuthentication(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")

	if _, err := svc.Lobby(ctx, created.RoomID, ""); err != domain.ErrUnauthenticated {
		t.Fatalf("anonymous lobby: expected unauthenticated, got %v", err)
	}
	if _, err := svc.Results(ctx, created.RoomID, ""); err != domain.ErrUnauthenticated {
		t.Fatalf("anonymous results: expected unauthenticated, got %v", err)
	}
	if _, err := svc.Play(ctx, created.RoomID, ""); err != domain.ErrUnauthenticated {
		t.Fatalf("anonymous play: expected unauthenticated, got %v", err)
	}
}

func TestSubscribeRacesTeardown(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	// Subscribers arriving while the last player leaves must either get the
	// snapshot or a closed channel, never a send on a closed channel.
	for i := 0; i < 200; i++ {
		created, err := svc.CreateRoom(ctx, "quiz-1", "u1")
		if err != nil {
			t.Fatalf("create room: %v", err)
		}

		var wg sync.WaitGroup
		for j := 0; j < 4; j++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ch, cancel, err := svc.Subscribe(ctx, created.RoomID)
				if err != nil {
					return
				}
				defer cancel()
				for range ch {
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.LeaveRoom(ctx, created.RoomID, "u1")
		}()
		wg.Wait()
	}
}

func TestJoinRoomReconnectWhileActive(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_, _ = svc.JoinRoom(ctx, created.Code, "u2", "sig-old")
	_ = svc.StartRoom(ctx, created.RoomID, "u1")

	// A member reconnecting mid-game is recognized, not rejected; only
	// strangers hit the closed-room check.
	joined, err := svc.JoinRoom(ctx, created.Code, "u2", "sig-new")
	if err != nil {
		t.Fatalf("member reconnect: %v", err)
	}
	if !joined.AlreadyInRoom {
		t.Fatalf("reconnect should report alreadyInRoom")
	}
	if _, err := svc.JoinRoom(ctx, created.Code, "u3", ""); err != domain.ErrRoomClosed {
		t.Fatalf("stranger join of active room: expected room closed, got %v", err)
	}
}

func TestFinishedRoomIsArchived(t *testing.T) {
	ctx := context.Background()
	archiver := &capturingArchiver{done: make(chan domain.RoomResult, 1)}
	svc, _, _ := newTestService(t, app.WithArchiver(archiver))

	created, _ := svc.CreateRoom(ctx, "quiz-1", "u1")
	_ = svc.StartRoom(ctx, created.RoomID, "u1")
	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 0, 1, 500, "u1"); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := svc.SubmitAnswer(ctx, created.RoomID, 1, 2, 500, "u1"); err != nil {
		t.Fatalf("submit: %v", err)
	}

	select {
	case result := <-archiver.done:
		if result.RoomID != created.RoomID || len(result.Standings) != 1 {
			t.Fatalf("unexpected archived result: %+v", result)
		}
		if result.Standings[0].Score != 20 {
			t.Fatalf("expected archived score 20, got %d", result.Standings[0].Score)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected archive call after finish")
	}
}

type capturingArchiver struct {
	done chan domain.RoomResult
}

func (a *capturingArchiver) ArchiveResult(_ context.Context, result domain.RoomResult) error {
	a.done <- result
	return nil
}

// fakeClock is a mutable time source shared by service and test.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// recordingScheduler captures Schedule calls instead of arming timers, so
// tests drive timeouts through HandleQuestionTimeout deterministically.
type recordingScheduler struct {
	mu   sync.Mutex
	last map[string]int
}

func newRecordingScheduler() *recordingScheduler {
	return &recordingScheduler{last: make(map[string]int)}
}

func (s *recordingScheduler) Schedule(roomID string, questionIndex int, _ time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last[roomID] = questionIndex
}

func (s *recordingScheduler) Forget(roomID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, roomID)
}

func (s *recordingScheduler) lastFor(roomID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx, ok := s.last[roomID]
	if !ok {
		return -1
	}
	return idx
}

func newTestService(t *testing.T, opts ...app.Option) (*app.RoomService, *fakeClock, *recordingScheduler) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 11, 22, 10, 0, 0, 0, time.UTC)}
	sched := newRecordingScheduler()

	quizRepo := memory.NewQuizRepository(memory.NewStaticQuizLoader(map[string]domain.Quiz{
		"quiz-1": testQuiz(),
	}), 5*time.Minute)
	profiles := memory.NewProfileStore(map[string]domain.Profile{
		"alice": {UserID: "alice", Username: "Alice"},
		"bob":   {UserID: "bob", Username: "Bob"},
	})

	all := append([]app.Option{
		app.WithClock(clock.Now),
		app.WithScheduler(sched),
	}, opts...)
	svc := app.NewRoomService(memory.NewRoomStore(), quizRepo, profiles, all...)
	return svc, clock, sched
}

func testQuiz() domain.Quiz {
	return domain.Quiz{
		ID:    "quiz-1",
		Title: "Capitals",
		Questions: []domain.Question{
			{
				Prompt:             "Capital of France?",
				Options:            []string{"Berlin", "Paris", "Rome"},
				CorrectOptionIndex: 1,
			},
			{
				Prompt:             "Capital of Japan?",
				Options:            []string{"Osaka", "Kyoto", "Tokyo"},
				CorrectOptionIndex: 2,
			},
		},
	}
}
