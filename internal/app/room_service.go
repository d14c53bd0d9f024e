package app

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
)

const (
	// QuestionTimeout is how long a question stays open before the room
	// advances without the missing answers.
	QuestionTimeout = 20 * time.Second
	// CorrectAnswerPoints is the flat reward per correct answer. No time
	// bonus, no partial credit.
	CorrectAnswerPoints = 10

	roomCodeLength     = 6
	roomCodeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeCreateAttempts = 5
)

// RoomRepository abstracts how room aggregates are stored and indexed.
// Create must enforce code uniqueness and return domain.ErrCodeTaken on a
// collision so the service can regenerate.
type RoomRepository interface {
	Create(room *Room) error
	Get(roomID string) (*Room, bool)
	GetByCode(code string) (*Room, bool)
	Delete(roomID string)
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ProfileProvider supplies usernames and avatars for projection enrichment.
type ProfileProvider interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
}

// ResultArchiver persists final standings of finished rooms. Archival is
// best effort and never blocks or fails a game transition.
type ResultArchiver interface {
	ArchiveResult(ctx context.Context, result domain.RoomResult) error
}

// RoomService contains the multiplayer room use cases: lifecycle, answer
// intake, advancement, and read projections.
type RoomService struct {
	rooms     RoomRepository
	quizzes   QuizRepository
	profiles  ProfileProvider
	scheduler AdvanceScheduler
	archiver  ResultArchiver
	now       func() time.Time
	codeMu    sync.Mutex
	rnd       *rand.Rand
}

// Option customizes a RoomService, mainly for tests.
type Option func(*RoomService)

// WithClock injects a deterministic time source.
func WithClock(now func() time.Time) Option {
	return func(s *RoomService) { s.now = now }
}

// WithScheduler replaces the default timer-backed scheduler.
func WithScheduler(sched AdvanceScheduler) Option {
	return func(s *RoomService) { s.scheduler = sched }
}

// WithArchiver wires a result archiver for finished rooms.
func WithArchiver(archiver ResultArchiver) Option {
	return func(s *RoomService) { s.archiver = archiver }
}

// WithCodeSource seeds the room-code generator deterministically.
func WithCodeSource(rnd *rand.Rand) Option {
	return func(s *RoomService) { s.rnd = rnd }
}

func NewRoomService(rooms RoomRepository, quizzes QuizRepository, profiles ProfileProvider, opts ...Option) *RoomService {
	s := &RoomService{
		rooms:    rooms,
		quizzes:  quizzes,
		profiles: profiles,
		now:      time.Now,
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = NewTimerScheduler(s.HandleQuestionTimeout)
	}
	return s
}

// CreatedRoom identifies a freshly created room.
type CreatedRoom struct {
	RoomID string `json:"roomId"`
	Code   string `json:"code"`
}

// JoinedRoom reports the result of a join, including the idempotent
// re-join case.
type JoinedRoom struct {
	RoomID        string `json:"roomId"`
	Code          string `json:"code"`
	AlreadyInRoom bool   `json:"alreadyInRoom"`
}

// CreateRoom allocates a room with a unique 6-character code and seats the
// caller as host. Code collisions regenerate instead of failing.
func (s *RoomService) CreateRoom(ctx context.Context, quizID, callerID string) (*CreatedRoom, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	profile := s.profileOf(ctx, callerID)

	var lastErr error
	for attempt := 0; attempt < codeCreateAttempts; attempt++ {
		room := newRoom(s.randomCode(), quiz, s.now)
		if _, err := room.join(callerID, "", profile); err != nil {
			return nil, err
		}
		if err := s.rooms.Create(room); err != nil {
			lastErr = err
			continue
		}
		return &CreatedRoom{RoomID: room.ID(), Code: room.Code()}, nil
	}
	return nil, lastErr
}

// JoinRoom seats the caller in a waiting room looked up by code. Codes are
// compared case-insensitively. A repeat join is idempotent.
func (s *RoomService) JoinRoom(ctx context.Context, code, callerID, signalingID string) (*JoinedRoom, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	room, ok := s.rooms.GetByCode(normalizeCode(code))
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	alreadyIn, err := room.join(callerID, signalingID, s.profileOf(ctx, callerID))
	if err != nil {
		return nil, err
	}
	return &JoinedRoom{RoomID: room.ID(), Code: room.Code(), AlreadyInRoom: alreadyIn}, nil
}

// StartRoom begins the quiz: host-only, waiting-only. Question zero gets
// its timer armed before the call returns.
func (s *RoomService) StartRoom(ctx context.Context, roomID, callerID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if err := room.start(callerID); err != nil {
		return err
	}
	s.scheduler.Schedule(room.ID(), 0, QuestionTimeout)
	return nil
}

// LeaveRoom removes the caller. Host migration and room deletion are
// expected lifecycle outcomes here, never error paths.
func (s *RoomService) LeaveRoom(ctx context.Context, roomID, callerID string) (LeaveOutcome, error) {
	if callerID == "" {
		return Left, domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return Left, domain.ErrRoomNotFound
	}
	outcome, err := room.leave(callerID)
	if err != nil {
		return outcome, err
	}
	if outcome == LeftRoomDeleted {
		s.rooms.Delete(roomID)
		s.scheduler.Forget(roomID)
	}
	return outcome, nil
}

// DeleteRoom is the host's explicit teardown: cascades players, then the
// room. The armed timeout callback is not cancelled; it no-ops on firing.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, callerID string) error {
	if callerID == "" {
		return domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return domain.ErrRoomNotFound
	}
	if room.HostID() != callerID {
		return domain.ErrForbidden
	}
	s.rooms.Delete(roomID)
	room.close()
	s.scheduler.Forget(roomID)
	return nil
}

// SubmitAnswer validates and records an answer, then evaluates advancement
// synchronously. Preconditions are checked in a fixed order, each with its
// own failure.
func (s *RoomService) SubmitAnswer(ctx context.Context, roomID string, questionIndex, selectedIndex int, timeTakenMs int64, callerID string) (*domain.AnswerResult, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, room.QuizID())
	if err != nil {
		return nil, err
	}

	result, outcome, next, err := room.submitAnswer(callerID, questionIndex, selectedIndex, timeTakenMs, quiz)
	if err != nil {
		return nil, err
	}
	s.afterAdvance(room, outcome, next)
	return result, nil
}

// HandleQuestionTimeout is the scheduler's callback. Stale fires (room
// already advanced, finished, or deleted) are swallowed as no-ops; a
// scheduled job has no caller to report to.
func (s *RoomService) HandleQuestionTimeout(roomID string, expectedIndex int) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return
	}
	outcome, next := room.handleTimeout(expectedIndex)
	s.afterAdvance(room, outcome, next)
}

func (s *RoomService) afterAdvance(room *Room, outcome AdvanceOutcome, next int) {
	switch outcome {
	case Advanced:
		s.scheduler.Schedule(room.ID(), next, QuestionTimeout)
	case Finished:
		s.scheduler.Forget(room.ID())
		s.archive(room)
	}
}

func (s *RoomService) archive(room *Room) {
	if s.archiver == nil {
		return
	}
	result := domain.RoomResult{
		RoomID:     room.ID(),
		Code:       room.Code(),
		QuizID:     room.QuizID(),
		Standings:  room.results(),
		FinishedAt: s.now(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.archiver.ArchiveResult(ctx, result); err != nil {
			log.Printf("archive room %s results: %v", result.RoomID, err)
		}
	}()
}

// Lobby assembles the pre-game projection: roster and quiz metadata, no
// scores or answers. Any authenticated caller may read it; joining is a
// separate step.
func (s *RoomService) Lobby(ctx context.Context, roomID, callerID string) (*domain.LobbyView, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, room.QuizID())
	if err != nil {
		return nil, err
	}
	return &domain.LobbyView{
		RoomID:        room.ID(),
		Code:          room.Code(),
		Status:        room.Status(),
		HostID:        room.HostID(),
		QuizTitle:     quiz.Title,
		QuizDesc:      quiz.Description,
		QuestionCount: len(quiz.Questions),
		Players:       room.lobbyPlayers(),
	}, nil
}

// Play assembles the in-game projection for one member.
func (s *RoomService) Play(ctx context.Context, roomID, callerID string) (*domain.PlayView, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, room.QuizID())
	if err != nil {
		return nil, err
	}
	self, scoreboard, status, hostID, current, startedAt, err := room.playState(callerID)
	if err != nil {
		return nil, err
	}
	return &domain.PlayView{
		RoomID:                   room.ID(),
		Code:                     room.Code(),
		Status:                   status,
		HostID:                   hostID,
		CurrentQuestionIndex:     current,
		CurrentQuestionStartedAt: startedAt,
		Quiz:                     quiz,
		Self:                     self,
		Scoreboard:               scoreboard,
	}, nil
}

// Results assembles the post-game standings for any authenticated caller.
func (s *RoomService) Results(ctx context.Context, roomID, callerID string) (*domain.ResultsView, error) {
	if callerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	quiz, err := s.quizzes.GetQuiz(ctx, room.QuizID())
	if err != nil {
		return nil, err
	}
	return &domain.ResultsView{
		RoomID:    room.ID(),
		Code:      room.Code(),
		Status:    room.Status(),
		HostID:    room.HostID(),
		QuizTitle: quiz.Title,
		Players:   room.results(),
	}, nil
}

// ResolveCode maps a room code to its room ID.
func (s *RoomService) ResolveCode(code string) (string, error) {
	room, ok := s.rooms.GetByCode(normalizeCode(code))
	if !ok {
		return "", domain.ErrRoomNotFound
	}
	return room.ID(), nil
}

// Subscribe returns a channel of room updates. The caller must invoke the
// returned cancel function to avoid leaks.
func (s *RoomService) Subscribe(_ context.Context, roomID string) (<-chan domain.RoomUpdate, func(), error) {
	room, ok := s.rooms.Get(roomID)
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	ch, cancel := room.subscribe()
	return ch, cancel, nil
}

func (s *RoomService) profileOf(ctx context.Context, userID string) domain.Profile {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return domain.Profile{UserID: userID, Username: userID}
	}
	return profile
}

func (s *RoomService) randomCode() string {
	s.codeMu.Lock()
	defer s.codeMu.Unlock()
	code := make([]byte, roomCodeLength)
	for i := range code {
		code[i] = roomCodeAlphabet[s.rnd.Intn(len(roomCodeAlphabet))]
	}
	return string(code)
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
