package domain

import "time"

// RoomStatus is the lifecycle phase of a multiplayer room. Transitions are
// monotonic: waiting -> active -> finished.
type RoomStatus string

const (
	RoomWaiting  RoomStatus = "waiting"
	RoomActive   RoomStatus = "active"
	RoomFinished RoomStatus = "finished"
)

// Room is the record of a multiplayer quiz session.
type Room struct {
	ID                       string
	Code                     string // 6 uppercase alphanumerics
	QuizID                   string
	HostID                   string // user ID of the current host
	Status                   RoomStatus
	CurrentQuestionIndex     int // -1 while waiting
	CurrentQuestionStartedAt *time.Time
	CreatedAt                time.Time
}

// Player is one user's membership and progress record within a room.
type Player struct {
	ID                         string
	RoomID                     string
	UserID                     string
	IsHost                     bool
	JoinedAt                   time.Time
	SignalingID                string // opaque peer-connection hint, unused by quiz logic
	Score                      int
	Answers                    []AnswerRecord
	HasAnsweredCurrentQuestion bool
}

// AnswerRecord is one entry in a player's append-only answer log.
// At most one record exists per question index.
type AnswerRecord struct {
	QuestionIndex int       `json:"questionIndex"`
	SelectedIndex int       `json:"selectedIndex"`
	IsCorrect     bool      `json:"isCorrect"`
	TimeTakenMs   int64     `json:"timeTakenMs"`
	AnsweredAt    time.Time `json:"answeredAt"`
}

// AnswerResult summarizes the outcome of a submission for the caller.
type AnswerResult struct {
	QuestionIndex int  `json:"questionIndex"`
	IsCorrect     bool `json:"isCorrect"`
	Awarded       int  `json:"awarded"`
	TotalScore    int  `json:"totalScore"`
}

// Question models an MCQ question with exactly one correct option index.
type Question struct {
	Prompt             string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correctOptionIndex"`
	Explanation        string   `json:"explanation,omitempty"`
	Difficulty         string   `json:"difficulty,omitempty"`
	QuestionType       string   `json:"questionType,omitempty"`
}

// Quiz is an immutable, ordered list of questions produced by the
// generation pipeline. Rooms reference it read-only.
type Quiz struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Questions   []Question `json:"questions"`
}

// Profile carries display data for projection enrichment.
type Profile struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

// LobbyPlayer is a player's pre-game view: no scores, no answers.
type LobbyPlayer struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	AvatarURL   string    `json:"avatarUrl,omitempty"`
	IsHost      bool      `json:"isHost"`
	JoinedAt    time.Time `json:"joinedAt"`
	SignalingID string    `json:"signalingId,omitempty"`
}

// LobbyView is the pre-game projection for a waiting room.
type LobbyView struct {
	RoomID        string        `json:"roomId"`
	Code          string        `json:"code"`
	Status        RoomStatus    `json:"status"`
	HostID        string        `json:"hostId"`
	QuizTitle     string        `json:"quizTitle"`
	QuizDesc      string        `json:"quizDescription,omitempty"`
	QuestionCount int           `json:"questionCount"`
	Players       []LobbyPlayer `json:"players"`
}

// ScoreboardEntry is the mid-game view of one player. Selected answers of
// other players are never exposed here.
type ScoreboardEntry struct {
	UserID                     string `json:"userId"`
	Username                   string `json:"username"`
	Score                      int    `json:"score"`
	IsHost                     bool   `json:"isHost"`
	HasAnsweredCurrentQuestion bool   `json:"hasAnsweredCurrentQuestion"`
}

// SelfView is the caller's own progress inside PlayView.
type SelfView struct {
	Score                      int  `json:"score"`
	HasAnsweredCurrentQuestion bool `json:"hasAnsweredCurrentQuestion"`
}

// PlayView is the in-game projection. The full question list is sent
// upfront so clients can render "Q x of N"; answers are validated
// server-side regardless of what clients display.
type PlayView struct {
	RoomID                   string            `json:"roomId"`
	Code                     string            `json:"code"`
	Status                   RoomStatus        `json:"status"`
	HostID                   string            `json:"hostId"`
	CurrentQuestionIndex     int               `json:"currentQuestionIndex"`
	CurrentQuestionStartedAt *time.Time        `json:"currentQuestionStartedAt,omitempty"`
	Quiz                     Quiz              `json:"quiz"`
	Self                     SelfView          `json:"self"`
	Scoreboard               []ScoreboardEntry `json:"scoreboard"`
}

// ResultEntry is one row of the final standings.
type ResultEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"isHost"`
}

// ResultsView is the post-game projection, sorted by score descending then
// username ascending.
type ResultsView struct {
	RoomID    string        `json:"roomId"`
	Code      string        `json:"code"`
	Status    RoomStatus    `json:"status"`
	HostID    string        `json:"hostId"`
	QuizTitle string        `json:"quizTitle"`
	Players   []ResultEntry `json:"players"`
}

// RoomUpdate is the snapshot broadcast to subscribers whenever room state
// changes. Caller-specific data lives in PlayView, not here.
type RoomUpdate struct {
	RoomID                   string            `json:"roomId"`
	Code                     string            `json:"code"`
	Status                   RoomStatus        `json:"status"`
	HostID                   string            `json:"hostId"`
	CurrentQuestionIndex     int               `json:"currentQuestionIndex"`
	CurrentQuestionStartedAt *time.Time        `json:"currentQuestionStartedAt,omitempty"`
	Scoreboard               []ScoreboardEntry `json:"scoreboard"`
	UpdatedAt                time.Time         `json:"updatedAt"`
}

// RoomResult is the archived record of a finished room.
type RoomResult struct {
	RoomID     string        `json:"roomId"`
	Code       string        `json:"code"`
	QuizID     string        `json:"quizId"`
	Standings  []ResultEntry `json:"standings"`
	FinishedAt time.Time     `json:"finishedAt"`
}
