package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/app"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/auth"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/config"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/domain"
	"github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/infra/memory"
	pginfra "github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/infra/postgres"
	redisinfra "github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/infra/redis"
	transport "github.com/FarhanDH/devfest-politeknik-negeri-samarinda/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz room server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	redisTTL := config.TTLDuration(cfg.Redis.TTL, 24*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	var loader memory.QuizLoader = memory.NewStaticQuizLoader(sampleQuizzes())
	if pool != nil {
		loader = pginfra.NewQuizLoader(pool)
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	var quizRepo app.QuizRepository
	if redisClient != nil {
		quizRepo = redisinfra.NewQuizRepository(redisClient, loader, quizTTL)
	} else {
		quizRepo = memory.NewQuizRepository(loader, quizTTL)
	}

	var rooms app.RoomRepository = memory.NewRoomStore()
	if redisClient != nil {
		rooms = redisinfra.NewRoomRegistry(redisClient, rooms, redisTTL)
	}

	profiles := memory.NewProfileStore(nil)

	opts := []app.Option{}
	if pool != nil {
		opts = append(opts, app.WithArchiver(pginfra.NewResultArchiver(pool)))
	}
	service := app.NewRoomService(rooms, quizRepo, profiles, opts...)

	verifier := auth.NewVerifier(cfg.Auth.Secret)
	if verifier.Insecure() {
		log.Printf("auth secret not configured, accepting plain userId callers")
	}
	wsHandler := transport.NewWSHandler(service, verifier)
	restHandler := transport.NewRESTHandler(service, verifier)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)
	restHandler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz room service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// sampleQuizzes provides a minimal quiz so the service runs without a
// database; swap in the Postgres loader for real content.
func sampleQuizzes() map[string]domain.Quiz {
	return map[string]domain.Quiz{
		"quiz-1": {
			ID:    "quiz-1",
			Title: "Warmup",
			Questions: []domain.Question{
				{
					Prompt:             "What is 2 + 2?",
					Options:            []string{"3", "4", "5"},
					CorrectOptionIndex: 1,
					Difficulty:         "easy",
					QuestionType:       "multiple_choice",
				},
				{
					Prompt:             "Which planet is closest to the sun?",
					Options:            []string{"Venus", "Earth", "Mercury"},
					CorrectOptionIndex: 2,
					Difficulty:         "easy",
					QuestionType:       "multiple_choice",
				},
			},
		},
	}
}
