package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"server/internal/adapter/repo"
	"server/internal/analytics"
	"server/internal/domain"
	"server/internal/infra"
)

func main() {
	var (
		usernameFlag string
		emailFlag    string
		passwordFlag string
		daysFlag     int
	)

	flag.StringVar(&usernameFlag, "username", "admin", "admin username to create")
	flag.StringVar(&emailFlag, "email", "", "admin email address")
	flag.StringVar(&passwordFlag, "password", "", "admin password (required)")
	flag.IntVar(&daysFlag, "days", 30, "days of demo analytics to seed (set <=0 to skip)")
	flag.Parse()

	_ = godotenv.Load()

	username := strings.TrimSpace(strings.ToLower(usernameFlag))
	if username == "" {
		exitWithError(errors.New("-username is required"))
	}
	if passwordFlag == "" {
		exitWithError(errors.New("-password is required"))
	}
	if len(passwordFlag) < 8 {
		exitWithError(errors.New("password must be at least 8 characters"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	if err := infra.ApplySchema(ctx, pool); err != nil {
		exitWithError(fmt.Errorf("failed to apply schema: %w", err))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passwordFlag), bcrypt.DefaultCost)
	if err != nil {
		exitWithError(fmt.Errorf("failed to hash password: %w", err))
	}

	users := repo.NewUserRepository(pool)
	user := &domain.AdminUser{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        strings.TrimSpace(strings.ToLower(emailFlag)),
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		Active:       true,
	}
	if err := users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			fmt.Printf("admin user %q already exists, skipping\n", username)
		} else {
			exitWithError(fmt.Errorf("failed to create admin user: %w", err))
		}
	} else {
		fmt.Printf("created admin user %s (%s)\n", user.Username, user.ID)
	}

	if daysFlag > 0 {
		logger := infra.NewLogger("cli").With().Str("cmd", "seed").Logger()
		seeder := analytics.NewSeeder(repo.NewAnalyticsRepository(pool), logger)
		if err := seeder.SeedRange(ctx, time.Now(), daysFlag); err != nil {
			exitWithError(fmt.Errorf("failed to seed analytics: %w", err))
		}
		fmt.Printf("seeded %d days of analytics\n", daysFlag)
	}
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
