package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"eduquiz-service/internal/config"
	"eduquiz-service/internal/domain"
	"eduquiz-service/internal/infra/postgres"
)

// seedTarget is the slice of the store the bootstrap data needs.
type seedTarget interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByUsername(ctx context.Context, username string) (domain.User, error)
	ListSubjects(ctx context.Context) ([]domain.Subject, error)
	CreateSubject(ctx context.Context, s *domain.Subject) error
	CreateQuestion(ctx context.Context, q *domain.Question) error
	ListQuestions(ctx context.Context, subjectID int64) ([]domain.Question, error)
	CreateAchievement(ctx context.Context, a *domain.Achievement) error
}

// NewSeedCmd loads default accounts, subjects, sample questions and the
// achievement catalog into the configured database. Safe to run repeatedly.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load default accounts, sample questions and achievements",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Postgres.URL == "" {
				return fmt.Errorf("postgres url not configured")
			}
			if err := runMigrationsWithConfig(cmd.Context(), cfg); err != nil {
				return err
			}
			db := openBunDB(cfg.Postgres.URL)
			defer db.Close()
			return seedStore(cmd.Context(), postgres.NewStore(db))
		},
	}
}

func seedStore(ctx context.Context, store seedTarget) error {
	if err := seedUser(ctx, store, "admin", "admin@example.com", "Administrator", "admin123", true); err != nil {
		return err
	}
	if err := seedUser(ctx, store, "student1", "student1@example.com", "Sample Student", "student123", false); err != nil {
		return err
	}

	subjects := []domain.Subject{
		{Name: "Mathematics", Description: "Learn mathematics the fun way"},
		{Name: "Language Arts", Description: "Improve your reading and writing skills"},
		{Name: "Science", Description: "Explore the natural sciences"},
	}
	byName := map[string]int64{}
	for i := range subjects {
		if err := store.CreateSubject(ctx, &subjects[i]); err != nil {
			if !errors.Is(err, domain.ErrDuplicateSubject) {
				return err
			}
			continue
		}
		log.Printf("seeded subject %q", subjects[i].Name)
	}
	existing, err := store.ListSubjects(ctx)
	if err != nil {
		return err
	}
	for _, s := range existing {
		byName[s.Name] = s.ID
	}

	if mathID, ok := byName["Mathematics"]; ok {
		if err := seedQuestions(ctx, store, mathID, []domain.Question{
			{
				Type:        domain.MultipleChoice,
				Text:        "What is 2 + 2?",
				Options:     []string{"3", "4", "5", "6"},
				Key:         domain.SelectedAnswer(1),
				Explanation: "2 + 2 = 4, basic addition.",
				Points:      10,
			},
			{
				Type:        domain.DragDrop,
				Text:        "Order the numbers from smallest to largest:",
				Options:     []string{"5", "2", "8", "1"},
				Key:         domain.OrderAnswer(3, 1, 0, 2),
				Explanation: "The correct order is 1, 2, 5, 8.",
				Points:      15,
			},
			{
				Type:        domain.TrueFalse,
				Text:        "Seven is a prime number.",
				Key:         domain.BoolAnswer(true),
				Explanation: "Seven is only divisible by 1 and itself.",
				Points:      10,
			},
		}); err != nil {
			return err
		}
	}
	if langID, ok := byName["Language Arts"]; ok {
		if err := seedQuestions(ctx, store, langID, []domain.Question{
			{
				Type:        domain.FillBlank,
				Text:        "Complete the sentence: Mother went to the {market} to buy {vegetables}.",
				Key:         domain.FillsAnswer(map[string]string{"market": "market", "vegetables": "vegetables"}),
				Explanation: "The missing words are 'market' and 'vegetables'.",
				Points:      10,
			},
		}); err != nil {
			return err
		}
	}

	achievements := []domain.Achievement{
		{Name: "Beginner", Description: "Answer 10 questions correctly", Icon: "🌱", RequirementType: domain.RequireTotalCorrect, RequirementValue: 10},
		{Name: "Expert", Description: "Answer 50 questions correctly", Icon: "⭐", RequirementType: domain.RequireTotalCorrect, RequirementValue: 50},
		{Name: "Master", Description: "Answer 100 questions correctly", Icon: "👑", RequirementType: domain.RequireTotalCorrect, RequirementValue: 100},
		{Name: "Hot Streak", Description: "Answer 5 questions correctly in a row", Icon: "🔥", RequirementType: domain.RequireStreak, RequirementValue: 5},
		{Name: "On Fire", Description: "Answer 10 questions correctly in a row", Icon: "🔥🔥", RequirementType: domain.RequireStreak, RequirementValue: 10},
		{Name: "Level 5", Description: "Reach level 5", Icon: "🎯", RequirementType: domain.RequireLevel, RequirementValue: 5},
		{Name: "Level 10", Description: "Reach level 10", Icon: "🏆", RequirementType: domain.RequireLevel, RequirementValue: 10},
		{Name: "Point Collector", Description: "Collect 500 points", Icon: "💰", RequirementType: domain.RequireTotalPoints, RequirementValue: 500},
	}
	for i := range achievements {
		if err := store.CreateAchievement(ctx, &achievements[i]); err != nil {
			if !errors.Is(err, domain.ErrDuplicateAchievement) {
				return err
			}
			continue
		}
		log.Printf("seeded achievement %q", achievements[i].Name)
	}
	return nil
}

func seedUser(ctx context.Context, store seedTarget, username, email, fullName, password string, isAdmin bool) error {
	if _, err := store.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := domain.User{
		Username:       username,
		Email:          email,
		FullName:       fullName,
		HashedPassword: string(hash),
		IsAdmin:        isAdmin,
	}
	if err := store.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUser) {
			return nil
		}
		return err
	}
	log.Printf("seeded user %q", username)
	return nil
}

func seedQuestions(ctx context.Context, store seedTarget, subjectID int64, questions []domain.Question) error {
	existing, err := store.ListQuestions(ctx, subjectID)
	if err != nil {
		return err
	}
	seen := map[string]struct{}{}
	for _, q := range existing {
		seen[q.Text] = struct{}{}
	}
	for i := range questions {
		if _, ok := seen[questions[i].Text]; ok {
			continue
		}
		questions[i].SubjectID = subjectID
		if err := store.CreateQuestion(ctx, &questions[i]); err != nil {
			return err
		}
	}
	return nil
}
