package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"quizhub-service/internal/app"
	"quizhub-service/internal/config"
	"quizhub-service/internal/domain"
	"quizhub-service/internal/logger"
)

type seedQuiz struct {
	Title     string
	Questions []domain.Question
}

// NewSeedCmd loads quizzes from a YAML file through the normal validation path.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load quizzes from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log := logger.New(serviceName, cfg.Log.Level)
			if cfg.Storage.Driver == config.DriverMemory {
				log.Warn("seeding the memory driver only lasts for this process")
			}

			quizzes, err := loadSeedFile(file)
			if err != nil {
				return err
			}

			be, err := openBackend(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer be.Close()

			service := app.NewQuizService(be.quizzes, log)
			for _, q := range quizzes {
				quiz, created, err := service.AddQuestions(cmd.Context(), q.Title, q.Questions)
				if err != nil {
					return fmt.Errorf("seed %q: %w", q.Title, err)
				}
				log.WithFields(logrus.Fields{
					"quiz":      quiz.Title,
					"questions": len(quiz.Questions),
					"created":   created,
				}).Info("quiz seeded")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/quizzes.yaml", "YAML file with quizzes")
	return cmd
}

// loadSeedFile reads quizzes from YAML. Questions use the same field names as
// the JSON API and go through the same answer decoding.
func loadSeedFile(path string) ([]seedQuiz, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc struct {
		Quizzes []struct {
			Title     string           `yaml:"title"`
			Questions []map[string]any `yaml:"questions"`
		} `yaml:"quizzes"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	out := make([]seedQuiz, 0, len(doc.Quizzes))
	for _, q := range doc.Quizzes {
		raw, err := json.Marshal(q.Questions)
		if err != nil {
			return nil, fmt.Errorf("quiz %q: %w", q.Title, err)
		}
		var questions []domain.Question
		if err := json.Unmarshal(raw, &questions); err != nil {
			return nil, fmt.Errorf("quiz %q: %w", q.Title, err)
		}
		out = append(out, seedQuiz{Title: q.Title, Questions: questions})
	}
	return out, nil
}
