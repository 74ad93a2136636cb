package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prepnest/prepnest-backend/internal/config"
	"github.com/prepnest/prepnest-backend/internal/database"
	"github.com/prepnest/prepnest-backend/internal/logger"
	"github.com/prepnest/prepnest-backend/internal/model"
	"github.com/prepnest/prepnest-backend/internal/repository"
)

// Seeds a demo catalog, payment settings, and one question bank per
// category so a fresh install has something to browse and a working
// mock interview out of the box.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	categoryRepo := repository.NewCategoryRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	// ─── Categories ────────────────────────────────────────────────────
	fmt.Println("=== Seeding Categories ===")

	categories := []model.Category{
		{Name: "Data Structures & Algorithms", Slug: "dsa", Description: "Arrays, trees, graphs, and the problems interviewers love"},
		{Name: "System Design", Slug: "system-design", Description: "Scalability, caching, and architecture interviews"},
		{Name: "Aptitude & Reasoning", Slug: "aptitude", Description: "Quantitative aptitude and logical reasoning practice"},
	}

	categoryIDs := make(map[string]int)
	for i := range categories {
		c := &categories[i]
		if err := categoryRepo.Create(ctx, c); err != nil {
			if err == repository.ErrDuplicateSlug {
				existing, gerr := categoryRepo.GetBySlug(ctx, c.Slug)
				if gerr != nil {
					log.Fatal().Err(gerr).Str("slug", c.Slug).Msg("Failed to load existing category")
				}
				categoryIDs[c.Slug] = existing.ID
				fmt.Printf("Category %q already exists (ID %d)\n", c.Name, existing.ID)
				continue
			}
			log.Fatal().Err(err).Str("slug", c.Slug).Msg("Failed to create category")
		}
		categoryIDs[c.Slug] = c.ID
		fmt.Printf("Created category %q (ID %d)\n", c.Name, c.ID)
	}

	// ─── Courses ───────────────────────────────────────────────────────
	fmt.Println("=== Seeding Courses ===")

	courses := []model.Course{
		{
			CategoryID:    categoryIDs["dsa"],
			Title:         "DSA Crash Course",
			Slug:          "dsa-crash-course",
			Description:   "Two weeks of focused problem solving across the core data structures.",
			Level:         model.LevelBeginner,
			DurationHours: 24,
			PricePaise:    99900 * 100,
			Published:     true,
		},
		{
			CategoryID:    categoryIDs["dsa"],
			Title:         "Advanced Graph Algorithms",
			Slug:          "advanced-graph-algorithms",
			Description:   "Flows, matchings, and the graph questions senior loops ask.",
			Level:         model.LevelAdvanced,
			DurationHours: 16,
			PricePaise:    149900 * 100,
			Published:     true,
		},
		{
			CategoryID:    categoryIDs["system-design"],
			Title:         "System Design Fundamentals",
			Slug:          "system-design-fundamentals",
			Description:   "Load balancers to consistent hashing, with worked interview walkthroughs.",
			Level:         model.LevelIntermediate,
			DurationHours: 20,
			PricePaise:    199900 * 100,
			Published:     true,
		},
		{
			CategoryID:    categoryIDs["aptitude"],
			Title:         "Aptitude Bootcamp",
			Slug:          "aptitude-bootcamp",
			Description:   "Speed math, puzzles, and reasoning drills for screening rounds.",
			Level:         model.LevelBeginner,
			DurationHours: 12,
			PricePaise:    49900 * 100,
			Published:     true,
		},
	}

	for i := range courses {
		c := &courses[i]
		if err := courseRepo.Create(ctx, c); err != nil {
			fmt.Printf("Skipping course %q: %v\n", c.Title, err)
			continue
		}
		fmt.Printf("Created course %q (ID %d)\n", c.Title, c.ID)
	}

	// ─── Settings ──────────────────────────────────────────────────────
	fmt.Println("=== Seeding Settings ===")

	settings := map[string]string{
		model.SettingKeyPaymentUPIID:  "prepnest@upi",
		model.SettingKeyPaymentNote:   "Include your order reference in the payment note.",
		model.SettingKeySupportEmail:  "support@prepnest.example",
		model.SettingKeyBannerMessage: "New: timed mock interviews with live proctoring.",
	}
	for key, value := range settings {
		if err := settingRepo.Upsert(ctx, key, value); err != nil {
			log.Fatal().Err(err).Str("key", key).Msg("Failed to seed setting")
		}
	}
	fmt.Printf("Upserted %d settings\n", len(settings))

	// ─── Question Bank ─────────────────────────────────────────────────
	fmt.Println("=== Seeding Question Bank ===")

	bank := &model.QuestionBank{
		ID:          uuid.New(),
		Name:        "Starter Interview Bank",
		Description: "Mixed DSA and aptitude questions for the demo mock interview",
		Active:      true,
	}
	if err := questionRepo.CreateBank(ctx, bank); err != nil {
		log.Fatal().Err(err).Msg("Failed to create question bank")
	}

	questions := []model.BankQuestion{
		{
			Category:      "dsa",
			Prompt:        "What is the average-case time complexity of binary search on a sorted array?",
			Options:       []string{"O(n)", "O(log n)", "O(n log n)", "O(1)"},
			CorrectOption: 1,
			Explanation:   "Each comparison halves the search interval.",
		},
		{
			Category:      "dsa",
			Prompt:        "Which data structure gives O(1) amortized insertion and removal from both ends?",
			Options:       []string{"Singly linked list", "Binary heap", "Deque", "Balanced BST"},
			CorrectOption: 2,
			Explanation:   "A deque supports constant-time operations at both ends.",
		},
		{
			Category:      "dsa",
			Prompt:        "A stable sort preserves what property?",
			Options:       []string{"Memory usage", "Relative order of equal keys", "Worst-case bounds", "Recursion depth"},
			CorrectOption: 1,
			Explanation:   "Stability keeps equal elements in their original relative order.",
		},
		{
			Category:      "dsa",
			Prompt:        "Which traversal of a binary search tree yields keys in sorted order?",
			Options:       []string{"Pre-order", "Post-order", "Level-order", "In-order"},
			CorrectOption: 3,
			Explanation:   "In-order visits left subtree, node, then right subtree.",
		},
		{
			Category:      "dsa",
			Prompt:        "What does a hash collision mean?",
			Options:       []string{"Two keys map to the same bucket", "The table is full", "A key hashes to zero", "The hash function is slow"},
			CorrectOption: 0,
			Explanation:   "Distinct keys can produce the same hash value.",
		},
		{
			Category:      "aptitude",
			Prompt:        "A train travels 120 km in 2 hours. What is its average speed?",
			Options:       []string{"40 km/h", "50 km/h", "60 km/h", "80 km/h"},
			CorrectOption: 2,
			Explanation:   "Speed = distance / time = 120 / 2.",
		},
		{
			Category:      "aptitude",
			Prompt:        "If 5 machines make 5 widgets in 5 minutes, how long do 100 machines take to make 100 widgets?",
			Options:       []string{"5 minutes", "100 minutes", "20 minutes", "1 minute"},
			CorrectOption: 0,
			Explanation:   "Each machine makes one widget in 5 minutes regardless of count.",
		},
		{
			Category:      "aptitude",
			Prompt:        "What comes next in the sequence 2, 6, 12, 20, 30, ...?",
			Options:       []string{"40", "42", "44", "46"},
			CorrectOption: 1,
			Explanation:   "Differences grow by 2: 4, 6, 8, 10, then 12.",
		},
		{
			Category:      "aptitude",
			Prompt:        "A item priced at 200 is sold at a 15% discount. What is the sale price?",
			Options:       []string{"170", "175", "180", "185"},
			CorrectOption: 0,
			Explanation:   "15% of 200 is 30, so the price drops to 170.",
		},
		{
			Category:      "aptitude",
			Prompt:        "If all Bloops are Razzies and all Razzies are Lazzies, are all Bloops definitely Lazzies?",
			Options:       []string{"Yes", "No", "Cannot be determined", "Only some"},
			CorrectOption: 0,
			Explanation:   "Set inclusion is transitive.",
		},
	}
	for i := range questions {
		questions[i].ID = uuid.New()
		questions[i].QBankID = bank.ID
		questions[i].Position = i
	}

	if err := questionRepo.ReplaceQuestions(ctx, bank.ID, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed questions")
	}
	fmt.Printf("Seeded bank %q with %d questions\n", bank.Name, len(questions))

	fmt.Println("=== Done ===")
}
