package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"mockmate/internal/config"
	"mockmate/internal/database"
	"mockmate/internal/feedback"
	"mockmate/internal/history"
	"mockmate/internal/models"
	"mockmate/internal/progress"
	"mockmate/internal/questions"
	"mockmate/internal/repository"
	"mockmate/internal/resume"
	"mockmate/internal/service"
	"mockmate/internal/session"
	"mockmate/internal/voice"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database (supports sqlite, postgres, mysql). Without a
	// database the app still runs: progress lives in memory and history
	// is service-only.
	var store progress.Store
	var historyRepo *repository.HistoryRepository
	db, err := database.Open(cfg)
	if err != nil {
		log.Printf("Warning: running without local database: %v", err)
		store = progress.NewMemoryStore()
	} else {
		defer db.Close()
		log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

		if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		store = progress.NewDBStore(repository.NewProgressRepository(db))
		historyRepo = repository.NewHistoryRepository(db)
	}

	// Load the offline question bank
	bank, err := questions.LoadBank(cfg.QuestionBankPath)
	if err != nil {
		log.Printf("Warning: using built-in question bank: %v", err)
		bank = questions.DefaultBank()
	}

	questionClient := questions.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, bank)
	feedbackClient := feedback.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)
	ttsClient := voice.NewTTSClient(cfg.APIBaseURL, cfg.RequestTimeout, cfg.AudioDir, cfg.PlayerCommand)
	resumeClient := resume.NewClient(cfg.APIBaseURL, cfg.RequestTimeout)

	var historyClient *history.Client
	if cfg.AuthToken != "" {
		var cache history.LocalCache
		if historyRepo != nil {
			cache = historyRepo
		}
		historyClient = history.NewClient(cfg.APIBaseURL, cfg.AuthToken, cfg.RequestTimeout, cache)
	}

	reportService, err := service.NewReportService(cfg.SESRegion, cfg.SESFromEmail, cfg.SESFromName, false)
	if err != nil {
		log.Printf("Warning: report email unavailable: %v", err)
	}

	if len(os.Args) > 1 && os.Args[1] == "history" {
		runHistory(historyClient, historyRepo, os.Args[2:])
		return
	}

	ctx := context.Background()
	in := bufio.NewScanner(os.Stdin)

	controller, resumed := setUpSession(ctx, in, store, resumeClient, questionClient, feedbackClient, ttsClient)
	if controller == nil {
		return
	}

	if !resumed {
		if err := controller.Start(); err != nil {
			log.Fatalf("Failed to start interview: %v", err)
		}
	}

	runSession(ctx, in, controller)
	renderFeedback(controller.Feedback())

	saveToHistory(ctx, in, historyClient, controller)
	emailReport(ctx, in, reportService, controller)
}

// setUpSession either resumes a saved interview or walks the user
// through a fresh setup. Returns nil when the user aborts.
func setUpSession(ctx context.Context, in *bufio.Scanner, store progress.Store,
	resumeClient *resume.Client, source session.QuestionSource, scorer session.Scorer, synth voice.Synthesizer) (*session.Controller, bool) {

	snapshot, err := store.Load()
	if err != nil {
		log.Printf("Warning: failed to load saved progress: %v", err)
	}

	if snapshot != nil {
		fmt.Printf("Found a saved interview for %q (question %d of %d).\n",
			snapshot.Setup.JobTitle, snapshot.CurrentQuestion+1, len(snapshot.Questions))
		if promptYesNo(in, "Resume it?") {
			controller, err := session.New(snapshot.Setup, session.Deps{
				Source:      source,
				Scorer:      scorer,
				Store:       store,
				Synthesizer: synth,
			})
			if err != nil {
				log.Fatalf("Failed to create session: %v", err)
			}
			if err := controller.Restore(snapshot); err != nil {
				log.Fatalf("Failed to restore session: %v", err)
			}
			return controller, true
		}
		if err := store.Clear(); err != nil {
			log.Printf("Warning: failed to discard saved progress: %v", err)
		}
	}

	setup := promptSetup(ctx, in, resumeClient)

	controller, err := session.New(setup, session.Deps{
		Source:      source,
		Scorer:      scorer,
		Store:       store,
		Synthesizer: synth,
	})
	if err != nil {
		log.Fatalf("Invalid interview setup: %v", err)
	}

	fmt.Println("Generating questions...")
	controller.LoadQuestions(ctx)
	return controller, false
}

func promptSetup(ctx context.Context, in *bufio.Scanner, resumeClient *resume.Client) models.InterviewSetup {
	setup := models.InterviewSetup{}

	setup.JobTitle = promptLine(in, "Job title: ")
	setup.CompanyName = promptLine(in, "Company (optional): ")

	fmt.Println("Interview type: 1) Technical  2) Behavioral  3) Resume  4) Mixed")
	switch promptLine(in, "Choose [4]: ") {
	case "1":
		setup.InterviewType = models.TypeTechnical
	case "2":
		setup.InterviewType = models.TypeBehavioral
	case "3":
		setup.InterviewType = models.TypeResume
	default:
		setup.InterviewType = models.TypeMixed
	}

	fmt.Println("Difficulty: 1) Easy  2) Moderate  3) Hard")
	switch promptLine(in, "Choose [2]: ") {
	case "1":
		setup.Difficulty = models.DifficultyEasy
	case "3":
		setup.Difficulty = models.DifficultyHard
	default:
		setup.Difficulty = models.DifficultyModerate
	}

	setup.QuestionCount = promptInt(in, fmt.Sprintf("Number of questions (1-%d) [5]: ", models.MaxQuestionCount), 5)
	setup.RealisticMode = promptYesNo(in, "Realistic mode (30s prep, voice and audio on)?")
	if !setup.RealisticMode {
		setup.PrepTimeSeconds = promptInt(in, "Preparation time in seconds [0]: ", 0)
		setup.TTSEnabled = promptYesNo(in, "Read questions aloud?")
	}

	if path := promptLine(in, "Resume file to upload (optional): "); path != "" {
		upload, err := resumeClient.UploadFile(ctx, path)
		if err != nil {
			log.Printf("Warning: resume upload failed: %v", err)
		} else {
			setup.ResumeText = upload.ResumeText
			if upload.AISummary != "" {
				fmt.Printf("Resume summary: %s\n", upload.AISummary)
			}
		}
	}

	return setup
}

// runSession drives the interview loop: a background ticker advances the
// countdown while the user types answers and commands.
func runSession(ctx context.Context, in *bufio.Scanner, c *session.Controller) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-ticker.C:
				c.Tick(ctx)
			case <-done:
				return
			}
		}
	}()

	fmt.Println()
	fmt.Println("Type your answer and press Enter to add it. Commands:")
	fmt.Println("  :skip   end preparation early     :play    hear the question again")
	fmt.Println("  :next   next question             :prev    previous question")
	fmt.Println("  :finish submit the interview      :quit    save and exit")
	fmt.Println()

	lastIndex := -1
	var lastPhase session.Phase

	for {
		phase := c.Phase()
		if phase == session.PhaseCompleted {
			return
		}
		if c.CurrentIndex() != lastIndex || phase != lastPhase {
			lastIndex = c.CurrentIndex()
			lastPhase = phase
			printQuestion(c)
		}

		fmt.Print("> ")
		if !in.Scan() {
			c.Dispose()
			return
		}
		line := strings.TrimSpace(in.Text())

		switch line {
		case "":
			continue
		case ":skip":
			if err := c.SkipPrep(); err != nil {
				fmt.Println("Nothing to skip right now.")
			}
		case ":play":
			if err := c.PlayQuestion(ctx); err != nil {
				fmt.Println("Audio is not available.")
			}
		case ":next":
			if err := c.Next(ctx); err != nil {
				fmt.Println("Cannot move forward right now.")
			}
		case ":prev":
			if err := c.Previous(); err != nil {
				fmt.Println("Cannot go back right now.")
			}
		case ":finish":
			if err := c.Finish(ctx); err != nil {
				fmt.Println("Finish is only available on the last question.")
			}
		case ":quit":
			c.Dispose()
			fmt.Println("Progress saved. Run mockmate again to resume.")
			os.Exit(0)
		default:
			answer := c.AnswerText()
			if answer != "" {
				answer += " "
			}
			if err := c.SetAnswerText(answer + line); err != nil {
				fmt.Println("Wait for the preparation timer, or :skip it.")
			}
		}
	}
}

func printQuestion(c *session.Controller) {
	index := c.CurrentIndex()
	total := len(c.Questions())

	fmt.Println()
	fmt.Printf("Question %d of %d: %s\n", index+1, total, c.CurrentQuestion())
	switch c.Phase() {
	case session.PhasePreparing:
		fmt.Printf("Preparation: %ds (type :skip to start answering)\n", c.TimeRemaining())
	case session.PhaseAnswering:
		fmt.Printf("Answer time: %ds\n", c.TimeRemaining())
		if answer := c.AnswerText(); answer != "" {
			fmt.Printf("Your answer so far: %s\n", answer)
		}
	}
}

func renderFeedback(fb *models.InterviewFeedback) {
	if fb == nil {
		fmt.Println("No feedback is available.")
		return
	}

	fmt.Println()
	fmt.Println("=== Interview Feedback ===")
	fmt.Printf("Overall score: %d / 100\n", feedback.RescaleScore(fb.OverallScore))
	if fb.Summary != "" {
		fmt.Println(fb.Summary)
	}

	fmt.Printf("Communication: %d   Technical: %d   Problem solving: %d   Behavioral: %d\n",
		feedback.RescaleScore(fb.CategoryScores.Communication),
		feedback.RescaleScore(fb.CategoryScores.Technical),
		feedback.RescaleScore(fb.CategoryScores.ProblemSolving),
		feedback.RescaleScore(fb.CategoryScores.Behavioral))

	if len(fb.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, item := range fb.Strengths {
			fmt.Printf("  + %s: %s\n", item.Title, item.Description)
		}
	}
	if len(fb.Improvements) > 0 {
		fmt.Println("\nAreas to improve:")
		for _, item := range fb.Improvements {
			fmt.Printf("  - %s: %s\n", item.Title, item.Description)
			if item.Suggestion != "" {
				fmt.Printf("    Suggestion: %s\n", item.Suggestion)
			}
		}
	}
	for _, qs := range fb.QuestionScores {
		fmt.Printf("\nQuestion %d: %d / 100\n  %s\n",
			qs.QuestionIndex+1, feedback.RescaleScore(qs.Score), qs.Feedback)
	}
}

func saveToHistory(ctx context.Context, in *bufio.Scanner, client *history.Client, c *session.Controller) {
	if client == nil {
		return
	}
	if !promptYesNo(in, "Save this interview to your history?") {
		return
	}

	record := history.BuildRecord(c.SessionID(), c.Setup(), c.Questions(), c.Answers(), c.Feedback())
	if err := client.SaveInterview(ctx, record); err != nil {
		log.Printf("Failed to save interview: %v", err)
		return
	}
	fmt.Println("Interview saved.")
}

func emailReport(ctx context.Context, in *bufio.Scanner, svc *service.ReportService, c *session.Controller) {
	if svc == nil || !svc.IsEnabled() || c.Feedback() == nil {
		return
	}
	email := promptLine(in, "Email this report to (leave empty to skip): ")
	if email == "" {
		return
	}
	if err := svc.SendFeedbackReport(ctx, email, c.Setup(), c.Feedback()); err != nil {
		log.Printf("Failed to send report: %v", err)
		return
	}
	fmt.Println("Report sent.")
}

func runHistory(client *history.Client, repo *repository.HistoryRepository, args []string) {
	// A session id argument shows the locally cached record, no token needed
	if len(args) > 0 {
		showCachedInterview(repo, args[0])
		return
	}

	if client == nil {
		fmt.Println("Set AUTH_TOKEN to browse your interview history.")
		return
	}

	summaries, err := client.ListInterviews(context.Background(), 20)
	if err != nil {
		log.Fatalf("Failed to list interviews: %v", err)
	}
	if len(summaries) == 0 {
		fmt.Println("No interviews yet.")
		return
	}

	for _, s := range summaries {
		fmt.Printf("#%d  %s  %s/%s  score %d  (%s)\n",
			s.ID, s.JobTitle, s.InterviewType, s.Difficulty,
			feedback.RescaleScore(s.OverallScore), s.CreatedAt.Format("2006-01-02"))
	}
}

func showCachedInterview(repo *repository.HistoryRepository, sessionID string) {
	if repo == nil {
		fmt.Println("No local database is configured.")
		return
	}

	record, err := repo.GetBySessionID(sessionID)
	if err != nil {
		log.Fatalf("Failed to load interview: %v", err)
	}
	if record == nil {
		fmt.Printf("No saved interview with session id %s.\n", sessionID)
		return
	}

	fmt.Printf("%s (%s/%s)  score %d\n", record.JobTitle, record.InterviewType,
		record.Difficulty, feedback.RescaleScore(record.OverallScore))
	if record.FeedbackSummary != "" {
		fmt.Println(record.FeedbackSummary)
	}
	for i, question := range record.Questions {
		fmt.Printf("\nQ%d: %s\n", i+1, question)
		if i < len(record.Answers) && record.Answers[i] != "" {
			fmt.Printf("A: %s\n", record.Answers[i])
		}
	}
}

func promptLine(in *bufio.Scanner, prompt string) string {
	fmt.Print(prompt)
	if !in.Scan() {
		return ""
	}
	return strings.TrimSpace(in.Text())
}

func promptInt(in *bufio.Scanner, prompt string, defaultValue int) int {
	value := promptLine(in, prompt)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func promptYesNo(in *bufio.Scanner, prompt string) bool {
	answer := strings.ToLower(promptLine(in, prompt+" [y/N]: "))
	return answer == "y" || answer == "yes"
}
