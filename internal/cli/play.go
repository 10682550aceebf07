package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"knowledge-quiz/internal/app"
	"knowledge-quiz/internal/config"
	"knowledge-quiz/internal/domain"
	"knowledge-quiz/internal/infra/memory"
	"knowledge-quiz/internal/infra/sqlite"
	"knowledge-quiz/internal/infra/sqlite/migrations"
	"knowledge-quiz/internal/logger"
	"knowledge-quiz/internal/seed"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errInputClosed ends the play loop when stdin is exhausted.
var errInputClosed = errors.New("input closed")

// NewPlayCmd runs the interactive quiz in the terminal.
func NewPlayCmd(configPath, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play the quiz interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPlay(cmd.Context(), *configPath, *dbPath, cmd.InOrStdin(), cmd.OutOrStdout())
			if errors.Is(err, errInputClosed) {
				return nil
			}
			return err
		},
	}
}

func runPlay(ctx context.Context, configPath, dbPath string, in io.Reader, out io.Writer) error {
	cfg, err := loadConfig(configPath, dbPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Log.Path, cfg.Log.Debug)
	defer log.Sync()

	store, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := setupBank(ctx, store, log); err != nil {
		return err
	}

	bank := memory.NewCachedBank(
		sqlite.NewQuestionBank(store),
		config.Duration(cfg.Quiz.BankTTL, 10*time.Minute),
	)
	accounts := app.NewAccountService(store)
	questionTime := config.Duration(cfg.Quiz.QuestionTime, 45*time.Second)

	ui := newConsole(in, out)
	fmt.Fprintln(out, "Welcome to the knowledge quiz!")

	user, err := authenticate(ctx, ui, accounts)
	if err != nil {
		return err
	}
	log.Info("user authenticated", zap.String("username", user.Username))

	for {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "1) quiz")
		fmt.Fprintln(out, "2) practice")
		fmt.Fprintln(out, "3) my records")
		fmt.Fprintln(out, "4) ranking")
		fmt.Fprintln(out, "5) quit")
		choice, err := ui.ask("> ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			kind, err := chooseKind(ui)
			if err != nil {
				return err
			}
			if err := runQuiz(ctx, ui, bank, accounts, log, user, kind, questionTime); err != nil {
				return err
			}
		case "2":
			kind, err := chooseKind(ui)
			if err != nil {
				return err
			}
			if err := runPractice(ctx, ui, bank, kind); err != nil {
				return err
			}
		case "3":
			if err := showRecords(ctx, ui, accounts, user.Username); err != nil {
				return err
			}
		case "4":
			if err := showRanking(ctx, ui, accounts); err != nil {
				return err
			}
		case "5":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		default:
			fmt.Fprintln(out, "pick 1-5")
		}
	}
}

// setupBank applies migrations and seeds the built-in questions when the
// bank is empty, so a fresh install is playable without a separate step.
func setupBank(ctx context.Context, store *sqlite.Store, log *zap.Logger) error {
	if err := migrations.Run(ctx, store.DB()); err != nil {
		return err
	}
	var count int
	if err := store.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM questions").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	questions := seed.Questions()
	if err := store.InsertQuestions(ctx, questions); err != nil {
		return err
	}
	log.Info("seeded empty question bank", zap.Int("questions", len(questions)))
	return nil
}

// console serializes user input through a single channel so that question
// timers and typed lines are handled by one select loop.
type console struct {
	out   io.Writer
	lines chan string
}

func newConsole(in io.Reader, out io.Writer) *console {
	c := &console{out: out, lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			c.lines <- scanner.Text()
		}
		close(c.lines)
	}()
	return c
}

// ask prompts and blocks for the next line.
func (c *console) ask(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)
	line, ok := <-c.lines
	if !ok {
		return "", errInputClosed
	}
	return strings.TrimSpace(line), nil
}

func authenticate(ctx context.Context, ui *console, accounts *app.AccountService) (domain.User, error) {
	for {
		fmt.Fprintln(ui.out)
		fmt.Fprintln(ui.out, "1) login")
		fmt.Fprintln(ui.out, "2) register")
		choice, err := ui.ask("> ")
		if err != nil {
			return domain.User{}, err
		}
		switch choice {
		case "1":
			username, err := ui.ask("username: ")
			if err != nil {
				return domain.User{}, err
			}
			password, err := ui.ask("password: ")
			if err != nil {
				return domain.User{}, err
			}
			user, err := accounts.Login(ctx, username, password)
			if err != nil {
				if errors.Is(err, domain.ErrInvalidCredentials) {
					fmt.Fprintln(ui.out, "invalid username or password")
					continue
				}
				return domain.User{}, err
			}
			fmt.Fprintf(ui.out, "Hello, %s!\n", user.Username)
			return user, nil
		case "2":
			username, err := ui.ask("username: ")
			if err != nil {
				return domain.User{}, err
			}
			email, err := ui.ask("email: ")
			if err != nil {
				return domain.User{}, err
			}
			password, err := ui.ask("password: ")
			if err != nil {
				return domain.User{}, err
			}
			user, err := accounts.Register(ctx, username, email, password)
			if err != nil {
				if errors.Is(err, domain.ErrConflict) {
					fmt.Fprintln(ui.out, "username or email already taken")
					continue
				}
				return domain.User{}, err
			}
			fmt.Fprintf(ui.out, "Welcome aboard, %s!\n", user.Username)
			return user, nil
		default:
			fmt.Fprintln(ui.out, "pick 1 or 2")
		}
	}
}

func chooseKind(ui *console) (domain.QuestionKind, error) {
	for {
		fmt.Fprintln(ui.out, "quiz type: 1) single choice  2) multiple choice  3) open")
		choice, err := ui.ask("> ")
		if err != nil {
			return "", err
		}
		switch choice {
		case "1":
			return domain.Single, nil
		case "2":
			return domain.Multiple, nil
		case "3":
			return domain.Open, nil
		default:
			fmt.Fprintln(ui.out, "pick 1-3")
		}
	}
}

func runQuiz(ctx context.Context, ui *console, bank *memory.CachedBank, accounts *app.AccountService, log *zap.Logger, user domain.User, kind domain.QuestionKind, questionTime time.Duration) error {
	questions, err := bank.QuestionsOfType(ctx, kind)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintf(ui.out, "no %s questions in the bank\n", kind)
		return nil
	}

	session := app.NewSession(kind, questions)
	fmt.Fprintf(ui.out, "\nStarting a %s quiz with %d questions. You have %s per question.\n", kind, session.Len(), questionTime)
	fmt.Fprintln(ui.out, "Commands: !50  !hint  !skip  !back")

	for !session.Completed() {
		index := session.Position()
		q, ok := session.Current()
		if !ok {
			break
		}
		options := q.Options
		printQuestion(ui.out, index+1, session.Len(), q, options)

		timer := time.NewTimer(questionTime)
		answered := false
		for !answered {
			fmt.Fprint(ui.out, "answer: ")
			select {
			case <-timer.C:
				if session.OnTimeout(index) {
					fmt.Fprintf(ui.out, "\nTime is up! The correct answer was: %s\n", q.CorrectDisplay())
				}
				answered = true
			case line, lineOK := <-ui.lines:
				if !lineOK {
					timer.Stop()
					return errInputClosed
				}
				line = strings.TrimSpace(line)
				switch line {
				case "!50":
					reduced, used := session.UseFiftyFifty()
					if !used {
						fmt.Fprintln(ui.out, "50/50 is not available")
						continue
					}
					options = reduced
					printOptions(ui.out, options)
				case "!hint":
					hint, used := session.UseHint()
					if !used {
						fmt.Fprintln(ui.out, "hint is not available")
						continue
					}
					fmt.Fprintf(ui.out, "Hint: %s\n", hint)
				case "!skip":
					if !session.UseSkip() {
						fmt.Fprintln(ui.out, "skip is not available")
						continue
					}
					fmt.Fprintln(ui.out, "Question skipped.")
					answered = true
				case "!back":
					if !session.GoPrevious() {
						fmt.Fprintln(ui.out, "already at the first question")
						continue
					}
					answered = true
				default:
					outcome, err := session.Submit(parseAnswer(q.Kind, options, line))
					if err != nil {
						if errors.Is(err, domain.ErrEmptyAnswer) {
							fmt.Fprintln(ui.out, "the answer cannot be empty")
							continue
						}
						timer.Stop()
						return err
					}
					if outcome.Correct {
						fmt.Fprintln(ui.out, "Correct!")
					} else {
						fmt.Fprintf(ui.out, "Wrong. The correct answer was: %s\n", outcome.CorrectAnswer)
					}
					answered = true
				}
			}
		}
		timer.Stop()
	}

	fmt.Fprintf(ui.out, "\nQuiz finished! Score: %d/%d\n", session.Score(), session.Len())
	if mistakes := session.Mistakes(); len(mistakes) > 0 {
		fmt.Fprintln(ui.out, "Review your mistakes:")
		for _, m := range mistakes {
			fmt.Fprintf(ui.out, "  %s -> %s\n", m.Question, m.CorrectAnswer)
		}
	}

	if err := accounts.FinishQuiz(ctx, user.Username, session); err != nil {
		log.Error("save quiz result failed", zap.String("username", user.Username), zap.Error(err))
		fmt.Fprintln(ui.out, "could not save your result, see the log for details")
		return nil
	}
	if achievements, err := accounts.Achievements(ctx, user.Username); err == nil && len(achievements) > 0 {
		fmt.Fprintln(ui.out, "Achievements:")
		for _, a := range achievements {
			fmt.Fprintf(ui.out, "  %s: %s\n", a.Name, a.Description)
		}
	}
	return nil
}

// runPractice drills questions without timers, scoring, or persistence.
// Wrong answers stay on the same question with an unrationed hint.
func runPractice(ctx context.Context, ui *console, bank *memory.CachedBank, kind domain.QuestionKind) error {
	questions, err := bank.QuestionsOfType(ctx, kind)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		fmt.Fprintf(ui.out, "no %s questions in the bank\n", kind)
		return nil
	}

	practice := app.NewPracticeSession(questions)
	fmt.Fprintln(ui.out, "\nPractice mode. Commands: !hint  !next  !quit")

	for !practice.Done() {
		q, ok := practice.Current()
		if !ok {
			break
		}
		printQuestion(ui.out, 0, 0, q, q.Options)
		for {
			line, err := ui.ask("answer: ")
			if err != nil {
				return err
			}
			if line == "!quit" {
				fmt.Fprintf(ui.out, "Practice over, %d wrong attempts in total.\n", practice.TotalErrors())
				return nil
			}
			if line == "!hint" {
				fmt.Fprintf(ui.out, "Hint: %s\n", practice.Hint())
				continue
			}
			if line == "!next" {
				practice.Next()
				break
			}
			correct, err := practice.Check(parseAnswer(q.Kind, q.Options, line))
			if err != nil {
				if errors.Is(err, domain.ErrEmptyAnswer) {
					fmt.Fprintln(ui.out, "the answer cannot be empty")
					continue
				}
				return err
			}
			if correct {
				fmt.Fprintln(ui.out, "Correct!")
				practice.Next()
				break
			}
			fmt.Fprintf(ui.out, "Not quite, try again (%d wrong so far). Hint: %s\n", practice.ErrorCount(), practice.Hint())
		}
	}
	fmt.Fprintf(ui.out, "Practice over, %d wrong attempts in total.\n", practice.TotalErrors())
	return nil
}

func showRecords(ctx context.Context, ui *console, accounts *app.AccountService, username string) error {
	results, err := accounts.Records(ctx, username)
	if err != nil {
		return err
	}
	stats, err := accounts.Stats(ctx, username)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(ui.out, "no quizzes finished yet")
		return nil
	}
	for _, r := range results {
		fmt.Fprintf(ui.out, "%s  %d points  %s\n", r.QuizType, r.Points, r.Date)
	}
	fmt.Fprintf(ui.out, "quizzes: %d  best: %d  average: %.2f\n", stats.Count, stats.Best, stats.Average)
	return nil
}

func showRanking(ctx context.Context, ui *console, accounts *app.AccountService) error {
	entries, err := accounts.Ranking(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(ui.out, "no results yet")
		return nil
	}
	for i, e := range entries {
		fmt.Fprintf(ui.out, "%2d. %s  %d points\n", i+1, e.Username, e.TotalPoints)
	}
	return nil
}

func printQuestion(out io.Writer, number, total int, q domain.Question, options []string) {
	fmt.Fprintln(out)
	if total > 0 {
		fmt.Fprintf(out, "Question %d/%d: %s\n", number, total, q.Text)
	} else {
		fmt.Fprintf(out, "Question: %s\n", q.Text)
	}
	if q.Kind == domain.Multiple {
		fmt.Fprintln(out, "(select all that apply, comma-separated)")
	}
	printOptions(out, options)
}

func printOptions(out io.Writer, options []string) {
	for i, opt := range options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}
}

// parseAnswer maps typed input to an answer for the question kind. Numeric
// tokens select from the currently displayed options, anything else is
// taken literally.
func parseAnswer(kind domain.QuestionKind, options []string, line string) domain.Answer {
	switch kind {
	case domain.Single:
		return domain.Answer{Text: resolveOption(options, line)}
	case domain.Multiple:
		var choices []string
		for _, token := range strings.Split(line, ",") {
			token = strings.TrimSpace(token)
			if token == "" {
				continue
			}
			choices = append(choices, resolveOption(options, token))
		}
		return domain.Answer{Choices: choices}
	default:
		return domain.Answer{Text: line}
	}
}

func resolveOption(options []string, token string) string {
	if n, err := strconv.Atoi(token); err == nil && n >= 1 && n <= len(options) {
		return options[n-1]
	}
	return token
}
