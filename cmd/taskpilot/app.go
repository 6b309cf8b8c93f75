package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taskpilot/client/domain"
	"github.com/taskpilot/client/internal/config"
	"github.com/taskpilot/client/internal/services"
	"github.com/taskpilot/client/internal/services/lifecycle"
	"github.com/taskpilot/client/persist"
	"github.com/taskpilot/client/store"
	"github.com/taskpilot/client/view"
)

// App bundles the wired components for command dispatch.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	auth     *store.AuthStore
	tasks    *store.TaskStore
	state    *persist.Store
	autosave *persist.Autosave
	janitor  *services.Janitor
	manager  *lifecycle.Manager
}

// Run dispatches one command and returns the process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		usage()
		return 2
	}

	var err error
	switch args[0] {
	case "signup":
		err = a.cmdSignup(ctx, args[1:])
	case "login":
		err = a.cmdLogin(ctx, args[1:])
	case "logout":
		err = a.cmdLogout()
	case "list":
		err = a.cmdList(ctx, args[1:])
	case "add":
		err = a.cmdAdd(ctx, args[1:])
	case "edit":
		err = a.cmdEdit(ctx, args[1:])
	case "done":
		err = a.cmdDone(ctx, args[1:])
	case "rm":
		err = a.cmdRemove(ctx, args[1:])
	case "status":
		err = a.cmdStatus()
	case "shell":
		err = a.cmdShell(ctx)
	case "help", "-h", "--help":
		usage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		usage()
		return 2
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}

func (a *App) cmdSignup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ContinueOnError)
	name := fs.String("name", "", "display name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.auth.Signup(ctx, *name, *email, *password); err != nil {
		return err
	}
	fmt.Println("account created; log in to start")
	return nil
}

func (a *App) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.auth.Login(ctx, *email, *password); err != nil {
		return err
	}
	session := a.auth.Session()
	if session.User != nil {
		fmt.Printf("logged in as %s\n", session.User.Name)
	}
	return nil
}

// cmdLogout clears the in-memory session and purges durable state, the way
// the navigation-triggered logout removes the persisted envelope.
func (a *App) cmdLogout() error {
	a.auth.Logout()
	if err := a.state.Purge(); err != nil {
		return err
	}
	fmt.Println("logged out")
	return nil
}

func (a *App) cmdList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	priority := fs.String("priority", "", "filter by priority (low|medium|high)")
	due := fs.String("due", "", "filter by due date (YYYY-MM-DD)")
	status := fs.String("status", "", "filter by status (incomplete|complete)")
	search := fs.String("search", "", "substring search over title and description")
	page := fs.Int("page", 1, "page number")
	mode := fs.String("mode", "list", "presentation mode (grid|list)")
	noFetch := fs.Bool("local", false, "render the cached collection without refetching")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.requireSession()
	if err != nil {
		return err
	}

	if !*noFetch {
		if err := a.tasks.FetchAll(ctx, token); err != nil {
			return err
		}
	}

	filter := view.Filter{
		Priority: domain.Priority(*priority),
		Status:   domain.Status(*status),
		Search:   *search,
	}
	if *due != "" {
		parsed, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("invalid -due date: %w", err)
		}
		filter.DueDate = &parsed
	}

	size := a.cfg.View.ListPageSize
	if *mode == "grid" {
		size = a.cfg.View.GridPageSize
	}

	all := a.tasks.Tasks()
	filtered := view.Apply(all, filter)
	pageTasks := view.Paginate(filtered, *page-1, size)

	summary := view.Summarize(all)
	fmt.Printf("%d tasks, %d done, %d open, %d high priority\n",
		summary.Total, summary.Completed, summary.Pending, summary.HighPriority)

	now := time.Now()
	for _, task := range pageTasks {
		printTask(task, now)
	}
	fmt.Printf("page %d of %d (%d matching)\n", *page, view.PageCount(len(filtered), size), len(filtered))
	return nil
}

func (a *App) cmdAdd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	title := fs.String("title", "", "task title")
	desc := fs.String("desc", "", "description")
	due := fs.String("due", "", "due date (YYYY-MM-DD)")
	priority := fs.String("priority", string(domain.PriorityMedium), "priority (low|medium|high)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, err := a.requireSession()
	if err != nil {
		return err
	}

	draft := domain.TaskDraft{
		Title:       *title,
		Description: *desc,
		Priority:    domain.Priority(*priority),
	}
	if *due != "" {
		parsed, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("invalid -due date: %w", err)
		}
		draft.DueDate = &parsed
	}

	created, err := a.tasks.Create(ctx, draft, token)
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", created.ID)
	return nil
}

func (a *App) cmdEdit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	id := fs.String("id", "", "task id")
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description")
	due := fs.String("due", "", "new due date (YYYY-MM-DD)")
	priority := fs.String("priority", "", "new priority")
	status := fs.String("status", "", "new status")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	token, err := a.requireSession()
	if err != nil {
		return err
	}

	current, ok := a.lookup(*id)
	if !ok {
		return domain.ErrTaskNotFound
	}

	// The server expects a full replacement; unset flags keep current values.
	draft := domain.TaskDraft{
		Title:       current.Title,
		Description: current.Description,
		DueDate:     current.DueDate,
		Priority:    current.Priority,
		Status:      current.Status,
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			draft.Title = *title
		case "desc":
			draft.Description = *desc
		case "priority":
			draft.Priority = domain.Priority(*priority)
		case "status":
			draft.Status = domain.Status(*status)
		}
	})
	if *due != "" {
		parsed, err := time.Parse("2006-01-02", *due)
		if err != nil {
			return fmt.Errorf("invalid -due date: %w", err)
		}
		draft.DueDate = &parsed
	}

	updated, err := a.tasks.Update(ctx, *id, draft, token)
	if err != nil {
		return err
	}
	printTask(*updated, time.Now())
	return nil
}

func (a *App) cmdDone(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("done", flag.ContinueOnError)
	id := fs.String("id", "", "task id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	token, err := a.requireSession()
	if err != nil {
		return err
	}

	current, ok := a.lookup(*id)
	if !ok {
		return domain.ErrTaskNotFound
	}

	draft := domain.TaskDraft{
		Title:       current.Title,
		Description: current.Description,
		DueDate:     current.DueDate,
		Priority:    current.Priority,
		Status:      domain.StatusComplete,
	}
	if _, err := a.tasks.Update(ctx, *id, draft, token); err != nil {
		return err
	}
	fmt.Printf("done %s\n", *id)
	return nil
}

func (a *App) cmdRemove(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	id := fs.String("id", "", "task id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return fmt.Errorf("-id is required")
	}

	token, err := a.requireSession()
	if err != nil {
		return err
	}

	if err := a.tasks.Delete(ctx, *id, token); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", *id)
	return nil
}

func (a *App) cmdStatus() error {
	session := a.auth.Session()
	if session.User != nil {
		fmt.Printf("user: %s <%s>\n", session.User.Name, session.User.Email)
	} else {
		fmt.Println("user: none")
	}
	fmt.Printf("authenticated: %v\n", session.IsAuthenticated(time.Now()))

	if size, err := a.state.HistorySize(); err == nil {
		fmt.Printf("snapshot history: %d entries\n", size)
	}

	summary := view.Summarize(a.tasks.Tasks())
	fmt.Printf("cached tasks: %d (%d done, %d open)\n", summary.Total, summary.Completed, summary.Pending)
	return nil
}

// cmdShell reads commands from stdin until exit or EOF. The janitor runs on
// its schedule while the shell is open.
func (a *App) cmdShell(ctx context.Context) error {
	if a.cfg.Storage.JanitorEnabled {
		a.janitor.Start()
		defer a.janitor.Stop()
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("taskpilot shell; type help or exit")
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "exit" || fields[0] == "quit" {
			return nil
		}
		if fields[0] == "shell" {
			fmt.Fprintln(os.Stderr, "already in a shell")
			continue
		}
		a.Run(ctx, fields)
	}
}

// requireSession is the auth gate: the token must exist and not be expired.
func (a *App) requireSession() (string, error) {
	session := a.auth.Session()
	if !session.IsAuthenticated(time.Now()) {
		return "", domain.ErrUnauthorized
	}
	return session.Token, nil
}

func (a *App) lookup(id string) (domain.Task, bool) {
	for _, task := range a.tasks.Tasks() {
		if task.ID == id {
			return task, true
		}
	}
	return domain.Task{}, false
}

func printTask(task domain.Task, now time.Time) {
	mark := " "
	if task.IsCompleted() {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %-8s %s  %s", mark, task.Priority, task.ID, task.Title)
	if task.DueDate != nil {
		line += "  (" + view.DueLabel(*task.DueDate, now) + ")"
	}
	fmt.Println(line)
}
