// Command taskctl is the command line client for the taskhub API.
//
// Usage:
//
//	taskctl register --email you@example.com --password secret [--name You]
//	taskctl login --email you@example.com --password secret
//	taskctl add "buy milk" [--desc "2 liters"]
//	taskctl list [--completed|--pending] [--search text]
//	taskctl get <task-id>
//	taskctl update <task-id> [--title t] [--desc d]
//	taskctl done <task-id> [--undo]
//	taskctl rm <task-id>
//	taskctl whoami
//	taskctl logout
package main

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

const defaultServer = "http://localhost:8080"

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "register":
		err = runRegister(args)
	case "login":
		err = runLogin(args)
	case "logout":
		err = runLogout(args)
	case "whoami":
		err = runWhoami(args)
	case "add":
		err = runAdd(args)
	case "list":
		err = runList(args)
	case "get":
		err = runGet(args)
	case "update":
		err = runUpdate(args)
	case "done":
		err = runDone(args)
	case "rm":
		err = runRemove(args)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "taskctl: unknown command %q\n\n", command)
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "taskctl: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, strings.TrimSpace(`
taskctl - manage your tasks from the terminal

Commands:
  register   create an account
  login      authenticate and store the session
  logout     revoke and forget the session
  whoami     show the logged-in account
  add        create a task
  list       list tasks
  get        show one task
  update     change a task's title or description
  done       mark a task completed (--undo to reopen)
  rm         delete a task
`))
}

func newFlagSet(name string) (*pflag.FlagSet, *string) {
	flags := pflag.NewFlagSet(name, pflag.ExitOnError)
	server := flags.String("server", defaultServer, "taskhub server base URL")

	return flags, server
}

// authedClient loads the stored session and binds it to a client. The
// --server flag overrides the stored server when set.
func authedClient(server string) (*apiClient, *storedSession, error) {
	sess, err := loadSession()
	if err != nil {
		return nil, nil, err
	}

	baseURL := sess.Server
	if server != defaultServer {
		baseURL = server
	}

	return newAPIClient(baseURL, sess.Token), sess, nil
}

func runRegister(args []string) error {
	flags, server := newFlagSet("register")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	name := flags.String("name", "", "display name")
	_ = flags.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	user, err := newAPIClient(*server, "").register(*name, *email, *password)
	if err != nil {
		return err
	}

	fmt.Printf("registered %s (%s)\n", user.Email, user.ID)

	return nil
}

func runLogin(args []string) error {
	flags, server := newFlagSet("login")
	email := flags.String("email", "", "account email")
	password := flags.String("password", "", "account password")
	_ = flags.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("--email and --password are required")
	}

	out, err := newAPIClient(*server, "").login(*email, *password)
	if err != nil {
		return err
	}

	if err := saveSession(&storedSession{
		Server: *server,
		Token:  out.Token,
		UserID: out.User.ID,
		Email:  out.User.Email,
	}); err != nil {
		return err
	}

	fmt.Printf("logged in as %s\n", out.User.Email)

	return nil
}

func runLogout(args []string) error {
	flags, server := newFlagSet("logout")
	_ = flags.Parse(args)

	client, _, err := authedClient(*server)
	if err != nil {
		// No stored session: nothing to revoke.
		return clearSession()
	}

	if err := client.logout(); err != nil {
		fmt.Fprintf(os.Stderr, "taskctl: server logout failed: %v\n", err)
	}

	if err := clearSession(); err != nil {
		return err
	}

	fmt.Println("logged out")

	return nil
}

func runWhoami(args []string) error {
	flags, server := newFlagSet("whoami")
	_ = flags.Parse(args)

	client, _, err := authedClient(*server)
	if err != nil {
		return err
	}

	user, err := client.me()
	if err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", user.Email, user.ID)

	return nil
}

func runAdd(args []string) error {
	flags, server := newFlagSet("add")
	desc := flags.String("desc", "", "task description")
	_ = flags.Parse(args)

	if flags.NArg() < 1 {
		return fmt.Errorf("usage: taskctl add <title> [--desc text]")
	}
	title := strings.Join(flags.Args(), " ")

	client, sess, err := authedClient(*server)
	if err != nil {
		return err
	}

	task, err := client.createTask(sess.UserID, title, *desc)
	if err != nil {
		return err
	}

	fmt.Printf("created %s\n", task.ID)

	return nil
}

func runList(args []string) error {
	flags, server := newFlagSet("list")
	completed := flags.Bool("completed", false, "only completed tasks")
	pending := flags.Bool("pending", false, "only pending tasks")
	search := flags.String("search", "", "filter by text in title or description")
	_ = flags.Parse(args)

	if *completed && *pending {
		return fmt.Errorf("--completed and --pending are mutually exclusive")
	}

	query := url.Values{}
	if *completed {
		query.Set("completed", "true")
	}
	if *pending {
		query.Set("completed", "false")
	}
	if *search != "" {
		query.Set("search", *search)
	}
	qs := ""
	if len(query) > 0 {
		qs = "?" + query.Encode()
	}

	client, sess, err := authedClient(*server)
	if err != nil {
		return err
	}

	tasks, err := client.listTasks(sess.UserID, qs)
	if err != nil {
		return err
	}

	if len(tasks) == 0 {
		fmt.Println("no tasks")

		return nil
	}

	for _, task := range tasks {
		marker := " "
		if task.Completed {
			marker = "x"
		}
		fmt.Printf("[%s] %s  %s\n", marker, task.ID, task.Title)
	}

	return nil
}

func runGet(args []string) error {
	flags, server := newFlagSet("get")
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		return fmt.Errorf("usage: taskctl get <task-id>")
	}

	client, sess, err := authedClient(*server)
	if err != nil {
		return err
	}

	task, err := client.getTask(sess.UserID, flags.Arg(0))
	if err != nil {
		return err
	}

	printTask(task)

	return nil
}

func runUpdate(args []string) error {
	flags, server := newFlagSet("update")
	title := flags.String("title", "", "new title")
	desc := flags.String("desc", "", "new description")
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		return fmt.Errorf("usage: taskctl update <task-id> [--title t] [--desc d]")
	}

	fields := map[string]any{}
	if flags.Changed("title") {
		fields["title"] = *title
	}
	if flags.Changed("desc") {
		fields["description"] = *desc
	}
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update, pass --title or --desc")
	}

	client, sess, err := authedClient(*server)
	if err != nil {
		return err
	}

	task, err := client.updateTask(sess.UserID, flags.Arg(0), fields)
	if err != nil {
		return err
	}

	printTask(task)

	return nil
}

func runDone(args []string) error {
	flags, server := newFlagSet("done")
	undo := flags.Bool("undo", false, "reopen instead of completing")
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		return fmt.Errorf("usage: taskctl done <task-id> [--undo]")
	}

	client, sess, err := authedClient(*server)
	if err != nil {
		return err
	}

	task, err := client.completeTask(sess.UserID, flags.Arg(0), !*undo)
	if err != nil {
		return err
	}

	printTask(task)

	return nil
}

func runRemove(args []string) error {
	flags, server := newFlagSet("rm")
	_ = flags.Parse(args)

	if flags.NArg() != 1 {
		return fmt.Errorf("usage: taskctl rm <task-id>")
	}

	client, sess, err := authedClient(*server)
	if err != nil {
		return err
	}

	if err := client.deleteTask(sess.UserID, flags.Arg(0)); err != nil {
		return err
	}

	fmt.Println("deleted")

	return nil
}

func printTask(task *taskPayload) {
	status := "pending"
	if task.Completed {
		status = "completed"
	}

	fmt.Printf("id:          %s\n", task.ID)
	fmt.Printf("title:       %s\n", task.Title)
	if task.Description != "" {
		fmt.Printf("description: %s\n", task.Description)
	}
	fmt.Printf("status:      %s\n", status)
	fmt.Printf("created:     %s\n", task.CreatedAt.Local().Format("2006-01-02 15:04"))
	fmt.Printf("updated:     %s\n", task.UpdatedAt.Local().Format("2006-01-02 15:04"))
}
