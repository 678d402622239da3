// cmd/libractl/main.go
//
// libractl is a command line client for the lending API. It talks to a
// running api process over HTTP; point it at the server with --addr and
// authenticate with the token printed by `libractl login`.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	addr  string
	token string
)

func main() {
	root := &cobra.Command{
		Use:           "libractl",
		Short:         "Client for the libralend lending API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", envOr("LIBRALEND_ADDR", "http://localhost:8080"), "base URL of the lending API")
	root.PersistentFlags().StringVar(&token, "token", os.Getenv("LIBRALEND_TOKEN"), "bearer token from `libractl login`")

	root.AddCommand(
		loginCmd(),
		registerCmd(),
		addBookCmd(),
		addCDCmd(),
		searchCmd(),
		borrowCmd(),
		returnCmd(),
		payCmd(),
		reportCmd(),
		remindCmd(),
		usersCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login <username> <password>",
		Short: "Authenticate and print a bearer token",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Token string `json:"token"`
				User  struct {
					ID   string `json:"id"`
					Role string `json:"role"`
				} `json:"user"`
			}
			err := call(http.MethodPost, "/login", map[string]string{
				"username": args[0],
				"password": args[1],
			}, &resp)
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (%s)\n", args[0], resp.User.Role)
			fmt.Printf("export LIBRALEND_TOKEN=%s\n", resp.Token)
			return nil
		},
	}
}

func registerCmd() *cobra.Command {
	var admin bool
	cmd := &cobra.Command{
		Use:   "register <username> <name> <password>",
		Short: "Register a new user",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/users"
			if admin {
				path = "/admin/users"
			}
			var user map[string]any
			err := call(http.MethodPost, path, map[string]string{
				"username": args[0],
				"name":     args[1],
				"password": args[2],
			}, &user)
			if err != nil {
				return err
			}
			fmt.Printf("Registered user %s\n", user["id"])
			return nil
		},
	}
	cmd.Flags().BoolVar(&admin, "admin", false, "create an administrator (requires an admin token)")
	return cmd
}

func addBookCmd() *cobra.Command {
	var copies int
	cmd := &cobra.Command{
		Use:   "add-book <title> <author> <isbn>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var media map[string]any
			err := call(http.MethodPost, "/media/books", map[string]any{
				"title":  args[0],
				"author": args[1],
				"isbn":   args[2],
				"copies": copies,
			}, &media)
			if err != nil {
				return err
			}
			fmt.Printf("Added book %s\n", media["id"])
			return nil
		},
	}
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies")
	return cmd
}

func addCDCmd() *cobra.Command {
	var copies int
	cmd := &cobra.Command{
		Use:   "add-cd <title> <artist>",
		Short: "Add a CD to the catalog",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var media map[string]any
			err := call(http.MethodPost, "/media/cds", map[string]any{
				"title":  args[0],
				"artist": args[1],
				"copies": copies,
			}, &media)
			if err != nil {
				return err
			}
			fmt.Printf("Added CD %s\n", media["id"])
			return nil
		},
	}
	cmd.Flags().IntVar(&copies, "copies", 1, "number of copies")
	return cmd
}

func searchCmd() *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "search [term]",
		Short: "Search the catalog by title, author, ISBN or artist",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			if len(args) == 1 {
				query.Set("q", args[0])
			}
			if category != "" {
				query.Set("category", strings.ToUpper(category))
			}
			path := "/media"
			if encoded := query.Encode(); encoded != "" {
				path += "?" + encoded
			}

			var results []struct {
				ID              string `json:"id"`
				Title           string `json:"title"`
				Category        string `json:"category"`
				Author          string `json:"author"`
				Artist          string `json:"artist"`
				CopiesAvailable int    `json:"copies_available"`
				TotalCopies     int    `json:"total_copies"`
			}
			if err := call(http.MethodGet, path, nil, &results); err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Println("No matches.")
				return nil
			}
			for _, m := range results {
				creator := m.Author
				if m.Category == "CD" {
					creator = m.Artist
				}
				fmt.Printf("%s  [%s] %q by %s (%d/%d available)\n",
					m.ID, m.Category, m.Title, creator, m.CopiesAvailable, m.TotalCopies)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "restrict to BOOK or CD")
	return cmd
}

func borrowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <user-id> <media-id>",
		Short: "Check out a media item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var loan struct {
				ID      string    `json:"id"`
				DueDate time.Time `json:"due_date"`
			}
			err := call(http.MethodPost, "/loans", map[string]string{
				"user_id":  args[0],
				"media_id": args[1],
			}, &loan)
			if err != nil {
				return err
			}
			fmt.Printf("Loan %s created, due %s\n", loan.ID, loan.DueDate.Format("2006-01-02"))
			return nil
		},
	}
}

func returnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "return <loan-id>",
		Short: "Return a borrowed item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Fine string `json:"fine"`
			}
			err := call(http.MethodPost, "/loans/"+args[0]+"/return", nil, &resp)
			if err != nil {
				return err
			}
			fmt.Printf("Returned. Fine assessed: %s\n", resp.Fine)
			return nil
		},
	}
}

func payCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pay <user-id> <amount>",
		Short: "Pay down a user's fine balance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Balance string `json:"balance"`
			}
			err := call(http.MethodPost, "/fines/payments", map[string]string{
				"user_id": args[0],
				"amount":  args[1],
			}, &resp)
			if err != nil {
				return err
			}
			fmt.Printf("Remaining balance: %s\n", resp.Balance)
			return nil
		},
	}
}

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report <user-id>",
		Short: "Show a user's overdue items and accrued fines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var report struct {
				UserID string `json:"user_id"`
				Items  []struct {
					MediaTitle  string `json:"media_title"`
					Category    string `json:"category"`
					OverdueDays int    `json:"overdue_days"`
					FineAmount  string `json:"fine_amount"`
				} `json:"items"`
				TotalFine string `json:"total_fine"`
			}
			if err := call(http.MethodGet, "/fines/report?user="+url.QueryEscape(args[0]), nil, &report); err != nil {
				return err
			}
			if len(report.Items) == 0 {
				fmt.Println("Nothing overdue.")
				return nil
			}
			for _, item := range report.Items {
				fmt.Printf("[%s] %q, %d day(s) overdue, fine %s\n",
					item.Category, item.MediaTitle, item.OverdueDays, item.FineAmount)
			}
			fmt.Printf("Total: %s\n", report.TotalFine)
			return nil
		},
	}
}

func remindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Send overdue reminders to all affected users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Notified []struct {
					Username string `json:"username"`
				} `json:"notified"`
			}
			if err := call(http.MethodPost, "/reminders/run", nil, &resp); err != nil {
				return err
			}
			fmt.Printf("Notified %d user(s)\n", len(resp.Notified))
			for _, u := range resp.Notified {
				fmt.Printf("  %s\n", u.Username)
			}
			return nil
		},
	}
}

func usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List all registered users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []struct {
				ID          string `json:"id"`
				Username    string `json:"username"`
				Name        string `json:"name"`
				Role        string `json:"role"`
				FineBalance string `json:"fine_balance"`
			}
			if err := call(http.MethodGet, "/users", nil, &users); err != nil {
				return err
			}
			for _, u := range users {
				fmt.Printf("%s  %s (%s) role=%s fines=%s\n", u.ID, u.Username, u.Name, u.Role, u.FineBalance)
			}
			return nil
		},
	}
}

// call performs a JSON request against the API and decodes the response
// into out when out is non-nil. Non-2xx responses become errors carrying
// the server's message.
func call(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, strings.TrimRight(addr, "/")+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s: %s", resp.Status, strings.TrimSpace(string(message)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
