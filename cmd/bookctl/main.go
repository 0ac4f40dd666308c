// Copyright (c) 2026 Bookshelf. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command bookctl is a terminal client of the Bookshelf API.
//
// # Usage
//
//	bookctl [-server URL] <command> [args]
//
// Commands:
//
//	register <name> <email>         create an account (password prompted)
//	login <email>                   sign in and store the token (password prompted)
//	logout                          discard the stored token
//	whoami                          show the locally decoded session
//	books [-search s] [-genre g]    list books
//	book <id>                       show a book
//	genres                          list genres
//	reviews <book-id>               list reviews of a book
//	review <book-id> <rating> [comment...]
//	                                add a review
//	edit-review <review-id> <rating> [comment...]
//	delete-review <review-id>
//
// The server defaults to $BOOKSHELF_SERVER or http://localhost:5000.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/taibuivan/bookshelf/internal/client"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

const defaultServer = "http://localhost:5000"

// readPassword is swapped in tests to avoid touching the terminal.
var readPassword = term.ReadPassword

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	flags := flag.NewFlagSet("bookctl", flag.ContinueOnError)
	flags.SetOutput(stderr)

	server := flags.String("server", envOr("BOOKSHELF_SERVER", defaultServer), "API server root URL")
	tokenPath := flags.String("token-file", "", "token file (default: user config dir)")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() == 0 {
		flags.Usage()
		return errors.New("missing command")
	}

	path := *tokenPath
	if path == "" {
		defaultPath, err := client.DefaultTokenPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	session := client.NewSession(client.NewFileTokenStore(path))
	if _, err := session.Rehydrate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &cli{api: client.New(*server, session), out: stdout, errOut: stderr}
	return app.dispatch(ctx, flags.Arg(0), flags.Args()[1:])
}

type cli struct {
	api    *client.Client
	out    io.Writer
	errOut io.Writer
}

func (app *cli) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return app.register(ctx, args)
	case "login":
		return app.login(ctx, args)
	case "logout":
		if err := app.api.SignOut(); err != nil {
			return err
		}
		fmt.Fprintln(app.out, "Signed out.")
		return nil
	case "whoami":
		return app.whoami()
	case "books":
		return app.books(ctx, args)
	case "book":
		return app.book(ctx, args)
	case "genres":
		return app.genres(ctx)
	case "reviews":
		return app.reviews(ctx, args)
	case "review":
		return app.addReview(ctx, args)
	case "edit-review":
		return app.editReview(ctx, args)
	case "delete-review":
		return app.deleteReview(ctx, args)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// # Account Commands

func (app *cli) register(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: register <name> <email>")
	}
	password, err := app.promptPassword()
	if err != nil {
		return err
	}
	if err := app.api.SignUp(ctx, args[0], args[1], password); err != nil {
		return err
	}
	fmt.Fprintln(app.out, "Registered. Run 'bookctl login' to sign in.")
	return nil
}

func (app *cli) login(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: login <email>")
	}
	password, err := app.promptPassword()
	if err != nil {
		return err
	}
	claims, err := app.api.SignIn(ctx, args[0], password)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.out, "Signed in as %s until %s.\n", claims.DisplayName, claims.ExpiresAt.Local().Format(time.Kitchen))
	return nil
}

func (app *cli) whoami() error {
	user := app.api.Session().CurrentUser()
	if user == nil {
		fmt.Fprintln(app.out, "Not signed in.")
		return nil
	}
	fmt.Fprintf(app.out, "%s (id %d), session expires %s\n",
		user.DisplayName, user.IdentityID, user.ExpiresAt.Local().Format(time.RFC1123))
	return nil
}

func (app *cli) promptPassword() (string, error) {
	fmt.Fprint(app.errOut, "Password: ")
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(app.errOut)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(raw), nil
}

// # Catalogue Commands

func (app *cli) books(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("books", flag.ContinueOnError)
	flags.SetOutput(app.errOut)
	search := flags.String("search", "", "title or author substring")
	genre := flags.String("genre", "", "exact genre, or all")
	page := flags.Int("page", 1, "page number")
	limit := flags.Int("limit", 20, "page size")
	if err := flags.Parse(args); err != nil {
		return err
	}

	result, err := app.api.ListBooks(ctx, client.BookQuery{Search: *search, Genre: *genre, Page: *page, Limit: *limit})
	if err != nil {
		return err
	}

	table := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(table, "ID\tTITLE\tAUTHOR\tGENRE\tRATING")
	for _, entry := range result.Data {
		fmt.Fprintf(table, "%d\t%s\t%s\t%s\t%.1f (%d)\n",
			entry.ID, entry.Title, entry.Author, entry.Genre, entry.AverageRating, entry.TotalReviews)
	}
	if err := table.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(app.out, "page %d of %d, %d books\n", result.Meta.Page, result.Meta.TotalPages, result.Meta.Total)
	return nil
}

func (app *cli) book(ctx context.Context, args []string) error {
	id, err := idArg(args, "usage: book <id>")
	if err != nil {
		return err
	}
	entry, err := app.api.GetBook(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.out, "%s\nby %s\n", entry.Title, entry.Author)
	fmt.Fprintf(app.out, "Genre: %s  Year: %s\n", entry.Genre, yearLabel(entry.PublishedYear))
	fmt.Fprintf(app.out, "Rating: %.1f from %d reviews\n", entry.AverageRating, entry.TotalReviews)
	if entry.Description != "" {
		fmt.Fprintf(app.out, "\n%s\n", entry.Description)
	}
	return nil
}

func (app *cli) genres(ctx context.Context) error {
	genres, err := app.api.Genres(ctx)
	if err != nil {
		return err
	}
	for _, genre := range genres {
		fmt.Fprintln(app.out, genre)
	}
	return nil
}

// # Review Commands

func (app *cli) reviews(ctx context.Context, args []string) error {
	bookID, err := idArg(args, "usage: reviews <book-id>")
	if err != nil {
		return err
	}
	page, err := app.api.ListReviews(ctx, bookID, 1, 50)
	if err != nil {
		return err
	}
	if len(page.Data) == 0 {
		fmt.Fprintln(app.out, "No reviews yet.")
		return nil
	}
	for _, entry := range page.Data {
		fmt.Fprintf(app.out, "#%d %s %s  %s\n", entry.ID, strings.Repeat("*", entry.Rating), entry.ReviewerName, entry.CreatedAt.Local().Format(time.DateOnly))
		if entry.Comment != "" {
			fmt.Fprintf(app.out, "    %s\n", entry.Comment)
		}
	}
	return nil
}

func (app *cli) addReview(ctx context.Context, args []string) error {
	bookID, rating, comment, err := ratingArgs(args, "usage: review <book-id> <rating> [comment...]")
	if err != nil {
		return err
	}
	reviewID, err := app.api.AddReview(ctx, bookID, rating, comment)
	if err != nil {
		return app.explain(err)
	}
	fmt.Fprintf(app.out, "Review %d created.\n", reviewID)
	return nil
}

func (app *cli) editReview(ctx context.Context, args []string) error {
	reviewID, rating, comment, err := ratingArgs(args, "usage: edit-review <review-id> <rating> [comment...]")
	if err != nil {
		return err
	}
	if _, err := app.api.UpdateReview(ctx, reviewID, rating, comment); err != nil {
		return app.explain(err)
	}
	fmt.Fprintf(app.out, "Review %d updated.\n", reviewID)
	return nil
}

func (app *cli) deleteReview(ctx context.Context, args []string) error {
	reviewID, err := idArg(args, "usage: delete-review <review-id>")
	if err != nil {
		return err
	}
	if err := app.api.DeleteReview(ctx, reviewID); err != nil {
		return app.explain(err)
	}
	fmt.Fprintf(app.out, "Review %d deleted.\n", reviewID)
	return nil
}

// explain adds a sign-in hint to authentication failures.
func (app *cli) explain(err error) error {
	if client.IsAuthFailure(err) {
		return fmt.Errorf("%w; run 'bookctl login <email>' first", err)
	}
	return err
}

// # Helpers

func idArg(args []string, usage string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New(usage)
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New(usage)
	}
	return id, nil
}

func ratingArgs(args []string, usage string) (int64, int, string, error) {
	if len(args) < 2 {
		return 0, 0, "", errors.New(usage)
	}
	id, err := idArg(args[:1], usage)
	if err != nil {
		return 0, 0, "", err
	}
	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return 0, 0, "", errors.New(usage)
	}
	return id, rating, strings.Join(args[2:], " "), nil
}

func yearLabel(year *int) string {
	if value := pointer.Val(year); value != 0 {
		return strconv.Itoa(value)
	}
	return "n/a"
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
