package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/zjrosen/podium/internal/clock"
	"github.com/zjrosen/podium/internal/config"
	"github.com/zjrosen/podium/internal/infrastructure/sqlite"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks <deck>",
	Short: "List or delete saved bookmarks for a deck",
	Long: `List the bookmarks saved with the bookmark key (m) while presenting a deck.
Open one with: podium <deck> --start <token>`,
	Args: cobra.ExactArgs(1),
	RunE: runBookmarks,
}

func init() {
	bookmarksCmd.Flags().Int64("delete", 0, "delete the bookmark with this id")
	rootCmd.AddCommand(bookmarksCmd)
}

func runBookmarks(cmd *cobra.Command, args []string) error {
	if cfg.History.Store != config.StoreSQLite {
		return fmt.Errorf("bookmarks need history.store: sqlite (got %q)", cfg.History.Store)
	}
	deckPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving deck path: %w", err)
	}

	db, err := sqlite.NewDB(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer func() { _ = db.Close() }()
	repo := db.Bookmarks()

	if id, _ := cmd.Flags().GetInt64("delete"); id != 0 {
		if err := repo.Delete(cmd.Context(), id); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted bookmark %d\n", id)
		return nil
	}

	list, err := repo.List(cmd.Context(), deckPath)
	if err != nil {
		return err
	}
	return writeBookmarks(cmd.OutOrStdout(), list, clock.Real{})
}

func writeBookmarks(w io.Writer, list []sqlite.Bookmark, c clock.Clock) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no bookmarks")
		return err
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "TOKEN", "LABEL", "SAVED")
	for _, b := range list {
		t.Row(strconv.FormatInt(b.ID, 10), b.Token, b.Label, clock.FormatRelative(b.CreatedAt, c))
	}
	_, err := fmt.Fprintln(w, t.Render())
	return err
}
