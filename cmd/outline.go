package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"

	"github.com/zjrosen/podium/internal/content"
	"github.com/zjrosen/podium/internal/deck"
	"github.com/zjrosen/podium/internal/history"
)

var outlineCmd = &cobra.Command{
	Use:   "outline <deck>",
	Short: "Print the sections, stacks and fragments of a deck",
	Args:  cobra.ExactArgs(1),
	RunE:  runOutline,
}

func init() {
	outlineCmd.Flags().Int("width", 80, "truncate titles to this many columns")
	rootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	d, err := content.Load(args[0], content.MarkdownOptions{})
	if err != nil {
		return err
	}
	width, _ := cmd.Flags().GetInt("width")
	codec := history.Codec{OneBased: cfg.Navigation.HashOneBasedIndex}
	return writeOutline(cmd.OutOrStdout(), d, codec, width)
}

// writeOutline prints one line per panel with the token that opens it.
func writeOutline(w io.Writer, d *deck.Deck, codec history.Codec, width int) error {
	if _, err := fmt.Fprintf(w, "%s (%d sections, %d panels)\n", d.Title, d.Len(), d.TotalPanels()); err != nil {
		return err
	}
	var b strings.Builder
	d.Walk(func(h, v int, p *deck.Panel) {
		indent := ""
		if v > 0 {
			indent = "  "
		}
		token := codec.Encode(history.Location{H: h, V: v, ID: p.ID})
		line := fmt.Sprintf("%s%-8s %s", indent, token, p.Title)
		if n := len(p.Fragments); n > 0 {
			line += fmt.Sprintf(" [%d fragments]", n)
		}
		b.WriteString(ansi.Truncate(line, width, "…"))
		b.WriteByte('\n')
	})
	_, err := io.WriteString(w, b.String())
	return err
}
