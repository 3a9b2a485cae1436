package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"growyourdough/internal/domain"
	"growyourdough/internal/service"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat [question]...",
	Short: "Ask the robo-advisor a single question",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		return runChat(c.Context(), c.OutOrStdout(), apiHandler.AdvisorService, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(ctx context.Context, out io.Writer, advisorService service.AdvisorService, message string) error {
	reply, err := advisorService.Chat(ctx, domain.ChatRequest{Message: message})
	if err != nil {
		return err
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	rendered, err := renderer.Render(reply.Reply)
	if err != nil {
		// plain markdown is still readable
		rendered = reply.Reply + "\n"
	}

	_, err = io.WriteString(out, rendered)
	return err
}
