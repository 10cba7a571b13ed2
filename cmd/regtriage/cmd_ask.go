package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/regtriage/internal/chat"
)

func newAskCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask QUESTION...",
		Short: "Ask a question about the latest analysis snapshot",
		Example: "  regtriage ask how many failures\n" +
			"  regtriage ask which command fails most often\n" +
			"  regtriage ask TTM-004",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return chat.ErrEmptyQuery
			}

			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			answer, err := s.domain.Chat.Respond(cmd.Context(), query)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newMsgHelpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "msghelp TAG",
		Short: "Print the help text of an error tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}

			out, err := s.domain.Lookup.Lookup(cmd.Context(), strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
