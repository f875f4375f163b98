// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/nexa-tui/internal/reviews"
	"github.com/jeranaias/nexa-tui/internal/util"
)

func newReviewsCommand(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "reviews",
		Aliases: []string{"review"},
		Short:   "List or add hotel reviews",
	}
	cmd.AddCommand(newReviewsListCommand(opts), newReviewsAddCommand(opts))
	return cmd
}

func newReviewsListCommand(opts *Options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list [subject]",
		Short: "List reviewed subjects, or the reviews for one subject",
		Example: `  nexa reviews list
  nexa reviews list hotel-pokhara-0`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := OpenRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				return listSubjects(out, rt.Reviews, asJSON)
			}
			return listReviews(out, rt.Reviews, args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

type subjectSummary struct {
	Subject string  `json:"subject"`
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

func listSubjects(out io.Writer, store *reviews.Store, asJSON bool) error {
	subjects := store.Subjects()
	summaries := make([]subjectSummary, 0, len(subjects))
	for _, s := range subjects {
		avg, _ := store.Average(s)
		summaries = append(summaries, subjectSummary{Subject: s, Count: store.Count(s), Average: avg})
	}
	if asJSON {
		return writeIndentedJSON(out, summaries)
	}
	if len(summaries) == 0 {
		fmt.Fprintln(out, DimStyle.Render("No reviews yet."))
		return nil
	}
	width := 0
	for _, s := range summaries {
		width = max(width, util.StringWidth(s.Subject)+1)
	}
	for _, s := range summaries {
		label := util.PadRight(s.Subject+":", width)
		fmt.Fprintf(out, "%s %s %.1f (%d)\n", LabelStyle.UnsetWidth().Render(label), stars(int(s.Average+0.5)), s.Average, s.Count)
	}
	return nil
}

func listReviews(out io.Writer, store *reviews.Store, subject string, asJSON bool) error {
	list := store.Reviews(subject)
	if asJSON {
		return writeIndentedJSON(out, list)
	}
	if len(list) == 0 {
		fmt.Fprintf(out, "%s\n", DimStyle.Render("No reviews for "+subject+"."))
		return nil
	}
	avg, _ := store.Average(subject)
	fmt.Fprintf(out, "%s  %s %.1f from %d\n", TitleStyle.Render(subject), stars(int(avg+0.5)), avg, len(list))
	fmt.Fprintln(out, RenderSeparator())
	for _, r := range list {
		fmt.Fprintf(out, "%s %s  %s\n", stars(r.Rating), ValueStyle.Render(r.UserName), DimStyle.Render(r.CreatedAt().Format("2006-01-02 15:04")))
		fmt.Fprintf(out, "  %s\n", r.Comment)
	}
	return nil
}

func newReviewsAddCommand(opts *Options) *cobra.Command {
	var (
		name    string
		rating  int
		comment string
	)
	cmd := &cobra.Command{
		Use:     "add <subject>",
		Short:   "Add a review",
		Example: `  nexa reviews add hotel-pokhara-0 --rating 5 --comment "Lake views" --name Asha`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := OpenRuntime(cmd.Context(), opts, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer rt.Close()

			r, err := rt.Reviews.Append(cmd.Context(), args[0], reviews.Draft{
				UserName: name,
				Rating:   rating,
				Comment:  comment,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s review %s added to %s\n", SuccessStyle.Render("[OK]"), r.ID, args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "reviewer name (default Guest)")
	cmd.Flags().IntVar(&rating, "rating", 0, "rating from 1 to 5")
	cmd.Flags().StringVar(&comment, "comment", "", "review text")
	return cmd
}

func stars(n int) string {
	n = max(0, min(reviews.MaxRating, n))
	return strings.Repeat("*", n) + DimStyle.Render(strings.Repeat(".", reviews.MaxRating-n))
}

func writeIndentedJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
