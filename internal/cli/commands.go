package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"sciencegpt-backend/internal/curriculum"
	"sciencegpt-backend/internal/models"
	"sciencegpt-backend/internal/services"
)

func newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a science question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question is empty")
			}

			e, err := setup(cmd)
			if err != nil {
				return err
			}

			answer := e.pipeline.Answers.Generate(commandContext(cmd), services.AnswerRequest{
				Question: question,
				Settings: e.settings,
			})
			if e.asJSON {
				return e.printJSON(answer)
			}
			printAnswer(e, answer)
			return nil
		},
	}
}

func printAnswer(e *env, a models.Answer) {
	fmt.Fprintln(e.out, a.Text)
	if a.TranslationFallback {
		fmt.Fprintf(e.out, "\n(Translation to %s failed; showing English.)\n", e.settings.Language)
	}
	if a.VideoURL != nil {
		fmt.Fprintln(e.out)
		if a.VideoTitle != nil {
			fmt.Fprintf(e.out, "🎥 %s\n", *a.VideoTitle)
		}
		fmt.Fprintln(e.out, *a.VideoURL)
		if a.VideoSummary != nil {
			fmt.Fprintln(e.out, *a.VideoSummary)
		}
	}
}

func newFactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fact",
		Short: "Show the science fact of the day",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			fact := e.pipeline.Facts.FactOfDay(commandContext(cmd), e.newSession(),
				e.settings.Grade, e.settings.Subject, e.settings.Topic)
			if e.asJSON {
				return e.printJSON(fact)
			}
			fmt.Fprintf(e.out, "💡 %s\n\n%s\n", fact.Fact, fact.Explanation)
			return nil
		},
	}
}

func newSuggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest",
		Short: "Suggest questions to ask",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd)
			if err != nil {
				return err
			}

			list := e.pipeline.Suggestions.Suggestions(commandContext(cmd), e.newSession(), e.settings)
			if e.asJSON {
				return e.printJSON(list)
			}
			for i, q := range list {
				fmt.Fprintf(e.out, "%d. %s\n", i+1, q)
			}
			return nil
		},
	}
}

// newCurriculumCmd needs no model, so it skips setup.
func newCurriculumCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "curriculum [grade]",
		Short: "List grades, or the subjects and topics of one grade",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := curriculum.MustLoad()
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, g := range catalog.Grades() {
					fmt.Fprintf(out, "Grade %d: %s\n", g, strings.Join(catalog.Subjects(g), ", "))
				}
				return nil
			}

			grade, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid grade %q", args[0])
			}
			subjects := catalog.Subjects(grade)
			if len(subjects) == 0 {
				return fmt.Errorf("unknown grade %d", grade)
			}
			for _, s := range subjects {
				fmt.Fprintf(out, "%s\n", s)
				for _, t := range catalog.Topics(grade, s) {
					fmt.Fprintf(out, "  - %s\n", t)
				}
			}
			return nil
		},
	}
}
