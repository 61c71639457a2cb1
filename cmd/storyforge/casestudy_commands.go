package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"storyforge/internal/casestudy"
)

func newCaseStudyCommand(ctx *commandContext) *cobra.Command {
	caseStudyCmd := &cobra.Command{
		Use:   "casestudy",
		Short: "Inspect stored case studies",
	}

	caseStudyCmd.AddCommand(newCaseStudyListCommand(ctx))
	caseStudyCmd.AddCommand(newCaseStudyShowCommand(ctx))

	return caseStudyCmd
}

func newCaseStudyListCommand(ctx *commandContext) *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List case studies",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := casestudy.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			summaries, err := store.List(cmd.Context(), strings.TrimSpace(userID))
			if err != nil {
				return fmt.Errorf("list case studies: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(summaries) == 0 {
				fmt.Fprintln(out, "No case studies found")
				return nil
			}

			rows := make([][]string, 0, len(summaries))
			for _, summary := range summaries {
				rows = append(rows, []string{
					strconv.FormatInt(summary.ID, 10),
					summary.Title,
					stageLabel(summary),
					artifactLabel(summary.ArtifactStates),
					summary.UpdatedAt.Format("2006-01-02 15:04"),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Title", "Stage", "Artifacts", "Updated"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "Only list case studies owned by this user")
	return cmd
}

func newCaseStudyShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one case study",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(strings.TrimSpace(args[0]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid case study id %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := casestudy.Open(cfg)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			cs, err := store.GetByID(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("load case study: %w", err)
			}
			if cs == nil {
				return fmt.Errorf("case study %d not found", id)
			}

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"ID", strconv.FormatInt(cs.ID, 10)},
				{"Title", cs.Title},
				{"Language", cs.Language},
				{"Lead", cs.LeadEntity},
				{"Partner", cs.PartnerEntity},
				{"Project", cs.ProjectTitle},
				{"Merged", yesNo(strings.TrimSpace(cs.Story) != "")},
				{"PDF path", cs.PDFPath},
				{"Updated", cs.UpdatedAt.Format("2006-01-02 15:04")},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

			jobs, err := store.ListJobs(cmd.Context(), cs.ID)
			if err != nil {
				return fmt.Errorf("list artifact jobs: %w", err)
			}
			if len(jobs) == 0 {
				fmt.Fprintln(out, "No artifact jobs")
				return nil
			}
			jobRows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				jobRows = append(jobRows, []string{
					string(job.Channel),
					string(job.Status),
					job.ResultURL,
					job.ErrorMessage,
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Channel", "Status", "Result", "Error"}, jobRows, nil))
			return nil
		},
	}
}

func stageLabel(summary casestudy.Summary) string {
	switch {
	case summary.HasStory:
		return "merged"
	case strings.TrimSpace(summary.ClientSummary) != "":
		return "client interviewed"
	case strings.TrimSpace(summary.ProviderSummary) != "":
		return "provider interviewed"
	default:
		return "created"
	}
}

func artifactLabel(states map[casestudy.Channel]casestudy.JobStatus) string {
	if len(states) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(states))
	for _, channel := range casestudy.Channels() {
		status, ok := states[channel]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%s", channel, status))
	}
	return strings.Join(parts, " ")
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
