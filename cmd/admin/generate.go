package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/yungbote/tutorialhub-backend/internal/platform/dbctx"
)

var (
	courseID string
	publish  bool
)

func init() {
	generateCmd.Flags().StringVar(&courseID, "course-id", "", "Course to (re)generate content for (required)")
	generateCmd.Flags().BoolVar(&publish, "publish", true, "Mark the course published when the pass completes")
	_ = generateCmd.MarkFlagRequired("course-id")
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:   "generate-content",
	Short: "Run a chapter content generation pass synchronously",
	Long: `Regenerate every chapter of a course in this process, printing progress lines
as they happen. Existing chapter content and quiz questions are replaced.

Example:
  admin generate-content --course-id=7b4c1f7e-2f1a-4c55-9a0e-3f1d2c9b8a11`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(courseID)
	if err != nil {
		return fmt.Errorf("invalid --course-id: %w", err)
	}
	ctx := cmd.Context()
	a, err := loadApp(ctx, false)
	if err != nil {
		return err
	}
	defer a.Close()

	course, err := a.Repos.Course.GetByID(dbctx.New(ctx), id)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	out := cmd.OutOrStdout()
	res, err := a.Services.Generator.Generate(ctx, course, func(msg string) {
		fmt.Fprintln(out, msg)
	})
	if err != nil {
		return err
	}
	if publish {
		if err := a.Repos.Course.UpdateFields(dbctx.New(ctx), id, map[string]interface{}{"is_published": true}); err != nil {
			return fmt.Errorf("publish course: %w", err)
		}
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
