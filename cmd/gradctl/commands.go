package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gradpath/internal/apperr"
	"gradpath/internal/catalog"
	"gradpath/internal/model"
	"gradpath/internal/present"
	"gradpath/internal/repository"
	"gradpath/internal/service"
	"gradpath/internal/tui"
	"gradpath/internal/wizard"
)

// clipboard is swapped in tests
var clipboard present.Clipboard = present.SystemClipboard{}

// commandContext applies the timeout and cancels on interrupt
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}

func runWizard(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	generator, err := service.NewGeneratorService(ctx, aiConfig, logger)
	if err != nil {
		return err
	}
	m := tui.NewModel(ctx, wizard.SOPForm(), tui.Options{
		Generator: generator,
		Clipboard: clipboard,
		OutDir:    wizardOutDir,
	})
	_, err = tea.NewProgram(m, tea.WithContext(ctx)).Run()
	return err
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	req := model.EvaluateRequest{
		Text:       evalText,
		University: evalUniversity,
		Program:    evalProgram,
	}
	if evalFile != "" {
		data, err := os.ReadFile(evalFile)
		if err != nil {
			return fmt.Errorf("read %s: %w", evalFile, err)
		}
		req.FileName = filepath.Base(evalFile)
		req.FileSize = int64(len(data))
		req.File = data
	}

	result, err := service.NewEvaluatorService(aiConfig, logger).Evaluate(ctx, req)
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	printEvaluation(out, result)

	if evalCopy {
		notice, err := present.Copy(clipboard, result.SOPText)
		if err != nil {
			logger.Debug("clipboard write failed", zap.Error(err))
		}
		fmt.Fprintln(out, notice.Message)
	}
	if evalOutDir != "" {
		path, err := present.SaveFile(evalOutDir, result.SOPText)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Saved to %s\n", path)
	}
	return nil
}

func printEvaluation(w io.Writer, e *model.Evaluation) {
	res := present.Render(e.SOPText, &e.Evaluation)
	fmt.Fprintf(w, "Overall score: %s (%s)\n", res.Score, res.Band)
	printList(w, "Strengths", e.Evaluation.Strengths)
	printList(w, "Weaknesses", e.Evaluation.Weaknesses)
	printList(w, "Suggestions", e.Evaluation.Suggestions)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func runScholarships(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	records, err := catalog.Scholarships()
	if err != nil {
		return err
	}
	svc := service.NewScholarshipService(
		repository.NewStaticScholarshipRepo(records),
		service.Simulated(aiConfig.Delays.Scholarships),
		logger,
	)
	found, err := svc.Search(ctx, model.ScholarshipCriteria{
		University:  searchCriteria.university,
		Program:     searchCriteria.program,
		Country:     searchCriteria.country,
		DegreeLevel: searchCriteria.degree,
		MinAmount:   searchCriteria.minAmount,
	})
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	if len(found) == 0 {
		fmt.Fprintln(out, "No scholarships match these criteria.")
		return nil
	}
	for _, s := range found {
		fmt.Fprintf(out, "%s (%s)\n  %s, deadline %s\n  %s\n", s.Name, s.Provider, service.FormatUSD(s.Amount), s.Deadline, s.URL)
	}
	return nil
}

func runFees(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	costs, err := catalog.UniversityCosts()
	if err != nil {
		return err
	}
	svc := service.NewFeeService(
		repository.NewStaticCostRepo(costs),
		service.Simulated(aiConfig.Delays.Fees),
		logger,
	)
	cmp, err := svc.Compare(ctx, model.FeeComparisonRequest{
		Universities: args,
		Program:      feeProgram,
		DegreeLevel:  feeDegree,
		CompareBy:    feeCompareBy,
	})
	if err != nil {
		return userError(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s), annual costs in USD\n\n", cmp.Program, cmp.DegreeLevel)
	fmt.Fprintf(out, "%-28s %10s %14s %10s %10s %10s\n", "University", "Tuition", "Accommodation", "Living", "Other", "Total")
	for _, u := range cmp.Universities {
		fmt.Fprintf(out, "%-28s %10s %14s %10s %10s %10s\n", u.Name,
			service.FormatUSD(u.Tuition), service.FormatUSD(u.Accommodation),
			service.FormatUSD(u.Living), service.FormatUSD(u.Other), service.FormatUSD(u.Total))
	}
	fmt.Fprintf(out, "\nBy %s:\n", cmp.CompareBy)
	for _, p := range cmp.Chart {
		fmt.Fprintf(out, "  %-28s %s\n", p.Name, p.Display)
	}
	return nil
}

// userError turns a validation failure into its user-facing message
func userError(err error) error {
	var valErr *apperr.ValidationError
	if !errors.As(err, &valErr) {
		return err
	}
	msg := apperr.NoticeFor(err).Message
	if len(valErr.Missing) > 0 {
		return fmt.Errorf("%s (%s)", msg, strings.Join(valErr.Missing, ", "))
	}
	return errors.New(msg)
}
