package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/quadcalc/internal/config"
	apperrors "github.com/agbru/quadcalc/internal/errors"
	"github.com/agbru/quadcalc/internal/integrand"
	"github.com/agbru/quadcalc/internal/quadrature"
)

func testModel(t *testing.T) Model {
	t.Helper()
	entry, err := integrand.NewDefaultRegistry().Get("quadratic")
	if err != nil {
		t.Fatal(err)
	}
	cfg := config.Default()
	cfg.Workers = 2
	cfg.Tolerance = 1e-3
	m := NewModel(context.Background(), []quadrature.Strategy{quadrature.Sequential{}}, entry, cfg, "v1.0.0")
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm, cmd
}

func TestModel_ViewBeforeResize(t *testing.T) {
	m := testModel(t)
	if got := m.View(); got != "Initializing..." {
		t.Errorf("expected placeholder view, got %q", got)
	}
}

func TestModel_ViewAfterResize(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	m, _ = update(t, m, ProgressMsg{Strategy: "sequential", N: 51, Estimate: 5930.9, Delta: 0.2, Value: 0.5, AverageProgress: 0.5})

	view := m.View()
	for _, want := range []string{"quadcalc", "Refinement trace", "Metrics", "Convergence", "n = 51"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestModel_PauseIgnoresProgress(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	if !m.paused {
		t.Fatal("expected model to be paused")
	}
	before := len(m.logs.entries)
	m, _ = update(t, m, ProgressMsg{N: 51})
	if len(m.logs.entries) != before {
		t.Error("expected progress to be ignored while paused")
	}
}

func TestModel_CalculationComplete(t *testing.T) {
	m := testModel(t)

	stale, _ := update(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: m.generation + 1})
	if stale.done {
		t.Error("stale completion must be ignored")
	}

	m, _ = update(t, m, CalculationCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: m.generation})
	if !m.done || m.exitCode != apperrors.ExitErrorMismatch {
		t.Errorf("expected done with exit code %d, got done=%v code=%d", apperrors.ExitErrorMismatch, m.done, m.exitCode)
	}
}

func TestModel_ErrorMarksDone(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, ErrorMsg{Err: context.DeadlineExceeded})
	if !m.done || !m.footer.err {
		t.Error("expected error to finish the session")
	}
}

func TestModel_QuitCancels(t *testing.T) {
	m := testModel(t)
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("expected context to be cancelled")
	}
}

func TestModel_ResetBumpsGeneration(t *testing.T) {
	m := testModel(t)
	m.done = true
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if m.generation != 1 || m.done {
		t.Errorf("expected fresh generation 1, got generation=%d done=%v", m.generation, m.done)
	}
	if cmd == nil {
		t.Error("expected restart commands")
	}
}

func TestStartCalculationCmd(t *testing.T) {
	m := testModel(t)
	msg := startCalculationCmd(m.ctx, m.ref, m.strategies, m.entry, m.config, 7)()
	done, ok := msg.(CalculationCompleteMsg)
	if !ok {
		t.Fatalf("expected CalculationCompleteMsg, got %T", msg)
	}
	if done.Generation != 7 || done.ExitCode != apperrors.ExitSuccess {
		t.Errorf("unexpected completion %+v", done)
	}
}
