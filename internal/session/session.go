// Package session holds the operator's working state between optimisation runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/instruction"
	"github.com/julianstephens/optimisable/internal/logger"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/scheduler"
)

var (
	// ErrNotSolved is returned by Instruct before the first optimisation run
	ErrNotSolved = errors.New("run the optimisation before sending instructions")
	// ErrEmptyRequest is returned by Instruct for blank text
	ErrEmptyRequest = errors.New("request text is empty")
)

// Exchange is one operator request and the reply it produced
type Exchange struct {
	Request string    `json:"request"`
	Reply   string    `json:"reply"`
	Applied bool      `json:"applied"`
	At      time.Time `json:"at"`
}

// Outcome describes what Instruct did
type Outcome struct {
	Interpretation instruction.Interpretation
	Result         instruction.Result
	// Schedule is the re-solved schedule, set only when an instruction was applied
	Schedule *models.Schedule
	Reply    string
}

// Session is not safe for concurrent use
type Session struct {
	engine   *scheduler.Engine
	pipeline *instruction.Pipeline
	ws       models.WorkingSet
	last     *models.Schedule
	history  []Exchange
	now      func() time.Time
	// solveTimeout bounds the re-solve that follows an applied instruction
	solveTimeout time.Duration
}

func New(engine *scheduler.Engine, pipeline *instruction.Pipeline, ws models.WorkingSet) *Session {
	if pipeline == nil {
		pipeline = instruction.NewPipeline(nil)
	}
	return &Session{
		engine:       engine,
		pipeline:     pipeline,
		ws:           ws.Clone(),
		now:          time.Now,
		solveTimeout: constants.DefaultSolveTimeout,
	}
}

// SetSolveTimeout sets the deadline of the re-solve run by Instruct. Non-positive values are ignored.
func (s *Session) SetSolveTimeout(d time.Duration) {
	if d > 0 {
		s.solveTimeout = d
	}
}

// resolveContext starts a fresh deadline for the re-solve so that time spent waiting on the
// generation service is not taken from it. Cancelling ctx still stops the solve.
func (s *Session) resolveContext(ctx context.Context) (context.Context, context.CancelFunc) {
	solveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.solveTimeout)
	if errors.Is(ctx.Err(), context.Canceled) {
		cancel()
		return solveCtx, cancel
	}
	stop := context.AfterFunc(ctx, func() {
		if errors.Is(ctx.Err(), context.Canceled) {
			cancel()
		}
	})
	return solveCtx, func() {
		stop()
		cancel()
	}
}

// WorkingSet returns a copy of the current inputs
func (s *Session) WorkingSet() models.WorkingSet {
	return s.ws.Clone()
}

// Schedule returns the most recent optimisation result
func (s *Session) Schedule() (models.Schedule, bool) {
	if s.last == nil {
		return models.Schedule{}, false
	}
	return *s.last, true
}

// History returns the retained exchanges, oldest first
func (s *Session) History() []Exchange {
	return append([]Exchange(nil), s.history...)
}

// ReplaceWorkingSet swaps in new inputs and forgets the previous schedule
func (s *Session) ReplaceWorkingSet(ws models.WorkingSet) {
	s.ws = ws.Clone()
	s.last = nil
}

// Solve optimises the current inputs and remembers the result
func (s *Session) Solve(ctx context.Context) (models.Schedule, error) {
	sched, err := s.engine.OptimiseWorkingSet(ctx, s.ws)
	if err != nil {
		return models.Schedule{}, err
	}
	s.last = &sched
	return sched, nil
}

// Instruct interprets text, applies the resulting instruction to a copy of the inputs and, if it
// is accepted, commits the copy together with a fresh schedule.
func (s *Session) Instruct(ctx context.Context, text string) (Outcome, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Outcome{}, ErrEmptyRequest
	}
	if s.last == nil {
		return Outcome{}, ErrNotSolved
	}

	csv, err := s.last.Table().CSV()
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to render schedule: %w", err)
	}

	out := Outcome{Interpretation: s.pipeline.Interpret(ctx, text, csv)}
	if out.Interpretation.Instruction == nil {
		out.Reply = out.Interpretation.Display
		s.record(text, out.Reply, false)
		return out, nil
	}

	staged := s.ws.Clone()
	out.Result = instruction.Apply(&staged, out.Interpretation.Instruction)
	out.Reply = out.Result.Message
	if !out.Result.Applied {
		logger.Info("instruction rejected", "kind", out.Interpretation.Instruction.Kind(), "reason", out.Result.Message)
		s.record(text, out.Reply, false)
		return out, nil
	}

	solveCtx, cancel := s.resolveContext(ctx)
	sched, err := s.engine.OptimiseWorkingSet(solveCtx, staged)
	cancel()
	if err != nil {
		out.Result = instruction.Result{Message: fmt.Sprintf("Change not applied: %v.", err)}
		out.Reply = out.Result.Message
		s.record(text, out.Reply, false)
		return out, nil
	}

	s.ws = staged
	s.last = &sched
	out.Schedule = &sched
	logger.Info("instruction applied", "kind", out.Interpretation.Instruction.Kind(), "source", out.Interpretation.Source, "status", sched.Status)
	s.record(text, out.Reply, true)
	return out, nil
}

func (s *Session) record(request, reply string, applied bool) {
	s.history = append(s.history, Exchange{Request: request, Reply: reply, Applied: applied, At: s.now()})
	if n := len(s.history); n > constants.HistoryLimit {
		s.history = append([]Exchange(nil), s.history[n-constants.HistoryLimit:]...)
	}
}
