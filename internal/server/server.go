// Package server exposes a session over a small JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/logger"
	"github.com/julianstephens/optimisable/internal/models"
	"github.com/julianstephens/optimisable/internal/scheduler"
	"github.com/julianstephens/optimisable/internal/session"
	"github.com/julianstephens/optimisable/internal/validation"
)

// Response is the envelope of every reply
type Response struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Options configures a Server
type Options struct {
	SolverName   string
	SolveTimeout time.Duration
}

// Server serialises access to one session
type Server struct {
	mu   sync.Mutex
	sess *session.Session
	opts Options
	echo *echo.Echo
}

func New(sess *session.Session, opts Options) *Server {
	if opts.SolveTimeout <= 0 {
		opts.SolveTimeout = constants.DefaultSolveTimeout
	}
	sess.SetSolveTimeout(opts.SolveTimeout)
	s := &Server{sess: sess, opts: opts, echo: echo.New()}
	s.echo.HideBanner = true
	s.echo.HidePort = true
	s.echo.Use(middleware.Recover())
	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.echo.Group("/api")
	api.GET("/health", s.health)
	api.GET("/working-set", s.getWorkingSet)
	api.PUT("/working-set", s.putWorkingSet)
	api.GET("/schedule", s.getSchedule)
	api.POST("/schedule", s.postSchedule)
	api.POST("/instructions", s.postInstruction)
}

// Handler returns the HTTP handler, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves on addr until ctx is cancelled
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening", "addr", addr)
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

func reply(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, Response{Status: status, Message: message, Data: data})
}

func (s *Server) health(c echo.Context) error {
	return reply(c, http.StatusOK, "ok", map[string]any{
		"version": constants.Version,
		"solver":  s.opts.SolverName,
	})
}

type workingSetView struct {
	WorkingSet models.WorkingSet     `json:"working_set"`
	Conflicts  []validation.Conflict `json:"conflicts"`
}

func (s *Server) getWorkingSet(c echo.Context) error {
	s.mu.Lock()
	ws := s.sess.WorkingSet()
	s.mu.Unlock()

	result := validation.New().ValidateWorkingSet(ws)
	return reply(c, http.StatusOK, "working set", workingSetView{WorkingSet: ws, Conflicts: result.Conflicts})
}

func (s *Server) putWorkingSet(c echo.Context) error {
	var ws models.WorkingSet
	if err := c.Bind(&ws); err != nil {
		return reply(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), nil)
	}
	result := validation.New().ValidateWorkingSet(ws)
	if err := result.Err(); err != nil {
		return reply(c, http.StatusUnprocessableEntity, err.Error(), workingSetView{WorkingSet: ws, Conflicts: result.Conflicts})
	}

	s.mu.Lock()
	s.sess.ReplaceWorkingSet(ws)
	s.mu.Unlock()
	return reply(c, http.StatusOK, "working set replaced", workingSetView{WorkingSet: ws, Conflicts: result.Conflicts})
}

type scheduleView struct {
	Schedule models.Schedule `json:"schedule"`
	Table    models.Table    `json:"table"`
}

func newScheduleView(sched models.Schedule) scheduleView {
	return scheduleView{Schedule: sched, Table: sched.Table()}
}

func (s *Server) getSchedule(c echo.Context) error {
	s.mu.Lock()
	sched, ok := s.sess.Schedule()
	s.mu.Unlock()
	if !ok {
		return reply(c, http.StatusNotFound, session.ErrNotSolved.Error(), nil)
	}
	return reply(c, http.StatusOK, string(sched.Status), newScheduleView(sched))
}

func (s *Server) postSchedule(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.SolveTimeout)
	defer cancel()

	s.mu.Lock()
	sched, err := s.sess.Solve(ctx)
	s.mu.Unlock()
	if err != nil {
		return reply(c, statusFor(err), err.Error(), nil)
	}
	message := string(sched.Status)
	if !sched.Feasible() {
		message = sched.Reason
	}
	return reply(c, http.StatusOK, message, newScheduleView(sched))
}

type instructionRequest struct {
	Text string `json:"text"`
}

type instructionView struct {
	Applied     bool           `json:"applied"`
	Source      string         `json:"source"`
	Instruction map[string]any `json:"instruction,omitempty"`
	Reply       string         `json:"reply"`
	Schedule    *scheduleView  `json:"schedule,omitempty"`
}

func (s *Server) postInstruction(c echo.Context) error {
	var req instructionRequest
	if err := c.Bind(&req); err != nil {
		return reply(c, http.StatusBadRequest, "invalid request payload: "+err.Error(), nil)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), s.opts.SolveTimeout)
	defer cancel()

	s.mu.Lock()
	out, err := s.sess.Instruct(ctx, strings.TrimSpace(req.Text))
	s.mu.Unlock()
	if err != nil {
		return reply(c, statusFor(err), err.Error(), nil)
	}

	view := instructionView{
		Applied: out.Result.Applied,
		Source:  string(out.Interpretation.Source),
		Reply:   out.Reply,
	}
	if out.Interpretation.Instruction != nil {
		view.Instruction = out.Interpretation.Instruction.Wire()
	}
	if out.Schedule != nil {
		sv := newScheduleView(*out.Schedule)
		view.Schedule = &sv
	}

	status := http.StatusOK
	if out.Interpretation.Instruction != nil && !out.Result.Applied {
		status = http.StatusUnprocessableEntity
	}
	return reply(c, status, out.Reply, view)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrEmptyRequest):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrNotSolved):
		return http.StatusConflict
	case errors.Is(err, scheduler.ErrNoStaff),
		errors.Is(err, scheduler.ErrDuplicateStaff),
		errors.Is(err, scheduler.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
