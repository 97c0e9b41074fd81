package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/optimisable/internal/server"
)

// ServeCmd exposes the session over HTTP
type ServeCmd struct {
	Addr string `help:"Listen address." default:"127.0.0.1:8080" env:"OPTIMISABLE_ADDR"`
}

func (cmd *ServeCmd) Run(ctx *Context) error {
	srv := server.New(ctx.Session, server.Options{
		SolverName:   ctx.Engine.SolverName(),
		SolveTimeout: ctx.SolveTimeout,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(ctx.out(), "Serving %s on http://%s (Ctrl+C to stop)\n", ctx.ScenarioPath, cmd.Addr)
	return srv.Run(runCtx, cmd.Addr)
}
