package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/llm"
	"github.com/julianstephens/optimisable/internal/scheduler"
	"github.com/julianstephens/optimisable/internal/session"
)

// Context carries everything a command needs once flags have been resolved
type Context struct {
	Session      *session.Session
	Engine       *scheduler.Engine
	ConfigDir    string
	ScenarioPath string
	// FromFile is false when the built-in week was loaded because no scenario file exists
	FromFile     bool
	SolveTimeout time.Duration
	LLM          llm.Config
	// KeySource names where the generation API key came from, see config.ResolveAPIKey
	KeySource string
	// Assistant is false when instructions fall back to the command parser only
	Assistant bool
	Out       io.Writer
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

// solveContext bounds a single optimisation run
func (c *Context) solveContext() (context.Context, context.CancelFunc) {
	timeout := c.SolveTimeout
	if timeout <= 0 {
		timeout = constants.DefaultSolveTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

// instructContext bounds an instruction round trip: generation plus the re-solve
func (c *Context) instructContext() (context.Context, context.CancelFunc) {
	timeout := c.SolveTimeout
	if timeout <= 0 {
		timeout = constants.DefaultSolveTimeout
	}
	if c.Assistant {
		llmTimeout := c.LLM.Timeout
		if llmTimeout <= 0 {
			llmTimeout = constants.DefaultLLMTimeout
		}
		timeout += llmTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}
