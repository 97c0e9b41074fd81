package instruction

import (
	"context"
	"strings"

	"github.com/julianstephens/optimisable/internal/constants"
	"github.com/julianstephens/optimisable/internal/logger"
)

// Generator produces a free-form reply to the operator's request given the current schedule.
// The reply may embed a structured instruction.
type Generator interface {
	Generate(ctx context.Context, userText, scheduleCSV string) (string, error)
}

// Source names the stage that produced an interpretation
type Source string

const (
	SourceGenerated Source = "generated"
	SourceCommand   Source = "command"
	SourceNone      Source = "none"
)

// Interpretation is the outcome of running operator text through the pipeline.
// Instruction is nil when no stage succeeded, in which case Display holds the reply to show.
type Interpretation struct {
	Instruction Instruction
	Source      Source
	Generated   string
	Display     string
}

// Stage is one fallible extractor in the chain
type Stage struct {
	Source Source
	Run    func(userText, generated string) (Instruction, bool)
}

// Pipeline tries each stage in order and keeps the first instruction produced
type Pipeline struct {
	generator Generator
	stages    []Stage
}

// NewPipeline builds the default chain. gen may be nil, in which case only the command parser runs.
func NewPipeline(gen Generator) *Pipeline {
	return &Pipeline{
		generator: gen,
		stages: []Stage{
			{Source: SourceGenerated, Run: fromGenerated},
			{Source: SourceCommand, Run: func(userText, _ string) (Instruction, bool) {
				return ParseCommand(userText)
			}},
		},
	}
}

func fromGenerated(_ string, generated string) (Instruction, bool) {
	obj, ok := Extract(generated)
	if !ok {
		return nil, false
	}
	ins, err := Decode(obj)
	if err != nil {
		logger.Debug("generated object is not an instruction", "err", err)
		return nil, false
	}
	return ins, true
}

// Interpret never fails: generation errors are logged and the chain continues with the raw text.
func (p *Pipeline) Interpret(ctx context.Context, userText, scheduleCSV string) Interpretation {
	var generated string
	if p.generator != nil {
		text, err := p.generator.Generate(ctx, userText, scheduleCSV)
		if err != nil {
			logger.Warn("generation request failed, using command parser", "err", err)
		} else {
			generated = strings.TrimSpace(text)
		}
	}

	for _, stage := range p.stages {
		if ins, ok := stage.Run(userText, generated); ok {
			logger.Debug("instruction interpreted", "source", stage.Source, "kind", ins.Kind())
			return Interpretation{Instruction: ins, Source: stage.Source, Generated: generated}
		}
	}

	display := generated
	if display == "" {
		display = constants.MsgUnparseable
	}
	return Interpretation{Source: SourceNone, Generated: generated, Display: display}
}
