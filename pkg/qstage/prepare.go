package qstage

import (
	"errors"
	"fmt"

	"github.com/quatton/qstage/pkg/qerr"
	"github.com/quatton/qstage/pkg/qlog"
)

// Serializer writes structures and potentials in the simulation's formats.
type Serializer interface {
	SerializeStructure(structure any, atomStyle string) (string, error)
	SerializePotential(potential Potential) (string, error)
}

// GenerateInput is what the Generator needs to render an input file.
type GenerateInput struct {
	Potential  Potential
	Structure  any
	Parameters Parameters

	StructureFilename   string
	PotentialFilename   string
	RestartFilename     string // restart file the simulation writes
	TrajectoryFilename  string
	VariablesFilename   string
	ReadRestartFilename string // restart file the simulation reads, may be empty
}

// Generator renders the input file of a generated job. Parameter
// validation errors should be returned with qerr.CodeValidation.
type Generator interface {
	Generate(in GenerateInput) (string, error)
}

// Preparer turns requests into manifests.
type Preparer struct {
	serializer Serializer
	generator  Generator
	logger     *qlog.Logger
	strict     bool
}

// PreparerOption configures a Preparer
type PreparerOption func(*Preparer)

// WithLogger sets the logger used to report resolution decisions
func WithLogger(logger *qlog.Logger) PreparerOption {
	return func(p *Preparer) {
		p.logger = logger
	}
}

// WithStrictRestart rejects requests that carry both a restart file and a
// parent folder instead of letting the parent folder win.
func WithStrictRestart(strict bool) PreparerOption {
	return func(p *Preparer) {
		p.strict = strict
	}
}

// NewPreparer creates a Preparer. serializer and generator may be nil when
// only verbatim jobs are prepared.
func NewPreparer(serializer Serializer, generator Generator, opts ...PreparerOption) *Preparer {
	p := &Preparer{
		serializer: serializer,
		generator:  generator,
		logger:     qlog.NewQuiet(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare resolves req into a manifest. On error no manifest is returned.
func (p *Preparer) Prepare(req *Request) (*Manifest, error) {
	opts, err := req.Settings.Options()
	if err != nil {
		return nil, err
	}
	mode, err := ResolveMode(req)
	if err != nil {
		return nil, err
	}
	names := req.Names.WithDefaults()
	if len(opts.Unknown) > 0 {
		p.logger.Warn("ignoring unknown settings", "job", req.ID, "keys", fmt.Sprint(opts.Unknown))
	}

	if p.strict {
		if err := RejectAmbiguousRestart(req.RestartBlob, req.ParentFolder); err != nil {
			return nil, err
		}
	}

	plan, err := ResolveRestart(opts, names, req.RestartBlob, req.ParentFolder)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("resolved restart", "job", req.ID, "mode", mode.String(), "restart", plan.Filename)

	var (
		structure, potential Transfer
		inputText            string
	)
	switch mode {
	case ModeVerbatim:
		inputText = *req.Script
	case ModeGenerated:
		if p.serializer == nil || p.generator == nil {
			return nil, errors.New("generated input requested but no serializer or generator configured")
		}
		structureText, err := p.serializer.SerializeStructure(req.Structure, req.Potential.AtomStyle())
		if err != nil {
			return nil, fmt.Errorf("serializing structure: %w", err)
		}
		potentialText, err := p.serializer.SerializePotential(req.Potential)
		if err != nil {
			return nil, fmt.Errorf("serializing potential: %w", err)
		}
		structure = WriteFile{Dest: names.Structure, Content: structureText}
		potential = WriteFile{Dest: names.Potential, Content: potentialText}

		inputText, err = p.generator.Generate(GenerateInput{
			Potential:           req.Potential,
			Structure:           req.Structure,
			Parameters:          req.Parameters.Clone(),
			StructureFilename:   names.Structure,
			PotentialFilename:   names.Potential,
			RestartFilename:     names.Restart,
			TrajectoryFilename:  names.Trajectory,
			VariablesFilename:   names.Variables,
			ReadRestartFilename: plan.Filename,
		})
		if err != nil {
			if qerr.CodeOf(err) == qerr.CodeUnknown {
				err = qerr.New(qerr.CodeValidation, err)
			}
			return nil, fmt.Errorf("generating input file: %w", err)
		}
	}

	manifest, err := BuildManifest(plan, structure, potential, req.Parameters, opts, names)
	if err != nil {
		return nil, err
	}
	manifest.InputText = inputText
	manifest.Invocation = Invocation{
		CodeID: req.CodeID,
		Args:   append([]string{"-in", names.Input, "-log", names.Log}, opts.AdditionalCmdlineParams...),
		Stdout: names.Output,
	}

	return &manifest, nil
}
