package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/toerig/internal/animator"
	"github.com/roach88/toerig/internal/compiler"
	"github.com/roach88/toerig/internal/engine"
	"github.com/roach88/toerig/internal/exprparams"
	"github.com/roach88/toerig/internal/offsets"
	"github.com/roach88/toerig/internal/skeleton"
	"github.com/roach88/toerig/internal/testutil"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory host with sequential run
// IDs, so two executions of the same scenario produce identical reports.
//
// Execution flow:
// 1. Parse the document, skeleton and rig profile
// 2. Seed the host with the controller and expression list
// 3. Run the engine Runs times, stopping at the first error
// 4. Compare the error against ExpectError
// 5. Evaluate assertions against the reports and the host
//
// The returned error covers inputs that cannot be loaded; a scenario that
// loads but does not hold returns a failing Result.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()

	data, err := os.ReadFile(scenario.Document)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	doc, err := compiler.Parse(scenario.Document, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	root, err := skeleton.Load(scenario.Skeleton)
	if err != nil {
		return nil, fmt.Errorf("failed to load skeleton: %w", err)
	}
	profile := offsets.DefaultProfile()
	if scenario.Rig != "" {
		if profile, err = offsets.LoadProfile(scenario.Rig); err != nil {
			return nil, fmt.Errorf("failed to load rig: %w", err)
		}
	}
	left, right := profile.BonePaths()
	rig := skeleton.NewRig(root, profile.Chain, left, right)

	host, err := seedHost(scenario)
	if err != nil {
		return nil, err
	}

	prefix := scenario.RunIDPrefix
	if prefix == "" {
		prefix = scenario.Name
	}
	eng := engine.New(host,
		engine.WithRunIDs(testutil.NewSequentialRunIDs(prefix)),
		engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)

	runs := scenario.Runs
	if runs == 0 {
		runs = 1
	}

	result := NewResult()
	result.Host = host
	var runErr error
	for i := 0; i < runs; i++ {
		report, err := eng.Run(ctx, engine.Request{
			Document:             doc,
			Controller:           scenario.Controller,
			ExpressionParameters: scenario.ExpressionParameters,
			Container:            scenario.Container,
			Profile:              profile,
			Bones:                rig,
		})
		if err != nil {
			runErr = err
			break
		}
		result.Reports = append(result.Reports, report)
	}

	checkRunError(result, scenario.ExpectError, runErr)
	for _, msg := range EvaluateAssertions(ctx, result, scenario.Controller, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func seedHost(scenario *Scenario) (*engine.MemoryHost, error) {
	host := engine.NewMemoryHost()
	ctrl := animator.NewController(scenario.Controller)
	for _, p := range scenario.Setup.Parameters {
		t, err := parseParameterType(p.Type)
		if err != nil {
			return nil, err
		}
		ctrl.DeclareParameter(animator.Parameter{Name: p.Name, Type: t})
	}
	if err := host.PutController(ctrl); err != nil {
		return nil, fmt.Errorf("failed to seed controller: %w", err)
	}
	if scenario.ExpressionParameters != "" {
		host.PutExpressionParameters(exprparams.New(scenario.ExpressionParameters))
	}
	return host, nil
}

func checkRunError(result *Result, want engine.RunErrorCode, err error) {
	if err != nil {
		result.ErrorCode = engine.CodeOf(err)
	}
	switch {
	case err == nil && want != "":
		result.AddError(fmt.Sprintf("expected run error %s, every run succeeded", want))
	case err != nil && want == "":
		result.AddError(fmt.Sprintf("unexpected run error: %v", err))
	case err != nil && result.ErrorCode != want:
		result.AddError(fmt.Sprintf("expected run error %s, got %s: %v", want, result.ErrorCode, err))
	}
}
