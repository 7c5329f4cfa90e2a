package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/kiidfreak/Ag3nt-05/pkg/agent"
	"github.com/kiidfreak/Ag3nt-05/pkg/config"
	"github.com/kiidfreak/Ag3nt-05/pkg/core"
	"github.com/kiidfreak/Ag3nt-05/pkg/manifest"
	"github.com/kiidfreak/Ag3nt-05/pkg/resilience"
	"github.com/kiidfreak/Ag3nt-05/pkg/telemetry"
)

// echoHooks is the demo agent behind `agentctl run`: it fills every
// declared output from the matching input field, or with the zero value of
// the declared type when the input has no field of that name.
type echoHooks struct {
	outputs map[string]manifest.FieldSchema
}

func (h *echoHooks) OnInitialize(context.Context) error { return nil }
func (h *echoHooks) OnShutdown(context.Context) error   { return nil }

func (h *echoHooks) OnExecute(_ context.Context, input map[string]any) (map[string]any, error) {
	result := make(map[string]any, len(h.outputs))
	for key, fs := range h.outputs {
		if v, ok := input[key]; ok {
			result[key] = v
			continue
		}
		result[key] = zeroValue(fs.Type)
	}
	return result, nil
}

func zeroValue(fieldType string) any {
	switch fieldType {
	case manifest.TypeNumber:
		return float64(0)
	case manifest.TypeBoolean:
		return false
	case manifest.TypeArray:
		return []any{}
	case manifest.TypeObject:
		return map[string]any{}
	default:
		return ""
	}
}

func runRun(ctx context.Context, global globalFlags, args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	input := fs.String("input", "{}", "task input as a JSON object")
	timeout := fs.Duration("timeout", 30*time.Second, "execution timeout (0 disables)")
	verbose := fs.Bool("verbose", false, "print lifecycle events")
	if err := fs.Parse(args); err != nil {
		fatal(err)
	}
	if fs.NArg() != 1 {
		fatal(fmt.Errorf("usage: agentctl run [flags] <manifest>"))
	}

	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		fatal(err)
	}
	logger := telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	shutdownTelemetry, err := telemetry.Init(ctx, "agentctl", version, cfg.Telemetry)
	if err != nil {
		fatal(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTelemetry(shutdownCtx)
	}()

	m, err := manifest.Load(fs.Arg(0))
	if err != nil {
		fatal(err)
	}

	var taskInput map[string]any
	if err := json.Unmarshal([]byte(*input), &taskInput); err != nil {
		fatal(fmt.Errorf("invalid -input: %w", err))
	}

	metrics, err := telemetry.NewTaskMetrics()
	if err != nil {
		fatal(err)
	}

	a, err := agent.New(m, &echoHooks{outputs: m.Outputs},
		agent.WithLogger(logger),
		agent.WithMetrics(metrics),
	)
	if err != nil {
		fatal(err)
	}

	if *verbose {
		for _, t := range []core.EventType{
			core.EventAgentInitialized,
			core.EventTaskStarted,
			core.EventTaskCompleted,
			core.EventTaskFailed,
			core.EventAgentShutdown,
		} {
			a.On(t, func(_ context.Context, evt core.Event) error {
				fmt.Fprintf(os.Stderr, "event %s %v\n", evt.Type, evt.Payload)
				return nil
			})
		}
	}

	agentCtx := core.AgentContext{
		AgentID:   m.ID,
		SessionID: uuid.NewString(),
	}
	if err := a.Initialize(ctx, agentCtx, cfg.Agent.Config); err != nil {
		fatal(err)
	}

	result, err := resilience.WithTimeout(ctx, *timeout, func(ctx context.Context) (map[string]any, error) {
		return a.Execute(ctx, taskInput)
	})
	if err != nil {
		_ = a.Shutdown(ctx)
		fatal(err)
	}

	if err := a.Shutdown(ctx); err != nil {
		fatal(err)
	}

	printJSON(result)
}
