package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/hotelfetch/config"
	"github.com/jonwraymond/hotelfetch/fetch"
	"github.com/jonwraymond/hotelfetch/observe"
)

// shutdownTimeout bounds telemetry flushing after a command finishes.
const shutdownTimeout = 5 * time.Second

type rootOptions struct {
	configPath string
	out        io.Writer
	errOut     io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	o := &rootOptions{out: out, errOut: errOut}

	cmd := &cobra.Command{
		Use:   "hotelfetch",
		Short: "Cache-first hotel data client",
		Long: `hotelfetch queries the hotel provider, trying a direct request and a
CORS proxy in turn. Successful responses are cached; when the provider is
unreachable the last cached response is served instead.

Every result is printed as JSON with its provenance: fresh, stale or
synthetic.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file (default ./hotelfetch.yaml)")

	cmd.AddCommand(
		newSearchCmd(o),
		newDetailsCmd(o),
		newListingsCmd(o),
		newHealthCmd(o),
	)
	return cmd
}

// run loads configuration, builds the app and hands it to fn.
func (o *rootOptions) run(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, cfg, o.errOut)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := a.close(sctx); err != nil {
			a.logger.Warn(sctx, "shutdown failed", observe.F("error", err))
		}
	}()

	return fn(ctx, a)
}

// resultView is the printed form of a fetch.Result.
type resultView struct {
	Provenance string          `json:"provenance"`
	Key        string          `json:"key"`
	Cause      string          `json:"cause,omitempty"`
	Payload    json.RawMessage `json:"payload"`
}

func (o *rootOptions) printResult(res fetch.Result) error {
	v := resultView{
		Provenance: res.Provenance.String(),
		Key:        res.Key,
		Payload:    res.Payload,
	}
	if res.Cause != nil {
		v.Cause = res.Cause.Error()
	}
	return o.printJSON(v)
}

func (o *rootOptions) printJSON(v any) error {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}
