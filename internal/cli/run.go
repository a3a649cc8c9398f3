package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/support-triage/internal/config"
	"github.com/danielpatrickdp/support-triage/internal/dispatch"
	"github.com/danielpatrickdp/support-triage/internal/email"
	"github.com/danielpatrickdp/support-triage/internal/llm"
	"github.com/danielpatrickdp/support-triage/internal/metrics"
	"github.com/danielpatrickdp/support-triage/internal/pipeline"
	"github.com/danielpatrickdp/support-triage/internal/prompts"
	"github.com/danielpatrickdp/support-triage/internal/report"
	"github.com/danielpatrickdp/support-triage/internal/store"
	"github.com/danielpatrickdp/support-triage/internal/triage"
)

// ClientFactory builds the model client for a run.
type ClientFactory func(ctx context.Context, opts llm.Options) (llm.Client, error)

type RunCmd struct {
	newClient ClientFactory
}

func NewRunCmd() *RunCmd {
	return &RunCmd{newClient: llm.New}
}

func (c *RunCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [emails.json|emails.csv]",
		Short: "Process a batch of emails (built-in samples when no file is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags, err := readCommonFlags(cmd)
			if err != nil {
				return err
			}
			jsonOut, err := cmd.Flags().GetBool("json")
			if err != nil {
				return fmt.Errorf("failed to get json flag: %w", err)
			}
			dryRun, err := cmd.Flags().GetBool("dry-run")
			if err != nil {
				return fmt.Errorf("failed to get dry-run flag: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			source := "samples"
			emails := email.Samples()
			if len(args) == 1 {
				source = args[0]
				if emails, err = email.LoadFile(source); err != nil {
					return err
				}
			}
			return c.run(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), flags, source, emails, jsonOut, dryRun)
		},
	}
	cmd.Flags().Bool("json", false, "print the summary as JSON")
	cmd.Flags().Bool("dry-run", false, "log downstream actions instead of persisting or notifying")
	return cmd
}

func (c *RunCmd) run(ctx context.Context, out, logOut io.Writer, flags commonFlags, source string, emails []email.Email, jsonOut, dryRun bool) error {
	cfg, err := config.Load(flags.envFile)
	if err != nil {
		return err
	}
	if flags.db != "" {
		cfg.DBPath = flags.db
	}
	log := config.NewLogger(logOut, flags.verbose)

	catalog := prompts.Default()
	if cfg.PromptsFile != "" {
		if catalog, err = prompts.LoadFile(cfg.PromptsFile); err != nil {
			return err
		}
	}

	m := metrics.New()
	if cfg.MetricsAddr != "" {
		metricsCtx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		go func() {
			defer close(done)
			if err := m.Serve(metricsCtx, log, cfg.MetricsAddr); err != nil {
				log.Error("metrics: server stopped", "error", err)
			}
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	opts := cfg.LLMOptions()
	client, err := c.newClient(ctx, opts)
	if err != nil {
		return fmt.Errorf("create %s client: %w", opts.Provider, err)
	}
	if closer, ok := client.(io.Closer); ok {
		defer closer.Close()
	}

	svc := llm.NewService(llm.ServiceConfig{
		Client:   client,
		Provider: opts.Provider,
		System:   catalog.System,
		Logger:   log,
		Observer: m,
		Timeout:  cfg.Timeout,
	})
	processor := triage.NewProcessor(triage.Config{
		Model:       svc,
		Prompts:     catalog,
		Temperature: cfg.ResponseTemperature,
		Logger:      log,
	})

	var st *store.Store
	if cfg.DBPath != "" {
		if st, err = store.NewStore(cfg.DBPath); err != nil {
			return err
		}
		defer st.Close()
	}

	pcfg := pipeline.Config{
		Logger:     log,
		Processor:  processor,
		Dispatcher: dispatch.NewDispatcher(downstream(log, st, cfg.SlackWebhookURL, dryRun)),
		Metrics:    m,
	}
	if st != nil {
		pcfg.Recorder = st
	}
	sys, err := pipeline.New(pcfg)
	if err != nil {
		return err
	}

	log.Info("triage: starting run", "source", source, "emails", len(emails), "provider", opts.Provider)
	summary, runErr := sys.Run(ctx, source, emails)

	if jsonOut {
		if err := report.WriteJSON(out, summary); err != nil {
			return err
		}
	} else {
		report.Summary(out, summary)
	}
	return runErr
}

// downstream assembles the services every dispatch goes through. The log
// services always run; persistence and Slack are skipped on a dry run.
func downstream(log *slog.Logger, st *store.Store, slackURL string, dryRun bool) dispatch.Services {
	services := dispatch.Multi{dispatch.NewLogServices(log)}
	if dryRun {
		return services
	}
	if st != nil {
		services = append(services, dispatch.NewRecordingServices(st))
	}
	if slackURL != "" {
		services = append(services, dispatch.NewSlackNotifier(slackURL))
	}
	return services
}
