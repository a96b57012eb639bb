package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/yanqian/shopbot/internal/bootstrap"
	"github.com/yanqian/shopbot/internal/domain/auth"
	"github.com/yanqian/shopbot/internal/domain/faq"
	"github.com/yanqian/shopbot/internal/domain/hours"
	"github.com/yanqian/shopbot/internal/domain/intent"
	"github.com/yanqian/shopbot/internal/domain/reply"
	"github.com/yanqian/shopbot/internal/infra/config"
	"github.com/yanqian/shopbot/pkg/metrics"
)

// runtime holds what every subcommand shares. It is built once in
// PersistentPreRunE so --help never touches a store.
type runtime struct {
	cfg     *config.Config
	logger  *slog.Logger
	faqSvc  faq.Service
	clock   *hours.ZoneClock
	hours   hours.Service
	reply   reply.Service
	cleanup func()
}

type options struct {
	loadConfig func() (*config.Config, error)
	logger     *slog.Logger
}

func newRuntime(opts options) (*runtime, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger := opts.logger
	sess, err := bootstrap.AWSSession(cfg)
	if err != nil {
		return nil, err
	}
	kb, cleanup, err := bootstrap.KnowledgeBase(cfg, sess, logger)
	if err != nil {
		return nil, err
	}
	m := metrics.New()
	faqSvc := faq.NewService(faq.NewCache(kb, logger, m), logger)
	clock := hours.NewZoneClock(cfg.Hours.TimeZone, logger)
	hoursSvc := hours.NewService(hours.DefaultSchedule(), clock, logger)
	return &runtime{
		cfg:     cfg,
		logger:  logger,
		faqSvc:  faqSvc,
		clock:   clock,
		hours:   hoursSvc,
		reply:   reply.NewService(intent.NewClassifier(), hoursSvc, faqSvc, m, logger),
		cleanup: cleanup,
	}, nil
}

// newRootCmd returns the command tree and a release func for whatever the
// tree opened.
func newRootCmd(opts options) (*cobra.Command, func()) {
	var (
		rt      *runtime
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:           "faqctl",
		Short:         "Query and maintain the shop assistant knowledge base",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			rt, err = newRuntime(opts)
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			cmd.SetContext(ctx)
			prev := rt.cleanup
			rt.cleanup = func() {
				cancel()
				prev()
			}
			return nil
		},
	}
	root.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "overall deadline for store calls")

	get := func() *runtime { return rt }
	root.AddCommand(
		newAskCmd(get),
		newHoursCmd(get),
		newEntriesCmd(get),
		newExportCmd(get),
		newTokenCmd(get),
	)
	release := func() {
		if rt != nil {
			rt.cleanup()
		}
	}
	return root, release
}

func newAskCmd(rt func() *runtime) *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "ask <query>",
		Short: "Answer a query the way the chat channels do",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answer := rt().reply.Answer(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, answer.Text)
			if verbose {
				fmt.Fprintf(out, "route=%s tier=%s matched=%q\n", answer.Route, answer.Tier, answer.MatchedQuestion)
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print the route and matched question")
	return cmd
}

func newHoursCmd(rt func() *runtime) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Print the opening hours status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := rt()
			report := r.hours.Today()
			if at != "" {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				report = r.hours.At(t.In(r.clock.Location()))
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Message)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "evaluate at an RFC3339 instant instead of now")
	return cmd
}

func newEntriesCmd(rt func() *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List the knowledge base as the matcher sees it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries, err := rt().faqSvc.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tQUESTION\tKEYWORDS")
			for _, entry := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\n", entry.ID, entry.Question, strings.Join(entry.Keywords(), ","))
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d entries\n", len(entries))
			return nil
		},
	}
}

func newExportCmd(rt func() *runtime) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Copy the configured knowledge base into the object store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := rt()
			if r.cfg.FAQ.ObjectStore.Bucket == "" {
				return fmt.Errorf("faq.objectStore.bucket is not configured")
			}
			entries, err := r.faqSvc.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			target, err := bootstrap.ObjectRepository(r.cfg, r.logger)
			if err != nil {
				return err
			}
			if name == "" {
				name = time.Now().UTC().Format("20060102T150405")
			}
			key, err := target.Export(cmd.Context(), name, entries)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s/%s\n", len(entries), r.cfg.FAQ.ObjectStore.Bucket, key)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "object name, defaults to a UTC timestamp")
	return cmd
}

func newTokenCmd(rt func() *runtime) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an admin API token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := rt()
			svc := auth.NewService(auth.Config{Secret: r.cfg.Admin.JWTSecret, Issuer: r.cfg.Admin.Issuer}, r.logger)
			token, err := svc.IssueToken(cmd.Context(), subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "faqctl", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", time.Hour, "token lifetime")
	return cmd
}
