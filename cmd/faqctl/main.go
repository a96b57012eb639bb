// Command faqctl answers queries and maintains the knowledge base from a
// terminal, using the same configuration as the server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/shopbot/internal/infra/config"
	"github.com/yanqian/shopbot/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, release := newRootCmd(options{loadConfig: config.Load, logger: logger.New()})
	err := root.ExecuteContext(ctx)
	release()
	if err != nil {
		fmt.Fprintln(os.Stderr, "faqctl:", err)
		os.Exit(1)
	}
}
