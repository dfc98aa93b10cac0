package health

import (
	"context"

	"github.com/logward/logward/pkg/logging"
)

// RemoteStore returns a Checker that probes the logger's remote store sink.
// It reports healthy when no remote sink is configured: absence of remote
// configuration is a valid mode, not a failure.
func RemoteStore(logger *logging.Logger) Checker {
	return CheckerFunc(func(ctx context.Context) error {
		return logger.CheckRemote(ctx)
	})
}
