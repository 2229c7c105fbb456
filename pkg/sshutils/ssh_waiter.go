package sshutils

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/CharlesKozel/linpeas-agent-test/pkg/logger"
)

// WaitForSSH polls Connect with exponential backoff until the host accepts an
// authenticated connection, the context is cancelled, or maxElapsed runs out.
// Config errors are permanent: retrying cannot fix a missing credential.
func WaitForSSH(ctx context.Context, cfg *SSHConfig, maxElapsed time.Duration) error {
	log := cfg.logger()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = WaitRetryInterval
	b.MaxElapsedTime = maxElapsed

	attempt := 0
	operation := func() error {
		attempt++
		session := NewSession(cfg)
		if err := session.Connect(); err != nil {
			log.Debug("host not reachable yet",
				logger.Int("attempt", attempt),
				logger.Error(err),
			)
			var cerr *ConnectError
			if errors.As(err, &cerr) && cerr.Kind == ErrKindConfig {
				return backoff.Permanent(err)
			}
			return err
		}
		session.Disconnect()
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(b, ctx))
}
