package sync

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/mcpsync/cmd/application"
	"github.com/agentstation/mcpsync/internal/auth"
	"github.com/agentstation/mcpsync/internal/cmd/output"
	"github.com/agentstation/mcpsync/pkg/errors"
	pkgsync "github.com/agentstation/mcpsync/pkg/sync"
)

// Execute runs one sync and prints its report. It returns an error that
// wraps errors.ErrCanceled when the run was interrupted and a plain error
// when it failed.
func Execute(ctx context.Context, app application.Application, flags *Flags, w io.Writer) error {
	logger := app.Logger()

	logCredential(app)

	client, err := app.Client(ctx)
	if err != nil {
		return err
	}

	if flags.Migrate || app.AutoMigrate() {
		applied, err := client.Migrate(ctx)
		if err != nil {
			return errors.WrapResource("migrate", "schema", "", err)
		}
		logger.Info().Int("applied", applied).Msg("Schema is up to date")
	}

	var opts []pkgsync.Option
	if flags.Timeout > 0 {
		opts = append(opts, pkgsync.WithTimeout(flags.Timeout))
	}

	report, err := client.Sync(ctx, opts...)
	if err != nil {
		return err
	}

	if err := app.WriteMetrics(); err != nil {
		logger.Warn().Err(err).Msg("Failed to write metrics textfile")
	}

	format := output.DetectFormat(app.OutputFormat())
	if err := output.FormatSync(w, format, report, app.ErrorDisplayLimit()); err != nil {
		return err
	}

	result := report.Result
	switch {
	case result.Interrupted:
		return result.Err
	case !result.Success && result.Err != nil:
		return fmt.Errorf("sync failed: %w", result.Err)
	case !result.Success:
		return errors.New(result.Message)
	}
	return nil
}

func logCredential(app application.Application) {
	logger := app.Logger()
	status := app.Credential()

	switch status.State {
	case auth.StateConfigured:
		event := logger.Info().Str("token", status.Details.Masked).Str("source", status.Details.Source)
		event.Msg("Using bearer credential")
		if status.Details.Role != "" {
			logger.Debug().Str("role", status.Details.Role).Msg("Credential role")
		}
	case auth.StateInvalid:
		logger.Warn().Str("token", status.Details.Masked).Msg(status.Summary)
	default:
		logger.Info().Msg("No API key provided, syncing without authentication")
	}
}
