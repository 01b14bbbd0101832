package cmd

import (
	"context"
	"fmt"

	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func NewSchemaDiffCmd() *cobra.Command {
	var (
		flags        connectionFlags
		referenceFQN string
		targetFQN    string
	)

	cmd := &cobra.Command{
		Use:   "schema-diff",
		Short: "Tell whether the columns of two relations differ",
		RunE: func(cmd *cobra.Command, _ []string) error {
			reference, err := parseRelation(referenceFQN)
			if err != nil {
				return errors.Trace(err)
			}
			target, err := parseRelation(targetFQN)
			if err != nil {
				return errors.Trace(err)
			}
			ctx := context.Background()
			session, err := flags.open(ctx)
			if err != nil {
				return errors.Trace(err)
			}
			defer session.Close()

			changed, err := session.Adapter.HasSchemaChanged(ctx, reference, target)
			if err != nil {
				return errors.Trace(err)
			}
			session.Logger.Info("Schema compared",
				zap.Stringer("reference", reference),
				zap.Stringer("target", target),
				zap.Bool("changed", changed))
			if changed {
				fmt.Fprintln(cmd.OutOrStdout(), "changed")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "unchanged")
			}
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&referenceFQN, "reference", "", "reference relation: [[database.]schema.]identifier")
	cmd.Flags().StringVar(&targetFQN, "target", "", "target relation: [[database.]schema.]identifier")

	cmd.MarkFlagRequired("reference")
	cmd.MarkFlagRequired("target")

	return cmd
}
