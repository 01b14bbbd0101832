package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func writeTable(w io.Writer, table *coreinterfaces.Table) error {
	if _, err := fmt.Fprintln(w, strings.Join(table.ColumnNames, "\t")); err != nil {
		return errors.Trace(err)
	}
	for _, row := range table.Rows {
		values := make([]string, len(row))
		for i, v := range row {
			values[i] = formatValue(v)
		}
		if _, err := fmt.Fprintln(w, strings.Join(values, "\t")); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func NewExecCmd() *cobra.Command {
	var (
		flags          connectionFlags
		modelWarehouse string
		statement      string
		fetch          bool
	)

	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Run a statement the way a model runs, on the model's warehouse",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := context.Background()
			session, err := flags.open(ctx)
			if err != nil {
				return errors.Trace(err)
			}
			defer session.Close()

			config := coreinterfaces.ModelConfig{Warehouse: modelWarehouse}
			token, err := session.Adapter.PreModelHook(ctx, config)
			if err != nil {
				return errors.Trace(err)
			}
			defer func() {
				if postErr := session.Adapter.PostModelHook(ctx, config, token); postErr != nil {
					session.Logger.Error("Failed to restore warehouse", zap.Error(postErr))
					if err == nil {
						err = errors.Trace(postErr)
					}
				}
			}()

			count, table, err := session.Executor.Execute(ctx, statement, fetch)
			if err != nil {
				return errors.Trace(err)
			}
			if table != nil {
				return writeTable(cmd.OutOrStdout(), table)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d rows affected\n", count)
			return nil
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVar(&modelWarehouse, "model-warehouse", "", "warehouse the statement runs on, the run's warehouse if empty")
	cmd.Flags().StringVar(&statement, "sql", "", "statement to run")
	cmd.Flags().BoolVar(&fetch, "fetch", false, "print the result set of the statement")

	cmd.MarkFlagRequired("sql")

	return cmd
}
