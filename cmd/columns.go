package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pingcap-inc/sfadapter/pkg/coreinterfaces"
	"github.com/pingcap/errors"
	"github.com/spf13/cobra"
	"github.com/thediveo/enumflag"
)

type OutputFormat enumflag.Flag

const (
	OutputFormatText OutputFormat = iota
	OutputFormatJSON
)

var OutputFormatIds = map[OutputFormat][]string{
	OutputFormatText: {"text"},
	OutputFormatJSON: {"json"},
}

type jsonColumn struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
}

func writeColumns(w io.Writer, columns []coreinterfaces.Column, format OutputFormat) error {
	if format == OutputFormatJSON {
		out := make([]jsonColumn, 0, len(columns))
		for _, c := range columns {
			out = append(out, jsonColumn{Name: c.Name, DataType: c.DataType})
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Trace(enc.Encode(out))
	}
	for _, c := range columns {
		if _, err := fmt.Fprintf(w, "%s\t%s\n", c.Name, c.DataType); err != nil {
			return errors.Trace(err)
		}
	}
	return nil
}

func NewColumnsCmd() *cobra.Command {
	var (
		flags  connectionFlags
		fqn    string
		format OutputFormat
	)

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "List the live columns of a relation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rel, err := parseRelation(fqn)
			if err != nil {
				return errors.Trace(err)
			}
			ctx := context.Background()
			session, err := flags.open(ctx)
			if err != nil {
				return errors.Trace(err)
			}
			defer session.Close()

			columns, err := session.Adapter.GetColumnsInRelation(ctx, rel)
			if err != nil {
				return errors.Trace(err)
			}
			return writeColumns(cmd.OutOrStdout(), columns, format)
		},
	}

	flags.bind(cmd)
	cmd.Flags().StringVarP(&fqn, "relation", "r", "", "relation: [[database.]schema.]identifier")
	cmd.Flags().Var(enumflag.New(&format, "format", OutputFormatIds, enumflag.EnumCaseInsensitive), "format", "output format: text, json")

	cmd.MarkFlagRequired("relation")

	return cmd
}
