package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/udisondev/actreflect/internal/data"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check reflect tags in every database entry",
	Args:  cobra.NoArgs,
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, _ []string) error {
	db, err := data.Load(cmd.Context(), cfg.DataDir)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	issues := db.Validate()
	for _, is := range issues {
		fmt.Fprintln(out, is.String())
	}
	fmt.Fprintf(out, "%d issues, fingerprint %s\n", len(issues), db.Fingerprint())

	if cfg.StrictTags && len(issues) > 0 {
		return fmt.Errorf("%d invalid reflect tags", len(issues))
	}
	return nil
}
