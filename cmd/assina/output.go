package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func writeOutput(w io.Writer, path string, payload []byte) error {
	if path == "" {
		if _, err := w.Write(payload); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w)
		return err
	}
	return os.WriteFile(path, payload, 0o644)
}

func writeJSON(cmd *cobra.Command, path string, v any) error {
	payload, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if err := writeOutput(cmd.OutOrStdout(), path, payload); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// readInput reads a file, or standard input when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
