package main

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/backdrop/field"
)

func newShaderCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "shader",
		Short: "Print the particle program's WGSL or compile it to SPIR-V",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prog := field.NewProgram(field.DefaultColor1, field.DefaultColor2)
			defer prog.Dispose()
			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), prog.Source())
				return err
			}
			words, err := prog.Compile()
			if err != nil {
				return err
			}
			buf := make([]byte, 4*len(words))
			for i, w := range words {
				binary.LittleEndian.PutUint32(buf[i*4:], w)
			}
			if err := os.WriteFile(out, buf, 0o644); err != nil { //nolint:gosec // output artifact
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d words)\n", out, len(words))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "write SPIR-V to this file instead of printing WGSL")
	return cmd
}
