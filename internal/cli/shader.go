package cli

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/tear"
	"github.com/gogpu/tear/internal/gpu"
)

type shaderOpts struct {
	output string
	wgsl   bool
}

// shaderCommand prints or compiles the WGSL shader.
func (c *CLI) shaderCommand() *cobra.Command {
	var opts shaderOpts

	cmd := &cobra.Command{
		Use:   "shader",
		Short: "Print the WGSL shader or compile it to SPIR-V",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if opts.wgsl {
				_, err := io.WriteString(out, tear.ShaderSource())
				return err
			}
			return c.compileShader(out, opts.output)
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.wgsl, "wgsl", false, "print the WGSL source and exit")
	f.StringVarP(&opts.output, "output", "o", "", "write the SPIR-V module to this file")
	return cmd
}

func (c *CLI) compileShader(out io.Writer, path string) error {
	prog := newProgress(c.Logger)
	words, err := gpu.CompileSPIRV(tear.ShaderSource())
	if err != nil {
		return err
	}
	prog.done("shader compiled")

	printSuccess(out, "Compiled WGSL to SPIR-V")
	printKeyValue(out, "words", fmt.Sprint(len(words)))
	printKeyValue(out, "uniforms", fmt.Sprintf("%d bytes", gpu.UniformSize))

	if path == "" {
		return nil
	}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, words); err != nil {
		return fmt.Errorf("encode SPIR-V: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // shader output is not secret
		return fmt.Errorf("write SPIR-V: %w", err)
	}
	printFile(out, path)
	return nil
}
