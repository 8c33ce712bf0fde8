package sum

import (
	"fmt"
	"inetsum/checksum"
	"inetsum/internal/conf"
	"inetsum/internal/flog"
	"inetsum/internal/input"
	"io"
	"os"
	"slices"

	"github.com/spf13/cobra"
)

var (
	confPath   string
	hexInput   string
	format     string
	complement bool
)

func init() {
	Cmd.Flags().StringVarP(&confPath, "config", "c", "config.yaml", "Path to the configuration file (defaults are used if it does not exist).")
	Cmd.Flags().StringVar(&hexInput, "hex", "", "Sum the given hex bytes (e.g. \"45 00 00 73\") instead of files.")
	Cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: hex, dec or both. Overrides sum.format.")
	Cmd.Flags().BoolVar(&complement, "complement", false, "Also print the one's complement (the header field value).")
}

var Cmd = &cobra.Command{
	Use:   "sum [file...]",
	Short: "Prints the un-complemented Internet checksum of files, stdin or hex bytes.",
	Long: `The 'sum' command prints the RFC 1071 one's-complement sum of each input,
read as big-endian 16-bit words, without the final complement. With no file
arguments (or "-") it reads stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := conf.Load(confPath)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		flog.SetLevel(cfg.Log.Level)

		if format == "" {
			format = cfg.Sum.Format
		}
		if !slices.Contains([]string{"hex", "dec", "both"}, format) {
			return fmt.Errorf("unknown format %q", format)
		}
		return run(cmd.InOrStdin(), cmd.OutOrStdout(), cfg.Sum.Chunk, cmd.Flags().Changed("hex"), args)
	},
}

// run sums --hex when useHex is set, even an empty literal, and otherwise
// each path in args.
func run(stdin io.Reader, out io.Writer, chunk int, useHex bool, args []string) error {
	if useHex {
		if len(args) > 0 {
			return fmt.Errorf("--hex cannot be combined with file arguments")
		}
		data, err := input.ParseHex(hexInput)
		if err != nil {
			return err
		}
		flog.Debugf("sum: %d bytes from --hex", len(data))
		fmt.Fprintln(out, input.Format(checksum.Partial(data), format, complement))
		return nil
	}

	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, path := range args {
		res, err := sumPath(stdin, path, chunk)
		if err != nil {
			return err
		}
		flog.Debugf("sum: %s: %d bytes", path, res.Bytes)
		fmt.Fprintf(out, "%s  %s\n", input.Format(res.Sum, format, complement), path)
	}
	return nil
}

func sumPath(stdin io.Reader, path string, chunk int) (input.Result, error) {
	if path == "-" {
		return input.SumReader(stdin, chunk)
	}
	f, err := os.Open(path)
	if err != nil {
		return input.Result{}, err
	}
	defer f.Close()

	res, err := input.SumReader(f, chunk)
	if err != nil {
		return res, fmt.Errorf("%s: %w", path, err)
	}
	return res, nil
}
