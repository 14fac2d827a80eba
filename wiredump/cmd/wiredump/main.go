package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/performancecopilot/wirebuf"
	"github.com/performancecopilot/wirebuf/bytebuffer"
	"github.com/performancecopilot/wirebuf/wiredump"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "wiredump",
		Short:         "Decode and encode flat binary records",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				wirebuf.SetLogWriters(cmd.ErrOrStderr())
				wirebuf.SetLogLevel(zapcore.DebugLevel)
				wirebuf.EnableLogging(true)
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log buffer activity to stderr")
	root.AddCommand(newDecodeCmd(), newEncodeCmd())

	return root
}

func newDecodeCmd() *cobra.Command {
	var (
		layout string
		stats  bool
	)

	cmd := &cobra.Command{
		Use:   "decode FILE",
		Short: "Print every record stored in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := wiredump.ParseLayout(layout)
			if err != nil {
				return err
			}

			d, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			b := bytebuffer.NewByteBufferFrom(d)
			defer b.Close()

			var summary *wiredump.Summary
			if stats {
				summary = wiredump.NewSummary()
			}

			records, err := wiredump.Decode(b, l, summary)
			printRecords(cmd.OutOrStdout(), records)
			if err != nil {
				return err
			}

			if summary != nil {
				printStats(cmd.OutOrStdout(), summary.Stats())
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "", "comma separated field kinds of a record, e.g. i32,str,f64")
	cmd.Flags().BoolVar(&stats, "stats", false, "print size statistics after the records")
	_ = cmd.MarkFlagRequired("layout")

	return cmd
}

func newEncodeCmd() *cobra.Command {
	var layout, out string

	cmd := &cobra.Command{
		Use:   "encode [--] VALUE...",
		Short: "Encode VALUEs as records and write them to a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := wiredump.ParseLayout(layout)
			if err != nil {
				return err
			}

			b := wirebuf.NewBuffer()
			defer b.Close()

			if err = wiredump.Encode(b, l, args); err != nil {
				return err
			}

			if out == "-" {
				_, err = cmd.OutOrStdout().Write(b.Bytes())
				return err
			}

			return os.WriteFile(out, b.Bytes(), 0644)
		},
	}

	cmd.Flags().StringVarP(&layout, "layout", "l", "", "comma separated field kinds of a record, e.g. i32,str,f64")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "file to write, - for stdout")
	_ = cmd.MarkFlagRequired("layout")

	return cmd
}

func printRecords(w io.Writer, records []wiredump.Record) {
	for i, rec := range records {
		vals := make([]string, len(rec))
		for j, v := range rec {
			if s, ok := v.(string); ok {
				vals[j] = fmt.Sprintf("%q", s)
			} else {
				vals[j] = fmt.Sprint(v)
			}
		}

		fmt.Fprintf(w, "[%d] %s\n", i, strings.Join(vals, ", "))
	}
}

func printStats(w io.Writer, st wiredump.Stats) {
	fmt.Fprintf(w, `
Records   = %v
Size      = mean %.1f, p50 %v, p99 %v, max %v
Strings   = %v
String    = mean %.1f, max %v
`, st.Records, st.MeanSize, st.MedianSize, st.P99Size, st.MaxSize, st.Strings, st.MeanString, st.MaxString)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "wiredump:", err)
		os.Exit(1)
	}
}
