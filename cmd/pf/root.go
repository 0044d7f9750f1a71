package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/bjaus/pf"
	"github.com/bjaus/pf/internal/log"
	"github.com/bjaus/pf/pfrc"
)

// errMarshalFailed signals that some inputs failed; the details are already
// on stderr.
var errMarshalFailed = errors.New("marshal failed")

type rootOptions struct {
	marshaller string
	verbose    int
	failEarly  bool
	spaces     string
	replacer   string
}

// marshallerFlags are the flags forwarded to marshaller factories, keyed by
// long name with their short alias.
var marshallerFlags = map[string]string{
	"spaces":   "S",
	"replacer": "R",
}

// Execute runs the pf CLI. Marshal failures exit 1, usage and configuration
// errors exit 2.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errMarshalFailed) {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var o rootOptions
	cmd := &cobra.Command{
		Use:           "pf [flags] [file...]",
		Short:         "Re-serialize JSON values",
		Long:          "pf reads JSON values from stdin or the given files and prints each one through a marshaller.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMarshal(cmd, args, o)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.marshaller, "marshaller", "M", pf.JSONStringify.Name, "marshaller to use (see pf marshallers)")
	f.CountVarP(&o.verbose, "verbose", "v", "increase verbosity (repeatable)")
	f.BoolVarP(&o.failEarly, "fail-early", "e", false, "abort at the first value that fails to marshal")
	f.StringVarP(&o.spaces, "spaces", "S", "", "indentation width for JSON output")
	f.StringVarP(&o.replacer, "replacer", "R", "", "replacer selecting which JSON fields are kept")

	cmd.AddCommand(newMarshallersCmd())
	return cmd
}

func newMarshallersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "marshallers",
		Short: "List available marshallers and their options",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			for _, d := range pf.Marshallers() {
				if _, err := fmt.Fprintf(out, "%s\n%s", d.Name, d.Desc); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func runMarshal(cmd *cobra.Command, args []string, o rootOptions) error {
	log.Configure(log.Config{Level: log.LevelForVerbosity(o.verbose), Output: cmd.ErrOrStderr()})
	logger := log.WithComponent("cli")

	cfg, err := pfrc.LoadUser()
	if err != nil {
		return fmt.Errorf("load user config: %w", err)
	}
	hostCtx := pfrc.Context{}
	cfg.Apply(hostCtx)

	d, err := pf.Lookup(o.marshaller)
	if err != nil {
		return err
	}
	argv := optionsFromFlags(cmd.Flags())
	argv[pf.ContextKey] = hostCtx

	marshal, err := d.Func(o.verbose, o.failEarly, argv)
	if err != nil {
		return fmt.Errorf("configure %s: %w", d.Name, err)
	}

	values, err := readInputs(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	logger.Debug().Str("marshaller", d.Name).Int("values", len(values)).Msg("marshalling")

	res := marshal(values)
	if _, err := io.WriteString(cmd.OutOrStdout(), res.Str); err != nil {
		return err
	}
	if res.Failed() {
		if _, err := io.WriteString(cmd.ErrOrStderr(), res.Err); err != nil {
			return err
		}
		return errMarshalFailed
	}
	return nil
}

// optionsFromFlags forwards the marshaller flags the user set, under both
// their long and short names.
func optionsFromFlags(fs *pflag.FlagSet) pf.Options {
	opts := pf.Options{}
	fs.Visit(func(f *pflag.Flag) {
		short, ok := marshallerFlags[f.Name]
		if !ok {
			return
		}
		v := f.Value.String()
		opts[f.Name] = v
		opts[short] = v
	})
	return opts
}

// readInputs decodes every JSON value from the named files in order. No
// files, or "-", means stdin.
func readInputs(stdin io.Reader, files []string) ([]any, error) {
	if len(files) == 0 {
		files = []string{"-"}
	}
	var values []any
	for _, name := range files {
		vs, err := readFile(stdin, name)
		if err != nil {
			return nil, err
		}
		values = append(values, vs...)
	}
	return values, nil
}

func readFile(stdin io.Reader, name string) ([]any, error) {
	if name == "-" {
		vs, err := pf.Collect(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return vs, nil
	}
	fh, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	vs, err := pf.Collect(fh)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return vs, nil
}
