package cli

import "flag"

const versionString = "1.0.0"
const defaultConfigPath = "./loom.toml"

type cliOptions struct {
	configPath string
	once       bool
	ui         bool
	history    bool
	since      string
	verbose    bool
	version    bool
	args       []string
}

func parseOptions(args []string) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("loom", flag.ContinueOnError)

	fs.StringVar(&opts.configPath, "config", defaultConfigPath, "Path to config file")
	fs.BoolVar(&opts.once, "once", false, "Run a single generation pass and exit")
	fs.BoolVar(&opts.ui, "ui", false, "Enable terminal UI watch mode")
	fs.BoolVar(&opts.history, "history", false, "Print recorded generation runs and exit")
	fs.StringVar(&opts.since, "since", "", "Include history runs at/after this timestamp (RFC3339 or YYYY-MM-DD)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&opts.version, "version", false, "Print version and exit")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	opts.args = fs.Args()
	return opts, nil
}
