package cli

import (
	"flag"
	"fmt"
	"io"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// CommonFlags are shared by every subcommand
type CommonFlags struct {
	ConfigFile string
	Verbose    bool
}

func (c *CommonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.ConfigFile, "config", "", "Configuration file path (default: config.yaml if present)")
	fs.BoolVar(&c.Verbose, "verbose", false, "Verbose output")
}

// OptimizeFlags configure the optimize and uniform commands.
// A negative budget means "use the configured default".
type OptimizeFlags struct {
	CommonFlags
	Input        string
	PCBudget     float64
	MobileBudget float64
	Objective    string
	Format       string
	Save         bool
}

// ParseOptimizeFlags parses flags for the optimize and uniform commands.
func ParseOptimizeFlags(name string, args []string, output io.Writer) (*OptimizeFlags, error) {
	flags := &OptimizeFlags{}
	fs := newFlagSet(name, output)
	flags.register(fs)
	fs.StringVar(&flags.Input, "input", "", "Keyword estimate JSON file (- for stdin)")
	fs.Float64Var(&flags.PCBudget, "pc-budget", -1, "PC budget ceiling")
	fs.Float64Var(&flags.MobileBudget, "mobile-budget", -1, "Mobile budget ceiling")
	fs.StringVar(&flags.Objective, "objective", "", "Objective: clicks or impressions (optimize only)")
	fs.StringVar(&flags.Format, "format", FormatTable, "Output format: table or json")
	fs.BoolVar(&flags.Save, "save", false, "Store the run in the database")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireInput(flags.Input, flags.Format); err != nil {
		return nil, err
	}
	return flags, nil
}

// AnalyzeFlags configure the analyze command.
type AnalyzeFlags struct {
	CommonFlags
	Input      string
	PCRank     int
	MobileRank int
	Format     string
	Save       bool
}

// ParseAnalyzeFlags parses flags for the analyze command.
func ParseAnalyzeFlags(args []string, output io.Writer) (*AnalyzeFlags, error) {
	flags := &AnalyzeFlags{}
	fs := newFlagSet("analyze", output)
	flags.register(fs)
	fs.StringVar(&flags.Input, "input", "", "Keyword estimate JSON file (- for stdin)")
	fs.IntVar(&flags.PCRank, "pc-rank", 1, "Rank applied to every PC keyword")
	fs.IntVar(&flags.MobileRank, "mobile-rank", 1, "Rank applied to every Mobile keyword")
	fs.StringVar(&flags.Format, "format", FormatTable, "Output format: table or json")
	fs.BoolVar(&flags.Save, "save", false, "Store the run in the database")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireInput(flags.Input, flags.Format); err != nil {
		return nil, err
	}
	return flags, nil
}

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	CommonFlags
	Port int
}

// ParseServeFlags parses command line flags for the serve command.
// Port 0 keeps the configured port.
func ParseServeFlags(args []string, output io.Writer) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := newFlagSet("serve", output)
	flags.register(fs)
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (default: server.port from config)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

func newFlagSet(name string, output io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	return fs
}

func requireInput(input, format string) error {
	if input == "" {
		return fmt.Errorf("-input is required")
	}
	if format != FormatTable && format != FormatJSON {
		return fmt.Errorf("unknown format %q (want %s or %s)", format, FormatTable, FormatJSON)
	}
	return nil
}
