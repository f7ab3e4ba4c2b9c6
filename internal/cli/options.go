package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/pflag"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

type Options struct {
	Host        string
	SSHPort     int
	SSHUser     string
	SSHPassword string
	ServerName  string
	SaveName    string
	ListServers bool
	ConfigPath  string
	Bench       bool
	SkipBench   bool
	Yes         bool
	SummaryOnly bool
	NoColor     bool
	VersionOnly bool
	Help        bool
	RawArgs     []string
}

func DefaultOptions() Options {
	return Options{
		SSHPort: 22,
		SSHUser: "root",
	}
}

func Parse(args []string) (Options, error) {
	opts := DefaultOptions()
	fs := pflag.NewFlagSet("boxup", pflag.ContinueOnError)
	fs.SetInterspersed(false)

	fs.StringVar(&opts.Host, "host", opts.Host, "Provision this host over SSH instead of localhost")
	fs.IntVar(&opts.SSHPort, "ssh-port", opts.SSHPort, "SSH port")
	fs.StringVar(&opts.SSHUser, "ssh-user", opts.SSHUser, "SSH user")
	fs.StringVar(&opts.SSHPassword, "ssh-password", "", "SSH password")
	fs.StringVar(&opts.ServerName, "server", "", "Use saved server profile")
	fs.StringVar(&opts.SaveName, "save", "", "Save the target as a profile after the run")
	fs.BoolVar(&opts.ListServers, "list-servers", false, "List saved server profiles")
	fs.StringVar(&opts.ConfigPath, "config", "", "YAML file overriding URLs/mirrors/packages")
	fs.BoolVar(&opts.Bench, "bench", false, "Run the benchmark step without prompting")
	fs.BoolVar(&opts.SkipBench, "skip-bench", false, "Skip the benchmark step without prompting")
	fs.BoolVar(&opts.Yes, "yes", false, "Assume yes on confirmations")
	fs.BoolVar(&opts.SummaryOnly, "summary-only", false, "Print the status report and exit")
	fs.BoolVar(&opts.NoColor, "no-color", false, "Disable colored output")
	fs.BoolVar(&opts.VersionOnly, "version", false, "Print version")
	fs.BoolVarP(&opts.Help, "help", "h", false, "Show this help")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.RawArgs = fs.Args()
	if len(opts.RawArgs) > 0 {
		return opts, fmt.Errorf("unknown arguments: %v", opts.RawArgs)
	}
	if opts.Bench && opts.SkipBench {
		return opts, errors.New("use either --bench or --skip-bench, not both")
	}
	return opts, nil
}

// Remote reports whether the run targets an SSH host rather than localhost.
func (o Options) Remote() bool {
	return o.Host != "" || o.ServerName != ""
}

func PrintHelp() {
	fmt.Print(`boxup: provision a Linux host with hysteria2 + realm, BBR tuning and geo rule data.

Usage:
  boxup [options]

Options:
  --host <ip-or-hostname>       Provision a remote host over SSH (default: localhost)
  --ssh-port <port>             SSH port (default: 22)
  --ssh-user <username>         SSH user (default: root; must be root on the target)
  --ssh-password <password>     SSH password (prompted when omitted in a terminal)
  --server <name>               Use saved server profile from ~/.boxup/servers
  --save <name>                 Save host/port/user as a profile after the run
  --list-servers                List saved server profiles and exit
  --config <path>               YAML file overriding mirrors, URLs and packages
  --bench                       Run the bandwidth benchmark without prompting
  --skip-bench                  Skip the benchmark without prompting
  --yes                         Assume yes on confirmations
  --summary-only                Recompute and print the status report, change nothing
  --no-color                    Disable colored output
  --version                     Print boxup version and exit
  -h, --help                    Show this help

Environment:
  BOXUP_SERVERS_DIR             Override server profile directory
`)
}
