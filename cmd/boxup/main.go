package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/altekin/boxup/internal/cli"
	"github.com/altekin/boxup/internal/cli/config"
	"github.com/altekin/boxup/internal/host"
	"github.com/altekin/boxup/internal/logx"
	"github.com/altekin/boxup/internal/provision"
	"github.com/altekin/boxup/internal/servers"
	"github.com/altekin/boxup/internal/sshx"
	"github.com/altekin/boxup/internal/summary"
	"github.com/altekin/boxup/internal/version"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := cli.Parse(args)
	if err != nil {
		printErr(err)
		cli.PrintHelp()
		return cli.ExitUsage
	}

	if opts.Help {
		cli.PrintHelp()
		return cli.ExitSuccess
	}
	if opts.VersionOnly {
		fmt.Printf("boxup v%s\n", version.AppVersion)
		return cli.ExitSuccess
	}

	store, err := servers.NewStore(strings.TrimSpace(os.Getenv("BOXUP_SERVERS_DIR")))
	if err != nil {
		printErr(fmt.Errorf("initialize server store: %w", err))
		return cli.ExitFailure
	}

	if opts.ListServers {
		names, err := store.List()
		if err != nil {
			printErr(err)
			return cli.ExitFailure
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return cli.ExitSuccess
	}

	isTTY := isTerminalFile(os.Stdin) && isTerminalFile(os.Stdout)
	log := logx.New()
	if opts.NoColor || !isTTY {
		log.DisableColor()
	}

	h, closeHost, err := selectHost(opts, store, isTTY)
	if err != nil {
		printErr(err)
		return cli.ExitFailure
	}
	defer closeHost()

	privileged, err := h.Privileged()
	if err != nil {
		printErr(err)
		return cli.ExitFailure
	}
	if !privileged {
		printErr(errors.New("boxup must run as root on the target host"))
		return cli.ExitFailure
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		printErr(err)
		return cli.ExitUsage
	}
	set := provision.DefaultSettings()
	set.Merge(cfg)

	svc := provision.NewService(h, log, set)
	svc.ConfirmBench = benchGate(opts, isTTY)

	if opts.SummaryOnly {
		t := svc.DetectTarget()
		report := summary.Collect(h, t.Family, t.Hostname, t.KernelRelease, set.ProxyDir, set.ForwarderDir)
		fmt.Print(report.Render(opts.NoColor || !isTTY))
		return cli.ExitSuccess
	}

	if err := svc.Run(); err != nil {
		printErr(err)
		return cli.ExitFailure
	}

	t := svc.Target
	report := summary.Collect(h, t.Family, t.Hostname, t.KernelRelease, set.ProxyDir, set.ForwarderDir)
	fmt.Println()
	fmt.Print(report.Render(opts.NoColor || !isTTY))

	if opts.SaveName != "" && opts.Host != "" {
		saved, err := store.Save(servers.Server{
			Name:    opts.SaveName,
			Host:    opts.Host,
			SSHPort: opts.SSHPort,
			SSHUser: opts.SSHUser,
		})
		if err != nil {
			log.Warnf("save server profile: %v", err)
		} else {
			log.Infof("saved server profile %q", saved.Name)
		}
	}
	return cli.ExitSuccess
}

// selectHost resolves the provisioning target: localhost by default, an
// SSH host when --host or --server is set.
func selectHost(opts cli.Options, store *servers.Store, isTTY bool) (host.Host, func(), error) {
	if !opts.Remote() {
		return host.NewLocal(), func() {}, nil
	}

	target := sshx.Target{Host: opts.Host, Port: opts.SSHPort, User: opts.SSHUser, Password: opts.SSHPassword}
	if opts.ServerName != "" {
		srv, err := store.Load(opts.ServerName)
		if err != nil {
			return nil, nil, err
		}
		if target.Host == "" {
			target.Host = srv.Host
		}
		if srv.SSHPort > 0 && opts.SSHPort == cli.DefaultOptions().SSHPort {
			target.Port = srv.SSHPort
		}
		if srv.SSHUser != "" && opts.SSHUser == cli.DefaultOptions().SSHUser {
			target.User = srv.SSHUser
		}
	}
	if strings.TrimSpace(target.Host) == "" {
		return nil, nil, errors.New("no host provided. use --host or --server")
	}

	if target.Password == "" {
		if !isTTY {
			return nil, nil, errors.New("--ssh-password is required outside a terminal")
		}
		pw, err := promptPassword(target.User, target.Host)
		if err != nil {
			return nil, nil, err
		}
		target.Password = pw
	}

	client, err := sshx.Connect(target)
	if err != nil {
		return nil, nil, fmt.Errorf("ssh connect: %w", err)
	}
	return client, func() { client.Close() }, nil
}

func promptPassword(user, hostname string) (string, error) {
	pw := ""
	err := huh.NewInput().
		Title(fmt.Sprintf("SSH password for %s@%s", user, hostname)).
		EchoMode(huh.EchoModePassword).
		Value(&pw).
		Run()
	if err != nil {
		return "", err
	}
	return pw, nil
}

// benchGate decides the benchmark step before any provisioning starts, so
// the run never blocks mid-sequence outside a terminal.
func benchGate(opts cli.Options, isTTY bool) func() bool {
	switch {
	case opts.SkipBench:
		return func() bool { return false }
	case opts.Bench || opts.Yes:
		return func() bool { return true }
	case !isTTY:
		return func() bool { return false }
	}
	return func() bool {
		run := false
		err := huh.NewConfirm().
			Title("Run the yabs.sh bandwidth benchmark now?").
			Description("takes several minutes and saturates the network").
			Value(&run).
			Run()
		if err != nil {
			return false
		}
		return run
	}
}

func printErr(err error) {
	fmt.Fprintf(os.Stderr, "[boxup] ERROR: %v\n", err)
}

func isTerminalFile(f *os.File) bool {
	fd := f.Fd()
	if fd > uintptr(^uint(0)>>1) {
		return false
	}
	return term.IsTerminal(int(fd))
}
