// Package provision runs the ordered installation steps against a host.
// Each step declares whether its failure aborts the run or degrades to a
// warning; the sequencer enforces that policy.
package provision

import (
	"fmt"
	"strings"
	"time"

	"github.com/altekin/boxup/internal/fetch"
	"github.com/altekin/boxup/internal/host"
	"github.com/altekin/boxup/internal/kernel"
	"github.com/altekin/boxup/internal/logx"
	"github.com/altekin/boxup/internal/platform"
)

type Policy int

const (
	// Fatal aborts the whole run when the step errors.
	Fatal Policy = iota
	// Warn logs the error and lets the run continue.
	Warn
)

type Step struct {
	Name   string
	Policy Policy
	Run    func() error
}

// Target is the immutable description of the machine being provisioned,
// derived once before the first step and threaded to all of them.
type Target struct {
	Family        platform.Family
	Hostname      string
	KernelRelease string
}

type Service struct {
	H      host.Host
	Log    *logx.Logger
	Fetch  *fetch.Client
	Set    Settings
	Target Target

	// ConfirmBench decides the optional benchmark step; the CLI wires it
	// to flags or an interactive confirm. Nil means no.
	ConfirmBench func() bool

	tuner    *kernel.Tuner
	sleep    func(time.Duration)
	tmpFiles []string
}

func NewService(h host.Host, log *logx.Logger, set Settings) *Service {
	return &Service{
		H:     h,
		Log:   log,
		Fetch: fetch.New(),
		Set:   set,
		tuner: kernel.NewTuner(),
		sleep: time.Sleep,
	}
}

// DetectTarget classifies the host and captures hostname/kernel once.
func (s *Service) DetectTarget() Target {
	fam := platform.Detect(s.H)
	name, err := s.H.Hostname()
	if err != nil {
		name = "unknown"
	}
	release := ""
	if out, err := s.H.Run("uname -r"); err == nil {
		release = strings.TrimSpace(out)
	}
	t := Target{Family: fam, Hostname: name, KernelRelease: release}
	s.Target = t
	return t
}

func (s *Service) steps() []Step {
	return []Step{
		{Name: "prepare", Policy: Warn, Run: s.stepPrepare},
		{Name: "packages", Policy: Warn, Run: s.stepPackages},
		{Name: "kernel tuning", Policy: Warn, Run: s.stepKernel},
		{Name: "install hysteria2", Policy: Fatal, Run: s.stepInstallProxy},
		{Name: "install realm", Policy: Warn, Run: s.stepInstallForwarder},
		{Name: "rule data", Policy: Warn, Run: s.stepRuleData},
		{Name: "patch config", Policy: Warn, Run: s.stepPatchConfig},
		{Name: "editor defaults", Policy: Warn, Run: s.stepEditor},
		{Name: "benchmark", Policy: Warn, Run: s.stepBenchmark},
		{Name: "cleanup", Policy: Warn, Run: s.stepCleanup},
	}
}

// Run executes the full sequence. The returned error is the fatal step
// failure, if any; warnings have already been logged.
func (s *Service) Run() error {
	t := s.DetectTarget()
	if t.Family == platform.Unknown {
		s.Log.Warnf("unrecognized OS; package and service steps will be skipped where they cannot proceed")
	}
	s.Log.Infof("target: %s (%s, kernel %s) on %s", t.Hostname, t.Family, t.KernelRelease, s.H.Label())

	return s.runSteps(s.steps())
}

func (s *Service) runSteps(steps []Step) error {
	for _, st := range steps {
		s.Log.Step(st.Name)
		err := st.Run()
		if err == nil {
			continue
		}
		if st.Policy == Fatal {
			return fmt.Errorf("%s: %w", st.Name, err)
		}
		s.Log.Warnf("%s: %v", st.Name, err)
	}
	return nil
}

// track registers a downloaded temp file for the cleanup step.
func (s *Service) track(path string) {
	s.tmpFiles = append(s.tmpFiles, path)
}

func (s *Service) tmpPath(tag string) string {
	return fmt.Sprintf("/tmp/boxup-%s-%d.sh", tag, time.Now().UnixNano())
}
