package invoker

import (
	"bufio"
	"fmt"
	"io"
	"os/exec"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// ProcessInvoker runs the configured build command as a subprocess in a
// fixed working directory. Build and clean share the program and base
// arguments; clean substitutes the clean targets for the build targets.
type ProcessInvoker struct {
	Program      string
	BaseArgs     []string
	BuildTargets []string
	CleanTargets []string
	WorkingDir   string

	// Timeout bounds one invocation. Zero means unbounded, in which case a
	// hung build blocks the harness indefinitely.
	Timeout time.Duration
}

func (p *ProcessInvoker) Build() error {
	return p.run(p.BuildTargets)
}

func (p *ProcessInvoker) Clean() error {
	if err := p.run(p.CleanTargets); err != nil {
		return err
	}

	// Flush the removed build outputs so the next cycle starts from settled
	// filesystem state.
	unix.Sync()
	return nil
}

func (p *ProcessInvoker) run(targets []string) error {
	args := append(append([]string{}, p.BaseArgs...), targets...)
	cmd := exec.Command(p.Program, args...)
	cmd.Dir = p.WorkingDir

	stdout, _ := cmd.StdoutPipe()
	stderr, _ := cmd.StderrPipe()

	if err := cmd.Start(); err != nil {
		return err
	}

	go logSubprocessOutput(stdout)
	go logSubprocessOutput(stderr)

	if p.Timeout == 0 {
		return cmd.Wait()
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		return err
	case <-time.After(p.Timeout):
		if err := cmd.Process.Kill(); err != nil {
			log.Error("Failed to kill timed-out process: ", err)
		}
		<-done
		return fmt.Errorf("%s %v timed out after %v", p.Program, args, p.Timeout)
	}
}

func logSubprocessOutput(pipe io.ReadCloser) {
	scanner := bufio.NewScanner(pipe)
	for scanner.Scan() {
		log.Debug(scanner.Text())
	}
}
