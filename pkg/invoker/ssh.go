package invoker

import (
	"fmt"
	"strings"

	"github.com/sfreiberg/simplessh"
	log "github.com/sirupsen/logrus"
)

// SSHInvoker runs the build command on a remote host. Concurrent
// comparisons get one host/working-directory pair each so their filesystem
// builds never interfere.
type SSHInvoker struct {
	Host     string
	Username string

	Program      string
	BaseArgs     []string
	BuildTargets []string
	CleanTargets []string
	WorkingDir   string

	client *simplessh.Client
}

// Connect establishes the SSH session via the local agent. Must be called
// before Build or Clean.
func (s *SSHInvoker) Connect() error {
	client, err := simplessh.ConnectWithAgent(s.Host, s.Username)
	if err != nil {
		return fmt.Errorf("connect to %s@%s: %w", s.Username, s.Host, err)
	}

	s.client = client
	return nil
}

func (s *SSHInvoker) Close() {
	if s.client != nil {
		s.client.Close()
	}
}

func (s *SSHInvoker) Build() error {
	return s.run(s.BuildTargets)
}

func (s *SSHInvoker) Clean() error {
	if err := s.run(s.CleanTargets); err != nil {
		return err
	}

	// Same settling as the local invoker, on the remote filesystem.
	if _, err := s.client.Exec("sync"); err != nil {
		return fmt.Errorf("remote sync: %w", err)
	}
	return nil
}

func (s *SSHInvoker) run(targets []string) error {
	commandLine := fmt.Sprintf("cd %s && %s %s",
		s.WorkingDir, s.Program, strings.Join(append(append([]string{}, s.BaseArgs...), targets...), " "))

	out, err := s.client.Exec(commandLine)
	for _, line := range strings.Split(string(out), "\n") {
		if line != "" {
			log.Debug(line)
		}
	}
	if err != nil {
		return fmt.Errorf("remote %q: %w", commandLine, err)
	}

	return nil
}
