// Package sh is an interactive shell which plays the gesture frontend:
// it sends L0 input lines to a running bridge.
package sh

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	fx "github.com/robotalks/twin.go/pkg/framework"
	"github.com/robotalks/twin.go/pkg/l0/msgs"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	Target      string

	Shell  *ishell.Shell
	Sender Sender
	Sleep  fx.Sleeper
	// Dialer connects Target. It defaults to Dial.
	Dialer func(target string) (Sender, error)
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "

	// DefaultSweepSteps is the number of moves in a sweep.
	DefaultSweepSteps = 20
	// DefaultSweepDelay is the pause between sweep moves.
	DefaultSweepDelay = 50 * time.Millisecond
)

var (
	// flags

	evalOnly bool
	target   = "serial:///dev/ttyACM0"

	commands = []*ishell.Cmd{
		&ConnectCmd,
		&DisconnectCmd,
		&PointCmd,
		&ReleaseCmd,
		&RawCmd,
		&SweepCmd,
	}
)

func init() {
	if val := os.Getenv("TWIN_TARGET"); val != "" {
		target = val
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.StringVar(&target, "target", target, "Bridge input URL (serial://, mqtt://, ws://).")
}

// New creates a new shell.
func New(target string) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		Target:      target,
		Shell:       ishell.New(),
		Sleep:       time.Sleep,
		Dialer:      Dial,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Sender == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// Connect replaces the current connection with one to target.
func (s *Shell) Connect(target string) error {
	sender, err := s.Dialer(target)
	if err != nil {
		return err
	}
	s.Disconnect()
	s.Sender, s.Target = sender, target
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", target))
	return nil
}

// Disconnect closes the current connection.
func (s *Shell) Disconnect() {
	if s.Sender != nil {
		s.Sender.Close()
		s.Sender = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// SendInput sends one input as a line.
func (s *Shell) SendInput(in msgs.Input) error {
	return s.Sender.Send(in.Format())
}

// Sweep moves from full left to full right in steps, then releases.
func (s *Shell) Sweep(steps int, delay time.Duration) error {
	for i := 0; i <= steps; i++ {
		x := -1 + 2*float64(i)/float64(steps)
		if err := s.SendInput(msgs.Input{X: x, Active: true}); err != nil {
			return err
		}
		s.Sleep(delay)
	}
	return s.SendInput(msgs.Input{})
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.Target != "" {
		if err := s.Connect(s.Target); err != nil {
			log.Fatalf("connect %q failed: %v", s.Target, err)
		}
		defer s.Disconnect()
	}
	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// ConnectCmd connects to a bridge.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "URL",
		Func: func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("URL expected"))
				return
			}
			if err := ShellFrom(c).Connect(c.Args[0]); err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects from the bridge.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}

	// PointCmd sends an active input.
	PointCmd = ishell.Cmd{
		Name:    "point",
		Aliases: []string{"p"},
		Help:    "X (-1 left .. 1 right)",
		Func: MustBeConnected(func(c *ishell.Context) {
			if len(c.Args) != 1 {
				c.Err(fmt.Errorf("X expected"))
				return
			}
			x, err := strconv.ParseFloat(c.Args[0], 64)
			if err != nil {
				c.Err(err)
				return
			}
			if err := ShellFrom(c).SendInput(msgs.Input{X: x, Active: true}); err != nil {
				c.Err(err)
			}
		}),
	}

	// ReleaseCmd sends an inactive input.
	ReleaseCmd = ishell.Cmd{
		Name:    "release",
		Aliases: []string{"r"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			if err := ShellFrom(c).SendInput(msgs.Input{}); err != nil {
				c.Err(err)
			}
		}),
	}

	// RawCmd sends arbitrary text as one line.
	RawCmd = ishell.Cmd{
		Name: "raw",
		Help: "LINE",
		Func: MustBeConnected(func(c *ishell.Context) {
			if err := ShellFrom(c).Sender.Send(strings.Join(c.Args, " ")); err != nil {
				c.Err(err)
			}
		}),
	}

	// SweepCmd sweeps from left to right.
	SweepCmd = ishell.Cmd{
		Name: "sweep",
		Help: "[STEPS] [DELAY_MS]",
		Func: MustBeConnected(func(c *ishell.Context) {
			steps, delay := DefaultSweepSteps, DefaultSweepDelay
			if len(c.Args) > 0 {
				n, err := strconv.Atoi(c.Args[0])
				if err != nil || n <= 0 {
					c.Err(fmt.Errorf("invalid steps %q", c.Args[0]))
					return
				}
				steps = n
			}
			if len(c.Args) > 1 {
				ms, err := strconv.Atoi(c.Args[1])
				if err != nil || ms < 0 {
					c.Err(fmt.Errorf("invalid delay %q", c.Args[1]))
					return
				}
				delay = time.Duration(ms) * time.Millisecond
			}
			if err := ShellFrom(c).Sweep(steps, delay); err != nil {
				c.Err(err)
			}
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(target).Run(flag.Args()...)
}
