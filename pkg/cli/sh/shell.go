package sh

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mcu.go/pkg/bridge"
	"github.com/robotalks/mcu.go/pkg/env"
	fx "github.com/robotalks/mcu.go/pkg/framework"
	"github.com/robotalks/mcu.go/pkg/uart"
)

// Sim is an in-process simulated firmware with one port. Its interrupts
// are serviced synchronously by the commands, so output is deterministic.
type Sim struct {
	Loop    *fx.Loop
	Port    *uart.Port
	Wire    *uart.SimHardware
	Reader  *uart.FrameReader
	Writer  *uart.FrameWriter
	HostSeq uart.FrameSeq
}

// NewSim creates the simulation.
func NewSim(conf *uart.Config) (*Sim, error) {
	s := &Sim{
		Loop:    fx.NewLoop(),
		Wire:    uart.NewSimHardware(),
		HostSeq: uart.FrameSeq(0).Next(),
	}
	port, err := conf.NewPort(s.Wire)
	if err != nil {
		return nil, err
	}
	if s.Reader, err = uart.NewFrameReader(port, conf.RxBufferSize); err != nil {
		return nil, err
	}
	s.Port, s.Writer = port, uart.NewFrameWriter(port)
	port.AddToLoop(s.Loop)
	return s, nil
}

// Service runs all interrupt handlers once.
func (s *Sim) Service() {
	s.Loop.ServiceAll(context.Background())
}

// HostSend puts a frame on the wire towards the firmware.
func (s *Sim) HostSend(code byte, data []byte) (uart.Frame, error) {
	f := uart.Frame{Seq: s.HostSeq, Code: code, Data: data}
	b, err := f.Bytes()
	if err != nil {
		return f, err
	}
	s.HostSeq = s.HostSeq.Next()
	// the hardware FIFO is shallow, the receive interrupt drains it
	for len(b) > 0 {
		n := s.Wire.HostWrite(b)
		s.Service()
		if n == 0 {
			// receive interrupt disabled
			return f, uart.ErrBufferOverflow
		}
		b = b[n:]
	}
	return f, nil
}

// Receive decodes the frames the firmware received so far.
func (s *Sim) Receive() ([]uart.Frame, error) {
	s.Service()
	_, err := s.Reader.Poll()
	frames := []uart.Frame{}
	for {
		f, ok := s.Reader.Next()
		if !ok {
			break
		}
		frames = append(frames, f)
	}
	return frames, err
}

// HostDrain takes everything the firmware transmitted.
func (s *Sim) HostDrain() []byte {
	var data []byte
	buf := make([]byte, uart.SimFIFODepth)
	for {
		s.Service()
		n := s.Wire.HostRead(buf)
		if n == 0 {
			return data
		}
		data = append(data, buf[:n]...)
	}
}

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool

	Shell  *ishell.Shell
	Sim    *Sim
	Remote *Remote
	state  map[string]interface{}
}

// Remote is a connection to a port served by uartsim.
type Remote struct {
	URL    string
	Client *bridge.Client

	cancel func()
	doneCh chan struct{}
}

const (
	shellKey = "$shell"
	prompt   = "mcu > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&SendCmd,
		&RecvCmd,
		&ReplyCmd,
		&WireCmd,
		&StatsCmd,
		&ConnectCmd,
		&DisconnectCmd,
		&DoCmd,
		&EventsCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell with a simulated port.
func New(conf *uart.Config) (*Shell, error) {
	sim, err := NewSim(conf)
	if err != nil {
		return nil, err
	}
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell: ishell.New(),
		Sim:   sim,
		state: make(map[string]interface{}),
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(prompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s, nil
}

// RequestTimeout limits the wait for a reply from a remote port.
var RequestTimeout = 2 * time.Second

// Connect connects a remote port.
func (s *Shell) Connect(conf *env.Config) error {
	conn, err := conf.Dial()
	if err != nil {
		return err
	}
	s.Disconnect()
	ctx, cancel := context.WithCancel(context.Background())
	r := &Remote{
		URL:    conf.EndpointURL,
		Client: bridge.NewClient(conn),
		cancel: cancel,
		doneCh: make(chan struct{}),
	}
	go func() {
		defer close(r.doneCh)
		if err := r.Client.Run(ctx); err != nil && err != context.Canceled {
			s.Shell.Printf("Disconnected %s: %v\n", r.URL, err)
		}
	}()
	s.Remote = r
	return nil
}

// Disconnect disconnects the remote port if connected.
func (s *Shell) Disconnect() {
	if r := s.Remote; r != nil {
		s.Remote = nil
		r.cancel()
		<-r.doneCh
	}
}

// MustBeConnected wraps command func requires a remote port.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Remote == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// State gets a value kept by command providers across commands,
// creating it with create on first use.
func (s *Shell) State(key string, create func() interface{}) interface{} {
	val, ok := s.state[key]
	if !ok {
		val = create()
		s.state[key] = val
	}
	return val
}

// Output prints v as JSON if requested, or using text otherwise.
func Output(c *ishell.Context, v interface{}, text string) {
	if !ShellFrom(c).OutputJSON {
		c.Println(text)
		return
	}
	out, err := json.Marshal(v)
	if err != nil {
		c.Err(err)
		return
	}
	c.Println(string(out))
}

// ParseBytes parses arguments as bytes. A number (decimal, 0x or 0b
// prefixed) is one byte, anything else contributes its characters.
func ParseBytes(args []string) []byte {
	var data []byte
	for _, arg := range args {
		if val, err := strconv.ParseUint(arg, 0, 8); err == nil {
			data = append(data, byte(val))
		} else {
			data = append(data, arg...)
		}
	}
	return data
}

// ParseCode parses a frame code argument.
func ParseCode(c *ishell.Context) (byte, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("CODE required"))
		return 0, false
	}
	val, err := strconv.ParseUint(c.Args[0], 0, 8)
	if err != nil {
		c.Err(fmt.Errorf("invalid CODE: %v", err))
		return 0, false
	}
	return byte(val), true
}

// FormatBytes prints bytes for display.
func FormatBytes(data []byte) string {
	if len(data) == 0 {
		return "(empty)"
	}
	return hex.EncodeToString(data) + " " + strconv.Quote(string(data))
}

// FormatFrame prints a frame for display.
func FormatFrame(f uart.Frame) string {
	return fmt.Sprintf("#%d code=0x%02x %s", f.Seq, f.Code, FormatBytes(f.Data))
}

// FormatFrames prints frames one per line, or none if there's no frame.
func FormatFrames(frames []uart.Frame, none string) string {
	if len(frames) == 0 {
		return none
	}
	lines := make([]string, len(frames))
	for n, f := range frames {
		lines[n] = FormatFrame(f)
	}
	return strings.Join(lines, "\n")
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	defer s.Disconnect()
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
	// SendCmd sends a frame from the host to the firmware.
	SendCmd = ishell.Cmd{
		Name:    "send",
		Aliases: []string{"s"},
		Help:    "CODE [DATA...]",
		Func: func(c *ishell.Context) {
			code, ok := ParseCode(c)
			if !ok {
				return
			}
			f, err := ShellFrom(c).Sim.HostSend(code, ParseBytes(c.Args[1:]))
			if err != nil {
				c.Err(err)
				return
			}
			Output(c, f, "sent "+FormatFrame(f))
		},
	}

	// RecvCmd lets the firmware decode received frames.
	RecvCmd = ishell.Cmd{
		Name:    "recv",
		Aliases: []string{"r"},
		Help:    "",
		Func: func(c *ishell.Context) {
			frames, err := ShellFrom(c).Sim.Receive()
			if err != nil {
				c.Err(err)
			}
			Output(c, frames, FormatFrames(frames, "no frame"))
		},
	}

	// ReplyCmd sends a frame from the firmware to the host.
	ReplyCmd = ishell.Cmd{
		Name:    "reply",
		Aliases: []string{"p"},
		Help:    "CODE [DATA...]",
		Func: func(c *ishell.Context) {
			code, ok := ParseCode(c)
			if !ok {
				return
			}
			if err := ShellFrom(c).Sim.Writer.WriteFrame(code, ParseBytes(c.Args[1:])); err != nil {
				c.Err(err)
				return
			}
			c.Println("OK")
		},
	}

	// WireCmd reads what the firmware transmitted on the wire.
	WireCmd = ishell.Cmd{
		Name:    "wire",
		Aliases: []string{"w"},
		Help:    "",
		Func: func(c *ishell.Context) {
			data := ShellFrom(c).Sim.HostDrain()
			Output(c, data, FormatBytes(data))
		},
	}

	// StatsCmd shows the statistics of the port.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "",
		Func: func(c *ishell.Context) {
			sim := ShellFrom(c).Sim
			stats := struct {
				Port   uart.Stats      `json:"port"`
				Frames uart.FrameStats `json:"frames"`
			}{sim.Port.Stats(), sim.Reader.Stats()}
			Output(c, stats, fmt.Sprintf("%+v\n%+v", stats.Port, stats.Frames))
		},
	}
)

var (
	// ConnectCmd connects a port served by uartsim.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"conn"},
		Help:    "ENDPOINT-URL [PORT-ID]",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("ENDPOINT-URL required"))
				return
			}
			conf := env.NewConfig()
			conf.EndpointURL = c.Args[0]
			if len(c.Args) > 1 {
				conf.PortID = c.Args[1]
			}
			if err := ShellFrom(c).Connect(conf); err != nil {
				c.Err(err)
				return
			}
			c.Println("Connected")
		},
	}

	// DisconnectCmd disconnects the remote port.
	DisconnectCmd = ishell.Cmd{
		Name: "disconnect",
		Help: "",
		Func: MustBeConnected(func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
			c.Println("Disconnected")
		}),
	}

	// DoCmd sends a request to the remote port and waits for the reply.
	DoCmd = ishell.Cmd{
		Name:    "do",
		Aliases: []string{"d"},
		Help:    "CODE [DATA...]",
		Func: MustBeConnected(func(c *ishell.Context) {
			code, ok := ParseCode(c)
			if !ok {
				return
			}
			ctx, cancel := context.WithTimeout(context.Background(), RequestTimeout)
			defer cancel()
			cmd := ShellFrom(c).Remote.Client.Do(code, ParseBytes(c.Args[1:]))
			r := cmd.Wait(ctx)
			if r.Err != nil {
				c.Err(r.Err)
				return
			}
			reply := uart.Frame{Seq: cmd.RequestSeq(), Code: r.Code, Data: r.Data}
			Output(c, reply, "reply "+FormatFrame(reply))
		}),
	}

	// EventsCmd shows the events received from the remote port.
	EventsCmd = ishell.Cmd{
		Name:    "events",
		Aliases: []string{"ev"},
		Help:    "",
		Func: MustBeConnected(func(c *ishell.Context) {
			events := []uart.Frame{}
			for ch := ShellFrom(c).Remote.Client.EventChan(); ; {
				select {
				case f := <-ch:
					events = append(events, f)
					continue
				default:
				}
				break
			}
			Output(c, events, FormatFrames(events, "no event"))
		}),
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	s, err := New(uart.NewConfig())
	if err != nil {
		log.Fatalln(err)
	}
	s.Run(flag.Args()...)
}
