package containers

import (
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/mcu.go/pkg/cli/sh"
	"github.com/robotalks/mcu.go/pkg/lists"
)

const stateKey = "containers"

var arenaSize = 64

func init() {
	flag.IntVar(&arenaSize, "arena", arenaSize, "Size in bytes of each container of the shell.")
}

// Containers are the containers the shell plays with.
type Containers struct {
	FIFO  *lists.ByteFIFO
	LIFO  *lists.ByteLIFO
	Queue *lists.ObjectFIFO
	Stack *lists.ObjectLIFO
	List  *lists.LinkedList[string]
}

// Info describes the usage of a container.
type Info struct {
	Size      int `json:"size"`
	Used      int `json:"used"`
	Available int `json:"available"`
	Objects   int `json:"objects,omitempty"`
}

func (i Info) String() string {
	s := fmt.Sprintf("size=%d used=%d available=%d", i.Size, i.Used, i.Available)
	if i.Objects > 0 {
		s += fmt.Sprintf(" objects=%d", i.Objects)
	}
	return s
}

// New creates all containers with an arena of size bytes.
func New(size int) (c *Containers, err error) {
	c = &Containers{List: lists.NewLinkedList[string](nil)}
	if c.FIFO, err = lists.NewByteFIFO(size); err != nil {
		return nil, err
	}
	if c.LIFO, err = lists.NewByteLIFO(size); err != nil {
		return nil, err
	}
	if c.Queue, err = lists.NewObjectFIFO(size); err != nil {
		return nil, err
	}
	if c.Stack, err = lists.NewObjectLIFO(size); err != nil {
		return nil, err
	}
	return c, nil
}

// From gets the containers of the shell, creating them on first use.
func From(c *ishell.Context) (*Containers, error) {
	var err error
	val := sh.ShellFrom(c).State(stateKey, func() interface{} {
		var cs *Containers
		if cs, err = New(arenaSize); err != nil {
			return nil
		}
		return cs
	})
	if cs, ok := val.(*Containers); ok && cs != nil {
		return cs, nil
	}
	if err == nil {
		err = lists.ErrOutOfMemory
	}
	return nil, err
}

// WithContainers wraps a command func which works on the containers.
func WithContainers(fn func(*ishell.Context, *Containers)) func(*ishell.Context) {
	return func(c *ishell.Context) {
		cs, err := From(c)
		if err != nil {
			c.Err(err)
			return
		}
		fn(c, cs)
	}
}

func parseCount(c *ishell.Context, def int) (int, bool) {
	if len(c.Args) < 1 {
		return def, true
	}
	n, err := strconv.Atoi(c.Args[0])
	if err != nil || n < 0 {
		c.Err(fmt.Errorf("invalid COUNT: %s", c.Args[0]))
		return 0, false
	}
	return n, true
}

func requireData(c *ishell.Context) ([]byte, bool) {
	if len(c.Args) < 1 {
		c.Err(fmt.Errorf("DATA required"))
		return nil, false
	}
	return sh.ParseBytes(c.Args), true
}

func pushed(c *ishell.Context, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	c.Println("OK")
}

func popped(c *ishell.Context, data []byte, err error) {
	if err != nil {
		c.Err(err)
		return
	}
	sh.Output(c, data, sh.FormatBytes(data))
}

var (
	// FIFOPushCmd pushes bytes into the byte FIFO.
	FIFOPushCmd = ishell.Cmd{
		Name:    "fifo.push",
		Aliases: []string{"fpush"},
		Help:    "DATA...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			if data, ok := requireData(c); ok {
				pushed(c, cs.FIFO.PushBlock(data))
			}
		}),
	}

	// FIFOPopCmd pops bytes from the byte FIFO.
	FIFOPopCmd = ishell.Cmd{
		Name:    "fifo.pop",
		Aliases: []string{"fpop"},
		Help:    "[COUNT]",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			if n, ok := parseCount(c, 1); ok {
				data := make([]byte, n)
				popped(c, data, cs.FIFO.PopBlock(data))
			}
		}),
	}

	// FIFOInfoCmd shows the usage of the byte FIFO.
	FIFOInfoCmd = ishell.Cmd{
		Name:    "fifo.info",
		Aliases: []string{"finfo"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			info := Info{Size: cs.FIFO.Size(), Used: cs.FIFO.DataSize(), Available: cs.FIFO.AvailableSize()}
			sh.Output(c, info, info.String())
		}),
	}

	// LIFOPushCmd pushes bytes onto the byte LIFO, the last one on top.
	LIFOPushCmd = ishell.Cmd{
		Name:    "lifo.push",
		Aliases: []string{"lpush"},
		Help:    "DATA...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			if data, ok := requireData(c); ok {
				pushed(c, cs.LIFO.PushBlock(data))
			}
		}),
	}

	// LIFORPushCmd pushes bytes onto the byte LIFO, the first one on top.
	LIFORPushCmd = ishell.Cmd{
		Name:    "lifo.rpush",
		Aliases: []string{"lrpush"},
		Help:    "DATA...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			if data, ok := requireData(c); ok {
				pushed(c, cs.LIFO.RPushBlock(data))
			}
		}),
	}

	// LIFOPopCmd pops bytes from the byte LIFO, top first.
	LIFOPopCmd = ishell.Cmd{
		Name:    "lifo.pop",
		Aliases: []string{"lpop"},
		Help:    "[COUNT]",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			if n, ok := parseCount(c, 1); ok {
				data := make([]byte, n)
				popped(c, data, cs.LIFO.PopBlock(data))
			}
		}),
	}

	// LIFORPopCmd pops bytes from the byte LIFO in storage order.
	LIFORPopCmd = ishell.Cmd{
		Name:    "lifo.rpop",
		Aliases: []string{"lrpop"},
		Help:    "[COUNT]",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			if n, ok := parseCount(c, 1); ok {
				data := make([]byte, n)
				popped(c, data, cs.LIFO.RPopBlock(data))
			}
		}),
	}

	// LIFOInfoCmd shows the usage of the byte LIFO.
	LIFOInfoCmd = ishell.Cmd{
		Name:    "lifo.info",
		Aliases: []string{"linfo"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			info := Info{Size: cs.LIFO.Size(), Used: cs.LIFO.DataSize(), Available: cs.LIFO.AvailableSize()}
			sh.Output(c, info, info.String())
		}),
	}

	// QueuePushCmd pushes one object into the object FIFO.
	QueuePushCmd = ishell.Cmd{
		Name:    "queue.push",
		Aliases: []string{"qpush"},
		Help:    "DATA...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			_, err := cs.Queue.Push(sh.ParseBytes(c.Args))
			pushed(c, err)
		}),
	}

	// QueuePopCmd pops the oldest object from the object FIFO.
	QueuePopCmd = ishell.Cmd{
		Name:    "queue.pop",
		Aliases: []string{"qpop"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			obj, ok := cs.Queue.Pop()
			if !ok {
				popped(c, nil, lists.ErrNotEnoughData)
				return
			}
			popped(c, obj, nil)
		}),
	}

	// QueueListCmd shows the objects in the object FIFO, oldest first.
	QueueListCmd = ishell.Cmd{
		Name:    "queue.list",
		Aliases: []string{"qls"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			objs := [][]byte{}
			var lines []string
			cs.Queue.Each(func(obj []byte) bool {
				objs = append(objs, append([]byte(nil), obj...))
				lines = append(lines, sh.FormatBytes(obj))
				return true
			})
			sh.Output(c, objs, strings.Join(lines, "\n"))
		}),
	}

	// QueueInfoCmd shows the usage of the object FIFO.
	QueueInfoCmd = ishell.Cmd{
		Name:    "queue.info",
		Aliases: []string{"qinfo"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			info := Info{
				Size:      cs.Queue.Size(),
				Used:      cs.Queue.AllocatedSize(),
				Available: cs.Queue.AvailableSize(),
				Objects:   cs.Queue.ObjectNb(),
			}
			sh.Output(c, info, info.String())
		}),
	}

	// StackPushCmd pushes one object onto the object LIFO.
	StackPushCmd = ishell.Cmd{
		Name:    "stack.push",
		Aliases: []string{"spush"},
		Help:    "DATA...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			_, err := cs.Stack.Push(sh.ParseBytes(c.Args))
			pushed(c, err)
		}),
	}

	// StackPopCmd pops the top object from the object LIFO.
	StackPopCmd = ishell.Cmd{
		Name:    "stack.pop",
		Aliases: []string{"spop"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			obj, ok := cs.Stack.Pop()
			if !ok {
				popped(c, nil, lists.ErrNotEnoughData)
				return
			}
			popped(c, obj, nil)
		}),
	}

	// StackInfoCmd shows the usage of the object LIFO.
	StackInfoCmd = ishell.Cmd{
		Name:    "stack.info",
		Aliases: []string{"sinfo"},
		Help:    "",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			info := Info{
				Size:      cs.Stack.Size(),
				Used:      cs.Stack.AllocatedSize(),
				Available: cs.Stack.AvailableSize(),
				Objects:   cs.Stack.ObjectNb(),
			}
			sh.Output(c, info, info.String())
		}),
	}

	// ListAddCmd adds words to the linked list, keeping it sorted.
	ListAddCmd = ishell.Cmd{
		Name:    "list.add",
		Aliases: []string{"ladd"},
		Help:    "WORD...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			for _, word := range c.Args {
				cs.List.AddSorted(word, func(a, b string) bool { return a < b })
			}
			c.Println("OK")
		}),
	}

	// ListRemoveCmd removes every occurrence of words from the linked list.
	ListRemoveCmd = ishell.Cmd{
		Name:    "list.rm",
		Aliases: []string{"lrm"},
		Help:    "WORD...",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			var removed int
			for _, word := range c.Args {
				removed += cs.List.RemoveAllPtr(word)
			}
			sh.Output(c, removed, fmt.Sprintf("%d removed", removed))
		}),
	}

	// ListShowCmd shows the words in the linked list.
	ListShowCmd = ishell.Cmd{
		Name:    "list.show",
		Aliases: []string{"lls"},
		Help:    "[reverse]",
		Func: WithContainers(func(c *ishell.Context, cs *Containers) {
			words := []string{}
			collect := func(word string) { words = append(words, word) }
			if len(c.Args) > 0 && c.Args[0] == "reverse" {
				cs.List.ReverseExecuteAll(collect)
			} else {
				cs.List.ExecuteAll(collect)
			}
			sh.Output(c, words, strings.Join(words, " "))
		}),
	}
)

func init() {
	sh.AddCmds(
		&FIFOPushCmd,
		&FIFOPopCmd,
		&FIFOInfoCmd,
		&LIFOPushCmd,
		&LIFORPushCmd,
		&LIFOPopCmd,
		&LIFORPopCmd,
		&LIFOInfoCmd,
		&QueuePushCmd,
		&QueuePopCmd,
		&QueueListCmd,
		&QueueInfoCmd,
		&StackPushCmd,
		&StackPopCmd,
		&StackInfoCmd,
		&ListAddCmd,
		&ListRemoveCmd,
		&ListShowCmd,
	)
}
