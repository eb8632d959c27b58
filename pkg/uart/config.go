package uart

import (
	"flag"
	"os"
	"strconv"

	"github.com/robotalks/mcu.go/pkg/framework"
)

// MaxPriority is the most urgent interrupt priority.
// Priority 0 disables the interrupt.
const MaxPriority = 7

// Config defines the configurations of a Port.
type Config struct {
	TxBufferSize int
	RxBufferSize int
	TxPriority   int
	RxPriority   int
	// ProtectLevel is the minimum priority masked by application calls.
	ProtectLevel int
	Baudrate     int
}

var defaultConfig = Config{
	TxBufferSize: 256,
	RxBufferSize: 256,
	TxPriority:   5,
	RxPriority:   6,
	Baudrate:     115200,
}

func init() {
	if val := os.Getenv("MCU_UART_BAUDRATE"); val != "" {
		if baudrate, err := strconv.Atoi(val); err == nil {
			defaultConfig.Baudrate = baudrate
		}
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.TxBufferSize, "tx-buffer", defaultConfig.TxBufferSize, "UART transmit buffer size")
	flag.IntVar(&defaultConfig.RxBufferSize, "rx-buffer", defaultConfig.RxBufferSize, "UART receive buffer size")
	flag.IntVar(&defaultConfig.TxPriority, "tx-priority", defaultConfig.TxPriority, "UART transmit interrupt priority (1-7)")
	flag.IntVar(&defaultConfig.RxPriority, "rx-priority", defaultConfig.RxPriority, "UART receive interrupt priority (0-7), 0 disables it")
	flag.IntVar(&defaultConfig.ProtectLevel, "protect", defaultConfig.ProtectLevel, "Interrupt priority masked by application calls")
	flag.IntVar(&defaultConfig.Baudrate, "baudrate", defaultConfig.Baudrate, "UART baudrate")
}

// Default gets default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a config with defaults.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Validate checks the priorities.
func (c *Config) Validate() error {
	if c.TxPriority < 1 || c.TxPriority > MaxPriority ||
		c.RxPriority < 0 || c.RxPriority > MaxPriority ||
		c.ProtectLevel < 0 || c.ProtectLevel > MaxPriority {
		return ErrInvalidPriority
	}
	return nil
}

// ProtectPriority is the priority raised by application calls: at least
// both interrupts of the port must be masked.
func (c *Config) ProtectPriority() int {
	level := c.ProtectLevel
	if c.TxPriority > level {
		level = c.TxPriority
	}
	if c.RxPriority > level {
		level = c.RxPriority
	}
	return level
}

// NewPort creates a Port using the config.
func (c *Config) NewPort(hw Hardware) (*Port, error) {
	return NewPort(*c, hw)
}

// loopLevel maps an interrupt priority to a framework.Loop level,
// where smaller levels are more urgent.
func loopLevel(priority int) int {
	return framework.PrLvIdle - priority
}
