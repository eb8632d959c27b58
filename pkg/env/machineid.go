package env

import (
	"github.com/denisbrodbeck/machineid"
)

// MachineID retrieves the ID of the machine, protected by app so the raw
// ID never leaves the machine.
func MachineID(app string) (string, error) {
	return machineid.ProtectedID(app)
}
