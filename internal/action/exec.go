package action

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/midivolt/nanokontrol/sdk/contracts"
)

// Exec runs a shell command when the control fires. The placeholders
// {NK_KEY_ID} and {NK_KEY_VALUE} in the command are replaced with the
// control number and value, so sliders can feed their position to scripts.
type Exec struct {
	command string
	logger  contracts.Logger
}

// NewExec binds a control to a shell command.
func NewExec(command string, logger contracts.Logger) *Exec {
	return &Exec{command: command, logger: logger}
}

func (e *Exec) Do(control, value byte) error {
	command := expand(e.command, control, value)
	e.logger.Debug("executing command", e.logger.Field().String("command", command))

	if err := exec.Command("/bin/sh", "-c", command).Run(); err != nil {
		return fmt.Errorf("command %q failed: %w", command, err)
	}
	return nil
}

// expand substitutes the control placeholders into the command template.
func expand(command string, control, value byte) string {
	return strings.NewReplacer(
		"{NK_KEY_ID}", strconv.Itoa(int(control)),
		"{NK_KEY_VALUE}", strconv.Itoa(int(value)),
	).Replace(command)
}
