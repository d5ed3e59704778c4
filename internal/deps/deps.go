package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement names an external binary the pipeline shells out to.
type Requirement struct {
	Name        string
	Command     string
	Description string
}

// Status is the outcome of resolving one Requirement on PATH.
type Status struct {
	Requirement
	Available bool
	// Resolved is the absolute path LookPath found.
	Resolved string
	Detail   string
}

// CheckBinaries resolves every requirement, in order.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		req.Description = strings.TrimSpace(req.Description)
		results[i] = resolve(req)
	}
	return results
}

func resolve(req Requirement) Status {
	status := Status{Requirement: req}
	if req.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	path, err := exec.LookPath(req.Command)
	if err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", req.Command)
		return status
	}
	status.Available = true
	status.Resolved = path
	return status
}
