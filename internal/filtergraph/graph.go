package filtergraph

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"stagecast/internal/fileutil"
)

// Filter is a single ffmpeg filter invocation.
type Filter struct {
	Name string
	Args string
}

// F is shorthand for a Filter with formatted arguments.
func F(name string, args ...string) Filter {
	return Filter{Name: name, Args: strings.Join(args, ":")}
}

func (f Filter) String() string {
	if f.Args == "" {
		return f.Name
	}
	return f.Name + "=" + f.Args
}

// Chain is one ';'-separated segment of a filter graph.
type Chain struct {
	Inputs  []string
	Filters []Filter
	Outputs []string
}

func (c Chain) String() string {
	var b strings.Builder
	for _, label := range c.Inputs {
		b.WriteString("[" + label + "]")
	}
	for i, filter := range c.Filters {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(filter.String())
	}
	for _, label := range c.Outputs {
		b.WriteString("[" + label + "]")
	}
	return b.String()
}

// Graph is an ordered filter graph with a single declared output label.
type Graph struct {
	// Inputs is the number of ffmpeg inputs the graph may reference. Zero
	// disables the bounds check on stream specifiers.
	Inputs int
	Output string
	Chains []Chain
}

// New starts a graph that must end in the given output label.
func New(inputs int, output string) *Graph {
	return &Graph{Inputs: inputs, Output: output}
}

// Add appends a chain reading inputs, applying filters and producing outputs.
func (g *Graph) Add(inputs []string, filters []Filter, outputs ...string) *Graph {
	g.Chains = append(g.Chains, Chain{Inputs: inputs, Filters: filters, Outputs: outputs})
	return g
}

var streamSpecifier = regexp.MustCompile(`^(\d+)(:[vas](:\d+)?)?$`)

// ErrInvalidGraph marks connectivity errors reported by Validate.
var ErrInvalidGraph = errors.New("invalid filter graph")

// Validate checks that every consumed label was produced by an earlier chain
// and is consumed once, that no label is produced twice, and that every
// produced label other than the output is consumed.
func (g *Graph) Validate() error {
	var problems []string
	produced := map[string]int{}
	consumed := map[string]bool{}
	var order []string

	if strings.TrimSpace(g.Output) == "" {
		problems = append(problems, "no output label declared")
	}
	for i, chain := range g.Chains {
		if len(chain.Filters) == 0 {
			problems = append(problems, fmt.Sprintf("chain %d has no filters", i))
		}
		for _, label := range chain.Inputs {
			if m := streamSpecifier.FindStringSubmatch(label); m != nil {
				index, _ := strconv.Atoi(m[1])
				if g.Inputs > 0 && index >= g.Inputs {
					problems = append(problems, fmt.Sprintf("chain %d reads input %q but only %d inputs exist", i, label, g.Inputs))
				}
				continue
			}
			if _, ok := produced[label]; !ok {
				problems = append(problems, fmt.Sprintf("chain %d reads unknown label [%s]", i, label))
				continue
			}
			if consumed[label] {
				problems = append(problems, fmt.Sprintf("chain %d reads label [%s] that is already consumed", i, label))
				continue
			}
			consumed[label] = true
		}
		for _, label := range chain.Outputs {
			if prev, ok := produced[label]; ok {
				problems = append(problems, fmt.Sprintf("chain %d produces label [%s] already produced by chain %d", i, label, prev))
				continue
			}
			produced[label] = i
			order = append(order, label)
		}
	}
	if g.Output != "" {
		if _, ok := produced[g.Output]; !ok {
			problems = append(problems, fmt.Sprintf("output label [%s] is never produced", g.Output))
		}
		if consumed[g.Output] {
			problems = append(problems, fmt.Sprintf("output label [%s] is consumed inside the graph", g.Output))
		}
	}
	for _, label := range order {
		if label != g.Output && !consumed[label] {
			problems = append(problems, fmt.Sprintf("label [%s] is never consumed", label))
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidGraph, strings.Join(problems, "; "))
	}
	return nil
}

// String serializes the graph in ffmpeg syntax.
func (g *Graph) String() string {
	parts := make([]string, len(g.Chains))
	for i, chain := range g.Chains {
		parts[i] = chain.String()
	}
	return strings.Join(parts, ";")
}

// Render validates the graph and returns its serialized form.
func (g *Graph) Render() (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	return g.String(), nil
}

// WriteScript validates the graph and writes it to path for use with
// -filter_complex_script.
func WriteScript(path string, g *Graph) error {
	text, err := g.Render()
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write filter script: %w", err)
	}
	return nil
}
