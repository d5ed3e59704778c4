package timeline

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// Cue is a single timed caption entry.
type Cue struct {
	Index int
	Start float64
	End   float64
	Text  string
}

// Duration returns the cue length in seconds.
func (c Cue) Duration() float64 {
	return c.End - c.Start
}

// Words splits the trimmed cue text on whitespace.
func (c Cue) Words() []string {
	return strings.Fields(c.Text)
}

// Timeline is the ordered cue list of one production.
type Timeline []Cue

// Duration returns the latest cue end, or 0 for an empty timeline.
func (t Timeline) Duration() float64 {
	var last float64
	for _, cue := range t {
		if cue.End > last {
			last = cue.End
		}
	}
	return last
}

// Active returns the cues whose [Start, End) window contains at.
func (t Timeline) Active(at float64) []Cue {
	var active []Cue
	for _, cue := range t {
		if at >= cue.Start && at < cue.End {
			active = append(active, cue)
		}
	}
	return active
}

// Warning records a lenient-parse degradation.
type Warning struct {
	// Block is the 1-based position of the cue block in the file.
	Block   int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("block %d: %s", w.Block, w.Message)
}

// Result is the outcome of parsing a cue file.
type Result struct {
	Cues     Timeline
	Warnings []Warning
}

var (
	timestampPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})[,.](\d{1,3})$`)
	sequencePattern  = regexp.MustCompile(`^\d+$`)
)

// ParseTimestamp converts H:MM:SS,mmm to seconds. Hours may have one or two
// digits, the separator may be a comma or a dot, and short millisecond fields
// are right-padded ("1,5" is 1.500s). Anything else yields (0, false).
func ParseTimestamp(value string) (float64, bool) {
	match := timestampPattern.FindStringSubmatch(strings.TrimSpace(value))
	if match == nil {
		return 0, false
	}
	hours, _ := strconv.Atoi(match[1])
	minutes, _ := strconv.Atoi(match[2])
	seconds, _ := strconv.Atoi(match[3])
	millis, _ := strconv.Atoi(match[4] + strings.Repeat("0", 3-len(match[4])))
	total := int64((hours*3600+minutes*60+seconds)*1000 + millis)
	return float64(total) / 1000, true
}

// ParseFile reads and parses the cue file at path.
func ParseFile(path string) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("open timeline: %w", err)
	}
	defer file.Close()
	return Parse(file)
}

// Parse reads cue blocks from r. Blocks are separated by blank lines and
// consist of an optional sequence number, a "start --> end" timing line and
// any number of text lines.
func Parse(r io.Reader) (Result, error) {
	var (
		result Result
		block  []string
		count  int
	)

	flush := func() {
		if len(block) == 0 {
			return
		}
		count++
		parseBlock(count, block, &result)
		block = block[:0]
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	first := true
	for scanner.Scan() {
		line := strings.ReplaceAll(scanner.Text(), "\r", "")
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		// A sequence number followed by a timing line starts a new cue even
		// when the blank separator is missing.
		if strings.Contains(line, "-->") && len(block) >= 2 && isSequence(block[len(block)-1]) && hasTiming(block[:len(block)-1]) {
			sequence := block[len(block)-1]
			block = block[:len(block)-1]
			flush()
			block = append(block, sequence)
		}
		block = append(block, line)
	}
	if err := scanner.Err(); err != nil {
		return Result{}, fmt.Errorf("read timeline: %w", err)
	}
	flush()
	return result, nil
}

func parseBlock(number int, lines []string, result *Result) {
	timing := -1
	for i, line := range lines {
		if strings.Contains(line, "-->") {
			timing = i
			break
		}
		// Only a sequence number may precede the timing line.
		if i > 0 {
			break
		}
	}
	if timing < 0 {
		result.Warnings = append(result.Warnings, Warning{Block: number, Message: "no timing line, block skipped"})
		return
	}

	parts := strings.SplitN(lines[timing], "-->", 2)
	start := parseBound(number, "start", parts[0], result)
	end := parseBound(number, "end", parts[1], result)

	texts := make([]string, 0, len(lines)-timing-1)
	for _, line := range lines[timing+1:] {
		texts = append(texts, strings.TrimSpace(line))
	}
	text := strings.Join(texts, " ")

	if end <= start {
		result.Warnings = append(result.Warnings, Warning{
			Block:   number,
			Message: fmt.Sprintf("end %.3f is not after start %.3f, cue dropped", end, start),
		})
		return
	}

	result.Cues = append(result.Cues, Cue{
		Index: len(result.Cues),
		Start: start,
		End:   end,
		Text:  text,
	})
}

func isSequence(line string) bool {
	return sequencePattern.MatchString(strings.TrimSpace(line))
}

func hasTiming(lines []string) bool {
	for _, line := range lines {
		if strings.Contains(line, "-->") {
			return true
		}
	}
	return false
}

func parseBound(number int, name, raw string, result *Result) float64 {
	// Position settings may trail the end time.
	fields := strings.Fields(raw)
	value := ""
	if len(fields) > 0 {
		value = fields[0]
	}
	seconds, ok := ParseTimestamp(value)
	if !ok {
		result.Warnings = append(result.Warnings, Warning{
			Block:   number,
			Message: fmt.Sprintf("malformed %s timestamp %q, using 0", name, strings.TrimSpace(raw)),
		})
	}
	return seconds
}
