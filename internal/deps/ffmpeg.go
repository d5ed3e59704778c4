package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

var commandOutput = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).Output() //nolint:gosec
}

// ListEncoders returns the video encoders compiled into the ffmpeg binary.
func ListEncoders(ctx context.Context, ffmpegBinary string) (map[string]bool, error) {
	output, err := commandOutput(ctx, ffmpegBinary, "-hide_banner", "-encoders")
	if err != nil {
		return nil, fmt.Errorf("list ffmpeg encoders: %w", err)
	}
	return parseEncoders(output), nil
}

// parseEncoders reads the table printed by `ffmpeg -encoders`. Rows after the
// " ------" separator look like " V....D libx264  description".
func parseEncoders(output []byte) map[string]bool {
	encoders := map[string]bool{}
	scanner := bufio.NewScanner(bytes.NewReader(output))
	inTable := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "------") {
			inTable = true
			continue
		}
		if !inTable {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.HasPrefix(fields[0], "V") {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}
