package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"stagecast/internal/fileutil"
	"stagecast/internal/timeline"
)

var pictureExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// ListPictures returns the images in dir ordered the way a person numbers
// them: "2.png" before "10.png", case ignored.
func ListPictures(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pictures directory: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if pictureExtensions[strings.ToLower(filepath.Ext(entry.Name()))] {
			names = append(names, entry.Name())
		}
	}
	collator := collate.New(language.Und, collate.Numeric, collate.IgnoreCase)
	collator.SortStrings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// ReadTitle returns the title text with surrounding whitespace trimmed.
// Interior line breaks become ASS forced newlines.
func ReadTitle(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read title: %w", err)
	}
	text := strings.TrimPrefix(string(data), "\ufeff")
	text = strings.ReplaceAll(text, "\r", "")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, `\N`), nil
}

// RelativePath expresses p relative to root with forward slashes. Paths that
// cannot be made relative are returned as-is.
func RelativePath(root, p string) string {
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == "" {
		rel = p
	}
	return filepath.ToSlash(rel)
}

// PictureMapHeader is the first line of the picture map file.
const PictureMapHeader = "Index (FFmpeg)\tStart\tEnd\tRelativePath"

// PictureMap renders one row per overlaid picture. Picture k (zero-based) is
// ffmpeg input k+1 and is shown during cue k.
func PictureMap(root string, cues []timeline.Cue, pictures []string) string {
	count := min(len(cues), len(pictures))
	lines := make([]string, 0, count+1)
	lines = append(lines, PictureMapHeader)
	for i := 0; i < count; i++ {
		lines = append(lines, fmt.Sprintf("[%d:v]\t%.3f\t%.3f\t%s",
			i+1, cues[i].Start, cues[i].End, RelativePath(root, pictures[i])))
	}
	return strings.Join(lines, "\n")
}

// WritePictureMap writes PictureMap to path.
func WritePictureMap(path, root string, cues []timeline.Cue, pictures []string) error {
	if err := fileutil.WriteFileAtomic(path, []byte(PictureMap(root, cues, pictures)), 0o644); err != nil {
		return fmt.Errorf("write picture map: %w", err)
	}
	return nil
}
