package assets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stagecast/internal/timeline"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestListPictures_NumericCaseInsensitiveOrder(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"10.png", "2.JPG", "1.jpeg", "b.webp", "A.png", "notes.txt", "cover.gif"} {
		touch(t, filepath.Join(dir, name))
	}
	if err := os.Mkdir(filepath.Join(dir, "3.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := ListPictures(dir)
	if err != nil {
		t.Fatalf("ListPictures: %v", err)
	}
	want := []string{"1.jpeg", "2.JPG", "10.png", "A.png", "b.webp"}
	if len(got) != len(want) {
		t.Fatalf("got %d pictures, want %d: %v", len(got), len(want), got)
	}
	for i, name := range want {
		if got[i] != filepath.Join(dir, name) {
			t.Fatalf("picture %d = %q, want %q", i, got[i], name)
		}
	}
}

func TestListPictures_MissingDir(t *testing.T) {
	if _, err := ListPictures(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestReadTitle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "title.txt")
	if err := os.WriteFile(path, []byte("\ufeff  Big Launch \r\nPart Two\r\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := ReadTitle(path)
	if err != nil {
		t.Fatalf("ReadTitle: %v", err)
	}
	if got != `Big Launch\NPart Two` {
		t.Fatalf("ReadTitle = %q", got)
	}
}

func TestRelativePath(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "proj")
	got := RelativePath(root, filepath.Join(root, "Image Description", "1.png"))
	if got != "Image Description/1.png" {
		t.Fatalf("RelativePath = %q", got)
	}
	if got := RelativePath(root, root); got != "." {
		t.Fatalf("RelativePath(root, root) = %q", got)
	}
}

func TestWritePictureMap(t *testing.T) {
	root := t.TempDir()
	cues := []timeline.Cue{
		{Index: 0, Start: 1, End: 2.5, Text: "a"},
		{Index: 1, Start: 2.5, End: 4.25, Text: "b"},
		{Index: 2, Start: 5, End: 6, Text: "c"},
	}
	pictures := []string{
		filepath.Join(root, "pics", "1.png"),
		filepath.Join(root, "pics", "2.png"),
	}
	path := filepath.Join(root, "output", "map.txt")
	if err := WritePictureMap(path, root, cues, pictures); err != nil {
		t.Fatalf("WritePictureMap: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		PictureMapHeader,
		"[1:v]\t1.000\t2.500\tpics/1.png",
		"[2:v]\t2.500\t4.250\tpics/2.png",
	}, "\n")
	if string(data) != want {
		t.Fatalf("picture map mismatch:\n%s\nwant:\n%s", data, want)
	}
}
