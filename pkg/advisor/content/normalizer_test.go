package content

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestNormalizer(t *testing.T) (*Normalizer, string) {
	t.Helper()
	dir := t.TempDir()
	return NewNormalizer(dir, log.New(io.Discard, "", 0)), dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	assert.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestNormalizeTextFile(t *testing.T) {
	n, dir := newTestNormalizer(t)
	writeFile(t, dir, "task.txt", "summarize quarterly reports")

	assert.Equal(t, "summarize quarterly reports", n.Normalize("task.txt"))
}

func TestNormalizeCSVFile(t *testing.T) {
	n, dir := newTestNormalizer(t)
	writeFile(t, dir, "data.csv", "name,score\nalpha,3\nbeta,7\n")

	got := n.Normalize("data.csv")
	assert.Equal(t, "name, score\nalpha, 3\nbeta, 7", got)
}

func TestNormalizeJSONFile(t *testing.T) {
	n, dir := newTestNormalizer(t)
	writeFile(t, dir, "spec.json", `{"task":"ocr","lang":"en"}`)

	got := n.Normalize("spec.json")
	assert.Contains(t, got, `"task": "ocr"`)
	assert.Contains(t, got, `"lang": "en"`)
}

func TestNormalizeUnsupportedKindYieldsEmpty(t *testing.T) {
	n, dir := newTestNormalizer(t)
	writeFile(t, dir, "photo.png", "\x89PNG")

	assert.Empty(t, n.Normalize("photo.png"))
}

func TestNormalizeMissingFileYieldsEmpty(t *testing.T) {
	n, _ := newTestNormalizer(t)
	assert.Empty(t, n.Normalize("nope.txt"))
}

func TestNormalizeMalformedJSONYieldsEmpty(t *testing.T) {
	n, dir := newTestNormalizer(t)
	writeFile(t, dir, "broken.json", "{not json")

	assert.Empty(t, n.Normalize("broken.json"))
}

func TestNormalizeStripsPathTraversal(t *testing.T) {
	n, dir := newTestNormalizer(t)
	writeFile(t, dir, "secret.txt", "inside uploads")

	// Base name resolution keeps lookups inside the uploads dir
	assert.Equal(t, "inside uploads", n.Normalize("../../etc/secret.txt"))
	assert.Empty(t, n.Normalize("../../etc/passwd"))
}
