package content

import (
	"encoding/csv"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Normalizer turns uploaded file references into plain text for the advisor
// pipeline. Extraction is best-effort by contract: any failure, including an
// unsupported kind, yields an empty string and a logged warning - never an
// error that could abort the turn.
type Normalizer struct {
	uploadsDir string
	logger     *log.Logger
}

func NewNormalizer(uploadsDir string, logger *log.Logger) *Normalizer {
	return &Normalizer{
		uploadsDir: uploadsDir,
		logger:     logger,
	}
}

// Normalize resolves reference inside the uploads dir and extracts its text.
// Kind dispatch is by file extension.
func (n *Normalizer) Normalize(reference string) string {
	path, ok := n.resolve(reference)
	if !ok {
		return ""
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return n.readTextFile(path)
	case ".csv":
		return n.readCSVFile(path)
	case ".json":
		return n.readJSONFile(path)
	default:
		n.logger.Printf("[NORMALIZER] Unsupported file format: %s", filepath.Ext(path))
		return ""
	}
}

// resolve confines references to the uploads directory. References carrying
// path separators that escape the dir are refused.
func (n *Normalizer) resolve(reference string) (string, bool) {
	cleaned := filepath.Clean(filepath.Join(n.uploadsDir, filepath.Base(reference)))
	if !strings.HasPrefix(cleaned, filepath.Clean(n.uploadsDir)+string(os.PathSeparator)) {
		n.logger.Printf("[NORMALIZER] Refusing reference outside uploads dir: %s", reference)
		return "", false
	}
	return cleaned, true
}

func (n *Normalizer) readTextFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		n.logger.Printf("[NORMALIZER] Error reading text file: %v", err)
		return ""
	}
	return string(data)
}

func (n *Normalizer) readCSVFile(path string) string {
	f, err := os.Open(path)
	if err != nil {
		n.logger.Printf("[NORMALIZER] Error reading CSV: %v", err)
		return ""
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		n.logger.Printf("[NORMALIZER] Error parsing CSV: %v", err)
		return ""
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ", "))
	}
	return strings.Join(lines, "\n")
}

func (n *Normalizer) readJSONFile(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		n.logger.Printf("[NORMALIZER] Error reading JSON: %v", err)
		return ""
	}

	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		n.logger.Printf("[NORMALIZER] Error parsing JSON: %v", err)
		return ""
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		return string(data)
	}
	return string(pretty)
}
