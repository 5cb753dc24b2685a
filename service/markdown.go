package service

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"contentagent.app/errors"
	"contentagent.app/models"
)

const maxFilenameLength = 80

var unsafeFilenameChars = regexp.MustCompile(`[<>:"|?*]`)
var filenameSeparators = regexp.MustCompile(`[\s_]+`)

// MarkdownWriter renders a finished package into a markdown document under
// the output directory
type MarkdownWriter struct {
	dir string
}

// NewMarkdownWriter creates a writer targeting the given directory
func NewMarkdownWriter(dir string) *MarkdownWriter {
	return &MarkdownWriter{dir: dir}
}

// Write renders the package and returns the path of the written document.
// Filenames carry a short unique suffix so repeated runs on the same topic
// never overwrite each other.
func (w *MarkdownWriter) Write(pkg *models.ScriptPackage) (string, error) {
	if pkg == nil {
		return "", errors.NewValidationError("script package cannot be nil")
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", errors.NewConfigurationError("failed to create output directory", err)
	}

	name := fmt.Sprintf("%s_%s.md", sanitizeFilename(pkg.Topic), uuid.New().String()[:8])
	path := filepath.Join(w.dir, name)

	if err := os.WriteFile(path, []byte(w.render(pkg)), 0o644); err != nil {
		return "", errors.NewSerializationError("failed to write output document", err)
	}
	return path, nil
}

func (w *MarkdownWriter) render(pkg *models.ScriptPackage) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", pkg.Topic)
	fmt.Fprintf(&b, "Generated: %s | Words: %d | Sources: %d\n\n",
		pkg.GeneratedAt.Format(time.RFC3339), pkg.WordCount, len(pkg.Sources))

	b.WriteString("---\n\n")
	b.WriteString(pkg.LongScript)
	b.WriteString("\n\n---\n\n")

	if pkg.Facts != "" {
		b.WriteString("## EXTRACTED FACTS\n\n")
		b.WriteString(pkg.Facts)
		b.WriteString("\n\n")
	}

	if len(pkg.Sources) > 0 {
		b.WriteString("## SOURCES\n\n")
		for _, source := range pkg.Sources {
			fmt.Fprintf(&b, "- [%s](%s) — %s", source.Title, source.URL, source.SourceName)
			if !source.PublishedDate.IsZero() {
				fmt.Fprintf(&b, " (%s)", source.PublishedDate.Format("2006-01-02"))
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// sanitizeFilename makes a topic safe to use as a filesystem name
func sanitizeFilename(topic string) string {
	name := strings.ReplaceAll(topic, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = filenameSeparators.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")

	if len(name) > maxFilenameLength {
		name = name[:maxFilenameLength]
	}
	if name == "" {
		name = "unnamed"
	}
	return name
}
