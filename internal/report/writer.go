package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/golfmapper/coursemap/internal/config"
)

type artifact struct {
	format string
	file   string
	write  func(io.Writer, *Document) error
}

var artifacts = []artifact{
	{config.FormatCSV, CSVFile, WriteCSV},
	{config.FormatJSON, JSONFile, WriteJSON},
	{config.FormatMarkdown, MarkdownFile, WriteMarkdown},
	{config.FormatXLSX, XLSXFile, WriteXLSX},
}

// WriteAll writes the selected formats into dir, creating it if needed, and
// returns the paths written in a fixed order.
func WriteAll(dir string, doc *Document, formats []string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	want := make(map[string]bool, len(formats))
	for _, f := range formats {
		want[f] = true
	}

	var written []string
	for _, a := range artifacts {
		if !want[a.format] {
			continue
		}
		path := filepath.Join(dir, a.file)
		if err := writeFile(path, doc, a.write); err != nil {
			return written, err
		}
		log.Info().Str("format", a.format).Str("path", path).Int("mappings", len(doc.Mappings)).Msg("Report written")
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, doc *Document, write func(io.Writer, *Document) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f, doc); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
