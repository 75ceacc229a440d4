// Package inscribe generates a Go package that embeds a runes archive
// at build time.
//
// The generated package carries the archive bytes in a //go:embed
// static and exposes two accessors: GetRunes, which validates once and
// caches the outcome, and GetRunesUnchecked, which aliases the bytes
// with no validation. No file I/O happens at runtime; the archive is
// read only while generating.
package inscribe

import (
	"bytes"
	_ "embed"
	"fmt"
	"go/format"
	"go/token"
	"os"
	"path/filepath"
	"text/template"

	"github.com/rs/zerolog/log"

	"github.com/genesysgo/shadow-drive-go/pkg/runes"
)

//go:embed source.go.tpl
var tmplSource string

// GeneratedFileName is the name of the accessor source file written
// into the output package directory.
const GeneratedFileName = "inscribed_runes.go"

type tmplData struct {
	Package string
	Archive string
}

// Generate embeds the archive at archivePath into a Go package. It
// validates the archive, copies it into outputDir, and writes an
// accessor source file declaring the package pkg. outputDir is
// created if needed.
func Generate(archivePath, outputDir, pkg string) error {
	if !token.IsIdentifier(pkg) {
		return fmt.Errorf("inscribe: %q is not a valid Go package name", pkg)
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return fmt.Errorf("inscribe: read archive %s: %w", archivePath, err)
	}
	if err := runes.Validate(data); err != nil {
		return fmt.Errorf("inscribe: refusing to embed %s: %w", archivePath, err)
	}

	code, err := render(pkg, filepath.Base(archivePath))
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("inscribe: create output directory %s: %w", outputDir, err)
	}
	archiveCopy := filepath.Join(outputDir, filepath.Base(archivePath))
	if err := os.WriteFile(archiveCopy, data, 0o644); err != nil {
		return fmt.Errorf("inscribe: copy archive to %s: %w", archiveCopy, err)
	}
	sourceFile := filepath.Join(outputDir, GeneratedFileName)
	if err := os.WriteFile(sourceFile, code, 0o644); err != nil {
		return fmt.Errorf("inscribe: write %s: %w", sourceFile, err)
	}

	log.Info().Msgf("successfully inscribed %s into %s", archivePath, sourceFile)
	return nil
}

func render(pkg, archive string) ([]byte, error) {
	tmpl := template.Must(template.New("").Parse(tmplSource))
	buffer := new(bytes.Buffer)
	if err := tmpl.Execute(buffer, &tmplData{Package: pkg, Archive: archive}); err != nil {
		return nil, fmt.Errorf("inscribe: execute template: %w", err)
	}
	// Pass the code through gofmt to clean it up
	code, err := format.Source(buffer.Bytes())
	if err != nil {
		return nil, fmt.Errorf("inscribe: format generated source: %v\n%s", err, buffer)
	}
	return code, nil
}
