// Package output renders assessment results for the console and for files.
package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/irgo/internal/domain"
)

// Formatter renders one or more assessment results.
type Formatter interface {
	Name() string
	Format(results []*domain.CalculationResult) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(results []*domain.CalculationResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(results []*domain.CalculationResult) ([]byte, error) {
	return f.F(results)
}

var formatters = map[string]Formatter{
	"console":      ConsoleFormatter{},
	"console-lite": ConsoleLiteFormatter{},
	"csv":          CSVFormatter{},
	"json":         JSONFormatter{Pretty: true},
	"html":         HTMLFormatter{},
}

var aliases = map[string]string{
	"verbose": "console",
	"text":    "console",
	"summary": "console-lite",
	"lite":    "console-lite",
}

// GetFormatterByName resolves a formatter name or alias, case-insensitively.
func GetFormatterByName(name string) (Formatter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	if f, ok := formatters[key]; ok {
		return f, nil
	}
	return nil, fmt.Errorf("unsupported format: %s (available: %s)", name, strings.Join(AvailableFormatterNames(), ", "))
}

// AvailableFormatterNames returns the canonical formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases returns the alias to formatter mapping.
func AvailableFormatAliases() map[string]string {
	out := make(map[string]string, len(aliases))
	for k, v := range aliases {
		out[k] = v
	}
	return out
}

// WriteFormatted renders results into a timestamped file in the working
// directory and returns its name.
func WriteFormatted(f Formatter, results []*domain.CalculationResult, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tax_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
