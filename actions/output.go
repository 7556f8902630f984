package actions

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/mattn/go-isatty"
)

// Output formats.
const (
	OutputText = "text"
	OutputYaml = "yaml"
	OutputJson = "json"
)

func outputOrStdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// resolveOutputFormat returns the format to print in. An empty format means text on a terminal
// and JSON otherwise, so piped output stays machine readable.
func resolveOutputFormat(format string, w io.Writer) (string, error) {
	switch f := strings.ToLower(format); f {
	case "":
		if isTerminal(w) {
			return OutputText, nil
		}
		return OutputJson, nil
	case OutputText, OutputYaml, OutputJson:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use %v, %v or %v", format, OutputText, OutputYaml, OutputJson)
	}
}

// writeOutput prints v to w using format. Text output uses v's String method.
func writeOutput(w io.Writer, v fmt.Stringer, format string) error {
	w = outputOrStdout(w)
	f, err := resolveOutputFormat(format, w)
	if err != nil {
		return err
	}
	var b []byte
	switch f {
	case OutputYaml:
		b, err = yaml.Marshal(v)
	case OutputJson:
		b, err = json.MarshalIndent(v, "", "  ")
		b = append(b, '\n')
	default:
		b = []byte(v.String())
	}
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
