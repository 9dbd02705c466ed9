package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Pure-Company/powerkit"
	"github.com/Pure-Company/powerkit/internal/config"
)

// matchResult is the rendered form of one pattern match.
type matchResult struct {
	Groups  []string `json:"groups" yaml:"groups"`
	Offsets []int    `json:"offsets,omitempty" yaml:"offsets,omitempty"`
}

// searchResult is the rendered form of a search.
type searchResult struct {
	Index int    `json:"index" yaml:"index"`
	Match string `json:"match" yaml:"match"`
}

// render writes v to w in the configured format.
func render(w io.Writer, format string, v any) error {
	if m, ok := v.(*powerkit.Map); ok && format != config.OutputText {
		v = m.AsMapping()
	}

	switch format {
	case config.OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(v), "encode json")
	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		return errors.Wrap(enc.Close(), "encode yaml")
	}
	return renderText(w, v)
}

func renderText(w io.Writer, v any) error {
	var err error
	switch val := v.(type) {
	case *powerkit.Map:
		for k, item := range val.All() {
			if _, err = fmt.Fprintf(w, "%s: %v\n", k, item); err != nil {
				break
			}
		}
	case []string:
		for _, item := range val {
			if _, err = fmt.Fprintln(w, item); err != nil {
				break
			}
		}
	case []matchResult:
		for _, m := range val {
			if _, err = fmt.Fprintln(w, formatMatch(m)); err != nil {
				break
			}
		}
	case searchResult:
		_, err = fmt.Fprintf(w, "%d\t%s\n", val.Index, val.Match)
	default:
		_, err = fmt.Fprintln(w, v)
	}
	return errors.Wrap(err, "write output")
}

func formatMatch(m matchResult) string {
	s := powerkit.ArrayCast(m.Groups).Join("\t")
	if m.Offsets != nil {
		s.Append(fmt.Sprintf("\t@%v", m.Offsets))
	}
	return s.String()
}
