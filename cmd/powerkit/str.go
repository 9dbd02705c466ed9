package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Pure-Company/powerkit"
)

// strOp applies one operation to s. rest holds the positional arguments
// after the text.
type strOp func(cmd *cobra.Command, s *powerkit.PowerString, rest []string) (any, error)

func newStrCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "str",
		Short: "Unicode string operations",
		Long: `Apply a PowerString operation to TEXT and print the result.

Indices count code points. Pass "-" as TEXT to read it from stdin.
Patterns use delimiters, for example "/\d+/a".`,
	}

	mutator := func(fn func(*powerkit.PowerString) *powerkit.PowerString) strOp {
		return func(_ *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			return fn(s).String(), nil
		}
	}

	cmd.AddCommand(
		a.strCommand("length TEXT", "Count code points", 1,
			func(_ *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
				return s.Length(), nil
			}),
		a.strCommand("upper TEXT", "Convert to upper case", 1, mutator((*powerkit.PowerString).ToUpperCase)),
		a.strCommand("lower TEXT", "Convert to lower case", 1, mutator((*powerkit.PowerString).ToLowerCase)),
		a.strCommand("trim TEXT", "Strip surrounding whitespace", 1, mutator((*powerkit.PowerString).Trim)),
		a.strCommand("trim-left TEXT", "Strip leading whitespace", 1, mutator((*powerkit.PowerString).TrimLeft)),
		a.strCommand("trim-right TEXT", "Strip trailing whitespace", 1, mutator((*powerkit.PowerString).TrimRight)),
		newSliceCmd(a),
		newSubstrCmd(a),
		newSubstringCmd(a),
		newCharAtCmd(a),
		newIndexOfCmd(a),
		newRepeatCmd(a),
		newNormalizeCmd(a),
		a.strCommand("replace TEXT PATTERN REPLACEMENT", "Replace pattern matches", 3,
			func(_ *cobra.Command, s *powerkit.PowerString, rest []string) (any, error) {
				out, err := s.Replace(rest[0], rest[1])
				if err != nil {
					return nil, err
				}
				return out.String(), nil
			}),
		newMatchCmd(a),
		newSearchCmd(a),
		newSplitCmd(a),
		newSplitPatternCmd(a),
	)
	return cmd
}

func (a *app) strCommand(use, short string, nargs int, op strOp) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readText(cmd, args[0])
			if err != nil {
				return err
			}
			s := powerkit.Of(text)
			res, err := op(cmd, s, args[1:])
			if err != nil {
				return err
			}
			log.Debug().
				Str("command", cmd.Name()).
				Int("input-length", len([]rune(text))).
				Msg("String operation done")
			return render(cmd.OutOrStdout(), a.cfg.Output, res)
		},
	}
}

func newSliceCmd(a *app) *cobra.Command {
	var begin, end int
	cmd := a.strCommand("slice TEXT", "Keep code points from --begin up to --end", 1,
		func(cmd *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			if cmd.Flags().Changed("end") {
				return s.Slice(begin, end).String(), nil
			}
			return s.Slice(begin).String(), nil
		})
	cmd.Flags().IntVar(&begin, "begin", 0, "First code point; negative counts from the end")
	cmd.Flags().IntVar(&end, "end", 0, "End code point, exclusive; negative counts from the end")
	return cmd
}

func newSubstrCmd(a *app) *cobra.Command {
	var start, length int
	cmd := a.strCommand("substr TEXT", "Keep --length code points from --start", 1,
		func(cmd *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			if cmd.Flags().Changed("length") {
				return s.Substr(start, length).String(), nil
			}
			return s.Substr(start).String(), nil
		})
	cmd.Flags().IntVar(&start, "start", 0, "First code point; negative counts from the end")
	cmd.Flags().IntVar(&length, "length", 0, "Number of code points; negative stops before the end")
	return cmd
}

func newSubstringCmd(a *app) *cobra.Command {
	var start, end int
	cmd := a.strCommand("substring TEXT", "Keep code points between --start and --end", 1,
		func(cmd *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			if cmd.Flags().Changed("end") {
				return s.Substring(start, end).String(), nil
			}
			return s.Substring(start).String(), nil
		})
	cmd.Flags().IntVar(&start, "start", 0, "One bound, clamped to the string")
	cmd.Flags().IntVar(&end, "end", 0, "Other bound, clamped to the string")
	return cmd
}

func newCharAtCmd(a *app) *cobra.Command {
	var index int
	var code bool
	cmd := a.strCommand("char-at TEXT", "Print the code point at --index", 1,
		func(_ *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			if code {
				return s.CharCodeAt(index), nil
			}
			return s.CharAt(index), nil
		})
	cmd.Flags().IntVar(&index, "index", 0, "Code point index; negative counts from the end")
	cmd.Flags().BoolVar(&code, "code", false, "Print the numeric code point")
	return cmd
}

func newIndexOfCmd(a *app) *cobra.Command {
	var from int
	var last bool
	cmd := a.strCommand("index-of TEXT SEARCH", "Find SEARCH in TEXT", 2,
		func(_ *cobra.Command, s *powerkit.PowerString, rest []string) (any, error) {
			if last {
				return s.LastIndexOf(rest[0], from), nil
			}
			return s.IndexOf(rest[0], from), nil
		})
	cmd.Flags().IntVar(&from, "from", 0, "Code point offset to search from")
	cmd.Flags().BoolVar(&last, "last", false, "Find the last occurrence")
	return cmd
}

func newRepeatCmd(a *app) *cobra.Command {
	var count int
	cmd := a.strCommand("repeat TEXT", "Repeat TEXT --count times", 1,
		func(_ *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			return s.Repeat(count).String(), nil
		})
	cmd.Flags().IntVar(&count, "count", 2, "Number of copies")
	return cmd
}

func newNormalizeCmd(a *app) *cobra.Command {
	cmd := a.strCommand("normalize TEXT", "Apply Unicode normalization", 1,
		func(_ *cobra.Command, s *powerkit.PowerString, _ []string) (any, error) {
			out, err := s.Normalize(a.cfg.NormalizeForm)
			if err != nil {
				return nil, err
			}
			return out.String(), nil
		})
	cmd.Flags().String("normalize-form", "NFC", "NFC, NFD, NFKC or NFKD")
	return cmd
}

func newMatchCmd(a *app) *cobra.Command {
	var offset int
	var offsets bool
	cmd := a.strCommand("match TEXT PATTERN", "Print pattern matches and their groups", 2,
		func(_ *cobra.Command, s *powerkit.PowerString, rest []string) (any, error) {
			var flags powerkit.MatchFlags
			if offsets {
				flags |= powerkit.OffsetCapture
			}
			ms, err := s.Match(rest[0], flags, offset)
			if err != nil {
				return nil, err
			}
			out := make([]matchResult, len(ms))
			for i, m := range ms {
				out[i] = matchResult{Groups: m.Groups, Offsets: m.Offsets}
			}
			return out, nil
		})
	cmd.Flags().IntVar(&offset, "offset", 0, "Code point offset to match from")
	cmd.Flags().BoolVar(&offsets, "offsets", false, "Include group offsets")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var from int
	cmd := a.strCommand("search TEXT PATTERN", "Print the index and text of the first match", 2,
		func(_ *cobra.Command, s *powerkit.PowerString, rest []string) (any, error) {
			idx, m, err := s.Search(rest[0], from)
			if err != nil {
				return nil, err
			}
			return searchResult{Index: idx, Match: m}, nil
		})
	cmd.Flags().IntVar(&from, "from", 0, "Code point offset to search from")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var limit int
	cmd := a.strCommand("split TEXT SEPARATOR", "Split around a literal separator", 2,
		func(cmd *cobra.Command, s *powerkit.PowerString, rest []string) (any, error) {
			if cmd.Flags().Changed("limit") {
				return s.Split(rest[0], limit).Values(), nil
			}
			return s.Split(rest[0]).Values(), nil
		})
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum pieces; negative drops pieces from the end")
	return cmd
}

func newSplitPatternCmd(a *app) *cobra.Command {
	var limit int
	cmd := a.strCommand("split-pattern TEXT PATTERN", "Split around pattern matches", 2,
		func(_ *cobra.Command, s *powerkit.PowerString, rest []string) (any, error) {
			parts, err := s.SplitByPattern(rest[0], limit)
			if err != nil {
				return nil, err
			}
			return parts.Values(), nil
		})
	cmd.Flags().IntVar(&limit, "limit", -1, "Maximum pieces; zero or negative means no limit")
	return cmd
}
