package main

import (
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Pure-Company/powerkit"
)

func newMapCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Map merging and binary encoding",
		Long: `Operate on Maps read from YAML or JSON documents.

A FILE of "-" reads stdin. Every document must be a mapping at the top
level.`,
	}
	cmd.AddCommand(newMergeCmd(a), newEncodeCmd(a), newDecodeCmd(a))
	return cmd
}

func newMergeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge FILE...",
		Short: "Merge documents, earlier files taking priority",
		Long: `Merge the documents into one Map. Keys already present keep their
value, so the first file wins. Null values never fill a gap.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m := powerkit.NewMap()
			for _, path := range args {
				src, err := loadSource(cmd, path)
				if err == nil {
					_, err = m.Merge(src)
				}
				if err != nil {
					if a.cfg.MergeSkipErrors {
						log.Warn().Err(err).Str("file", path).Msg("Skipping input")
						continue
					}
					return errors.Wrapf(err, "merge %s", path)
				}
				log.Debug().Str("file", path).Int("keys", m.Count()).Msg("Merged input")
			}
			return render(cmd.OutOrStdout(), a.cfg.Output, m)
		},
	}
	cmd.Flags().Bool("merge-skip-errors", false, "Log and skip unreadable inputs")
	return cmd
}

func newEncodeCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "encode FILE",
		Short: "Encode a document into the binary map format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := loadSource(cmd, args[0])
			if err != nil {
				return err
			}
			m, err := powerkit.NewMapFrom(src)
			if err != nil {
				return err
			}
			data, err := m.Serialize()
			if err != nil {
				return errors.Wrapf(err, "encode %s", args[0])
			}
			log.Info().
				Str("file", args[0]).
				Int("keys", m.Count()).
				Str("size", humanize.Bytes(uint64(len(data)))).
				Msg("Encoded map")

			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return errors.Wrap(err, "write output")
			}
			return errors.Wrapf(os.WriteFile(out, data, 0o644), "write %s", out)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Destination file, stdout when empty")
	return cmd
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode FILE",
		Short: "Decode a binary map and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			m := powerkit.NewMap()
			if err := m.Deserialize(data); err != nil {
				return errors.Wrapf(err, "decode %s", args[0])
			}
			log.Info().
				Str("file", args[0]).
				Int("keys", m.Count()).
				Str("size", humanize.Bytes(uint64(len(data)))).
				Msg("Decoded map")
			return render(cmd.OutOrStdout(), a.cfg.Output, m)
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		return data, errors.Wrap(err, "read stdin")
	}
	data, err := os.ReadFile(path)
	return data, errors.Wrapf(err, "read %s", path)
}

// loadSource parses a YAML or JSON document into a merge source.
func loadSource(cmd *cobra.Command, path string) (powerkit.Source, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	if doc == nil {
		return powerkit.Mapping{}, nil
	}
	src, err := powerkit.SourceOf(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return src, nil
}
