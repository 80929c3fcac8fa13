package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var (
	linkTitle  string
	linkArtist string
	withLinks  bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <track-url>",
	Short: "Resolve a track URL into title, artist and cover",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(false)
		e, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		track, err := e.tracks.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !withLinks {
			return printJSON(cmd.OutOrStdout(), track)
		}

		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"track": track,
			"links": e.links.Links(cmd.Context(), args[0], track.Title, track.Artist),
		})
	},
}

var linksCmd = &cobra.Command{
	Use:   "links <track-url>",
	Short: "List links to the same song on other platforms",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(false)
		e, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"links": e.links.Links(cmd.Context(), args[0], linkTitle, linkArtist),
		})
	},
}

var playlistCmd = &cobra.Command{
	Use:   "playlist <playlist-url>",
	Short: "Expand a playlist URL into its tracks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		setupLogger(false)
		e, err := newEngine(cfg)
		if err != nil {
			return err
		}
		defer e.Close()

		playlist, err := e.playlists.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), playlist)
	},
}

func init() {
	resolveCmd.Flags().BoolVar(&withLinks, "links", false, "also list cross-platform links")
	linksCmd.Flags().StringVar(&linkTitle, "title", "", "song title used for search fallbacks")
	linksCmd.Flags().StringVar(&linkArtist, "artist", "", "artist used for search fallbacks")
}

func printJSON(w io.Writer, v interface{}) error {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}
