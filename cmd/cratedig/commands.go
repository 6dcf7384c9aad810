package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ewilliams-labs/cratedig/internal/core/domain"
)

const yearsShown = 12

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the Spotify connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := a.Discovery.Check(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Connected as %s (%s)\n", displayName(res.User), res.User.ID)
			fmt.Fprintf(out, "Top artists on first page: %d\n", res.TopArtists)
			return nil
		},
	}
}

func discoverCmd() *cobra.Command {
	var (
		mood         string
		year         int
		artistID     string
		seed         string
		sortByTaste  bool
		minObscurity int
	)

	names := make([]string, 0, len(domain.Strategies))
	for _, s := range domain.Strategies {
		names = append(names, string(s))
	}

	cmd := &cobra.Command{
		Use:       "discover [strategy]",
		Short:     "Run one discovery strategy",
		Long:      "Run one discovery strategy: " + strings.Join(names, ", "),
		Args:      cobra.ExactArgs(1),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			strategy, err := domain.ParseStrategy(args[0])
			if err != nil {
				return err
			}

			req := domain.Request{
				Strategy:    strategy,
				Mood:        domain.Mood(mood),
				Year:        year,
				ArtistID:    artistID,
				SeedArtist:  seed,
				SortByTaste: sortByTaste,
			}
			if cmd.Flags().Changed("min-obscurity") {
				req.MinObscurity = &minObscurity
			}

			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.Discovery.Run(cmd.Context(), req)
			if err != nil {
				// the failed result carries the message meant for the user
				return errors.New(result.Message)
			}
			return textSink{w: cmd.OutOrStdout()}.RenderRanked(cmd.Context(), result)
		},
	}

	cmd.Flags().StringVarP(&mood, "mood", "m", "", "mood for the mood strategy")
	cmd.Flags().IntVarP(&year, "year", "y", 0, "year for the time-machine strategy")
	cmd.Flags().StringVar(&artistID, "artist", "", "artist id for graph and artist-tracks")
	cmd.Flags().StringVarP(&seed, "seed", "s", "", "seed artist name for graph, matched against your top artists")
	cmd.Flags().BoolVarP(&sortByTaste, "taste", "t", false, "order tracks by similarity to your taste profile")
	cmd.Flags().IntVar(&minObscurity, "min-obscurity", 0, "override the stored obscurity threshold (0-100)")
	return cmd
}

func yearsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "Show the release years your saved library leans on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			hist, err := a.Discovery.Years(cmd.Context())
			if err != nil {
				return err
			}
			renderYears(cmd.OutOrStdout(), hist.Top(yearsShown))
			return nil
		},
	}
}

func tasteCmd() *cobra.Command {
	var rebuild bool

	cmd := &cobra.Command{
		Use:   "taste",
		Short: "Show your taste profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			profile, err := a.Discovery.BuildTaste(cmd.Context(), rebuild)
			if err != nil {
				return err
			}
			renderTaste(cmd.OutOrStdout(), profile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "ignore the cached profile")
	return cmd
}

func artistsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "artists",
		Short: "List your top artists (ids for --artist)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			top, err := a.Discovery.TopArtists(cmd.Context())
			if err != nil {
				return err
			}
			if len(top) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No top artists yet. Listen to more music on Spotify.")
				return nil
			}
			if limit > 0 && len(top) > limit {
				top = top[:limit]
			}
			renderArtists(cmd.OutOrStdout(), top)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of artists to show")
	return cmd
}

func settingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the discovery settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Settings.CurrentSettings(cmd.Context())
			if err != nil {
				return err
			}
			renderSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.AddCommand(settingsSetCmd())
	return cmd
}

func settingsSetCmd() *cobra.Command {
	var bias, days, obscurity int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change one or more discovery settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := getApp()
			if err != nil {
				return err
			}
			defer a.Close()

			s, err := a.Settings.CurrentSettings(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("popularity-bias") {
				s.PopularityBias = bias
			}
			if cmd.Flags().Changed("freshness-days") {
				s.FreshnessDays = days
			}
			if cmd.Flags().Changed("min-obscurity") {
				s.ObscurityMinScore = obscurity
			}
			if err := a.Settings.SaveSettings(cmd.Context(), s); err != nil {
				return err
			}
			renderSettings(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().IntVar(&bias, "popularity-bias", 0, "0-100; higher keeps only less popular candidates")
	cmd.Flags().IntVar(&days, "freshness-days", 0, "release window for the freshness strategy")
	cmd.Flags().IntVar(&obscurity, "min-obscurity", 0, "minimum obscurity score for track results (0-100)")
	return cmd
}

func displayName(u domain.User) string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.ID
}
