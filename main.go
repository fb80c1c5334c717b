package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/commentwatch/youtube-comment-scraper/client"
	"github.com/commentwatch/youtube-comment-scraper/common"
	"github.com/commentwatch/youtube-comment-scraper/dashboard"
	"github.com/commentwatch/youtube-comment-scraper/export"
	"github.com/commentwatch/youtube-comment-scraper/extract"
	"github.com/commentwatch/youtube-comment-scraper/model"
	"github.com/commentwatch/youtube-comment-scraper/sentiment"
	"github.com/commentwatch/youtube-comment-scraper/storage"
	"github.com/commentwatch/youtube-comment-scraper/validator"
)

var version = "dev"

// Exit codes per error kind, so scripts can tell failures apart.
const (
	exitOK               = 0
	exitGeneric          = 1
	exitInvalidReference = 2
	exitNotFound         = 3
	exitPermissionDenied = 4
	exitQuotaExceeded    = 5
	exitStorage          = 6
	exitExport           = 7
)

var (
	configPath string
	logLevel   string
	cfg        common.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("Command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCodeFor(err))
	}
}

var rootCmd = &cobra.Command{
	Use:           "ytscraper",
	Short:         "YouTube comment extraction and sentiment analysis",
	Long:          "ytscraper extracts comments from YouTube videos, filters and deduplicates them, scores sentiment, and stores results in a local SQLite database.",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := zerolog.ParseLevel(strings.ToLower(logLevel))
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", logLevel, err)
		}
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

		if cmd.Name() == "version" {
			return nil
		}
		cfg, err = common.LoadConfig(configPath)
		if err != nil {
			return err
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ytscraper %s\n", version)
	},
}

var runCmd = &cobra.Command{
	Use:   "run <video-url-or-id>",
	Short: "Extract and analyze comments for one video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		maxComments, _ := cmd.Flags().GetInt("max-comments")
		order, _ := cmd.Flags().GetString("order")
		exportFormat, _ := cmd.Flags().GetString("export")
		noSave, _ := cmd.Flags().GetBool("no-save")

		if exportFormat != "" && exportFormat != "csv" && exportFormat != "json" {
			return fmt.Errorf("--export must be csv or json, got %q", exportFormat)
		}
		if order != client.OrderRelevance && order != client.OrderTime {
			return fmt.Errorf("--order must be relevance or time, got %q", order)
		}

		yc, err := client.NewYouTubeDataClient(cfg)
		if err != nil {
			return err
		}
		ctx := context.Background()
		if err := yc.Connect(ctx); err != nil {
			return err
		}

		var store *storage.Store
		if !noSave {
			store, err = storage.Open(cfg.DatabasePath)
			if err != nil {
				return err
			}
			defer store.Close()
		}

		extractor := extract.New(cfg, yc, validator.New(cfg), sentiment.NewScorer(), store)
		result, err := extractor.Extract(ctx, args[0], extract.Options{
			MaxComments:    maxComments,
			Order:          order,
			Save:           !noSave,
			ScoreSentiment: true,
		})
		return finishRun(result, err, exportFormat, cfg.ExportsPath, yc.QuotaUsed())
	},
}

// finishRun reports and exports whatever the extractor collected, even when
// the run ended in an error: a partial set cut short mid-pagination is still
// worth summarizing and exporting. The run error, if any, is what the caller
// gets back.
func finishRun(result *model.ExtractionResult, runErr error, exportFormat, exportsPath string, quotaUsed int) error {
	if result == nil {
		return runErr
	}
	if runErr != nil {
		fmt.Printf("Extraction incomplete: %v\n", runErr)
	}

	printSummary(result, quotaUsed)

	if exportFormat != "" {
		path, err := exportResult(result, exportFormat, exportsPath)
		if err != nil {
			if runErr == nil {
				return err
			}
			log.Warn().Err(err).Msg("Export failed after extraction error")
		} else {
			fmt.Printf("Exported to %s\n", path)
		}
	}
	return runErr
}

func exportResult(result *model.ExtractionResult, format, dir string) (string, error) {
	exporter, err := export.New(dir)
	if err != nil {
		return "", err
	}
	switch format {
	case "csv":
		return exporter.ExportCSV(result)
	default:
		return exporter.ExportJSON(result)
	}
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Enumerate stored videos",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		videos, err := store.ListVideos()
		if err != nil {
			return err
		}
		if len(videos) == 0 {
			fmt.Println("No videos stored yet.")
			return nil
		}
		for _, v := range videos {
			fmt.Printf("%s  %-50.50s  %s  views=%d comments=%d\n",
				v.VideoID, v.Title, v.ChannelTitle, v.ViewCount, v.CommentCount)
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info <video-id>",
	Short: "Print stored metadata and summary stats for one video",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		videoID := args[0]
		video, err := store.GetVideo(videoID)
		if err != nil {
			return err
		}
		stats, err := store.GetCommentStats(videoID)
		if err != nil {
			return err
		}

		fmt.Printf("Video:      %s\n", video.Title)
		fmt.Printf("Channel:    %s (%s)\n", video.ChannelTitle, video.ChannelID)
		fmt.Printf("Published:  %s\n", video.PublishedAt.Format("2006-01-02"))
		fmt.Printf("Views:      %d  Likes: %d  Comments: %d\n",
			video.ViewCount, video.LikeCount, video.CommentCount)
		fmt.Printf("Extracted:  %s\n", video.ExtractedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Stored:     %d comments (%d replies)\n", stats.CommentCount, stats.ReplyCount)
		if stats.ScoredCount > 0 {
			fmt.Printf("Sentiment:  mean polarity %.3f, mean compound %.3f\n",
				stats.MeanPolarity, stats.MeanCompound)
			for _, label := range []string{model.SentimentPositive, model.SentimentNeutral, model.SentimentNegative} {
				fmt.Printf("  %-9s %d\n", label+":", stats.LabelCounts[label])
			}
		}
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the results dashboard over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		listen, _ := cmd.Flags().GetString("listen")
		if listen == "" {
			listen = cfg.ListenAddr
		}

		store, err := storage.Open(cfg.DatabasePath)
		if err != nil {
			return err
		}
		defer store.Close()

		return dashboard.New(store).ListenAndServe(listen)
	},
}

func printSummary(result *model.ExtractionResult, quotaUsed int) {
	fmt.Printf("Video:     %s\n", result.Video.Title)
	fmt.Printf("Channel:   %s\n", result.Video.ChannelTitle)
	fmt.Printf("Returned:  %d\n", result.Stats.Returned)
	fmt.Printf("Accepted:  %d\n", result.Stats.Accepted)
	fmt.Printf("Rejected:  %d\n", result.Stats.Rejected)
	for reason, count := range result.Stats.RejectedByRule {
		fmt.Printf("  %-10s %d\n", reason+":", count)
	}
	if result.Stats.Duplicates > 0 {
		fmt.Printf("Duplicates: %d\n", result.Stats.Duplicates)
	}
	fmt.Printf("Quota used: %d units\n", quotaUsed)
}

// exitCodeFor maps the error taxonomy onto distinct exit codes.
func exitCodeFor(err error) int {
	var invalidRef *common.ErrInvalidReference
	if errors.As(err, &invalidRef) {
		return exitInvalidReference
	}

	switch {
	case client.IsNotFound(err), errors.Is(err, storage.ErrVideoNotFound):
		return exitNotFound
	case client.IsPermissionDenied(err):
		return exitPermissionDenied
	case client.IsQuotaExceeded(err):
		return exitQuotaExceeded
	}

	var storageErr *storage.StorageError
	if errors.As(err, &storageErr) {
		return exitStorage
	}
	var exportErr *export.ExportError
	if errors.As(err, &exportErr) {
		return exitExport
	}
	return exitGeneric
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace|debug|info|warn|error)")

	runCmd.Flags().Int("max-comments", 0, "maximum accepted comments (default from config)")
	runCmd.Flags().String("order", client.OrderRelevance, "comment order: relevance or time")
	runCmd.Flags().String("export", "", "export format: csv or json")
	runCmd.Flags().Bool("no-save", false, "skip persisting results to the database")

	serveCmd.Flags().String("listen", "", "listen address (default from config)")

	rootCmd.AddCommand(runCmd, listCmd, infoCmd, serveCmd, versionCmd)
}
