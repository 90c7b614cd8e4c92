package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowmetric/flowmetric/pkg/batch"
)

// batchCommand creates the "batch" command.
func (c *CLI) batchCommand() *cobra.Command {
	var (
		candidateDir string
		referenceDir string
		outputPath   string
		mongoURI     string
		mongoDB      string
		mongoColl    string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Score a directory of candidate graphs against references",
		Long: `Batch pairs candidate and reference graph files by name, scores each
pair, and writes a JSON report with per-pair results and aggregate means.

Files are matched on their base name: candidates/foo.json is scored against
references/foo.json. Files without a counterpart are skipped with a warning.

Results can additionally be persisted to a MongoDB collection with the
--mongo-uri flag.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			pairs, err := batch.DiscoverPairs(candidateDir, referenceDir, logger)
			if err != nil {
				return err
			}
			printInfo("Discovered %d pair(s)", len(pairs))

			evaluator, _, err := c.newEvaluator()
			if err != nil {
				return err
			}

			var sink batch.Sink
			if mongoURI != "" {
				mongoSink, err := batch.NewMongoSink(ctx, mongoURI, mongoDB, mongoColl)
				if err != nil {
					return err
				}
				defer mongoSink.Close(ctx)
				sink = mongoSink
			}

			prog := newProgress(logger)
			runner := batch.NewRunner(evaluator, sink, logger)
			records, err := runner.Run(ctx, pairs)
			if err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Scored %d pair(s)", len(records)))

			report := batch.NewReport(records)
			if err := report.WriteFile(outputPath); err != nil {
				return err
			}

			if report.Summary.Failed > 0 {
				printWarning("%d of %d pair(s) failed", report.Summary.Failed, report.Summary.Total)
			} else {
				printSuccess("Scored %d pair(s)", report.Summary.Total)
			}
			printKeyValue("mean node f1", fmt.Sprintf("%.4f", report.Summary.MeanNode))
			printKeyValue("mean graph f1", fmt.Sprintf("%.4f", report.Summary.MeanGraph))
			printFile(outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&candidateDir, "candidates", "", "directory of candidate graph files")
	cmd.Flags().StringVar(&referenceDir, "references", "", "directory of reference graph files")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "report.json", "path for the JSON report")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB connection URI for result persistence")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", "flowmetric", "MongoDB database name")
	cmd.Flags().StringVar(&mongoColl, "mongo-collection", "results", "MongoDB collection name")
	cmd.MarkFlagRequired("candidates")
	cmd.MarkFlagRequired("references")

	return cmd
}
