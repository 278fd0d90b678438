package main

import (
	"errors"
	"fmt"

	"github.com/OFFIS-RIT/actorlink/internal/queue"
	"github.com/OFFIS-RIT/actorlink/internal/worker"
	"github.com/OFFIS-RIT/actorlink/pkg/ingest"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	ingestFrom    int64
	ingestTo      int64
	ingestEnqueue bool
	ingestReplay  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load movies and casts from the catalog into the relation store",
	Long: `Ingest catalog IDs [from, to) into the relation store.

Without --from/--to every range of the ingest config is processed. With
--enqueue the range is published to the worker queue instead of run here.
With --replay the store is rebuilt from archived snapshots and the catalog
is not called.

Examples:
  actorlink ingest --from 232000 --to 233000
  actorlink ingest --from 232000 --to 262000 --enqueue
  actorlink ingest --replay`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().Int64Var(&ingestFrom, "from", 0, "first catalog ID")
	ingestCmd.Flags().Int64Var(&ingestTo, "to", 0, "catalog ID after the last one")
	ingestCmd.Flags().BoolVar(&ingestEnqueue, "enqueue", false, "publish the range to the worker queue")
	ingestCmd.Flags().BoolVar(&ingestReplay, "replay", false, "rebuild the store from archived snapshots")
	ingestCmd.MarkFlagsMutuallyExclusive("enqueue", "replay")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	hasRange := cmd.Flags().Changed("from") || cmd.Flags().Changed("to")
	if hasRange && ingestTo <= ingestFrom {
		return fmt.Errorf("invalid range [%d, %d)", ingestFrom, ingestTo)
	}

	if ingestEnqueue {
		if !hasRange {
			return errors.New("--enqueue needs --from and --to")
		}
		conn, err := queue.Dial()
		if err != nil {
			return err
		}
		defer conn.Close()
		ch, err := conn.Channel()
		if err != nil {
			return err
		}
		defer ch.Close()
		if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
			return err
		}
		msg := queue.IngestJobMsg{JobID: uuid.NewString(), From: ingestFrom, To: ingestTo, RequestedBy: "cli"}
		if err := queue.PublishIngestJob(ctx, ch, msg); err != nil {
			return err
		}
		fmt.Fprintln(out, styles.OK.Render("Queued ingest job "+msg.JobID))
		return nil
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	env := worker.EnvFromOS()

	if ingestReplay {
		archive, err := worker.NewArchive(ctx, env)
		if err != nil {
			return err
		}
		if archive == nil {
			return errors.New("--replay needs AWS_BUCKET")
		}
		saved, err := ingest.Replay(ctx, archive, st, env.BatchSize)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, styles.OK.Render(fmt.Sprintf("Replayed %d snapshots", saved)))
		return nil
	}

	pipeline, err := worker.NewPipeline(ctx, env, st)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	var reports []ingest.Report
	if hasRange {
		rep, err := pipeline.Run(ctx, ingestFrom, ingestTo)
		reports = append(reports, rep)
		if err != nil {
			return err
		}
	} else {
		reports, err = pipeline.RunAll(ctx)
		if err != nil {
			return err
		}
	}
	for _, rep := range reports {
		fmt.Fprintln(out, renderReport(rep))
	}
	return nil
}
