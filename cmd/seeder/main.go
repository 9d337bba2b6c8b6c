package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/voxnota"
)

// transcripts is built-in seed data resembling short captured utterances.
var transcripts = []string{
	"Remind me to call the dentist tomorrow morning about the appointment.",
	"The quarterly budget meeting moved to Thursday afternoon. Finance wants updated projections.",
	"Picked up groceries after work. The farmers market had fresh strawberries again.",
	"The contractor said the kitchen renovation starts next Monday. Materials arrive Friday.",
	"Discussed the database migration plan with the platform team. Rollback window is two hours.",
	"Mom called about the family reunion in August. She wants everyone to bring photographs.",
	"The mechanic found the coolant leak. Replacement radiator costs about four hundred dollars.",
	"Planning the hiking trip for the long weekend. Trailhead parking fills early.",
	"The landlord approved the lease renewal. Rent increases three percent in January.",
	"Interview debrief went well. The candidate showed strong distributed systems experience.",
	"The pediatrician recommended scheduling the followup vaccination before school starts.",
	"Flight to Lisbon got rescheduled. The connection through Madrid leaves an hour earlier.",
	"The book club picked a novel about lighthouse keepers for next month.",
	"Insurance adjuster called about the windshield claim. Deductible applies after repairs.",
	"The garden needs mulch before the frost. Tomatoes did well this season.",
	"Standup notes: deployment blocked on certificate rotation, retry tonight after traffic drops.",
	"The orchestra tickets went on sale this morning. Balcony seats sold out immediately.",
	"Neighbor offered to watch the dogs during the conference trip next week.",
	"The physical therapist added new shoulder exercises. Progress check in three weeks.",
	"Recipe notes: the sourdough needs a longer proof when the kitchen runs cold.",
}

var (
	seedFileName = flag.String("src", "", "file of seed transcripts, one per line")
	dbPath       = flag.String("db", "./voxnota.sqlite", "path to SQLite database file")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

func main() {
	engine, err := voxnota.NewEngine(*dbPath, voxnota.WithoutEmbeddings())
	if err != nil {
		panic(err)
	}
	defer engine.Close()

	ctx := context.Background()

	var source iter.Seq[string]
	if seedFileName != nil && *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(transcripts)
	}

	// Ingest in batches of 5
	batch := make([]string, 0, 5)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		for _, item := range engine.Pipeline().IngestBatch(ctx, batch, time.Time{}) {
			if item.Err != nil {
				slog.Error("failed to seed transcript", "err", item.Err)
			}
		}
		batch = batch[:0]
	}

	count := 0
	for line := range source {
		batch = append(batch, line)
		count++
		if len(batch) == cap(batch) {
			flush()
		}
	}
	flush()

	slog.Info("seeding complete", "transcripts", count)
}
