package main

import (
	"fmt"
	"os"
	"runtime"
	"slices"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quarrydb/quarry/pkg/aggregate"
	"github.com/quarrydb/quarry/pkg/arena"
	"github.com/quarrydb/quarry/pkg/arrowconv"
	"github.com/quarrydb/quarry/pkg/column"
	"github.com/quarrydb/quarry/pkg/logger"
)

var version = "0.1.0"

func main() {
	var logLevel string

	root := &cobra.Command{
		Use:   "quarry",
		Short: "Quarry - typed columnar kernel tooling",
		Long: `Quarry inspects Arrow IPC files through the typed column model:
each array is ingested into its column type, reported, and optionally
folded through the group-by primitives.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.Init(logger.Config{Level: logLevel, Encoding: "json"})
		},
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("Quarry v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	inspectCmd := &cobra.Command{
		Use:   "inspect <file.arrow>",
		Short: "Ingest every column of an Arrow IPC file and report its schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return inspect(args[0])
		},
	}
	root.AddCommand(inspectCmd)

	var groupBy, sums []string
	aggCmd := &cobra.Command{
		Use:   "aggregate <file.arrow>",
		Short: "Group rows by key columns and report per-group counts and sums",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAggregate(args[0], groupBy, sums)
		},
	}
	aggCmd.Flags().StringSliceVar(&groupBy, "group-by", nil, "Key column names (required)")
	aggCmd.Flags().StringSliceVar(&sums, "sum", nil, "Numeric column names to sum per group")
	_ = aggCmd.MarkFlagRequired("group-by")
	root.AddCommand(aggCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readColumns ingests every column of every record batch in an Arrow
// IPC file. Batches are concatenated per field through the nullable
// path, so files with validity bitmaps still load.
func readColumns(path string, a *arena.Arena) ([]column.ColumnField, []column.NullableColumn, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	reader, err := ipc.NewFileReader(f, ipc.WithAllocator(memory.NewGoAllocator()))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	defer reader.Close()

	schema := reader.Schema()
	fields := make([]column.ColumnField, len(schema.Fields()))
	cols := make([]column.NullableColumn, len(schema.Fields()))

	for batch := 0; batch < reader.NumRecords(); batch++ {
		rec, err := reader.Record(batch)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read batch %d: %w", batch, err)
		}
		for i := 0; i < int(rec.NumCols()); i++ {
			col, err := ingestArray(a, rec.Column(i))
			if err != nil {
				return nil, nil, fmt.Errorf("column %q: %w", schema.Field(i).Name, err)
			}
			if batch == 0 {
				fields[i] = column.ColumnField{Name: schema.Field(i).Name, Type: col.Values.Type()}
				cols[i] = col
			} else {
				merged, err := concatNullable(a, cols[i], col)
				if err != nil {
					return nil, nil, fmt.Errorf("column %q: %w", schema.Field(i).Name, err)
				}
				cols[i] = merged
			}
		}
	}
	return fields, cols, nil
}

// ingestArray precomputes hash scalars for string and binary arrays so
// the nullable path accepts them.
func ingestArray(a *arena.Arena, arr arrow.Array) (column.NullableColumn, error) {
	scals := arrowconv.HashScalars(a, arr)
	return arrowconv.ToNullableColumn(a, arr, 0, arr.Len(), scals)
}

// concatNullable appends b to a by round-tripping through owned
// columns. Batch boundaries are invisible to the caller.
func concatNullable(ar *arena.Arena, a, b column.NullableColumn) (column.NullableColumn, error) {
	merged, err := column.ConcatOwned(a.Values.ToOwned(), b.Values.ToOwned())
	if err != nil {
		return column.NullableColumn{}, err
	}
	var presence []bool
	if a.Presence() != nil || b.Presence() != nil {
		presence = make([]bool, 0, a.Len()+b.Len())
		for i := 0; i < a.Len(); i++ {
			presence = append(presence, !a.IsNull(i))
		}
		for i := 0; i < b.Len(); i++ {
			presence = append(presence, !b.IsNull(i))
		}
	}
	return column.NullableColumnWithPresence(merged.View(ar), presence)
}

func inspect(path string) error {
	log := logger.Get().With(zap.String("component", "quarry-inspect"), zap.String("file", path))
	a := arena.New()

	fields, cols, err := readColumns(path, a)
	if err != nil {
		return err
	}
	for i, f := range fields {
		nulls := 0
		for j := 0; j < cols[i].Len(); j++ {
			if cols[i].IsNull(j) {
				nulls++
			}
		}
		log.Info("ingested column",
			zap.String("name", f.Name),
			zap.Stringer("type", f.Type),
			zap.Int("rows", cols[i].Len()),
			zap.Int("nulls", nulls))
	}
	log.Info("ingestion complete",
		zap.Int("columns", len(fields)),
		zap.Int64("arena_allocs", a.Allocs()),
		zap.Int64("arena_bytes", a.Bytes()))

	out, err := json.MarshalIndent(fields, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runAggregate(path string, groupBy, sums []string) error {
	log := logger.Get().With(zap.String("component", "quarry-aggregate"), zap.String("file", path))
	a := arena.New()

	fields, cols, err := readColumns(path, a)
	if err != nil {
		return err
	}
	byName := func(name string) (column.Column, error) {
		for i, f := range fields {
			if f.Name == name {
				return cols[i].Values, nil
			}
		}
		return column.Column{}, fmt.Errorf("no column named %q", name)
	}

	var keyCols, sumCols []column.Column
	for _, name := range groupBy {
		c, err := byName(name)
		if err != nil {
			return err
		}
		keyCols = append(keyCols, c)
	}
	for _, name := range sums {
		c, err := byName(name)
		if err != nil {
			return err
		}
		sumCols = append(sumCols, c)
	}

	n := 0
	if len(keyCols) > 0 {
		n = keyCols[0].Len()
	}
	selection := slices.Repeat([]bool{true}, n)

	result, err := aggregate.AggregateColumns(a, keyCols, sumCols, nil, nil, selection)
	if err != nil {
		return err
	}

	for g := range result.Count {
		fields := []zap.Field{zap.Int("group", g), zap.Int64("count", result.Count[g])}
		for k, name := range groupBy {
			s, _ := result.GroupByColumns[k].ScalarAt(g)
			fields = append(fields, zap.String("key_"+name, s.String()))
		}
		for k, name := range sums {
			fields = append(fields, zap.String("sum_"+name, result.SumColumns[k][g].String()))
		}
		log.Info("group", fields...)
	}
	log.Info("aggregation complete", zap.Int("groups", len(result.Count)))
	return logger.Sync()
}
