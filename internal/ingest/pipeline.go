package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/zaphkiel/internal/model"
)

// Source supplies raw VRCX rows.
type Source interface {
	ReadJoinLeave(ctx context.Context) ([]model.JoinLeaveRow, error)
	ReadLocations(ctx context.Context) ([]model.LocationRow, error)
	FriendLogTables(ctx context.Context) ([]string, error)
	ReadFriendLog(ctx context.Context, table string) ([]model.FriendLogRow, error)
}

// Sink persists normalized records and run bookkeeping.
type Sink interface {
	BeginRun(ctx context.Context, runID string, startedAt time.Time) error
	WriteJoinLeave(ctx context.Context, runID string, records []model.GamelogJoinLeave) error
	WriteLocations(ctx context.Context, runID string, records []model.GamelogLocation) error
	WriteFriendTrust(ctx context.Context, runID, sourceTable string, records []model.FriendTrust) error
	WriteFailures(ctx context.Context, runID string, failures []model.Failure) error
	FinishRun(ctx context.Context, runID string, finishedAt time.Time, converted, failed int) error
}

// Options configures a Pipeline. The zero value uses the default policies,
// GOMAXPROCS workers, friend table discovery and UUIDv7 run ids.
type Options struct {
	Workers int

	JoinLeavePolicy   *model.Policy
	LocationPolicy    *model.Policy
	FriendTrustPolicy *model.Policy

	// FriendTables lists the friend log tables to read. When empty, the
	// source is asked to discover them.
	FriendTables []string

	RunIDs RunIDGenerator
	Now    func() time.Time
	Logger *slog.Logger
}

// TableReport summarizes one source table within a run.
type TableReport struct {
	Table     string        `json:"table"`
	Rows      int           `json:"rows"`
	Converted int           `json:"converted"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"-"`
}

// Report summarizes a pipeline run.
type Report struct {
	RunID    string          `json:"run_id"`
	Tables   []TableReport   `json:"tables"`
	Failures []model.Failure `json:"failures,omitempty"`
}

// Converted returns the number of records written across all tables.
func (r Report) Converted() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Converted
	}
	return n
}

// Failed returns the number of rows that failed to convert.
func (r Report) Failed() int {
	return len(r.Failures)
}

// Pipeline moves rows from a Source to a Sink through the converters.
type Pipeline struct {
	src  Source
	sink Sink
	opts Options
}

// NewPipeline creates a pipeline, filling unset options with defaults.
func NewPipeline(src Source, sink Sink, opts Options) *Pipeline {
	if opts.JoinLeavePolicy == nil {
		pol := model.DefaultJoinLeavePolicy()
		opts.JoinLeavePolicy = &pol
	}
	if opts.LocationPolicy == nil {
		pol := model.DefaultLocationPolicy()
		opts.LocationPolicy = &pol
	}
	if opts.FriendTrustPolicy == nil {
		pol := model.DefaultFriendTrustPolicy()
		opts.FriendTrustPolicy = &pol
	}
	if opts.RunIDs == nil {
		opts.RunIDs = UUIDv7Generator{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{src: src, sink: sink, opts: opts}
}

// Run ingests every table once. Row failures are recorded in the report and
// the sink; a returned error means a read, a write or ctx failed and the run
// was abandoned.
func (p *Pipeline) Run(ctx context.Context) (Report, error) {
	runID := p.opts.RunIDs.Generate()
	log := p.opts.Logger.With("run_id", runID)

	if err := p.sink.BeginRun(ctx, runID, p.opts.Now()); err != nil {
		return Report{}, fmt.Errorf("begin run: %w", err)
	}
	log.Info("ingest started")

	report := Report{RunID: runID}
	record := func(tr TableReport, failures []model.Failure) {
		report.Tables = append(report.Tables, tr)
		report.Failures = append(report.Failures, failures...)
		log.Info("table ingested",
			"table", tr.Table,
			"rows", tr.Rows,
			"converted", tr.Converted,
			"failed", tr.Failed,
			"duration", tr.Duration,
		)
		for _, f := range failures {
			log.Debug("row failed", "table", f.Table, "row_id", f.RowID, "field", f.Field, "code", f.Code, "reason", f.Reason)
		}
	}

	jlPol := *p.opts.JoinLeavePolicy
	tr, failures, err := runStage(ctx, p, model.TableJoinLeave, runID,
		p.src.ReadJoinLeave,
		func(r model.JoinLeaveRow) (model.GamelogJoinLeave, error) { return model.ConvertJoinLeave(r, jlPol) },
		func(ctx context.Context, recs []model.GamelogJoinLeave) error {
			return p.sink.WriteJoinLeave(ctx, runID, recs)
		},
	)
	if err != nil {
		return report, err
	}
	record(tr, failures)

	locPol := *p.opts.LocationPolicy
	tr, failures, err = runStage(ctx, p, model.TableLocation, runID,
		p.src.ReadLocations,
		func(r model.LocationRow) (model.GamelogLocation, error) { return model.ConvertLocation(r, locPol) },
		func(ctx context.Context, recs []model.GamelogLocation) error {
			return p.sink.WriteLocations(ctx, runID, recs)
		},
	)
	if err != nil {
		return report, err
	}
	record(tr, failures)

	tables := p.opts.FriendTables
	if len(tables) == 0 {
		tables, err = p.src.FriendLogTables(ctx)
		if err != nil {
			return report, fmt.Errorf("discover friend log tables: %w", err)
		}
	}
	ftPol := *p.opts.FriendTrustPolicy
	for _, table := range tables {
		tr, failures, err = runStage(ctx, p, table, runID,
			func(ctx context.Context) ([]model.FriendLogRow, error) { return p.src.ReadFriendLog(ctx, table) },
			func(r model.FriendLogRow) (model.FriendTrust, error) { return model.ConvertFriendTrust(r, ftPol) },
			func(ctx context.Context, recs []model.FriendTrust) error {
				return p.sink.WriteFriendTrust(ctx, runID, table, recs)
			},
		)
		if err != nil {
			return report, err
		}
		record(tr, failures)
	}

	if err := p.sink.FinishRun(ctx, runID, p.opts.Now(), report.Converted(), report.Failed()); err != nil {
		return report, fmt.Errorf("finish run: %w", err)
	}
	log.Info("ingest finished", "converted", report.Converted(), "failed", report.Failed())

	return report, nil
}

// runStage reads, converts and writes one table.
func runStage[R, M any](
	ctx context.Context,
	p *Pipeline,
	table, runID string,
	read func(context.Context) ([]R, error),
	convert func(R) (M, error),
	write func(context.Context, []M) error,
) (TableReport, []model.Failure, error) {
	start := p.opts.Now()

	rows, err := read(ctx)
	if err != nil {
		return TableReport{}, nil, fmt.Errorf("read %s: %w", table, err)
	}

	batch, err := ConvertAll(ctx, rows, convert, p.opts.Workers)
	if err != nil {
		return TableReport{}, nil, fmt.Errorf("convert %s: %w", table, err)
	}

	// Friend log failures name the logical table; report the physical one.
	for i := range batch.Failures {
		batch.Failures[i].Table = table
	}

	if err := write(ctx, batch.Records); err != nil {
		return TableReport{}, nil, fmt.Errorf("write %s: %w", table, err)
	}
	if len(batch.Failures) > 0 {
		if err := p.sink.WriteFailures(ctx, runID, batch.Failures); err != nil {
			return TableReport{}, nil, fmt.Errorf("write %s failures: %w", table, err)
		}
	}

	return TableReport{
		Table:     table,
		Rows:      len(rows),
		Converted: len(batch.Records),
		Failed:    len(batch.Failures),
		Duration:  p.opts.Now().Sub(start),
	}, batch.Failures, nil
}
