// Package pipeline runs one reconciliation over loaded source tables:
// preprocessing, classification, joins, per-source aggregation and the
// supplementary analyses. Only a missing source aborts a run, and that
// happens before Run is called.
package pipeline

import (
	"context"
	"fmt"

	"dtrecon/internal/aggregate"
	"dtrecon/internal/analysis"
	"dtrecon/internal/classify"
	"dtrecon/internal/logger"
	"dtrecon/internal/match"
	"dtrecon/internal/metrics"
	"dtrecon/internal/model"
	"dtrecon/internal/preprocess"
	"dtrecon/internal/source"
	"dtrecon/internal/state"
)

// Options tunes the matching stages.
type Options struct {
	DowntimeThreshold float64
	TopN              int
}

// Output is everything a run produces.
type Output struct {
	Comparison  aggregate.Comparison
	TopMatches  []analysis.TopMatch
	Priorities  []analysis.PriorityStat
	Correlation model.Result[analysis.Correlation]
	Matches     model.Result[[]match.DowntimeMatch]
}

type Pipeline struct {
	log        logger.Logger
	metrics    *metrics.Registry
	classifier *classify.Classifier
	store      state.Store
	opts       Options
}

// New wires a pipeline. store receives the date-window buckets and must be
// empty; use a fresh store per run.
func New(log logger.Logger, m *metrics.Registry, c *classify.Classifier, store state.Store, opts Options) *Pipeline {
	if c == nil {
		c = classify.Default()
	}
	return &Pipeline{log: log, metrics: m, classifier: c, store: store, opts: opts}
}

// Run reconciles the tables of set. Missing columns, empty joins and parse
// failures degrade the output; the returned error is reserved for bucket
// store failures.
func (p *Pipeline) Run(ctx context.Context, set *source.Set) (*Output, error) {
	for name, t := range map[string]*source.Table{
		source.Orders:        set.Orders,
		source.MachineLog:    set.MachineLog,
		source.Notifications: set.Notifications,
		source.FailureCodes:  set.FailureCodes,
	} {
		p.metrics.RowsLoaded.WithLabelValues(name).Add(float64(t.Len()))
	}

	orders := p.prepareOrders(logger.WithStage(ctx, "orders"), set.Orders)
	ml := p.prepareMachine(logger.WithStage(ctx, "machine"), set.MachineLog)
	notifs, codes := p.prepareLinks(logger.WithStage(ctx, "links"), set.Notifications, set.FailureCodes)

	out := &Output{}
	actx := logger.WithStage(ctx, "aggregate")

	text := model.Unavailable[[]aggregate.Stat]("order source unusable")
	sap := model.Unavailable[[]aggregate.Stat]("order source unusable")
	period := aggregate.Period{}
	if rows, ok := orders.Get(); ok {
		text = model.Available(aggregate.ByTextCategory(rows))
		sap = p.sapStats(rows, notifs, codes)
		period = aggregate.OrderPeriod(rows)
		out.Priorities = analysis.ByPriority(rows)
	}
	machine := aggregate.ByMachineColumn(ml, period)

	out.Comparison = aggregate.Compare(text, sap, machine)
	for name, reason := range out.Comparison.Unavailable {
		p.unavailable(actx, name, reason)
	}
	p.metrics.ComparisonRows.Set(float64(len(out.Comparison.Rows)))
	p.log.Infof(actx, "comparison built with %d categories", len(out.Comparison.Rows))

	mctx := logger.WithStage(ctx, "match")
	out.Correlation = model.Unavailable[analysis.Correlation]("order source unusable")
	out.Matches = model.Unavailable[[]match.DowntimeMatch]("order source unusable")
	if rows, ok := orders.Get(); ok {
		out.Correlation = p.correlate(mctx, ml, rows)
		matches, err := p.matchByDay(mctx, ml, rows)
		if err != nil {
			return nil, err
		}
		out.Matches = matches
	}
	if !out.Correlation.Available() {
		p.unavailable(mctx, "correlation", out.Correlation.Reason())
	}
	if m, ok := out.Matches.Get(); ok {
		out.TopMatches = analysis.TopMatches(m, p.opts.TopN)
	} else {
		p.unavailable(mctx, "date_window", out.Matches.Reason())
	}
	return out, nil
}

func (p *Pipeline) unavailable(ctx context.Context, name, reason string) {
	p.metrics.Unavailable.WithLabelValues(name).Inc()
	p.log.Warnf(ctx, "%s unavailable: %s", name, reason)
}

// prepareOrders parses and classifies the orders. The classified slice is a
// copy; the preprocessed rows are left untouched.
func (p *Pipeline) prepareOrders(ctx context.Context, t *source.Table) model.Result[[]model.Order] {
	prepared, st, err := preprocess.PrepareOrders(t)
	p.metrics.ParseFailures.WithLabelValues(source.Orders, "start").Add(float64(st.StartUnparsed))
	p.metrics.ParseFailures.WithLabelValues(source.Orders, "end").Add(float64(st.EndUnparsed))
	if err != nil {
		p.log.Warnf(ctx, "orders skipped: %v", err)
		return model.Unavailable[[]model.Order](err.Error())
	}
	p.metrics.RowsDropped.WithLabelValues(source.Orders, "out_of_range").Add(float64(st.OutOfRange))
	p.metrics.RowsDropped.WithLabelValues(source.Orders, "unparsed").Add(float64(st.Read - st.Kept - st.OutOfRange))
	if !prepared.HasColumn(preprocess.ColShortText) {
		p.log.Warnf(ctx, "orders have no %q column; every order classifies as other", preprocess.ColShortText)
	}

	classified := make([]model.Order, len(prepared.Rows))
	for i, o := range prepared.Rows {
		o.Category = p.classifier.ClassifyText(o.Text)
		classified[i] = o
	}
	p.log.Infof(ctx, "orders read=%d kept=%d out_of_range=%d", st.Read, st.Kept, st.OutOfRange)
	return model.Available(classified)
}

func (p *Pipeline) prepareMachine(ctx context.Context, t *source.Table) *preprocess.MachineLog {
	ml, st := preprocess.PrepareMachineLog(t)
	p.metrics.RowsDropped.WithLabelValues(source.MachineLog, "bad_day").Add(float64(st.DroppedBadDay))
	p.metrics.ParseFailures.WithLabelValues(source.MachineLog, "day").Add(float64(st.DayParseFailures))
	p.metrics.ParseFailures.WithLabelValues(source.MachineLog, "downtime").Add(float64(st.DowntimeFailures))
	p.metrics.ParseFailures.WithLabelValues(source.MachineLog, "category_downtime").Add(float64(st.CategoryFailures))
	p.metrics.ParseFailures.WithLabelValues(source.MachineLog, "datetime").Add(float64(st.DateTimeFailures))
	for col, present := range map[string]bool{
		preprocess.ColCalendarDay:    ml.HasDay,
		preprocess.ColWorkCenter:     ml.HasWorkCenter,
		preprocess.ColRawMalfunction: ml.HasDowntime,
	} {
		if !present {
			p.log.Warnf(ctx, "machine log has no %q column", col)
		}
	}
	p.log.Infof(ctx, "machine log read=%d kept=%d bad_day=%d downtime_failures=%d",
		st.Read, st.Kept, st.DroppedBadDay, st.DowntimeFailures)
	return ml
}

func (p *Pipeline) prepareLinks(ctx context.Context, nt, ct *source.Table) (model.Result[[]model.Notification], model.Result[[]model.FailureCode]) {
	var (
		notifs model.Result[[]model.Notification]
		codes  model.Result[[]model.FailureCode]
	)
	if n, err := preprocess.PrepareNotifications(nt); err != nil {
		p.log.Warnf(ctx, "notifications skipped: %v", err)
		notifs = model.Unavailable[[]model.Notification](err.Error())
	} else {
		notifs = model.Available(n)
	}
	if c, err := preprocess.PrepareFailureCodes(ct); err != nil {
		p.log.Warnf(ctx, "failure codes skipped: %v", err)
		codes = model.Unavailable[[]model.FailureCode](err.Error())
	} else {
		codes = model.Available(c)
	}
	return notifs, codes
}

func (p *Pipeline) sapStats(orders []model.Order, notifs model.Result[[]model.Notification], codes model.Result[[]model.FailureCode]) model.Result[[]aggregate.Stat] {
	n, ok := notifs.Get()
	if !ok {
		return model.Unavailable[[]aggregate.Stat](notifs.Reason())
	}
	c, ok := codes.Get()
	if !ok {
		return model.Unavailable[[]aggregate.Stat](codes.Reason())
	}
	res := aggregate.BySAPCode(orders, n, c)
	if stats, ok := res.Get(); ok {
		total := 0
		for _, s := range stats {
			total += s.Count
		}
		p.metrics.JoinRows.WithLabelValues("order_notification_code").Add(float64(total))
	}
	return res
}

func (p *Pipeline) correlate(ctx context.Context, ml *preprocess.MachineLog, orders []model.Order) model.Result[analysis.Correlation] {
	if !ml.HasWorkCenter || !ml.HasDowntime {
		return model.Unavailable[analysis.Correlation]("machine log lacks work center or downtime")
	}
	res := analysis.CorrelateDowntime(ml.Entries, orders)
	if c, ok := res.Get(); ok {
		p.metrics.JoinRows.WithLabelValues("machine_order_work_center").Add(float64(c.Pairs))
		p.log.Infof(ctx, "downtime correlation r=%.3f over %d pairs", c.Coefficient, c.Pairs)
	}
	return res
}

func (p *Pipeline) matchByDay(ctx context.Context, ml *preprocess.MachineLog, orders []model.Order) (model.Result[[]match.DowntimeMatch], error) {
	if !ml.HasDay || !ml.HasWorkCenter || !ml.HasDowntime {
		return model.Unavailable[[]match.DowntimeMatch]("machine log lacks calendar day, work center or downtime"), nil
	}
	matches, err := match.ByDay(p.store, ml.Entries, orders, p.opts.DowntimeThreshold)
	if err != nil {
		return model.Result[[]match.DowntimeMatch]{}, fmt.Errorf("date-window match: %w", err)
	}
	buckets, err := match.BucketsAbove(p.store, p.opts.DowntimeThreshold)
	if err != nil {
		return model.Result[[]match.DowntimeMatch]{}, fmt.Errorf("date-window buckets: %w", err)
	}
	p.metrics.BucketsAboveThreshold.Set(float64(len(buckets)))
	p.metrics.JoinRows.WithLabelValues("date_window").Add(float64(len(matches)))
	if len(matches) == 0 {
		return model.Unavailable[[]match.DowntimeMatch](model.ErrEmptyJoin.Error()), nil
	}
	p.log.Infof(ctx, "date-window matched %d orders to %d buckets above %.0f min",
		len(matches), len(buckets), p.opts.DowntimeThreshold)
	return model.Available(matches), nil
}
