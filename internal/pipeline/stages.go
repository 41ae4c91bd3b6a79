package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"go.opentelemetry.io/otel/attribute"

	"i94cli/internal/analysis"
	"i94cli/internal/dataset"
	"i94cli/internal/errors"
	"i94cli/internal/exporter"
	"i94cli/internal/plot"
)

const histogramBins = 40

// summaries writes the day/night descriptive statistics and the volume
// distribution histograms.
func (p *Pipeline) summaries(ctx context.Context, day, night []dataset.Observation) error {
	ctx, span := p.stage(ctx, "summaries")
	defer span.End()

	dayStats := analysis.Summarize(analysis.Volumes(day))
	nightStats := analysis.Summarize(analysis.Volumes(night))
	p.addTable(exporter.SummaryTable("day_night_summary",
		[]string{"daytime", "nighttime"},
		[]analysis.SummaryStats{dayStats, nightStats}))

	p.logger.InfoContext(ctx, "day/night split",
		slog.Int("daytime_rows", dayStats.Count),
		slog.Int("nighttime_rows", nightStats.Count),
		slog.Float64("daytime_mean", dayStats.Mean),
		slog.Float64("nighttime_mean", nightStats.Mean))

	if err := plot.WriteHistogram(p.chartPath("volume_hist_daytime"),
		"Daytime Traffic Volume Distribution", "Traffic Volume",
		analysis.Volumes(day), histogramBins); err != nil {
		return err
	}
	return plot.WriteHistogram(p.chartPath("volume_hist_nighttime"),
		"Nighttime Traffic Volume Distribution", "Traffic Volume",
		analysis.Volumes(night), histogramBins)
}

// monthly writes the monthly means with and without IQR outlier removal
// and the mean-vs-median robustness table.
func (p *Pipeline) monthly(ctx context.Context, day []dataset.Observation) error {
	_, span := p.stage(ctx, "monthly")
	defer span.End()

	cmp := analysis.MonthlyMeanWithIQRFilter(day, p.cfg.Analysis.IQRMultiplier)
	p.addTable(exporter.MonthlyComparisonTable("monthly_mean_iqr", cmp))

	raw := plot.Series{Name: "mean"}
	filtered := plot.Series{Name: "mean, IQR filtered"}
	for _, c := range cmp {
		m := float64(int(c.Month))
		raw.XS = append(raw.XS, m)
		raw.YS = append(raw.YS, c.Mean)
		filtered.XS = append(filtered.XS, m)
		filtered.YS = append(filtered.YS, c.FilteredMean)
	}
	if err := plot.WriteLine(p.chartPath("monthly_mean"),
		"Mean Daytime Traffic Volume by Month", "Month", "Traffic Volume",
		raw, filtered); err != nil {
		return err
	}

	robust := analysis.MonthlyRobustnessTable(day, p.cfg.Analysis.TrimQuantile)
	p.addTable(exporter.RobustnessTable("monthly_robustness", robust))
	return nil
}

// weekdayProfile writes the mean daytime volume per weekday
func (p *Pipeline) weekdayProfile(ctx context.Context, day []dataset.Observation) error {
	_, span := p.stage(ctx, "weekday_profile")
	defer span.End()

	groups := analysis.Aggregate(day,
		[]analysis.KeyFunc{analysis.KeyWeekday}, analysis.MetricVolume, analysis.OpMean)
	p.addTable(exporter.GroupsTable("weekday_mean", []string{"weekday"}, "mean_volume", groups))

	labels := make([]string, len(groups))
	series := plot.Series{Name: "mean volume"}
	for i, g := range groups {
		// key format is "<monday-index>-<abbrev>"
		labels[i] = g.Keys[0][2:]
		series.XS = append(series.XS, float64(i))
		series.YS = append(series.YS, g.Value)
	}
	return plot.WriteCategoryLine(p.chartPath("weekday_mean"),
		"Mean Daytime Traffic Volume by Weekday", "Weekday", "Traffic Volume",
		labels, series)
}

// hourlyProfile writes the hour-of-day profile split into business days
// and weekends/holidays.
func (p *Pipeline) hourlyProfile(ctx context.Context, day []dataset.Observation) error {
	_, span := p.stage(ctx, "hourly_profile")
	defer span.End()

	var business, offDays []dataset.Observation
	for _, o := range day {
		if o.IsBusinessDay() {
			business = append(business, o)
		} else {
			offDays = append(offDays, o)
		}
	}

	buildSeries := func(name string, rows []dataset.Observation) (plot.Series, []analysis.Group, error) {
		groups := analysis.Aggregate(rows,
			[]analysis.KeyFunc{analysis.KeyHour}, analysis.MetricVolume, analysis.OpMean)
		s := plot.Series{Name: name}
		for _, g := range groups {
			hour, err := strconv.Atoi(g.Keys[0])
			if err != nil {
				return s, nil, fmt.Errorf("parse hour key %q: %w", g.Keys[0], err)
			}
			s.XS = append(s.XS, float64(hour))
			s.YS = append(s.YS, g.Value)
		}
		return s, groups, nil
	}

	businessSeries, businessGroups, err := buildSeries("business days", business)
	if err != nil {
		return err
	}
	offSeries, offGroups, err := buildSeries("weekends and holidays", offDays)
	if err != nil {
		return err
	}

	p.addTable(exporter.GroupsTable("hourly_mean_business", []string{"hour"}, "mean_volume", businessGroups))
	p.addTable(exporter.GroupsTable("hourly_mean_offdays", []string{"hour"}, "mean_volume", offGroups))

	return plot.WriteLine(p.chartPath("hourly_profile"),
		"Mean Daytime Traffic Volume by Hour", "Hour of Day", "Traffic Volume",
		businessSeries, offSeries)
}

// temperature writes the temperature vs volume scatter
func (p *Pipeline) temperature(ctx context.Context, day []dataset.Observation) error {
	_, span := p.stage(ctx, "temperature")
	defer span.End()

	xs := make([]float64, len(day))
	ys := make([]float64, len(day))
	for i, o := range day {
		xs[i] = o.Temp
		ys[i] = float64(o.Volume)
	}
	return plot.WriteScatter(p.chartPath("temp_vs_volume"),
		"Temperature vs Daytime Traffic Volume", "Temperature (K)", "Traffic Volume",
		xs, ys)
}

// weather writes the mean volume per weather_main and per
// weather_description, each as a table and a horizontal bar chart with
// the peak category highlighted.
func (p *Pipeline) weather(ctx context.Context, day []dataset.Observation) error {
	_, span := p.stage(ctx, "weather")
	defer span.End()

	render := func(name, title string, key analysis.KeyFunc) error {
		groups := analysis.Aggregate(day,
			[]analysis.KeyFunc{key}, analysis.MetricVolume, analysis.OpMean)
		p.addTable(exporter.GroupsTable(name, []string{key.Name}, "mean_volume", groups))

		labels := make([]string, len(groups))
		values := make([]float64, len(groups))
		peak := 0
		for i, g := range groups {
			labels[i] = g.Keys[0]
			values[i] = g.Value
			if g.Value > values[peak] {
				peak = i
			}
		}
		return plot.WriteBarH(p.chartPath(name), title, "Mean Traffic Volume",
			labels, values, peak)
	}

	if err := render("weather_main_mean",
		"Mean Daytime Traffic Volume by Weather Type", analysis.KeyWeatherMain); err != nil {
		return err
	}
	return render("weather_description_mean",
		"Mean Daytime Traffic Volume by Weather Description", analysis.KeyWeatherDesc)
}

// selection ranks warm-season weather descriptions and fixes the
// category allow-list for the downstream statistical steps.
func (p *Pipeline) selection(ctx context.Context, day []dataset.Observation) (analysis.Selection, error) {
	ctx, span := p.stage(ctx, "selection")
	defer span.End()

	sel := analysis.BuildSelection(day, p.warmSeason(), p.cfg.Analysis.TopWeatherCount)
	span.SetAttributes(
		attribute.String("months", sel.Months.String()),
		attribute.Int("categories", len(sel.Categories)),
	)

	p.logger.InfoContext(ctx, "built warm-season weather selection",
		slog.String("months", sel.Months.String()),
		slog.Any("categories", sel.Categories))

	p.addTable(exporter.RankingTable("warm_season_weather_ranking", sel.Ranking))

	labels := make([]string, len(sel.Ranking))
	values := make([]float64, len(sel.Ranking))
	for i, e := range sel.Ranking {
		// reversed so the most frequent category renders on top
		j := len(sel.Ranking) - 1 - i
		labels[j] = e.Category
		values[j] = float64(e.Count)
	}
	err := plot.WriteBarH(p.chartPath("warm_season_weather_ranking"),
		fmt.Sprintf("Most Frequent Weather (%s, daytime)", sel.Months),
		"Observations", labels, values, len(values)-1)
	return sel, err
}

// welch runs the configured two-category comparison on daily mean
// volumes drawn through the selection. Categories the ranking never
// admitted or samples below the minimum size are recorded as skipped.
func (p *Pipeline) welch(ctx context.Context, day []dataset.Observation, sel analysis.Selection) error {
	ctx, span := p.stage(ctx, "welch")
	defer span.End()

	catA := p.cfg.Analysis.TestCategoryA
	catB := p.cfg.Analysis.TestCategoryB
	name := fmt.Sprintf("welch %s vs %s", catA, catB)

	seriesA, err := analysis.BuildDailyMeanSeries(day, sel, catA)
	if err != nil {
		p.skip(ctx, name, err)
		return nil
	}
	seriesB, err := analysis.BuildDailyMeanSeries(day, sel, catB)
	if err != nil {
		p.skip(ctx, name, err)
		return nil
	}

	p.manifest.GapRatios["daily_mean_"+slug(catA)] = seriesA.OneDayGapRatio()
	p.manifest.GapRatios["daily_mean_"+slug(catB)] = seriesB.OneDayGapRatio()
	p.addTable(exporter.DailySeriesTable("daily_mean_"+slug(catA), seriesA))
	p.addTable(exporter.DailySeriesTable("daily_mean_"+slug(catB), seriesB))

	result, err := analysis.WelchTTest(seriesA.Values, seriesB.Values, p.cfg.Analysis.MinSampleSize)
	if err != nil {
		if errors.IsCode(err, errors.CodeInsufficientSample) {
			p.skip(ctx, name, err)
			return nil
		}
		span.RecordError(err)
		return err
	}

	p.manifest.WelchTests = append(p.manifest.WelchTests, exporter.WelchEntry{
		CategoryA: catA,
		CategoryB: catB,
		Months:    sel.Months.String(),
		Result:    result,
	})

	p.logger.InfoContext(ctx, "ran Welch's t-test on daily means",
		slog.String("category_a", catA),
		slog.String("category_b", catB),
		slog.Float64("statistic", result.Statistic),
		slog.Float64("p_value", result.PValue),
		slog.Float64("effect_size", result.EffectSize))
	return nil
}

// autocorrelation writes the ACF tables and charts for both test
// categories: daily mean series, daily occurrence counts, and the
// weekday-by-hour residuals.
func (p *Pipeline) autocorrelation(ctx context.Context, day []dataset.Observation, sel analysis.Selection) error {
	ctx, span := p.stage(ctx, "autocorrelation")
	defer span.End()

	maxLag := p.cfg.Analysis.MaxLagDays

	for _, cat := range []string{p.cfg.Analysis.TestCategoryA, p.cfg.Analysis.TestCategoryB} {
		means, err := analysis.BuildDailyMeanSeries(day, sel, cat)
		if err != nil {
			p.skip(ctx, "acf daily mean "+cat, err)
			continue
		}
		if err := p.renderACF("acf_daily_mean_"+slug(cat),
			fmt.Sprintf("ACF of Daily Mean Volume (%s)", cat),
			analysis.ACF(means.Values, maxLag)); err != nil {
			return err
		}

		counts := analysis.BuildDailyCountSeries(day, cat)
		if err := p.renderACF("acf_daily_count_"+slug(cat),
			fmt.Sprintf("ACF of Daily Occurrence Count (%s)", cat),
			analysis.ACF(counts.Values, maxLag)); err != nil {
			return err
		}

		residuals, err := analysis.ResidualsForCategory(day, sel, cat)
		if err != nil {
			p.skip(ctx, "acf residuals "+cat, err)
			continue
		}
		if err := p.renderACF("acf_residuals_"+slug(cat),
			fmt.Sprintf("ACF of Weekday-Hour Residuals (%s)", cat),
			analysis.ACF(residuals, maxLag)); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) renderACF(name, title string, acf []float64) error {
	p.addTable(exporter.ACFTable(name, acf))

	series := plot.Series{Name: "acf"}
	for lag, v := range acf {
		series.XS = append(series.XS, float64(lag))
		series.YS = append(series.YS, v)
	}
	return plot.WriteLine(p.chartPath(name), title, "Lag", "Autocorrelation", series)
}

// heatmaps renders the month-by-hour relative-frequency grid for each
// configured category, over the same month range the selection used.
func (p *Pipeline) heatmaps(ctx context.Context, rows []dataset.Observation, months analysis.MonthRange) error {
	_, span := p.stage(ctx, "heatmaps")
	defer span.End()

	for _, cat := range p.cfg.Analysis.HeatmapCategories {
		grid := analysis.MonthHourRelativeFrequency(rows, months, cat)
		name := "heatmap_" + slug(cat)
		title := fmt.Sprintf("Relative Frequency of %q by Month and Hour (%s)", cat, months)
		if err := plot.WriteHeatmap(p.chartPath(name), title, grid); err != nil {
			return err
		}
	}
	return nil
}
