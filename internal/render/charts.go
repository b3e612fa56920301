package render

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/hitoshi/tweetwrap/internal/model"
)

const (
	chartWidth  = "900px"
	chartHeight = "400px"

	barColorCyan    = "#1d9bf0"
	barColorMagenta = "#f91880"
	barColorGreen   = "#00ba7c"
)

// ChartsPage は時間・曜日・月の分布チャートをまとめた補助ページをwに書き出す。
func ChartsPage(w io.Writer, report *model.Report) error {
	page := components.NewPage()
	page.SetPageTitle(fmt.Sprintf("%d distribution charts", report.Year))
	page.AddCharts(
		buildHourlyChart(report.Stats.HourlyDistribution),
		buildWeekdayChart(report.Stats.DailyDistribution),
		buildMonthlyChart(report.Stats.MonthlyDistribution),
	)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render charts page: %w", err)
	}
	return nil
}

func buildHourlyChart(hourly [24]int) *charts.Bar {
	labels := make([]string, len(hourly))
	data := make([]opts.BarData, len(hourly))
	for i, n := range hourly {
		labels[i] = FormatHour(i)
		data[i] = opts.BarData{Value: n}
	}
	return buildBarChart("Tweets by Hour (UTC)", labels, data, barColorCyan)
}

func buildWeekdayChart(daily [7]int) *charts.Bar {
	labels := make([]string, len(daily))
	data := make([]opts.BarData, len(daily))
	for i, n := range daily {
		labels[i] = dayNames[i]
		data[i] = opts.BarData{Value: n}
	}
	return buildBarChart("Tweets by Weekday", labels, data, barColorMagenta)
}

func buildMonthlyChart(monthly [12]int) *charts.Bar {
	labels := make([]string, len(monthly))
	data := make([]opts.BarData, len(monthly))
	for i, n := range monthly {
		labels[i] = monthNames[i]
		data[i] = opts.BarData{Value: n}
	}
	return buildBarChart("Tweets by Month", labels, data, barColorGreen)
}

func buildBarChart(title string, labels []string, data []opts.BarData, color string) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  chartWidth,
			Height: chartHeight,
			Theme:  "dark",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("tweets", data,
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
	)
	return bar
}
