package analytics

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/autovista-ai/autovista-backend/internal/extract"
	"github.com/autovista-ai/autovista-backend/pkg/config"
	"github.com/autovista-ai/autovista-backend/pkg/logger"
)

// Anomaly is a daily revenue total that deviates from the period mean.
type Anomaly struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Units   int     `json:"units"`
	ZScore  float64 `json:"zscore"`
	Type    string  `json:"type"`
}

// MovingAveragePoint pairs a daily total with its trailing average.
type MovingAveragePoint struct {
	Date          string  `json:"date"`
	Revenue       float64 `json:"revenue"`
	MovingAverage float64 `json:"moving_average"`
}

// ForecastPoint is a projected daily revenue value.
type ForecastPoint struct {
	Date            string  `json:"date"`
	ForecastRevenue float64 `json:"forecast_revenue"`
	Confidence      string  `json:"confidence"`
}

// SeasonalPatterns summarizes revenue by calendar month and weekday.
type SeasonalPatterns struct {
	MonthlyPattern   map[string]float64 `json:"monthly_pattern"`
	DayOfWeekPattern map[string]float64 `json:"day_of_week_pattern"`
}

// TrendAnalyzer detects anomalies and projects revenue over daily series.
type TrendAnalyzer struct {
	source           DataSource
	anomalyThreshold float64
	movingAvgWindow  int
	forecastHorizon  int
	rng              *rand.Rand
	logg             *logger.Logger

	now func() time.Time
}

// NewTrendAnalyzer builds the analyzer from config. A zero ForecastSeed
// time-seeds the jitter RNG; a fixed seed makes forecasts reproducible.
func NewTrendAnalyzer(source DataSource, cfg config.AnalyticsConfig, logg *logger.Logger) *TrendAnalyzer {
	threshold := cfg.AnomalyThreshold
	if threshold <= 0 {
		threshold = 2.0
	}
	window := cfg.MovingAvgWindow
	if window <= 0 {
		window = 7
	}
	horizon := cfg.ForecastHorizonDays
	if horizon <= 0 {
		horizon = 7
	}
	seed := cfg.ForecastSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &TrendAnalyzer{
		source:           source,
		anomalyThreshold: threshold,
		movingAvgWindow:  window,
		forecastHorizon:  horizon,
		rng:              rand.New(rand.NewSource(seed)),
		logg:             logg,
		now:              time.Now,
	}
}

type dailyPoint struct {
	date    string
	revenue float64
	units   int
}

func (t *TrendAnalyzer) dailySeries(ctx context.Context, startDate, endDate time.Time) ([]dailyPoint, error) {
	rows, err := t.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return nil, err
	}
	byDate := map[string]*dailyPoint{}
	for _, row := range rows {
		key := row.SaleDate.Format("2006-01-02")
		point, ok := byDate[key]
		if !ok {
			point = &dailyPoint{date: key}
			byDate[key] = point
		}
		point.revenue += row.TotalAmount
		point.units += row.Quantity
	}
	series := make([]dailyPoint, 0, len(byDate))
	for _, point := range byDate {
		series = append(series, *point)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].date < series[j].date })
	return series, nil
}

// DetectAnomalies flags days whose revenue z-score exceeds the threshold.
// Fewer than seven daily points is not enough signal and yields no anomalies.
func (t *TrendAnalyzer) DetectAnomalies(ctx context.Context, startDate, endDate time.Time) ([]Anomaly, error) {
	series, err := t.dailySeries(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if len(series) < 7 {
		t.logg.Warn(t.logg.WithField(ctx, "points", len(series)), "not enough daily points for anomaly detection")
		return []Anomaly{}, nil
	}

	var sum float64
	for _, point := range series {
		sum += point.revenue
	}
	mean := sum / float64(len(series))
	var sqDiff float64
	for _, point := range series {
		sqDiff += (point.revenue - mean) * (point.revenue - mean)
	}
	std := math.Sqrt(sqDiff / float64(len(series)-1))
	if std == 0 {
		return []Anomaly{}, nil
	}

	anomalies := []Anomaly{}
	for _, point := range series {
		z := (point.revenue - mean) / std
		if math.Abs(z) > t.anomalyThreshold {
			kind := "high"
			if z < 0 {
				kind = "low"
			}
			anomalies = append(anomalies, Anomaly{
				Date:    point.date,
				Revenue: point.revenue,
				Units:   point.units,
				ZScore:  z,
				Type:    kind,
			})
		}
	}
	return anomalies, nil
}

// MovingAverage smooths daily revenue over the configured trailing window.
// Partial windows at the start of the series average what is available.
func (t *TrendAnalyzer) MovingAverage(ctx context.Context, startDate, endDate time.Time) ([]MovingAveragePoint, error) {
	series, err := t.dailySeries(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	points := make([]MovingAveragePoint, 0, len(series))
	for i, point := range series {
		from := i - t.movingAvgWindow + 1
		if from < 0 {
			from = 0
		}
		var sum float64
		for _, prior := range series[from : i+1] {
			sum += prior.revenue
		}
		points = append(points, MovingAveragePoint{
			Date:          point.date,
			Revenue:       point.revenue,
			MovingAverage: sum / float64(i+1-from),
		})
	}
	return points, nil
}

// Forecast projects daily revenue for the horizon from the trailing 30 days'
// mean with a small random variation. The method is deliberately naive, so
// every point carries low confidence.
func (t *TrendAnalyzer) Forecast(ctx context.Context) ([]ForecastPoint, error) {
	end := t.today()
	start := end.AddDate(0, 0, -30)
	series, err := t.dailySeries(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return []ForecastPoint{}, nil
	}

	var sum float64
	for _, point := range series {
		sum += point.revenue
	}
	dailyMean := sum / float64(len(series))

	forecast := make([]ForecastPoint, 0, t.forecastHorizon)
	for day := 1; day <= t.forecastHorizon; day++ {
		variation := 0.9 + t.rng.Float64()*0.2
		forecast = append(forecast, ForecastPoint{
			Date:            end.AddDate(0, 0, day).Format("2006-01-02"),
			ForecastRevenue: dailyMean * variation,
			Confidence:      "low",
		})
	}
	return forecast, nil
}

// Seasonality averages revenue by calendar month and by weekday, with Monday
// as day 0.
func (t *TrendAnalyzer) Seasonality(ctx context.Context, startDate, endDate time.Time) (SeasonalPatterns, error) {
	rows, err := t.source.Sales(ctx, extract.SalesFilter{StartDate: startDate, EndDate: endDate})
	if err != nil {
		return SeasonalPatterns{}, err
	}

	monthSums := map[string]float64{}
	monthCounts := map[string]int{}
	daySums := map[string]float64{}
	dayCounts := map[string]int{}
	for _, row := range rows {
		month := row.SaleDate.Format("1")
		monthSums[month] += row.TotalAmount
		monthCounts[month]++
		weekday := strconv.Itoa((int(row.SaleDate.Weekday()) + 6) % 7)
		daySums[weekday] += row.TotalAmount
		dayCounts[weekday]++
	}

	patterns := SeasonalPatterns{
		MonthlyPattern:   map[string]float64{},
		DayOfWeekPattern: map[string]float64{},
	}
	for month, total := range monthSums {
		patterns.MonthlyPattern[month] = total / float64(monthCounts[month])
	}
	for weekday, total := range daySums {
		patterns.DayOfWeekPattern[weekday] = total / float64(dayCounts[weekday])
	}
	return patterns, nil
}

func (t *TrendAnalyzer) today() time.Time {
	now := t.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
