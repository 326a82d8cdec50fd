package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"app/models"
)

// ErrStorageQuery marks an aggregation that could not complete because the
// data source was unreachable or a query failed. Fatal for the report.
var ErrStorageQuery = errors.New("analytics: storage query failed")

// topAttractionLimit bounds the ranked attraction list.
const topAttractionLimit = 10

// Aggregator computes AggregatedSnapshots from the attraction_visits table.
type Aggregator struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewAggregator(db *pgxpool.Pool, log *zap.Logger) *Aggregator {
	return &Aggregator{db: db, log: log}
}

// Aggregate resolves the date-range specifier and runs the statistical
// queries concurrently. Empty ranges yield a zeroed snapshot, not an error;
// any query failure aborts the whole aggregation with ErrStorageQuery.
func (a *Aggregator) Aggregate(ctx context.Context, dateRange string, attractionID *int64) (*models.AggregatedSnapshot, error) {
	start, end := ResolveRange(dateRange, time.Now())

	where := "visit_date BETWEEN $1 AND $2"
	args := []any{start, end}
	if attractionID != nil {
		where += " AND attraction_id = $3"
		args = append(args, *attractionID)
	}

	snap := &models.AggregatedSnapshot{
		StartDate:      start.Format("2006-01-02"),
		EndDate:        end.Format("2006-01-02"),
		Trend:          []models.TrendPoint{},
		TopAttractions: []models.AttractionStat{},
		ByGender:       map[string]float64{},
		ByAgeGroup:     map[string]float64{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var count int64
		err := a.db.QueryRow(gctx,
			"SELECT COUNT(*) FROM attraction_visits WHERE "+where, args...,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("total visits: %w", err)
		}
		snap.TotalVisits = ToFloat(count)
		return nil
	})

	g.Go(func() error {
		var sum pgtype.Numeric
		err := a.db.QueryRow(gctx,
			"SELECT COALESCE(SUM(amount_paid), 0) FROM attraction_visits WHERE "+where, args...,
		).Scan(&sum)
		if err != nil {
			return fmt.Errorf("total revenue: %w", err)
		}
		snap.TotalRevenue = ToFloat(sum)
		return nil
	})

	g.Go(func() error {
		var count int64
		err := a.db.QueryRow(gctx,
			"SELECT COUNT(DISTINCT visitor_id) FROM attraction_visits WHERE "+where, args...,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("unique visitors: %w", err)
		}
		snap.UniqueVisitors = ToFloat(count)
		return nil
	})

	g.Go(func() error {
		var avg pgtype.Numeric
		err := a.db.QueryRow(gctx,
			"SELECT COALESCE(AVG(rating), 0) FROM attraction_visits WHERE "+where, args...,
		).Scan(&avg)
		if err != nil {
			return fmt.Errorf("average rating: %w", err)
		}
		snap.AverageRating = ToFloat(avg)
		return nil
	})

	g.Go(func() error {
		trend, err := a.queryTrend(gctx, where, args)
		if err != nil {
			return err
		}
		snap.Trend = trend
		return nil
	})

	g.Go(func() error {
		top, err := a.queryTopAttractions(gctx, where, args)
		if err != nil {
			return err
		}
		snap.TopAttractions = top
		return nil
	})

	g.Go(func() error {
		gender, age, err := a.queryDemographics(gctx, where, args)
		if err != nil {
			return err
		}
		snap.ByGender = gender
		snap.ByAgeGroup = age
		return nil
	})

	if err := g.Wait(); err != nil {
		a.log.Error("aggregation failed", zap.String("dateRange", dateRange), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrStorageQuery, err)
	}

	return snap, nil
}

func (a *Aggregator) queryTrend(ctx context.Context, where string, args []any) ([]models.TrendPoint, error) {
	query := `
        SELECT visit_date::date AS day, COUNT(*) AS visits, COALESCE(SUM(amount_paid), 0) AS revenue
        FROM attraction_visits
        WHERE ` + where + `
        GROUP BY day
        ORDER BY day
    `
	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("daily trend: %w", err)
	}
	defer rows.Close()

	trend := []models.TrendPoint{}
	for rows.Next() {
		var day time.Time
		var visits int64
		var revenue pgtype.Numeric
		if err := rows.Scan(&day, &visits, &revenue); err != nil {
			return nil, fmt.Errorf("daily trend scan: %w", err)
		}
		trend = append(trend, models.TrendPoint{
			Date:    day.Format("2006-01-02"),
			Visits:  ToFloat(visits),
			Revenue: ToFloat(revenue),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("daily trend rows: %w", err)
	}
	// GROUP BY already guarantees unique days; the explicit sort keeps the
	// ascending-order invariant independent of the query plan.
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	return trend, nil
}

func (a *Aggregator) queryTopAttractions(ctx context.Context, where string, args []any) ([]models.AttractionStat, error) {
	query := fmt.Sprintf(`
        SELECT attraction_id, COUNT(*) AS visits,
               COALESCE(SUM(amount_paid), 0) AS revenue,
               COALESCE(AVG(rating), 0) AS avg_rating
        FROM attraction_visits
        WHERE %s
        GROUP BY attraction_id
        ORDER BY visits DESC
        LIMIT %d
    `, where, topAttractionLimit)

	rows, err := a.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top attractions: %w", err)
	}
	defer rows.Close()

	top := []models.AttractionStat{}
	ids := []int64{}
	for rows.Next() {
		var stat models.AttractionStat
		var visits int64
		var revenue, rating pgtype.Numeric
		if err := rows.Scan(&stat.AttractionID, &visits, &revenue, &rating); err != nil {
			return nil, fmt.Errorf("top attractions scan: %w", err)
		}
		stat.Visits = ToFloat(visits)
		stat.Revenue = ToFloat(revenue)
		stat.AvgRating = ToFloat(rating)
		top = append(top, stat)
		ids = append(ids, stat.AttractionID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("top attractions rows: %w", err)
	}

	if len(ids) == 0 {
		return top, nil
	}

	// Join attraction metadata after the group-by. Scope-filtered rows may
	// reference attractions with no metadata; those stay "Unknown".
	names := map[int64]string{}
	nameRows, err := a.db.Query(ctx, "SELECT id, name FROM attractions WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("attraction names: %w", err)
	}
	defer nameRows.Close()
	for nameRows.Next() {
		var id int64
		var name string
		if err := nameRows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("attraction names scan: %w", err)
		}
		names[id] = name
	}
	if err := nameRows.Err(); err != nil {
		return nil, fmt.Errorf("attraction names rows: %w", err)
	}

	for i := range top {
		if name, ok := names[top[i].AttractionID]; ok {
			top[i].Name = name
		} else {
			top[i].Name = "Unknown"
		}
	}
	return top, nil
}

func (a *Aggregator) queryDemographics(ctx context.Context, where string, args []any) (map[string]float64, map[string]float64, error) {
	byCategory := func(column string) (map[string]float64, error) {
		query := fmt.Sprintf(`
            SELECT COALESCE(%s, 'unknown') AS category, COUNT(*) AS visits
            FROM attraction_visits
            WHERE %s
            GROUP BY category
        `, column, where)
		rows, err := a.db.Query(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("%s breakdown: %w", column, err)
		}
		defer rows.Close()

		out := map[string]float64{}
		for rows.Next() {
			var category string
			var count int64
			if err := rows.Scan(&category, &count); err != nil {
				return nil, fmt.Errorf("%s breakdown scan: %w", column, err)
			}
			out[category] = ToFloat(count)
		}
		return out, rows.Err()
	}

	gender, err := byCategory("gender")
	if err != nil {
		return nil, nil, err
	}
	age, err := byCategory("age_group")
	if err != nil {
		return nil, nil, err
	}
	return gender, age, nil
}
