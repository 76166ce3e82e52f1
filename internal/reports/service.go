package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	pkgerrors "github.com/amazingstor/backend/pkg/errors"
	"gorm.io/gorm"
)

// UserTotal is one user's cart value for a single day.
type UserTotal struct {
	Username   string `json:"username"`
	TotalCents int64  `json:"total_cents"`
}

// DailyTotal groups user totals under one calendar day (UTC, YYYY-MM-DD).
type DailyTotal struct {
	Day    string      `json:"day"`
	Totals []UserTotal `json:"totals"`
}

// Service aggregates cart values per user per day. It reads committed state
// only and takes no part in the write-path transactions.
type Service interface {
	SumByDay(ctx context.Context, start, end *time.Time) ([]DailyTotal, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds a reporting service on the provided DB.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db required")
	}
	return &service{db: db}, nil
}

type cartTotalRow struct {
	Updated    time.Time
	Username   string
	TotalCents int64
}

// SumByDay returns, for each day a cart was last updated within the optional
// inclusive range, the per-user totals ordered by descending amount. Days
// without activity are absent from the result.
func (s *service) SumByDay(ctx context.Context, start, end *time.Time) ([]DailyTotal, error) {
	query := `
		SELECT c.updated AS updated, u.username AS username,
			SUM(ci.quantity * p.price_cents) AS total_cents
		FROM cart_items ci
		JOIN carts c ON c.id = ci.cart_id
		JOIN users u ON u.id = c.user_id
		JOIN products p ON p.id = ci.product_id
	`
	conditions := ""
	args := []any{}
	if start != nil {
		conditions += " WHERE c.updated >= ?"
		args = append(args, startOfDay(*start))
	}
	if end != nil {
		if conditions == "" {
			conditions += " WHERE"
		} else {
			conditions += " AND"
		}
		conditions += " c.updated < ?"
		args = append(args, startOfDay(*end).Add(24*time.Hour))
	}
	query += conditions + " GROUP BY c.id, c.updated, u.username"

	var rows []cartTotalRow
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate cart sums")
	}

	return bucketByDay(rows), nil
}

func bucketByDay(rows []cartTotalRow) []DailyTotal {
	totalsByDay := map[string]map[string]int64{}
	for _, row := range rows {
		day := row.Updated.UTC().Format("2006-01-02")
		if totalsByDay[day] == nil {
			totalsByDay[day] = map[string]int64{}
		}
		totalsByDay[day][row.Username] += row.TotalCents
	}

	days := make([]string, 0, len(totalsByDay))
	for day := range totalsByDay {
		days = append(days, day)
	}
	sort.Strings(days)

	result := make([]DailyTotal, 0, len(days))
	for _, day := range days {
		totals := make([]UserTotal, 0, len(totalsByDay[day]))
		for username, total := range totalsByDay[day] {
			totals = append(totals, UserTotal{Username: username, TotalCents: total})
		}
		sort.Slice(totals, func(i, j int) bool {
			if totals[i].TotalCents != totals[j].TotalCents {
				return totals[i].TotalCents > totals[j].TotalCents
			}
			return totals[i].Username < totals[j].Username
		})
		result = append(result, DailyTotal{Day: day, Totals: totals})
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
