package report

import (
	"fmt"
	"time"
)

type Kind string

const (
	KindAnnual  Kind = "annual"
	KindMonthly Kind = "monthly"
)

// Period is the half-open date range [Start, End) a report covers.
type Period struct {
	Kind  Kind
	Year  int
	Month int
	Start time.Time
	End   time.Time
}

func validYear(year int) error {
	if year < 1900 || year > 9999 {
		return fmt.Errorf("year must be a four digit year, got %d", year)
	}
	return nil
}

func AnnualPeriod(year int) (Period, error) {
	if err := validYear(year); err != nil {
		return Period{}, err
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: KindAnnual, Year: year, Start: start, End: start.AddDate(1, 0, 0)}, nil
}

func MonthlyPeriod(year, month int) (Period, error) {
	if err := validYear(year); err != nil {
		return Period{}, err
	}
	if month < 1 || month > 12 {
		return Period{}, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	return Period{Kind: KindMonthly, Year: year, Month: month, Start: start, End: start.AddDate(0, 1, 0)}, nil
}

// ObjectKey is where the report CSV is stored in the reports bucket.
func (p Period) ObjectKey() string {
	if p.Kind == KindMonthly {
		return fmt.Sprintf("monthly-reports/%d/%02d/report.csv", p.Year, p.Month)
	}
	return fmt.Sprintf("annual-reports/%d/report.csv", p.Year)
}

func (p Period) String() string {
	if p.Kind == KindMonthly {
		return fmt.Sprintf("%d-%02d", p.Year, p.Month)
	}
	return fmt.Sprintf("%d", p.Year)
}
