package report

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/Skotchmaster/facility_platform/pkg/logging"
	"github.com/Skotchmaster/facility_platform/pkg/search"
	"github.com/Skotchmaster/facility_platform/pkg/storage"
	"github.com/Skotchmaster/facility_platform/pkg/tracing"
)

type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

type Indexer interface {
	Index(ctx context.Context, docs []search.Document) error
}

// Job builds one report, stores it and optionally indexes its rows. Indexing
// failures are logged and do not fail the job.
type Job struct {
	DB       *gorm.DB
	Uploader Uploader
	Indexer  Indexer
	Now      func() time.Time
}

type Result struct {
	Period   Period
	Location string
	Rows     int
}

type reportDocument struct {
	Report      Kind      `json:"report"`
	Period      string    `json:"period"`
	GeneratedAt time.Time `json:"generated_at"`
	Row         any       `json:"row"`
}

func (j *Job) Run(ctx context.Context, p Period) (res Result, err error) {
	ctx, span := tracing.Start(ctx, "report."+string(p.Kind),
		attribute.String("report.period", p.String()),
	)
	defer func() { tracing.End(span, err) }()

	l := logging.FromContext(ctx).With("report", p.Kind, "period", p.String())
	l.Info("report_started")

	header, records, docs, err := j.collect(ctx, p)
	if err != nil {
		return Result{}, err
	}

	body, err := EncodeCSV(header, records)
	if err != nil {
		return Result{}, err
	}

	uploadCtx, uploadSpan := tracing.Start(ctx, "report.upload", attribute.String("s3.key", p.ObjectKey()))
	location, err := j.Uploader.Upload(uploadCtx, p.ObjectKey(), body, storage.DefaultContentType)
	tracing.End(uploadSpan, err)
	if err != nil {
		return Result{}, err
	}
	l.Info("report_uploaded", "location", location, "rows", len(records), "bytes", len(body))

	if j.Indexer != nil && len(docs) > 0 {
		indexCtx, indexSpan := tracing.Start(ctx, "report.index")
		ierr := j.Indexer.Index(indexCtx, docs)
		tracing.End(indexSpan, ierr)
		if ierr != nil {
			l.Warn("report_index_failed", "error", ierr)
		}
	}

	l.Info("report_completed")
	return Result{Period: p, Location: location, Rows: len(records)}, nil
}

func (j *Job) collect(ctx context.Context, p Period) ([]string, [][]string, []search.Document, error) {
	ctx, span := tracing.Start(ctx, "report.query")
	var err error
	defer func() { tracing.End(span, err) }()

	now := time.Now
	if j.Now != nil {
		now = j.Now
	}
	generated := now().UTC()
	doc := func(id int64, row any) search.Document {
		return search.Document{
			ID:     fmt.Sprintf("%s-%s-%d", p.Kind, p, id),
			Source: reportDocument{Report: p.Kind, Period: p.String(), GeneratedAt: generated, Row: row},
		}
	}

	switch p.Kind {
	case KindAnnual:
		var rows []AnnualRow
		rows, err = queryAnnual(ctx, j.DB, p)
		if err != nil {
			return nil, nil, nil, err
		}
		records := make([][]string, 0, len(rows))
		docs := make([]search.Document, 0, len(rows))
		for _, r := range rows {
			records = append(records, r.record())
			docs = append(docs, doc(r.EquipmentID, r))
		}
		return annualHeader, records, docs, nil

	case KindMonthly:
		var rows []MonthlyRow
		rows, err = queryMonthly(ctx, j.DB, p)
		if err != nil {
			return nil, nil, nil, err
		}
		records := make([][]string, 0, len(rows))
		docs := make([]search.Document, 0, len(rows))
		for _, r := range rows {
			records = append(records, r.record())
			docs = append(docs, doc(r.EquipmentID, r))
		}
		return monthlyHeader, records, docs, nil
	}

	err = fmt.Errorf("unknown report kind %q", p.Kind)
	return nil, nil, nil, err
}
