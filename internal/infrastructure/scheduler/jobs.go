package scheduler

import (
	"context"
	"time"

	appingest "etf-fortune/internal/application/dataingestion"
	"etf-fortune/internal/application/market"
)

const jobTimeout = 2 * time.Minute

// Ingestor 由 dataingestion.IngestUseCase 實作。
type Ingestor interface {
	Execute(ctx context.Context, input appingest.IngestInput) (appingest.IngestResult, error)
}

// IngestDailyJob 收盤後回補最近 lookbackDays 天的日 K。
type IngestDailyJob struct {
	ingestor     Ingestor
	symbol       string
	lookbackDays int
	now          func() time.Time
}

func NewIngestDailyJob(ingestor Ingestor, symbol string, lookbackDays int) *IngestDailyJob {
	if lookbackDays <= 0 {
		lookbackDays = 7
	}
	return &IngestDailyJob{ingestor: ingestor, symbol: symbol, lookbackDays: lookbackDays, now: time.Now}
}

func (j *IngestDailyJob) Name() string { return "ingest-daily" }

func (j *IngestDailyJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	end := j.now().In(market.Location())
	end = time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	_, err := j.ingestor.Execute(ctx, appingest.IngestInput{
		Symbol: j.symbol,
		Start:  end.AddDate(0, 0, -j.lookbackDays),
		End:    end,
	})
	return err
}

// DigestRunner 由 digest.Digest 實作。
type DigestRunner interface {
	Run(ctx context.Context) (bool, error)
}

// DigestJob 推送每日運勢。
type DigestJob struct {
	digest DigestRunner
}

func NewDigestJob(d DigestRunner) *DigestJob {
	return &DigestJob{digest: d}
}

func (j *DigestJob) Name() string { return "fortune-digest" }

func (j *DigestJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	_, err := j.digest.Run(ctx)
	return err
}
