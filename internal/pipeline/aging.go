package pipeline

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/cashflow90/internal/model"
)

// Bucket is an aging range in days since issue.
type Bucket int

const (
	Bucket0To30 Bucket = iota
	Bucket31To60
	Bucket61To90
	Bucket90Plus
	numBuckets
)

func (b Bucket) String() string {
	switch b {
	case Bucket0To30:
		return "0_30"
	case Bucket31To60:
		return "31_60"
	case Bucket61To90:
		return "61_90"
	default:
		return "90_plus"
	}
}

// AgeDays is the number of whole days between issue and now, rounded up.
// Direction is ignored, so a future issue date ages by its distance.
func AgeDays(issue model.Date, now time.Time) int {
	d := math.Abs(now.Sub(issue.Time).Hours() / 24)
	return int(math.Ceil(d))
}

// BucketFor places a document by its issue date. A missing issue date is
// treated as current.
func BucketFor(issue *model.Date, now time.Time) Bucket {
	if issue == nil || issue.IsZero() {
		return Bucket0To30
	}
	switch days := AgeDays(*issue, now); {
	case days <= 30:
		return Bucket0To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return Bucket90Plus
	}
}

type aging [numBuckets]decimal.Decimal

func (a *aging) add(issue *model.Date, amount float64, now time.Time) {
	b := BucketFor(issue, now)
	a[b] = a[b].Add(decimal.NewFromFloat(amount))
}

// floats returns the buckets as float64 and their total. The total is summed
// from the converted buckets in bucket order so it equals
// b[0]+b[1]+b[2]+b[3] exactly.
func (a *aging) floats() (b [numBuckets]float64, total float64) {
	for i, v := range a {
		b[i] = v.InexactFloat64()
		total += b[i]
	}
	return b, total
}

// SummarizeAging buckets outstanding receivables and payables. Paid and
// void documents are skipped. Totals are the sums of their buckets.
func SummarizeAging(companyID string, ar []model.InvoiceAR, ap []model.BillAP, now time.Time) model.WorkingCapitalSummary {
	var arAging, apAging aging
	for _, inv := range ar {
		if inv.Status.Outstanding() {
			arAging.add(inv.IssueDate, inv.Amount, now)
		}
	}
	for _, bill := range ap {
		if bill.Status.Outstanding() {
			apAging.add(bill.IssueDate, bill.Amount, now)
		}
	}

	arb, arTotal := arAging.floats()
	apb, apTotal := apAging.floats()

	return model.WorkingCapitalSummary{
		CompanyID: companyID,
		AsOfDate:  now,

		ARTotal:  arTotal,
		AR0To30:  arb[Bucket0To30],
		AR31To60: arb[Bucket31To60],
		AR61To90: arb[Bucket61To90],
		AR90Plus: arb[Bucket90Plus],

		APTotal:  apTotal,
		AP0To30:  apb[Bucket0To30],
		AP31To60: apb[Bucket31To60],
		AP61To90: apb[Bucket61To90],
		AP90Plus: apb[Bucket90Plus],
	}
}
