package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(scansTotal, emergenciesTotal, scanReportsPurged)
}

var (
	scansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scans_total",
			Help: "Completed scans by kind, resulting category/verdict and engine.",
		},
		[]string{"kind", "result", "source"},
	)

	emergenciesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "emergencies_total",
			Help: "Analyses whose input contained an emergency phrase.",
		},
	)

	scanReportsPurged = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "scan_reports_purged_total",
			Help: "Scan reports removed by the retention worker.",
		},
	)
)

func IncScan(kind, result, source string) {
	scansTotal.WithLabelValues(norm(kind), norm(result), norm(source)).Inc()
}

func IncEmergency() { emergenciesTotal.Inc() }

func AddPurgedReports(n int64) { scanReportsPurged.Add(float64(n)) }
