package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters for the confirmation workflow and logins, exposed on /metrics.
var (
	MarksAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_marks_accepted_total",
		Help: "Attendance confirmations that appended a record.",
	})

	MarksRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "attendance_marks_rejected_total",
		Help: "Attendance confirmations rejected, by reason.",
	}, []string{"reason"})

	LoginsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "attendance_logins_failed_total",
		Help: "Login attempts rejected for bad credentials.",
	})
)
