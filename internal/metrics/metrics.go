package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	LoginTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Subsystem: "auth",
		Name:      "login_total",
		Help:      "Login attempts by role and result.",
	}, []string{"role", "result"})

	RefreshTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Subsystem: "auth",
		Name:      "refresh_total",
		Help:      "Access token refresh attempts by result.",
	}, []string{"result"})

	MailDispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Subsystem: "mail",
		Name:      "dispatch_total",
		Help:      "Outbound mail deliveries by provider and result.",
	}, []string{"provider", "result"})

	RateLimitedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutorhub",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter, by route.",
	}, []string{"route"})
)

func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
