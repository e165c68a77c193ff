package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts by outcome (success, invalid, error).
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_login_total",
			Help: "Login attempts by outcome",
		},
		[]string{"status"},
	)

	// GateRejections counts requests refused by the authorization gate.
	GateRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_gate_rejections_total",
			Help: "Requests rejected by the authorization gate",
		},
		[]string{"reason"},
	)

	UsuariosProvisioned = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "usuarios_provisioned_total",
			Help: "Users provisioned by specialization",
		},
		[]string{"especializacao"},
	)
)
