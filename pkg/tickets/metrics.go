package tickets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsCreated is the total number of ticket channels created.
	TicketsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "invoicer_tickets_created_total",
			Help: "Total number of ticket channels created",
		},
	)

	// TicketsClosed is the total number of ticket channels closed, by result of the deletion.
	TicketsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoicer_tickets_closed_total",
			Help: "Total number of ticket channels closed",
		},
		[]string{"result"},
	)

	// InvoiceOutcomes is the total number of invoice lookups by where they came from and how they ended.
	InvoiceOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invoicer_invoice_outcomes_total",
			Help: "Total number of invoice lookups by outcome",
		},
		[]string{"source", "outcome"},
	)
)
