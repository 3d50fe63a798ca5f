package process

import (
	"strings"

	"github.com/viant/multiproc/internal/console"
)

// renderer prints what a display shows, and only when it changes.
type renderer struct {
	title string
	peer  int
	out   *console.Console

	shown   bool
	value   int32
	report  string
	reports int
}

func (r *renderer) counter(value int32) {
	if r.shown && r.value == value {
		return
	}
	r.shown, r.value = true, value
	r.out.Linef("[%s] Zählerstand: %d", r.title, value)
}

func (r *renderer) inbound(report string) {
	if report == r.report {
		return
	}
	r.report = report
	if report == "" {
		return
	}
	r.out.Linef("[%s] Bericht von Prozess %d:", r.title, r.peer)
	for _, line := range strings.Split(report, "\n") {
		r.out.Linef("  %s", line)
	}
}

func (r *renderer) written(reports int) {
	if reports == r.reports {
		return
	}
	r.reports = reports
	r.out.Linef("[%s] Berichte fertig: %d", r.title, reports)
}
