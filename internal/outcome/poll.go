package outcome

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// minInterval guards against degenerate configs busy-spinning the probe.
const minInterval = time.Millisecond

// detector consumes one screen sample per cycle and may latch a verdict.
// conclude is consulted once, when the window elapses without one.
type detector interface {
	observe(screen string) (Result, bool)
	conclude() (Result, bool)
}

// Poll samples the machine until a definitive outcome is reached or the
// observation window elapses. Absence of evidence of failure within the
// window is success: false failure verdicts abort benign runs, so ambiguity
// always resolves to ok. It never fails; transient probe errors are logged
// and retried on the next cycle.
//
// Cancelling ctx returns the best-known result immediately (ok unless a
// verdict was already latched). The logger is a pure side channel.
func Poll(ctx context.Context, typ ProgramType, p Probe, log *zap.SugaredLogger, t Timing) Result {
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	interval := t.Interval
	if interval < minInterval {
		interval = minInterval
	}

	var det detector
	switch typ {
	case TypeASM:
		det = newASMDetector(p)
	default:
		det = newBasicDetector()
	}

	deadline := time.Now().Add(t.Max)

	for time.Now().Before(deadline) {
		screen, err := p.ReadScreen()
		if err != nil {
			// Not evidence of any outcome; detector state is untouched.
			log.Debugw("screen read failed, retrying", "type", typ, "error", err)
		} else if res, done := det.observe(screen); done {
			log.Debugw("definitive outcome observed",
				"type", typ, "status", res.Status)
			return res
		}

		select {
		case <-ctx.Done():
			log.Debugw("poll cancelled", "type", typ, "cause", ctx.Err())
			return Result{Status: StatusOK, Type: typ}
		case <-time.After(interval):
		}
	}

	if res, done := det.conclude(); done {
		log.Debugw("outcome concluded at window end",
			"type", typ, "status", res.Status)
		return res
	}

	// No launch marker or no failure signature within the window.
	return Result{Status: StatusOK, Type: typ}
}
