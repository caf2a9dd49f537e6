package outcome

import (
	"regexp"
	"strconv"
	"strings"
)

// basicLaunchMarker is matched case-insensitively; the interpreter echoes
// the typed command, so casing depends on the active character bank.
const basicLaunchMarker = "RUN"

// basicErrorRe matches the interpreter's fixed uppercase error convention:
// a line starting with '?', the error name, the literal word ERROR, and an
// optional " IN <line>" suffix.
var basicErrorRe = regexp.MustCompile(`(?m)^\?([A-Z][A-Z ]*?) ERROR(?: IN (\d+))?`)

// basicDetector classifies interpreted-BASIC runs from screen text alone.
type basicDetector struct {
	seenRun bool
}

func newBasicDetector() *basicDetector {
	return &basicDetector{}
}

// observe consumes one successfully-read screen.
//
// Until the launch marker appears the detector is warming up and no error
// text is interpreted; this keeps leftovers of a previous program on screen
// from being misread. Once launched, only text following the marker counts.
func (d *basicDetector) observe(screen string) (Result, bool) {
	idx := indexFold(screen, basicLaunchMarker)

	if !d.seenRun {
		if idx < 0 {
			return Result{}, false
		}
		d.seenRun = true
	}

	tail := screen
	if idx >= 0 {
		tail = screen[idx+len(basicLaunchMarker):]
	}

	m := basicErrorRe.FindStringSubmatch(tail)
	if m == nil {
		return Result{}, false
	}

	res := Result{
		Status:  StatusError,
		Type:    TypeBasic,
		Message: strings.TrimSpace(m[1]),
	}
	if m[2] != "" {
		if n, err := strconv.Atoi(m[2]); err == nil {
			res.Line = &n
		}
	}
	return res, true
}

// conclude reports nothing: a BASIC run with no error signature inside the
// window is the loop-level default ok.
func (d *basicDetector) conclude() (Result, bool) {
	return Result{}, false
}

// indexFold is a case-insensitive strings.Index.
func indexFold(s, substr string) int {
	return strings.Index(strings.ToUpper(s), strings.ToUpper(substr))
}
