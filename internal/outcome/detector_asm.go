package outcome

import (
	"bytes"
	"regexp"
)

// CrashReason is the fixed diagnostic attached to ASM crash verdicts.
const CrashReason = "no VIC/CIA/TI/screen progression within window"

// asmLaunchRe matches the machine-code launch signature: the RUN command
// followed by a SYS call line, case-insensitively.
var asmLaunchRe = regexp.MustCompile(`(?is)RUN.*SYS`)

// region is one hardware status byte range. Geometry only: no semantics.
type region struct {
	name string
	addr uint16
	len  uint16
}

// activityRegions are sampled as a proxy for "the program is doing
// something observable": the VIC-II register file, the CIA 1 timer block,
// the kernal jiffy clock (TI), and the screen matrix.
var activityRegions = []region{
	{name: "vic", addr: 0xD000, len: 0x2F},
	{name: "cia1", addr: 0xDC00, len: 0x10},
	{name: "ti", addr: 0x00A0, len: 3},
	{name: "screen", addr: 0x0400, len: 1000},
}

// asmDetector classifies machine-code runs by watching hardware activity.
// A frozen machine leaves every sampled region byte-identical to the
// baseline taken at launch.
type asmDetector struct {
	probe Probe

	seenRun      bool
	baseline     []byte
	haveBaseline bool
}

func newASMDetector(p Probe) *asmDetector {
	return &asmDetector{probe: p}
}

// observe consumes one successfully-read screen. Before the launch marker
// appears no crash judgment is made. The first post-launch snapshot becomes
// the baseline; any later snapshot differing from it is a definitive ok.
func (d *asmDetector) observe(screen string) (Result, bool) {
	if !d.seenRun {
		if !asmLaunchRe.MatchString(screen) {
			return Result{}, false
		}
		d.seenRun = true
	}

	snap, err := d.snapshot()
	if err != nil {
		// Transient read failure: a probe outage is not hardware evidence.
		return Result{}, false
	}

	if !d.haveBaseline {
		d.baseline = snap
		d.haveBaseline = true
		return Result{}, false
	}

	if !bytes.Equal(snap, d.baseline) {
		return Result{Status: StatusOK, Type: TypeASM}, true
	}
	return Result{}, false
}

// conclude is called when the window elapses. A launched program whose
// every successfully-read snapshot matched the baseline is crashed; without
// a launch marker or a baseline there is no evidence either way.
func (d *asmDetector) conclude() (Result, bool) {
	if d.seenRun && d.haveBaseline {
		return Result{Status: StatusCrashed, Type: TypeASM, Reason: CrashReason}, true
	}
	return Result{}, false
}

// snapshot concatenates all activity regions. All-or-nothing: any failed
// read aborts the cycle's snapshot.
func (d *asmDetector) snapshot() ([]byte, error) {
	var buf []byte
	for _, r := range activityRegions {
		b, err := d.probe.ReadMemory(r.addr, r.len)
		if err != nil {
			return nil, err
		}
		buf = append(buf, b...)
	}
	return buf, nil
}
