package controlplane

import (
	"log/slog"
	"strings"

	"github.com/1broseidon/borderd/internal/config"
	"github.com/1broseidon/borderd/internal/hook"
)

// IntegrityLevel orders the Windows process integrity levels the elevation
// gate (spec §C supplemented feature) checks a sender against.
type IntegrityLevel int

const (
	IntegrityUntrusted IntegrityLevel = iota
	IntegrityLow
	IntegrityMedium
	IntegrityHigh
	IntegritySystem
)

// Windows mandatory-integrity-level RID thresholds (winlogon.h), in
// ascending order; IntegrityLevelFromRID buckets a raw SID sub-authority
// into the coarser IntegrityLevel the Filter checks against.
const (
	ridLow      = 0x1000
	ridMedium   = 0x2000
	ridHigh     = 0x3000
	ridSystem   = 0x4000
)

// IntegrityLevelFromRID converts the raw integrity SID RID winapi.IntegrityRIDFromPID
// resolves from a sender's process token into the coarse IntegrityLevel the
// Filter checks against.
func IntegrityLevelFromRID(rid uint32) IntegrityLevel {
	switch {
	case rid >= ridSystem:
		return IntegritySystem
	case rid >= ridHigh:
		return IntegrityHigh
	case rid >= ridMedium:
		return IntegrityMedium
	case rid >= ridLow:
		return IntegrityLow
	default:
		return IntegrityUntrusted
	}
}

func ParseIntegrityLevel(s string) IntegrityLevel {
	switch strings.ToLower(s) {
	case "untrusted":
		return IntegrityUntrusted
	case "low":
		return IntegrityLow
	case "high":
		return IntegrityHigh
	case "system":
		return IntegritySystem
	default:
		return IntegrityMedium
	}
}

// Filter rejects control-plane messages from a sender whose integrity
// level is below the configured minimum, so a non-elevated process cannot
// retarget an elevated overlay instance (spec §C).
type Filter struct {
	Min IntegrityLevel
}

// Allow reports whether a sender at senderLevel may have its message
// processed.
func (f Filter) Allow(senderLevel IntegrityLevel) bool {
	return senderLevel >= f.Min
}

// Receiver owns the live, atomically-replaced settings and the active
// target-list override, applying incoming wire messages and posting a
// single refresh request per accepted message (spec §4.7).
type Receiver struct {
	filter  Filter
	logger  *slog.Logger
	demux   *hook.Demultiplexer
	live    LiveConfig
	targets *TargetOverride // nil means "no override, use enumeration"
}

// New builds a Receiver seeded from the startup config.
func New(startup *config.Config, demux *hook.Demultiplexer, logger *slog.Logger) *Receiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Receiver{
		filter: Filter{Min: ParseIntegrityLevel(startup.MinIntegrityLevel)},
		logger: logger,
		demux:  demux,
		live:   FromStartup(startup),
	}
}

// Live returns the current live config snapshot. Safe to call from the UI
// thread only — the Receiver is not goroutine-safe, per spec §5's
// single-threaded-UI-thread ownership model.
func (r *Receiver) Live() LiveConfig { return r.live }

// Targets returns the active target-list override, or nil if enumeration
// should be used.
func (r *Receiver) Targets() *TargetOverride { return r.targets }

// ClearTargets drops the target-list override, reverting to enumeration.
func (r *Receiver) ClearTargets() { r.targets = nil }

// Handle processes one raw text payload delivered via WM_COPYDATA,
// rejecting it entirely if senderLevel fails the elevation filter
// (spec §C), otherwise dispatching to the settings or target-list parser
// and posting a single refresh request.
func (r *Receiver) Handle(text string, senderLevel IntegrityLevel) {
	if !r.filter.Allow(senderLevel) {
		r.logger.Warn("control-plane: rejecting message from insufficiently privileged sender", "sender_level", senderLevel)
		return
	}

	if IsTargetList(text) {
		ov := ParseTargetList(strings.TrimPrefix(text, hwndsPrefix))
		r.targets = &ov
	} else {
		r.live = ApplySettings(text, r.live, r.logger)
	}

	r.postRefresh()
}

func (r *Receiver) postRefresh() {
	if r.demux == nil {
		return
	}
	select {
	case r.demux.Refresh <- hook.RefreshRequest{}:
	default:
	}
}
