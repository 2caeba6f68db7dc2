package copier

import "time"

// ConfirmationDuration is how long a successful copy stays confirmed.
const ConfirmationDuration = 3 * time.Second

// Flash is the transient "copied" confirmation. Each Show starts a new
// generation; an Expire carrying an older generation is ignored, so the
// latest copy always gets its full display time.
type Flash struct {
	Duration time.Duration

	generation uint64
	visible    bool
	until      time.Time
}

// NewFlash returns a flash lasting ConfirmationDuration.
func NewFlash() *Flash {
	return &Flash{Duration: ConfirmationDuration}
}

// Show makes the confirmation visible and returns its generation.
func (f *Flash) Show(now time.Time) uint64 {
	f.generation++
	f.visible = true
	f.until = now.Add(f.Duration)
	return f.generation
}

// Expire hides the confirmation if gen is still the latest generation.
func (f *Flash) Expire(gen uint64) bool {
	if gen != f.generation || !f.visible {
		return false
	}
	f.visible = false
	return true
}

// Visible reports whether the confirmation should be shown at now.
func (f *Flash) Visible(now time.Time) bool {
	return f.visible && now.Before(f.until)
}
