package clock

// Countdown is a whole-second down-counter
type Countdown struct {
	remaining int
}

// NewCountdown starts a countdown at seconds
func NewCountdown(seconds int) *Countdown {
	if seconds < 0 {
		seconds = 0
	}
	return &Countdown{remaining: seconds}
}

// InitialSeconds picks the starting value for a round: the saved remaining
// time when there is one, otherwise the level's full duration
func InitialSeconds(timeMinutes, savedRemaining int) int {
	if savedRemaining > 0 {
		return savedRemaining
	}
	return timeMinutes * 60
}

// Remaining returns the seconds left
func (c *Countdown) Remaining() int {
	return c.remaining
}

// Expired reports whether the countdown has reached zero
func (c *Countdown) Expired() bool {
	return c.remaining <= 0
}

// Tick decrements by one second and reports whether this tick reached zero.
// Ticks after expiry do nothing.
func (c *Countdown) Tick() bool {
	if c.remaining <= 0 {
		return false
	}
	c.remaining--
	return c.remaining == 0
}
