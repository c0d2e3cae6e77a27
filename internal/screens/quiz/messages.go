package quiz

// bannerExpiredMsg clears the banner it was scheduled for. A newer banner
// has a higher seq and survives older timers.
type bannerExpiredMsg struct {
	seq int
}
