package feed

import "DevRadar/internal/domain"

// Tier identifies which data tier a feed read targets.
type Tier string

const (
	TierRecent     Tier = "recent"
	TierHistorical Tier = "historical"
)

// Next returns the tier the caller should request after receiving page for
// the current tier. The RECENT -> HISTORICAL transition fires exactly once,
// when a recent-tier page reports hasMore=false: that signal means "recent
// tier exhausted", not "no more data exists", and the historical read then
// starts at offset 0. The transition is a pure function of the last
// response, never of client scroll heuristics.
func Next(current Tier, page domain.FeedPage) Tier {
	if current == TierRecent && !page.HasMore {
		return TierHistorical
	}
	return current
}
