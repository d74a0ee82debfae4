package cache

import (
	"time"
)

// TimeUntilNextUTCDay は now から次のUTC日付境界（00:00 UTC）までの期間を返します。
// 日次の価格データはこの時刻に新しい足が確定します。
func TimeUntilNextUTCDay(now time.Time) time.Duration {
	u := now.UTC()
	next := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return next.Sub(u)
}
