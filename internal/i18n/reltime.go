package i18n

import "time"

// RelativeTime describes how long ago t was, e.g. "3 days ago". It is used
// for the last-modified time of the activation store.
func RelativeTime(t time.Time) string {
	return relativeTime(t, time.Now())
}

func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return T("time.justNow", "just now")
	case d < time.Hour:
		return Tn("time.minutesAgo", "{{.Count}} minute ago", "{{.Count}} minutes ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return Tn("time.hoursAgo", "{{.Count}} hour ago", "{{.Count}} hours ago", int(d.Hours()))
	case d < 365*24*time.Hour:
		return Tn("time.daysAgo", "{{.Count}} day ago", "{{.Count}} days ago", int(d.Hours()/24))
	default:
		return Tn("time.yearsAgo", "{{.Count}} year ago", "{{.Count}} years ago", int(d.Hours()/(24*365)))
	}
}
