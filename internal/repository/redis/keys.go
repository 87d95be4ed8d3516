package redis

import "fmt"

const ns = "naksyetu:v1"

func KeyEventSnapshot(eventID int64) string {
	return fmt.Sprintf("%s:event:%d:snapshot", ns, eventID)
}

func KeyEventAvailability(eventID int64) string {
	return fmt.Sprintf("%s:event:%d:availability", ns, eventID)
}

func KeySession(sessionID string) string {
	return fmt.Sprintf("%s:checkout:%s", ns, sessionID)
}

func KeyIdemInitiate(sessionID, idemKey string) string {
	return fmt.Sprintf("%s:idem:initiate:%s:%s", ns, sessionID, idemKey)
}

func KeyRateLimit(scope, suffix string) string {
	return fmt.Sprintf("%s:%s:%s", ns, scope, suffix)
}

func ChannelPaymentsChanged() string {
	return ns + ":payments:changed"
}
