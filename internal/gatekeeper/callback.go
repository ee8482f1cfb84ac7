package gatekeeper

import (
	"fmt"
	"strconv"
	"strings"
)

const callbackPrefix = "gk"

// ButtonPress is a decoded challenge button event.
type ButtonPress struct {
	ActorID     int64
	MemberID    int64
	ChallengeID string
	Tag         string
}

// EncodeCallback builds the callback data carried by a challenge button.
// Telegram limits callback data to 64 bytes; ids and tags stay well below.
func EncodeCallback(memberID int64, challengeID, tag string) string {
	return fmt.Sprintf("%s:%d:%s:%s", callbackPrefix, memberID, challengeID, tag)
}

// DecodeCallback parses button callback data. Besides the current
// "gk:<member>:<challenge>:<tag>" layout it accepts the older
// "<member>,<tag>" form, which carries no challenge id.
func DecodeCallback(data string) (ButtonPress, bool) {
	if strings.HasPrefix(data, callbackPrefix+":") {
		parts := strings.Split(data, ":")
		if len(parts) != 4 || parts[2] == "" || parts[3] == "" {
			return ButtonPress{}, false
		}
		memberID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return ButtonPress{}, false
		}
		return ButtonPress{MemberID: memberID, ChallengeID: parts[2], Tag: parts[3]}, true
	}

	member, tag, ok := strings.Cut(data, ",")
	if !ok || tag == "" {
		return ButtonPress{}, false
	}
	memberID, err := strconv.ParseInt(member, 10, 64)
	if err != nil {
		return ButtonPress{}, false
	}
	return ButtonPress{MemberID: memberID, Tag: tag}, true
}
