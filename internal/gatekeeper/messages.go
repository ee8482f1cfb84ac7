package gatekeeper

import (
	"fmt"
	"time"
)

const RejectedText = "🚨 Looks like we have another bot. 🚨"

func challengeText(name, chatName, correctLabel string, timeout time.Duration) string {
	return fmt.Sprintf("Hello, %s and welcome to the %s. Just a small formality before we allow you to post: "+
		"Please prove that you are not a robot by choosing \"%s\" below. You have %s to answer.",
		name, chatName, correctLabel, humanDuration(timeout))
}

func humanDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d / time.Second)
		if secs == 1 {
			return "1 second"
		}
		return fmt.Sprintf("%d seconds", secs)
	}
	mins := int(d / time.Minute)
	if mins == 1 {
		return "1 minute"
	}
	return fmt.Sprintf("%d minutes", mins)
}
