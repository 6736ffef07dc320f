package integration

import (
	"fmt"
	"time"
)

// TestUser generates unique test user credentials using timestamp
func TestUser(suffix string) (email, password string) {
	ts := time.Now().UnixNano()
	email = fmt.Sprintf("test-%d-%s@example.com", ts, suffix)
	password = "TestPassword123!"
	return
}

// TestItemPayload builds a valid item creation body
func TestItemPayload(itemType, title string) map[string]interface{} {
	return map[string]interface{}{
		"title":       title,
		"description": "An item used by the integration suite, distinctive enough to search for.",
		"type":        itemType,
		"category":    "Other",
		"location":    "Main Library",
		"date":        time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339),
	}
}

// TestClaimPayload builds a valid claim submission body
func TestClaimPayload() map[string]interface{} {
	return map[string]interface{}{
		"message": "That one is mine, it has my initials scratched into the underside.",
	}
}
