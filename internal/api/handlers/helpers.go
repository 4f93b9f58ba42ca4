package handlers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gate-pass-api-server/internal/directory"
	"gate-pass-api-server/internal/logger"
	"gate-pass-api-server/internal/notify"
)

// bestEffortNotify resolves the recipient's profile and sends a mail. It
// never fails the caller's action: the worst outcome is a non-empty
// warning string for the response body.
func bestEffortNotify(ctx context.Context, dir *directory.Cache, notifier notify.Notifier, serviceNo string, event notify.Event) string {
	profile, err := dir.Profile(ctx, serviceNo)
	if err != nil {
		logger.GetLogger().Warn("Notification skipped, profile lookup failed",
			zap.String("serviceNo", serviceNo), zap.String("type", event.Type), zap.Error(err))
		return fmt.Sprintf("notification to %s skipped: profile lookup failed", serviceNo)
	}
	event.RecipientName = profile.Name
	event.RecipientEmail = profile.Email
	if err := notifier.Notify(event); err != nil {
		logger.GetLogger().Warn("Notification failed",
			zap.String("serviceNo", serviceNo), zap.String("type", event.Type), zap.Error(err))
		return fmt.Sprintf("notification to %s failed: %v", serviceNo, err)
	}
	return ""
}

func messageForCount(n int) string {
	return fmt.Sprintf("%d item(s) marked as returned", n)
}

func appendWarning(resp map[string]interface{}, warnings ...string) {
	var kept []string
	for _, w := range warnings {
		if w != "" {
			kept = append(kept, w)
		}
	}
	if len(kept) > 0 {
		resp["warnings"] = kept
	}
}
