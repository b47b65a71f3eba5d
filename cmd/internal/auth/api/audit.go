package api

import (
	"context"
	"log/slog"
	"net"
	"strings"
	"time"
)

func (h *Handler) auditLinkDenied(ctx context.Context, ip net.IP, ua string) {
	h.audit(ctx, slog.LevelWarn, "auth.link.denied", ip, ua)
}

func (h *Handler) auditLinkSent(ctx context.Context, linkID string, ip net.IP, ua string) {
	h.audit(ctx, slog.LevelInfo, "auth.link.sent", ip, ua, "link_id", linkID)
}

func (h *Handler) auditLinkRateLimited(ctx context.Context, ip net.IP, ua string, retryAfter time.Duration) {
	h.audit(ctx, slog.LevelWarn, "auth.link.rate_limited", ip, ua, "retry_after_s", int64(retryAfter.Seconds()))
}

func (h *Handler) auditVerifyFailed(ctx context.Context, ip net.IP, ua string, reason string) {
	h.audit(ctx, slog.LevelWarn, "auth.verify.failed", ip, ua, "reason", reason)
}

func (h *Handler) auditVerifySuccess(ctx context.Context, sessionID string, ip net.IP, ua string) {
	h.audit(ctx, slog.LevelInfo, "auth.verify.success", ip, ua, "session_id", sessionID)
}

func (h *Handler) auditLogout(ctx context.Context, sessionID string, ip net.IP, ua string) {
	h.audit(ctx, slog.LevelInfo, "auth.logout", ip, ua, "session_id", sessionID)
}

// audit logs a security event. The admin address is never logged.
func (h *Handler) audit(ctx context.Context, level slog.Level, action string, ip net.IP, ua string, attrs ...any) {
	if h == nil || h.log == nil {
		return
	}
	args := make([]any, 0, len(attrs)+4)
	if ip != nil {
		args = append(args, "ip", ip.String())
	}
	if ua = strings.TrimSpace(ua); ua != "" {
		args = append(args, "user_agent", ua)
	}
	args = append(args, attrs...)
	h.log.Log(ctx, level, action, args...)
}
