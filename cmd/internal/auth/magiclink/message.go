package magiclink

import (
	"fmt"
	"html"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

var mailPolicy = bluemonday.UGCPolicy()

// newMessage builds the login email for href. The HTML body is filtered through the UGC policy;
// only http(s) and mailto hrefs survive.
func newMessage(from, to, href string, ttl time.Duration) Message {
	body := fmt.Sprintf(`<p>Sign in to the guestbook admin:</p><p><a href="%s">Sign in</a></p><p>This link expires in %s and works once.</p>`,
		html.EscapeString(href), html.EscapeString(ttl.String()))
	return Message{
		From:    from,
		To:      to,
		Subject: "Your sign-in link",
		Text:    fmt.Sprintf("Sign in to the guestbook admin: %s\n\nThis link expires in %s and works once.", href, ttl),
		HTML:    mailPolicy.Sanitize(body),
		Link:    href,
	}
}
