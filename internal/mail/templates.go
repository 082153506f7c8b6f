package mail

import (
	"fmt"
	"html"
)

func OrderPaid(to, name string, orderID uint, tier string) Message {
	return Message{
		To:      to,
		Subject: "Your custom song order is confirmed",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>We received your payment for order #%d (%s). Our songwriters will start on it shortly.</p>",
			html.EscapeString(name), orderID, html.EscapeString(tier)),
	}
}

func OrderDelivered(to, name string, orderID uint) Message {
	return Message{
		To:      to,
		Subject: "Your custom song is ready",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>Order #%d has been delivered. You can listen to it in your library.</p>",
			html.EscapeString(name), orderID),
	}
}

func CampaignActive(to, name, title string) Message {
	return Message{
		To:      to,
		Subject: "Your ad campaign is live",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>Your campaign \"%s\" is now running on Zamar.</p>",
			html.EscapeString(name), html.EscapeString(title)),
	}
}

func TestimonyReviewed(to, name, title, status string) Message {
	return Message{
		To:      to,
		Subject: "Your testimony was reviewed",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>Your testimony \"%s\" is now %s.</p>",
			html.EscapeString(name), html.EscapeString(title), html.EscapeString(status)),
	}
}

func CommissionEarned(to, name string, amountCents int64, currency string) Message {
	return Message{
		To:      to,
		Subject: "You earned a referral commission",
		Body: fmt.Sprintf("<p>Hi %s,</p><p>A referral commission of %d.%02d %s was credited to your account.</p>",
			html.EscapeString(name), amountCents/100, amountCents%100, html.EscapeString(currency)),
	}
}
