package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/erikawesome453-wq/task-dash-earn/models"

	webpush "github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"
)

// WebPusher delivers settlement events to the user's registered browser push
// subscriptions. Endpoints that the push service reports gone (404/410) are
// pruned.
type WebPusher struct {
	vapidPublic  string
	vapidPrivate string
	subscriber   string
	appURL       string
	appName      string
	db           *gorm.DB
}

type pushPayload struct {
	Title              string `json:"title"`
	Body               string `json:"body"`
	URL                string `json:"url"`
	Icon               string `json:"icon,omitempty"`
	RequireInteraction bool   `json:"requireInteraction"`
}

// NewWebPusherFromEnv returns nil when VAPID keys are not configured.
func NewWebPusherFromEnv(db *gorm.DB) *WebPusher {
	pub := strings.TrimSpace(os.Getenv("VAPID_PUBLIC_KEY"))
	priv := strings.TrimSpace(os.Getenv("VAPID_PRIVATE_KEY"))
	if pub == "" || priv == "" {
		return nil
	}
	appName := os.Getenv("APP_NAME")
	if appName == "" {
		appName = "TaskEarn"
	}
	return &WebPusher{
		vapidPublic:  pub,
		vapidPrivate: priv,
		subscriber:   os.Getenv("VAPID_SUBSCRIBER"),
		appURL:       os.Getenv("APP_URL"),
		appName:      appName,
		db:           db,
	}
}

func (p *WebPusher) Name() string { return "webpush" }

func (p *WebPusher) Send(_ context.Context, ev Event) error {
	tpl, ok := templateFor(ev)
	if !ok {
		return fmt.Errorf("unknown event type %q", ev.Type)
	}

	var subs []models.PushSubscription
	if err := p.db.Where("user_id = ?", ev.UserID).Find(&subs).Error; err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushPayload{
		Title:              p.appName + ": " + tpl.Heading,
		Body:               tpl.Message,
		URL:                p.appURL + "/wallet",
		RequireInteraction: true,
	})
	if err != nil {
		return err
	}

	var lastErr error
	for _, sub := range subs {
		resp, err := webpush.SendNotification(payload, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
		}, &webpush.Options{
			Subscriber:      p.subscriber,
			VAPIDPublicKey:  p.vapidPublic,
			VAPIDPrivateKey: p.vapidPrivate,
			TTL:             60,
		})
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			// Browser unregistered this endpoint.
			if err := p.db.Delete(&models.PushSubscription{}, sub.ID).Error; err != nil {
				log.Printf("[notify] pruning dead subscription %d: %v", sub.ID, err)
			}
		}
		resp.Body.Close()
	}
	return lastErr
}
