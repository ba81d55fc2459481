package client

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/bodrovis/unitx/jsonapi"
)

// SignatureHeader carries the base64 HMAC-SHA1 of a webhook delivery body.
const SignatureHeader = "X-Unit-Signature"

// WebhookAttributes describe a webhook subscription.
type WebhookAttributes struct {
	Label        string    `json:"label"`
	URL          string    `json:"url"`
	Token        string    `json:"token"`
	ContentType  string    `json:"contentType"`
	DeliveryMode string    `json:"deliveryMode"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Webhook is an event subscription.
type Webhook = jsonapi.Resource[WebhookAttributes]

// CreateWebhookAttributes register a new endpoint. ContentType is
// "Json" or "JsonAPI"; DeliveryMode is "AtMostOnce" or "AtLeastOnce".
type CreateWebhookAttributes struct {
	Label        string `json:"label"`
	URL          string `json:"url"`
	Token        string `json:"token"`
	ContentType  string `json:"contentType"`
	DeliveryMode string `json:"deliveryMode"`
}

// UpdateWebhookAttributes are the fields PATCH accepts.
type UpdateWebhookAttributes struct {
	Label       string `json:"label,omitempty"`
	URL         string `json:"url,omitempty"`
	Token       string `json:"token,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// UpdateWebhookRequest is the PATCH /webhooks/{id} body before wrapping.
type UpdateWebhookRequest struct {
	Type       string                  `json:"type"`
	Attributes UpdateWebhookAttributes `json:"attributes"`
}

// WebhooksResource wraps /webhooks.
type WebhooksResource struct {
	*Resource
}

// Create subscribes a URL to events.
func (w *WebhooksResource) Create(ctx context.Context, attrs CreateWebhookAttributes) (*Response[Webhook], error) {
	return fetchTyped[WebhookAttributes](ctx, w.Resource, http.MethodPost, "", jsonapi.Wrap("webhook", attrs), nil)
}

// Get fetches a webhook by id.
func (w *WebhooksResource) Get(ctx context.Context, id string) (*Response[Webhook], error) {
	if err := requireID("get webhook", "webhook id", id); err != nil {
		return nil, err
	}
	return fetchTyped[WebhookAttributes](ctx, w.Resource, http.MethodGet, "/"+id, nil, nil)
}

// List returns a page of webhooks.
func (w *WebhooksResource) List(ctx context.Context, page Page) (*ListResponse[Webhook], error) {
	return fetchTypedList[WebhookAttributes](ctx, w.Resource, "", &RequestOptions{Params: newQuery().page(page).values()})
}

// Update patches a webhook.
func (w *WebhooksResource) Update(ctx context.Context, id string, req UpdateWebhookRequest) (*Response[Webhook], error) {
	if err := requireID("update webhook", "webhook id", id); err != nil {
		return nil, err
	}
	return fetchTyped[WebhookAttributes](ctx, w.Resource, http.MethodPatch, "/"+id, req, nil)
}

// Delete removes a webhook.
func (w *WebhooksResource) Delete(ctx context.Context, id string) error {
	if err := requireID("delete webhook", "webhook id", id); err != nil {
		return err
	}
	return w.Resource.Delete(ctx, "/"+id, emptyBody(), nil)
}

// Enable resumes deliveries. The request carries an explicit "{}" body.
func (w *WebhooksResource) Enable(ctx context.Context, id string) (*Response[Webhook], error) {
	if err := requireID("enable webhook", "webhook id", id); err != nil {
		return nil, err
	}
	return fetchTyped[WebhookAttributes](ctx, w.Resource, http.MethodPost, "/"+id+"/enable", emptyBody(), nil)
}

// Disable pauses deliveries. The request carries an explicit "{}" body.
func (w *WebhooksResource) Disable(ctx context.Context, id string) (*Response[Webhook], error) {
	if err := requireID("disable webhook", "webhook id", id); err != nil {
		return nil, err
	}
	return fetchTyped[WebhookAttributes](ctx, w.Resource, http.MethodPost, "/"+id+"/disable", emptyBody(), nil)
}

// VerifySignature reports whether signature is the base64 HMAC-SHA1 of body
// keyed with the webhook token.
func (w *WebhooksResource) VerifySignature(body []byte, signature, token string) bool {
	return VerifySignature(body, signature, token)
}

// VerifySignature is the standalone form of WebhooksResource.VerifySignature.
func VerifySignature(body []byte, signature, token string) bool {
	if signature == "" || token == "" {
		return false
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature Unit would send for body.
func Sign(body []byte, token string) string {
	mac := hmac.New(sha1.New, []byte(token))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
