package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/kbukum/sdiscovery/errors"
	"github.com/kbukum/sdiscovery/failover"
	"github.com/kbukum/sdiscovery/httpclient"
	"github.com/kbukum/sdiscovery/logger"
	"github.com/kbukum/sdiscovery/validation"
)

// StaticAnnounce publishes a static announcement and returns the id the
// registry assigned to it. Missing required fields are reported together as
// INVALID_ANNOUNCEMENT before any request is sent.
func (c *Client) StaticAnnounce(ctx context.Context, a Announcement) (string, error) {
	missing, err := validation.Missing(a)
	if err != nil {
		return "", err
	}
	if len(missing) > 0 {
		return "", errors.InvalidAnnouncement(missing)
	}
	body, err := json.Marshal(a)
	if err != nil {
		return "", errors.Internal(err)
	}

	ctx = c.withRequestID(ctx)
	log := c.log.WithContext(ctx)

	return failover.Execute(ctx, c.executor, OpAnnounce, func(ctx context.Context, endpoint string) (string, error) {
		target, err := httpclient.ResolveURL(endpoint, "v1", "announcement", "static")
		if err != nil {
			return "", err
		}
		log.Debug("Announce Request", logger.Fields(logger.FieldURL, target))
		if log.DebugEnabled() {
			log.Debug("Announce Body", logger.Fields("body", string(body)))
		}

		resp, err := c.transport.Do(ctx, httpclient.Request{
			Method:  http.MethodPost,
			Path:    target,
			Headers: requestHeaders(ctx),
			Body:    body,
		})
		if err != nil {
			return "", err
		}

		var out announceResponse
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return "", errors.DecodeFailed("announcement response", err)
		}
		if out.ID == "" {
			return "", errors.DecodeFailed("announcement response", fmt.Errorf("response has no id"))
		}
		return out.ID, nil
	})
}

// StaticDelete retracts the announcement with the given id. A nil or empty
// id is INVALID_ARGUMENT and sends nothing.
func (c *Client) StaticDelete(ctx context.Context, id *string) error {
	if id == nil {
		return errors.InvalidArgument("id", "must not be nil")
	}
	if strings.TrimSpace(*id) == "" {
		return errors.InvalidArgument("id", "must not be empty")
	}

	ctx = c.withRequestID(ctx)
	log := c.log.WithContext(ctx)

	_, err := failover.Execute(ctx, c.executor, OpDelete, func(ctx context.Context, endpoint string) (struct{}, error) {
		target, err := httpclient.ResolveURL(endpoint, "v1", "announcement", "static", *id)
		if err != nil {
			return struct{}{}, err
		}
		log.Debug("Delete Request", logger.Fields(logger.FieldURL, target))

		_, err = c.transport.Do(ctx, httpclient.Request{
			Method:  http.MethodDelete,
			Path:    target,
			Headers: requestHeaders(ctx),
		})
		return struct{}{}, err
	})
	return err
}
