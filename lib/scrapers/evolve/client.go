package evolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"evowatch-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

var tracer = otel.Tracer("scrapers/evolve")

var (
	// ErrNoSession means no cookie is configured at all. Fetches fail
	// fast on it instead of inventing a session.
	ErrNoSession = errors.New("no session cookie configured")
	// ErrChallengeUnresolved means the anti-automation page came back
	// but no token could be extracted (or decryption produced nothing).
	ErrChallengeUnresolved = errors.New("could not resolve anti-automation challenge")
)

const (
	defaultBaseUrl     = "https://evolve-rp.ru"
	monitoringEndpoint = "/api/userPanel.php?method=getMonitoring"
	defaultRetryDelay  = time.Second
)

type ClientOptions struct {
	// BaseUrl defaults to the production panel, tests point it at a
	// local server.
	BaseUrl string
	Session *SessionStore
	// RetryDelay is the pause between resolving a challenge and
	// replaying the request. Defaults to one second.
	RetryDelay time.Duration
}

// Client talks to the monitoring endpoint of the user panel. One
// challenge recovery pass is permitted per fetch call, coarser
// backoff is the caller's job.
type Client struct {
	http       *resty.Client
	session    *SessionStore
	retryDelay time.Duration
}

func NewClient(opts ClientOptions) *Client {
	if opts.BaseUrl == "" {
		opts.BaseUrl = defaultBaseUrl
	}
	if opts.RetryDelay == 0 {
		opts.RetryDelay = defaultRetryDelay
	}
	if opts.Session == nil {
		opts.Session = NewSessionStore("")
	}

	client := resty.New()
	client.SetBaseURL(opts.BaseUrl)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)

	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetHeader("accept", "application/json")
	client.SetHeader("origin", opts.BaseUrl)
	client.SetHeader("referer", opts.BaseUrl+"/dashboard/monitoring")
	// a redirect is the upstream's way of saying the session expired,
	// following it would only land on the login page. the response is
	// kept as-is rather than turned into an error so it classifies as
	// a malformed payload, not a transport failure
	client.GetClient().CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}
	client.SetTimeout(time.Second * 30)

	// 2 requests max per second
	// max burst >= 2 just means that no requests will be dropped
	rateLimiter := rate.NewLimiter(2, 2)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "scrapers/evolve/http")

	return &Client{
		http:       client,
		session:    opts.Session,
		retryDelay: opts.RetryDelay,
	}
}

// Session exposes the store so callers can seed or clear it.
func (c *Client) Session() *SessionStore {
	return c.session
}

type monitoringPayload struct {
	Success bool            `json:"success"`
	Content json.RawMessage `json:"content"`
}

func (c *Client) issue(ctx context.Context, categ, cookie string) (*resty.Response, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("cookie", cookie).
		SetBody(map[string]string{"categ": categ}).
		Post(monitoringEndpoint)
	if err != nil {
		return nil, err
	}

	code := res.StatusCode()
	if code == http.StatusUnauthorized || code == http.StatusForbidden {
		c.session.Invalidate()
		slog.WarnContext(ctx, "session rejected, cookie cleared", "category", categ, "status", code)
		return nil, fmt.Errorf("authentication rejected with status %d", code)
	}
	if code >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d", code)
	}
	return res, nil
}

// fetchRaw runs the category fetch protocol and returns the content
// list still encoded. A nil error with nil content means the upstream
// answered with a well-formed reply that simply carried nothing, only
// a non-nil error marks a true failure (which is what the cache layer
// keys stale-serving on).
func (c *Client) fetchRaw(ctx context.Context, categ string) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, "client:fetchMonitoring")
	defer span.End()
	span.SetAttributes(attribute.String("category", categ))

	cookie := c.session.Get()
	if cookie == "" {
		span.SetStatus(codes.Error, ErrNoSession.Error())
		return nil, ErrNoSession
	}

	res, err := c.issue(ctx, categ, cookie)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "initial request failed")
		return nil, err
	}

	body := res.String()
	if IsChallenge(body) {
		token := ExtractToken(body)
		if token == "" {
			span.SetStatus(codes.Error, ErrChallengeUnresolved.Error())
			return nil, ErrChallengeUnresolved
		}

		cookie = PatchSessionCookie(cookie, token)
		c.session.Replace(cookie)
		slog.InfoContext(ctx, "session token refreshed after challenge", "category", categ)

		// replaying immediately tends to get served the challenge
		// again, give the upstream a moment
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryDelay):
		}

		res, err = c.issue(ctx, categ, cookie)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "replay after challenge failed")
			return nil, err
		}
		body = res.String()
		if IsChallenge(body) {
			// one recovery pass only, a second challenge means the
			// token did not take
			span.SetStatus(codes.Error, ErrChallengeUnresolved.Error())
			return nil, ErrChallengeUnresolved
		}
	}

	var payload monitoringPayload
	err = json.Unmarshal([]byte(body), &payload)
	if err != nil {
		slog.WarnContext(ctx, "upstream body is not a monitoring payload", "category", categ, "err", err)
		return nil, nil
	}
	if !payload.Success || payload.Content == nil {
		slog.WarnContext(ctx, "upstream returned success=false or no content", "category", categ)
		return nil, nil
	}
	return payload.Content, nil
}

func fetchList[T any](ctx context.Context, c *Client, cat Category) ([]T, error) {
	content, err := c.fetchRaw(ctx, cat.Key())
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}

	var list []T
	err = json.Unmarshal(content, &list)
	if err != nil {
		slog.WarnContext(ctx, "upstream content has unexpected shape", "category", cat.Key(), "err", err)
		return nil, nil
	}
	slog.DebugContext(ctx, "fetched monitoring category", "category", cat.Key(), "entries", len(list))
	return list, nil
}

func (c *Client) Businesses(ctx context.Context) ([]BusinessEntry, error) {
	return fetchList[BusinessEntry](ctx, c, Business)
}

func (c *Client) Farms(ctx context.Context) ([]FarmEntry, error) {
	return fetchList[FarmEntry](ctx, c, Farms)
}

func (c *Client) ServiceStations(ctx context.Context) ([]ServiceStationEntry, error) {
	return fetchList[ServiceStationEntry](ctx, c, ServiceStations)
}

func (c *Client) Realtors(ctx context.Context) ([]RealtorEntry, error) {
	return fetchList[RealtorEntry](ctx, c, Realtors)
}

func (c *Client) CarMarket(ctx context.Context) ([]CarMarketLot, error) {
	return fetchList[CarMarketLot](ctx, c, CarMarket)
}
