package courselist

import (
	"bytes"
	"context"
	"fmt"
	"net/http/cookiejar"
	"time"

	"enrollmate-backend/lib/restyutil"
	"enrollmate-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

var restyInstrumentOutput restyutil.InstrumentOutput

func SetRestyInstrumentOutput(out restyutil.InstrumentOutput) {
	restyInstrumentOutput = out
}

// Client fetches live pages for scraping outside the browser. Portals
// sitting behind cloudflare get the bypass transport, same as any
// other scraper here.
type Client struct {
	http *resty.Client
}

func NewClient() (*Client, error) {
	client := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client.SetCookieJar(jar)
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("user-agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36")
	client.SetTimeout(time.Second * 30)

	telemetry.InstrumentResty(client, "scrapers/courselist/http")
	restyutil.DumpClient(client, restyInstrumentOutput)

	return &Client{http: client}, nil
}

func (c *Client) FetchDocument(ctx context.Context, pageUrl string) (*goquery.Document, error) {
	res, err := c.http.R().
		SetContext(ctx).
		Get(pageUrl)
	if err != nil {
		return nil, err
	}
	if res.StatusCode() >= 400 {
		return nil, fmt.Errorf("fetch %s: status %d", pageUrl, res.StatusCode())
	}
	return goquery.NewDocumentFromReader(bytes.NewBuffer(res.Body()))
}
