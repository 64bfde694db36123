// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/sourcecheck/internal/httputil"
	"github.com/pdiddy/sourcecheck/pkg/types"
)

const (
	defaultTimeout      = 10 * time.Second
	defaultTitleTimeout = 5 * time.Second

	// rangedGetBytes bounds the fallback GET body for servers that
	// reject HEAD.
	rangedGetBytes = 1024

	// titleFetchBytes bounds the title-only fetch. The <title> element
	// sits in the document head, so the first few KB suffice.
	titleFetchBytes = 4096
)

// Verifier checks that candidate URLs are reachable, resolves their
// redirects, and extracts display titles from HTML pages.
type Verifier struct {
	client *http.Client
	cfg    types.VerifyConfig
}

// NewVerifier builds a Verifier from configuration, applying defaults
// for unset timeouts. The underlying client follows redirects.
func NewVerifier(cfg types.VerifyConfig) *Verifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.TitleTimeout <= 0 {
		cfg.TitleTimeout = defaultTitleTimeout
	}
	return &Verifier{
		client: &http.Client{Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// Verify classifies the reachability of one candidate URL. Malformed and
// non-http(s) URLs fail without a network call. A HEAD request is tried
// first; 403/405 rejections fall back to a ranged GET, since some
// servers disallow HEAD but allow partial content. Any 2xx on either
// attempt is valid. Failures are reported in the outcome, never as an
// error: a bad candidate must not abort the batch.
func (v *Verifier) Verify(ctx context.Context, rawURL string) types.VerificationOutcome {
	normalized := Normalize(rawURL)

	parsed, err := url.Parse(normalized)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return failedOutcome(normalized)
	}

	resp, viaFallback, err := v.probe(ctx, normalized)
	if err != nil {
		return failedOutcome(normalized)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return failedOutcome(normalized)
	}

	finalURL := normalized
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = Normalize(resp.Request.URL.String())
	}
	contentType := resp.Header.Get("Content-Type")

	outcome := types.VerificationOutcome{
		IsValid:     true,
		FinalURL:    finalURL,
		Domain:      Domain(finalURL),
		Status:      types.StatusVerified,
		ContentType: contentType,
	}
	if viaFallback {
		outcome.Status = types.StatusPartial
	}

	// Title extraction is best-effort: a failure omits the title.
	if strings.Contains(contentType, "text/html") {
		outcome.Title = v.fetchTitle(ctx, finalURL)
	}

	return outcome
}

// probe issues the HEAD request and, on 403/405, retries once with a
// ranged GET. It reports whether the fallback was used.
func (v *Verifier) probe(ctx context.Context, target string) (*http.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return nil, false, err
	}
	httputil.SetBrowserHeaders(req, v.cfg.UserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, false, err
	}

	if resp.StatusCode != http.StatusForbidden && resp.StatusCode != http.StatusMethodNotAllowed {
		return resp, false, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	getReq, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, false, err
	}
	httputil.SetBrowserHeaders(getReq, v.cfg.UserAgent)
	getReq.Header.Set("Range", fmt.Sprintf("bytes=0-%d", rangedGetBytes-1))

	getResp, err := v.client.Do(getReq)
	if err != nil {
		return nil, false, err
	}
	return getResp, true, nil
}

// fetchTitle issues a bounded GET solely to extract the page <title>.
// It returns "" on any failure.
func (v *Verifier) fetchTitle(ctx context.Context, target string) string {
	titleCtx, cancel := context.WithTimeout(ctx, v.cfg.TitleTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(titleCtx, http.MethodGet, target, nil)
	if err != nil {
		return ""
	}
	httputil.SetBrowserHeaders(req, v.cfg.UserAgent)

	resp, err := v.client.Do(req)
	if err != nil {
		return ""
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, titleFetchBytes))
	if err != nil {
		return ""
	}
	title := strings.TrimSpace(doc.Find("title").First().Text())
	return strings.Join(strings.Fields(title), " ")
}

// failedOutcome preserves the normalized original URL so the caller can
// still display or retry it.
func failedOutcome(normalized string) types.VerificationOutcome {
	return types.VerificationOutcome{
		IsValid:  false,
		FinalURL: normalized,
		Domain:   Domain(normalized),
		Status:   types.StatusFailed,
	}
}
