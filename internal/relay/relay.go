// Package relay validates new-record proposals and forwards each one, once,
// to the external intake form. Nothing is written locally.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/uniplaces/carbon"
	"go.uber.org/zap"

	"cuticulome/config"
)

// Relay posts validated drafts to the configured form endpoint.
type Relay struct {
	cfg    config.RelayConfig
	client *http.Client
	logger *zap.Logger
}

// Receipt confirms a forwarded submission.
type Receipt struct {
	ID          string        `json:"id"`
	SubmittedAt string        `json:"submitted_at"`
	Status      int           `json:"-"`
	Summary     []ReceiptLine `json:"summary"`
	Notes       []string      `json:"notes,omitempty"`
}

// ReceiptLine echoes one submitted field back to the submitter.
type ReceiptLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

func New(cfg config.RelayConfig, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Client exposes the HTTP client so tests can swap its transport.
func (r *Relay) Client() *http.Client {
	return r.client
}

func (r *Relay) Enabled() bool {
	return r.cfg.Enabled()
}

// Submit checks configuration, then the draft, then sends exactly one POST.
// Any HTTP response counts as delivered. Failures are never retried here.
func (r *Relay) Submit(ctx context.Context, draft Draft) (*Receipt, error) {
	if !r.Enabled() {
		return nil, ErrNotConfigured
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	values := draft.Values()
	form := url.Values{}
	for _, field := range config.FormFields {
		form.Set(r.cfg.EntryIDs[field], values[field])
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.ActionURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build submission request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.client.Do(req)
	if err != nil {
		timeout := isTimeout(err)
		r.logger.Warn("submission relay failed",
			zap.Bool("timeout", timeout),
			zap.String("protein", values["protein_name"]),
			zap.Error(err))
		return nil, &TransportError{Timeout: timeout, Err: err}
	}
	defer func(Body io.ReadCloser) {
		_, _ = io.Copy(io.Discard, Body)
		if err := Body.Close(); err != nil {
			r.logger.Debug("error closing intake response body", zap.Error(err))
		}
	}(resp.Body)

	receipt := &Receipt{
		ID:          uuid.NewString(),
		SubmittedAt: carbon.Now().DateTimeString(),
		Status:      resp.StatusCode,
		Summary:     summarize(values),
		Notes:       draft.Notes(),
	}
	if len(receipt.Notes) > 0 {
		r.logger.Warn("submission relayed with notes",
			zap.String("receipt", receipt.ID),
			zap.Strings("notes", receipt.Notes))
	}
	r.logger.Info("submission relayed",
		zap.String("receipt", receipt.ID),
		zap.String("protein", values["protein_name"]),
		zap.Int("status", resp.StatusCode))
	return receipt, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// summarize echoes what was sent. Sequences are acknowledged, not repeated.
func summarize(values map[string]string) []ReceiptLine {
	lines := []ReceiptLine{
		{"Protein Name", values["protein_name"]},
		{"Species", values["species"]},
	}
	optional := func(label, value string) {
		if value != "" {
			lines = append(lines, ReceiptLine{label, value})
		}
	}
	optional("Protein Family", values["protein_family"])
	lines = append(lines, ReceiptLine{"Function", values["function"]})
	optional("Tissue Specificity", values["tissue"])
	if values["protein_sequence"] != "" {
		lines = append(lines, ReceiptLine{"Protein Sequence", "Provided"})
	}
	if values["cds_sequence"] != "" {
		lines = append(lines, ReceiptLine{"CDS Sequence", "Provided"})
	}
	optional("Reference", values["reference"])
	optional("DOI/URL", values["doi"])
	return lines
}
