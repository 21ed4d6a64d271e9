// Package ledger adapts a distributed-ledger gateway into a best-effort
// tamper-evidence sink. The gateway exposes two JSON endpoints, one for
// report logging and one for contribution-proof minting. When the gateway
// is unconfigured or unreachable, both operations degrade to a mock
// response pair instead of failing, so the report lifecycle never blocks
// on the chain.
package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
)

const (
	mockLogTxRef  = "0x_mock_tx_hash"
	mockMintTxRef = "0x_mock_nft_tx_hash"
)

// ReportEntry is the payload logged for a new report.
type ReportEntry struct {
	Hash             string `json:"hash"`
	ReportID         string `json:"report_id"`
	AIDecision       string `json:"ai_decision"`
	ReviewerDecision string `json:"reviewer_decision"`
	LocationHash     string `json:"location_hash"`
}

// Receipt identifies a ledger write.
type Receipt struct {
	ID    int64  `json:"id"`
	TxRef string `json:"tx_ref"`
}

// Mint identifies an issued contribution-proof token.
type Mint struct {
	TokenID int64  `json:"token_id"`
	TxRef   string `json:"tx_ref"`
}

// System defines the public contract for ledger operations. Neither
// operation returns an error: failures yield the mock pair and a logged
// warning.
type System interface {
	LogReport(ctx context.Context, entry ReportEntry) Receipt
	MintProof(ctx context.Context, address, metadataURI string) Mint
}

type system struct {
	cfg    Config
	client *http.Client
	logger *slog.Logger
}

// New creates a ledger System. With no gateway URL configured the system
// stays in mock mode.
func New(cfg Config, logger *slog.Logger) System {
	return &system{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.TimeoutDuration()},
		logger: logger.With("system", "ledger"),
	}
}

func (s *system) LogReport(ctx context.Context, entry ReportEntry) Receipt {
	if s.cfg.GatewayURL == "" {
		s.logger.Warn("ledger unconfigured, mock log receipt", "report_id", entry.ReportID)
		return Receipt{ID: 0, TxRef: mockLogTxRef}
	}

	var receipt Receipt
	if err := s.post(ctx, "/reports", entry, &receipt); err != nil {
		s.logger.Warn("ledger log failed, mock receipt",
			"report_id", entry.ReportID,
			"error", err,
		)
		return Receipt{ID: 0, TxRef: mockLogTxRef}
	}

	s.logger.Info("report logged to ledger", "report_id", entry.ReportID, "tx", receipt.TxRef)
	return receipt
}

func (s *system) MintProof(ctx context.Context, address, metadataURI string) Mint {
	if s.cfg.GatewayURL == "" {
		s.logger.Warn("ledger unconfigured, mock mint", "address", address)
		return Mint{TokenID: 0, TxRef: mockMintTxRef}
	}

	payload := map[string]string{
		"address":      address,
		"metadata_uri": metadataURI,
	}

	var mint Mint
	if err := s.post(ctx, "/proofs", payload, &mint); err != nil {
		s.logger.Warn("proof mint failed, mock mint",
			"address", address,
			"error", err,
		)
		return Mint{TokenID: 0, TxRef: mockMintTxRef}
	}

	s.logger.Info("contribution proof minted", "address", address, "token", mint.TokenID)
	return mint
}

func (s *system) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost,
		s.cfg.GatewayURL+path,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
