package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	cryptoService "github.com/allisson/pseudonymizer/internal/crypto/service"
)

// KeyReport describes where the secret key lives. The key itself is never printed.
type KeyReport struct {
	KeyStore    string `json:"key_store"`
	Object      string `json:"object"`
	KMSWrapped  bool   `json:"kms_wrapped"`
	Fingerprint string `json:"fingerprint"`
}

// RunInitKey creates the secret key when the key store holds none, or loads and
// verifies the stored one, then prints its fingerprint. Run it once before
// starting several replicas against the same key store.
func RunInitKey(
	ctx context.Context,
	keyManager cryptoService.KeyManager,
	logger *slog.Logger,
	writer io.Writer,
	report KeyReport,
	format string,
) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (valid options: text, json)", format)
	}

	logger.Info("initializing secret key",
		slog.String("object", report.Object),
		slog.Bool("kms_wrapped", report.KMSWrapped))

	key, err := keyManager.LoadOrCreate(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize secret key: %w", err)
	}
	report.Fingerprint = key.Fingerprint()
	key.Close()

	if format == "json" {
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	tw := tabwriter.NewWriter(writer, 0, 0, 1, ' ', 0)
	_, _ = fmt.Fprintln(tw, "Secret key ready")
	_, _ = fmt.Fprintf(tw, "Key store:\t%s\n", report.KeyStore)
	_, _ = fmt.Fprintf(tw, "Object:\t%s\n", report.Object)
	_, _ = fmt.Fprintf(tw, "KMS wrapped:\t%t\n", report.KMSWrapped)
	_, _ = fmt.Fprintf(tw, "Fingerprint:\t%s\n", report.Fingerprint)
	return tw.Flush()
}
