package monitoring

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/common/expfmt"
)

// WritePrometheus writes every metric in the Prometheus text format
func (m *Metrics) WritePrometheus(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// GetMetricsPrometheus returns metrics in Prometheus format
func (m *Metrics) GetMetricsPrometheus() (string, error) {
	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile dumps the metrics to path, replacing any previous dump
func (m *Metrics) WriteFile(path string) error {
	text, err := m.GetMetricsPrometheus()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}
