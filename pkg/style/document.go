package style

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jason-crow/cesium/pkg/types"
)

// decodeDocument parses a style document. YAML is a superset of JSON here,
// so one decoder covers both the canonical JSON form and hand-written YAML
// styles.
func decodeDocument(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, types.NewError(types.ErrDocumentDecode,
			fmt.Sprintf("cannot decode style document: %v", err), -1).WithCause(err)
	}
	return doc, nil
}

// fetchDocument resolves a style reference: http and https URLs are fetched
// with the configured client, anything else is read as a filesystem path.
func fetchDocument(ctx context.Context, client *http.Client, ref string) ([]byte, error) {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
		if err != nil {
			return nil, types.NewError(types.ErrLoadFailed,
				fmt.Sprintf("cannot build request for %q: %v", ref, err), -1).WithCause(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, types.NewError(types.ErrLoadFailed,
				fmt.Sprintf("cannot fetch %q: %v", ref, err), -1).WithCause(err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, types.NewError(types.ErrLoadFailed,
				fmt.Sprintf("fetching %q: unexpected status %s", ref, resp.Status), -1)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, types.NewError(types.ErrLoadFailed,
				fmt.Sprintf("reading %q: %v", ref, err), -1).WithCause(err)
		}
		return data, nil
	}

	data, err := os.ReadFile(ref)
	if err != nil {
		return nil, types.NewError(types.ErrLoadFailed,
			fmt.Sprintf("cannot read %q: %v", ref, err), -1).WithCause(err)
	}
	return data, nil
}

// cloneValue deep-copies a decoded document value so the style's snapshot is
// isolated from caller mutation.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, vv := range t {
			out[k] = cloneValue(vv)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, vv := range t {
			out[i] = cloneValue(vv)
		}
		return out
	default:
		return t
	}
}
