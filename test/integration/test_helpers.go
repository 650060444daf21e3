//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/egov-mobile/qr-sign-service/app/internal/qrsign"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// stubOracle is an in-process stand-in for the NCANode verification service.
// Every /cms/verify, /xml/verify and /raw/verify call is answered with the
// configured verdict (or status code, when failStatus is non-zero).
type stubOracle struct {
	mu         sync.Mutex
	valid      bool
	failStatus int
	calls      []string

	server *httptest.Server
}

func startStubOracle(t *testing.T, valid bool) *stubOracle {
	t.Helper()

	o := &stubOracle{valid: valid}
	o.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		o.mu.Lock()
		o.calls = append(o.calls, r.URL.Path)
		failStatus := o.failStatus
		verdict := o.valid
		o.mu.Unlock()

		if failStatus != 0 {
			w.WriteHeader(failStatus)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"valid": verdict})
	}))
	t.Cleanup(o.server.Close)

	return o
}

func (o *stubOracle) baseURL() string {
	return o.server.URL
}

func (o *stubOracle) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.calls)
}

// doJSON sends a JSON request and returns the status code and decoded body.
// body may be nil for bodyless requests; headers may be nil.
func doJSON(t *testing.T, method, url string, headers map[string]string, body any, out any) int {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, url, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("failed to decode response %q: %v", raw, err)
		}
	}
	return resp.StatusCode
}

// xmlBundle builds a single-document bundle using the XML sign method.
func xmlBundle(documentXML string) *sign.DocumentBundle {
	return &sign.DocumentBundle{
		Version: 1,
		DocumentsToSign: []sign.DocumentToSign{
			{
				ID:          1,
				SignMethod:  sign.SignMethodXML,
				NameRu:      "Заявление",
				NameKz:      "Өтініш",
				NameEn:      "Application",
				DocumentXML: documentXML,
			},
		},
	}
}

// tokenInitRequest builds a creation request gated by token auth.
func tokenInitRequest(bundle *sign.DocumentBundle) *qrsign.InitSignRequest {
	return &qrsign.InitSignRequest{
		Description: "Подписание договора",
		Organisation: &qrsign.InitOrganisation{
			NameRu: "ТОО Ромашка",
			NameKz: "Ромашка ЖШС",
			NameEn: "Romashka LLP",
			BIN:    "123456789012",
		},
		Document: &qrsign.InitDocumentAuth{
			AuthType: "Token",
		},
		BackURL:   "https://portal.example.kz/done",
		Documents: bundle,
	}
}
