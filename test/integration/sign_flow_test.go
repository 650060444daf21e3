//go:build integration

package integration

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/egov-mobile/qr-sign-service/app/internal/qrsign"
)

// TestTokenSignFlow drives a token-gated transaction end to end: creation,
// metadata, document retrieval, signed submission and the replay rejection
// on the second submission.
func TestTokenSignFlow(t *testing.T) {
	oracle := startStubOracle(t, true)
	env := startInProcessServer(t, oracle.baseURL())
	defer env.shutdown()

	// create the transaction
	var created qrsign.InitSignResponse
	status := doJSON(t, http.MethodPost, env.baseURL+"/api/v1/mgovSign",
		map[string]string{"X-Client-ID": "integration-test"},
		tokenInitRequest(xmlBundle("<doc>contract</doc>")), &created)
	if status != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", status)
	}
	if created.TransactionID == "" {
		t.Fatal("create: empty transactionId")
	}
	if !strings.HasPrefix(created.SignURL, "mobileSign:"+env.baseURL+"/api/v1/egov-api1/") {
		t.Errorf("create: unexpected signUrl %q", created.SignURL)
	}
	if !strings.HasPrefix(created.AuthToken, "token-auth-") {
		t.Errorf("create: expected generated token, got %q", created.AuthToken)
	}

	// the stored transaction must carry a hash, never the raw token
	tx, err := env.queries.GetSignTransaction(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if tx.AuthTokenHash == nil || *tx.AuthTokenHash == created.AuthToken {
		t.Error("create: raw auth token must not be persisted")
	}

	// metadata is public
	var meta qrsign.MetadataResponse
	status = doJSON(t, http.MethodGet, env.baseURL+"/api/v1/egov-api1/"+created.TransactionID, nil, nil, &meta)
	if status != http.StatusOK {
		t.Fatalf("metadata: expected 200, got %d", status)
	}
	if meta.Organisation.BIN != "123456789012" {
		t.Errorf("metadata: unexpected bin %q", meta.Organisation.BIN)
	}
	if meta.Document.AuthType != "Token" {
		t.Errorf("metadata: unexpected auth_type %q", meta.Document.AuthType)
	}
	if !strings.HasSuffix(meta.Document.URI, "/api/v1/sign-process/"+created.TransactionID) {
		t.Errorf("metadata: unexpected uri %q", meta.Document.URI)
	}

	// document retrieval requires the token
	status = doJSON(t, http.MethodPost, meta.Document.URI, nil, nil, nil)
	if status != http.StatusForbidden {
		t.Fatalf("retrieve without token: expected 403, got %d", status)
	}

	bearer := map[string]string{"Authorization": "Bearer " + created.AuthToken}
	var pending map[string]any
	status = doJSON(t, http.MethodPost, meta.Document.URI, bearer, nil, &pending)
	if status != http.StatusOK {
		t.Fatalf("retrieve with token: expected 200, got %d", status)
	}

	// submit the signed bundle
	signed := xmlBundle("<doc>contract<signature>sig</signature></doc>")
	var submitted qrsign.SubmitSignedResponse
	status = doJSON(t, http.MethodPut, meta.Document.URI, bearer,
		&qrsign.SubmitSignedRequest{Documents: signed}, &submitted)
	if status != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", status)
	}
	if submitted.BackURL != "https://portal.example.kz/done" {
		t.Errorf("submit: unexpected backUrl %q", submitted.BackURL)
	}
	if oracle.callCount() != 1 {
		t.Errorf("submit: expected 1 oracle call, got %d", oracle.callCount())
	}

	tx, err = env.queries.GetSignTransaction(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if tx.Status != "SIGNED" {
		t.Errorf("submit: expected status SIGNED, got %s", tx.Status)
	}
	if len(tx.SignedDocuments) == 0 {
		t.Error("submit: signed documents not stored")
	}

	// a second submission must be rejected without re-verification
	status = doJSON(t, http.MethodPut, meta.Document.URI, bearer,
		&qrsign.SubmitSignedRequest{Documents: signed}, nil)
	if status != http.StatusForbidden {
		t.Fatalf("replay: expected 403, got %d", status)
	}
	if oracle.callCount() != 1 {
		t.Errorf("replay: oracle must not be called again, got %d calls", oracle.callCount())
	}

	assertHistory(t, env, created.TransactionID, []string{"PENDING", "SIGNED"})
}

// TestRejectedSignature submits a bundle the oracle declares invalid and
// checks the transaction is marked FAILED.
func TestRejectedSignature(t *testing.T) {
	oracle := startStubOracle(t, false)
	env := startInProcessServer(t, oracle.baseURL())
	defer env.shutdown()

	var created qrsign.InitSignResponse
	status := doJSON(t, http.MethodPost, env.baseURL+"/api/v1/mgovSign", nil,
		tokenInitRequest(xmlBundle("<doc>contract</doc>")), &created)
	if status != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", status)
	}

	bearer := map[string]string{"Authorization": "Bearer " + created.AuthToken}
	uri := env.baseURL + "/api/v1/sign-process/" + created.TransactionID

	var errBody map[string]string
	status = doJSON(t, http.MethodPut, uri, bearer,
		&qrsign.SubmitSignedRequest{Documents: xmlBundle("<doc>tampered</doc>")}, &errBody)
	if status != http.StatusForbidden {
		t.Fatalf("submit: expected 403, got %d", status)
	}
	if errBody["message"] == "" {
		t.Error("submit: expected localized error message")
	}

	tx, err := env.queries.GetSignTransaction(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if tx.Status != "FAILED" {
		t.Errorf("expected status FAILED, got %s", tx.Status)
	}

	assertHistory(t, env, created.TransactionID, []string{"PENDING", "FAILED"})
}

// TestOracleOutage exhausts the verification retries and checks the
// submission fails closed.
func TestOracleOutage(t *testing.T) {
	oracle := startStubOracle(t, true)
	oracle.failStatus = http.StatusBadGateway
	env := startInProcessServer(t, oracle.baseURL())
	defer env.shutdown()

	var created qrsign.InitSignResponse
	status := doJSON(t, http.MethodPost, env.baseURL+"/api/v1/mgovSign", nil,
		tokenInitRequest(xmlBundle("<doc>contract</doc>")), &created)
	if status != http.StatusOK {
		t.Fatalf("create: expected 200, got %d", status)
	}

	bearer := map[string]string{"Authorization": "Bearer " + created.AuthToken}
	uri := env.baseURL + "/api/v1/sign-process/" + created.TransactionID

	status = doJSON(t, http.MethodPut, uri, bearer,
		&qrsign.SubmitSignedRequest{Documents: xmlBundle("<doc>contract</doc>")}, nil)
	if status != http.StatusForbidden {
		t.Fatalf("submit during outage: expected 403, got %d", status)
	}
	if got := oracle.callCount(); got != env.cfg.OracleRetryMaxAttempts {
		t.Errorf("expected %d oracle attempts, got %d", env.cfg.OracleRetryMaxAttempts, got)
	}

	tx, err := env.queries.GetSignTransaction(context.Background(), created.TransactionID)
	if err != nil {
		t.Fatalf("get transaction: %v", err)
	}
	if tx.Status != "FAILED" {
		t.Errorf("expected status FAILED, got %s", tx.Status)
	}
}

// TestCreateValidationLocalized checks that an invalid creation request is
// rejected with a message in the negotiated language.
func TestCreateValidationLocalized(t *testing.T) {
	oracle := startStubOracle(t, true)
	env := startInProcessServer(t, oracle.baseURL())
	defer env.shutdown()

	tests := []struct {
		name     string
		lang     string
		fragment string
	}{
		{name: "russian default", lang: "", fragment: "Отсутствует объект documents"},
		{name: "kazakh", lang: "kk-KZ", fragment: "Documents объектісі жоқ"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.lang != "" {
				headers["Accept-Language"] = tc.lang
			}

			req := tokenInitRequest(nil) // missing bundle
			var errBody map[string]string
			status := doJSON(t, http.MethodPost, env.baseURL+"/api/v1/mgovSign", headers, req, &errBody)
			if status != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", status)
			}
			if !strings.Contains(errBody["message"], tc.fragment) {
				t.Errorf("expected message containing %q, got %q", tc.fragment, errBody["message"])
			}
		})
	}
}

// TestMetadataNotFound checks the localized 404 for an unknown transaction.
func TestMetadataNotFound(t *testing.T) {
	oracle := startStubOracle(t, true)
	env := startInProcessServer(t, oracle.baseURL())
	defer env.shutdown()

	var errBody map[string]string
	status := doJSON(t, http.MethodGet, env.baseURL+"/api/v1/egov-api1/does-not-exist", nil, nil, &errBody)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if errBody["message"] == "" {
		t.Error("expected localized error message")
	}
}

// assertHistory reads the append-only status history and compares the
// new-status sequence.
func assertHistory(t *testing.T, env *testEnv, transactionID string, want []string) {
	t.Helper()

	rows, err := env.pool.Query(context.Background(),
		`SELECT new_status FROM transaction_status_history WHERE transaction_id = $1 ORDER BY id`,
		transactionID)
	if err != nil {
		t.Fatalf("query status history: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			t.Fatalf("scan status history: %v", err)
		}
		got = append(got, status)
	}
	if len(got) != len(want) {
		t.Fatalf("expected history %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected history %v, got %v", want, got)
		}
	}
}
