package handlers

// sign.go implements the /api/v1 signing endpoints: transaction creation,
// consent metadata, and the auth-gated sign-process document exchange.

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/egov-mobile/qr-sign-service/app/internal/logger"
	"github.com/egov-mobile/qr-sign-service/app/internal/qrsign"
	"github.com/egov-mobile/qr-sign-service/app/internal/services"
	"github.com/egov-mobile/qr-sign-service/app/internal/sign"
)

// SignHandler serves the signing transaction endpoints.
type SignHandler struct {
	signing *services.SigningService
}

// NewSignHandler wires the handler to the signing service.
func NewSignHandler(signing *services.SigningService) *SignHandler {
	return &SignHandler{signing: signing}
}

// HandleInitSign handles POST /api/v1/mgovSign.
//
// The X-Client-ID header identifies the integrating system and feeds the
// default transaction description. The response carries the QR payload URL
// and, for Token transactions, the raw auth token - the only time it is
// ever returned.
func (h *SignHandler) HandleInitSign(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())

	clientID := r.Header.Get("X-Client-ID")
	if clientID == "" {
		clientID = "unknown-client"
	}
	logger.ContextWithLogAttrs(r.Context(), slog.String("client_id", clientID))

	var req qrsign.InitSignRequest
	if err := decodeJSONBody(r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			err = sign.NewValidationError(sign.ReasonEmptyRequest, "request body is empty")
		}
		qrsign.RespondWithError(w, r, err)
		return
	}

	result, err := h.signing.Create(r.Context(), &req, clientID)
	if err != nil {
		qrsign.RespondWithError(w, r, err)
		return
	}

	reqLogger.Info("signing transaction created",
		slog.String("transaction_id", result.TransactionID),
	)

	qrsign.RespondWithJSON(w, http.StatusOK, qrsign.InitSignResponse{
		TransactionID: result.TransactionID,
		SignURL:       result.SignURL,
		AuthToken:     result.AuthToken,
	})
}

// HandleMetadata handles GET /api/v1/egov-api1/{transactionId}: the
// consent-screen metadata a signing client fetches after scanning the QR.
func (h *SignHandler) HandleMetadata(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")

	meta, err := h.signing.Metadata(r.Context(), transactionID)
	if err != nil {
		qrsign.RespondWithError(w, r, err)
		return
	}
	qrsign.RespondWithJSON(w, http.StatusOK, meta)
}

// HandleGetDocuments handles POST /api/v1/sign-process/{transactionId}:
// authenticated retrieval of the documents awaiting signature.
func (h *SignHandler) HandleGetDocuments(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "transactionId")

	var proof qrsign.AuthProof
	if err := decodeJSONBody(r, &proof); err != nil && !errors.Is(err, errEmptyBody) {
		qrsign.RespondWithError(w, r, err)
		return
	}
	mergeBearerToken(r, &proof)

	bundle, err := h.signing.PendingDocuments(r.Context(), transactionID, &proof)
	if err != nil {
		qrsign.RespondWithError(w, r, err)
		return
	}
	qrsign.RespondWithJSON(w, http.StatusOK, bundle)
}

// HandleSubmitSigned handles PUT /api/v1/sign-process/{transactionId}:
// authenticated submission of the signed documents.
func (h *SignHandler) HandleSubmitSigned(w http.ResponseWriter, r *http.Request) {
	reqLogger := logger.ContextRequestLogger(r.Context())
	transactionID := chi.URLParam(r, "transactionId")

	var req qrsign.SubmitSignedRequest
	if err := decodeJSONBody(r, &req); err != nil {
		if errors.Is(err, errEmptyBody) {
			err = sign.NewValidationError(sign.ReasonEmptyRequest, "request body is empty")
		}
		qrsign.RespondWithError(w, r, err)
		return
	}
	proof := req.Auth
	if proof == nil {
		proof = &qrsign.AuthProof{}
	}
	mergeBearerToken(r, proof)

	backURL, err := h.signing.SubmitSigned(r.Context(), transactionID, proof, req.Documents)
	if err != nil {
		qrsign.RespondWithError(w, r, err)
		return
	}

	reqLogger.Info("signing transaction completed",
		slog.String("transaction_id", transactionID),
	)
	qrsign.RespondWithJSON(w, http.StatusOK, qrsign.SubmitSignedResponse{BackURL: backURL})
}

var errEmptyBody = errors.New("empty request body")

// decodeJSONBody decodes the request body into dst. An empty body returns
// errEmptyBody so callers can decide whether that is acceptable; malformed
// JSON is a validation rejection.
func decodeJSONBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return sign.NewValidationError(sign.ReasonFieldTooLarge, "request body exceeds the size limit")
		}
		return sign.WrapInternalError(err, "reading request body")
	}
	if len(body) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return sign.NewValidationError(sign.ReasonEmptyRequest, "request body is not valid JSON")
	}
	return nil
}

// mergeBearerToken lets Token clients send the token in the Authorization
// header instead of the body. The body value wins when both are present.
func mergeBearerToken(r *http.Request, proof *qrsign.AuthProof) {
	if proof.AuthToken != "" {
		return
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		proof.AuthToken = strings.TrimSpace(token)
	}
}
