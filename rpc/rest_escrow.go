package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alphabill-org/alphabill-escrow/escrow"
	"github.com/alphabill-org/alphabill-escrow/logger"
	"github.com/alphabill-org/alphabill-escrow/types"
)

type (
	// Node accepts transaction orders for execution.
	Node interface {
		SubmitTx(ctx context.Context, tx *types.TransactionOrder) (*types.ServerMetadata, error)
		LatestRoundNumber() uint64
	}

	// EscrowReader is the read side of the escrow partition.
	EscrowReader interface {
		GetPayment(id types.UnitID) (*escrow.PaymentData, error)
		GetUserTransactions(account types.AccountID) ([]types.UnitID, error)
		GetConfirmationStatus(paymentID types.UnitID, confirmer types.AccountID) (bool, error)
		IsEscrowAgent(account types.AccountID) bool
		Administrator() (types.AccountID, error)
	}

	EscrowEndpoints struct {
		node   Node
		reader EscrowReader
		log    *slog.Logger
	}

	errorResponse struct {
		Err string `json:"error"`
	}
)

func NewEscrowEndpoints(node Node, reader EscrowReader, log *slog.Logger) *EscrowEndpoints {
	return &EscrowEndpoints{node: node, reader: reader, log: log}
}

func (e *EscrowEndpoints) Register(r *mux.Router) {
	r.HandleFunc("/transactions", e.submitTransaction).Methods("PUT", "OPTIONS")
	r.HandleFunc("/rounds/latest", e.latestRound).Methods("GET")
	r.HandleFunc("/payments/{paymentID}", e.getPayment).Methods("GET")
	r.HandleFunc("/payments/{paymentID}/confirmations/{account}", e.getConfirmation).Methods("GET")
	r.HandleFunc("/accounts/{account}/transactions", e.getTransactions).Methods("GET")
	r.HandleFunc("/agents/{account}", e.getAgent).Methods("GET")
	r.HandleFunc("/admin", e.getAdministrator).Methods("GET")
}

// submitTransaction executes a CBOR encoded transaction order and responds
// with its server metadata.
func (e *EscrowEndpoints) submitTransaction(w http.ResponseWriter, r *http.Request) {
	buf, err := io.ReadAll(r.Body)
	if err != nil {
		e.writeError(w, fmt.Errorf("reading request body: %w", err), http.StatusBadRequest)
		return
	}
	tx := &types.TransactionOrder{}
	if err := types.Cbor.Unmarshal(buf, tx); err != nil {
		e.writeError(w, fmt.Errorf("decoding transaction order: %w", err), http.StatusBadRequest)
		return
	}
	sm, err := e.node.SubmitTx(r.Context(), tx)
	if err != nil {
		e.writeError(w, err, statusOf(err))
		return
	}
	e.writeJSON(w, http.StatusAccepted, sm)
}

func (e *EscrowEndpoints) latestRound(w http.ResponseWriter, r *http.Request) {
	e.writeJSON(w, http.StatusOK, struct {
		Round uint64 `json:"round,string"`
	}{Round: e.node.LatestRoundNumber()})
}

func (e *EscrowEndpoints) getPayment(w http.ResponseWriter, r *http.Request) {
	var paymentID types.UnitID
	if err := paymentID.UnmarshalText([]byte(mux.Vars(r)["paymentID"])); err != nil {
		e.writeError(w, fmt.Errorf("invalid payment id: %w", err), http.StatusBadRequest)
		return
	}
	payment, err := e.reader.GetPayment(paymentID)
	if err != nil {
		e.writeError(w, err, statusOf(err))
		return
	}
	e.writeJSON(w, http.StatusOK, payment)
}

func (e *EscrowEndpoints) getConfirmation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var paymentID types.UnitID
	if err := paymentID.UnmarshalText([]byte(vars["paymentID"])); err != nil {
		e.writeError(w, fmt.Errorf("invalid payment id: %w", err), http.StatusBadRequest)
		return
	}
	var account types.AccountID
	if err := account.UnmarshalText([]byte(vars["account"])); err != nil {
		e.writeError(w, fmt.Errorf("invalid account id: %w", err), http.StatusBadRequest)
		return
	}
	confirmed, err := e.reader.GetConfirmationStatus(paymentID, account)
	if err != nil {
		e.writeError(w, err, statusOf(err))
		return
	}
	e.writeJSON(w, http.StatusOK, struct {
		Confirmed bool `json:"confirmed"`
	}{Confirmed: confirmed})
}

func (e *EscrowEndpoints) getTransactions(w http.ResponseWriter, r *http.Request) {
	var account types.AccountID
	if err := account.UnmarshalText([]byte(mux.Vars(r)["account"])); err != nil {
		e.writeError(w, fmt.Errorf("invalid account id: %w", err), http.StatusBadRequest)
		return
	}
	payments, err := e.reader.GetUserTransactions(account)
	if err != nil {
		e.writeError(w, err, statusOf(err))
		return
	}
	e.writeJSON(w, http.StatusOK, struct {
		Payments []types.UnitID `json:"payments"`
	}{Payments: payments})
}

func (e *EscrowEndpoints) getAgent(w http.ResponseWriter, r *http.Request) {
	var account types.AccountID
	if err := account.UnmarshalText([]byte(mux.Vars(r)["account"])); err != nil {
		e.writeError(w, fmt.Errorf("invalid account id: %w", err), http.StatusBadRequest)
		return
	}
	e.writeJSON(w, http.StatusOK, struct {
		Registered bool `json:"registered"`
	}{Registered: e.reader.IsEscrowAgent(account)})
}

func (e *EscrowEndpoints) getAdministrator(w http.ResponseWriter, r *http.Request) {
	admin, err := e.reader.Administrator()
	if err != nil {
		e.writeError(w, err, statusOf(err))
		return
	}
	e.writeJSON(w, http.StatusOK, struct {
		Administrator types.AccountID `json:"administrator"`
	}{Administrator: admin})
}

func (e *EscrowEndpoints) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		e.log.Warn("writing response body", logger.Error(err))
	}
}

func (e *EscrowEndpoints) writeError(w http.ResponseWriter, err error, status int) {
	e.log.Debug(fmt.Sprintf("request failed with status %d", status), logger.Error(err))
	e.writeJSON(w, status, errorResponse{Err: err.Error()})
}

// statusOf maps the escrow error taxonomy to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, escrow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, escrow.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, escrow.ErrAlreadyClaimed):
		return http.StatusConflict
	case errors.Is(err, escrow.ErrExpired),
		errors.Is(err, escrow.ErrConditionsNotMet),
		errors.Is(err, escrow.ErrInvalidAmount),
		errors.Is(err, escrow.ErrInvalidAsset),
		errors.Is(err, escrow.ErrInvalidEscrowAgent),
		errors.Is(err, escrow.ErrInvalidPrincipal),
		errors.Is(err, escrow.ErrInvalidMetadata),
		errors.Is(err, escrow.ErrInsufficientBalance):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
