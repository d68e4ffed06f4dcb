package restapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bridge_tvl/internal/app/port"
	"bridge_tvl/internal/domain/entity"
	"bridge_tvl/internal/infrastructure/wormhole"
	"bridge_tvl/internal/pkg/vaa"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TVLReader is the part of the TVL service the API exposes.
type TVLReader interface {
	Snapshot() entity.TVLReport
	ChainState(chain entity.ChainID) (entity.DataWrapper[[]entity.TVLEntry], bool)
	Refresh(ctx context.Context) entity.TVLReport
}

// WrappedCreator creates wrapped assets on a target chain.
type WrappedCreator interface {
	CreateWrapped(ctx context.Context, chain entity.ChainID, payer string, signedVAA []byte) (*entity.WrappedTransaction, error)
}

// CreateWrappedRequest is the body of POST /wrapped/:chain.
type CreateWrappedRequest struct {
	Payer string `json:"payer" binding:"required"`
	// VAA is hex (optionally 0x-prefixed) or standard base64.
	VAA string `json:"vaa" binding:"required"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler serves the bridge API.
type Handler struct {
	tvl            TVLReader
	fetchers       port.BalanceFetcherSet
	wrapped        WrappedCreator
	refreshTimeout time.Duration
	logger         *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(tvl TVLReader, fetchers port.BalanceFetcherSet, wrapped WrappedCreator, refreshTimeout time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		tvl:            tvl,
		fetchers:       fetchers,
		wrapped:        wrapped,
		refreshTimeout: refreshTimeout,
		logger:         logger.Named("RestAPI"),
	}
}

// GetTVL returns the merged TVL report.
func (h *Handler) GetTVL(c *gin.Context) {
	c.JSON(http.StatusOK, h.tvl.Snapshot())
}

// GetChainTVL returns one chain's TVL state.
func (h *Handler) GetChainTVL(c *gin.Context) {
	chain, err := entity.ParseChainID(c.Param("chain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	state, ok := h.tvl.ChainState(chain)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "no TVL source for " + chain.String()})
		return
	}
	c.JSON(http.StatusOK, state)
}

// RefreshTVL runs a refresh and returns the resulting report.
func (h *Handler) RefreshTVL(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.refreshTimeout)
	defer cancel()
	c.JSON(http.StatusOK, h.tvl.Refresh(ctx))
}

// GetBalance reads one wallet's balance of one asset.
func (h *Handler) GetBalance(c *gin.Context) {
	chain, err := entity.ParseChainID(c.Param("chain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	wallet := c.Query("wallet")
	if wallet == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "wallet query parameter is required"})
		return
	}
	fetcher, err := h.fetchers.For(chain)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	account, err := fetcher.FetchBalance(c.Request.Context(), c.Param("asset"), wallet)
	switch {
	case errors.Is(err, entity.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrNoTokenAccount):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case err != nil:
		h.logger.Warn("Balance fetch failed", zap.String("chain", chain.String()), zap.String("wallet", wallet), zap.Error(err))
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "balance lookup failed"})
	default:
		c.JSON(http.StatusOK, entity.Loaded(*account, time.Now()))
	}
}

// CreateWrapped submits a CreateWrapped transaction for an attestation VAA.
func (h *Handler) CreateWrapped(c *gin.Context) {
	chain, err := entity.ParseChainID(c.Param("chain"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	var req CreateWrappedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	signedVAA, err := vaa.Decode(req.VAA)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	tx, err := h.wrapped.CreateWrapped(c.Request.Context(), chain, req.Payer, signedVAA)
	switch {
	case errors.Is(err, entity.ErrUnsupportedChain):
		c.JSON(http.StatusNotImplemented, ErrorResponse{Error: err.Error()})
	case errors.Is(err, entity.ErrInvalidVAA), errors.Is(err, entity.ErrInvalidAddress), errors.Is(err, wormhole.ErrPayerMismatch):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case err != nil:
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusOK, tx)
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
