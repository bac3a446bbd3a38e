package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/EternisAI/node-status-server/internal/api/http/dto"
	"github.com/EternisAI/node-status-server/internal/node"
	"github.com/gin-gonic/gin"
)

const maxRequestBodyBytes = 1 << 20

const (
	MsgNotConfigured    = "Node not configured. Please provide an API key."
	MsgNotReady         = "Node not ready. Setup has not completed."
	MsgStatusTimeout    = "Status command timed out."
	MsgSetupTimeout     = "Setup command timed out."
	MsgAPIKeyMissing    = "API key not provided."
	MsgInvalidJSON      = "Invalid JSON body."
	MsgBodyTooLarge     = "Request body too large."
	MsgLengthRequired   = "Content-Length header required."
	MsgSaveFailed       = "Failed to save API key."
	MsgMarkerFailed     = "Failed to record setup completion."
	MsgConfigured       = "Node configured and started."
	MsgMethodNotAllowed = "Method not allowed."
	MsgInternalError    = "Internal server error."
)

const allowedMethodsHeader = "GET, POST"

type StatusHandler struct {
	nodeService *node.Service
}

func NewStatusHandler(nodeService *node.Service) *StatusHandler {
	return &StatusHandler{
		nodeService: nodeService,
	}
}

// Handle serves every path: GET reports status, POST submits a credential.
func (h *StatusHandler) Handle(ctx *gin.Context) {
	switch ctx.Request.Method {
	case http.MethodGet:
		h.GetStatus(ctx)
	case http.MethodPost:
		h.SubmitCredential(ctx)
	default:
		ctx.Header("Allow", allowedMethodsHeader)
		ctx.JSON(http.StatusMethodNotAllowed, dto.ErrorMessage(MsgMethodNotAllowed))
	}
}

func (h *StatusHandler) GetStatus(ctx *gin.Context) {
	details, err := h.nodeService.Status(commandContext(ctx))
	if err == nil {
		ctx.JSON(http.StatusOK, dto.SuccessDetails(details))
		return
	}

	var cmdErr *node.CommandError
	switch {
	case errors.Is(err, node.ErrNotConfigured):
		ctx.JSON(http.StatusInternalServerError, dto.ErrorMessage(MsgNotConfigured))
	case errors.Is(err, node.ErrNotReady):
		ctx.JSON(http.StatusBadRequest, dto.ErrorMessage(MsgNotReady))
	case errors.Is(err, node.ErrCommandTimeout):
		ctx.JSON(http.StatusGatewayTimeout, dto.ErrorMessage(MsgStatusTimeout))
	case errors.As(err, &cmdErr):
		if cmdErr.Exited() {
			ctx.JSON(http.StatusInternalServerError, dto.ErrorDetails(cmdErr.Stderr))
		} else {
			ctx.JSON(http.StatusInternalServerError, dto.ErrorDetails(cmdErr.Error()))
		}
	default:
		slog.Error("Failed to read node status", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorMessage(MsgInternalError))
	}
}

func (h *StatusHandler) SubmitCredential(ctx *gin.Context) {
	if ctx.Request.ContentLength < 0 {
		ctx.JSON(http.StatusLengthRequired, dto.ErrorMessage(MsgLengthRequired))
		return
	}
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxRequestBodyBytes)

	apiKey, err := decodeCredential(ctx.Request.Body)
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		ctx.JSON(http.StatusRequestEntityTooLarge, dto.ErrorMessage(MsgBodyTooLarge))
		return
	case errors.Is(err, errAPIKeyMissing):
		ctx.JSON(http.StatusBadRequest, dto.ErrorMessage(MsgAPIKeyMissing))
		return
	case err != nil:
		slog.Debug("Rejected credential submission", "error", err)
		ctx.JSON(http.StatusBadRequest, dto.ErrorMessage(MsgInvalidJSON))
		return
	}

	err = h.nodeService.Provision(commandContext(ctx), apiKey)
	if err == nil {
		ctx.JSON(http.StatusOK, dto.SuccessMessage(MsgConfigured))
		return
	}

	var cmdErr *node.CommandError
	switch {
	case errors.Is(err, node.ErrCredentialWrite):
		slog.Error("Failed to save API key", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorMessage(MsgSaveFailed))
	case errors.Is(err, node.ErrCommandTimeout):
		ctx.JSON(http.StatusGatewayTimeout, dto.ErrorMessage(MsgSetupTimeout))
	case errors.As(err, &cmdErr):
		ctx.JSON(http.StatusInternalServerError, dto.ErrorDetails(cmdErr.Details()))
	case errors.Is(err, node.ErrMarkerWrite):
		slog.Error("Failed to write setup marker", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorMessage(MsgMarkerFailed))
	default:
		slog.Error("Failed to provision node", "error", err)
		ctx.JSON(http.StatusInternalServerError, dto.ErrorDetails(err.Error()))
	}
}

// commandContext keeps request values but drops cancellation: a client
// disconnect never aborts a running node command.
func commandContext(ctx *gin.Context) context.Context {
	return context.WithoutCancel(ctx.Request.Context())
}
