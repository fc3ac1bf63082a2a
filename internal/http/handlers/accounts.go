package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/userhub/internal/domain/account"
	"github.com/gin-gonic/gin"
)

type AccountService interface {
	Create(ctx context.Context, in account.CreateInput) (account.View, error)
	List(ctx context.Context) ([]account.View, error)
	Get(ctx context.Context, id string) (account.View, error)
	Update(ctx context.Context, id string, in account.UpdateInput) (account.View, error)
	Delete(ctx context.Context, id string) error
}

type AccountsHandler struct {
	svc     AccountService
	timeout time.Duration
}

func NewAccountsHandler(svc AccountService, timeout time.Duration) *AccountsHandler {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &AccountsHandler{svc: svc, timeout: timeout}
}

func (h *AccountsHandler) CreateAccount(ctx *gin.Context) {
	var req account.CreateInput

	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	created, err := h.svc.Create(cctx, req)
	if err != nil {
		respondServiceError(ctx, err, "Could not create user")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": "User created successfully",
		"user":    created,
	})
}

func (h *AccountsHandler) ListAccounts(ctx *gin.Context) {
	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	items, err := h.svc.List(cctx)
	if err != nil {
		respondServiceError(ctx, err, "Could not list users")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"message": "Users retrieved successfully",
		"items":   items,
		"count":   len(items),
	})
}

func (h *AccountsHandler) GetAccountByID(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	a, err := h.svc.Get(cctx, id)
	if err != nil {
		respondServiceError(ctx, err, "Could not fetch user")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{
		"message": "User retrieved successfully",
		"user":    a,
	})
}

// UpdateAccount serves both PUT and PATCH; absent fields are left untouched.
func (h *AccountsHandler) UpdateAccount(ctx *gin.Context) {
	id := ctx.Param("id")

	var req account.UpdateInput
	if !BindJSON(ctx, &req) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	updated, err := h.svc.Update(cctx, id, req)
	if err != nil {
		respondServiceError(ctx, err, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    updated,
	})
}

func (h *AccountsHandler) DeleteAccount(ctx *gin.Context) {
	id := ctx.Param("id")

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	if err := h.svc.Delete(cctx, id); err != nil {
		respondServiceError(ctx, err, "Could not delete user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func respondServiceError(ctx *gin.Context, err error, internalMsg string) {
	var verr *account.ValidationError
	var cerr *account.ConflictError
	var nerr *account.NotFoundError

	switch {
	case errors.As(err, &verr):
		RespondValidation(ctx, verr.Fields)
	case errors.As(err, &cerr):
		RespondConflict(ctx, "email_taken", "Email already exists")
	case errors.As(err, &nerr):
		RespondNotFound(ctx, "User not found")
	default:
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(),
			"request_id", requestIDFrom(ctx),
			"err", err,
		)
		RespondInternal(ctx, internalMsg)
	}
}
