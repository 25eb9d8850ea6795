package httphandlers

import (
	"net/http"

	"github.com/alder-protocol/mrv-dashboard/internal/routing"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
	"github.com/alder-protocol/mrv-dashboard/internal/wizard"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

func (h *HTTPHandler) sessionResponse() SessionResponse {
	res := SessionResponse{Snapshot: h.session.Snapshot()}
	if c := h.session.Contract(); c != nil {
		res.Contract = c.Address().Hex()
	}
	return res
}

func (h *HTTPHandler) GetSession(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.sessionResponse())
}

func (h *HTTPHandler) Connect(ctx *gin.Context) {
	_, err := h.session.Connect(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, h.sessionResponse())
}

func (h *HTTPHandler) Disconnect(ctx *gin.Context) {
	if err := h.session.Disconnect(ctx); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, h.sessionResponse())
}

func (h *HTTPHandler) SelectRole(ctx *gin.Context) {
	var req SelectRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	role, err := session.ParseRole(req.Role)
	if err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := h.session.SelectRole(ctx, role); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, h.sessionResponse())
}

// AccountsChanged lets an external wallet report its account list
func (h *HTTPHandler) AccountsChanged(ctx *gin.Context) {
	var req AccountsChangedRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	accounts := make([]common.Address, len(req.Accounts))
	for i, a := range req.Accounts {
		accounts[i] = common.HexToAddress(a)
	}
	if err := h.session.HandleAccountsChanged(ctx, accounts); err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, h.sessionResponse())
}

func (h *HTTPHandler) GetWallet(ctx *gin.Context) {
	if h.wallet == nil {
		h.respondError(ctx, providerUnavailable())
		return
	}
	accounts := h.wallet.Accounts()
	res := WalletResponse{Accounts: make([]string, len(accounts))}
	for i, a := range accounts {
		res.Accounts[i] = a.Hex()
	}
	ctx.JSON(http.StatusOK, res)
}

func (h *HTTPHandler) SelectAccount(ctx *gin.Context) {
	if h.wallet == nil {
		h.respondError(ctx, providerUnavailable())
		return
	}
	var req SelectAccountRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}
	if err := h.wallet.SelectAccount(*req.Index); err != nil {
		h.badRequest(ctx, err)
		return
	}
	ctx.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

func (h *HTTPHandler) LockWallet(ctx *gin.Context) {
	if h.wallet == nil {
		h.respondError(ctx, providerUnavailable())
		return
	}
	h.wallet.Lock()
	ctx.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

func (h *HTTPHandler) UnlockWallet(ctx *gin.Context) {
	if h.wallet == nil {
		h.respondError(ctx, providerUnavailable())
		return
	}
	h.wallet.Unlock()
	ctx.JSON(http.StatusAccepted, gin.H{"status": "ok"})
}

func (h *HTTPHandler) GetRoute(ctx *gin.Context) {
	role := h.session.Role()
	ctx.JSON(http.StatusOK, RouteResponse{
		Resolution: routing.Resolve(role, ctx.Query("path")),
		Role:       role.String(),
	})
}

func (h *HTTPHandler) GetWelcome(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, WelcomeResponse{
		Role:  h.session.Role().String(),
		State: string(wizard.StateChoosing),
	})
}

func (h *HTTPHandler) SubmitWelcome(ctx *gin.Context) {
	var req SelectRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.badRequest(ctx, err)
		return
	}

	welcome := wizard.NewWelcome(h.session)
	welcome.Choose(req.Role)
	redirect, err := welcome.Submit(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, WelcomeResponse{
		Role:     h.session.Role().String(),
		State:    string(welcome.State()),
		Redirect: redirect,
	})
}
