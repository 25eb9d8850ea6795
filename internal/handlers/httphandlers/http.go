package httphandlers

import (
	"errors"
	"math/big"
	"net/http"
	"net/url"

	"github.com/alder-protocol/mrv-dashboard/internal/config"
	"github.com/alder-protocol/mrv-dashboard/internal/interfaces"
	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/routing"
	"github.com/alder-protocol/mrv-dashboard/internal/services"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
	"github.com/alder-protocol/mrv-dashboard/internal/wallet"
	"github.com/alder-protocol/mrv-dashboard/internal/wizard"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
)

var ErrNoWallet = errors.New("wallet controls are not available")

type Sanitizable interface {
	GetSanitized() interface{}
}

// WalletControl drives the server side wallet, nil when no wallet is configured
type WalletControl interface {
	SelectAccount(index int) error
	Lock()
	Unlock()
	Accounts() []common.Address
}

type HTTPHandler struct {
	session    *session.Session
	service    *services.Service
	wallet     WalletControl
	projects   *wizard.Registry[*wizard.ProjectWizard]
	mrvs       *wizard.Registry[*wizard.MRVWizard]
	projectIDs *wizard.Sequence
	estimator  wizard.Estimator
	events     *contracts.EventHistory
	config     Sanitizable
	publicUrl  *url.URL
	log        interfaces.ILogger
}

func NewHTTPHandler(sess *session.Session, service *services.Service, wallet WalletControl, estimator wizard.Estimator, events *contracts.EventHistory, cfg Sanitizable, publicUrl *url.URL, log interfaces.ILogger) *gin.Engine {
	handl := &HTTPHandler{
		session:    sess,
		service:    service,
		wallet:     wallet,
		projects:   wizard.NewRegistry[*wizard.ProjectWizard](),
		mrvs:       wizard.NewRegistry[*wizard.MRVWizard](),
		projectIDs: wizard.NewSequence(0),
		estimator:  estimator,
		events:     events,
		config:     cfg,
		publicUrl:  publicUrl,
		log:        log,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthcheck", handl.HealthCheck)
	r.GET("/config", handl.GetConfig)
	r.GET("/events", handl.GetEvents)

	r.GET("/session", handl.GetSession)
	r.POST("/session/connect", handl.Connect)
	r.POST("/session/disconnect", handl.Disconnect)
	r.POST("/session/role", handl.SelectRole)
	r.POST("/session/accounts", handl.AccountsChanged)

	r.GET("/wallet", handl.GetWallet)
	r.POST("/wallet/select", handl.SelectAccount)
	r.POST("/wallet/lock", handl.LockWallet)
	r.POST("/wallet/unlock", handl.UnlockWallet)

	r.GET("/route", handl.GetRoute)
	r.GET(routing.WelcomePath, handl.GetWelcome)
	r.POST(routing.WelcomePath, handl.SubmitWelcome)

	pages := r.Group("", routing.RoleGuard(sess))
	pages.GET(routing.FarmerProfilePath, handl.GetFarmerProfile)
	pages.GET(routing.VVBProfilePath, handl.GetVVBProfile)
	pages.GET(routing.CreateProjectPath, handl.ListProjectWizards)
	pages.GET(routing.CreateMRVPath, handl.ListMRVWizards)

	pw := r.Group("/wizards/project")
	pw.POST("", handl.CreateProjectWizard)
	pw.GET("/:id", handl.GetProjectWizard)
	pw.DELETE("/:id", handl.DeleteProjectWizard)
	pw.PATCH("/:id", handl.SetProjectFields)
	pw.POST("/:id/next", handl.ProjectNext)
	pw.POST("/:id/prev", handl.ProjectPrev)
	pw.POST("/:id/map", handl.ProjectToggleMap)
	pw.PUT("/:id/map", handl.ProjectLoadMap)
	pw.POST("/:id/map/features", handl.ProjectCreateFeature)
	pw.PUT("/:id/map/features/:featureID", handl.ProjectEditFeature)
	pw.DELETE("/:id/map/features/:featureID", handl.ProjectDeleteFeature)
	pw.POST("/:id/map/save", handl.ProjectSaveMap)
	pw.POST("/:id/submit", handl.ProjectSubmit)

	mw := r.Group("/wizards/mrv")
	mw.POST("", handl.CreateMRVWizard)
	mw.GET("/:id", handl.GetMRVWizard)
	mw.DELETE("/:id", handl.DeleteMRVWizard)
	mw.PATCH("/:id", handl.SetMRVProject)
	mw.POST("/:id/map", handl.MRVOpenMap)
	mw.PUT("/:id/map", handl.MRVLoadMap)
	mw.POST("/:id/map/features", handl.MRVCreateFeature)
	mw.PUT("/:id/map/features/:featureID", handl.MRVEditFeature)
	mw.DELETE("/:id/map/features/:featureID", handl.MRVDeleteFeature)
	mw.POST("/:id/map/save", handl.MRVSaveMap)
	mw.POST("/:id/start", handl.MRVStart)
	mw.POST("/:id/mint", handl.MRVMint)

	r.POST("/token/mint", handl.MintACDR)
	r.POST("/token/retire", handl.Retire)
	r.GET("/pool", handl.GetTotalPool)

	r.POST("/farmers", handl.AddFarmer)
	r.GET("/farmers/:address", handl.GetFarmer)
	r.DELETE("/farmers/:address", handl.RemoveFarmer)
	r.POST("/farmers/:address/acdr", handl.SetFarmerACDR)
	r.GET("/farmers/:address/balance", handl.GetFarmerBalance)
	r.GET("/farmers/:address/contribution", handl.GetFarmerContribution)

	r.POST("/vvbs", handl.AddVVB)
	r.GET("/vvbs/:address", handl.GetVVB)
	r.DELETE("/vvbs/:address", handl.RemoveVVB)

	r.POST("/projects", handl.AddProject)
	r.GET("/projects/:id", handl.GetProjectDetails)
	r.DELETE("/projects/:id", handl.RemoveProject)
	r.POST("/projects/:id/accept", handl.AcceptProject)
	r.POST("/projects/:id/reject", handl.RejectProject)
	r.POST("/projects/:id/vvb", handl.AssignVVBToProject)

	r.POST("/mrv", handl.AddMRVReport)
	r.GET("/mrv/:id", handl.GetMRVReportDetails)
	r.DELETE("/mrv/:id", handl.RemoveMRVReport)
	r.POST("/mrv/:id/vvb", handl.AssignVVBToMRV)

	err := r.SetTrustedProxies(nil)
	if err != nil {
		panic(err)
	}

	return r
}

func (h *HTTPHandler) HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"version": config.BuildVersion,
	})
}

// statusForKind maps error kinds to response codes
func statusForKind(kind lib.ErrKind) int {
	switch kind {
	case lib.KindProviderUnavailable:
		return http.StatusServiceUnavailable
	case lib.KindConnectionRejected:
		return http.StatusUnauthorized
	case lib.KindTransactionFailed:
		return http.StatusBadGateway
	case lib.KindMissingPrecondition:
		return http.StatusPreconditionFailed
	case lib.KindInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *HTTPHandler) respondError(ctx *gin.Context, err error) {
	kind := lib.KindOf(err)
	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		h.log.Errorf("%s %s: %s", ctx.Request.Method, ctx.Request.URL.Path, err)
	} else {
		h.log.Debugf("%s %s: %s", ctx.Request.Method, ctx.Request.URL.Path, err)
	}
	ctx.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Kind: kind.String()})
}

func providerUnavailable() error {
	return lib.NewKindError(lib.KindProviderUnavailable, "wallet", lib.WrapError(wallet.ErrProviderUnavailable, ErrNoWallet))
}

func (h *HTTPHandler) badRequest(ctx *gin.Context, err error) {
	h.respondError(ctx, lib.NewKindError(lib.KindInvalidInput, "", err))
}

func (h *HTTPHandler) notFound(ctx *gin.Context, what string) {
	ctx.AbortWithStatusJSON(http.StatusNotFound, ErrorResponse{Error: what + " not found", Kind: "not-found"})
}

func (h *HTTPHandler) self(path string) Resource {
	return Resource{Self: h.publicUrl.JoinPath(path).String()}
}

func parseBig(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.New("invalid unsigned integer " + s)
	}
	return v, nil
}

func parseAddr(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, errors.New("invalid address " + s)
	}
	return common.HexToAddress(s), nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}
