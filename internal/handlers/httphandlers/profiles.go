package httphandlers

import (
	"math/big"
	"net/http"

	"github.com/alder-protocol/mrv-dashboard/internal/lib"
	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/alder-protocol/mrv-dashboard/internal/session"
	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

const activityLimit = 20

// profileAddress returns the address of the connected account, or the one in ?address
func (h *HTTPHandler) profileAddress(ctx *gin.Context) (common.Address, bool) {
	if q := ctx.Query("address"); q != "" {
		return h.addressFromString(ctx, q)
	}
	addr, ok := h.session.Address()
	if !ok {
		h.respondError(ctx, lib.NewKindError(lib.KindMissingPrecondition, "profile", session.ErrNotConnected))
		return common.Address{}, false
	}
	return addr, true
}

func (h *HTTPHandler) addressFromString(ctx *gin.Context, s string) (common.Address, bool) {
	addr, err := parseAddr(s)
	if err != nil {
		h.badRequest(ctx, err)
		return common.Address{}, false
	}
	return addr, true
}

func (h *HTTPHandler) GetFarmerProfile(ctx *gin.Context) {
	addr, ok := h.profileAddress(ctx)
	if !ok {
		return
	}
	handle := h.session.Contract()

	var farmer contracts.FarmerDetails
	var balance, contrib, percentage, totalPool *big.Int

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		farmer, err = h.service.GetFarmer(gctx, handle, addr)
		return err
	})
	g.Go(func() (err error) {
		balance, err = h.service.GetFarmerBalance(gctx, handle, addr)
		return err
	})
	g.Go(func() (err error) {
		contrib, err = h.service.GetFarmerContribution(gctx, handle, addr)
		return err
	})
	g.Go(func() (err error) {
		percentage, err = h.service.GetFarmerContributionPercentage(gctx, handle, addr)
		return err
	})
	g.Go(func() (err error) {
		totalPool, err = h.service.GetTotalPool(gctx, handle)
		return err
	})
	if err := g.Wait(); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, FarmerProfileResponse{
		Resource:               h.self(ctx.Request.URL.Path),
		Address:                addr.Hex(),
		Farmer:                 farmer,
		Balance:                bigString(balance),
		Contribution:           bigString(contrib),
		ContributionPercentage: bigString(percentage),
		TotalPool:              bigString(totalPool),
		Activity:               h.activity(addr),
	})
}

func (h *HTTPHandler) GetVVBProfile(ctx *gin.Context) {
	addr, ok := h.profileAddress(ctx)
	if !ok {
		return
	}
	vvb, err := h.service.GetVVB(ctx, h.session.Contract(), addr)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, VVBProfileResponse{
		Resource: h.self(ctx.Request.URL.Path),
		Address:  addr.Hex(),
		VVB:      vvb,
		Activity: h.activity(addr),
	})
}

// activity returns the latest observed events that mention addr
func (h *HTTPHandler) activity(addr common.Address) []*contracts.ContractEvent {
	if h.events == nil {
		return []*contracts.ContractEvent{}
	}
	evs := h.events.Filter(func(ev *contracts.ContractEvent) bool {
		return involves(ev, addr)
	})
	if len(evs) > activityLimit {
		evs = evs[:activityLimit]
	}
	return evs
}

func involves(ev *contracts.ContractEvent, addr common.Address) bool {
	switch p := ev.Payload.(type) {
	case *contracts.AlderFarmerAdded:
		return p.Farmer == addr
	case *contracts.AlderFarmerRemoved:
		return p.Farmer == addr
	case *contracts.AlderVVBAdded:
		return p.Vvb == addr
	case *contracts.AlderVVBRemoved:
		return p.Vvb == addr
	case *contracts.AlderProjectAdded:
		return p.Owner == addr
	case *contracts.AlderMRVReportAdded:
		return p.Owner == addr
	case *contracts.AlderACDRMinted:
		return p.To == addr
	case *contracts.AlderACDRRetired:
		return p.From == addr
	}
	return false
}
