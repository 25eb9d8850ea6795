package httphandlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alder-protocol/mrv-dashboard/internal/repositories/contracts"
	"github.com/gin-gonic/gin"
)

const defaultEventsLimit = 50

var errBadLimit = errors.New("limit must be a positive integer")

// GetEvents lists the contract events observed by the watcher, newest first
func (h *HTTPHandler) GetEvents(ctx *gin.Context) {
	if h.events == nil {
		ctx.JSON(http.StatusOK, EventsResponse{Events: []*contracts.ContractEvent{}})
		return
	}

	limit := defaultEventsLimit
	if q := ctx.Query("limit"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v <= 0 {
			h.badRequest(ctx, errBadLimit)
			return
		}
		limit = v
	}

	var evs []*contracts.ContractEvent
	if name := ctx.Query("name"); name != "" {
		evs = h.events.Filter(func(ev *contracts.ContractEvent) bool {
			return ev.Name == name
		})
		if len(evs) > limit {
			evs = evs[:limit]
		}
	} else {
		evs = h.events.Recent(limit)
	}
	if evs == nil {
		evs = []*contracts.ContractEvent{}
	}

	ctx.JSON(http.StatusOK, EventsResponse{Total: h.events.Len(), Events: evs})
}
